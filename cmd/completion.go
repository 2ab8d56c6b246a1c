package cmd

import (
	"flag"

	"github.com/etnz/tradelog/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictors are the predictions for flags whose values are known.
var flagPredictors = map[string]complete.Predictor{
	"config":      predict.Files("*.yaml"),
	"ledger-file": predict.Files("*.jsonl"),
	"opening":     predict.Files("*.jsonl"),
	"db":          predict.Files("*.db"),
	"o":           predict.Files("*.jsonl"),
	"period":      predict.Set{"day", "week", "month", "quarter", "year"},
	"mode":        predict.Set{"overlap", "opened", "closed"},
	"state":       predict.Set{"open", "closed"},
	"kind":        predict.Set{"shares", "option", "cash"},
}

// argsPredictors are the predictions for the positional arguments of a command.
var argsPredictors = map[string]complete.Predictor{
	"import": predict.Files("*.jsonl"),
	"topic":  predict.Set(topicNames()),
}

// topicNames lists the manual pages, "*" included.
func topicNames() []string {
	names, _ := docs.All()
	return append(names, "*")
}

// Completion returns the shell completion for the commands registered in c.
//
// Flags are predicted from the commands flag sets.
func Completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: predictFlags(c.VisitAll),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, sc subcommands.Command) {
		f := flag.NewFlagSet(sc.Name(), flag.ContinueOnError)
		sc.SetFlags(f)
		cmd := &complete.Command{Flags: predictFlags(f.VisitAll)}
		if p, ok := argsPredictors[sc.Name()]; ok {
			cmd.Args = p
		}
		root.Sub[sc.Name()] = cmd
	})
	return root
}

// predictFlags predicts every flag visited.
func predictFlags(visit func(func(*flag.Flag))) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	visit(func(fl *flag.Flag) {
		if p, ok := flagPredictors[fl.Name]; ok {
			flags[fl.Name] = p
			return
		}
		if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[fl.Name] = predict.Nothing
			return
		}
		flags[fl.Name] = predict.Something
	})
	return flags
}
