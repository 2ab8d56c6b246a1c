package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tradelog"
	"github.com/etnz/tradelog/renderer"
	"github.com/google/subcommands"
)

// pnlCmd holds the flags for the 'pnl' subcommand.
type pnlCmd struct {
	jsonFlags
	episodeFilters
}

func (*pnlCmd) Name() string     { return "pnl" }
func (*pnlCmd) Synopsis() string { return "display realized P&L per account and currency" }
func (*pnlCmd) Usage() string {
	return `tlog pnl [-s <date>] [-d <date>] [-period <period>] [-mode overlap|opened|closed]
         [-account <account>] [-kind <kind>] [-json] [-select <jsonpath>]

  Sums the realized P&L and cash flows of the selected episodes per account and
  currency. Currencies are never mixed.

Usage Examples:
# Realized P&L of episodes closed during the current year.
$ tlog pnl -period year

`
}

func (c *pnlCmd) SetFlags(f *flag.FlagSet) {
	c.jsonFlags.SetFlags(f)
	c.episodeFilters.SetFlags(f, tradelog.ClosedDuring)
}

func (c *pnlCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	preds, title, err := c.predicates()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	result, err := replay(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	report := renderer.NewPnL(title, tradelog.Filter(result.Episodes, preds...))

	if c.enabled() {
		if err := c.print(report); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.RenderPnL(report))
	return subcommands.ExitSuccess
}
