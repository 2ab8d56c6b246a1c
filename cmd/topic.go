package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/tradelog/docs"
	"github.com/google/subcommands"
)

// topicCmd prints the embedded tlog manual.
type topicCmd struct {
	list bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read the tlog manual" }
func (*topicCmd) Usage() string {
	return `tlog topic [-list] [<topic>...]

  Prints manual pages about the transaction log, the ledger pass, episodes
  and option rolls. Without a topic, prints the overview that lists them.
  "*" prints every page.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "list", false, "only list the available topics")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	md, err := manual(c.list, f.Args()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tlog topic: %v\n", err)
		return subcommands.ExitUsageError
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

// manual returns the markdown for the requested topics, the overview when
// there is none.
func manual(listOnly bool, topics ...string) (string, error) {
	switch {
	case listOnly:
		return topicIndex()
	case len(topics) == 0:
		return docs.Topic("readme")
	}
	return docs.Topics(topics...)
}

func topicIndex() (string, error) {
	names, err := docs.All()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("## Topics\n\n")
	for _, name := range names {
		fmt.Fprintf(&b, "- `tlog topic %s`\n", name)
	}
	b.WriteString("\nUse `tlog topic '*'` to print them all.\n")
	return b.String(), nil
}
