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

// episodesCmd holds the flags for the 'episodes' subcommand.
type episodesCmd struct {
	jsonFlags
	episodeFilters
	fills bool
}

func (*episodesCmd) Name() string     { return "episodes" }
func (*episodesCmd) Synopsis() string { return "display position episodes with cost basis and realized P&L" }
func (*episodesCmd) Usage() string {
	return `tlog episodes [-account <account>] [-kind <kind>] [-state open|closed]
              [-s <date>] [-d <date>] [-period <period>] [-mode overlap|opened|closed]
              [-fills] [-json] [-select <jsonpath>]

  Displays each position from the fill that opens it to the fill that closes
  it, with its weighted average cost, fees, cash flow and realized P&L. Option
  rolls are shown as a single episode.

Usage Examples:
# Option episodes still open.
$ tlog episodes -kind option -state open

# Episodes closed this month, with their fills.
$ tlog episodes -period month -mode closed -fills

`
}

func (c *episodesCmd) SetFlags(f *flag.FlagSet) {
	c.jsonFlags.SetFlags(f)
	c.episodeFilters.SetFlags(f, tradelog.Overlap)
	f.BoolVar(&c.fills, "fills", false, "Show the fills of each episode")
}

func (c *episodesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	preds, _, err := c.predicates()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	result, err := replay(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	episodes := tradelog.Filter(result.Episodes, preds...)

	if c.enabled() {
		if err := c.print(episodes); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	md := renderer.RenderEpisodes(renderer.NewEpisodes(episodes), renderer.EpisodesRenderOptions{SkipFills: !c.fills})
	printMarkdown(md)
	return subcommands.ExitSuccess
}
