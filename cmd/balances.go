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

// balancesCmd holds the flags for the 'balances' subcommand.
type balancesCmd struct {
	jsonFlags
	account string
}

func (*balancesCmd) Name() string     { return "balances" }
func (*balancesCmd) Synopsis() string { return "display cash balances per account and currency" }
func (*balancesCmd) Usage() string {
	return `tlog balances [-account <account>] [-json] [-select <jsonpath>]

  Displays the cash balance of each account in each currency after replaying
  all accepted transactions, and the totals per currency.
`
}

func (c *balancesCmd) SetFlags(f *flag.FlagSet) {
	c.jsonFlags.SetFlags(f)
	f.StringVar(&c.account, "account", "", "Only this account")
}

func (c *balancesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	result, err := replay(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	balances := result.Balances
	if c.account != "" {
		balances = tradelog.Balances{}
		if byCur, ok := result.Balances[c.account]; ok {
			balances[c.account] = byCur
		}
	}

	if c.enabled() {
		if err := c.print(balances); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.RenderBalances(renderer.NewBalances(balances)))
	return subcommands.ExitSuccess
}
