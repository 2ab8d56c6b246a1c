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

// ledgerCmd holds the flags for the 'ledger' subcommand.
type ledgerCmd struct {
	jsonFlags
	account  string
	rejected bool
}

func (*ledgerCmd) Name() string     { return "ledger" }
func (*ledgerCmd) Synopsis() string { return "display the audited ledger with running balances" }
func (*ledgerCmd) Usage() string {
	return `tlog ledger [-account <account>] [-rejected] [-json] [-select <jsonpath>]

  Replays all transactions and displays each one with its cash effect, the
  account balance right after it, and the reason when it was rejected.

Usage Examples:
# Lists the rejected transactions ids.
$ tlog ledger -select '$[?(@.accepted == false)].id'

`
}

func (c *ledgerCmd) SetFlags(f *flag.FlagSet) {
	c.jsonFlags.SetFlags(f)
	f.StringVar(&c.account, "account", "", "Only transactions of this account")
	f.BoolVar(&c.rejected, "rejected", false, "Only rejected transactions")
}

func (c *ledgerCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	result, err := replay(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	rows := make([]tradelog.LedgerRow, 0, len(result.Ledger))
	for _, r := range result.Ledger {
		if c.account != "" && r.Account != c.account {
			continue
		}
		if c.rejected && r.Accepted {
			continue
		}
		rows = append(rows, r)
	}

	if c.enabled() {
		if err := c.print(rows); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.RenderLedger(renderer.NewLedger(rows)))
	return subcommands.ExitSuccess
}
