package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tradelog"
	"github.com/google/subcommands"
)

type fmtCmd struct {
	outputFile string
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the transactions file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `tlog fmt [-o <file>]

  Validates and formats the transactions file. This command reads all
  transactions, validates them, sorts them in replay order (timestamp, then id)
  and writes them back in a canonical JSONL format.
  By default, it formats the file in-place. Use -o to write somewhere else,
  "-" is the standard output.

Usage Examples:
# Formats the default transactions file.
$ tlog fmt

`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.outputFile, "o", "", "Output file. Formats in-place by default.")
}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if cfg.Transactions == "" {
		fmt.Fprintln(os.Stderr, "Error: no transactions file configured, use -ledger-file")
		return subcommands.ExitUsageError
	}

	txs, err := decodeFile(cfg.Transactions, tradelog.DecodeTransactions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := tradelog.Validate(txs, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid transactions: %v\n", err)
		return subcommands.ExitFailure
	}

	var buf bytes.Buffer
	if err := tradelog.EncodeTransactions(&buf, tradelog.SortTransactions(txs)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	switch p.outputFile {
	case "-":
		os.Stdout.Write(buf.Bytes())
		return subcommands.ExitSuccess
	case "":
		p.outputFile = cfg.Transactions
	}
	if err := os.WriteFile(p.outputFile, buf.Bytes(), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving %q: %v\n", p.outputFile, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "✅ Successfully formatted %d transactions into %s.\n", len(txs), p.outputFile)
	return subcommands.ExitSuccess
}
