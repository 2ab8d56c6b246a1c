package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tradelog"
	"github.com/etnz/tradelog/store"
	"github.com/google/subcommands"
)

type importCmd struct {
	opening string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "imports JSONL transactions into the database" }
func (*importCmd) Usage() string {
	return `tlog -db <database> import [-opening <file>] <file.jsonl>...

  Validates the transactions of each file and stores them in the database.
  Transactions are identified by their id: importing a file again replaces
  the transactions it contains. Nothing is stored if any file is invalid.

Usage Examples:
# Accumulates two broker exports.
$ tlog -db book.db import ibkr.jsonl degiro.jsonl

`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.opening, "opening", "", "Opening balances file (JSONL format) to store as well")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 && c.opening == "" {
		fmt.Fprintln(os.Stderr, "Error: no file to import")
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if cfg.Database == "" {
		fmt.Fprintln(os.Stderr, "Error: no database configured, use -db")
		return subcommands.ExitUsageError
	}
	log := cfg.Logger(os.Stderr)

	var txs []tradelog.RawTransaction
	for _, name := range f.Args() {
		decoded, err := decodeFile(name, tradelog.DecodeTransactions)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		txs = append(txs, decoded...)
	}
	var opening tradelog.OpeningBalances
	if c.opening != "" {
		if opening, err = decodeFile(c.opening, tradelog.DecodeOpeningBalances); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	if err := tradelog.Validate(txs, opening); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid input: %v\n", err)
		return subcommands.ExitFailure
	}

	s, err := store.Open(ctx, cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	if err := s.PutTransactions(ctx, txs); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := s.PutOpeningBalances(ctx, opening); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	total, err := s.Count(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	log.Info().
		Str("database", s.Path()).
		Int("imported", len(txs)).
		Int("openingBalances", len(opening)).
		Int("total", total).
		Msg("import done")
	fmt.Fprintf(os.Stderr, "✅ Imported %d transactions into %s (%d in total).\n", len(txs), s.Path(), total)
	return subcommands.ExitSuccess
}
