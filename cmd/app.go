// Package cmd implements the tlog command line application.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/tradelog"
	"github.com/etnz/tradelog/config"
	"github.com/etnz/tradelog/store"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&importCmd{}, "data")
	c.Register(&fmtCmd{}, "data")

	c.Register(&ledgerCmd{}, "reports")
	c.Register(&episodesCmd{}, "reports")
	c.Register(&balancesCmd{}, "reports")
	c.Register(&pnlCmd{}, "reports")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", config.DefaultFile, "Path to the configuration file (YAML)")
var ledgerFile = flag.String("ledger-file", "", "Path to the transactions file (JSONL format). Overrides the configuration")
var dbFile = flag.String("db", "", "Path to the SQLite transactions database. Overrides the configuration")
var openingFile = flag.String("opening", "", "Path to the opening balances file (JSONL format). Overrides the configuration")
var verbose = flag.Bool("v", false, "Log at debug level")

// loadConfig loads the configuration and applies the global flags on top of it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	switch {
	case *dbFile != "":
		cfg.Database = *dbFile
	case *ledgerFile != "":
		cfg.Transactions = *ledgerFile
		cfg.Database = ""
	}
	if *openingFile != "" {
		cfg.OpeningBalances = *openingFile
	}
	if *verbose {
		cfg.Log.Level = zerolog.LevelDebugValue
	}
	return cfg, cfg.Validate()
}

// book is the input of a replay.
type book struct {
	txs     []tradelog.RawTransaction
	opening tradelog.OpeningBalances
}

// loadBook reads transactions from the database, or the transactions file when
// no database is configured, and the opening balances file if any.
func loadBook(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*book, error) {
	b := &book{opening: make(tradelog.OpeningBalances)}
	source := cfg.Transactions
	if cfg.Database != "" {
		source = cfg.Database
		s, err := store.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		if b.txs, err = s.Transactions(ctx); err != nil {
			return nil, err
		}
		if b.opening, err = s.OpeningBalances(ctx); err != nil {
			return nil, err
		}
	} else {
		txs, err := decodeFile(cfg.Transactions, tradelog.DecodeTransactions)
		if err != nil {
			return nil, err
		}
		b.txs = txs
	}

	if cfg.OpeningBalances != "" {
		opening, err := decodeFile(cfg.OpeningBalances, tradelog.DecodeOpeningBalances)
		if err != nil {
			return nil, err
		}
		for account, m := range opening {
			b.opening[account] = m
		}
	}
	log.Debug().
		Str("source", source).
		Int("transactions", len(b.txs)).
		Int("openingBalances", len(b.opening)).
		Msg("book loaded")
	return b, nil
}

// decodeFile opens name and decodes it.
func decodeFile[T any](name string, decode func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(name)
	if err != nil {
		return zero, fmt.Errorf("could not open %q: %w", name, err)
	}
	defer f.Close()
	v, err := decode(f)
	if err != nil {
		return zero, fmt.Errorf("could not decode %q: %w", name, err)
	}
	return v, nil
}

// replay loads the configured book and runs the two passes over it.
func replay(ctx context.Context) (*tradelog.PortfolioResult, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := cfg.Logger(os.Stderr)

	b, err := loadBook(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	window, err := cfg.Window()
	if err != nil {
		return nil, err
	}
	r := tradelog.NewReplayer(log, tradelog.WithRollWindow(window), tradelog.WithParallel(true))
	return r.BuildPortfolioView(b.txs, tradelog.NewTickerLookup(b.txs), b.opening)
}
