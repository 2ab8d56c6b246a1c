package tradelog

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// PortfolioResult is the complete output of a replay.
type PortfolioResult struct {
	Ledger   []LedgerRow
	Balances Balances
	Episodes []*Episode
}

// Replayer runs the two replay passes. It holds configuration only, every
// replay owns its working set, so a Replayer can be shared.
type Replayer struct {
	log        zerolog.Logger
	rollWindow time.Duration
	parallel   bool
}

// Option configures a Replayer.
type Option func(*Replayer)

// WithRollWindow overrides DefaultRollWindow.
func WithRollWindow(d time.Duration) Option {
	return func(r *Replayer) { r.rollWindow = d }
}

// WithParallel replays currency partitions concurrently.
func WithParallel(parallel bool) Option {
	return func(r *Replayer) { r.parallel = parallel }
}

// NewReplayer creates a Replayer logging to log.
func NewReplayer(log zerolog.Logger, opts ...Option) *Replayer {
	r := &Replayer{
		log:        log.With().Str("component", "replay").Logger(),
		rollWindow: DefaultRollWindow,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var silent = NewReplayer(zerolog.Nop())

// BuildLedger runs the first pass with the default, silent, Replayer.
func BuildLedger(txs []RawTransaction, tickers TickerLookup, opening OpeningBalances) LedgerResult {
	return silent.BuildLedger(txs, tickers, opening)
}

// BuildEpisodes runs the second pass with the default, silent, Replayer.
func BuildEpisodes(rows []LedgerRow) []*Episode {
	return silent.BuildEpisodes(rows)
}

// BuildPortfolioView replays transactions with the default, silent, Replayer.
func BuildPortfolioView(txs []RawTransaction, tickers TickerLookup, opening OpeningBalances) (*PortfolioResult, error) {
	return silent.BuildPortfolioView(txs, tickers, opening)
}

// Validate checks transactions and opening balances for malformed data.
// Transaction ids must be unique for the replay order to be total.
func Validate(txs []RawTransaction, opening OpeningBalances) error {
	var errs error
	seen := make(map[string]struct{}, len(txs))
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			errs = errors.Join(errs, err)
		}
		if _, dup := seen[tx.ID]; dup {
			errs = errors.Join(errs, fmt.Errorf("duplicate transaction id %q", tx.ID))
		}
		seen[tx.ID] = struct{}{}
	}
	for _, account := range slices.Sorted(maps.Keys(opening)) {
		if m := opening[account]; !m.IsSet() {
			errs = errors.Join(errs, fmt.Errorf("%w: opening balance of %q has no currency", ErrUnknownCurrency, account))
		}
	}
	return errs
}

// partition is the replay unit: all transactions of one currency.
type partition struct {
	cur     Currency
	txs     []RawTransaction
	opening OpeningBalances
	result  *PortfolioResult
}

// BuildPortfolioView validates the input, partitions it by currency and runs
// both passes on each partition before merging the results.
func (r *Replayer) BuildPortfolioView(txs []RawTransaction, tickers TickerLookup, opening OpeningBalances) (*PortfolioResult, error) {
	if err := Validate(txs, opening); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	parts := partitions(txs, opening)
	var g errgroup.Group
	if !r.parallel {
		g.SetLimit(1)
	}
	for _, p := range parts {
		g.Go(func() error {
			p.result = r.replay(p, tickers)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &PortfolioResult{Balances: make(Balances)}
	for _, p := range parts {
		merged.Ledger = append(merged.Ledger, p.result.Ledger...)
		merged.Balances.merge(p.result.Balances)
		merged.Episodes = append(merged.Episodes, p.result.Episodes...)
	}
	slices.SortStableFunc(merged.Ledger, func(a, b LedgerRow) int { return compareTransactions(a.RawTransaction, b.RawTransaction) })
	sortEpisodes(merged.Episodes)
	return merged, nil
}

// replay runs pass 1 then pass 2 on a single currency partition.
func (r *Replayer) replay(p *partition, tickers TickerLookup) *PortfolioResult {
	ledger := r.BuildLedger(p.txs, tickers, p.opening)
	episodes := r.BuildEpisodes(ledger.Rows)

	accepted := len(ledger.Accepted())
	r.log.Info().
		Str("currency", string(p.cur)).
		Int("accepted", accepted).
		Int("rejected", len(ledger.Rows)-accepted).
		Int("episodes", len(episodes)).
		Msg("partition replayed")
	return &PortfolioResult{Ledger: ledger.Rows, Balances: ledger.Balances, Episodes: episodes}
}

// partitions splits transactions and opening balances by currency, in currency order.
func partitions(txs []RawTransaction, opening OpeningBalances) []*partition {
	byCur := make(map[Currency]*partition)
	get := func(c Currency) *partition {
		p, ok := byCur[c]
		if !ok {
			p = &partition{cur: c, opening: make(OpeningBalances)}
			byCur[c] = p
		}
		return p
	}
	for _, tx := range txs {
		p := get(tx.Currency)
		p.txs = append(p.txs, tx)
	}
	for account, m := range opening {
		get(m.Currency()).opening[account] = m
	}

	parts := make([]*partition, 0, len(byCur))
	for _, c := range slices.Sorted(maps.Keys(byCur)) {
		parts = append(parts, byCur[c])
	}
	return parts
}
