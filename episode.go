package tradelog

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/etnz/tradelog/date"
	"github.com/google/uuid"
)

// DefaultRollWindow is the roll detection policy: a new option leg opened at
// most this long after a matching leg was closed continues its episode.
// The boundary is inclusive.
const DefaultRollWindow = 10 * time.Hour

// Notes set on the legs of a roll.
const (
	NoteRollClose = "ROLL-CLOSE"
	NoteRollOpen  = "ROLL-OPEN"
)

// ActionTerm is the broker vocabulary for a fill.
type ActionTerm string

const (
	BTO      ActionTerm = "BTO" // buy to open
	STO      ActionTerm = "STO" // sell to open
	BTC      ActionTerm = "BTC" // buy to close
	STC      ActionTerm = "STC" // sell to close
	BuyTerm  ActionTerm = "BUY"
	SellTerm ActionTerm = "SELL"
)

// OptionDirection is the strategy of an option episode, set by its opening fill.
type OptionDirection string

const (
	CashSecuredPut OptionDirection = "CSP"
	CoveredCall    OptionDirection = "CC"
	LongCall       OptionDirection = "CALL"
	LongPut        OptionDirection = "PUT"
)

// EpisodeTxn is one fill of an episode with its economics.
type EpisodeTxn struct {
	LedgerRow
	RealizedPnL Money
	Action      ActionTerm
	Note        string
}

// Episode is the lifecycle of one logical position, from the fill that opens it
// to the fill that brings it back to zero. Option rolls extend an episode onto
// another contract.
type Episode struct {
	ID          string
	User        string
	Account     string
	Key         string // "CASH", ticker, or "ticker|RIGHT|strike|expiry" of the opening contract
	Group       KindGroup
	Currency    Currency
	Symbol      string
	Opened      time.Time
	Closed      time.Time // zero while open
	Rolled      bool
	Qty         Quantity // signed, zero when closed
	AvgPrice    Money    // per unit, fees included, kept after close
	TotalFees   Money
	CashTotal   Money
	RealizedPnL Money
	Direction   OptionDirection // options only
	Txns        []EpisodeTxn
}

// IsOpen reports whether the episode still holds a position.
func (e *Episode) IsOpen() bool { return !e.Qty.IsZero() }

// ClosedAt returns the close time, if the episode is closed.
func (e *Episode) ClosedAt() (time.Time, bool) { return e.Closed, !e.Closed.IsZero() }

// CurrentLeg returns the option contract of the latest fill.
func (e *Episode) CurrentLeg() (right InstrumentKind, strike Money, expiry date.Date, ok bool) {
	if e.Group != GroupOption || len(e.Txns) == 0 {
		return "", Money{}, date.Date{}, false
	}
	last := e.Txns[len(e.Txns)-1]
	return last.Kind, last.Strike, last.Expiry, true
}

func (e *Episode) last() *EpisodeTxn { return &e.Txns[len(e.Txns)-1] }

// slotKey identifies an open episode.
type slotKey struct {
	user, account, instrument string
}

// rollKey identifies closed option episodes that a new leg could continue.
type rollKey struct {
	user, account, symbol string
	right                 InstrumentKind
}

func rollKeyOf(row LedgerRow) rollKey {
	return rollKey{user: row.User, account: row.Account, symbol: row.Symbol, right: row.Kind}
}

// episodeBuilder is the private working set of one episode replay.
type episodeBuilder struct {
	window     time.Duration
	open       map[slotKey]*Episode
	candidates map[rollKey][]*Episode // closed option episodes, in close order
	episodes   []*Episode
}

// BuildEpisodes groups accepted ledger rows into position episodes. Rejected
// rows are ignored.
func (r *Replayer) BuildEpisodes(rows []LedgerRow) []*Episode {
	accepted := make([]LedgerRow, 0, len(rows))
	for _, row := range rows {
		if row.Accepted {
			accepted = append(accepted, row)
		}
	}
	slices.SortFunc(accepted, func(a, b LedgerRow) int { return compareTransactions(a.RawTransaction, b.RawTransaction) })

	b := &episodeBuilder{
		window:     r.rollWindow,
		open:       make(map[slotKey]*Episode),
		candidates: make(map[rollKey][]*Episode),
	}
	for _, row := range accepted {
		b.add(row)
	}
	sortEpisodes(b.episodes)
	return b.episodes
}

func (b *episodeBuilder) add(row LedgerRow) {
	if row.Kind == Cash {
		e := newEpisode(row)
		e.TotalFees = row.fees()
		e.CashTotal = row.CashDelta
		e.Closed = row.Timestamp
		e.Txns = append(e.Txns, EpisodeTxn{LedgerRow: row, RealizedPnL: Zero(row.Currency), Action: mirror(row.Side)})
		b.episodes = append(b.episodes, e)
		return
	}

	slot := slotKey{user: row.User, account: row.Account, instrument: row.InstrumentKey()}
	e, ok := b.open[slot]
	if ok {
		e.apply(row, "")
	} else {
		if e = b.continues(row); e != nil {
			b.roll(e, row)
		} else {
			e = newEpisode(row)
			e.apply(row, "")
			b.episodes = append(b.episodes, e)
		}
		b.open[slot] = e
	}

	if e.Qty.IsZero() {
		e.Closed = row.Timestamp
		delete(b.open, slot)
		if row.Kind.IsOption() {
			key := rollKeyOf(row)
			b.candidates[key] = append(b.candidates[key], e)
		}
	}
}

// continues returns the closed episode that row rolls, if any: the most
// recently closed candidate that passes every roll check.
func (b *episodeBuilder) continues(row LedgerRow) *Episode {
	if !row.Kind.IsOption() {
		return nil
	}
	key := rollKeyOf(row)
	// candidates closed before the window can never roll again.
	kept := slices.DeleteFunc(b.candidates[key], func(e *Episode) bool {
		return e.IsOpen() || row.Timestamp.Sub(e.Closed) > b.window
	})
	b.candidates[key] = kept
	for i := len(kept) - 1; i >= 0; i-- {
		if b.rolls(kept[i], row) {
			return kept[i]
		}
	}
	return nil
}

// rolls reports whether row, opening a new contract, continues the closed episode e.
func (b *episodeBuilder) rolls(e *Episode, row LedgerRow) bool {
	last := e.last()
	gap := row.Timestamp.Sub(e.Closed)
	switch {
	case gap < 0 || gap > b.window:
		return false
	case last.Side == row.Side:
		return false
	case !last.Quantity.Equal(row.Quantity):
		return false
	case last.Strike.Equal(row.Strike) && last.Expiry == row.Expiry:
		// reopening the very same contract is a new episode.
		return false
	}
	return true
}

// roll reopens a closed episode onto the contract of row.
func (b *episodeBuilder) roll(e *Episode, row LedgerRow) {
	key := rollKeyOf(row)
	b.candidates[key] = slices.DeleteFunc(b.candidates[key], func(c *Episode) bool { return c == e })
	e.Rolled = true
	e.last().Note = NoteRollClose
	e.Closed = time.Time{}
	e.Qty = Quantity{}
	e.AvgPrice = Money{}
	e.apply(row, NoteRollOpen)
}

// newEpisode creates an empty episode opened by row.
func newEpisode(row LedgerRow) *Episode {
	key := row.InstrumentKey()
	e := &Episode{
		ID:          episodeID(row, key),
		User:        row.User,
		Account:     row.Account,
		Key:         key,
		Group:       row.Kind.Group(),
		Currency:    row.Currency,
		Symbol:      row.Symbol,
		Opened:      row.Timestamp,
		TotalFees:   Zero(row.Currency),
		CashTotal:   Zero(row.Currency),
		RealizedPnL: Zero(row.Currency),
	}
	if row.Kind.IsOption() {
		e.Direction = direction(row.Kind, row.Side)
	}
	return e
}

// apply adds a fill to the episode: it either extends the position, updating the
// weighted average cost, or reduces it, realizing P&L against that cost.
func (e *Episode) apply(row LedgerRow, note string) {
	mult := row.Kind.Multiplier()
	fees := row.fees()
	signed := row.SignedQuantity()
	realized := Zero(row.Currency)

	if e.Qty.IsZero() || e.Qty.Sign() == signed.Sign() {
		entry := row.Price.Add(fees.Div(row.Quantity.Mul(mult)))
		if e.Qty.IsZero() {
			e.AvgPrice = entry
		} else {
			held := e.Qty.Abs().Mul(mult)
			added := row.Quantity.Mul(mult)
			e.AvgPrice = e.AvgPrice.Mul(held).Add(entry.Mul(added)).Div(held.Add(added))
		}
	} else {
		perUnit := row.Price.Sub(e.AvgPrice)
		if e.Qty.IsNegative() {
			perUnit = perUnit.Neg()
		}
		realized = perUnit.Mul(row.Quantity).Mul(mult).Sub(fees)
		e.RealizedPnL = e.RealizedPnL.Add(realized)
	}

	e.Qty = e.Qty.Add(signed)
	e.TotalFees = e.TotalFees.Add(fees)
	e.CashTotal = e.CashTotal.Add(row.CashDelta)
	e.Txns = append(e.Txns, EpisodeTxn{
		LedgerRow:   row,
		RealizedPnL: realized,
		Action:      e.action(row),
		Note:        note,
	})
}

// action names a fill. Option fills are compared to the side of the episode's
// opening fill.
func (e *Episode) action(row LedgerRow) ActionTerm {
	if !row.Kind.IsOption() {
		return mirror(row.Side)
	}
	opening := row.Side
	if len(e.Txns) > 0 {
		opening = e.Txns[0].Side
	}
	switch {
	case row.Side == opening && row.Side == Buy:
		return BTO
	case row.Side == opening:
		return STO
	case row.Side == Buy:
		return BTC
	default:
		return STC
	}
}

func mirror(s Side) ActionTerm {
	switch s {
	case Buy:
		return BuyTerm
	case Sell:
		return SellTerm
	default:
		return ""
	}
}

func direction(right InstrumentKind, side Side) OptionDirection {
	switch {
	case side == Sell && right == Put:
		return CashSecuredPut
	case side == Sell:
		return CoveredCall
	case right == Put:
		return LongPut
	default:
		return LongCall
	}
}

var episodeNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/etnz/tradelog/episode"))

// episodeID derives a stable id from the episode's identity and opening fill,
// so that replays of the same input give the same ids.
func episodeID(row LedgerRow, key string) string {
	name := strings.Join([]string{row.User, row.Account, key, row.ID}, "\x00")
	return uuid.NewSHA1(episodeNamespace, []byte(name)).String()
}

// sortEpisodes orders episodes by user, account, key, open time, then opening
// transaction id.
func sortEpisodes(episodes []*Episode) {
	slices.SortFunc(episodes, func(a, b *Episode) int {
		return cmp.Or(
			cmp.Compare(a.User, b.User),
			cmp.Compare(a.Account, b.Account),
			cmp.Compare(a.Key, b.Key),
			a.Opened.Compare(b.Opened),
			cmp.Compare(a.Txns[0].ID, b.Txns[0].ID),
		)
	})
}
