package tradelog

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/etnz/tradelog/date"
)

// InstrumentKind is the kind of instrument a transaction moves.
type InstrumentKind string

const (
	Cash   InstrumentKind = "CASH"
	Shares InstrumentKind = "SHARES"
	Call   InstrumentKind = "CALL"
	Put    InstrumentKind = "PUT"
)

// Valid reports whether k is a known instrument kind.
func (k InstrumentKind) Valid() bool {
	switch k {
	case Cash, Shares, Call, Put:
		return true
	default:
		return false
	}
}

// IsOption reports whether k is a CALL or a PUT.
func (k InstrumentKind) IsOption() bool { return k == Call || k == Put }

// Multiplier is the number of units settled per quoted unit: options are quoted
// per share but settle per contract of 100.
func (k InstrumentKind) Multiplier() Quantity {
	if k.IsOption() {
		return Q(100)
	}
	return Q(1)
}

// Group returns the episode kind group of k.
func (k InstrumentKind) Group() KindGroup {
	switch k {
	case Cash:
		return GroupCash
	case Shares:
		return GroupShares
	default:
		return GroupOption
	}
}

// KindGroup groups instrument kinds for reporting: calls and puts are both options.
type KindGroup string

const (
	GroupCash   KindGroup = "CASH"
	GroupShares KindGroup = "SHARES"
	GroupOption KindGroup = "OPTION"
)

// ParseKindGroup parses a kind group, case insensitive.
func ParseKindGroup(s string) (KindGroup, error) {
	switch g := KindGroup(strings.ToUpper(s)); g {
	case GroupCash, GroupShares, GroupOption:
		return g, nil
	default:
		return "", fmt.Errorf("unknown kind group %q", s)
	}
}

// Side is the direction of a trade.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Sign returns +1 for Buy, -1 for Sell and 0 when the side is absent.
func (s Side) Sign() int {
	switch s {
	case Buy:
		return 1
	case Sell:
		return -1
	default:
		return 0
	}
}

// RawTransaction is an input event, as produced by imports or manual entry.
// The engine never modifies it.
type RawTransaction struct {
	ID           string
	User         string
	Account      string
	Timestamp    time.Time
	Kind         InstrumentKind
	TickerID     string    // reference resolved through a TickerLookup
	TickerSymbol string    // denormalized display name of TickerID
	Expiry       date.Date // options only
	Strike       Money     // options only
	Side         Side      // absent for CASH
	Quantity     Quantity  // magnitude, never negative
	Price        Money
	Fees         Money // zero value means no fees
	Currency     Currency
	Memo         string
}

// SignedQuantity returns the quantity signed by the side.
func (t RawTransaction) SignedQuantity() Quantity {
	if t.Side == Sell {
		return t.Quantity.Neg()
	}
	return t.Quantity
}

// fees returns the fees, defaulting to zero in the transaction currency.
func (t RawTransaction) fees() Money {
	if t.Fees.IsSet() {
		return t.Fees
	}
	return Zero(t.Currency)
}

// Validate reports malformed data: things that are not business rejections but
// would make the replay meaningless (unknown currency, amounts in another
// currency than the transaction, negative quantity).
func (t RawTransaction) Validate() error {
	var errs error
	if t.ID == "" {
		errs = errors.Join(errs, errors.New("missing id"))
	}
	if !t.Currency.Valid() {
		errs = errors.Join(errs, fmt.Errorf("%w: %q", ErrUnknownCurrency, string(t.Currency)))
	}
	if !t.Kind.Valid() {
		errs = errors.Join(errs, fmt.Errorf("unknown instrument kind %q", string(t.Kind)))
	}
	if t.Side != "" && t.Side.Sign() == 0 {
		errs = errors.Join(errs, fmt.Errorf("unknown side %q", string(t.Side)))
	}
	if t.Quantity.IsNegative() {
		errs = errors.Join(errs, fmt.Errorf("%w: negative quantity %s", ErrInvalidAmount, t.Quantity))
	}
	amounts := []struct {
		name string
		m    Money
	}{{"price", t.Price}, {"fees", t.Fees}, {"strike", t.Strike}}
	for _, a := range amounts {
		if a.m.IsSet() && a.m.Currency() != t.Currency {
			errs = errors.Join(errs, fmt.Errorf("%w: %s in %s for a %s transaction", ErrCurrencyMismatch, a.name, a.m.Currency(), t.Currency))
		}
	}
	if errs != nil {
		return fmt.Errorf("transaction %q: %w", t.ID, errs)
	}
	return nil
}

// compareTransactions is the replay order: timestamp then id.
func compareTransactions(a, b RawTransaction) int {
	if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// SortTransactions returns a copy of txs in replay order: timestamp, then id.
func SortTransactions(txs []RawTransaction) []RawTransaction {
	sorted := slices.Clone(txs)
	slices.SortFunc(sorted, compareTransactions)
	return sorted
}

// instrumentKey identifies the instrument traded by t, once its ticker is resolved:
// "CASH", the ticker symbol, or "ticker|RIGHT|strike|expiry" for options.
func instrumentKey(t RawTransaction, symbol string) string {
	switch {
	case t.Kind == Cash:
		return string(Cash)
	case t.Kind.IsOption():
		return strings.Join([]string{symbol, string(t.Kind), t.Strike.Fixed(), t.Expiry.String()}, "|")
	default:
		return symbol
	}
}

// TickerLookup resolves ticker ids into display names.
type TickerLookup map[string]string

// NewTickerLookup builds a lookup from the denormalized references carried by
// the transactions themselves.
func NewTickerLookup(txs []RawTransaction) TickerLookup {
	lookup := make(TickerLookup)
	for _, tx := range txs {
		if tx.TickerID != "" && tx.TickerSymbol != "" {
			lookup[tx.TickerID] = tx.TickerSymbol
		}
	}
	return lookup
}

// Resolve returns the display name of a ticker id.
func (l TickerLookup) Resolve(id string) (string, bool) {
	if id == "" {
		return "", false
	}
	name, ok := l[id]
	return name, ok && name != ""
}
