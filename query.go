package tradelog

import (
	"fmt"

	"github.com/etnz/tradelog/date"
)

// RangeMode selects how an episode relates to a date range.
type RangeMode int

const (
	// Overlap keeps episodes whose open-to-close span intersects the range,
	// open episodes span until today and beyond.
	Overlap RangeMode = iota
	// OpenedDuring keeps episodes opened within the range.
	OpenedDuring
	// ClosedDuring keeps closed episodes whose close falls within the range.
	ClosedDuring
)

func (m RangeMode) String() string {
	switch m {
	case Overlap:
		return "overlap"
	case OpenedDuring:
		return "opened"
	case ClosedDuring:
		return "closed"
	default:
		return "unknown"
	}
}

// ParseRangeMode parses a range mode name.
func ParseRangeMode(s string) (RangeMode, error) {
	switch s {
	case "overlap":
		return Overlap, nil
	case "opened", "openedDuring":
		return OpenedDuring, nil
	case "closed", "closedDuring":
		return ClosedDuring, nil
	default:
		return 0, fmt.Errorf("unknown range mode: %q", s)
	}
}

// Filter returns the episodes accepted by all predicates, preserving order.
func Filter(episodes []*Episode, predicates ...func(*Episode) bool) []*Episode {
	var kept []*Episode
next:
	for _, e := range episodes {
		for _, p := range predicates {
			if !p(e) {
				continue next
			}
		}
		kept = append(kept, e)
	}
	return kept
}

// ByAccount returns a predicate that filters episodes by account.
func ByAccount(account string) func(*Episode) bool {
	return func(e *Episode) bool { return e.Account == account }
}

// ByKindGroup returns a predicate that filters episodes by kind group.
func ByKindGroup(g KindGroup) func(*Episode) bool {
	return func(e *Episode) bool { return e.Group == g }
}

// IsOpen is the predicate of episodes holding a position.
func IsOpen(e *Episode) bool { return e.IsOpen() }

// IsClosed is the predicate of flat episodes.
func IsClosed(e *Episode) bool { return !e.IsOpen() }

// InRange returns a predicate that filters episodes by date range. Days are
// taken in each timestamp's own location.
func InRange(r date.Range, mode RangeMode) func(*Episode) bool {
	return func(e *Episode) bool {
		closed, isClosed := e.ClosedAt()
		switch mode {
		case OpenedDuring:
			return r.ContainsTime(e.Opened)
		case ClosedDuring:
			return isClosed && !e.IsOpen() && r.ContainsTime(closed)
		default:
			var to date.Date
			if isClosed {
				to = date.Of(closed)
			}
			return r.Overlaps(date.Of(e.Opened), to)
		}
	}
}

// OpenEpisodes returns the episodes holding a position.
func OpenEpisodes(episodes []*Episode) []*Episode { return Filter(episodes, IsOpen) }

// ClosedEpisodes returns the flat episodes.
func ClosedEpisodes(episodes []*Episode) []*Episode { return Filter(episodes, IsClosed) }

// TotalRealizedPnL sums realized P&L per currency. Totals never mix currencies.
func TotalRealizedPnL(episodes []*Episode) map[Currency]Money {
	return sumBy(episodes, func(e *Episode) Money { return e.RealizedPnL })
}

// TotalCashFlow sums episodes' cash flows per currency.
func TotalCashFlow(episodes []*Episode) map[Currency]Money {
	return sumBy(episodes, func(e *Episode) Money { return e.CashTotal })
}

// RealizedPnLByAccount sums realized P&L per account, then per currency.
func RealizedPnLByAccount(episodes []*Episode) map[string]map[Currency]Money {
	byAccount := make(map[string][]*Episode)
	for _, e := range episodes {
		byAccount[e.Account] = append(byAccount[e.Account], e)
	}
	totals := make(map[string]map[Currency]Money, len(byAccount))
	for account, es := range byAccount {
		totals[account] = TotalRealizedPnL(es)
	}
	return totals
}

func sumBy(episodes []*Episode, value func(*Episode) Money) map[Currency]Money {
	totals := make(map[Currency]Money)
	for _, e := range episodes {
		v := value(e)
		if !v.IsSet() {
			continue
		}
		if t, ok := totals[v.Currency()]; ok {
			totals[v.Currency()] = t.Add(v)
		} else {
			totals[v.Currency()] = v
		}
	}
	return totals
}
