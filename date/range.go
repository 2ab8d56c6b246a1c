package date

import (
	"fmt"
	"time"
)

// Range is a span of days, both ends included.
type Range struct{ From, To Date }

// NewRange returns the period containing d.
func NewRange(d Date, p Period) Range { return Range{From: d.StartOf(p), To: d.EndOf(p)} }

// Contains reports whether d falls within the range.
func (r Range) Contains(d Date) bool { return !d.Before(r.From) && !d.After(r.To) }

// ContainsTime reports whether the calendar day of t is within the range.
func (r Range) ContainsTime(t time.Time) bool { return r.Contains(Of(t)) }

// Overlaps reports whether the span [from, to] intersects the range.
// A zero 'to' means the span is still running.
func (r Range) Overlaps(from, to Date) bool {
	if from.After(r.To) {
		return false
	}
	return to.IsZero() || !to.Before(r.From)
}

// Period returns the standard period the range covers exactly, if any.
func (r Range) Period() (Period, bool) {
	for p := Daily; p <= Yearly; p++ {
		if NewRange(r.From, p) == r {
			return p, true
		}
	}
	return Daily, false
}

// Identifier names the range for report titles: "2025-03-14", "2025-W11",
// "2025-03", "2025-Q1", "2025", or "from_to" for any other range.
func (r Range) Identifier() string {
	p, ok := r.Period()
	if !ok {
		return fmt.Sprintf("%s_%s", r.From, r.To)
	}
	switch p {
	case Weekly:
		year, week := r.From.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case Monthly:
		return r.From.Format("2006-01")
	case Quarterly:
		return fmt.Sprintf("%d-Q%d", r.From.Year(), (r.From.Month()-1)/3+1)
	case Yearly:
		return r.From.Format("2006")
	default:
		return r.From.String()
	}
}
