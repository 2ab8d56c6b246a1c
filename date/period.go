package date

import (
	"fmt"
	"strings"
)

// Period is a standard calendar window used to select report ranges.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

var periodNames = [...]string{"day", "week", "month", "quarter", "year"}

func (p Period) String() string {
	if p < Daily || p > Yearly {
		return fmt.Sprintf("Period(%d)", int(p))
	}
	return periodNames[p]
}

// ParsePeriod accepts a period name ("month") or its adjective ("monthly").
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "daily" {
		return Daily, nil
	}
	for p, name := range periodNames {
		if s == name || (Period(p) != Daily && s == name+"ly") {
			return Period(p), nil
		}
	}
	return Daily, fmt.Errorf("unknown period %q", s)
}
