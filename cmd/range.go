package cmd

import (
	"flag"
	"fmt"

	"github.com/etnz/tradelog"
	"github.com/etnz/tradelog/date"
)

// rangeFlags selects episodes by date range.
type rangeFlags struct {
	start  string
	end    string
	period string
	mode   string
}

func (r *rangeFlags) SetFlags(f *flag.FlagSet, mode tradelog.RangeMode) {
	f.StringVar(&r.start, "s", "", "Start date of the range. Overrides -period.")
	f.StringVar(&r.end, "d", "", "End date of the range, or a date within -period. Defaults to today.")
	f.StringVar(&r.period, "period", "", "Period containing -d (day, week, month, quarter, year)")
	f.StringVar(&r.mode, "mode", mode.String(), "How episodes match the range (overlap, opened, closed)")
}

// isSet reports whether a range was requested.
func (r *rangeFlags) isSet() bool { return r.start != "" || r.end != "" || r.period != "" }

// parse returns the requested range.
func (r *rangeFlags) parse() (date.Range, tradelog.RangeMode, error) {
	mode, err := tradelog.ParseRangeMode(r.mode)
	if err != nil {
		return date.Range{}, 0, err
	}

	end := date.Today()
	if r.end != "" {
		if end, err = date.Parse(r.end); err != nil {
			return date.Range{}, 0, fmt.Errorf("parsing end date: %w", err)
		}
	}
	if r.start != "" {
		start, err := date.Parse(r.start)
		if err != nil {
			return date.Range{}, 0, fmt.Errorf("parsing start date: %w", err)
		}
		if start.After(end) {
			return date.Range{}, 0, fmt.Errorf("start date %s is after end date %s", start, end)
		}
		return date.Range{From: start, To: end}, mode, nil
	}
	if r.period == "" {
		// a single day.
		return date.NewRange(end, date.Daily), mode, nil
	}
	p, err := date.ParsePeriod(r.period)
	if err != nil {
		return date.Range{}, 0, fmt.Errorf("parsing period: %w", err)
	}
	return date.NewRange(end, p), mode, nil
}

// episodeFilters are the episode selection flags shared by the reports.
type episodeFilters struct {
	rangeFlags
	account string
	kind    string
	state   string
}

func (e *episodeFilters) SetFlags(f *flag.FlagSet, mode tradelog.RangeMode) {
	e.rangeFlags.SetFlags(f, mode)
	f.StringVar(&e.account, "account", "", "Only episodes of this account")
	f.StringVar(&e.kind, "kind", "", "Only episodes of this kind (cash, shares, option)")
	f.StringVar(&e.state, "state", "", "Only open or closed episodes")
}

// predicates returns the filters requested, and a title describing the range.
func (e *episodeFilters) predicates() ([]func(*tradelog.Episode) bool, string, error) {
	var preds []func(*tradelog.Episode) bool
	var title string
	if e.isSet() {
		r, mode, err := e.parse()
		if err != nil {
			return nil, "", err
		}
		preds = append(preds, tradelog.InRange(r, mode))
		title = r.Identifier()
	}
	if e.account != "" {
		preds = append(preds, tradelog.ByAccount(e.account))
	}
	if e.kind != "" {
		g, err := tradelog.ParseKindGroup(e.kind)
		if err != nil {
			return nil, "", err
		}
		preds = append(preds, tradelog.ByKindGroup(g))
	}
	switch e.state {
	case "":
	case "open":
		preds = append(preds, tradelog.IsOpen)
	case "closed":
		preds = append(preds, tradelog.IsClosed)
	default:
		return nil, "", fmt.Errorf("unknown state %q, want open or closed", e.state)
	}
	return preds, title, nil
}
