package renderer

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/etnz/tradelog"
)

// Episodes is the episodes report data.
type Episodes struct {
	Episodes []Episode `json:"episodes"`
	Totals   []Total   `json:"totals"`
}

// Episode is one position episode.
type Episode struct {
	ShortID     string            `json:"id"`
	Account     string            `json:"account"`
	Instrument  string            `json:"instrument"`
	Strategy    string            `json:"strategy"`
	Rolled      bool              `json:"rolled,omitempty"`
	Opened      string            `json:"opened"`
	Closed      string            `json:"closed,omitempty"`
	Qty         tradelog.Quantity `json:"qty"`
	AvgPrice    tradelog.Money    `json:"avgPrice"`
	TotalFees   tradelog.Money    `json:"totalFees"`
	CashTotal   tradelog.Money    `json:"cashTotal"`
	RealizedPnL tradelog.Money    `json:"realizedPnL"`
	Fills       []Fill            `json:"fills"`
}

// Fill is one transaction of an episode.
type Fill struct {
	Time        string            `json:"time"`
	Action      string            `json:"action"`
	Contract    string            `json:"contract"`
	Quantity    tradelog.Quantity `json:"quantity"`
	Price       tradelog.Money    `json:"price"`
	Fees        tradelog.Money    `json:"fees"`
	RealizedPnL tradelog.Money    `json:"realizedPnL"`
	Note        string            `json:"note,omitempty"`
}

// Total sums realized P&L and cash flows in one currency.
type Total struct {
	Currency    string         `json:"currency"`
	RealizedPnL tradelog.Money `json:"realizedPnL"`
	CashFlow    tradelog.Money `json:"cashFlow"`
}

// NewEpisodes creates the episodes report, episodes are kept in their order.
func NewEpisodes(episodes []*tradelog.Episode) *Episodes {
	r := &Episodes{Episodes: make([]Episode, 0, len(episodes))}
	for _, e := range episodes {
		v := Episode{
			ShortID:     shortID(e.ID),
			Account:     e.Account,
			Instrument:  instrument(e.Key),
			Strategy:    cmp.Or(string(e.Direction), string(e.Group)),
			Rolled:      e.Rolled,
			Opened:      e.Opened.Format(timeLayout),
			Qty:         e.Qty,
			AvgPrice:    e.AvgPrice,
			TotalFees:   e.TotalFees,
			CashTotal:   e.CashTotal,
			RealizedPnL: e.RealizedPnL,
		}
		if closed, ok := e.ClosedAt(); ok {
			v.Closed = closed.Format(timeLayout)
		}
		for _, t := range e.Txns {
			v.Fills = append(v.Fills, Fill{
				Time:        t.Timestamp.Format(timeLayout),
				Action:      string(t.Action),
				Contract:    contract(t),
				Quantity:    t.Quantity,
				Price:       t.Price,
				Fees:        t.Fees,
				RealizedPnL: t.RealizedPnL,
				Note:        t.Note,
			})
		}
		r.Episodes = append(r.Episodes, v)
	}
	r.Totals = totals(episodes)
	return r
}

func totals(episodes []*tradelog.Episode) []Total {
	realized := tradelog.TotalRealizedPnL(episodes)
	cash := tradelog.TotalCashFlow(episodes)
	var out []Total
	for _, c := range slices.Sorted(maps.Keys(realized)) {
		out = append(out, Total{Currency: c.String(), RealizedPnL: realized[c], CashFlow: cash[c]})
	}
	return out
}

// contract describes the instrument of a fill: empty for cash, the ticker for
// shares, and the right, strike and expiry for options.
func contract(t tradelog.EpisodeTxn) string {
	switch {
	case t.Kind == tradelog.Cash:
		return ""
	case t.Kind.IsOption():
		return strings.Join([]string{string(t.Kind), t.Strike.Fixed(), t.Expiry.String()}, " ")
	default:
		return t.Symbol
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
