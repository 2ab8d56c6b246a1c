package renderer

import (
	"cmp"
	"maps"
	"slices"

	"github.com/etnz/tradelog"
)

// PnL is the realized P&L report data.
type PnL struct {
	Title  string    `json:"title,omitempty"`
	Rows   []PnLLine `json:"rows"`
	Totals []Total   `json:"totals"`
}

// PnLLine sums the episodes of one account in one currency.
type PnLLine struct {
	Account     string         `json:"account"`
	Currency    string         `json:"currency"`
	Episodes    int            `json:"episodes"`
	RealizedPnL tradelog.Money `json:"realizedPnL"`
	CashFlow    tradelog.Money `json:"cashFlow"`
}

// NewPnL creates the realized P&L report of episodes, by account and currency.
func NewPnL(title string, episodes []*tradelog.Episode) *PnL {
	type key struct {
		account string
		cur     tradelog.Currency
	}
	byKey := make(map[key][]*tradelog.Episode)
	for _, e := range episodes {
		k := key{e.Account, e.Currency}
		byKey[k] = append(byKey[k], e)
	}

	p := &PnL{Title: title, Totals: totals(episodes)}
	keys := slices.SortedFunc(maps.Keys(byKey), func(a, b key) int {
		return cmp.Or(cmp.Compare(a.account, b.account), cmp.Compare(a.cur, b.cur))
	})
	for _, k := range keys {
		es := byKey[k]
		p.Rows = append(p.Rows, PnLLine{
			Account:     k.account,
			Currency:    k.cur.String(),
			Episodes:    len(es),
			RealizedPnL: tradelog.TotalRealizedPnL(es)[k.cur],
			CashFlow:    tradelog.TotalCashFlow(es)[k.cur],
		})
	}
	return p
}
