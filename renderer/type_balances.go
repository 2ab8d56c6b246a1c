package renderer

import (
	"maps"
	"slices"

	"github.com/etnz/tradelog"
)

// Balances is the cash balances report data.
type Balances struct {
	Rows   []Balance `json:"rows"`
	Totals []Balance `json:"totals"`
}

// Balance is the balance of an account in one currency. Totals have no account.
type Balance struct {
	Account  string         `json:"account,omitempty"`
	Currency string         `json:"currency"`
	Balance  tradelog.Money `json:"balance"`
}

// NewBalances creates the balances report, sorted by account then currency.
func NewBalances(b tradelog.Balances) *Balances {
	r := &Balances{}
	for _, account := range b.Accounts() {
		byCur := b[account]
		for _, c := range slices.Sorted(maps.Keys(byCur)) {
			r.Rows = append(r.Rows, Balance{Account: account, Currency: c.String(), Balance: byCur[c]})
		}
	}
	totals := tradelog.TotalBalances(b)
	for _, c := range slices.Sorted(maps.Keys(totals)) {
		r.Totals = append(r.Totals, Balance{Currency: c.String(), Balance: totals[c]})
	}
	return r
}
