package tradelog

import (
	"maps"
	"slices"
)

// OpeningBalances are the balances carried into the replay window, by account.
type OpeningBalances map[string]Money

// Balances are cash balances by account then currency.
type Balances map[string]map[Currency]Money

// Get returns the balance of an account in a currency, zero if unknown.
func (b Balances) Get(account string, cur Currency) Money {
	if m, ok := b[account][cur]; ok {
		return m
	}
	return Zero(cur)
}

func (b Balances) set(account string, m Money) {
	byCur, ok := b[account]
	if !ok {
		byCur = make(map[Currency]Money)
		b[account] = byCur
	}
	byCur[m.Currency()] = m
}

// Accounts returns the accounts in lexical order.
func (b Balances) Accounts() []string {
	return slices.Sorted(maps.Keys(b))
}

// merge copies every balance of o into b.
func (b Balances) merge(o Balances) {
	for account, byCur := range o {
		for _, m := range byCur {
			b.set(account, m)
		}
	}
}

// TotalBalances sums balances across accounts, per currency.
func TotalBalances(b Balances) map[Currency]Money {
	totals := make(map[Currency]Money)
	for _, byCur := range b {
		for c, m := range byCur {
			if t, ok := totals[c]; ok {
				totals[c] = t.Add(m)
			} else {
				totals[c] = m
			}
		}
	}
	return totals
}
