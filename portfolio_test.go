package tradelog

import (
	"encoding/json"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mixedBook trades in two currencies over two accounts.
func mixedBook() []RawTransaction {
	return []RawTransaction{
		deposit("u1", "ibkr", at(0), usd(20000)),
		trade("u2", "ibkr", at(time.Hour), "t-aapl", Buy, 100, usd(150), usd(1)),
		trade("u3", "ibkr", at(3*time.Hour), "t-aapl", Sell, 100, usd(160), usd(1)),
		option("u4", "ibkr", at(4*time.Hour), "t-spy", Put, 500, "2025-03-21", Sell, 1, usd(2), Money{}),
		option("u5", "ibkr", at(5*time.Hour), "t-spy", Put, 500, "2025-03-21", Buy, 1, usd(1), Money{}),
		option("u6", "ibkr", at(6*time.Hour), "t-spy", Put, 495, "2025-03-28", Sell, 1, usd(2.5), Money{}),
		deposit("e1", "degiro", at(0), eur(5000)),
		trade("e2", "degiro", at(2*time.Hour), "t-sap", Buy, 10, eur(200), eur(2)),
		trade("e3", "degiro", at(7*time.Hour), "t-sap", Sell, 5, eur(220), eur(2)),
		trade("e4", "degiro", at(8*time.Hour), "t-sap", Sell, 50, eur(220), eur(2)),
	}
}

func TestBuildPortfolioView(t *testing.T) {
	got, err := BuildPortfolioView(mixedBook(), testTickers, OpeningBalances{"degiro": eur(100)})
	require.NoError(t, err)

	require.Len(t, got.Ledger, 10)
	ids := make([]string, len(got.Ledger))
	for i, row := range got.Ledger {
		ids[i] = row.ID
	}
	assert.Equal(t, []string{"e1", "u1", "u2", "e2", "u3", "u4", "u5", "u6", "e3", "e4"}, ids)
	assert.Equal(t, NegativeEquity, got.Ledger[9].Reason)

	assertMoney(t, usd(20998+200-100+250), got.Balances.Get("ibkr", USD))
	assertMoney(t, eur(5100-2002+1098), got.Balances.Get("degiro", EUR))

	pnl := TotalRealizedPnL(got.Episodes)
	require.Len(t, pnl, 2)
	assertMoney(t, usd(998+100), pnl[USD])
	// 5 sold at 220 against an average of 200.20, less 2 of fees.
	assertMoney(t, eur(97), pnl[EUR])

	// 2 cash episodes, AAPL, SAP and one rolled SPY put.
	assert.Len(t, got.Episodes, 5)
	rolled := Filter(got.Episodes, func(e *Episode) bool { return e.Rolled })
	require.Len(t, rolled, 1)
	assert.True(t, rolled[0].IsOpen())
}

func TestBuildPortfolioView_Deterministic(t *testing.T) {
	txs := mixedBook()
	want, err := BuildPortfolioView(txs, testTickers, nil)
	require.NoError(t, err)
	wantJSON, err := json.Marshal(want)
	require.NoError(t, err)

	reversed := slices.Clone(txs)
	slices.Reverse(reversed)
	for name, input := range map[string][]RawTransaction{"same": txs, "reversed": reversed} {
		t.Run(name, func(t *testing.T) {
			got, err := BuildPortfolioView(input, testTickers, nil)
			require.NoError(t, err)
			gotJSON, err := json.Marshal(got)
			require.NoError(t, err)
			assert.JSONEq(t, string(wantJSON), string(gotJSON))
		})
	}
}

func TestBuildPortfolioView_Parallel(t *testing.T) {
	txs := mixedBook()
	sequential, err := NewReplayer(testLogger(t)).BuildPortfolioView(txs, testTickers, nil)
	require.NoError(t, err)
	parallel, err := NewReplayer(testLogger(t), WithParallel(true)).BuildPortfolioView(txs, testTickers, nil)
	require.NoError(t, err)

	a, err := json.Marshal(sequential)
	require.NoError(t, err)
	b, err := json.Marshal(parallel)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestBuildPortfolioView_Empty(t *testing.T) {
	got, err := BuildPortfolioView(nil, nil, OpeningBalances{"ibkr": usd(10)})
	require.NoError(t, err)
	assert.Empty(t, got.Ledger)
	assert.Empty(t, got.Episodes)
	assertMoney(t, usd(10), got.Balances.Get("ibkr", USD))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		txs     []RawTransaction
		opening OpeningBalances
		wantErr error
	}{
		{
			name:    "unknown currency",
			txs:     []RawTransaction{{ID: "1", Account: "a", Kind: Cash, Quantity: Q(1), Currency: "XXX"}},
			wantErr: ErrUnknownCurrency,
		},
		{
			name: "price in another currency",
			txs: func() []RawTransaction {
				tx := trade("1", "a", at(0), "t-aapl", Buy, 1, usd(1), Money{})
				tx.Price = eur(1)
				return []RawTransaction{tx}
			}(),
			wantErr: ErrCurrencyMismatch,
		},
		{
			name:    "negative quantity",
			txs:     []RawTransaction{trade("1", "a", at(0), "t-aapl", Buy, -1, usd(1), Money{})},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "opening without currency",
			opening: OpeningBalances{"a": {}},
			wantErr: ErrUnknownCurrency,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.txs, tc.opening)
			assert.ErrorIs(t, err, tc.wantErr)

			_, err = BuildPortfolioView(tc.txs, testTickers, tc.opening)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestValidate_DuplicateIDs(t *testing.T) {
	txs := []RawTransaction{
		deposit("1", "a", at(0), usd(1)),
		deposit("1", "a", at(time.Hour), usd(1)),
	}
	err := Validate(txs, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate transaction id "1"`)
}
