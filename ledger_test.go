package tradelog

import (
	"testing"
	"time"

	"github.com/etnz/tradelog/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLedger(t *testing.T) {
	tests := []struct {
		name        string
		txs         []RawTransaction
		opening     OpeningBalances
		wantReasons []RejectReason
		wantDeltas  []Money
		wantBalance Money
	}{
		{
			name: "long shares",
			txs: []RawTransaction{
				deposit("1", "ibkr", at(0), usd(20000)),
				trade("2", "ibkr", at(time.Hour), "t-aapl", Buy, 100, usd(150), usd(1)),
				trade("3", "ibkr", at(2*time.Hour), "t-aapl", Sell, 100, usd(160), usd(1)),
			},
			wantReasons: []RejectReason{NotRejected, NotRejected, NotRejected},
			wantDeltas:  []Money{usd(20000), usd(-15001), usd(15999)},
			wantBalance: usd(20998),
		},
		{
			name: "shares cannot go negative",
			txs: []RawTransaction{
				trade("1", "ibkr", at(0), "t-aapl", Buy, 100, usd(150), Money{}),
				trade("2", "ibkr", at(time.Hour), "t-aapl", Sell, 150, usd(160), Money{}),
			},
			wantReasons: []RejectReason{NotRejected, NegativeEquity},
			wantDeltas:  []Money{usd(-15000), usd(0)},
			wantBalance: usd(-15000),
		},
		{
			name: "short shares from flat",
			txs: []RawTransaction{
				trade("1", "ibkr", at(0), "t-aapl", Sell, 10, usd(150), Money{}),
			},
			wantReasons: []RejectReason{NegativeEquity},
			wantDeltas:  []Money{usd(0)},
			wantBalance: usd(0),
		},
		{
			name: "options cannot cross zero",
			txs: []RawTransaction{
				option("1", "ibkr", at(0), "t-spy", Put, 500, "2025-03-21", Sell, 1, usd(2.50), usd(0.65)),
				option("2", "ibkr", at(time.Hour), "t-spy", Put, 500, "2025-03-21", Buy, 2, usd(1), usd(0.65)),
			},
			wantReasons: []RejectReason{NotRejected, CrossingZero},
			wantDeltas:  []Money{usd(249.35), usd(0)},
			wantBalance: usd(249.35),
		},
		{
			name: "unresolved ticker",
			txs: []RawTransaction{
				trade("1", "ibkr", at(0), "t-unknown", Buy, 1, usd(10), Money{}),
			},
			wantReasons: []RejectReason{MissingRequiredFields},
			wantDeltas:  []Money{usd(0)},
			wantBalance: usd(0),
		},
		{
			name: "option without expiry",
			txs: func() []RawTransaction {
				tx := option("1", "ibkr", at(0), "t-spy", Call, 500, "2025-03-21", Buy, 1, usd(2), Money{})
				tx.Expiry = date.Date{}
				return []RawTransaction{tx}
			}(),
			wantReasons: []RejectReason{MissingRequiredFields},
			wantDeltas:  []Money{usd(0)},
			wantBalance: usd(0),
		},
		{
			name: "zero quantity",
			txs: []RawTransaction{
				trade("1", "ibkr", at(0), "t-aapl", Buy, 0, usd(150), Money{}),
			},
			wantReasons: []RejectReason{NonPositiveQuantity},
			wantDeltas:  []Money{usd(0)},
			wantBalance: usd(0),
		},
		{
			name: "cash legs",
			txs: func() []RawTransaction {
				noPrice := RawTransaction{ID: "2", Account: "ibkr", Timestamp: at(time.Hour), Kind: Cash, Quantity: Q(250), Currency: USD}
				withdrawal := deposit("3", "ibkr", at(2*time.Hour), usd(100))
				withdrawal.Side = Sell
				return []RawTransaction{deposit("1", "ibkr", at(0), usd(1000)), noPrice, withdrawal}
			}(),
			wantReasons: []RejectReason{NotRejected, NotRejected, NotRejected},
			wantDeltas:  []Money{usd(1000), usd(250), usd(-100)},
			wantBalance: usd(1150),
		},
		{
			name:    "opening balance",
			opening: OpeningBalances{"ibkr": usd(500), "degiro": eur(100)},
			txs: []RawTransaction{
				trade("1", "ibkr", at(0), "t-aapl", Buy, 2, usd(100), Money{}),
			},
			wantReasons: []RejectReason{NotRejected},
			wantDeltas:  []Money{usd(-200)},
			wantBalance: usd(300),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildLedger(tc.txs, testTickers, tc.opening)
			require.Len(t, got.Rows, len(tc.txs))
			for i, row := range got.Rows {
				assert.Equal(t, tc.wantReasons[i], row.Reason, "row %d reason", i)
				assert.Equal(t, tc.wantReasons[i] == NotRejected, row.Accepted, "row %d accepted", i)
				assert.Truef(t, tc.wantDeltas[i].Equal(row.CashDelta), "row %d delta: got %v want %v", i, row.CashDelta, tc.wantDeltas[i])
			}
			assert.Truef(t, tc.wantBalance.Equal(got.Balances.Get("ibkr", USD)), "balance: got %v want %v", got.Balances.Get("ibkr", USD), tc.wantBalance)
		})
	}
}

func TestBuildLedger_RejectedKeepsBalance(t *testing.T) {
	txs := []RawTransaction{
		deposit("1", "ibkr", at(0), usd(1000)),
		trade("2", "ibkr", at(time.Hour), "t-aapl", Sell, 1, usd(10), Money{}),
	}
	got := BuildLedger(txs, testTickers, nil)
	require.Len(t, got.Rows, 2)
	rejected := got.Rows[1]
	assert.False(t, rejected.Accepted)
	assert.Equal(t, "Equities cannot be negative (long-only)", rejected.Reason.String())
	assert.True(t, usd(1000).Equal(rejected.BalanceAfter))
	assert.Len(t, got.Accepted(), 1)
}

func TestBuildLedger_ReplayOrder(t *testing.T) {
	// same timestamp, replayed by id: the buy "a" comes before the sell "b".
	txs := []RawTransaction{
		trade("b", "ibkr", at(0), "t-aapl", Sell, 1, usd(10), Money{}),
		trade("a", "ibkr", at(0), "t-aapl", Buy, 1, usd(10), Money{}),
	}
	got := BuildLedger(txs, testTickers, nil)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, "a", got.Rows[0].ID)
	assert.Equal(t, "b", got.Rows[1].ID)
	assert.True(t, got.Rows[1].Accepted)
	assert.Equal(t, "AAPL", got.Rows[1].Symbol)
}
