package tradelog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInstrumentKey(t *testing.T) {
	tests := []struct {
		tx     RawTransaction
		symbol string
		want   string
	}{
		{deposit("1", "a", at(0), usd(1)), "", "CASH"},
		{trade("1", "a", at(0), "t-aapl", Buy, 1, usd(1), Money{}), "AAPL", "AAPL"},
		{option("1", "a", at(0), "t-spy", Call, 612.5, "2025-6-20", Buy, 1, usd(1), Money{}), "SPY", "SPY|CALL|612.50|2025-06-20"},
	}
	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, instrumentKey(tc.tx, tc.symbol))
		})
	}
}

func TestTickerLookup(t *testing.T) {
	txs := []RawTransaction{
		{TickerID: "t-1", TickerSymbol: "AAPL"},
		{TickerID: "t-2"},
		{TickerSymbol: "orphan"},
	}
	l := NewTickerLookup(txs)
	assert.Len(t, l, 1)

	name, ok := l.Resolve("t-1")
	assert.True(t, ok)
	assert.Equal(t, "AAPL", name)

	_, ok = l.Resolve("t-2")
	assert.False(t, ok)
	_, ok = l.Resolve("")
	assert.False(t, ok)
	_, ok = TickerLookup(nil).Resolve("t-1")
	assert.False(t, ok)
}

func TestRawTransaction_SignedQuantity(t *testing.T) {
	buy := trade("1", "a", at(0), "t-aapl", Buy, 3, usd(1), Money{})
	sell := trade("2", "a", at(time.Hour), "t-aapl", Sell, 3, usd(1), Money{})
	assert.True(t, Q(3).Equal(buy.SignedQuantity()))
	assert.True(t, Q(-3).Equal(sell.SignedQuantity()))
	assert.True(t, Q(100).Equal(Call.Multiplier()))
	assert.True(t, Q(1).Equal(Shares.Multiplier()))
}

func TestSortTransactions(t *testing.T) {
	txs := []RawTransaction{
		deposit("b", "a", at(time.Hour), usd(1)),
		deposit("c", "a", at(0), usd(1)),
		deposit("a", "a", at(time.Hour), usd(1)),
	}
	sorted := SortTransactions(txs)
	assert.Equal(t, []string{"c", "a", "b"}, []string{sorted[0].ID, sorted[1].ID, sorted[2].ID})
	assert.Equal(t, "b", txs[0].ID, "input is not modified")
}

func TestRejectReason_JSON(t *testing.T) {
	for _, r := range []RejectReason{NotRejected, MissingRequiredFields, NegativeEquity, CrossingZero, NonPositiveQuantity} {
		data, err := r.MarshalJSON()
		assert.NoError(t, err)
		var got RejectReason
		assert.NoError(t, got.UnmarshalJSON(data))
		assert.Equal(t, r, got)
	}
	assert.Equal(t, "Crossing zero not allowed", CrossingZero.String())
	assert.Equal(t, "Missing required fields", MissingRequiredFields.String())
}
