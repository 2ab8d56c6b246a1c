package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/tradelog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "db", "tradelog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func deposit(id string, ts time.Time, amount float64) tradelog.RawTransaction {
	return tradelog.RawTransaction{
		ID:        id,
		Account:   "ibkr",
		Timestamp: ts,
		Kind:      tradelog.Cash,
		Quantity:  tradelog.Q(1),
		Price:     tradelog.M(amount, tradelog.USD),
		Currency:  tradelog.USD,
	}
}

func TestStore_Transactions(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	t0 := time.Date(2025, time.March, 3, 9, 30, 0, 0, time.UTC)
	require.NoError(t, s.PutTransactions(ctx, []tradelog.RawTransaction{
		deposit("b", t0.Add(time.Hour), 20),
		deposit("a", t0.Add(time.Hour), 10),
		deposit("c", t0, 30),
	}))

	txs, err := s.Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{txs[0].ID, txs[1].ID, txs[2].ID})
	assert.True(t, tradelog.M(10, tradelog.USD).Equal(txs[1].Price))
	assert.True(t, t0.Equal(txs[0].Timestamp))

	// a second import replaces transactions by id.
	require.NoError(t, s.PutTransactions(ctx, []tradelog.RawTransaction{deposit("a", t0.Add(time.Hour), 11)}))
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	txs, err = s.Transactions(ctx)
	require.NoError(t, err)
	assert.True(t, tradelog.M(11, tradelog.USD).Equal(txs[1].Price))
}

func TestStore_OpeningBalances(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	opening, err := s.OpeningBalances(ctx)
	require.NoError(t, err)
	assert.Empty(t, opening)

	require.NoError(t, s.PutOpeningBalances(ctx, tradelog.OpeningBalances{
		"ibkr":   tradelog.M(1000, tradelog.USD),
		"degiro": tradelog.M(250.5, tradelog.EUR),
	}))
	require.NoError(t, s.PutOpeningBalances(ctx, tradelog.OpeningBalances{"ibkr": tradelog.M(900, tradelog.USD)}))

	opening, err = s.OpeningBalances(ctx)
	require.NoError(t, err)
	require.Len(t, opening, 2)
	assert.True(t, tradelog.M(900, tradelog.USD).Equal(opening["ibkr"]))
	assert.True(t, tradelog.M(250.5, tradelog.EUR).Equal(opening["degiro"]))
}

func TestStore_Replay(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	t0 := time.Date(2025, time.March, 3, 9, 30, 0, 0, time.UTC)
	require.NoError(t, s.PutTransactions(ctx, []tradelog.RawTransaction{deposit("1", t0, 100)}))
	require.NoError(t, s.PutOpeningBalances(ctx, tradelog.OpeningBalances{"ibkr": tradelog.M(50, tradelog.USD)}))

	txs, err := s.Transactions(ctx)
	require.NoError(t, err)
	opening, err := s.OpeningBalances(ctx)
	require.NoError(t, err)

	result, err := tradelog.BuildPortfolioView(txs, tradelog.NewTickerLookup(txs), opening)
	require.NoError(t, err)
	assert.True(t, tradelog.M(150, tradelog.USD).Equal(result.Balances.Get("ibkr", tradelog.USD)))
}
