package tradelog

import (
	"testing"
	"time"

	"github.com/etnz/tradelog/date"
	"github.com/rs/zerolog"
)

// usd is a helper for test to create usd money from const
func usd(v float64) Money { return M(v, USD) }

// eur is a helper for test to create euro money from const
func eur(v float64) Money { return M(v, EUR) }

// at returns a fixed UTC instant on 2025-03-03 plus d.
func at(d time.Duration) time.Time {
	return time.Date(2025, time.March, 3, 9, 30, 0, 0, time.UTC).Add(d)
}

// testTickers resolves the ticker ids used in tests.
var testTickers = TickerLookup{"t-aapl": "AAPL", "t-spy": "SPY", "t-sap": "SAP"}

// deposit is a CASH transaction.
func deposit(id, account string, ts time.Time, amount Money) RawTransaction {
	return RawTransaction{
		ID:        id,
		Account:   account,
		Timestamp: ts,
		Kind:      Cash,
		Quantity:  Q(1),
		Price:     amount,
		Currency:  amount.Currency(),
	}
}

// trade is a SHARES transaction.
func trade(id, account string, ts time.Time, tickerID string, side Side, qty float64, price, fees Money) RawTransaction {
	return RawTransaction{
		ID:        id,
		Account:   account,
		Timestamp: ts,
		Kind:      Shares,
		TickerID:  tickerID,
		Side:      side,
		Quantity:  Q(qty),
		Price:     price,
		Fees:      fees,
		Currency:  price.Currency(),
	}
}

// option is a CALL or PUT transaction.
func option(id, account string, ts time.Time, tickerID string, right InstrumentKind, strike float64, expiry string, side Side, qty float64, price, fees Money) RawTransaction {
	return RawTransaction{
		ID:        id,
		Account:   account,
		Timestamp: ts,
		Kind:      right,
		TickerID:  tickerID,
		Expiry:    date.MustParse(expiry),
		Strike:    M(strike, price.Currency()),
		Side:      side,
		Quantity:  Q(qty),
		Price:     price,
		Fees:      fees,
		Currency:  price.Currency(),
	}
}

// testLogger writes the replay logs to the test output.
func testLogger(t *testing.T) zerolog.Logger {
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
}
