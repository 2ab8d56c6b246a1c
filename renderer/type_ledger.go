package renderer

import (
	"github.com/etnz/tradelog"
)

// Ledger is the ledger report data.
// Numbers are kept as exact decimal types (Money, Quantity) so that templates
// use their own formatting.
type Ledger struct {
	Accepted int         `json:"accepted"`
	Rejected int         `json:"rejected"`
	Rows     []LedgerRow `json:"rows"`
}

// LedgerRow is one transaction of the ledger report.
type LedgerRow struct {
	Time       string            `json:"time"`
	ID         string            `json:"id"`
	Account    string            `json:"account"`
	Instrument string            `json:"instrument"`
	Side       string            `json:"side,omitempty"`
	Quantity   tradelog.Quantity `json:"quantity"`
	Price      tradelog.Money    `json:"price"`
	Fees       tradelog.Money    `json:"fees"`
	CashDelta  tradelog.Money    `json:"cashDelta"`
	Balance    tradelog.Money    `json:"balance"`
	Status     string            `json:"status"`
}

// NewLedger creates the ledger report from ledger rows, in their order.
func NewLedger(rows []tradelog.LedgerRow) *Ledger {
	l := &Ledger{Rows: make([]LedgerRow, 0, len(rows))}
	for _, r := range rows {
		status := "ok"
		if r.Accepted {
			l.Accepted++
		} else {
			l.Rejected++
			status = r.Reason.String()
		}
		inst := instrument(r.InstrumentKey())
		if r.Symbol == "" && r.Kind != tradelog.Cash {
			// unresolved, show the reference as is.
			inst = r.TickerID
		}
		l.Rows = append(l.Rows, LedgerRow{
			Time:       r.Timestamp.Format(timeLayout),
			ID:         r.ID,
			Account:    r.Account,
			Instrument: inst,
			Side:       string(r.Side),
			Quantity:   r.Quantity,
			Price:      r.Price,
			Fees:       r.Fees,
			CashDelta:  r.CashDelta,
			Balance:    r.BalanceAfter,
			Status:     status,
		})
	}
	return l
}
