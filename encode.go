package tradelog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/etnz/tradelog/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// MarshalJSON encodes money as an object with its amount and currency.
func (m Money) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Amount("amount", m)
	w.Optional("currency", m.cur)
	return w.MarshalJSON()
}

// UnmarshalJSON decodes money, validating its currency.
func (m *Money) UnmarshalJSON(data []byte) error {
	var temp struct {
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	if temp.Currency == "" {
		*m = Money{}
		return nil
	}
	cur, err := ParseCurrency(temp.Currency)
	if err != nil {
		return err
	}
	v, err := NewMoney(temp.Amount, cur)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MarshalJSON encodes a transaction as a flat object, amounts are bare numbers
// in the transaction's currency.
func (t RawTransaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Optional("user", t.User)
	w.Append("account", t.Account)
	w.Append("timestamp", t.Timestamp.Format(time.RFC3339Nano))
	w.Append("kind", t.Kind)
	w.Optional("tickerId", t.TickerID)
	w.Optional("ticker", t.TickerSymbol)
	w.Optional("expiry", t.Expiry)
	w.Amount("strike", t.Strike)
	w.Optional("side", t.Side)
	w.Append("quantity", t.Quantity)
	w.Amount("price", t.Price)
	w.Amount("fees", t.Fees)
	w.Append("currency", t.Currency)
	w.Optional("memo", t.Memo)
	return w.MarshalJSON()
}

// UnmarshalJSON decodes the flat form written by MarshalJSON.
func (t *RawTransaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID           string           `json:"id"`
		User         string           `json:"user"`
		Account      string           `json:"account"`
		Timestamp    time.Time        `json:"timestamp"`
		Kind         InstrumentKind   `json:"kind"`
		TickerID     string           `json:"tickerId"`
		TickerSymbol string           `json:"ticker"`
		Expiry       date.Date        `json:"expiry"`
		Strike       *decimal.Decimal `json:"strike"`
		Side         Side             `json:"side"`
		Quantity     Quantity         `json:"quantity"`
		Price        *decimal.Decimal `json:"price"`
		Fees         *decimal.Decimal `json:"fees"`
		Currency     string           `json:"currency"`
		Memo         string           `json:"memo"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	cur, err := ParseCurrency(temp.Currency)
	if err != nil {
		return fmt.Errorf("transaction %q: %w", temp.ID, err)
	}
	amount := func(v *decimal.Decimal) Money {
		if v == nil {
			return Money{}
		}
		return M(*v, cur) // cur is valid, it cannot fail.
	}

	*t = RawTransaction{
		ID:           temp.ID,
		User:         temp.User,
		Account:      temp.Account,
		Timestamp:    temp.Timestamp,
		Kind:         temp.Kind,
		TickerID:     temp.TickerID,
		TickerSymbol: temp.TickerSymbol,
		Expiry:       temp.Expiry,
		Strike:       amount(temp.Strike),
		Side:         temp.Side,
		Quantity:     temp.Quantity,
		Price:        amount(temp.Price),
		Fees:         amount(temp.Fees),
		Currency:     cur,
		Memo:         temp.Memo,
	}
	return nil
}

// MarshalJSON encodes the row as its transaction plus the ledger outcome.
func (r LedgerRow) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(r.RawTransaction)
	w.Optional("symbol", r.Symbol)
	w.Amount("cashDelta", r.CashDelta)
	w.Amount("balanceAfter", r.BalanceAfter)
	w.Append("accepted", r.Accepted)
	w.Optional("error", r.Reason.String())
	return w.MarshalJSON()
}

// MarshalJSON encodes the fill with its economics.
func (t EpisodeTxn) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.LedgerRow)
	w.Amount("realizedPnL", t.RealizedPnL)
	w.Optional("action", t.Action)
	w.Optional("note", t.Note)
	return w.MarshalJSON()
}

// MarshalJSON encodes the episode, including its current option leg.
func (e *Episode) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", e.ID)
	w.Optional("user", e.User)
	w.Append("account", e.Account)
	w.Append("key", e.Key)
	w.Append("group", e.Group)
	w.Append("currency", e.Currency)
	w.Optional("symbol", e.Symbol)
	w.Append("opened", e.Opened.Format(time.RFC3339Nano))
	if closed, ok := e.ClosedAt(); ok {
		w.Append("closed", closed.Format(time.RFC3339Nano))
	}
	w.Append("rolled", e.Rolled)
	w.Append("qty", e.Qty)
	w.Amount("avgPrice", e.AvgPrice)
	w.Amount("totalFees", e.TotalFees)
	w.Amount("cashTotal", e.CashTotal)
	w.Amount("realizedPnL", e.RealizedPnL)
	w.Optional("direction", e.Direction)
	if right, strike, expiry, ok := e.CurrentLeg(); ok {
		w.Append("currentRight", right)
		w.Amount("currentStrike", strike)
		w.Append("currentExpiry", expiry)
	}
	w.Append("txns", e.Txns)
	return w.MarshalJSON()
}

// MarshalJSON encodes the full replay output.
func (p *PortfolioResult) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("ledger", p.Ledger)
	w.Append("balances", p.Balances)
	w.Append("episodes", p.Episodes)
	return w.MarshalJSON()
}

// DecodeTransactions reads transactions from a stream of JSONL data. Empty
// lines are skipped.
func DecodeTransactions(r io.Reader) ([]RawTransaction, error) {
	var txs []RawTransaction
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}
		var tx RawTransaction
		if err := json.Unmarshal(lineBytes, &tx); err != nil {
			return nil, fmt.Errorf("line %d: could not decode transaction: %w", line, err)
		}
		txs = append(txs, tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read transactions: %w", err)
	}
	return txs, nil
}

// EncodeTransactions writes transactions as JSONL, one per line.
func EncodeTransactions(w io.Writer, txs []RawTransaction) error {
	enc := json.NewEncoder(w)
	for _, tx := range txs {
		if err := enc.Encode(tx); err != nil {
			return fmt.Errorf("could not encode transaction %q: %w", tx.ID, err)
		}
	}
	return nil
}

// openingLine is the JSONL form of one opening balance.
type openingLine struct {
	Account string `json:"account"`
	Money
}

func (l openingLine) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("account", l.Account)
	w.EmbedFrom(l.Money)
	return w.MarshalJSON()
}

// DecodeOpeningBalances reads opening balances from JSONL lines like
// {"account":"ibkr","amount":1000,"currency":"USD"}.
func DecodeOpeningBalances(r io.Reader) (OpeningBalances, error) {
	opening := make(OpeningBalances)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}
		var temp struct {
			Account string `json:"account"`
		}
		if err := json.Unmarshal(lineBytes, &temp); err != nil {
			return nil, fmt.Errorf("line %d: could not decode opening balance: %w", line, err)
		}
		var m Money
		if err := json.Unmarshal(lineBytes, &m); err != nil {
			return nil, fmt.Errorf("line %d: could not decode opening balance: %w", line, err)
		}
		if temp.Account == "" || !m.IsSet() {
			return nil, fmt.Errorf("line %d: opening balance needs an account and a currency", line)
		}
		opening[temp.Account] = m
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read opening balances: %w", err)
	}
	return opening, nil
}

// EncodeOpeningBalances writes opening balances as JSONL, by account.
func EncodeOpeningBalances(w io.Writer, opening OpeningBalances) error {
	enc := json.NewEncoder(w)
	for _, account := range slices.Sorted(maps.Keys(opening)) {
		if err := enc.Encode(openingLine{Account: account, Money: opening[account]}); err != nil {
			return fmt.Errorf("could not encode opening balance of %q: %w", account, err)
		}
	}
	return nil
}
