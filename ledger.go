package tradelog

// LedgerRow is the audited outcome of one transaction: its cash effect on the
// account and the running balance right after it.
type LedgerRow struct {
	RawTransaction
	Symbol       string // resolved ticker, empty for CASH or unresolved tickers
	CashDelta    Money
	BalanceAfter Money
	Accepted     bool
	Reason       RejectReason
}

// InstrumentKey returns the key of the traded instrument, see instrumentKey.
func (r LedgerRow) InstrumentKey() string { return instrumentKey(r.RawTransaction, r.Symbol) }

// LedgerResult is the output of the first pass.
type LedgerResult struct {
	Rows     []LedgerRow
	Balances Balances
}

// Accepted returns the accepted rows, in replay order.
func (l LedgerResult) Accepted() []LedgerRow {
	rows := make([]LedgerRow, 0, len(l.Rows))
	for _, r := range l.Rows {
		if r.Accepted {
			rows = append(rows, r)
		}
	}
	return rows
}

// positionKey identifies a position for the long-only and zero crossing checks.
type positionKey struct {
	user, account, instrument string
}

// ledgerState is the private working set of one ledger replay.
type ledgerState struct {
	tickers   TickerLookup
	positions map[positionKey]Quantity
	balances  Balances
}

// BuildLedger replays transactions in (timestamp, id) order, validating each
// against position invariants and maintaining running cash balances.
//
// txs are expected to be in a single currency; opening balances in other
// currencies are ignored.
func (r *Replayer) BuildLedger(txs []RawTransaction, tickers TickerLookup, opening OpeningBalances) LedgerResult {
	s := &ledgerState{
		tickers:   tickers,
		positions: make(map[positionKey]Quantity),
		balances:  make(Balances),
	}
	sorted := SortTransactions(txs)

	var partition Currency
	if len(sorted) > 0 {
		partition = sorted[0].Currency
	}
	for account, m := range opening {
		if m.IsSet() && (partition == "" || m.Currency() == partition) {
			s.balances.set(account, m)
		}
	}

	rows := make([]LedgerRow, 0, len(sorted))
	for _, tx := range sorted {
		row := s.apply(tx)
		if !row.Accepted {
			r.log.Debug().
				Str("txn", tx.ID).
				Str("account", tx.Account).
				Str("reason", row.Reason.String()).
				Msg("transaction rejected")
		}
		rows = append(rows, row)
	}
	return LedgerResult{Rows: rows, Balances: s.balances}
}

// apply validates tx against the current state and records its effects when accepted.
func (s *ledgerState) apply(tx RawTransaction) LedgerRow {
	balance := s.balances.Get(tx.Account, tx.Currency)
	row := LedgerRow{
		RawTransaction: tx,
		CashDelta:      Zero(tx.Currency),
		BalanceAfter:   balance,
	}
	row.Symbol, _ = s.tickers.Resolve(tx.TickerID)

	if tx.Kind == Cash {
		row.CashDelta = cashLegDelta(tx)
	} else {
		key, reason := s.check(tx, row.Symbol)
		if reason != NotRejected {
			row.Reason = reason
			return row
		}
		s.positions[key] = s.positions[key].Add(tx.SignedQuantity())
		notional := tx.Price.Mul(tx.SignedQuantity()).Mul(tx.Kind.Multiplier())
		row.CashDelta = notional.Neg().Sub(tx.fees())
	}

	row.Accepted = true
	row.BalanceAfter = balance.Add(row.CashDelta)
	s.balances.set(tx.Account, row.BalanceAfter)
	return row
}

// check runs the trading leg rules and returns the position key it affects.
func (s *ledgerState) check(tx RawTransaction, symbol string) (positionKey, RejectReason) {
	if tx.Side.Sign() == 0 || symbol == "" || !tx.Price.IsSet() {
		return positionKey{}, MissingRequiredFields
	}
	if tx.Kind.IsOption() && (!tx.Strike.IsSet() || tx.Expiry.IsZero()) {
		return positionKey{}, MissingRequiredFields
	}
	if !tx.Quantity.IsPositive() {
		return positionKey{}, NonPositiveQuantity
	}

	key := positionKey{user: tx.User, account: tx.Account, instrument: instrumentKey(tx, symbol)}
	current := s.positions[key]
	next := current.Add(tx.SignedQuantity())
	if tx.Kind == Shares && next.IsNegative() {
		return key, NegativeEquity
	}
	if current.Sign()*next.Sign() < 0 {
		return key, CrossingZero
	}
	return key, NotRejected
}

// cashLegDelta is price × quantity. A missing price counts as one unit of the
// currency, and a SELL side turns the movement into a withdrawal.
func cashLegDelta(tx RawTransaction) Money {
	price := tx.Price
	if !price.IsSet() {
		price = M(1, tx.Currency)
	}
	delta := price.Mul(tx.Quantity)
	if tx.Side == Sell {
		delta = delta.Neg()
	}
	return delta
}
