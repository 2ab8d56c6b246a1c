// Package store persists transactions and opening balances in a SQLite
// database, so that several imports can be accumulated and replayed together.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/tradelog"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id        TEXT PRIMARY KEY,
	account   TEXT NOT NULL,
	currency  TEXT NOT NULL,
	timestamp INTEGER NOT NULL,
	data      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS transactions_replay ON transactions (timestamp, id);
CREATE TABLE IF NOT EXISTS opening_balances (
	account  TEXT PRIMARY KEY,
	currency TEXT NOT NULL,
	amount   TEXT NOT NULL
);
`

// Store is a transaction database.
type Store struct {
	conn *sql.DB
	path string
}

// Open opens the database at path, creating it and its schema if needed.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	// a single writer is all SQLite can do.
	conn.SetMaxOpenConns(1)

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{conn: conn, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Path returns the database file.
func (s *Store) Path() string { return s.path }

// PutTransactions inserts transactions, replacing the ones with the same id.
// It is all or nothing.
func (s *Store) PutTransactions(ctx context.Context, txs []tradelog.RawTransaction) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (id, account, currency, timestamp, data) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			account = excluded.account,
			currency = excluded.currency,
			timestamp = excluded.timestamp,
			data = excluded.data`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range txs {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to encode transaction %q: %w", t.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, t.ID, t.Account, string(t.Currency), t.Timestamp.UnixNano(), string(data)); err != nil {
			return fmt.Errorf("failed to insert transaction %q: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

// Transactions returns all transactions in replay order.
func (s *Store) Transactions(ctx context.Context) ([]tradelog.RawTransaction, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT data FROM transactions ORDER BY timestamp, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []tradelog.RawTransaction
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		var t tradelog.RawTransaction
		if err := json.Unmarshal([]byte(data), &t); err != nil {
			return nil, fmt.Errorf("failed to decode transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// Count returns the number of stored transactions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}

// PutOpeningBalances sets the opening balance of each account in opening.
func (s *Store) PutOpeningBalances(ctx context.Context, opening tradelog.OpeningBalances) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for account, m := range opening {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO opening_balances (account, currency, amount) VALUES (?, ?, ?)
			ON CONFLICT(account) DO UPDATE SET currency = excluded.currency, amount = excluded.amount`,
			account, string(m.Currency()), m.Fixed())
		if err != nil {
			return fmt.Errorf("failed to store opening balance of %q: %w", account, err)
		}
	}
	return tx.Commit()
}

// OpeningBalances returns the stored opening balances.
func (s *Store) OpeningBalances(ctx context.Context) (tradelog.OpeningBalances, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT account, currency, amount FROM opening_balances`)
	if err != nil {
		return nil, fmt.Errorf("failed to query opening balances: %w", err)
	}
	defer rows.Close()

	opening := make(tradelog.OpeningBalances)
	for rows.Next() {
		var account, currency, amount string
		if err := rows.Scan(&account, &currency, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan opening balance: %w", err)
		}
		cur, err := tradelog.ParseCurrency(currency)
		if err != nil {
			return nil, fmt.Errorf("opening balance of %q: %w", account, err)
		}
		m, err := tradelog.ParseMoney(amount, cur)
		if err != nil {
			return nil, fmt.Errorf("opening balance of %q: %w", account, err)
		}
		opening[account] = m
	}
	return opening, rows.Err()
}
