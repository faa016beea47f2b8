/*
Package sqlite provides a SQLite-backed implementation of ledger.Collections.

PURPOSE:
  Stands in for the hosted relational store. Records are camelCase in
  memory and snake_case at this boundary; the mapping lives entirely here.

UPDATE SEMANTICS:
  Each Update* call loads the current collection, applies the pure
  transform, and persists the diff (upserted and deleted rows keyed by id)
  inside a single SQL transaction. The call is atomic for its own
  collection only; the orchestrator's multi-collection sequences are not
  wrapped in a cross-collection transaction.

AMOUNTS & DATES:
  Decimal amounts are stored as their string form to avoid float drift.
  Timestamps are RFC3339 text.

WAL MODE:
  Opened with WAL for better read concurrency; a mutex serializes writers
  within the process on top of it.

SEE ALSO:
  - ledger/store.go: the Collections contract
  - store/memory: the local fallback implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/yorozu/backoffice/ledger"
)

// Store implements ledger.Collections on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at path. Use ":memory:" for tests.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS accounts (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		balance TEXT,
		business_id INTEGER DEFAULT 0,
		tags_json TEXT,
		is_archived BOOLEAN DEFAULT FALSE
	);

	CREATE TABLE IF NOT EXISTS persons (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		business_id INTEGER DEFAULT 0,
		memo TEXT,
		tags_json TEXT,
		is_archived BOOLEAN DEFAULT FALSE
	);

	CREATE TABLE IF NOT EXISTS lendings (
		id INTEGER PRIMARY KEY,
		account_id INTEGER NOT NULL,
		counterparty_type TEXT NOT NULL,
		counterparty_id INTEGER NOT NULL,
		type TEXT NOT NULL,
		amount TEXT NOT NULL,
		date TEXT NOT NULL,
		memo TEXT,
		returned BOOLEAN DEFAULT FALSE,
		original_id INTEGER DEFAULT 0,
		is_archived BOOLEAN DEFAULT FALSE,
		created_by_user_id INTEGER DEFAULT 0,
		created_at TEXT,
		last_edited_by_user_id INTEGER DEFAULT 0,
		last_edited_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_lendings_account ON lendings(account_id);
	CREATE INDEX IF NOT EXISTS idx_lendings_counterparty
		ON lendings(counterparty_type, counterparty_id);

	CREATE TABLE IF NOT EXISTS account_transactions (
		id INTEGER PRIMARY KEY,
		type TEXT NOT NULL,
		account_id INTEGER DEFAULT 0,
		from_account_id INTEGER DEFAULT 0,
		to_account_id INTEGER DEFAULT 0,
		amount TEXT NOT NULL,
		date TEXT NOT NULL,
		memo TEXT,
		is_archived BOOLEAN DEFAULT FALSE,
		linked_transaction_id INTEGER DEFAULT 0,
		created_by_user_id INTEGER DEFAULT 0,
		created_at TEXT,
		last_edited_by_user_id INTEGER DEFAULT 0,
		last_edited_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_account
		ON account_transactions(account_id);

	CREATE TABLE IF NOT EXISTS journal_entries (
		id INTEGER PRIMARY KEY,
		type TEXT NOT NULL,
		category TEXT,
		amount TEXT NOT NULL,
		date TEXT NOT NULL,
		memo TEXT
	);

	CREATE TABLE IF NOT EXISTS lending_histories (
		id INTEGER PRIMARY KEY,
		lending_id INTEGER NOT NULL,
		action TEXT NOT NULL,
		description TEXT NOT NULL,
		changes_json TEXT,
		user_id INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_lending_histories_parent
		ON lending_histories(lending_id);

	CREATE TABLE IF NOT EXISTS account_transaction_histories (
		id INTEGER PRIMARY KEY,
		transaction_id INTEGER NOT NULL,
		action TEXT NOT NULL,
		description TEXT NOT NULL,
		changes_json TEXT,
		user_id INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transaction_histories_parent
		ON account_transaction_histories(transaction_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Reset clears all data (tests and dev only).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tables := []string{
		"accounts", "persons", "lendings", "account_transactions",
		"journal_entries", "lending_histories", "account_transaction_histories",
	}
	for _, t := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+t); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// READS
// =============================================================================

func (s *Store) Accounts(ctx context.Context) ([]ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadAccounts(ctx, s.db)
}

func (s *Store) Persons(ctx context.Context) ([]ledger.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadPersons(ctx, s.db)
}

func (s *Store) Lendings(ctx context.Context) ([]ledger.Lending, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadLendings(ctx, s.db)
}

func (s *Store) AccountTransactions(ctx context.Context) ([]ledger.AccountTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadTransactions(ctx, s.db)
}

func (s *Store) JournalEntries(ctx context.Context) ([]ledger.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadJournal(ctx, s.db)
}

func (s *Store) LendingHistories(ctx context.Context) ([]ledger.LendingHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadLendingHistories(ctx, s.db)
}

func (s *Store) AccountTransactionHistories(ctx context.Context) ([]ledger.AccountTransactionHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadTransactionHistories(ctx, s.db)
}

// =============================================================================
// UPDATES - load, transform, diff-write in one SQL transaction
// =============================================================================

func (s *Store) UpdateAccounts(ctx context.Context, fn func([]ledger.Account) []ledger.Account) ([]ledger.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []ledger.Account
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := s.loadAccounts(ctx, tx)
		if err != nil {
			return err
		}
		result = fn(current)
		before := ids(current, func(a ledger.Account) int64 { return a.ID })
		after := ids(result, func(a ledger.Account) int64 { return a.ID })
		if err := deleteMissing(ctx, tx, "accounts", before, after); err != nil {
			return err
		}
		for _, a := range result {
			var balance sql.NullString
			if a.Balance != nil {
				balance = sql.NullString{String: a.Balance.String(), Valid: true}
			}
			_, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO accounts
				(id, name, balance, business_id, tags_json, is_archived)
				VALUES (?, ?, ?, ?, ?, ?)`,
				a.ID, a.Name, balance, a.BusinessID, marshalTags(a.Tags), a.IsArchived)
			if err != nil {
				return err
			}
		}
		return nil
	})
	return result, err
}

func (s *Store) UpdatePersons(ctx context.Context, fn func([]ledger.Person) []ledger.Person) ([]ledger.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []ledger.Person
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := s.loadPersons(ctx, tx)
		if err != nil {
			return err
		}
		result = fn(current)
		before := ids(current, func(p ledger.Person) int64 { return p.ID })
		after := ids(result, func(p ledger.Person) int64 { return p.ID })
		if err := deleteMissing(ctx, tx, "persons", before, after); err != nil {
			return err
		}
		for _, p := range result {
			_, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO persons
				(id, name, business_id, memo, tags_json, is_archived)
				VALUES (?, ?, ?, ?, ?, ?)`,
				p.ID, p.Name, p.BusinessID, p.Memo, marshalTags(p.Tags), p.IsArchived)
			if err != nil {
				return err
			}
		}
		return nil
	})
	return result, err
}

func (s *Store) UpdateLendings(ctx context.Context, fn func([]ledger.Lending) []ledger.Lending) ([]ledger.Lending, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []ledger.Lending
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := s.loadLendings(ctx, tx)
		if err != nil {
			return err
		}
		result = fn(current)
		before := ids(current, func(l ledger.Lending) int64 { return l.ID })
		after := ids(result, func(l ledger.Lending) int64 { return l.ID })
		if err := deleteMissing(ctx, tx, "lendings", before, after); err != nil {
			return err
		}
		for _, l := range result {
			_, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO lendings
				(id, account_id, counterparty_type, counterparty_id, type, amount, date,
				 memo, returned, original_id, is_archived,
				 created_by_user_id, created_at, last_edited_by_user_id, last_edited_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				l.ID, l.AccountID, string(l.CounterpartyType), l.CounterpartyID,
				string(l.Type), l.Amount.String(), formatTime(l.Date), l.Memo,
				l.Returned, l.OriginalID, l.IsArchived,
				l.CreatedByUserID, formatTime(l.CreatedAt),
				l.LastEditedByUserID, formatTime(l.LastEditedAt))
			if err != nil {
				return err
			}
		}
		return nil
	})
	return result, err
}

func (s *Store) UpdateAccountTransactions(ctx context.Context, fn func([]ledger.AccountTransaction) []ledger.AccountTransaction) ([]ledger.AccountTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []ledger.AccountTransaction
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := s.loadTransactions(ctx, tx)
		if err != nil {
			return err
		}
		result = fn(current)
		before := ids(current, func(t ledger.AccountTransaction) int64 { return t.ID })
		after := ids(result, func(t ledger.AccountTransaction) int64 { return t.ID })
		if err := deleteMissing(ctx, tx, "account_transactions", before, after); err != nil {
			return err
		}
		for _, t := range result {
			_, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO account_transactions
				(id, type, account_id, from_account_id, to_account_id, amount, date,
				 memo, is_archived, linked_transaction_id,
				 created_by_user_id, created_at, last_edited_by_user_id, last_edited_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				t.ID, string(t.Type), t.AccountID, t.FromAccountID, t.ToAccountID,
				t.Amount.String(), formatTime(t.Date), t.Memo,
				t.IsArchived, t.LinkedTransactionID,
				t.CreatedByUserID, formatTime(t.CreatedAt),
				t.LastEditedByUserID, formatTime(t.LastEditedAt))
			if err != nil {
				return err
			}
		}
		return nil
	})
	return result, err
}

func (s *Store) UpdateJournalEntries(ctx context.Context, fn func([]ledger.JournalEntry) []ledger.JournalEntry) ([]ledger.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []ledger.JournalEntry
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := s.loadJournal(ctx, tx)
		if err != nil {
			return err
		}
		result = fn(current)
		before := ids(current, func(e ledger.JournalEntry) int64 { return e.ID })
		after := ids(result, func(e ledger.JournalEntry) int64 { return e.ID })
		if err := deleteMissing(ctx, tx, "journal_entries", before, after); err != nil {
			return err
		}
		for _, e := range result {
			_, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO journal_entries
				(id, type, category, amount, date, memo)
				VALUES (?, ?, ?, ?, ?, ?)`,
				e.ID, string(e.Type), e.Category, e.Amount.String(),
				formatTime(e.Date), e.Memo)
			if err != nil {
				return err
			}
		}
		return nil
	})
	return result, err
}

func (s *Store) UpdateLendingHistories(ctx context.Context, fn func([]ledger.LendingHistory) []ledger.LendingHistory) ([]ledger.LendingHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []ledger.LendingHistory
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := s.loadLendingHistories(ctx, tx)
		if err != nil {
			return err
		}
		result = fn(current)
		// History is append-only; no delete pass.
		for _, h := range result {
			_, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO lending_histories
				(id, lending_id, action, description, changes_json, user_id, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				h.ID, h.LendingID, string(h.Action), h.Description,
				h.ChangesJSON, h.UserID, formatTime(h.CreatedAt))
			if err != nil {
				return err
			}
		}
		return nil
	})
	return result, err
}

func (s *Store) UpdateAccountTransactionHistories(ctx context.Context, fn func([]ledger.AccountTransactionHistory) []ledger.AccountTransactionHistory) ([]ledger.AccountTransactionHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []ledger.AccountTransactionHistory
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := s.loadTransactionHistories(ctx, tx)
		if err != nil {
			return err
		}
		result = fn(current)
		for _, h := range result {
			_, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO account_transaction_histories
				(id, transaction_id, action, description, changes_json, user_id, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				h.ID, h.TransactionID, string(h.Action), h.Description,
				h.ChangesJSON, h.UserID, formatTime(h.CreatedAt))
			if err != nil {
				return err
			}
		}
		return nil
	})
	return result, err
}

// =============================================================================
// ROW MAPPING
// =============================================================================

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) loadAccounts(ctx context.Context, q querier) ([]ledger.Account, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, balance, business_id, tags_json, is_archived
		FROM accounts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Account
	for rows.Next() {
		var a ledger.Account
		var balance, tags sql.NullString
		if err := rows.Scan(&a.ID, &a.Name, &balance, &a.BusinessID, &tags, &a.IsArchived); err != nil {
			return nil, err
		}
		if balance.Valid {
			d, err := decimal.NewFromString(balance.String)
			if err != nil {
				return nil, fmt.Errorf("account %d: bad balance %q: %w", a.ID, balance.String, err)
			}
			a.Balance = &d
		}
		a.Tags = unmarshalTags(tags)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) loadPersons(ctx context.Context, q querier) ([]ledger.Person, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, business_id, memo, tags_json, is_archived
		FROM persons ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Person
	for rows.Next() {
		var p ledger.Person
		var memo, tags sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.BusinessID, &memo, &tags, &p.IsArchived); err != nil {
			return nil, err
		}
		p.Memo = memo.String
		p.Tags = unmarshalTags(tags)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) loadLendings(ctx context.Context, q querier) ([]ledger.Lending, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, account_id, counterparty_type, counterparty_id, type, amount, date,
		       memo, returned, original_id, is_archived,
		       created_by_user_id, created_at, last_edited_by_user_id, last_edited_at
		FROM lendings ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Lending
	for rows.Next() {
		var l ledger.Lending
		var ct, typ, amount, date string
		var memo, createdAt, editedAt sql.NullString
		if err := rows.Scan(&l.ID, &l.AccountID, &ct, &l.CounterpartyID, &typ, &amount,
			&date, &memo, &l.Returned, &l.OriginalID, &l.IsArchived,
			&l.CreatedByUserID, &createdAt, &l.LastEditedByUserID, &editedAt); err != nil {
			return nil, err
		}
		l.CounterpartyType = ledger.CounterpartyType(ct)
		l.Type = ledger.LendingType(typ)
		l.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("lending %d: bad amount %q: %w", l.ID, amount, err)
		}
		l.Date = parseTime(date)
		l.Memo = memo.String
		l.CreatedAt = parseTime(createdAt.String)
		l.LastEditedAt = parseTime(editedAt.String)
		out = append(out, l.Normalize())
	}
	return out, rows.Err()
}

func (s *Store) loadTransactions(ctx context.Context, q querier) ([]ledger.AccountTransaction, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, type, account_id, from_account_id, to_account_id, amount, date,
		       memo, is_archived, linked_transaction_id,
		       created_by_user_id, created_at, last_edited_by_user_id, last_edited_at
		FROM account_transactions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.AccountTransaction
	for rows.Next() {
		var t ledger.AccountTransaction
		var typ, amount, date string
		var memo, createdAt, editedAt sql.NullString
		if err := rows.Scan(&t.ID, &typ, &t.AccountID, &t.FromAccountID, &t.ToAccountID,
			&amount, &date, &memo, &t.IsArchived, &t.LinkedTransactionID,
			&t.CreatedByUserID, &createdAt, &t.LastEditedByUserID, &editedAt); err != nil {
			return nil, err
		}
		t.Type = ledger.TransactionType(typ)
		t.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: bad amount %q: %w", t.ID, amount, err)
		}
		t.Date = parseTime(date)
		t.Memo = memo.String
		t.CreatedAt = parseTime(createdAt.String)
		t.LastEditedAt = parseTime(editedAt.String)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) loadJournal(ctx context.Context, q querier) ([]ledger.JournalEntry, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, type, category, amount, date, memo
		FROM journal_entries ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.JournalEntry
	for rows.Next() {
		var e ledger.JournalEntry
		var typ, amount, date string
		var category, memo sql.NullString
		if err := rows.Scan(&e.ID, &typ, &category, &amount, &date, &memo); err != nil {
			return nil, err
		}
		e.Type = ledger.JournalEntryType(typ)
		e.Category = category.String
		e.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("journal entry %d: bad amount %q: %w", e.ID, amount, err)
		}
		e.Date = parseTime(date)
		e.Memo = memo.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) loadLendingHistories(ctx context.Context, q querier) ([]ledger.LendingHistory, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, lending_id, action, description, changes_json, user_id, created_at
		FROM lending_histories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.LendingHistory
	for rows.Next() {
		var h ledger.LendingHistory
		var action, createdAt string
		var changes sql.NullString
		if err := rows.Scan(&h.ID, &h.LendingID, &action, &h.Description, &changes, &h.UserID, &createdAt); err != nil {
			return nil, err
		}
		h.Action = ledger.HistoryAction(action)
		h.ChangesJSON = changes.String
		h.CreatedAt = parseTime(createdAt)
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *Store) loadTransactionHistories(ctx context.Context, q querier) ([]ledger.AccountTransactionHistory, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, transaction_id, action, description, changes_json, user_id, created_at
		FROM account_transaction_histories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.AccountTransactionHistory
	for rows.Next() {
		var h ledger.AccountTransactionHistory
		var action, createdAt string
		var changes sql.NullString
		if err := rows.Scan(&h.ID, &h.TransactionID, &action, &h.Description, &changes, &h.UserID, &createdAt); err != nil {
			return nil, err
		}
		h.Action = ledger.HistoryAction(action)
		h.ChangesJSON = changes.String
		h.CreatedAt = parseTime(createdAt)
		out = append(out, h)
	}
	return out, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func ids[T any](items []T, id func(T) int64) map[int64]bool {
	out := make(map[int64]bool, len(items))
	for _, it := range items {
		out[id(it)] = true
	}
	return out
}

// deleteMissing removes rows whose ids were in the old snapshot but are
// absent from the transformed one.
func deleteMissing(ctx context.Context, tx *sql.Tx, table string, before, after map[int64]bool) error {
	var gone []any
	for id := range before {
		if !after[id] {
			gone = append(gone, id)
		}
	}
	if len(gone) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(gone)), ",")
	_, err := tx.ExecContext(ctx,
		"DELETE FROM "+table+" WHERE id IN ("+placeholders+")", gone...)
	return err
}

func marshalTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	b, _ := json.Marshal(tags)
	return string(b)
}

func unmarshalTags(s sql.NullString) []string {
	if !s.Valid || s.String == "" {
		return nil
	}
	var tags []string
	json.Unmarshal([]byte(s.String), &tags)
	return tags
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
