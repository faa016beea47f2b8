/*
store.go - Collection persistence interface

PURPOSE:
  The ledger core never talks to a database directly. It consumes a
  Collections store: per-collection reads plus an atomic replace-via-updater
  for each record table. An update applies a pure transform to the current
  snapshot, persists the diff, and returns the new snapshot.

CONTRACT:
  - Updaters must be pure: no mutation of the input slice.
  - Each Update* call is atomic for its own collection only. Multi-step
    operations (reverse, apply, persist, history) are NOT wrapped in a
    cross-collection transaction; a failure partway leaves earlier steps
    committed. Balance displays recover because they are recomputed from
    the full active record set on every read.
  - The host serializes ledger operations (single-writer); the store does
    not detect concurrent lost updates.

IMPLEMENTATIONS:
  - store/memory: mutex-guarded in-memory collections (local fallback)
  - store/sqlite: SQLite-backed, id-keyed diff writes (hosted store)

SEE ALSO:
  - operations.go: the only consumer of the update methods
*/
package ledger

import "context"

// Collections is the named-collection update interface the core consumes.
type Collections interface {
	Accounts(ctx context.Context) ([]Account, error)
	Persons(ctx context.Context) ([]Person, error)
	Lendings(ctx context.Context) ([]Lending, error)
	AccountTransactions(ctx context.Context) ([]AccountTransaction, error)
	JournalEntries(ctx context.Context) ([]JournalEntry, error)
	LendingHistories(ctx context.Context) ([]LendingHistory, error)
	AccountTransactionHistories(ctx context.Context) ([]AccountTransactionHistory, error)

	UpdateAccounts(ctx context.Context, fn func([]Account) []Account) ([]Account, error)
	UpdatePersons(ctx context.Context, fn func([]Person) []Person) ([]Person, error)
	UpdateLendings(ctx context.Context, fn func([]Lending) []Lending) ([]Lending, error)
	UpdateAccountTransactions(ctx context.Context, fn func([]AccountTransaction) []AccountTransaction) ([]AccountTransaction, error)
	UpdateJournalEntries(ctx context.Context, fn func([]JournalEntry) []JournalEntry) ([]JournalEntry, error)
	UpdateLendingHistories(ctx context.Context, fn func([]LendingHistory) []LendingHistory) ([]LendingHistory, error)
	UpdateAccountTransactionHistories(ctx context.Context, fn func([]AccountTransactionHistory) []AccountTransactionHistory) ([]AccountTransactionHistory, error)
}
