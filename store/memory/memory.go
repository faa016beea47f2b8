// Package memory provides an in-memory Collections implementation.
//
// It is the local fallback used when no database is configured, and the
// backing store for tests. Every update applies the pure transform under a
// write lock and keeps the result; reads hand out copies so callers can
// never mutate shared state.
package memory

import (
	"context"
	"sync"

	"github.com/yorozu/backoffice/ledger"
)

type Store struct {
	mu sync.RWMutex

	accounts             []ledger.Account
	persons              []ledger.Person
	lendings             []ledger.Lending
	transactions         []ledger.AccountTransaction
	journal              []ledger.JournalEntry
	lendingHistories     []ledger.LendingHistory
	transactionHistories []ledger.AccountTransactionHistory
}

func New() *Store {
	return &Store{}
}

// Seed replaces the account and person collections, normalizing legacy
// lending rows on the way in. Intended for tests and dev bootstrapping.
func (s *Store) Seed(accounts []ledger.Account, persons []ledger.Person, lendings []ledger.Lending) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = copySlice(accounts)
	s.persons = copySlice(persons)
	s.lendings = make([]ledger.Lending, 0, len(lendings))
	for _, l := range lendings {
		s.lendings = append(s.lendings, l.Normalize())
	}
}

// =============================================================================
// READS
// =============================================================================

func (s *Store) Accounts(context.Context) ([]ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.accounts), nil
}

func (s *Store) Persons(context.Context) ([]ledger.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.persons), nil
}

func (s *Store) Lendings(context.Context) ([]ledger.Lending, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.lendings), nil
}

func (s *Store) AccountTransactions(context.Context) ([]ledger.AccountTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.transactions), nil
}

func (s *Store) JournalEntries(context.Context) ([]ledger.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.journal), nil
}

func (s *Store) LendingHistories(context.Context) ([]ledger.LendingHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.lendingHistories), nil
}

func (s *Store) AccountTransactionHistories(context.Context) ([]ledger.AccountTransactionHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.transactionHistories), nil
}

// =============================================================================
// UPDATES
// =============================================================================

func (s *Store) UpdateAccounts(_ context.Context, fn func([]ledger.Account) []ledger.Account) ([]ledger.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = fn(copySlice(s.accounts))
	return copySlice(s.accounts), nil
}

func (s *Store) UpdatePersons(_ context.Context, fn func([]ledger.Person) []ledger.Person) ([]ledger.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persons = fn(copySlice(s.persons))
	return copySlice(s.persons), nil
}

func (s *Store) UpdateLendings(_ context.Context, fn func([]ledger.Lending) []ledger.Lending) ([]ledger.Lending, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lendings = fn(copySlice(s.lendings))
	return copySlice(s.lendings), nil
}

func (s *Store) UpdateAccountTransactions(_ context.Context, fn func([]ledger.AccountTransaction) []ledger.AccountTransaction) ([]ledger.AccountTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = fn(copySlice(s.transactions))
	return copySlice(s.transactions), nil
}

func (s *Store) UpdateJournalEntries(_ context.Context, fn func([]ledger.JournalEntry) []ledger.JournalEntry) ([]ledger.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journal = fn(copySlice(s.journal))
	return copySlice(s.journal), nil
}

func (s *Store) UpdateLendingHistories(_ context.Context, fn func([]ledger.LendingHistory) []ledger.LendingHistory) ([]ledger.LendingHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lendingHistories = fn(copySlice(s.lendingHistories))
	return copySlice(s.lendingHistories), nil
}

func (s *Store) UpdateAccountTransactionHistories(_ context.Context, fn func([]ledger.AccountTransactionHistory) []ledger.AccountTransactionHistory) ([]ledger.AccountTransactionHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactionHistories = fn(copySlice(s.transactionHistories))
	return copySlice(s.transactionHistories), nil
}

func copySlice[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
