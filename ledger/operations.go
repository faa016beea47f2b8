/*
operations.go - Edit/archive workflows for lendings and account transactions

PURPOSE:
  Coordinates full create, edit, archive, and return operations so that
  account balances always reflect exactly the currently-active record set
  and every mutation is explained by a history entry.

EDIT SHAPE:
  1. Locate the current record; silently no-op if it is gone.
  2. Diff old vs. merged values; silently no-op if nothing changed.
  3. Reverse the old balance effect (reversing=true).
  4. Apply the new balance effect (reversing=false).
  5. Persist the merged record plus edit audit fields.
  6. Append a history entry with the human-readable diff.
  Both balance steps honor the same returned/transfer state read once at
  the start; the returned flag itself is never part of an edit (returning
  is its own operation, MarkLendingReturned).

ARCHIVAL:
  Soft delete: reverse the balance effect, set the archived flag, keep the
  record and its history. Journal entries linked from archived transactions
  are the one exception and are hard-deleted.

FAILURE SEMANTICS:
  Operations are best-effort sequences of independent collection updates.
  A failing step propagates its error and earlier steps stay committed;
  there is no cross-collection rollback. Displays recover because balances
  are recomputed from the active record set on every read.

SEE ALSO:
  - delta.go: all sign decisions
  - describe.go: the diffs persisted into history
  - store.go: the Collections contract and its atomicity limits
*/
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Service runs ledger operations against a Collections store. The host is
// expected to serialize calls; the service reads fresh snapshots at the
// start of each operation instead of holding state between calls.
type Service struct {
	Store Collections
	Now   func() time.Time
}

func NewService(store Collections) *Service {
	return &Service{Store: store, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// effectiveUser falls back to user 1 when an unauthenticated context leaks
// through; history entries must always be attributable.
func effectiveUser(userID int64) int64 {
	if userID == 0 {
		return 1
	}
	return userID
}

// =============================================================================
// INPUTS
// =============================================================================

// LendingInput creates a new lend or borrow record. Return records are
// never created directly; see MarkLendingReturned.
type LendingInput struct {
	AccountID        int64
	CounterpartyType CounterpartyType
	CounterpartyID   int64
	Type             LendingType
	Amount           decimal.Decimal
	Date             time.Time
	Memo             string
}

// LendingUpdate carries the edited fields; nil means "keep current value".
type LendingUpdate struct {
	Type             *LendingType
	Amount           *decimal.Decimal
	Date             *time.Time
	Memo             *string
	AccountID        *int64
	CounterpartyType *CounterpartyType
	CounterpartyID   *int64
}

// TransactionInput creates a new account transaction. Transfers use
// From/ToAccountID; every other type uses AccountID.
type TransactionInput struct {
	Type          TransactionType
	AccountID     int64
	FromAccountID int64
	ToAccountID   int64
	Amount        decimal.Decimal
	Date          time.Time
	Memo          string
}

// TransactionUpdate carries the edited fields; nil means "keep current value".
type TransactionUpdate struct {
	Type          *TransactionType
	Amount        *decimal.Decimal
	Date          *time.Time
	Memo          *string
	AccountID     *int64
	FromAccountID *int64
	ToAccountID   *int64
}

// =============================================================================
// LENDING OPERATIONS
// =============================================================================

// CreateLending records a new lend or borrow, applies its balance effect to
// the account, and appends a created-history entry.
func (s *Service) CreateLending(ctx context.Context, in LendingInput, userID int64) (Lending, error) {
	if in.Type != LendingLend && in.Type != LendingBorrow {
		return Lending{}, fmt.Errorf("create lending: %w: %s", ErrInvalidType, in.Type)
	}
	if in.Amount.IsZero() {
		return Lending{}, fmt.Errorf("create lending: %w", ErrInvalidAmount)
	}

	delta := LendingBalanceChange(in.Type, in.Amount, false)
	if _, err := s.Store.UpdateAccounts(ctx, SingleAccountBalanceUpdater(in.AccountID, delta)); err != nil {
		return Lending{}, fmt.Errorf("create lending: apply balance: %w", err)
	}

	now := s.now()
	var created Lending
	_, err := s.Store.UpdateLendings(ctx, func(items []Lending) []Lending {
		created = Lending{
			ID:               NextID(items),
			AccountID:        in.AccountID,
			CounterpartyType: in.CounterpartyType,
			CounterpartyID:   in.CounterpartyID,
			Type:             in.Type,
			Amount:           in.Amount,
			Date:             in.Date,
			Memo:             in.Memo,
			CreatedByUserID:  effectiveUser(userID),
			CreatedAt:        now,
		}
		return append(copyOf(items), created)
	})
	if err != nil {
		return Lending{}, fmt.Errorf("create lending: persist: %w", err)
	}

	if err := s.appendLendingHistory(ctx, created.ID, ActionCreated, "新規作成", "", userID); err != nil {
		return Lending{}, err
	}
	return created, nil
}

// SaveLendingEdit applies an edit to an existing lending. Missing records
// and empty change sets are silent no-ops. When the lending is not yet
// returned, its old balance effect is reversed before the new one is
// applied; both steps use the returned flag read once at the start.
func (s *Service) SaveLendingEdit(ctx context.Context, id int64, upd LendingUpdate, userID int64) error {
	lendings, err := s.Store.Lendings(ctx)
	if err != nil {
		return err
	}
	old, ok := findLending(lendings, id)
	if !ok {
		return nil
	}

	merged := applyLendingUpdate(old, upd)

	accounts, err := s.Store.Accounts(ctx)
	if err != nil {
		return err
	}
	persons, err := s.Store.Persons(ctx)
	if err != nil {
		return err
	}
	cs := DescribeChanges(lendingFieldValues(old), lendingFieldValues(merged), accounts, persons)
	if cs.Empty() {
		return nil
	}

	wasReturned := old.Returned
	if !wasReturned {
		reverse := SingleAccountBalanceUpdater(old.AccountID, LendingBalanceChange(old.Type, old.Amount, true))
		if _, err := s.Store.UpdateAccounts(ctx, reverse); err != nil {
			return fmt.Errorf("edit lending %d: reverse balance: %w", id, err)
		}
	}
	if !wasReturned {
		apply := SingleAccountBalanceUpdater(merged.AccountID, LendingBalanceChange(merged.Type, merged.Amount, false))
		if _, err := s.Store.UpdateAccounts(ctx, apply); err != nil {
			return fmt.Errorf("edit lending %d: apply balance: %w", id, err)
		}
	}

	merged.LastEditedByUserID = effectiveUser(userID)
	merged.LastEditedAt = s.now()
	if _, err := s.Store.UpdateLendings(ctx, replaceLending(merged)); err != nil {
		return fmt.Errorf("edit lending %d: persist: %w", id, err)
	}

	return s.appendLendingHistory(ctx, id, ActionUpdated, cs.Description, MarshalChanges(cs.Changes), userID)
}

// ArchiveLending soft-deletes a lending: its balance effect is reversed
// (unless already returned), the archived flag is set, and the record plus
// its history stay in place. Archived records are excluded from every
// balance scan and listing by convention.
func (s *Service) ArchiveLending(ctx context.Context, id int64, userID int64) error {
	lendings, err := s.Store.Lendings(ctx)
	if err != nil {
		return err
	}
	old, ok := findLending(lendings, id)
	if !ok {
		return nil
	}

	if !old.Returned {
		reverse := SingleAccountBalanceUpdater(old.AccountID, LendingBalanceChange(old.Type, old.Amount, true))
		if _, err := s.Store.UpdateAccounts(ctx, reverse); err != nil {
			return fmt.Errorf("archive lending %d: reverse balance: %w", id, err)
		}
	}

	old.IsArchived = true
	old.LastEditedByUserID = effectiveUser(userID)
	old.LastEditedAt = s.now()
	if _, err := s.Store.UpdateLendings(ctx, replaceLending(old)); err != nil {
		return fmt.Errorf("archive lending %d: persist: %w", id, err)
	}

	return s.appendLendingHistory(ctx, id, ActionArchived, "アーカイブに移動", "", userID)
}

// MarkLendingReturned closes a lend or borrow: it applies the closing
// balance effect, generates the return record (amount = the closing delta,
// Returned=true, linked via OriginalID), flips the original's returned
// flag, and appends a returned-history entry.
func (s *Service) MarkLendingReturned(ctx context.Context, id int64, userID int64) (Lending, error) {
	lendings, err := s.Store.Lendings(ctx)
	if err != nil {
		return Lending{}, err
	}
	old, ok := findLending(lendings, id)
	if !ok {
		return Lending{}, fmt.Errorf("return lending %d: %w", id, ErrNotFound)
	}
	if old.Returned {
		return Lending{}, fmt.Errorf("return lending %d: %w", id, ErrAlreadyReturned)
	}
	if old.Type == LendingReturn {
		return Lending{}, fmt.Errorf("return lending %d: %w: cannot return a return record", id, ErrInvalidType)
	}

	delta := ReturnBalanceChange(old)
	if _, err := s.Store.UpdateAccounts(ctx, SingleAccountBalanceUpdater(old.AccountID, delta)); err != nil {
		return Lending{}, fmt.Errorf("return lending %d: apply balance: %w", id, err)
	}

	now := s.now()
	var ret Lending
	_, err = s.Store.UpdateLendings(ctx, func(items []Lending) []Lending {
		ret = Lending{
			ID:               NextID(items),
			AccountID:        old.AccountID,
			CounterpartyType: old.CounterpartyType,
			CounterpartyID:   old.CounterpartyID,
			Type:             LendingReturn,
			Amount:           delta,
			Date:             now,
			Memo:             old.Memo,
			Returned:         true,
			OriginalID:       old.ID,
			CreatedByUserID:  effectiveUser(userID),
			CreatedAt:        now,
		}
		out := make([]Lending, 0, len(items)+1)
		for _, l := range items {
			if l.ID == old.ID {
				l.Returned = true
				l.LastEditedByUserID = effectiveUser(userID)
				l.LastEditedAt = now
			}
			out = append(out, l)
		}
		return append(out, ret)
	})
	if err != nil {
		return Lending{}, fmt.Errorf("return lending %d: persist: %w", id, err)
	}

	desc := "返済を記録（" + FormatYen(delta) + "）"
	if err := s.appendLendingHistory(ctx, old.ID, ActionReturned, desc, "", userID); err != nil {
		return Lending{}, err
	}
	return ret, nil
}

// =============================================================================
// ACCOUNT TRANSACTION OPERATIONS
// =============================================================================

// CreateTransaction records a new account transaction and applies its
// balance effect. Interest and investment-gain postings also create a
// linked managerial-accounting journal entry (income or expense by sign,
// absolute amount).
func (s *Service) CreateTransaction(ctx context.Context, in TransactionInput, userID int64) (AccountTransaction, error) {
	switch in.Type {
	case TxTransfer:
		if in.FromAccountID == 0 || in.ToAccountID == 0 {
			return AccountTransaction{}, fmt.Errorf("create transaction: transfer needs both accounts: %w", ErrInvalidType)
		}
	case TxInterest, TxInvestmentGain, TxDeposit, TxWithdrawal:
		if in.AccountID == 0 {
			return AccountTransaction{}, fmt.Errorf("create transaction: missing account: %w", ErrInvalidType)
		}
	default:
		return AccountTransaction{}, fmt.Errorf("create transaction: %w: %s", ErrInvalidType, in.Type)
	}
	if in.Amount.IsZero() {
		return AccountTransaction{}, fmt.Errorf("create transaction: %w", ErrInvalidAmount)
	}

	var updater AccountUpdater
	if in.Type == TxTransfer {
		updater = TransferBalanceUpdater(in.FromAccountID, in.ToAccountID, in.Amount, false)
	} else {
		updater = SingleAccountBalanceUpdater(in.AccountID, TransactionBalanceChange(in.Type, in.Amount, false))
	}
	if _, err := s.Store.UpdateAccounts(ctx, updater); err != nil {
		return AccountTransaction{}, fmt.Errorf("create transaction: apply balance: %w", err)
	}

	var linkedID int64
	if category := journalCategory(in.Type); category != "" {
		var entry JournalEntry
		_, err := s.Store.UpdateJournalEntries(ctx, func(items []JournalEntry) []JournalEntry {
			entry = JournalEntry{
				ID:       NextID(items),
				Type:     journalType(in.Amount),
				Category: category,
				Amount:   in.Amount.Abs(),
				Date:     in.Date,
				Memo:     in.Memo,
			}
			return append(copyOf(items), entry)
		})
		if err != nil {
			return AccountTransaction{}, fmt.Errorf("create transaction: journal entry: %w", err)
		}
		linkedID = entry.ID
	}

	now := s.now()
	var created AccountTransaction
	_, err := s.Store.UpdateAccountTransactions(ctx, func(items []AccountTransaction) []AccountTransaction {
		created = AccountTransaction{
			ID:                  NextID(items),
			Type:                in.Type,
			AccountID:           in.AccountID,
			FromAccountID:       in.FromAccountID,
			ToAccountID:         in.ToAccountID,
			Amount:              in.Amount,
			Date:                in.Date,
			Memo:                in.Memo,
			LinkedTransactionID: linkedID,
			CreatedByUserID:     effectiveUser(userID),
			CreatedAt:           now,
		}
		return append(copyOf(items), created)
	})
	if err != nil {
		return AccountTransaction{}, fmt.Errorf("create transaction: persist: %w", err)
	}

	if err := s.appendTransactionHistory(ctx, created.ID, ActionCreated, "新規作成", "", userID); err != nil {
		return AccountTransaction{}, err
	}
	return created, nil
}

// SaveTransactionEdit applies an edit to an account transaction: reverse
// the old effect (transfer-aware), apply the merged one, persist, append
// history, and propagate amount/date/memo into the linked journal entry
// for interest/investment-gain postings.
func (s *Service) SaveTransactionEdit(ctx context.Context, id int64, upd TransactionUpdate, userID int64) error {
	txs, err := s.Store.AccountTransactions(ctx)
	if err != nil {
		return err
	}
	old, ok := findTransaction(txs, id)
	if !ok {
		return nil
	}

	merged := applyTransactionUpdate(old, upd)

	accounts, err := s.Store.Accounts(ctx)
	if err != nil {
		return err
	}
	cs := DescribeChanges(transactionFieldValues(old), transactionFieldValues(merged), accounts, nil)
	if cs.Empty() {
		return nil
	}

	var reverse AccountUpdater
	if old.Type == TxTransfer {
		reverse = TransferBalanceUpdater(old.FromAccountID, old.ToAccountID, old.Amount, true)
	} else {
		reverse = SingleAccountBalanceUpdater(old.AccountID, TransactionBalanceChange(old.Type, old.Amount, true))
	}
	if _, err := s.Store.UpdateAccounts(ctx, reverse); err != nil {
		return fmt.Errorf("edit transaction %d: reverse balance: %w", id, err)
	}

	var apply AccountUpdater
	if merged.Type == TxTransfer {
		apply = TransferBalanceUpdater(merged.FromAccountID, merged.ToAccountID, merged.Amount, false)
	} else {
		apply = SingleAccountBalanceUpdater(merged.AccountID, TransactionBalanceChange(merged.Type, merged.Amount, false))
	}
	if _, err := s.Store.UpdateAccounts(ctx, apply); err != nil {
		return fmt.Errorf("edit transaction %d: apply balance: %w", id, err)
	}

	merged.LastEditedByUserID = effectiveUser(userID)
	merged.LastEditedAt = s.now()
	if _, err := s.Store.UpdateAccountTransactions(ctx, replaceTransaction(merged)); err != nil {
		return fmt.Errorf("edit transaction %d: persist: %w", id, err)
	}

	if err := s.appendTransactionHistory(ctx, id, ActionUpdated, cs.Description, MarshalChanges(cs.Changes), userID); err != nil {
		return err
	}

	// Keep the managerial-accounting mirror in sync for interest/gain rows.
	if old.LinkedTransactionID != 0 && journalCategory(old.Type) != "" {
		category := journalCategory(merged.Type)
		_, err := s.Store.UpdateJournalEntries(ctx, func(items []JournalEntry) []JournalEntry {
			out := copyOf(items)
			for i, e := range out {
				if e.ID != old.LinkedTransactionID {
					continue
				}
				e.Type = journalType(merged.Amount)
				e.Amount = merged.Amount.Abs()
				e.Date = merged.Date
				e.Memo = merged.Memo
				if category != "" {
					e.Category = category
				}
				out[i] = e
			}
			return out
		})
		if err != nil {
			return fmt.Errorf("edit transaction %d: journal entry: %w", id, err)
		}
	}
	return nil
}

// ArchiveTransaction soft-deletes an account transaction: the balance
// effect is reversed (transfer-aware) and the archived flag set. The linked
// journal entry, when present, is hard-deleted; the managerial ledger has
// no soft-delete.
func (s *Service) ArchiveTransaction(ctx context.Context, id int64, userID int64) error {
	txs, err := s.Store.AccountTransactions(ctx)
	if err != nil {
		return err
	}
	old, ok := findTransaction(txs, id)
	if !ok {
		return nil
	}

	var reverse AccountUpdater
	if old.Type == TxTransfer {
		reverse = TransferBalanceUpdater(old.FromAccountID, old.ToAccountID, old.Amount, true)
	} else {
		reverse = SingleAccountBalanceUpdater(old.AccountID, TransactionBalanceChange(old.Type, old.Amount, true))
	}
	if _, err := s.Store.UpdateAccounts(ctx, reverse); err != nil {
		return fmt.Errorf("archive transaction %d: reverse balance: %w", id, err)
	}

	old.IsArchived = true
	old.LastEditedByUserID = effectiveUser(userID)
	old.LastEditedAt = s.now()
	if _, err := s.Store.UpdateAccountTransactions(ctx, replaceTransaction(old)); err != nil {
		return fmt.Errorf("archive transaction %d: persist: %w", id, err)
	}

	if err := s.appendTransactionHistory(ctx, id, ActionArchived, "アーカイブに移動", "", userID); err != nil {
		return err
	}

	if old.LinkedTransactionID != 0 {
		_, err := s.Store.UpdateJournalEntries(ctx, func(items []JournalEntry) []JournalEntry {
			out := make([]JournalEntry, 0, len(items))
			for _, e := range items {
				if e.ID != old.LinkedTransactionID {
					out = append(out, e)
				}
			}
			return out
		})
		if err != nil {
			return fmt.Errorf("archive transaction %d: journal entry: %w", id, err)
		}
	}
	return nil
}

// =============================================================================
// HISTORY APPENDERS
// =============================================================================

func (s *Service) appendLendingHistory(ctx context.Context, lendingID int64, action HistoryAction, desc, changesJSON string, userID int64) error {
	_, err := s.Store.UpdateLendingHistories(ctx, func(items []LendingHistory) []LendingHistory {
		entry := LendingHistory{
			ID:          NextID(items),
			LendingID:   lendingID,
			Action:      action,
			Description: desc,
			ChangesJSON: changesJSON,
			UserID:      effectiveUser(userID),
			CreatedAt:   s.now(),
		}
		return append(copyOf(items), entry)
	})
	if err != nil {
		return fmt.Errorf("lending %d history: %w", lendingID, err)
	}
	return nil
}

func (s *Service) appendTransactionHistory(ctx context.Context, txID int64, action HistoryAction, desc, changesJSON string, userID int64) error {
	_, err := s.Store.UpdateAccountTransactionHistories(ctx, func(items []AccountTransactionHistory) []AccountTransactionHistory {
		entry := AccountTransactionHistory{
			ID:            NextID(items),
			TransactionID: txID,
			Action:        action,
			Description:   desc,
			ChangesJSON:   changesJSON,
			UserID:        effectiveUser(userID),
			CreatedAt:     s.now(),
		}
		return append(copyOf(items), entry)
	})
	if err != nil {
		return fmt.Errorf("transaction %d history: %w", txID, err)
	}
	return nil
}

// =============================================================================
// MERGE / LOOKUP HELPERS
// =============================================================================

func journalCategory(t TransactionType) string {
	switch t {
	case TxInterest:
		return CategoryInterest
	case TxInvestmentGain:
		return CategoryInvestmentGain
	}
	return ""
}

func journalType(amount decimal.Decimal) JournalEntryType {
	if amount.IsNegative() {
		return JournalExpense
	}
	return JournalIncome
}

func findLending(items []Lending, id int64) (Lending, bool) {
	for _, l := range items {
		if l.ID == id {
			return l, true
		}
	}
	return Lending{}, false
}

func findTransaction(items []AccountTransaction, id int64) (AccountTransaction, bool) {
	for _, t := range items {
		if t.ID == id {
			return t, true
		}
	}
	return AccountTransaction{}, false
}

func applyLendingUpdate(l Lending, upd LendingUpdate) Lending {
	if upd.Type != nil {
		l.Type = *upd.Type
	}
	if upd.Amount != nil {
		l.Amount = *upd.Amount
	}
	if upd.Date != nil {
		l.Date = *upd.Date
	}
	if upd.Memo != nil {
		l.Memo = *upd.Memo
	}
	if upd.AccountID != nil {
		l.AccountID = *upd.AccountID
	}
	if upd.CounterpartyType != nil {
		l.CounterpartyType = *upd.CounterpartyType
	}
	if upd.CounterpartyID != nil {
		l.CounterpartyID = *upd.CounterpartyID
	}
	return l
}

func applyTransactionUpdate(t AccountTransaction, upd TransactionUpdate) AccountTransaction {
	if upd.Type != nil {
		t.Type = *upd.Type
	}
	if upd.Amount != nil {
		t.Amount = *upd.Amount
	}
	if upd.Date != nil {
		t.Date = *upd.Date
	}
	if upd.Memo != nil {
		t.Memo = *upd.Memo
	}
	if upd.AccountID != nil {
		t.AccountID = *upd.AccountID
	}
	if upd.FromAccountID != nil {
		t.FromAccountID = *upd.FromAccountID
	}
	if upd.ToAccountID != nil {
		t.ToAccountID = *upd.ToAccountID
	}
	return t
}

func lendingFieldValues(l Lending) FieldValues {
	typ := string(l.Type)
	return FieldValues{
		Amount:           &l.Amount,
		Date:             &l.Date,
		Memo:             &l.Memo,
		AccountID:        optID(l.AccountID),
		CounterpartyID:   optID(l.CounterpartyID),
		CounterpartyType: &l.CounterpartyType,
		Type:             &typ,
	}
}

func transactionFieldValues(t AccountTransaction) FieldValues {
	typ := string(t.Type)
	return FieldValues{
		Amount:        &t.Amount,
		Date:          &t.Date,
		Memo:          &t.Memo,
		AccountID:     optID(t.AccountID),
		Type:          &typ,
		FromAccountID: optID(t.FromAccountID),
		ToAccountID:   optID(t.ToAccountID),
	}
}

func optID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

func replaceLending(updated Lending) func([]Lending) []Lending {
	return func(items []Lending) []Lending {
		out := copyOf(items)
		for i, l := range out {
			if l.ID == updated.ID {
				out[i] = updated
			}
		}
		return out
	}
}

func replaceTransaction(updated AccountTransaction) func([]AccountTransaction) []AccountTransaction {
	return func(items []AccountTransaction) []AccountTransaction {
		out := copyOf(items)
		for i, t := range out {
			if t.ID == updated.ID {
				out[i] = updated
			}
		}
		return out
	}
}

func copyOf[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
