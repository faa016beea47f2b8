/*
Package ledger implements the lending/account ledger core of the back-office
application.

PURPOSE:
  This package contains the record types and balance-maintenance logic shared
  by every money-movement feature: internal accounts, external counterparties,
  lend/borrow/return records, account transactions (transfers, interest,
  investment gains, deposits, withdrawals), the managerial-accounting journal,
  and the append-only audit history.

KEY CONCEPTS IN THIS FILE (types.go):
  - Account: internal money pool with a system-maintained balance
  - Person: external counterparty whose balance is always derived
  - Lending: directional lend/borrow/return record between an account and a
    counterparty (another account or a person)
  - AccountTransaction: movement touching one account (or two, for transfers)
  - JournalEntry: managerial-accounting row mirroring interest/gain postings
  - History records: append-only audit trail with human-readable diffs

DESIGN PRINCIPLES:
  1. Precision: amounts are decimal.Decimal, never floats
  2. Soft deletion: records are archived, not removed; balance scans skip them
  3. Centralized signs: only delta.go decides the sign of a balance effect
  4. Auditability: every edit and archive leaves a history entry

SEE ALSO:
  - delta.go: signed balance changes per transaction type
  - updater.go: pure collection-transform builders
  - operations.go: edit/archive workflows tying it all together
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ENUMS
// =============================================================================

// CounterpartyType says whether a lending's counterparty is an internal
// account or an external person.
type CounterpartyType string

const (
	CounterpartyAccount CounterpartyType = "account"
	CounterpartyPerson  CounterpartyType = "person"
)

// LendingType classifies a lending record.
type LendingType string

const (
	LendingLend   LendingType = "lend"   // account pays money out
	LendingBorrow LendingType = "borrow" // account receives money
	LendingReturn LendingType = "return" // closes an earlier lend/borrow
)

// TransactionType classifies an account transaction.
type TransactionType string

const (
	TxTransfer       TransactionType = "transfer"
	TxInterest       TransactionType = "interest"
	TxInvestmentGain TransactionType = "investment_gain"
	TxDeposit        TransactionType = "deposit"
	TxWithdrawal     TransactionType = "withdrawal"
)

// JournalEntryType is the direction of a managerial-accounting row.
type JournalEntryType string

const (
	JournalIncome  JournalEntryType = "income"
	JournalExpense JournalEntryType = "expense"
)

// Journal categories for auto-created entries.
const (
	CategoryInterest       = "受取利息"
	CategoryInvestmentGain = "運用損益"
)

// HistoryAction is what a history entry records.
type HistoryAction string

const (
	ActionCreated  HistoryAction = "created"
	ActionUpdated  HistoryAction = "updated"
	ActionArchived HistoryAction = "archived"
	ActionReturned HistoryAction = "returned"
)

// TypeLabels maps every lending and transaction type to its display label.
// Used by the change-description generator; keep in sync with the enums above.
var TypeLabels = map[string]string{
	string(LendingLend):      "貸し",
	string(LendingBorrow):    "借り",
	string(LendingReturn):    "返済",
	string(TxTransfer):       "振替",
	string(TxInterest):       "利息",
	string(TxInvestmentGain): "運用損益",
	string(TxDeposit):        "純入金",
	string(TxWithdrawal):     "純出金",
}

// =============================================================================
// RECORDS
// =============================================================================

// Account is an internal money pool. Balance is maintained exclusively by
// ledger operations; nil means no balance has ever been posted.
type Account struct {
	ID         int64
	Name       string
	Balance    *decimal.Decimal
	BusinessID int64
	Tags       []string
	IsArchived bool
}

// Person is an external counterparty. It has no stored balance; outstanding
// amounts are always derived from the active lending set.
type Person struct {
	ID         int64
	Name       string
	BusinessID int64
	Memo       string
	Tags       []string
	IsArchived bool
}

// Lending is a directional money movement between an account and a
// counterparty. A return record's amount equals the negation of the original
// lending's balance effect and always carries Returned=true.
type Lending struct {
	ID               int64
	AccountID        int64
	CounterpartyType CounterpartyType
	CounterpartyID   int64
	Type             LendingType
	Amount           decimal.Decimal
	Date             time.Time
	Memo             string
	Returned         bool
	OriginalID       int64 // set on return records, links to the lending closed
	IsArchived       bool

	CreatedByUserID    int64
	CreatedAt          time.Time
	LastEditedByUserID int64
	LastEditedAt       time.Time
}

// Normalize upgrades legacy records that predate the counterparty split.
// Old rows carried only a person reference; treat a missing counterparty
// type as person so the rest of the code never branches on the legacy shape.
func (l Lending) Normalize() Lending {
	if l.CounterpartyType == "" {
		l.CounterpartyType = CounterpartyPerson
	}
	return l
}

// AccountTransaction is a movement affecting one account, or two for
// transfers (AccountID is zero then; From/ToAccountID are set instead).
type AccountTransaction struct {
	ID            int64
	Type          TransactionType
	AccountID     int64
	FromAccountID int64
	ToAccountID   int64
	Amount        decimal.Decimal
	Date          time.Time
	Memo          string
	IsArchived    bool

	// LinkedTransactionID references the journal entry auto-created for
	// interest and investment-gain postings. Zero when absent.
	LinkedTransactionID int64

	CreatedByUserID    int64
	CreatedAt          time.Time
	LastEditedByUserID int64
	LastEditedAt       time.Time
}

// JournalEntry is a managerial-accounting row. Amount is stored as an
// absolute value; Type carries the direction. Entries linked from account
// transactions are hard-deleted when the transaction is archived.
type JournalEntry struct {
	ID       int64
	Type     JournalEntryType
	Category string
	Amount   decimal.Decimal
	Date     time.Time
	Memo     string
}

// =============================================================================
// HISTORY - append-only audit trail
// =============================================================================

// LendingHistory records one action on a lending. Never mutated.
type LendingHistory struct {
	ID          int64
	LendingID   int64
	Action      HistoryAction
	Description string
	ChangesJSON string // serialized []FieldChange, empty when not applicable
	UserID      int64
	CreatedAt   time.Time
}

// AccountTransactionHistory records one action on an account transaction.
type AccountTransactionHistory struct {
	ID            int64
	TransactionID int64
	Action        HistoryAction
	Description   string
	ChangesJSON   string
	UserID        int64
	CreatedAt     time.Time
}

// =============================================================================
// ID GENERATION
// =============================================================================

// Record is any persisted row with a numeric id.
type Record interface {
	RecordID() int64
}

func (a Account) RecordID() int64                   { return a.ID }
func (p Person) RecordID() int64                    { return p.ID }
func (l Lending) RecordID() int64                   { return l.ID }
func (t AccountTransaction) RecordID() int64        { return t.ID }
func (j JournalEntry) RecordID() int64              { return j.ID }
func (h LendingHistory) RecordID() int64            { return h.ID }
func (h AccountTransactionHistory) RecordID() int64 { return h.ID }

// NextID returns max(existing ids)+1, or 1 for an empty collection.
// Not safe against concurrent generation on stale snapshots; the host
// serializes ledger operations.
func NextID[T Record](items []T) int64 {
	var max int64
	for _, it := range items {
		if id := it.RecordID(); id > max {
			max = id
		}
	}
	return max + 1
}
