/*
dto.go - Request/response shapes for the HTTP API

PURPOSE:
  JSON boundary types. Field names are camelCase as everywhere in memory;
  the snake_case mapping belongs to the storage layer, not here. Create
  and edit requests carry validator tags; domain records never do.
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yorozu/backoffice/ledger"
)

const dateLayout = "2006-01-02"

// =============================================================================
// RESPONSES
// =============================================================================

type AccountDTO struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Balance    decimal.Decimal `json:"balance"`
	BusinessID int64           `json:"businessId,omitempty"`
	Tags       []string        `json:"tags,omitempty"`
	IsArchived bool            `json:"isArchived"`
}

type PersonDTO struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	BusinessID  int64           `json:"businessId,omitempty"`
	Memo        string          `json:"memo,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	IsArchived  bool            `json:"isArchived"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

type LendingDTO struct {
	ID               int64           `json:"id"`
	AccountID        int64           `json:"accountId"`
	CounterpartyType string          `json:"counterpartyType"`
	CounterpartyID   int64           `json:"counterpartyId"`
	Type             string          `json:"type"`
	Amount           decimal.Decimal `json:"amount"`
	Date             string          `json:"date"`
	Memo             string          `json:"memo,omitempty"`
	Returned         bool            `json:"returned"`
	OriginalID       int64           `json:"originalId,omitempty"`
	IsArchived       bool            `json:"isArchived"`
}

type TransactionDTO struct {
	ID                  int64           `json:"id"`
	Type                string          `json:"type"`
	AccountID           int64           `json:"accountId,omitempty"`
	FromAccountID       int64           `json:"fromAccountId,omitempty"`
	ToAccountID         int64           `json:"toAccountId,omitempty"`
	Amount              decimal.Decimal `json:"amount"`
	Date                string          `json:"date"`
	Memo                string          `json:"memo,omitempty"`
	IsArchived          bool            `json:"isArchived"`
	LinkedTransactionID int64           `json:"linkedTransactionId,omitempty"`
}

type JournalEntryDTO struct {
	ID       int64           `json:"id"`
	Type     string          `json:"type"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
	Memo     string          `json:"memo,omitempty"`
}

type HistoryDTO struct {
	ID          int64                `json:"id"`
	ParentID    int64                `json:"parentId"`
	Action      string               `json:"action"`
	Description string               `json:"description"`
	Changes     []ledger.FieldChange `json:"changes,omitempty"`
	UserID      int64                `json:"userId"`
	CreatedAt   string               `json:"createdAt"`
}

type BalancesDTO struct {
	Total    decimal.Decimal `json:"total"`
	Accounts []AccountDTO    `json:"accounts"`
}

// =============================================================================
// REQUESTS
// =============================================================================

type CreateAccountRequest struct {
	Name       string   `json:"name" validate:"required"`
	BusinessID int64    `json:"businessId"`
	Tags       []string `json:"tags"`
}

type EditAccountRequest struct {
	Name    string           `json:"name" validate:"required"`
	Balance *decimal.Decimal `json:"balance"` // non-nil resets the balance
	Tags    []string         `json:"tags"`
}

type CreatePersonRequest struct {
	Name       string   `json:"name" validate:"required"`
	BusinessID int64    `json:"businessId"`
	Memo       string   `json:"memo"`
	Tags       []string `json:"tags"`
}

type CreateLendingRequest struct {
	AccountID        int64           `json:"accountId" validate:"required"`
	CounterpartyType string          `json:"counterpartyType" validate:"required,oneof=account person"`
	CounterpartyID   int64           `json:"counterpartyId" validate:"required"`
	Type             string          `json:"type" validate:"required,oneof=lend borrow"`
	Amount           decimal.Decimal `json:"amount" validate:"required"`
	Date             string          `json:"date" validate:"required"`
	Memo             string          `json:"memo"`
}

type EditLendingRequest struct {
	Type             *string          `json:"type" validate:"omitempty,oneof=lend borrow return"`
	Amount           *decimal.Decimal `json:"amount"`
	Date             *string          `json:"date"`
	Memo             *string          `json:"memo"`
	AccountID        *int64           `json:"accountId"`
	CounterpartyType *string          `json:"counterpartyType" validate:"omitempty,oneof=account person"`
	CounterpartyID   *int64           `json:"counterpartyId"`
}

type CreateTransactionRequest struct {
	Type          string          `json:"type" validate:"required,oneof=transfer interest investment_gain deposit withdrawal"`
	AccountID     int64           `json:"accountId"`
	FromAccountID int64           `json:"fromAccountId"`
	ToAccountID   int64           `json:"toAccountId"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Date          string          `json:"date" validate:"required"`
	Memo          string          `json:"memo"`
}

type EditTransactionRequest struct {
	Type          *string          `json:"type" validate:"omitempty,oneof=transfer interest investment_gain deposit withdrawal"`
	Amount        *decimal.Decimal `json:"amount"`
	Date          *string          `json:"date"`
	Memo          *string          `json:"memo"`
	AccountID     *int64           `json:"accountId"`
	FromAccountID *int64           `json:"fromAccountId"`
	ToAccountID   *int64           `json:"toAccountId"`
}

// =============================================================================
// MAPPERS
// =============================================================================

func toAccountDTO(a ledger.Account) AccountDTO {
	balance := decimal.Zero
	if a.Balance != nil {
		balance = *a.Balance
	}
	return AccountDTO{
		ID:         a.ID,
		Name:       a.Name,
		Balance:    balance,
		BusinessID: a.BusinessID,
		Tags:       a.Tags,
		IsArchived: a.IsArchived,
	}
}

func toPersonDTO(p ledger.Person, lendings []ledger.Lending) PersonDTO {
	return PersonDTO{
		ID:          p.ID,
		Name:        p.Name,
		BusinessID:  p.BusinessID,
		Memo:        p.Memo,
		Tags:        p.Tags,
		IsArchived:  p.IsArchived,
		Outstanding: ledger.PersonOutstanding(lendings, p.ID),
	}
}

func toLendingDTO(l ledger.Lending) LendingDTO {
	return LendingDTO{
		ID:               l.ID,
		AccountID:        l.AccountID,
		CounterpartyType: string(l.CounterpartyType),
		CounterpartyID:   l.CounterpartyID,
		Type:             string(l.Type),
		Amount:           l.Amount,
		Date:             l.Date.Format(dateLayout),
		Memo:             l.Memo,
		Returned:         l.Returned,
		OriginalID:       l.OriginalID,
		IsArchived:       l.IsArchived,
	}
}

func toTransactionDTO(t ledger.AccountTransaction) TransactionDTO {
	return TransactionDTO{
		ID:                  t.ID,
		Type:                string(t.Type),
		AccountID:           t.AccountID,
		FromAccountID:       t.FromAccountID,
		ToAccountID:         t.ToAccountID,
		Amount:              t.Amount,
		Date:                t.Date.Format(dateLayout),
		Memo:                t.Memo,
		IsArchived:          t.IsArchived,
		LinkedTransactionID: t.LinkedTransactionID,
	}
}

func toJournalEntryDTO(e ledger.JournalEntry) JournalEntryDTO {
	return JournalEntryDTO{
		ID:       e.ID,
		Type:     string(e.Type),
		Category: e.Category,
		Amount:   e.Amount,
		Date:     e.Date.Format(dateLayout),
		Memo:     e.Memo,
	}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
