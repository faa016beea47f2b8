/*
handlers.go - HTTP handlers for the back-office ledger

PURPOSE:
  Exposes the ledger core over REST. Handlers parse and validate input,
  delegate to the ledger service or the collections store, and serialize
  responses. No balance math happens here.

ENDPOINTS:
  Accounts:
    GET    /api/accounts                 List accounts (active by default)
    POST   /api/accounts                 Create account
    PUT    /api/accounts/{id}            Edit account (optionally reset balance)
    POST   /api/accounts/{id}/archive    Soft-delete
  Persons:
    GET    /api/persons                  List with derived outstanding
    POST   /api/persons                  Create person
    POST   /api/persons/{id}/archive     Soft-delete
  Lendings:
    GET    /api/lendings                 List active lendings
    POST   /api/lendings                 Create lend/borrow
    PUT    /api/lendings/{id}            Edit (reverse + re-apply balances)
    POST   /api/lendings/{id}/archive    Soft-delete
    POST   /api/lendings/{id}/return     Generate the closing return record
    GET    /api/lendings/{id}/histories  Audit trail
  Transactions:
    GET    /api/transactions             List active account transactions
    POST   /api/transactions             Create (auto journal entry for
                                         interest/investment gains)
    PUT    /api/transactions/{id}        Edit
    POST   /api/transactions/{id}/archive
    GET    /api/transactions/{id}/histories
  Other:
    GET    /api/journal                  Managerial-accounting entries
    GET    /api/balances                 Total + per-account balances

USER ATTRIBUTION:
  The acting user comes from the X-User-ID header, defaulting to 1.
  Authentication itself is delegated to the deployment front door.

ERROR HANDLING:
  400 validation/parse errors, 404 missing records on read paths,
  409 invalid state (already returned), 500 store failures.

SEE ALSO:
  - dto.go: boundary shapes and validation tags
  - server.go: routing and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/yorozu/backoffice/ledger"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   ledger.Collections
	Service *ledger.Service

	// DefaultUserID is the attribution fallback when no valid X-User-ID
	// header reaches a write.
	DefaultUserID int64

	validate *validator.Validate
}

func NewHandler(store ledger.Collections, defaultUserID int64) *Handler {
	if defaultUserID <= 0 {
		defaultUserID = 1
	}
	return &Handler{
		Store:         store,
		Service:       ledger.NewService(store),
		DefaultUserID: defaultUserID,
		validate:      validator.New(),
	}
}

// =============================================================================
// ACCOUNT HANDLERS
// =============================================================================

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Store.Accounts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list accounts", err)
		return
	}
	includeArchived := r.URL.Query().Get("includeArchived") == "true"
	dtos := make([]AccountDTO, 0, len(accounts))
	for _, a := range accounts {
		if a.IsArchived && !includeArchived {
			continue
		}
		dtos = append(dtos, toAccountDTO(a))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if !h.decode(w, r, &req) {
		return
	}
	var created ledger.Account
	_, err := h.Store.UpdateAccounts(r.Context(), func(items []ledger.Account) []ledger.Account {
		created = ledger.Account{
			ID:         ledger.NextID(items),
			Name:       req.Name,
			BusinessID: req.BusinessID,
			Tags:       req.Tags,
		}
		return append(items, created)
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create account", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountDTO(created))
}

// EditAccount renames an account and, when a balance is supplied, resets
// the stored balance outright. This is the one path that writes a balance
// without going through the delta calculator.
func (h *Handler) EditAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req EditAccountRequest
	if !h.decode(w, r, &req) {
		return
	}
	found := false
	var updated ledger.Account
	_, err := h.Store.UpdateAccounts(r.Context(), func(items []ledger.Account) []ledger.Account {
		for i, a := range items {
			if a.ID != id {
				continue
			}
			found = true
			a.Name = req.Name
			if req.Balance != nil {
				b := *req.Balance
				a.Balance = &b
			}
			if req.Tags != nil {
				a.Tags = req.Tags
			}
			items[i] = a
			updated = a
		}
		return items
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to edit account", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "account not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(updated))
}

func (h *Handler) ArchiveAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	_, err := h.Store.UpdateAccounts(r.Context(), func(items []ledger.Account) []ledger.Account {
		for i, a := range items {
			if a.ID == id {
				a.IsArchived = true
				items[i] = a
			}
		}
		return items
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to archive account", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PERSON HANDLERS
// =============================================================================

func (h *Handler) ListPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := h.Store.Persons(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list persons", err)
		return
	}
	lendings, err := h.Store.Lendings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load lendings", err)
		return
	}
	includeArchived := r.URL.Query().Get("includeArchived") == "true"
	dtos := make([]PersonDTO, 0, len(persons))
	for _, p := range persons {
		if p.IsArchived && !includeArchived {
			continue
		}
		dtos = append(dtos, toPersonDTO(p, lendings))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var req CreatePersonRequest
	if !h.decode(w, r, &req) {
		return
	}
	var created ledger.Person
	_, err := h.Store.UpdatePersons(r.Context(), func(items []ledger.Person) []ledger.Person {
		created = ledger.Person{
			ID:         ledger.NextID(items),
			Name:       req.Name,
			BusinessID: req.BusinessID,
			Memo:       req.Memo,
			Tags:       req.Tags,
		}
		return append(items, created)
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create person", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPersonDTO(created, nil))
}

func (h *Handler) ArchivePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	_, err := h.Store.UpdatePersons(r.Context(), func(items []ledger.Person) []ledger.Person {
		for i, p := range items {
			if p.ID == id {
				p.IsArchived = true
				items[i] = p
			}
		}
		return items
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to archive person", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// LENDING HANDLERS
// =============================================================================

func (h *Handler) ListLendings(w http.ResponseWriter, r *http.Request) {
	lendings, err := h.Store.Lendings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list lendings", err)
		return
	}
	active := ledger.ActiveLendings(lendings)
	dtos := make([]LendingDTO, 0, len(active))
	for _, l := range active {
		dtos = append(dtos, toLendingDTO(l))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateLending(w http.ResponseWriter, r *http.Request) {
	var req CreateLendingRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}
	created, err := h.Service.CreateLending(r.Context(), ledger.LendingInput{
		AccountID:        req.AccountID,
		CounterpartyType: ledger.CounterpartyType(req.CounterpartyType),
		CounterpartyID:   req.CounterpartyID,
		Type:             ledger.LendingType(req.Type),
		Amount:           req.Amount,
		Date:             date,
		Memo:             req.Memo,
	}, h.userID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toLendingDTO(created))
}

func (h *Handler) EditLending(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req EditLendingRequest
	if !h.decode(w, r, &req) {
		return
	}
	upd := ledger.LendingUpdate{
		Amount:         req.Amount,
		Memo:           req.Memo,
		AccountID:      req.AccountID,
		CounterpartyID: req.CounterpartyID,
	}
	if req.Type != nil {
		t := ledger.LendingType(*req.Type)
		upd.Type = &t
	}
	if req.CounterpartyType != nil {
		ct := ledger.CounterpartyType(*req.CounterpartyType)
		upd.CounterpartyType = &ct
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date", err)
			return
		}
		upd.Date = &date
	}
	if err := h.Service.SaveLendingEdit(r.Context(), id, upd, h.userID(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ArchiveLending(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Service.ArchiveLending(r.Context(), id, h.userID(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ReturnLending(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ret, err := h.Service.MarkLendingReturned(r.Context(), id, h.userID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toLendingDTO(ret))
}

func (h *Handler) LendingHistories(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	histories, err := h.Store.LendingHistories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load histories", err)
		return
	}
	dtos := make([]HistoryDTO, 0)
	for _, e := range histories {
		if e.LendingID != id {
			continue
		}
		dtos = append(dtos, HistoryDTO{
			ID:          e.ID,
			ParentID:    e.LendingID,
			Action:      string(e.Action),
			Description: e.Description,
			Changes:     unmarshalChanges(e.ChangesJSON),
			UserID:      e.UserID,
			CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// TRANSACTION HANDLERS
// =============================================================================

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.Store.AccountTransactions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transactions", err)
		return
	}
	active := ledger.ActiveTransactions(txs)
	dtos := make([]TransactionDTO, 0, len(active))
	for _, t := range active {
		dtos = append(dtos, toTransactionDTO(t))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}
	created, err := h.Service.CreateTransaction(r.Context(), ledger.TransactionInput{
		Type:          ledger.TransactionType(req.Type),
		AccountID:     req.AccountID,
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		Date:          date,
		Memo:          req.Memo,
	}, h.userID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionDTO(created))
}

func (h *Handler) EditTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req EditTransactionRequest
	if !h.decode(w, r, &req) {
		return
	}
	upd := ledger.TransactionUpdate{
		Amount:        req.Amount,
		Memo:          req.Memo,
		AccountID:     req.AccountID,
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
	}
	if req.Type != nil {
		t := ledger.TransactionType(*req.Type)
		upd.Type = &t
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date", err)
			return
		}
		upd.Date = &date
	}
	if err := h.Service.SaveTransactionEdit(r.Context(), id, upd, h.userID(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ArchiveTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Service.ArchiveTransaction(r.Context(), id, h.userID(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) TransactionHistories(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	histories, err := h.Store.AccountTransactionHistories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load histories", err)
		return
	}
	dtos := make([]HistoryDTO, 0)
	for _, e := range histories {
		if e.TransactionID != id {
			continue
		}
		dtos = append(dtos, HistoryDTO{
			ID:          e.ID,
			ParentID:    e.TransactionID,
			Action:      string(e.Action),
			Description: e.Description,
			Changes:     unmarshalChanges(e.ChangesJSON),
			UserID:      e.UserID,
			CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// JOURNAL & BALANCES
// =============================================================================

func (h *Handler) ListJournal(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Store.JournalEntries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list journal entries", err)
		return
	}
	dtos := make([]JournalEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, toJournalEntryDTO(e))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) Balances(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Store.Accounts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load accounts", err)
		return
	}
	dtos := make([]AccountDTO, 0, len(accounts))
	for _, a := range accounts {
		if a.IsArchived {
			continue
		}
		dtos = append(dtos, toAccountDTO(a))
	}
	writeJSON(w, http.StatusOK, BalancesDTO{
		Total:    ledger.TotalBalance(accounts),
		Accounts: dtos,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// userID extracts the acting user from the X-User-ID header. The external
// auth layer sets it; the configured default covers anything that leaks
// through unset or garbled.
func (h *Handler) userID(r *http.Request) int64 {
	if v := r.Header.Get("X-User-ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			return id
		}
	}
	return h.DefaultUserID
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id", err)
		return 0, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", err)
		return false
	}
	return true
}

func unmarshalChanges(s string) []ledger.FieldChange {
	if s == "" {
		return nil
	}
	var changes []ledger.FieldChange
	if err := json.Unmarshal([]byte(s), &changes); err != nil {
		return nil
	}
	return changes
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		writeError(w, http.StatusNotFound, "record not found", err)
	case errors.Is(err, ledger.ErrAlreadyReturned):
		writeError(w, http.StatusConflict, "lending already returned", err)
	case errors.Is(err, ledger.ErrInvalidType), errors.Is(err, ledger.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "invalid input", err)
	default:
		writeError(w, http.StatusInternalServerError, "operation failed", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := map[string]string{"error": message}
	if err != nil {
		resp["detail"] = err.Error()
	}
	writeJSON(w, status, resp)
}
