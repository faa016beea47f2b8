/*
errors.go - Centralized error types for the ledger core

PURPOSE:
  All sentinel errors in one place. Operations are deliberately forgiving:
  editing a record that no longer exists or submitting an edit with no actual
  changes is a silent no-op, not an error. The sentinels below cover the
  cases that do fail.

USAGE:
  if errors.Is(err, ledger.ErrAlreadyReturned) { ... }

SEE ALSO:
  - operations.go: which steps return which errors
*/
package ledger

import "errors"

var (
	// ErrInvalidAmount is returned when a create operation receives a zero
	// amount for a type that needs one.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidType is returned for an unknown lending or transaction type.
	ErrInvalidType = errors.New("invalid type")

	// ErrAlreadyReturned is returned when marking a lending returned twice.
	ErrAlreadyReturned = errors.New("lending already returned")

	// ErrNotFound is returned by read paths that must fail loudly (the API
	// layer). Orchestrator edit/archive paths no-op instead.
	ErrNotFound = errors.New("record not found")
)
