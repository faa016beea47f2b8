/*
describe.go - Human-readable change descriptions for history entries

PURPOSE:
  Diffs old vs. new field values into a structured change list and a display
  string for the audit trail. Foreign keys are resolved to display names,
  type enums go through the fixed label table, and amounts are rendered as
  yen with thousands separators.

FORMAT:
  Each change renders as "{label}を{old}→{new}に変更", joined with 「、」.
  Missing sides render as (なし). An empty change set yields 変更なし,
  only reachable when called directly, since the orchestrator short-circuits
  on empty change lists before persisting anything.

RESOLUTION RULES:
  accountId / fromAccountId / toAccountId  -> account name, id string fallback
  counterpartyId  -> account or person name, chosen by the new (falling back
                     to old) counterparty type
  type            -> TypeLabels entry, raw value fallback
  amount          -> ¥ + absolute value with separators; the sign is dropped
                     because the type field already communicates direction
  everything else -> stringified as-is

SEE ALSO:
  - operations.go: builds FieldValues pairs and persists the result
*/
package ledger

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// =============================================================================
// CHANGE STRUCTURES
// =============================================================================

// FieldValues is the fixed field set the generator compares. Nil means the
// field is not part of the record being diffed (not "changed to empty").
type FieldValues struct {
	Amount           *decimal.Decimal
	Date             *time.Time
	Memo             *string
	AccountID        *int64
	CounterpartyID   *int64
	CounterpartyType *CounterpartyType
	Type             *string
	FromAccountID    *int64
	ToAccountID      *int64
}

// FieldChange is one resolved difference, serialized into history entries.
type FieldChange struct {
	Field       string `json:"field"`
	DisplayName string `json:"displayName"`
	OldValue    string `json:"oldValue"`
	NewValue    string `json:"newValue"`
}

// ChangeSet is the generator's output.
type ChangeSet struct {
	Description string
	Changes     []FieldChange
}

// Empty reports whether no field differed.
func (c ChangeSet) Empty() bool { return len(c.Changes) == 0 }

// MarshalChanges serializes the change list for history storage.
func MarshalChanges(changes []FieldChange) string {
	if len(changes) == 0 {
		return ""
	}
	b, err := json.Marshal(changes)
	if err != nil {
		return ""
	}
	return string(b)
}

// =============================================================================
// FORMATTING
// =============================================================================

var yenPrinter = message.NewPrinter(language.Japanese)

// FormatYen renders an amount as ¥ plus the absolute value with thousands
// separators. The sign is intentionally dropped from display.
func FormatYen(d decimal.Decimal) string {
	return yenPrinter.Sprintf("¥%d", d.Abs().IntPart())
}

// =============================================================================
// DESCRIPTION GENERATOR
// =============================================================================

// DescribeChanges diffs two field-value sets, resolving ids against the
// supplied account and person lookups. Unresolvable references fall back to
// the stringified raw value; this function never fails.
func DescribeChanges(oldV, newV FieldValues, accounts []Account, persons []Person) ChangeSet {
	var changes []FieldChange

	accountName := func(id *int64) string {
		if id == nil {
			return ""
		}
		for _, a := range accounts {
			if a.ID == *id {
				return a.Name
			}
		}
		return strconv.FormatInt(*id, 10)
	}

	// Counterparty ids resolve against accounts or persons depending on the
	// counterparty type, preferring the new value over the old one.
	counterpartyName := func(id *int64) string {
		if id == nil {
			return ""
		}
		ct := CounterpartyPerson
		switch {
		case newV.CounterpartyType != nil:
			ct = *newV.CounterpartyType
		case oldV.CounterpartyType != nil:
			ct = *oldV.CounterpartyType
		}
		if ct == CounterpartyAccount {
			return accountName(id)
		}
		for _, p := range persons {
			if p.ID == *id {
				return p.Name
			}
		}
		return strconv.FormatInt(*id, 10)
	}

	typeLabel := func(t *string) string {
		if t == nil {
			return ""
		}
		if label, ok := TypeLabels[*t]; ok {
			return label
		}
		return *t
	}

	add := func(field, label string, changed, anyDefined bool, oldDisp, newDisp string) {
		if !changed || !anyDefined {
			return
		}
		changes = append(changes, FieldChange{
			Field:       field,
			DisplayName: label,
			OldValue:    oldDisp,
			NewValue:    newDisp,
		})
	}

	add("amount", "金額",
		!eqDecimal(oldV.Amount, newV.Amount), oldV.Amount != nil || newV.Amount != nil,
		fmtAmount(oldV.Amount), fmtAmount(newV.Amount))
	add("date", "日付",
		!eqTime(oldV.Date, newV.Date), oldV.Date != nil || newV.Date != nil,
		fmtDate(oldV.Date), fmtDate(newV.Date))
	add("memo", "メモ",
		!eqString(oldV.Memo, newV.Memo), oldV.Memo != nil || newV.Memo != nil,
		deref(oldV.Memo), deref(newV.Memo))
	add("accountId", "口座",
		!eqInt64(oldV.AccountID, newV.AccountID), oldV.AccountID != nil || newV.AccountID != nil,
		accountName(oldV.AccountID), accountName(newV.AccountID))
	add("counterpartyId", "相手",
		!eqInt64(oldV.CounterpartyID, newV.CounterpartyID), oldV.CounterpartyID != nil || newV.CounterpartyID != nil,
		counterpartyName(oldV.CounterpartyID), counterpartyName(newV.CounterpartyID))
	add("counterpartyType", "相手区分",
		!eqCounterparty(oldV.CounterpartyType, newV.CounterpartyType), oldV.CounterpartyType != nil || newV.CounterpartyType != nil,
		counterpartyString(oldV.CounterpartyType), counterpartyString(newV.CounterpartyType))
	add("type", "種別",
		!eqString(oldV.Type, newV.Type), oldV.Type != nil || newV.Type != nil,
		typeLabel(oldV.Type), typeLabel(newV.Type))
	add("fromAccountId", "振替元",
		!eqInt64(oldV.FromAccountID, newV.FromAccountID), oldV.FromAccountID != nil || newV.FromAccountID != nil,
		accountName(oldV.FromAccountID), accountName(newV.FromAccountID))
	add("toAccountId", "振替先",
		!eqInt64(oldV.ToAccountID, newV.ToAccountID), oldV.ToAccountID != nil || newV.ToAccountID != nil,
		accountName(oldV.ToAccountID), accountName(newV.ToAccountID))

	if len(changes) == 0 {
		return ChangeSet{Description: "変更なし"}
	}

	desc := ""
	for i, c := range changes {
		if i > 0 {
			desc += "、"
		}
		desc += c.DisplayName + "を" + orNone(c.OldValue) + "→" + orNone(c.NewValue) + "に変更"
	}
	return ChangeSet{Description: desc, Changes: changes}
}

// =============================================================================
// HELPERS
// =============================================================================

func orNone(s string) string {
	if s == "" {
		return "(なし)"
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func fmtAmount(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return FormatYen(*d)
}

func fmtDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func counterpartyString(ct *CounterpartyType) string {
	if ct == nil {
		return ""
	}
	return string(*ct)
}

func eqDecimal(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func eqTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func eqString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqInt64(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqCounterparty(a, b *CounterpartyType) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
