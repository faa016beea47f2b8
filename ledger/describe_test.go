package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorozu/backoffice/ledger"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var (
	testAccounts = []ledger.Account{
		{ID: 1, Name: "現金"},
		{ID: 2, Name: "銀行"},
	}
	testPersons = []ledger.Person{
		{ID: 7, Name: "田中"},
	}
)

func strPtr(s string) *string { return &s }

func int64Ptr(n int64) *int64 { return &n }

func decPtr(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}

func ctPtr(ct ledger.CounterpartyType) *ledger.CounterpartyType { return &ct }

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// =============================================================================
// YEN FORMATTING
// =============================================================================

func TestFormatYen(t *testing.T) {
	assert.Equal(t, "¥200", ledger.FormatYen(decimal.NewFromInt(200)))
	assert.Equal(t, "¥1,500", ledger.FormatYen(decimal.NewFromInt(1500)))
	assert.Equal(t, "¥1,234,567", ledger.FormatYen(decimal.NewFromInt(1234567)))
	// The sign is dropped from display; direction lives in the type field.
	assert.Equal(t, "¥150", ledger.FormatYen(decimal.NewFromInt(-150)))
}

// =============================================================================
// CHANGE DESCRIPTIONS
// =============================================================================

func TestDescribeChanges_AmountChange(t *testing.T) {
	old := ledger.FieldValues{Amount: decPtr(200)}
	new_ := ledger.FieldValues{Amount: decPtr(1500)}

	cs := ledger.DescribeChanges(old, new_, testAccounts, testPersons)

	require.Len(t, cs.Changes, 1)
	assert.Equal(t, "amount", cs.Changes[0].Field)
	assert.Equal(t, "金額", cs.Changes[0].DisplayName)
	assert.Equal(t, "¥200", cs.Changes[0].OldValue)
	assert.Equal(t, "¥1,500", cs.Changes[0].NewValue)
	assert.Equal(t, "金額を¥200→¥1,500に変更", cs.Description)
}

func TestDescribeChanges_NoChanges(t *testing.T) {
	v := ledger.FieldValues{Amount: decPtr(200), Memo: strPtr("同じ")}

	cs := ledger.DescribeChanges(v, v, testAccounts, testPersons)

	assert.True(t, cs.Empty())
	assert.Equal(t, "変更なし", cs.Description)
}

func TestDescribeChanges_AccountResolvedToName(t *testing.T) {
	old := ledger.FieldValues{AccountID: int64Ptr(1)}
	new_ := ledger.FieldValues{AccountID: int64Ptr(2)}

	cs := ledger.DescribeChanges(old, new_, testAccounts, testPersons)

	require.Len(t, cs.Changes, 1)
	assert.Equal(t, "口座を現金→銀行に変更", cs.Description)
}

func TestDescribeChanges_UnknownAccountFallsBackToID(t *testing.T) {
	old := ledger.FieldValues{AccountID: int64Ptr(1)}
	new_ := ledger.FieldValues{AccountID: int64Ptr(99)}

	cs := ledger.DescribeChanges(old, new_, testAccounts, testPersons)

	require.Len(t, cs.Changes, 1)
	assert.Equal(t, "99", cs.Changes[0].NewValue)
}

func TestDescribeChanges_CounterpartyResolvedByType(t *testing.T) {
	// GIVEN: the counterparty type is person
	old := ledger.FieldValues{
		CounterpartyID:   int64Ptr(7),
		CounterpartyType: ctPtr(ledger.CounterpartyPerson),
	}
	new_ := ledger.FieldValues{
		CounterpartyID:   int64Ptr(7),
		CounterpartyType: ctPtr(ledger.CounterpartyPerson),
	}
	new_.CounterpartyID = int64Ptr(99)

	cs := ledger.DescribeChanges(old, new_, testAccounts, testPersons)

	require.Len(t, cs.Changes, 1)
	assert.Equal(t, "田中", cs.Changes[0].OldValue)
	assert.Equal(t, "99", cs.Changes[0].NewValue)

	// GIVEN: the counterparty type switched to account; the new type decides
	// how both sides of the id resolve
	old2 := ledger.FieldValues{
		CounterpartyID:   int64Ptr(1),
		CounterpartyType: ctPtr(ledger.CounterpartyPerson),
	}
	new2 := ledger.FieldValues{
		CounterpartyID:   int64Ptr(2),
		CounterpartyType: ctPtr(ledger.CounterpartyAccount),
	}

	cs2 := ledger.DescribeChanges(old2, new2, testAccounts, testPersons)

	require.Len(t, cs2.Changes, 2)
	var idChange ledger.FieldChange
	for _, c := range cs2.Changes {
		if c.Field == "counterpartyId" {
			idChange = c
		}
	}
	assert.Equal(t, "現金", idChange.OldValue)
	assert.Equal(t, "銀行", idChange.NewValue)
}

func TestDescribeChanges_TypeLabels(t *testing.T) {
	old := ledger.FieldValues{Type: strPtr("lend")}
	new_ := ledger.FieldValues{Type: strPtr("borrow")}

	cs := ledger.DescribeChanges(old, new_, nil, nil)

	assert.Equal(t, "種別を貸し→借りに変更", cs.Description)
}

func TestDescribeChanges_UnknownTypeFallsBackToRaw(t *testing.T) {
	old := ledger.FieldValues{Type: strPtr("lend")}
	new_ := ledger.FieldValues{Type: strPtr("mystery")}

	cs := ledger.DescribeChanges(old, new_, nil, nil)

	assert.Equal(t, "種別を貸し→mysteryに変更", cs.Description)
}

func TestDescribeChanges_EmptySidesRenderAsNone(t *testing.T) {
	old := ledger.FieldValues{Memo: strPtr("")}
	new_ := ledger.FieldValues{Memo: strPtr("追記しました")}

	cs := ledger.DescribeChanges(old, new_, nil, nil)

	assert.Equal(t, "メモを(なし)→追記しましたに変更", cs.Description)
}

func TestDescribeChanges_MultipleChangesJoined(t *testing.T) {
	old := ledger.FieldValues{
		Amount: decPtr(200),
		Date:   datePtr(2026, time.January, 15),
	}
	new_ := ledger.FieldValues{
		Amount: decPtr(300),
		Date:   datePtr(2026, time.February, 1),
	}

	cs := ledger.DescribeChanges(old, new_, nil, nil)

	require.Len(t, cs.Changes, 2)
	assert.Equal(t, "金額を¥200→¥300に変更、日付を2026-01-15→2026-02-01に変更", cs.Description)
}

func TestDescribeChanges_TransferAccounts(t *testing.T) {
	old := ledger.FieldValues{
		FromAccountID: int64Ptr(1),
		ToAccountID:   int64Ptr(2),
	}
	new_ := ledger.FieldValues{
		FromAccountID: int64Ptr(2),
		ToAccountID:   int64Ptr(1),
	}

	cs := ledger.DescribeChanges(old, new_, testAccounts, nil)

	require.Len(t, cs.Changes, 2)
	assert.Equal(t, "振替元を現金→銀行に変更、振替先を銀行→現金に変更", cs.Description)
}

func TestMarshalChanges_RoundTrip(t *testing.T) {
	changes := []ledger.FieldChange{
		{Field: "amount", DisplayName: "金額", OldValue: "¥200", NewValue: "¥300"},
	}
	s := ledger.MarshalChanges(changes)
	assert.Contains(t, s, `"field":"amount"`)
	assert.Contains(t, s, `"displayName":"金額"`)

	assert.Equal(t, "", ledger.MarshalChanges(nil))
}
