package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/yorozu/backoffice/ledger"
)

func balancePtr(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}

func accountBalance(t *testing.T, accounts []ledger.Account, id int64) decimal.Decimal {
	t.Helper()
	for _, a := range accounts {
		if a.ID == id {
			if a.Balance == nil {
				t.Fatalf("account %d has nil balance", id)
			}
			return *a.Balance
		}
	}
	t.Fatalf("account %d not found", id)
	return decimal.Zero
}

// =============================================================================
// SINGLE ACCOUNT UPDATER
// =============================================================================

func TestSingleAccountBalanceUpdater(t *testing.T) {
	// GIVEN: two accounts with stored balances
	accounts := []ledger.Account{
		{ID: 1, Name: "現金", Balance: balancePtr(1000)},
		{ID: 2, Name: "銀行", Balance: balancePtr(500)},
	}

	// WHEN: applying -200 to account 1
	out := ledger.SingleAccountBalanceUpdater(1, yen(-200))(accounts)

	// THEN: only account 1 changed
	if got := accountBalance(t, out, 1); !got.Equal(yen(800)) {
		t.Errorf("account 1: got %s, want 800", got)
	}
	if got := accountBalance(t, out, 2); !got.Equal(yen(500)) {
		t.Errorf("account 2: got %s, want 500", got)
	}
}

func TestSingleAccountBalanceUpdater_NilBalanceTreatedAsZero(t *testing.T) {
	// GIVEN: an account that has never had a posting
	accounts := []ledger.Account{{ID: 1, Name: "新口座"}}

	out := ledger.SingleAccountBalanceUpdater(1, yen(300))(accounts)

	if got := accountBalance(t, out, 1); !got.Equal(yen(300)) {
		t.Errorf("got %s, want 300", got)
	}
}

func TestSingleAccountBalanceUpdater_Identity(t *testing.T) {
	accounts := []ledger.Account{{ID: 1, Balance: balancePtr(1000)}}

	// Zero delta and zero account id are both no-ops.
	out := ledger.SingleAccountBalanceUpdater(1, decimal.Zero)(accounts)
	if got := accountBalance(t, out, 1); !got.Equal(yen(1000)) {
		t.Errorf("zero delta: got %s, want 1000", got)
	}
	out = ledger.SingleAccountBalanceUpdater(0, yen(100))(accounts)
	if got := accountBalance(t, out, 1); !got.Equal(yen(1000)) {
		t.Errorf("zero account: got %s, want 1000", got)
	}
}

func TestSingleAccountBalanceUpdater_DoesNotMutateInput(t *testing.T) {
	original := balancePtr(1000)
	accounts := []ledger.Account{{ID: 1, Balance: original}}

	ledger.SingleAccountBalanceUpdater(1, yen(-200))(accounts)

	if !original.Equal(yen(1000)) {
		t.Errorf("input balance mutated: %s", original)
	}
	if accounts[0].Balance != original {
		t.Error("input slice element replaced")
	}
}

// =============================================================================
// TRANSFER UPDATER
// =============================================================================

func TestTransferBalanceUpdater_Conservation(t *testing.T) {
	// GIVEN: accounts A=1000, B=500
	accounts := []ledger.Account{
		{ID: 1, Balance: balancePtr(1000)},
		{ID: 2, Balance: balancePtr(500)},
	}

	// WHEN: transferring 200 from A to B
	out := ledger.TransferBalanceUpdater(1, 2, yen(200), false)(accounts)

	// THEN: A=800, B=700, total unchanged
	if got := accountBalance(t, out, 1); !got.Equal(yen(800)) {
		t.Errorf("from: got %s, want 800", got)
	}
	if got := accountBalance(t, out, 2); !got.Equal(yen(700)) {
		t.Errorf("to: got %s, want 700", got)
	}
	if total := ledger.TotalBalance(out); !total.Equal(yen(1500)) {
		t.Errorf("total: got %s, want 1500", total)
	}
}

func TestTransferBalanceUpdater_ReverseRestores(t *testing.T) {
	accounts := []ledger.Account{
		{ID: 1, Balance: balancePtr(1000)},
		{ID: 2, Balance: balancePtr(500)},
	}

	applied := ledger.TransferBalanceUpdater(1, 2, yen(200), false)(accounts)
	restored := ledger.TransferBalanceUpdater(1, 2, yen(200), true)(applied)

	if got := accountBalance(t, restored, 1); !got.Equal(yen(1000)) {
		t.Errorf("from: got %s, want 1000", got)
	}
	if got := accountBalance(t, restored, 2); !got.Equal(yen(500)) {
		t.Errorf("to: got %s, want 500", got)
	}
}

func TestTransferBalanceUpdater_SameAccountIsIdentity(t *testing.T) {
	accounts := []ledger.Account{{ID: 1, Balance: balancePtr(1000)}}

	out := ledger.TransferBalanceUpdater(1, 1, yen(200), false)(accounts)

	if got := accountBalance(t, out, 1); !got.Equal(yen(1000)) {
		t.Errorf("got %s, want 1000", got)
	}
}

// =============================================================================
// DERIVED BALANCES
// =============================================================================

func TestTotalBalance_SkipsArchivedAndUnposted(t *testing.T) {
	accounts := []ledger.Account{
		{ID: 1, Balance: balancePtr(1000)},
		{ID: 2, Balance: balancePtr(400), IsArchived: true},
		{ID: 3}, // never posted
	}
	if total := ledger.TotalBalance(accounts); !total.Equal(yen(1000)) {
		t.Errorf("got %s, want 1000", total)
	}
}

func TestPersonOutstanding(t *testing.T) {
	// GIVEN: person 7 was lent 200 and lent us 50, plus an archived lend
	lendings := []ledger.Lending{
		{ID: 1, Type: ledger.LendingLend, Amount: yen(200), CounterpartyType: ledger.CounterpartyPerson, CounterpartyID: 7},
		{ID: 2, Type: ledger.LendingBorrow, Amount: yen(50), CounterpartyType: ledger.CounterpartyPerson, CounterpartyID: 7},
		{ID: 3, Type: ledger.LendingLend, Amount: yen(999), CounterpartyType: ledger.CounterpartyPerson, CounterpartyID: 7, IsArchived: true},
		{ID: 4, Type: ledger.LendingLend, Amount: yen(100), CounterpartyType: ledger.CounterpartyPerson, CounterpartyID: 8},
	}

	// THEN: they owe 200-50 = 150
	if got := ledger.PersonOutstanding(lendings, 7); !got.Equal(yen(150)) {
		t.Errorf("got %s, want 150", got)
	}
}

func TestPersonOutstanding_NormalizesLegacyRows(t *testing.T) {
	// Legacy rows have no counterparty type and must count as person rows.
	lendings := []ledger.Lending{
		{ID: 1, Type: ledger.LendingLend, Amount: yen(300), CounterpartyID: 7},
	}
	if got := ledger.PersonOutstanding(lendings, 7); !got.Equal(yen(300)) {
		t.Errorf("got %s, want 300", got)
	}
}
