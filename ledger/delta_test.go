package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/yorozu/backoffice/ledger"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func yen(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

// =============================================================================
// LENDING DELTAS
// =============================================================================

func TestLendingBalanceChange_Signs(t *testing.T) {
	// GIVEN: a lend and a borrow of the same amount
	// WHEN: computing the applied balance changes
	// THEN: lend decreases the account, borrow increases it

	if got := ledger.LendingBalanceChange(ledger.LendingLend, yen(200), false); !got.Equal(yen(-200)) {
		t.Errorf("lend 200: got %s, want -200", got)
	}
	if got := ledger.LendingBalanceChange(ledger.LendingBorrow, yen(500), false); !got.Equal(yen(500)) {
		t.Errorf("borrow 500: got %s, want 500", got)
	}
}

func TestLendingBalanceChange_SignsNormalizeInput(t *testing.T) {
	// GIVEN: negative stored amounts on lend/borrow rows
	// THEN: the direction comes from the type, not the input sign

	if got := ledger.LendingBalanceChange(ledger.LendingLend, yen(-200), false); !got.Equal(yen(-200)) {
		t.Errorf("lend -200: got %s, want -200", got)
	}
	if got := ledger.LendingBalanceChange(ledger.LendingBorrow, yen(-500), false); !got.Equal(yen(500)) {
		t.Errorf("borrow -500: got %s, want 500", got)
	}
}

func TestLendingBalanceChange_ReturnPassThrough(t *testing.T) {
	// GIVEN: return records store their amount pre-signed
	// THEN: the delta is the stored amount untouched

	if got := ledger.LendingBalanceChange(ledger.LendingReturn, yen(200), false); !got.Equal(yen(200)) {
		t.Errorf("return +200: got %s, want 200", got)
	}
	if got := ledger.LendingBalanceChange(ledger.LendingReturn, yen(-500), false); !got.Equal(yen(-500)) {
		t.Errorf("return -500: got %s, want -500", got)
	}
}

func TestLendingBalanceChange_Reversibility(t *testing.T) {
	// Invariant: applying and then reversing any record is a net zero.
	cases := []struct {
		typ    ledger.LendingType
		amount decimal.Decimal
	}{
		{ledger.LendingLend, yen(200)},
		{ledger.LendingBorrow, yen(500)},
		{ledger.LendingReturn, yen(200)},
		{ledger.LendingReturn, yen(-500)},
	}
	for _, c := range cases {
		applied := ledger.LendingBalanceChange(c.typ, c.amount, false)
		reversed := ledger.LendingBalanceChange(c.typ, c.amount, true)
		if sum := applied.Add(reversed); !sum.IsZero() {
			t.Errorf("%s %s: apply+reverse = %s, want 0", c.typ, c.amount, sum)
		}
	}
}

func TestReturnBalanceChange(t *testing.T) {
	// GIVEN: an open lend of 200 and an open borrow of 500
	// WHEN: computing the closing delta
	// THEN: the lend brings 200 back, the borrow pays 500 out

	lend := ledger.Lending{Type: ledger.LendingLend, Amount: yen(200)}
	if got := ledger.ReturnBalanceChange(lend); !got.Equal(yen(200)) {
		t.Errorf("return of lend 200: got %s, want 200", got)
	}

	borrow := ledger.Lending{Type: ledger.LendingBorrow, Amount: yen(500)}
	if got := ledger.ReturnBalanceChange(borrow); !got.Equal(yen(-500)) {
		t.Errorf("return of borrow 500: got %s, want -500", got)
	}
}

func TestReturnBalanceChange_NegatesOriginalEffect(t *testing.T) {
	// The closing delta must exactly undo the original applied effect, and
	// feeding it back through the pass-through case must agree.
	for _, typ := range []ledger.LendingType{ledger.LendingLend, ledger.LendingBorrow} {
		original := ledger.Lending{Type: typ, Amount: yen(300)}
		applied := ledger.LendingBalanceChange(typ, original.Amount, false)
		closing := ledger.ReturnBalanceChange(original)

		if sum := applied.Add(closing); !sum.IsZero() {
			t.Errorf("%s: applied %s + closing %s != 0", typ, applied, closing)
		}
		if via := ledger.LendingBalanceChange(ledger.LendingReturn, closing, false); !via.Equal(closing) {
			t.Errorf("%s: pass-through of stored return amount %s gave %s", typ, closing, via)
		}
	}
}

// =============================================================================
// TRANSACTION DELTAS
// =============================================================================

func TestTransactionBalanceChange_Signs(t *testing.T) {
	cases := []struct {
		typ    ledger.TransactionType
		amount decimal.Decimal
		want   decimal.Decimal
	}{
		{ledger.TxInterest, yen(50), yen(50)},
		{ledger.TxDeposit, yen(1000), yen(1000)},
		{ledger.TxWithdrawal, yen(1000), yen(-1000)},
		{ledger.TxInvestmentGain, yen(150), yen(150)},
		// A negative investment gain is a realized loss.
		{ledger.TxInvestmentGain, yen(-150), yen(-150)},
		// Transfers never move money through the single-account path.
		{ledger.TxTransfer, yen(200), yen(0)},
	}
	for _, c := range cases {
		if got := ledger.TransactionBalanceChange(c.typ, c.amount, false); !got.Equal(c.want) {
			t.Errorf("%s %s: got %s, want %s", c.typ, c.amount, got, c.want)
		}
	}
}

func TestTransactionBalanceChange_Reversibility(t *testing.T) {
	types := []ledger.TransactionType{
		ledger.TxTransfer, ledger.TxInterest, ledger.TxInvestmentGain,
		ledger.TxDeposit, ledger.TxWithdrawal,
	}
	for _, typ := range types {
		for _, amount := range []decimal.Decimal{yen(150), yen(-150)} {
			applied := ledger.TransactionBalanceChange(typ, amount, false)
			reversed := ledger.TransactionBalanceChange(typ, amount, true)
			if sum := applied.Add(reversed); !sum.IsZero() {
				t.Errorf("%s %s: apply+reverse = %s, want 0", typ, amount, sum)
			}
		}
	}
}

// =============================================================================
// ID GENERATION
// =============================================================================

func TestNextID(t *testing.T) {
	// GIVEN: an empty collection
	if got := ledger.NextID([]ledger.Account{}); got != 1 {
		t.Errorf("empty: got %d, want 1", got)
	}

	// GIVEN: ids with a gap; max+1, not gap-filling
	accounts := []ledger.Account{{ID: 1}, {ID: 5}, {ID: 3}}
	if got := ledger.NextID(accounts); got != 6 {
		t.Errorf("gapped: got %d, want 6", got)
	}
}
