/*
delta.go - Signed balance changes per transaction type

PURPOSE:
  Every balance effect in the system is computed here and nowhere else.
  Call sites never decide signs on their own; the double-negation bugs that
  plague ledger code come from sign logic spread across callers.

SIGN CONVENTIONS:
  lend            -|amount|   account pays money out
  borrow          +|amount|   account receives money
  return          amount      pre-signed: the stored amount of a return
                              record is already the negation of the original
                              lending's effect (see ReturnBalanceChange)
  interest        +amount
  investment_gain +amount     amount may be negative (realized loss)
  deposit         +amount
  withdrawal      -amount
  transfer        0           two-account operation, handled by the
                              transfer updater (see updater.go)

REVERSING:
  Editing or archiving a record first undoes its applied effect. The same
  functions compute the undo delta with reversing=true, which negates the
  result. Reversibility invariant: f(t, a, false) + f(t, a, true) == 0.

SEE ALSO:
  - updater.go: applies these deltas to account collections
  - operations.go: reverse-then-apply edit workflows
*/
package ledger

import "github.com/shopspring/decimal"

// LendingBalanceChange returns the signed balance change a lending record
// applies to its account.
func LendingBalanceChange(t LendingType, amount decimal.Decimal, reversing bool) decimal.Decimal {
	var delta decimal.Decimal
	switch t {
	case LendingBorrow:
		delta = amount.Abs()
	case LendingLend:
		delta = amount.Abs().Neg()
	case LendingReturn:
		// Pass-through: return amounts are stored pre-signed.
		delta = amount
	}
	if reversing {
		delta = delta.Neg()
	}
	return delta
}

// ReturnBalanceChange returns the balance effect of closing the given
// lending: money comes back for a lend, money is paid back for a borrow.
// The generated return record stores exactly this value as its amount, so
// LendingBalanceChange(LendingReturn, amount, false) agrees with it.
func ReturnBalanceChange(original Lending) decimal.Decimal {
	if original.Type == LendingLend {
		return original.Amount.Abs()
	}
	return original.Amount.Abs().Neg()
}

// TransactionBalanceChange returns the signed balance change an account
// transaction applies to its account. Transfers return zero; they move money
// between two accounts and are handled by TransferBalanceUpdater.
func TransactionBalanceChange(t TransactionType, amount decimal.Decimal, reversing bool) decimal.Decimal {
	var delta decimal.Decimal
	switch t {
	case TxInterest, TxInvestmentGain, TxDeposit:
		// No special-casing of the input sign: a negative investment gain
		// is a loss and correctly decreases the balance.
		delta = amount
	case TxWithdrawal:
		delta = amount.Neg()
	case TxTransfer:
		delta = decimal.Zero
	}
	if reversing {
		delta = delta.Neg()
	}
	return delta
}
