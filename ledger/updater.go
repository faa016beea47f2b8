/*
updater.go - Pure account-collection transforms

PURPOSE:
  Builders that turn one delta (or a transfer pair) into a function
  ([]Account) -> []Account suitable for Collections.UpdateAccounts. The
  returned functions never mutate their input slice; they copy and replace
  only the matching accounts.

SEE ALSO:
  - delta.go: where the deltas come from
  - store.go: the Collections interface these updaters feed
*/
package ledger

import "github.com/shopspring/decimal"

// AccountUpdater transforms an account collection without mutating it.
type AccountUpdater func([]Account) []Account

// IdentityAccounts leaves the collection untouched.
func IdentityAccounts(accounts []Account) []Account { return accounts }

// SingleAccountBalanceUpdater applies delta to the balance of accountID.
// A zero accountID or zero delta yields the identity transform.
// A nil stored balance is treated as zero.
func SingleAccountBalanceUpdater(accountID int64, delta decimal.Decimal) AccountUpdater {
	if accountID == 0 || delta.IsZero() {
		return IdentityAccounts
	}
	return func(accounts []Account) []Account {
		out := make([]Account, len(accounts))
		for i, a := range accounts {
			if a.ID == accountID {
				b := delta
				if a.Balance != nil {
					b = a.Balance.Add(delta)
				}
				a.Balance = &b
			}
			out[i] = a
		}
		return out
	}
}

// TransferBalanceUpdater moves amount from one account to another in a
// single pass: -amount on from, +amount on to, both negated when reversing.
// The two deltas always sum to zero, so internal transfers conserve the
// total ledger balance.
func TransferBalanceUpdater(fromAccountID, toAccountID int64, amount decimal.Decimal, reversing bool) AccountUpdater {
	if fromAccountID == toAccountID {
		return IdentityAccounts
	}
	if reversing {
		amount = amount.Neg()
	}
	return func(accounts []Account) []Account {
		out := make([]Account, len(accounts))
		for i, a := range accounts {
			switch a.ID {
			case fromAccountID:
				b := amount.Neg()
				if a.Balance != nil {
					b = a.Balance.Sub(amount)
				}
				a.Balance = &b
			case toAccountID:
				b := amount
				if a.Balance != nil {
					b = a.Balance.Add(amount)
				}
				a.Balance = &b
			}
			out[i] = a
		}
		return out
	}
}
