/*
balances.go - Derived balances over the active record set

PURPOSE:
  Display balances are never stored for counterparties; they are recomputed
  from scratch by scanning the active (non-archived) records. This keeps
  display eventually self-consistent with whatever persisted, even when a
  multi-step operation failed partway.

SEE ALSO:
  - delta.go: the only place signs are decided; scans reuse it
*/
package ledger

import "github.com/shopspring/decimal"

// AccountBalance returns the stored balance of an account, zero when the
// account has never had a posting or does not exist.
func AccountBalance(accounts []Account, accountID int64) decimal.Decimal {
	for _, a := range accounts {
		if a.ID == accountID {
			if a.Balance == nil {
				return decimal.Zero
			}
			return *a.Balance
		}
	}
	return decimal.Zero
}

// TotalBalance sums the stored balances of all active accounts.
func TotalBalance(accounts []Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		if a.IsArchived || a.Balance == nil {
			continue
		}
		total = total.Add(*a.Balance)
	}
	return total
}

// CounterpartyOutstanding derives what a counterparty currently owes (or is
// owed, when negative) across all active lendings. The outstanding amount
// is the negation of the summed account effects: money that left an account
// is held by the counterparty.
func CounterpartyOutstanding(lendings []Lending, ct CounterpartyType, counterpartyID int64) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lendings {
		l = l.Normalize()
		if l.IsArchived || l.CounterpartyType != ct || l.CounterpartyID != counterpartyID {
			continue
		}
		total = total.Add(LendingBalanceChange(l.Type, l.Amount, false))
	}
	return total.Neg()
}

// PersonOutstanding is CounterpartyOutstanding for an external person.
func PersonOutstanding(lendings []Lending, personID int64) decimal.Decimal {
	return CounterpartyOutstanding(lendings, CounterpartyPerson, personID)
}

// ActiveLendings filters out archived records.
func ActiveLendings(lendings []Lending) []Lending {
	out := make([]Lending, 0, len(lendings))
	for _, l := range lendings {
		if !l.IsArchived {
			out = append(out, l.Normalize())
		}
	}
	return out
}

// ActiveTransactions filters out archived records.
func ActiveTransactions(txs []AccountTransaction) []AccountTransaction {
	out := make([]AccountTransaction, 0, len(txs))
	for _, t := range txs {
		if !t.IsArchived {
			out = append(out, t)
		}
	}
	return out
}
