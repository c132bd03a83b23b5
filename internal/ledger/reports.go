package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/aibos-dev/aibos/internal/model"
)

// cashAccountID is the seeded Cash account's id, used for the dashboard
// cash-balance metric.
const cashAccountID = 1

// TrialBalanceRow is one active account with its current balance.
type TrialBalanceRow struct {
	Account model.Account
	Balance decimal.Decimal
	Type    model.AccountType
}

// TrialBalance lists every active account with its balance. Callers
// aggregate by type as needed; inactive accounts are excluded.
func (s *Service) TrialBalance() []TrialBalanceRow {
	var rows []TrialBalanceRow
	for _, a := range s.accts {
		if !a.Active {
			continue
		}
		rows = append(rows, TrialBalanceRow{Account: a, Balance: a.Balance, Type: a.Type})
	}
	return rows
}

// NetIncome is the sum of active revenue balances minus the sum of active
// expense balances.
func (s *Service) NetIncome() decimal.Decimal {
	return s.activeTotal(model.AccountTypeRevenue).Sub(s.activeTotal(model.AccountTypeExpense))
}

// AccountBalance returns the account's balance, or zero when the id is
// unknown.
func (s *Service) AccountBalance(id int) decimal.Decimal {
	a, ok := s.account(id)
	if !ok {
		return decimal.Zero
	}
	return a.Balance
}

// Summary carries the dashboard aggregates.
type Summary struct {
	TotalAssets      decimal.Decimal
	TotalLiabilities decimal.Decimal
	NetIncome        decimal.Decimal
	CashBalance      decimal.Decimal
	Recent           []model.Transaction
}

// Summarize computes the dashboard metrics and the five most recent
// postings by date.
func (s *Service) Summarize() Summary {
	recent := make([]model.Transaction, len(s.txns))
	copy(recent, s.txns)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date)
	})
	if len(recent) > 5 {
		recent = recent[:5]
	}
	return Summary{
		TotalAssets:      s.activeTotal(model.AccountTypeAsset),
		TotalLiabilities: s.activeTotal(model.AccountTypeLiability),
		NetIncome:        s.NetIncome(),
		CashBalance:      s.AccountBalance(cashAccountID),
		Recent:           recent,
	}
}

func (s *Service) activeTotal(t model.AccountType) decimal.Decimal {
	total := decimal.Zero
	for _, a := range s.accts {
		if a.Active && a.Type == t {
			total = total.Add(a.Balance)
		}
	}
	return total
}
