package model

import "github.com/shopspring/decimal"

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// NormalDebit reports whether accounts of this type carry a debit-normal
// balance: debits increase them, credits decrease them. Liability, equity
// and revenue accounts are the credit-normal complement.
func (t AccountType) NormalDebit() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// Account is one row in the chart of accounts. Balance is the running
// signed total of postings applied under the normal-balance convention;
// nothing writes it except the posting engine and explicit account updates.
type Account struct {
	ID          int             `json:"id"`
	Number      string          `json:"accountNumber"`
	Name        string          `json:"name"`
	Type        AccountType     `json:"type"`
	Description string          `json:"description"`
	Active      bool            `json:"active"`
	Balance     decimal.Decimal `json:"balance"`
}
