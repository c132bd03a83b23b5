package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/aibos-dev/aibos/internal/model"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

// DefaultChart returns the standard 18-account chart a fresh ledger is
// seeded with. Account numbers are grouped by leading digit: 1xxx assets,
// 2xxx liabilities, 3xxx equity, 4xxx revenue, 5xxx expenses.
func DefaultChart() []model.Account {
	return []model.Account{
		{Number: "1000", Name: "Cash", Type: model.AccountTypeAsset, Description: "Cash on hand and in bank", Active: true, Balance: amount("35000")},
		{Number: "1100", Name: "Accounts Receivable", Type: model.AccountTypeAsset, Description: "Money owed by customers", Active: true, Balance: amount("15000")},
		{Number: "1200", Name: "Inventory", Type: model.AccountTypeAsset, Description: "Goods available for sale", Active: true, Balance: decimal.Zero},
		{Number: "1300", Name: "Equipment", Type: model.AccountTypeAsset, Description: "Office equipment and machinery", Active: true, Balance: amount("75000")},
		{Number: "2000", Name: "Accounts Payable", Type: model.AccountTypeLiability, Description: "Money owed to suppliers", Active: true, Balance: amount("25000")},
		{Number: "2100", Name: "Notes Payable", Type: model.AccountTypeLiability, Description: "Bank loans and notes", Active: true, Balance: decimal.Zero},
		{Number: "2200", Name: "Accrued Expenses", Type: model.AccountTypeLiability, Description: "Expenses incurred but not yet paid", Active: true, Balance: decimal.Zero},
		{Number: "3000", Name: "Owner's Equity", Type: model.AccountTypeEquity, Description: "Owner's investment in the business", Active: true, Balance: amount("100000")},
		{Number: "3100", Name: "Retained Earnings", Type: model.AccountTypeEquity, Description: "Accumulated profits", Active: true, Balance: decimal.Zero},
		{Number: "4000", Name: "Sales Revenue", Type: model.AccountTypeRevenue, Description: "Revenue from sales of goods/services", Active: true, Balance: amount("50000")},
		{Number: "4100", Name: "Service Revenue", Type: model.AccountTypeRevenue, Description: "Revenue from services provided", Active: true, Balance: amount("25000")},
		{Number: "4200", Name: "Interest Income", Type: model.AccountTypeRevenue, Description: "Interest earned on investments", Active: true, Balance: decimal.Zero},
		{Number: "5000", Name: "Cost of Goods Sold", Type: model.AccountTypeExpense, Description: "Direct costs of producing goods", Active: true, Balance: decimal.Zero},
		{Number: "5100", Name: "Rent Expense", Type: model.AccountTypeExpense, Description: "Office and equipment rent", Active: true, Balance: amount("12000")},
		{Number: "5200", Name: "Utilities Expense", Type: model.AccountTypeExpense, Description: "Electricity, water, internet, etc.", Active: true, Balance: amount("3000")},
		{Number: "5300", Name: "Salaries Expense", Type: model.AccountTypeExpense, Description: "Employee salaries and wages", Active: true, Balance: amount("30000")},
		{Number: "5400", Name: "Office Supplies", Type: model.AccountTypeExpense, Description: "Office supplies and materials", Active: true, Balance: amount("2000")},
		{Number: "5500", Name: "Insurance Expense", Type: model.AccountTypeExpense, Description: "Business insurance premiums", Active: true, Balance: decimal.Zero},
	}
}

// SampleTransactions returns the five postings a fresh journal is seeded
// with. The seeded account balances already reflect them.
func SampleTransactions() []model.Transaction {
	return []model.Transaction{
		{Ref: "000001", Date: day("2024-01-15"), Description: "Sale of services to ABC Company", DebitAccountID: 1, CreditAccountID: 10, Amount: amount("5000"), UserID: 1},
		{Ref: "000002", Date: day("2024-01-14"), Description: "Monthly rent payment", DebitAccountID: 14, CreditAccountID: 1, Amount: amount("2000"), UserID: 1},
		{Ref: "000003", Date: day("2024-01-13"), Description: "Purchase of office supplies", DebitAccountID: 17, CreditAccountID: 1, Amount: amount("500"), UserID: 1},
		{Ref: "000004", Date: day("2024-01-12"), Description: "Payment received from XYZ Corp", DebitAccountID: 1, CreditAccountID: 2, Amount: amount("3500"), UserID: 1},
		{Ref: "000005", Date: day("2024-01-11"), Description: "Employee salary payment", DebitAccountID: 16, CreditAccountID: 1, Amount: amount("4000"), UserID: 1},
	}
}

// DefaultUsers returns the seeded admin user.
func DefaultUsers() []model.User {
	return []model.User{
		{Email: "admin@aibos.com", FirstName: "Admin", LastName: "User", Role: "admin", Active: true},
	}
}
