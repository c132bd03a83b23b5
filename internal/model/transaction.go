package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single double-entry posting: exactly one debit account,
// one credit account, one positive amount. Immutable once recorded.
type Transaction struct {
	ID              int             `json:"id"`
	Ref             string          `json:"referenceNumber"` // zero-padded sequential, "000001" onward
	Date            time.Time       `json:"date"`
	Description     string          `json:"description"`
	DebitAccountID  int             `json:"debitAccountId"`
	CreditAccountID int             `json:"creditAccountId"`
	Amount          decimal.Decimal `json:"amount"`
	UserID          int             `json:"userId"`
}
