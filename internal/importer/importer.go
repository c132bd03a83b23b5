// Package importer turns bank statement CSV exports into ledger postings.
// Each statement line becomes one double-entry posting against the cash
// account: money out debits the expense suspense account, money in credits
// the revenue suspense account, pending recategorization.
package importer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StatementLine is one parsed row of a bank CSV export.
type StatementLine struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // negative = money out, positive = money in
	Reference   string
	Type        string // bank transaction type (ACH_DEBIT, etc.)
}

// Parser converts a bank CSV file into StatementLines.
type Parser interface {
	Parse(r io.Reader) ([]StatementLine, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats returns the registered format names.
func (r *Registry) Formats() []string {
	var formats []string
	for k := range r.parsers {
		formats = append(formats, k)
	}
	return formats
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	return r
}

// Posting is a statement line resolved to ledger account ids.
type Posting struct {
	Date            time.Time
	Description     string
	DebitAccountID  int
	CreditAccountID int
	Amount          decimal.Decimal // always positive
}

// Accounts names the ledger accounts statement lines are posted against.
type Accounts struct {
	Cash    int // the bank account's ledger account
	Expense int // suspense for money out
	Revenue int // suspense for money in
}

// ToPostings converts statement lines into postings against accts. Zero
// amounts are skipped; they carry no ledger effect.
func ToPostings(lines []StatementLine, accts Accounts) ([]Posting, error) {
	if accts.Cash == 0 || accts.Expense == 0 || accts.Revenue == 0 {
		return nil, fmt.Errorf("cash, expense and revenue accounts must all be set")
	}

	var postings []Posting
	for _, line := range lines {
		if line.Amount.IsZero() {
			continue
		}
		p := Posting{
			Date:        line.Date,
			Description: line.Description,
			Amount:      line.Amount.Abs(),
		}
		if line.Amount.IsNegative() {
			p.DebitAccountID = accts.Expense
			p.CreditAccountID = accts.Cash
		} else {
			p.DebitAccountID = accts.Cash
			p.CreditAccountID = accts.Revenue
		}
		postings = append(postings, p)
	}
	return postings, nil
}
