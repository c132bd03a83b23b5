// Package ledger is the double-entry posting engine: it owns the in-memory
// chart of accounts and journal, applies the normal-balance rule on each
// posting, and writes every change through an injected store.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aibos-dev/aibos/internal/model"
	"github.com/aibos-dev/aibos/internal/refnum"
	"github.com/aibos-dev/aibos/internal/store"
)

// Service maintains the chart of accounts and the journal. It is the sole
// mutator of account balances; construct one per store with Load.
type Service struct {
	st    store.Store
	accts []model.Account
	byID  map[int]int // account id -> index in accts
	txns  []model.Transaction
}

// Load reads the persisted state from st. A store with no accounts is
// seeded once with the default chart, the sample journal and the admin
// user; later loads read the state as-is.
func Load(ctx context.Context, st store.Store) (*Service, error) {
	s := &Service{st: st, byID: make(map[int]int)}

	accts, err := st.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}
	if len(accts) == 0 {
		if err := s.seed(ctx); err != nil {
			return nil, err
		}
		return s, nil
	}

	for _, a := range accts {
		s.index(a)
	}
	s.txns, err = st.Transactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	return s, nil
}

func (s *Service) seed(ctx context.Context) error {
	for _, a := range DefaultChart() {
		id, err := s.st.AddAccount(ctx, a)
		if err != nil {
			return fmt.Errorf("seeding account %q: %w", a.Number, err)
		}
		a.ID = id
		s.index(a)
	}
	for _, t := range SampleTransactions() {
		id, err := s.st.AddTransaction(ctx, t)
		if err != nil {
			return fmt.Errorf("seeding transaction %q: %w", t.Ref, err)
		}
		t.ID = id
		s.txns = append(s.txns, t)
	}
	for _, u := range DefaultUsers() {
		if _, err := s.st.AddUser(ctx, u); err != nil {
			return fmt.Errorf("seeding user %q: %w", u.Email, err)
		}
	}
	return nil
}

func (s *Service) index(a model.Account) {
	s.byID[a.ID] = len(s.accts)
	s.accts = append(s.accts, a)
}

func (s *Service) account(id int) (*model.Account, bool) {
	i, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return &s.accts[i], true
}

// Accounts returns the chart of accounts in id order.
func (s *Service) Accounts() []model.Account {
	out := make([]model.Account, len(s.accts))
	copy(out, s.accts)
	return out
}

// Account returns an account by id.
func (s *Service) Account(id int) (model.Account, bool) {
	a, ok := s.account(id)
	if !ok {
		return model.Account{}, false
	}
	return *a, true
}

// Transactions returns the journal in posting order.
func (s *Service) Transactions() []model.Transaction {
	out := make([]model.Transaction, len(s.txns))
	copy(out, s.txns)
	return out
}

// AddAccount creates an account with a zero balance and the next sequential
// id. Account-number uniqueness is left to the structured backend's index.
func (s *Service) AddAccount(ctx context.Context, number, name string, accountType model.AccountType, description string) (model.Account, error) {
	if !accountType.Valid() {
		return model.Account{}, ValidationError{Field: "type", Reason: fmt.Sprintf("unknown account type %q", accountType)}
	}
	a := model.Account{
		Number:      number,
		Name:        name,
		Type:        accountType,
		Description: description,
		Active:      true,
		Balance:     decimal.Zero,
	}
	id, err := s.st.AddAccount(ctx, a)
	if err != nil {
		return model.Account{}, fmt.Errorf("adding account: %w", err)
	}
	a.ID = id
	s.index(a)
	return a, nil
}

// AccountPatch holds the updatable account fields; nil fields are left
// unchanged.
type AccountPatch struct {
	Number      *string
	Name        *string
	Type        *model.AccountType
	Description *string
	Active      *bool
}

// UpdateAccount merges patch into the account. Unknown ids are a no-op.
func (s *Service) UpdateAccount(ctx context.Context, id int, patch AccountPatch) error {
	a, ok := s.account(id)
	if !ok {
		return nil
	}
	if patch.Number != nil {
		a.Number = *patch.Number
	}
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Type != nil {
		if !patch.Type.Valid() {
			return ValidationError{Field: "type", Reason: fmt.Sprintf("unknown account type %q", *patch.Type)}
		}
		a.Type = *patch.Type
	}
	if patch.Description != nil {
		a.Description = *patch.Description
	}
	if patch.Active != nil {
		a.Active = *patch.Active
	}
	if err := s.st.UpdateAccount(ctx, *a); err != nil {
		return fmt.Errorf("updating account %d: %w", id, err)
	}
	return nil
}

// DeactivateAccount soft-deletes an account. Its balance and all historical
// postings referencing it are untouched.
func (s *Service) DeactivateAccount(ctx context.Context, id int) error {
	a, ok := s.account(id)
	if !ok {
		return nil
	}
	a.Active = false
	if err := s.st.UpdateAccount(ctx, *a); err != nil {
		return fmt.Errorf("deactivating account %d: %w", id, err)
	}
	return nil
}

// PostParams holds the caller-supplied fields of a posting. A zero Date
// posts on the current day.
type PostParams struct {
	Date            time.Time
	Description     string
	DebitAccountID  int
	CreditAccountID int
	Amount          decimal.Decimal
	UserID          int
}

// Post records one double-entry transaction and applies the normal-balance
// rule to both accounts: a debit increases debit-normal accounts (asset,
// expense) and decreases the rest; a credit is the mirror image. The
// reference number continues the journal's zero-padded sequence.
func (s *Service) Post(ctx context.Context, p PostParams) (model.Transaction, error) {
	if err := s.validatePosting(p); err != nil {
		return model.Transaction{}, err
	}

	ref, err := refnum.Next(s.lastRef())
	if err != nil {
		return model.Transaction{}, fmt.Errorf("assigning reference number: %w", err)
	}

	date := p.Date
	if date.IsZero() {
		date = time.Now()
	}
	txn := model.Transaction{
		Ref:             ref,
		Date:            date,
		Description:     p.Description,
		DebitAccountID:  p.DebitAccountID,
		CreditAccountID: p.CreditAccountID,
		Amount:          p.Amount,
		UserID:          p.UserID,
	}

	id, err := s.st.AddTransaction(ctx, txn)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("recording posting: %w", err)
	}
	txn.ID = id
	s.txns = append(s.txns, txn)

	debit, _ := s.account(p.DebitAccountID)
	credit, _ := s.account(p.CreditAccountID)
	if debit.Type.NormalDebit() {
		debit.Balance = debit.Balance.Add(p.Amount)
	} else {
		debit.Balance = debit.Balance.Sub(p.Amount)
	}
	if credit.Type.NormalDebit() {
		credit.Balance = credit.Balance.Sub(p.Amount)
	} else {
		credit.Balance = credit.Balance.Add(p.Amount)
	}

	if err := s.st.UpdateAccount(ctx, *debit); err != nil {
		return txn, fmt.Errorf("persisting debit account %d: %w", debit.ID, err)
	}
	if err := s.st.UpdateAccount(ctx, *credit); err != nil {
		return txn, fmt.Errorf("persisting credit account %d: %w", credit.ID, err)
	}
	return txn, nil
}

// TransactionsByDateRange returns postings with start <= date <= end.
func (s *Service) TransactionsByDateRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error) {
	return s.st.TransactionsByDateRange(ctx, start, end)
}

func (s *Service) lastRef() string {
	if len(s.txns) == 0 {
		return ""
	}
	return s.txns[len(s.txns)-1].Ref
}
