package ledger

import "fmt"

// ValidationError describes why a mutation was rejected. Rejected mutations
// leave the journal and every balance untouched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// validatePosting enforces the posting preconditions: a positive amount and
// two account ids that resolve in the chart. Unknown ids are rejected
// rather than silently skipped, so a recorded posting always moves both
// sides.
func (s *Service) validatePosting(p PostParams) error {
	if p.DebitAccountID == 0 {
		return ValidationError{Field: "debitAccountId", Reason: "missing debit account"}
	}
	if p.CreditAccountID == 0 {
		return ValidationError{Field: "creditAccountId", Reason: "missing credit account"}
	}
	if !p.Amount.IsPositive() {
		return ValidationError{Field: "amount", Reason: "amount must be positive"}
	}
	if _, ok := s.account(p.DebitAccountID); !ok {
		return ValidationError{Field: "debitAccountId", Reason: fmt.Sprintf("unknown account %d", p.DebitAccountID)}
	}
	if _, ok := s.account(p.CreditAccountID); !ok {
		return ValidationError{Field: "creditAccountId", Reason: fmt.Sprintf("unknown account %d", p.CreditAccountID)}
	}
	return nil
}
