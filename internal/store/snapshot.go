package store

import (
	"context"
	"fmt"
	"time"

	"github.com/aibos-dev/aibos/internal/model"
)

// Export dumps every collection into a Snapshot stamped with the current
// time.
func Export(ctx context.Context, s Store) (model.Snapshot, error) {
	accounts, err := s.Accounts(ctx)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("exporting accounts: %w", err)
	}
	txns, err := s.Transactions(ctx)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("exporting transactions: %w", err)
	}
	users, err := s.Users(ctx)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("exporting users: %w", err)
	}
	return model.Snapshot{
		Accounts:     accounts,
		Transactions: txns,
		Users:        users,
		ExportDate:   time.Now().UTC(),
	}, nil
}

// Import clears the store and re-inserts every snapshot record in order.
// Ids are reassigned by insertion order; record values are preserved.
func Import(ctx context.Context, s Store, snap model.Snapshot) error {
	if err := s.Clear(ctx); err != nil {
		return fmt.Errorf("clearing before import: %w", err)
	}
	for _, a := range snap.Accounts {
		if _, err := s.AddAccount(ctx, a); err != nil {
			return fmt.Errorf("importing account %q: %w", a.Number, err)
		}
	}
	for _, t := range snap.Transactions {
		if _, err := s.AddTransaction(ctx, t); err != nil {
			return fmt.Errorf("importing transaction %q: %w", t.Ref, err)
		}
	}
	for _, u := range snap.Users {
		if _, err := s.AddUser(ctx, u); err != nil {
			return fmt.Errorf("importing user %q: %w", u.Email, err)
		}
	}
	return nil
}
