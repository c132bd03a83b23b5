// Package store persists the chart of accounts, the journal, users and
// settings behind a single interface with two interchangeable backends:
// SQLite as the structured primary, and flat JSON files as the fallback.
// The backend is chosen once at open time and injected into callers; there
// is no per-call dispatch.
package store

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aibos-dev/aibos/internal/model"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// DatabaseFile is the SQLite database filename inside the data directory.
const DatabaseFile = "aibos_accounting.db"

// Store is the persistence contract shared by both backends. Add methods
// assign and return the next sequential id, ignoring any id on the record.
type Store interface {
	AddAccount(ctx context.Context, a model.Account) (int, error)
	Accounts(ctx context.Context) ([]model.Account, error)
	AccountByID(ctx context.Context, id int) (model.Account, error)
	UpdateAccount(ctx context.Context, a model.Account) error
	DeleteAccount(ctx context.Context, id int) error

	AddTransaction(ctx context.Context, t model.Transaction) (int, error)
	Transactions(ctx context.Context) ([]model.Transaction, error)
	TransactionsByDateRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error)
	TransactionByRef(ctx context.Context, ref string) (model.Transaction, error)

	AddUser(ctx context.Context, u model.User) (int, error)
	Users(ctx context.Context) ([]model.User, error)
	UserByEmail(ctx context.Context, email string) (model.User, error)

	Setting(ctx context.Context, key string) (string, error)
	PutSetting(ctx context.Context, key, value string) error

	// Clear removes every record from every collection. Used by restore.
	Clear(ctx context.Context) error

	Close() error
}

// Backend names a storage implementation.
type Backend string

const (
	BackendAuto     Backend = "auto"
	BackendSQLite   Backend = "sqlite"
	BackendFlatFile Backend = "flatfile"
)

// Open opens the store under dir, trying SQLite first and degrading to the
// flat-file backend if the database cannot be opened or migrated. The
// degrade is one-way: the session keeps the fallback for its lifetime.
func Open(dir string) (Store, error) {
	s, err := OpenSQLite(filepath.Join(dir, DatabaseFile))
	if err == nil {
		return s, nil
	}
	slog.Warn("sqlite unavailable, falling back to flat-file store", "dir", dir, "err", err)
	return OpenFlatFile(dir)
}

// OpenBackend opens a specific backend under dir. BackendAuto behaves like
// Open.
func OpenBackend(dir string, b Backend) (Store, error) {
	switch b {
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dir, DatabaseFile))
	case BackendFlatFile:
		return OpenFlatFile(dir)
	default:
		return Open(dir)
	}
}
