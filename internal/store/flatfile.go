package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/aibos-dev/aibos/internal/model"
)

// Flat-store filenames, one JSON document per collection.
const (
	accountsFile     = "aibos_accounts.json"
	transactionsFile = "aibos_transactions.json"
	usersFile        = "aibos_users.json"
	settingsFile     = "aibos_settings.json"
	countersFile     = "aibos_counters.json"
)

// counters holds the monotonic id counters for the flat-file backend, so
// ids are never reused after a delete.
type counters struct {
	Accounts     int `json:"accounts"`
	Transactions int `json:"transactions"`
	Users        int `json:"users"`
}

// FlatFile is the fallback backend: each collection is a JSON array file
// rewritten on every mutation. Queries are linear scans.
type FlatFile struct {
	dir string
}

// OpenFlatFile opens (creating if needed) a flat-file store rooted at dir.
func OpenFlatFile(dir string) (*FlatFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}
	return &FlatFile{dir: dir}, nil
}

// Close is a no-op; every operation opens and closes its own files.
func (f *FlatFile) Close() error { return nil }

// AddAccount appends an account and returns its assigned id.
func (f *FlatFile) AddAccount(ctx context.Context, a model.Account) (int, error) {
	accounts, err := readJSON[[]model.Account](f.path(accountsFile))
	if err != nil {
		return 0, err
	}
	id, err := f.nextID(func(c *counters) *int { return &c.Accounts })
	if err != nil {
		return 0, err
	}
	a.ID = id
	accounts = append(accounts, a)
	if err := writeJSON(f.path(accountsFile), accounts); err != nil {
		return 0, err
	}
	return id, nil
}

// Accounts returns every account in insertion order.
func (f *FlatFile) Accounts(ctx context.Context) ([]model.Account, error) {
	return readJSON[[]model.Account](f.path(accountsFile))
}

// AccountByID returns one account, or ErrNotFound.
func (f *FlatFile) AccountByID(ctx context.Context, id int) (model.Account, error) {
	accounts, err := readJSON[[]model.Account](f.path(accountsFile))
	if err != nil {
		return model.Account{}, err
	}
	for _, a := range accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return model.Account{}, ErrNotFound
}

// UpdateAccount replaces the stored record for a.ID.
func (f *FlatFile) UpdateAccount(ctx context.Context, a model.Account) error {
	accounts, err := readJSON[[]model.Account](f.path(accountsFile))
	if err != nil {
		return err
	}
	for i := range accounts {
		if accounts[i].ID == a.ID {
			accounts[i] = a
			return writeJSON(f.path(accountsFile), accounts)
		}
	}
	return ErrNotFound
}

// DeleteAccount removes an account. Its id is never reassigned.
func (f *FlatFile) DeleteAccount(ctx context.Context, id int) error {
	accounts, err := readJSON[[]model.Account](f.path(accountsFile))
	if err != nil {
		return err
	}
	kept := accounts[:0]
	found := false
	for _, a := range accounts {
		if a.ID == id {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	if !found {
		return ErrNotFound
	}
	return writeJSON(f.path(accountsFile), kept)
}

// AddTransaction appends a posting and returns its assigned id.
func (f *FlatFile) AddTransaction(ctx context.Context, t model.Transaction) (int, error) {
	txns, err := readJSON[[]model.Transaction](f.path(transactionsFile))
	if err != nil {
		return 0, err
	}
	id, err := f.nextID(func(c *counters) *int { return &c.Transactions })
	if err != nil {
		return 0, err
	}
	t.ID = id
	txns = append(txns, t)
	if err := writeJSON(f.path(transactionsFile), txns); err != nil {
		return 0, err
	}
	return id, nil
}

// Transactions returns every posting in insertion order.
func (f *FlatFile) Transactions(ctx context.Context) ([]model.Transaction, error) {
	return readJSON[[]model.Transaction](f.path(transactionsFile))
}

// TransactionsByDateRange filters postings to start <= date <= end,
// comparing whole days.
func (f *FlatFile) TransactionsByDateRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error) {
	txns, err := readJSON[[]model.Transaction](f.path(transactionsFile))
	if err != nil {
		return nil, err
	}
	startDay := start.Format(dateFormat)
	endDay := end.Format(dateFormat)
	var result []model.Transaction
	for _, t := range txns {
		day := t.Date.Format(dateFormat)
		if day >= startDay && day <= endDay {
			result = append(result, t)
		}
	}
	return result, nil
}

// TransactionByRef returns the posting with the given reference number.
func (f *FlatFile) TransactionByRef(ctx context.Context, ref string) (model.Transaction, error) {
	txns, err := readJSON[[]model.Transaction](f.path(transactionsFile))
	if err != nil {
		return model.Transaction{}, err
	}
	for _, t := range txns {
		if t.Ref == ref {
			return t, nil
		}
	}
	return model.Transaction{}, ErrNotFound
}

// AddUser appends a user and returns its assigned id.
func (f *FlatFile) AddUser(ctx context.Context, u model.User) (int, error) {
	users, err := readJSON[[]model.User](f.path(usersFile))
	if err != nil {
		return 0, err
	}
	id, err := f.nextID(func(c *counters) *int { return &c.Users })
	if err != nil {
		return 0, err
	}
	u.ID = id
	users = append(users, u)
	if err := writeJSON(f.path(usersFile), users); err != nil {
		return 0, err
	}
	return id, nil
}

// Users returns every user in insertion order.
func (f *FlatFile) Users(ctx context.Context) ([]model.User, error) {
	return readJSON[[]model.User](f.path(usersFile))
}

// UserByEmail returns the user with the given email, or ErrNotFound.
func (f *FlatFile) UserByEmail(ctx context.Context, email string) (model.User, error) {
	users, err := readJSON[[]model.User](f.path(usersFile))
	if err != nil {
		return model.User{}, err
	}
	for _, u := range users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

// Setting returns the value for key, or ErrNotFound.
func (f *FlatFile) Setting(ctx context.Context, key string) (string, error) {
	settings, err := readJSON[map[string]string](f.path(settingsFile))
	if err != nil {
		return "", err
	}
	value, ok := settings[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// PutSetting upserts a settings key.
func (f *FlatFile) PutSetting(ctx context.Context, key, value string) error {
	settings, err := readJSON[map[string]string](f.path(settingsFile))
	if err != nil {
		return err
	}
	if settings == nil {
		settings = make(map[string]string)
	}
	settings[key] = value
	return writeJSON(f.path(settingsFile), settings)
}

// Clear removes every collection file and resets the id counters.
func (f *FlatFile) Clear(ctx context.Context) error {
	files := []string{accountsFile, transactionsFile, usersFile, settingsFile, countersFile}
	for _, name := range files {
		if err := os.Remove(f.path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("clearing %s: %w", name, err)
		}
	}
	return nil
}

func (f *FlatFile) path(name string) string {
	return filepath.Join(f.dir, name)
}

// nextID bumps and persists one of the monotonic counters.
func (f *FlatFile) nextID(field func(*counters) *int) (int, error) {
	c, err := readJSON[counters](f.path(countersFile))
	if err != nil {
		return 0, err
	}
	n := field(&c)
	*n++
	if err := writeJSON(f.path(countersFile), c); err != nil {
		return 0, err
	}
	return *n, nil
}

// readJSON decodes a whole collection file. A missing file decodes to the
// zero value, so a fresh directory behaves as an empty store.
func readJSON[T any](path string) (T, error) {
	var v T
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return v, nil
	}
	if err != nil {
		return v, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return v, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
