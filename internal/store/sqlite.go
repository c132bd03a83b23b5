package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aibos-dev/aibos/internal/model"
)

//go:embed schema.sql
var schemaSQL string

const (
	schemaVersion    = 1
	schemaVersionKey = "schema_version"
	dateFormat       = "2006-01-02"
)

// SQLite is the structured backend. It keeps a single writer connection to
// avoid SQLITE_BUSY and stores money columns as exact decimal text.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite creates or opens the database at path, applies pragmas and the
// schema, and records the schema version. Idempotent.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// SQLite supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("executing %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	_, err := db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO NOTHING`,
		schemaVersionKey, strconv.Itoa(schemaVersion),
	)
	if err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// AddAccount inserts an account and returns its assigned id.
func (s *SQLite) AddAccount(ctx context.Context, a model.Account) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (number, name, type, description, active, balance)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.Number, a.Name, string(a.Type), a.Description, boolToInt(a.Active), a.Balance.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("inserting account: %w", err)
	}
	return int(id), nil
}

// Accounts returns every account ordered by id.
func (s *SQLite) Accounts(ctx context.Context) ([]model.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, number, name, type, description, active, balance
		FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// AccountByID returns one account, or ErrNotFound.
func (s *SQLite) AccountByID(ctx context.Context, id int) (model.Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, number, name, type, description, active, balance
		FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, ErrNotFound
	}
	return a, err
}

// UpdateAccount replaces the stored record for a.ID.
func (s *SQLite) UpdateAccount(ctx context.Context, a model.Account) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE accounts SET number = ?, name = ?, type = ?, description = ?, active = ?, balance = ?
		WHERE id = ?`,
		a.Number, a.Name, string(a.Type), a.Description, boolToInt(a.Active), a.Balance.String(), a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating account %d: %w", a.ID, err)
	}
	return affectedOrNotFound(res)
}

// DeleteAccount removes an account row. The freed id is never reassigned.
func (s *SQLite) DeleteAccount(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting account %d: %w", id, err)
	}
	return affectedOrNotFound(res)
}

// AddTransaction inserts a posting and returns its assigned id.
func (s *SQLite) AddTransaction(ctx context.Context, t model.Transaction) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (ref, date, description, debit_account_id, credit_account_id, amount, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.Ref, t.Date.Format(dateFormat), t.Description,
		t.DebitAccountID, t.CreditAccountID, t.Amount.String(), t.UserID,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("inserting transaction: %w", err)
	}
	return int(id), nil
}

// Transactions returns every posting ordered by id.
func (s *SQLite) Transactions(ctx context.Context) ([]model.Transaction, error) {
	return s.queryTransactions(ctx, `
		SELECT id, ref, date, description, debit_account_id, credit_account_id, amount, user_id
		FROM transactions ORDER BY id`)
}

// TransactionsByDateRange returns postings with start <= date <= end,
// ordered by date. Served by the date index.
func (s *SQLite) TransactionsByDateRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error) {
	return s.queryTransactions(ctx, `
		SELECT id, ref, date, description, debit_account_id, credit_account_id, amount, user_id
		FROM transactions WHERE date >= ? AND date <= ? ORDER BY date, id`,
		start.Format(dateFormat), end.Format(dateFormat))
}

// TransactionByRef returns the posting with the given reference number.
func (s *SQLite) TransactionByRef(ctx context.Context, ref string) (model.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, ref, date, description, debit_account_id, credit_account_id, amount, user_id
		FROM transactions WHERE ref = ?`, ref)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, ErrNotFound
	}
	return t, err
}

// AddUser inserts a user and returns its assigned id.
func (s *SQLite) AddUser(ctx context.Context, u model.User) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (email, first_name, last_name, role, active)
		VALUES (?, ?, ?, ?, ?)`,
		u.Email, u.FirstName, u.LastName, u.Role, boolToInt(u.Active),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("inserting user: %w", err)
	}
	return int(id), nil
}

// Users returns every user ordered by id.
func (s *SQLite) Users(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, first_name, last_name, role, active FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		var active int
		if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Role, &active); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		u.Active = active != 0
		users = append(users, u)
	}
	return users, rows.Err()
}

// UserByEmail returns the user with the given email, or ErrNotFound.
// Served by the unique email index.
func (s *SQLite) UserByEmail(ctx context.Context, email string) (model.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, first_name, last_name, role, active FROM users WHERE email = ?`, email)
	var u model.User
	var active int
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Role, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("scanning user: %w", err)
	}
	u.Active = active != 0
	return u, nil
}

// Setting returns the value for key, or ErrNotFound.
func (s *SQLite) Setting(ctx context.Context, key string) (string, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key)
	var value string
	err := row.Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading setting %q: %w", key, err)
	}
	return value, nil
}

// PutSetting upserts a settings key.
func (s *SQLite) PutSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("writing setting %q: %w", key, err)
	}
	return nil
}

// Clear deletes every record from every collection in one native
// transaction and resets the id sequences. The schema version survives.
func (s *SQLite) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning clear: %w", err)
	}
	defer tx.Rollback()

	stmts := []string{
		`DELETE FROM accounts`,
		`DELETE FROM transactions`,
		`DELETE FROM users`,
		`DELETE FROM settings WHERE key != '` + schemaVersionKey + `'`,
		`DELETE FROM sqlite_sequence WHERE name IN ('accounts', 'transactions', 'users')`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clearing store: %w", err)
		}
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (model.Account, error) {
	var a model.Account
	var active int
	var balance string
	err := row.Scan(&a.ID, &a.Number, &a.Name, (*string)(&a.Type), &a.Description, &active, &balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Account{}, err
		}
		return model.Account{}, fmt.Errorf("scanning account: %w", err)
	}
	a.Active = active != 0
	a.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing balance %q: %w", balance, err)
	}
	return a, nil
}

func scanTransaction(row rowScanner) (model.Transaction, error) {
	var t model.Transaction
	var date, amount string
	err := row.Scan(&t.ID, &t.Ref, &date, &t.Description, &t.DebitAccountID, &t.CreditAccountID, &amount, &t.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Transaction{}, err
		}
		return model.Transaction{}, fmt.Errorf("scanning transaction: %w", err)
	}
	t.Date, err = time.Parse(dateFormat, date)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", date, err)
	}
	t.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", amount, err)
	}
	return t, nil
}

func (s *SQLite) queryTransactions(ctx context.Context, query string, args ...any) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
