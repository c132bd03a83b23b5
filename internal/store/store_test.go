package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibos-dev/aibos/internal/model"
)

// eachBackend runs fn once per backend implementation so both stay
// behaviorally interchangeable.
func eachBackend(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Helper()

	t.Run("sqlite", func(t *testing.T) {
		s, err := OpenSQLite(t.TempDir() + "/test.db")
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		fn(t, s)
	})

	t.Run("flatfile", func(t *testing.T) {
		s, err := OpenFlatFile(t.TempDir())
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		fn(t, s)
	})
}

func testAccount(number, name string) model.Account {
	return model.Account{
		Number:  number,
		Name:    name,
		Type:    model.AccountTypeAsset,
		Active:  true,
		Balance: decimal.Zero,
	}
}

func TestAccountCRUD(t *testing.T) {
	eachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		id1, err := s.AddAccount(ctx, testAccount("1000", "Cash"))
		require.NoError(t, err)
		id2, err := s.AddAccount(ctx, testAccount("1100", "Accounts Receivable"))
		require.NoError(t, err)
		assert.Equal(t, 1, id1)
		assert.Equal(t, 2, id2)

		got, err := s.AccountByID(ctx, id1)
		require.NoError(t, err)
		assert.Equal(t, "Cash", got.Name)
		assert.True(t, got.Active)

		got.Balance = decimal.RequireFromString("35000")
		got.Active = false
		require.NoError(t, s.UpdateAccount(ctx, got))

		updated, err := s.AccountByID(ctx, id1)
		require.NoError(t, err)
		assert.True(t, updated.Balance.Equal(decimal.RequireFromString("35000")))
		assert.False(t, updated.Active)

		all, err := s.Accounts(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		require.NoError(t, s.DeleteAccount(ctx, id2))
		_, err = s.AccountByID(ctx, id2)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAccountNotFound(t *testing.T) {
	eachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		_, err := s.AccountByID(ctx, 99)
		assert.ErrorIs(t, err, ErrNotFound)

		err = s.UpdateAccount(ctx, model.Account{ID: 99, Name: "Ghost"})
		assert.ErrorIs(t, err, ErrNotFound)

		err = s.DeleteAccount(ctx, 99)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestIDsNotReusedAfterDelete(t *testing.T) {
	eachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		id1, err := s.AddAccount(ctx, testAccount("1000", "Cash"))
		require.NoError(t, err)
		id2, err := s.AddAccount(ctx, testAccount("1100", "Receivables"))
		require.NoError(t, err)

		require.NoError(t, s.DeleteAccount(ctx, id2))

		id3, err := s.AddAccount(ctx, testAccount("1200", "Inventory"))
		require.NoError(t, err)
		assert.Greater(t, id3, id2, "deleted id must not be reassigned")
		assert.NotEqual(t, id1, id3)
	})
}

func TestUniqueAccountNumber(t *testing.T) {
	// Uniqueness is an index property of the structured backend only.
	s, err := OpenSQLite(t.TempDir() + "/test.db")
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	_, err = s.AddAccount(ctx, testAccount("1000", "Cash"))
	require.NoError(t, err)
	_, err = s.AddAccount(ctx, testAccount("1000", "Duplicate"))
	assert.Error(t, err)
}

func TestTransactions(t *testing.T) {
	eachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		days := []string{"2024-01-11", "2024-01-13", "2024-01-15"}
		refs := []string{"000001", "000002", "000003"}
		for i, day := range days {
			date, err := time.Parse("2006-01-02", day)
			require.NoError(t, err)
			id, err := s.AddTransaction(ctx, model.Transaction{
				Ref:             refs[i],
				Date:            date,
				Description:     "posting",
				DebitAccountID:  1,
				CreditAccountID: 2,
				Amount:          decimal.RequireFromString("100"),
				UserID:          1,
			})
			require.NoError(t, err)
			assert.Equal(t, i+1, id)
		}

		all, err := s.Transactions(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.True(t, all[0].Amount.Equal(decimal.RequireFromString("100")))

		start, _ := time.Parse("2006-01-02", "2024-01-12")
		end, _ := time.Parse("2006-01-02", "2024-01-14")
		ranged, err := s.TransactionsByDateRange(ctx, start, end)
		require.NoError(t, err)
		require.Len(t, ranged, 1)
		assert.Equal(t, "2024-01-13", ranged[0].Date.Format("2006-01-02"))
	})
}

func TestTransactionByRef(t *testing.T) {
	eachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		date, _ := time.Parse("2006-01-02", "2024-01-15")

		_, err := s.AddTransaction(ctx, model.Transaction{
			Ref:             "000001",
			Date:            date,
			Description:     "first",
			DebitAccountID:  1,
			CreditAccountID: 2,
			Amount:          decimal.RequireFromString("42.50"),
		})
		require.NoError(t, err)

		got, err := s.TransactionByRef(ctx, "000001")
		require.NoError(t, err)
		assert.Equal(t, "first", got.Description)
		assert.True(t, got.Amount.Equal(decimal.RequireFromString("42.50")))

		_, err = s.TransactionByRef(ctx, "999999")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUsers(t *testing.T) {
	eachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		id, err := s.AddUser(ctx, model.User{
			Email:     "admin@aibos.com",
			FirstName: "Admin",
			LastName:  "User",
			Role:      "admin",
			Active:    true,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, id)

		u, err := s.UserByEmail(ctx, "admin@aibos.com")
		require.NoError(t, err)
		assert.Equal(t, "admin", u.Role)
		assert.True(t, u.Active)

		_, err = s.UserByEmail(ctx, "nobody@aibos.com")
		assert.ErrorIs(t, err, ErrNotFound)

		users, err := s.Users(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})
}

func TestSettings(t *testing.T) {
	eachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		_, err := s.Setting(ctx, "currency")
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, s.PutSetting(ctx, "currency", "USD"))
		value, err := s.Setting(ctx, "currency")
		require.NoError(t, err)
		assert.Equal(t, "USD", value)

		require.NoError(t, s.PutSetting(ctx, "currency", "EUR"))
		value, err = s.Setting(ctx, "currency")
		require.NoError(t, err)
		assert.Equal(t, "EUR", value)
	})
}

func TestClear(t *testing.T) {
	eachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		_, err := s.AddAccount(ctx, testAccount("1000", "Cash"))
		require.NoError(t, err)
		_, err = s.AddUser(ctx, model.User{Email: "a@b.c"})
		require.NoError(t, err)

		require.NoError(t, s.Clear(ctx))

		accounts, err := s.Accounts(ctx)
		require.NoError(t, err)
		assert.Empty(t, accounts)
		users, err := s.Users(ctx)
		require.NoError(t, err)
		assert.Empty(t, users)

		// Sequences restart after a full clear.
		id, err := s.AddAccount(ctx, testAccount("1000", "Cash"))
		require.NoError(t, err)
		assert.Equal(t, 1, id)
	})
}

func TestOpenFallsBack(t *testing.T) {
	// Point the SQLite path at a directory to force an open failure; Open
	// must degrade to the flat-file backend instead of returning an error.
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(dir+"/"+DatabaseFile, 0o755))

	s, err := Open(dir)
	require.NoError(t, err)
	defer s.Close()
	_, ok := s.(*FlatFile)
	assert.True(t, ok, "expected flat-file fallback")
}
