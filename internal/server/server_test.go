package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibos-dev/aibos/internal/ledger"
	"github.com/aibos-dev/aibos/internal/model"
	"github.com/aibos-dev/aibos/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.OpenFlatFile(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc, err := ledger.Load(context.Background(), st)
	require.NoError(t, err)

	return New(svc, st, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := newTestServer(t).Router()
	rec := doJSON(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListAccounts(t *testing.T) {
	h := newTestServer(t).Router()
	rec := doJSON(t, h, http.MethodGet, "/api/accounts", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var accounts []model.Account
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accounts))
	assert.Len(t, accounts, 18)
	assert.Equal(t, "Cash", accounts[0].Name)
}

func TestAddAccount(t *testing.T) {
	h := newTestServer(t).Router()
	rec := doJSON(t, h, http.MethodPost, "/api/accounts", map[string]any{
		"accountNumber": "1400",
		"name":          "Prepaid Insurance",
		"type":          "asset",
		"description":   "Premiums paid in advance",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var account model.Account
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account))
	assert.Equal(t, 19, account.ID)
	assert.True(t, account.Active)
}

func TestAddAccountBadType(t *testing.T) {
	h := newTestServer(t).Router()
	rec := doJSON(t, h, http.MethodPost, "/api/accounts", map[string]any{
		"accountNumber": "9000",
		"name":          "Bogus",
		"type":          "suspense",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUpdateAccount(t *testing.T) {
	h := newTestServer(t).Router()
	rec := doJSON(t, h, http.MethodPatch, "/api/accounts/1", map[string]any{
		"name": "Cash and Equivalents",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var account model.Account
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account))
	assert.Equal(t, "Cash and Equivalents", account.Name)
	assert.Equal(t, "1000", account.Number)
}

func TestUpdateAccountNotFound(t *testing.T) {
	h := newTestServer(t).Router()
	rec := doJSON(t, h, http.MethodPatch, "/api/accounts/99", map[string]any{"name": "Ghost"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeactivateAccount(t *testing.T) {
	h := newTestServer(t).Router()

	rec := doJSON(t, h, http.MethodDelete, "/api/accounts/10", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/reports/trial-balance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []trialBalanceRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.Len(t, rows, 17)
}

func TestPostTransaction(t *testing.T) {
	h := newTestServer(t).Router()

	rec := doJSON(t, h, http.MethodPost, "/api/transactions", map[string]any{
		"date":            "2024-02-01",
		"description":     "Test",
		"debitAccountId":  1,
		"creditAccountId": 10,
		"amount":          "100",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var txn model.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &txn))
	assert.Equal(t, "000006", txn.Ref)
}

func TestPostTransactionRejected(t *testing.T) {
	h := newTestServer(t).Router()

	rec := doJSON(t, h, http.MethodPost, "/api/transactions", map[string]any{
		"description":     "No amount",
		"debitAccountId":  1,
		"creditAccountId": 10,
		"amount":          "0",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// The rejection must not have reached the journal.
	rec = doJSON(t, h, http.MethodGet, "/api/transactions", nil)
	var txns []model.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &txns))
	assert.Len(t, txns, 5)
}

func TestListTransactionsByRange(t *testing.T) {
	h := newTestServer(t).Router()

	rec := doJSON(t, h, http.MethodGet, "/api/transactions?start=2024-01-13&end=2024-01-14", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var txns []model.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &txns))
	assert.Len(t, txns, 2)
}

func TestSummary(t *testing.T) {
	h := newTestServer(t).Router()

	rec := doJSON(t, h, http.MethodGet, "/api/reports/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var sum summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.Equal(t, "125000", sum.TotalAssets.String())
	assert.Equal(t, "25000", sum.TotalLiabilities.String())
	assert.Equal(t, "28000", sum.NetIncome.String())
	assert.Equal(t, "35000", sum.CashBalance.String())
	assert.Len(t, sum.Recent, 5)
}

func TestExportImportRoundTrip(t *testing.T) {
	h := newTestServer(t).Router()

	rec := doJSON(t, h, http.MethodGet, "/api/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap model.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Len(t, snap.Accounts, 18)
	assert.Len(t, snap.Transactions, 5)
	assert.Len(t, snap.Users, 1)

	req := httptest.NewRequest(http.MethodPost, "/api/import", bytes.NewReader(rec.Body.Bytes()))
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	require.Equal(t, http.StatusNoContent, rec2.Code)

	rec3 := doJSON(t, h, http.MethodGet, "/api/accounts", nil)
	var accounts []model.Account
	require.NoError(t, json.Unmarshal(rec3.Body.Bytes(), &accounts))
	assert.Len(t, accounts, 18)
}
