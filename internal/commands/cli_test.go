package commands_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibos-dev/aibos/internal/auditlog"
)

func TestAccountList(t *testing.T) {
	dir := initLedger(t)

	out, err := runAibos(t, "account", "list", "--dir", dir)
	require.NoError(t, err, out)

	assert.Contains(t, out, "Cash")
	assert.Contains(t, out, "1000")
	assert.Contains(t, out, "Owner's Equity")
	assert.Contains(t, out, "35000.00")
}

func TestAccountAdd(t *testing.T) {
	dir := initLedger(t)

	out, err := runAibos(t, "account", "add", "--dir", dir,
		"--number", "1400", "--name", "Prepaid Rent", "--type", "asset")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Added account 19: 1400 Prepaid Rent")

	out, err = runAibos(t, "account", "list", "--dir", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Prepaid Rent")
}

func TestAccountAdd_BadType(t *testing.T) {
	dir := initLedger(t)

	out, err := runAibos(t, "account", "add", "--dir", dir,
		"--number", "9999", "--name", "Suspense", "--type", "suspense")
	require.Error(t, err)
	assert.Contains(t, out, "unknown account type")
}

func TestAccountDeactivate(t *testing.T) {
	dir := initLedger(t)

	out, err := runAibos(t, "account", "deactivate", "18", "--dir", dir)
	require.NoError(t, err, out)

	out, err = runAibos(t, "account", "list", "--dir", dir)
	require.NoError(t, err, out)
	assert.NotContains(t, out, "Insurance")

	out, err = runAibos(t, "account", "list", "--all", "--dir", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Insurance")
}

func TestTxPost(t *testing.T) {
	dir := initLedger(t)

	out, err := runAibos(t, "tx", "post", "--dir", dir,
		"--date", "2024-01-20", "--description", "Cash sale",
		"--debit", "1", "--credit", "10", "--amount", "100")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Posted 000006: Cash sale (100.00)")

	// Both balances move per the normal-balance rule.
	out, err = runAibos(t, "account", "list", "--dir", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "35100.00")
	assert.Contains(t, out, "50100.00")

	out, err = runAibos(t, "report", "net-income", "--dir", dir)
	require.NoError(t, err, out)
	assert.Equal(t, "28100.00", strings.TrimSpace(out))
}

func TestTxPost_UnknownAccount(t *testing.T) {
	dir := initLedger(t)

	out, err := runAibos(t, "tx", "post", "--dir", dir,
		"--description", "bad", "--debit", "999", "--credit", "10", "--amount", "100")
	require.Error(t, err)
	assert.Contains(t, out, "debitAccountId")
}

func TestTxPost_WritesAuditLog(t *testing.T) {
	dir := initLedger(t)

	out, err := runAibos(t, "tx", "post", "--dir", dir,
		"--description", "Cash sale", "--debit", "1", "--credit", "10", "--amount", "100")
	require.NoError(t, err, out)

	entries, err := auditlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "post", entries[0].Action)
	assert.Equal(t, "000006", entries[0].Ref)
}

func TestTxList(t *testing.T) {
	dir := initLedger(t)

	out, err := runAibos(t, "tx", "list", "--dir", dir)
	require.NoError(t, err, out)
	for _, ref := range []string{"000001", "000002", "000003", "000004", "000005"} {
		assert.Contains(t, out, ref)
	}
	assert.Contains(t, out, "Monthly rent payment")
}

func TestTxList_DateRange(t *testing.T) {
	dir := initLedger(t)

	out, err := runAibos(t, "tx", "list", "--dir", dir, "--start", "2024-01-13", "--end", "2024-01-14")
	require.NoError(t, err, out)
	assert.Contains(t, out, "000002")
	assert.Contains(t, out, "000003")
	assert.NotContains(t, out, "000001")
	assert.NotContains(t, out, "000005")
}

func TestTxImport_Statement(t *testing.T) {
	dir := initLedger(t)

	csv := "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n" +
		"DEBIT,01/03/2025,GITHUB *PRO SUBSCRIPTION,-4.00,ACH_DEBIT,996.00,\n" +
		"CREDIT,01/10/2025,ACME CONSULTING INVOICE 1042,3500.00,ACH_CREDIT,4496.00,\n"
	path := filepath.Join(t.TempDir(), "chase.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	out, err := runAibos(t, "tx", "import", path, "--dir", dir, "--format", "chase")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Imported 2 postings")

	out, err = runAibos(t, "tx", "list", "--dir", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "000006")
	assert.Contains(t, out, "000007")
	assert.Contains(t, out, "GITHUB *PRO SUBSCRIPTION")
}

func TestReportTrialBalance(t *testing.T) {
	dir := initLedger(t)

	out, err := runAibos(t, "report", "trial-balance", "--dir", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Cash")
	assert.Contains(t, out, "35000.00")
	assert.Contains(t, out, "Sales Revenue")
	assert.Contains(t, out, "50000.00")
}

func TestReportSummary(t *testing.T) {
	dir := initLedger(t)

	out, err := runAibos(t, "report", "summary", "--dir", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Total assets:      125000.00")
	assert.Contains(t, out, "Total liabilities: 25000.00")
	assert.Contains(t, out, "Net income:        28000.00")
	assert.Contains(t, out, "Cash balance:      35000.00")
	assert.Contains(t, out, "Recent transactions:")
}

func TestExportImport_RoundTrip(t *testing.T) {
	dir := initLedger(t)
	snapPath := filepath.Join(t.TempDir(), "backup.json")

	out, err := runAibos(t, "export", snapPath, "--dir", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Exported 18 accounts, 5 transactions, 1 users")

	// Mutate the ledger, then restore the snapshot.
	out, err = runAibos(t, "tx", "post", "--dir", dir,
		"--description", "Cash sale", "--debit", "1", "--credit", "10", "--amount", "100")
	require.NoError(t, err, out)

	out, err = runAibos(t, "import", snapPath, "--dir", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Imported 18 accounts, 5 transactions, 1 users")

	out, err = runAibos(t, "report", "net-income", "--dir", dir)
	require.NoError(t, err, out)
	assert.Equal(t, "28000.00", strings.TrimSpace(out))
}

func TestExport_Stdout(t *testing.T) {
	dir := initLedger(t)

	out, err := runAibos(t, "export", "--dir", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, `"accountNumber": "1000"`)
	assert.Contains(t, out, `"referenceNumber": "000001"`)
	assert.Contains(t, out, `"exportDate"`)
}
