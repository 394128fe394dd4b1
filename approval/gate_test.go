package approval

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	dir := t.TempDir()
	return NewLedger(filepath.Join(dir, "manifest.csv"), filepath.Join(dir, "manifest.json"))
}

func TestDecideApprovedByEntryID(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.Write([]Row{
		{ID: "Test Player__start-sit__5", Approved: "true", Reviewer: "alice"},
	}))
	gate := NewGate(l)
	out := t.TempDir()

	rec, err := gate.Decide("Test Player__start-sit__5", "Test Player", "start-sit", 5, out)
	require.NoError(t, err)
	assert.True(t, rec.Approved)
	assert.Equal(t, "alice", rec.Approver["reviewer"])

	// Approved decisions write no audit line.
	_, err = os.Stat(filepath.Join(out, "audit", "skipped.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestDecideApprovedByTripleMatch(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.Write([]Row{
		{ID: "other", Type: "waiver-wire", Player: "P One", Week: "3", Approved: "YES"},
	}))
	gate := NewGate(l)

	rec, err := gate.Decide("P One__waiver-wire__3", "P One", "waiver-wire", 3, t.TempDir())
	require.NoError(t, err)
	assert.True(t, rec.Approved)
}

func TestDecideFirstMatchWinsInLedgerOrder(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.Write([]Row{
		{ID: "X__y__1", Approved: "false", Reviewer: "first"},
		{ID: "X__y__1", Approved: "true", Reviewer: "second"},
	}))
	gate := NewGate(l)

	rec, err := gate.Decide("X__y__1", "X", "y", 1, t.TempDir())
	require.NoError(t, err)
	assert.False(t, rec.Approved)
	assert.Equal(t, "first", rec.Approver["reviewer"])
}

func TestDecideNoMatchWritesStructuredSkip(t *testing.T) {
	gate := NewGate(newTestLedger(t))
	out := t.TempDir()

	rec, err := gate.Decide("X__y__1", "X", "y", 1, out)
	require.NoError(t, err)
	assert.False(t, rec.Approved)

	f, err := os.Open(filepath.Join(out, "audit", "skipped.log"))
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var m map[string]string
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		lines = append(lines, m)
	}
	require.Len(t, lines, 1)
	assert.Equal(t, "X__y__1", lines[0]["entry_id"])
	assert.Equal(t, "skipped", lines[0]["action"])
	assert.Equal(t, "none", lines[0]["reviewer"])
	assert.Equal(t, "not in manifest", lines[0]["note"])
	assert.NotEmpty(t, lines[0]["ts"])
}

func TestAuditLogIsAppendOnly(t *testing.T) {
	gate := NewGate(newTestLedger(t))
	out := t.TempDir()

	_, err := gate.Decide("A__b__1", "A", "b", 1, out)
	require.NoError(t, err)
	_, err = gate.Decide("C__d__1", "C", "d", 1, out)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "audit", "skipped.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "A__b__1")
	assert.Contains(t, string(data), "C__d__1")
}

func TestLedgerCSVPrecedesJSON(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, os.WriteFile(l.CSVPath,
		[]byte("id,type,player,week,approved,reviewer,note,updated_at\ncsv-id,,,,true,,,\n"), 0644))
	require.NoError(t, os.WriteFile(l.JSONPath, []byte(`[{"id":"json-id","approved":"true"}]`), 0644))

	rows, err := l.Read()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "csv-id", rows[0].ID)
}

func TestLedgerSetCreatesMinimalRow(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.Set("N__k__2", true, "cli", "looks good"))

	rows, err := l.Read()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "N__k__2", rows[0].ID)
	assert.Equal(t, "true", rows[0].Approved)
	assert.Equal(t, "cli", rows[0].Reviewer)
	assert.NotEmpty(t, rows[0].UpdatedAt)

	// Updating flips in place without duplicating.
	require.NoError(t, l.Set("N__k__2", false, "cli", "changed mind"))
	rows, err = l.Read()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "false", rows[0].Approved)
}
