package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(action string, success bool) Entry {
	return Entry{
		Time:    time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		Action:  action,
		Target:  "cf-1",
		Success: success,
	}
}

func TestFileAuditor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "audit.jsonl")
	a, err := NewFileAuditor(path)
	require.NoError(t, err)

	require.NoError(t, a.Log(entry("kick", true)))
	require.NoError(t, a.Log(entry("ban", false)))
	require.NoError(t, a.Log(entry("whitelist.add", true)))

	recent, err := a.GetRecent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "ban", recent[0].Action)
	assert.Equal(t, "whitelist.add", recent[1].Action)

	failed, err := a.Find(func(e Entry) bool { return !e.Success }, 10)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "ban", failed[0].Action)

	require.NoError(t, a.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// reopening appends
	a, err = NewFileAuditor(path)
	require.NoError(t, err)
	require.NoError(t, a.Log(entry("unban", true)))
	require.NoError(t, a.Close())

	all, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	entries, err := ReadFile(filepath.Join(dir, "missing.jsonl"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	path := filepath.Join(dir, "audit.jsonl")
	content := `{"action":"kick","success":true}
not json
{"action":"ban","success":false,"error":"forbidden"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	entries, err = ReadFile(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "forbidden", entries[1].Error)
}

func TestInMemoryAuditor(t *testing.T) {
	a := NewInMemoryAuditor()
	for _, action := range []string{"a", "b", "c"} {
		require.NoError(t, a.Log(entry(action, true)))
	}

	recent, err := a.GetRecent(10)
	require.NoError(t, err)
	assert.Len(t, recent, 3)

	recent, err = a.GetRecent(1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "c", recent[0].Action)

	// returned entries are copies
	recent[0].Action = "changed"
	again, _ := a.GetRecent(1)
	assert.Equal(t, "c", again[0].Action)
}

func TestFingerprint(t *testing.T) {
	fp := Fingerprint("secret-token")
	assert.Len(t, fp, 16)
	assert.NotContains(t, fp, "secret")
	assert.Equal(t, fp, Fingerprint("secret-token"))
	assert.NotEqual(t, fp, Fingerprint("other-token"))
	assert.Equal(t, "(n/a)", Fingerprint(""))
}
