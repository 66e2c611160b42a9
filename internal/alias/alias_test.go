package alias

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(filepath.Join(t.TempDir(), FileName))
}

func TestManagerAddGetRemove(t *testing.T) {
	m := newTestManager(t)

	require.NoError(t, m.Add("gs", "git status", "quick status"))

	a, ok := m.Get("gs")
	require.True(t, ok)
	assert.Equal(t, "git status", a.Command)
	assert.Equal(t, "quick status", a.Description)
	assert.False(t, a.CreatedAt.IsZero())

	t.Run("duplicate rejected", func(t *testing.T) {
		assert.Error(t, m.Add("gs", "git stash", ""))
	})

	t.Run("invalid name rejected", func(t *testing.T) {
		assert.Error(t, m.Add("bad name", "ls", ""))
		assert.Error(t, m.Add("1st", "ls", ""))
	})

	t.Run("dangerous command rejected", func(t *testing.T) {
		assert.Error(t, m.Add("nuke", "rm -rf /", ""))
	})

	require.NoError(t, m.Remove("gs"))
	_, ok = m.Get("gs")
	assert.False(t, ok)
	assert.Error(t, m.Remove("gs"))
}

func TestManagerPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	m1 := NewManager(path)
	require.NoError(t, m1.Add("ll", "ls -la", ""))

	m2 := NewManager(path)
	a, ok := m2.Get("ll")
	require.True(t, ok)
	assert.Equal(t, "ls -la", a.Command)
}

func TestExpand(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.Add("gco", "git checkout", ""))

	assert.Equal(t, "git checkout", m.Expand("gco"))
	assert.Equal(t, "git checkout main", m.Expand("gco main"))
	assert.Equal(t, "unknown input", m.Expand("unknown input"))
	assert.Equal(t, "", m.Expand(""))
}

func TestNames(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.Add("zz", "true", ""))
	require.NoError(t, m.Add("aa", "true", ""))

	assert.Equal(t, []string{"aa", "zz"}, m.Names())
}

func TestImportExport(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(filepath.Join(dir, FileName))
	require.NoError(t, m.Add("gs", "git status", ""))
	require.NoError(t, m.Add("gl", "git log --oneline", ""))

	exported := filepath.Join(dir, "exported.json")
	require.NoError(t, m.Export(exported))

	other := NewManager(filepath.Join(dir, "other", FileName))
	n, err := other.Import(exported)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	a, ok := other.Get("gl")
	require.True(t, ok)
	assert.Equal(t, "git log --oneline", a.Command)
}

func TestImportSkipsInvalidEntries(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{
		"aliases": {
			"ok": {"command": "ls"},
			"bad name": {"command": "ls"},
			"nuke": {"command": "rm -rf /"}
		}
	}`), 0o644))

	m := NewManager(filepath.Join(dir, FileName))
	n, err := m.Import(bad)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, ok := m.Get("ok")
	assert.True(t, ok)
	_, ok = m.Get("nuke")
	assert.False(t, ok)
}

func TestHandleCommand(t *testing.T) {
	m := newTestManager(t)

	assert.Contains(t, HandleCommand("alias add gs 'git status'", m), "added")
	assert.Contains(t, HandleCommand("alias list", m), "gs: git status")
	assert.Contains(t, HandleCommand("alias list gs", m), "git status")
	assert.Contains(t, HandleCommand("alias remove gs", m), "removed")
	assert.Equal(t, "No aliases defined", HandleCommand("alias list", m))
	assert.Contains(t, HandleCommand("alias", m), "Usage")
	assert.Contains(t, HandleCommand("alias help", m), "Alias Management")
	assert.Contains(t, HandleCommand("alias bogus", m), "Invalid alias command")
}
