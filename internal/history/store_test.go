package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAppendAndLastN(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e1, err := s.Append(ctx, "list files", "ls -la", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, e1.ID)
	assert.False(t, e1.CreatedAt.IsZero())

	_, err = s.Append(ctx, "disk usage", "df -h", 0)
	require.NoError(t, err)
	_, err = s.Append(ctx, "bad command", "lss", 127)
	require.NoError(t, err)

	t.Run("oldest first", func(t *testing.T) {
		entries, err := s.LastN(ctx, 2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "df -h", entries[0].ShellCommand)
		assert.Equal(t, "lss", entries[1].ShellCommand)
		assert.Equal(t, 127, entries[1].ExitCode)
	})

	t.Run("non-positive n returns everything", func(t *testing.T) {
		entries, err := s.LastN(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, entries, 3)
		assert.Equal(t, "ls -la", entries[0].ShellCommand)
	})
}

func TestPruneToMaxEntries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < MaxEntries+20; i++ {
		_, err := s.Append(ctx, fmt.Sprintf("request %d", i), fmt.Sprintf("echo %d", i), 0)
		require.NoError(t, err)
	}

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, MaxEntries, n)

	// Oldest entries are the ones pruned.
	entries, err := s.LastN(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, MaxEntries)
	assert.Equal(t, "echo 20", entries[0].ShellCommand)
	assert.Equal(t, fmt.Sprintf("echo %d", MaxEntries+19), entries[len(entries)-1].ShellCommand)
}

func TestMergeIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pulled := Entry{
		ID:              "cloud-1",
		CreatedAt:       time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		NaturalLanguage: "disk usage",
		ShellCommand:    "df -h",
		ExitCode:        0,
	}

	inserted, err := s.Merge(ctx, pulled)
	require.NoError(t, err)
	assert.True(t, inserted)

	t.Run("second merge is a no-op", func(t *testing.T) {
		inserted, err := s.Merge(ctx, pulled)
		require.NoError(t, err)
		assert.False(t, inserted)

		n, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("id and timestamp survive the round trip", func(t *testing.T) {
		entries, err := s.LastN(ctx, 0)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, pulled.ID, entries[0].ID)
		assert.True(t, entries[0].CreatedAt.Equal(pulled.CreatedAt))
	})
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Append(ctx, "x", "echo x", 0)
	require.NoError(t, err)

	require.NoError(t, s.Clear(ctx))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}
