package repl

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptshell/internal/alias"
	"promptshell/internal/assistant"
	"promptshell/internal/history"
	"promptshell/internal/shell"
)

type stubClient struct{}

func (stubClient) Complete(context.Context, string) (string, error) { return "", nil }
func (stubClient) CompleteWithSystem(context.Context, string, string) (string, error) {
	return "", nil
}

func newTestModel(t *testing.T) model {
	t.Helper()
	dir := t.TempDir()

	store, err := history.Open(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	aliases := alias.NewManager(filepath.Join(dir, alias.FileName))
	executor := shell.NewExecutor()
	asst := assistant.New(stubClient{}, executor,
		assistant.WithAliases(aliases),
		assistant.WithHistory(store),
	)

	m, err := newModel(asst, executor, aliases, store, nil)
	require.NoError(t, err)
	return m
}

// drain runs a command tree to completion and returns every message it
// produces, unwrapping batches.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestDirectInputExpandsAliases(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test commands assume a unix shell")
	}

	m := newTestModel(t)
	require.NoError(t, m.aliases.Add("greet", "echo hello-from-alias", ""))

	next, cmd := m.onInput("!greet")
	require.NotNil(t, cmd)

	var executed *executedMsg
	for _, msg := range drain(cmd) {
		if em, ok := msg.(executedMsg); ok {
			executed = &em
		}
	}
	require.NotNil(t, executed, "direct input should reach execution")
	require.NoError(t, executed.err)
	assert.Equal(t, "echo hello-from-alias", executed.command)
	assert.Contains(t, executed.out.Result.Stdout, "hello-from-alias")

	// The transcript shows what the user typed, not the expansion.
	nm := next.(model)
	assert.Equal(t, "!greet", nm.transcript[len(nm.transcript)-1].content)
}

func TestInteractiveDoneRecordsOnlyRealExits(t *testing.T) {
	ctx := context.Background()

	t.Run("start failure records nothing", func(t *testing.T) {
		m := newTestModel(t)
		next, _ := m.Update(interactiveDoneMsg{
			input:   "edit the notes",
			command: "vim notes.txt",
			err:     errors.New(`exec: "vim": executable file not found in $PATH`),
		})
		nm := next.(model)

		n, err := nm.store.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)

		last := nm.transcript[len(nm.transcript)-1]
		assert.Equal(t, roleError, last.role)
		assert.NotContains(t, last.content, "exited with code")
	})

	t.Run("clean exit is recorded", func(t *testing.T) {
		m := newTestModel(t)
		next, _ := m.Update(interactiveDoneMsg{
			input:    "edit the notes",
			command:  "vim notes.txt",
			exitCode: 0,
		})
		nm := next.(model)

		entries, err := nm.store.LastN(ctx, 0)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "vim notes.txt", entries[0].ShellCommand)

		last := nm.transcript[len(nm.transcript)-1]
		assert.True(t, strings.HasSuffix(last.content, "exited with code 0"))
	})
}
