// Package repl implements the interactive PromptShell terminal: a bubbletea
// program that translates natural language to shell commands, gates execution
// behind confirmation, and answers questions inline.
package repl

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"promptshell/internal/alias"
	"promptshell/internal/assistant"
	"promptshell/internal/config"
	"promptshell/internal/history"
	"promptshell/internal/llm"
	"promptshell/internal/logging"
	"promptshell/internal/shell"
)

// ErrConfigRequested is returned by Run when the user asked for the setup
// wizard with the --config builtin. The caller runs the wizard and restarts
// the shell.
var ErrConfigRequested = errors.New("setup wizard requested")

// Run starts the interactive shell using the configuration in dir. It blocks
// until the user quits.
func Run(dir string) error {
	cfg, err := config.Load(config.Path(dir))
	if err != nil {
		return err
	}

	// Client construction is quick for the HTTP providers; the Gemini SDK
	// does network setup, so bound it.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	client, err := llm.NewClientFromConfig(ctx, cfg)
	cancel()
	if err != nil {
		return err
	}

	store, err := history.Open(historyPath(dir))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	aliases := alias.NewManager(aliasPath(dir))
	if err := aliases.Reload(); err != nil {
		logging.BootError("alias load failed: %v", err)
	}
	stopWatch := make(chan struct{})
	go func() {
		if err := aliases.Watch(stopWatch); err != nil {
			logging.BootError("alias watch failed: %v", err)
		}
	}()
	defer close(stopWatch)

	execCfg := cfg.GetExecutionConfig()
	executor := shell.NewExecutor(
		shell.WithTimeout(execCfg.DefaultTimeout()),
		shell.WithMaxOutput(execCfg.MaxOutputBytes),
	)
	executor.SetAuditCallback(func(ev shell.AuditEvent) {
		logging.Exec("audit %s: %s", ev.Type, ev.Command.String())
	})

	asst := assistant.New(client, executor,
		assistant.WithAliases(aliases),
		assistant.WithHistory(store),
	)

	m, err := newModel(asst, executor, aliases, store, cfg)
	if err != nil {
		return err
	}

	logging.Boot("interactive shell starting")
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("run shell: %w", err)
	}

	if fm, ok := final.(model); ok && fm.configRequested {
		return ErrConfigRequested
	}
	logging.REPL("shell exited cleanly")
	return nil
}

func historyPath(dir string) string {
	return filepath.Join(dir, "history.db")
}

func aliasPath(dir string) string {
	return filepath.Join(dir, alias.FileName)
}
