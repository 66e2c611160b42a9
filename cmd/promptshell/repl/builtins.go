package repl

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"promptshell/internal/alias"
	"promptshell/internal/version"
)

const welcomeText = `Welcome to PromptShell. Type what you want done in plain English.
Prefix with ! to run a command directly, end with ? to ask a question.
Type --help for the full command list.`

var helpText = version.Banner() + `

Input:
  <plain english>      translate to a shell command (confirmed before running)
  !<command>           run a command verbatim, no translation
  <question>?  or  ?<question>
                       ask a question instead of running anything

Builtins:
  cd [dir]             change directory (empty goes home)
  clear, cls           clear the screen
  history [n]          show the last n commands (default 20)
  history clear        delete the command history
  alias ...            manage aliases (alias help for details)
  --config             run the setup wizard
  --help, help         this text
  quit, exit           leave PromptShell

Keys:
  tab                  complete a file path
  pgup/pgdn            scroll the transcript
  esc                  cancel a pending confirmation
  ctrl+c               quit`

// handleBuiltin processes REPL-local commands. It reports whether the line
// was consumed.
func (m model) handleBuiltin(line string) (bool, tea.Model, tea.Cmd) {
	fields := strings.Fields(line)
	word := strings.ToLower(fields[0])

	switch word {
	case "quit", "exit":
		return true, m, tea.Quit

	case "clear", "cls":
		m.transcript = nil
		m.refreshViewport()
		return true, m, nil

	case "--help", "help":
		m.append(roleInfo, helpText)
		return true, m, nil

	case "--config":
		m.configRequested = true
		return true, m, tea.Quit

	case "cd":
		target := ""
		if len(fields) > 1 {
			target = strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
			target = alias.ExpandHome(target)
		}
		m.changeDir(target)
		return true, m, nil

	case "alias":
		m.append(roleInfo, alias.HandleCommand(line, m.aliases))
		return true, m, nil

	case "history":
		m.showHistory(fields[1:])
		return true, m, nil
	}

	return false, m, nil
}

// showHistory implements the history builtin: list by default, clear on
// request.
func (m *model) showHistory(args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if len(args) > 0 && strings.EqualFold(args[0], "clear") {
		if err := m.store.Clear(ctx); err != nil {
			m.append(roleError, err.Error())
			return
		}
		m.append(roleInfo, "History cleared.")
		return
	}

	limit := 20
	if len(args) > 0 {
		if _, err := fmt.Sscanf(args[0], "%d", &limit); err != nil || limit <= 0 {
			m.append(roleError, "usage: history [n] | history clear")
			return
		}
	}

	entries, err := m.store.LastN(ctx, limit)
	if err != nil {
		m.append(roleError, err.Error())
		return
	}
	if len(entries) == 0 {
		m.append(roleInfo, "No history yet.")
		return
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s  %q -> %s (exit %d)\n",
			e.CreatedAt.Local().Format("15:04:05"), e.NaturalLanguage, e.ShellCommand, e.ExitCode)
	}
	m.append(roleInfo, strings.TrimRight(b.String(), "\n"))
}

func userHome() (string, error) {
	return os.UserHomeDir()
}
