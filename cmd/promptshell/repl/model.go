package repl

import (
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"promptshell/internal/alias"
	"promptshell/internal/assistant"
	"promptshell/internal/config"
	"promptshell/internal/history"
	"promptshell/internal/shell"
)

// inputMode is the REPL input state machine. Confirmation states capture the
// next line instead of treating it as a new request.
type inputMode int

const (
	modeNormal             inputMode = iota // translate / dispatch input
	modeConfirmRun                          // y/N for a translated command
	modeConfirmDestructive                  // re-type the command exactly
)

// message roles for the transcript.
const (
	roleUser      = "user"
	roleAssistant = "assistant"
	roleOutput    = "output"
	roleError     = "error"
	roleInfo      = "info"
)

// message is one transcript line group.
type message struct {
	role     string
	content  string
	markdown bool
}

// model is the bubbletea model for the interactive shell.
type model struct {
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	styles   styles
	renderer *glamour.TermRenderer

	asst     *assistant.Assistant
	executor *shell.Executor
	aliases  *alias.Manager
	store    *history.Store

	mode      inputMode
	pending   assistant.Translation
	pendingNL string // natural language behind the pending command

	transcript []message
	cwd        string
	isLoading  bool

	width  int
	height int
	ready  bool

	configRequested bool
}

func newModel(asst *assistant.Assistant, executor *shell.Executor, aliases *alias.Manager, store *history.Store, cfg *config.Config) (model, error) {
	ti := textinput.New()
	ti.Placeholder = "describe what you want, ! for direct commands, ? for questions"
	ti.Prompt = "❯ "
	ti.CharLimit = 0
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	st := newStyles(themeName(cfg))
	sp.Style = st.spinner

	glamourStyle := "dark"
	if themeName(cfg) == "light" {
		glamourStyle = "light"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(glamourStyle),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return model{}, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "?"
	}

	m := model{
		input:    ti,
		spinner:  sp,
		styles:   st,
		renderer: renderer,
		asst:     asst,
		executor: executor,
		aliases:  aliases,
		store:    store,
		cwd:      cwd,
	}
	m.transcript = append(m.transcript, message{role: roleInfo, content: welcomeText})
	return m, nil
}

func themeName(cfg *config.Config) string {
	if cfg != nil && cfg.Theme == "light" {
		return "light"
	}
	return "dark"
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return textinput.Blink
}
