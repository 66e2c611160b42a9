package repl

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"promptshell/internal/assistant"
	"promptshell/internal/logging"
	"promptshell/internal/safety"
	"promptshell/internal/shell"
)

// Async results delivered back into Update.
type translatedMsg struct {
	input string
	tr    assistant.Translation
	err   error
}

type executedMsg struct {
	command string
	out     assistant.Outcome
	err     error
}

type answeredMsg struct {
	answer string
	err    error
}

type interactiveDoneMsg struct {
	input    string
	command  string
	exitCode int
	err      error
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := msg.Height - inputAreaHeight
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		if !m.isLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case translatedMsg:
		return m.onTranslated(msg)

	case executedMsg:
		return m.onExecuted(msg)

	case answeredMsg:
		m.isLoading = false
		if msg.err != nil {
			m.append(roleError, msg.err.Error())
		} else {
			m.appendMarkdown(msg.answer)
		}
		return m, nil

	case interactiveDoneMsg:
		m.isLoading = false
		if msg.err != nil {
			// The program never ran; there is no exit code to report.
			m.append(roleError, msg.err.Error())
			return m, nil
		}
		m.asst.Record(context.Background(), msg.input, msg.command, msg.exitCode)
		m.append(roleInfo, fmt.Sprintf("%s exited with code %d", msg.command, msg.exitCode))
		return m, nil

	case tea.KeyMsg:
		return m.onKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		if m.mode != modeNormal {
			m.mode = modeNormal
			m.pending = assistant.Translation{}
			m.append(roleInfo, "Cancelled.")
			m.input.SetValue("")
			return m, nil
		}
		return m, nil

	case tea.KeyTab:
		if m.mode == modeNormal {
			m.input.SetValue(completePath(m.input.Value()))
			m.input.CursorEnd()
		}
		return m, nil

	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyEnter:
		if m.isLoading {
			return m, nil
		}
		line := strings.TrimSpace(m.input.Value())
		m.input.SetValue("")
		switch m.mode {
		case modeConfirmRun:
			return m.onConfirmRun(line)
		case modeConfirmDestructive:
			return m.onConfirmDestructive(line)
		default:
			return m.onInput(line)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// onInput dispatches a normal-mode line: builtins, direct commands,
// questions, or translation.
func (m model) onInput(line string) (tea.Model, tea.Cmd) {
	if line == "" {
		return m, nil
	}
	logging.REPL("input: %q", line)
	m.append(roleUser, line)

	if handled, next, cmd := m.handleBuiltin(line); handled {
		return next, cmd
	}

	// Direct command: aliases expand, but no translation or confirmation.
	if direct, ok := strings.CutPrefix(line, "!"); ok {
		command := strings.TrimSpace(direct)
		if m.aliases != nil {
			command = m.aliases.Expand(command)
		}
		return m.startExecution(line, command)
	}

	// Question: answer instead of translating.
	if q, ok := questionInput(line); ok {
		m.isLoading = true
		return m, tea.Batch(m.spinner.Tick, m.answerCmd(q))
	}

	m.isLoading = true
	return m, tea.Batch(m.spinner.Tick, m.translateCmd(line))
}

func (m model) onTranslated(msg translatedMsg) (tea.Model, tea.Cmd) {
	m.isLoading = false
	if msg.err != nil {
		if msg.tr.Reason != "" {
			m.append(roleError, fmt.Sprintf("%v: %s", msg.err, msg.tr.Reason))
		} else {
			m.append(roleError, msg.err.Error())
		}
		return m, nil
	}

	m.pending = msg.tr
	m.pendingNL = msg.input
	if msg.tr.Destructive {
		m.mode = modeConfirmDestructive
		m.append(roleAssistant, m.styles.command.Render(msg.tr.Command))
		m.append(roleInfo, "This command looks destructive. Re-type it exactly to run it, or press Esc to cancel.")
	} else {
		m.mode = modeConfirmRun
		m.append(roleAssistant, m.styles.command.Render(msg.tr.Command))
		m.append(roleInfo, "Run it? [y/N]")
	}
	return m, nil
}

func (m model) onConfirmRun(line string) (tea.Model, tea.Cmd) {
	m.mode = modeNormal
	answer := strings.ToLower(line)
	if answer != "y" && answer != "yes" {
		m.append(roleInfo, "Skipped.")
		m.pending = assistant.Translation{}
		return m, nil
	}
	return m.startExecution(m.pendingNL, m.pending.Command)
}

func (m model) onConfirmDestructive(line string) (tea.Model, tea.Cmd) {
	m.mode = modeNormal
	if !safety.VerifyRetyped(m.pending.Command, line) {
		m.append(roleError, "Confirmation did not match. Command not executed.")
		m.pending = assistant.Translation{}
		return m, nil
	}
	return m.startExecution(m.pendingNL, m.pending.Command)
}

// startExecution runs a confirmed command. Interactive programs suspend the
// TUI and attach to the real terminal; everything else is captured.
func (m model) startExecution(naturalLanguage, command string) (tea.Model, tea.Cmd) {
	m.pending = assistant.Translation{}

	if err := safety.CheckAllowed(command); err != nil {
		m.append(roleError, err.Error())
		return m, nil
	}

	parsed, err := shell.Parse(command)
	if err != nil {
		m.append(roleError, err.Error())
		return m, nil
	}

	if shell.IsInteractive(parsed) {
		c := exec.Command(parsed.Binary, parsed.Arguments...)
		c.Dir = m.cwd
		return m, tea.ExecProcess(c, func(err error) tea.Msg {
			code := 0
			if exitErr, ok := err.(*exec.ExitError); ok {
				code = exitErr.ExitCode()
				err = nil
			}
			return interactiveDoneMsg{input: naturalLanguage, command: command, exitCode: code, err: err}
		})
	}

	m.isLoading = true
	return m, tea.Batch(m.spinner.Tick, m.executeCmd(naturalLanguage, command))
}

func (m model) onExecuted(msg executedMsg) (tea.Model, tea.Cmd) {
	m.isLoading = false
	if msg.err != nil {
		m.append(roleError, msg.err.Error())
		return m, nil
	}

	res := msg.out.Result
	if out := strings.TrimRight(res.Stdout, "\n"); out != "" {
		m.append(roleOutput, out)
	}
	if errOut := strings.TrimRight(res.Stderr, "\n"); errOut != "" {
		m.append(roleError, errOut)
	}
	if res.Truncated {
		m.append(roleInfo, fmt.Sprintf("output truncated (%d bytes dropped)", res.TruncatedBytes))
	}
	if res.Killed {
		m.append(roleError, "command killed: "+res.KillReason)
	}
	if res.ExitCode != 0 && !res.Killed {
		m.append(roleInfo, fmt.Sprintf("exit code %d", res.ExitCode))
	}
	if msg.out.Diagnosis != "" {
		m.appendMarkdown(msg.out.Diagnosis)
	}
	if msg.out.Suggestion != "" {
		m.append(roleInfo, "Suggested fix (press Enter on it or edit): "+msg.out.Suggestion)
		m.input.SetValue("!" + msg.out.Suggestion)
		m.input.CursorEnd()
	}
	return m, nil
}

// Async command constructors. Each runs on its own goroutine under bubbletea.

func (m model) translateCmd(input string) tea.Cmd {
	asst := m.asst
	return func() tea.Msg {
		tr, err := asst.Translate(context.Background(), input)
		return translatedMsg{input: input, tr: tr, err: err}
	}
}

func (m model) executeCmd(naturalLanguage, command string) tea.Cmd {
	asst := m.asst
	return func() tea.Msg {
		out, err := asst.Execute(context.Background(), naturalLanguage, command)
		return executedMsg{command: command, out: out, err: err}
	}
}

func (m model) answerCmd(question string) tea.Cmd {
	asst := m.asst
	return func() tea.Msg {
		answer, err := asst.Answer(context.Background(), question)
		return answeredMsg{answer: answer, err: err}
	}
}

// questionInput reports whether the line is a question (leading or trailing
// ?) and returns it with the leading marker stripped.
func questionInput(line string) (string, bool) {
	if q, ok := strings.CutPrefix(line, "?"); ok {
		return strings.TrimSpace(q), true
	}
	if strings.HasSuffix(line, "?") {
		return line, true
	}
	return line, false
}

// changeDir implements the cd builtin. An empty target goes home.
func (m *model) changeDir(target string) {
	if target == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			m.append(roleError, err.Error())
			return
		}
		target = home
	}
	if err := os.Chdir(target); err != nil {
		m.append(roleError, err.Error())
		return
	}
	if cwd, err := os.Getwd(); err == nil {
		m.cwd = cwd
	}
}
