package repl

import (
	"strings"
)

// inputAreaHeight is the rows reserved below the transcript viewport for the
// cwd line, the input line, and the footer.
const inputAreaHeight = 4

// View implements tea.Model.
func (m model) View() string {
	if !m.ready {
		return "Starting PromptShell..."
	}

	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	b.WriteString(m.styles.cwd.Render(shortenPath(m.cwd)))
	b.WriteString("\n")

	if m.isLoading {
		b.WriteString(m.spinner.View())
		b.WriteString(" thinking...")
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n")

	b.WriteString(m.styles.footer.Render(m.footerText()))
	return b.String()
}

func (m model) footerText() string {
	switch m.mode {
	case modeConfirmRun:
		return "y: run  anything else: skip  esc: cancel"
	case modeConfirmDestructive:
		return "re-type the command to run it  esc: cancel"
	default:
		return "enter: go  tab: complete path  ctrl+c: quit  --help for commands"
	}
}

// append adds a transcript message and scrolls to the bottom.
func (m *model) append(role, content string) {
	m.transcript = append(m.transcript, message{role: role, content: content})
	m.refreshViewport()
}

// appendMarkdown adds an assistant message rendered through glamour.
func (m *model) appendMarkdown(content string) {
	m.transcript = append(m.transcript, message{role: roleAssistant, content: content, markdown: true})
	m.refreshViewport()
}

func (m *model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m model) renderTranscript() string {
	var b strings.Builder
	for _, msg := range m.transcript {
		switch msg.role {
		case roleUser:
			b.WriteString(m.styles.user.Render("you ") + msg.content)
		case roleAssistant:
			if msg.markdown {
				b.WriteString(m.safeRenderMarkdown(msg.content))
			} else {
				b.WriteString(msg.content)
			}
		case roleOutput:
			b.WriteString(m.styles.output.Render(msg.content))
		case roleError:
			b.WriteString(m.styles.errText.Render(msg.content))
		case roleInfo:
			b.WriteString(m.styles.info.Render(msg.content))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// safeRenderMarkdown renders markdown, falling back to plain text when the
// renderer panics or errors on odd model output.
func (m model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		if rendered, err := m.renderer.Render(content); err == nil {
			return strings.TrimRight(rendered, "\n")
		}
	}
	return content
}

// shortenPath abbreviates the home directory prefix to ~.
func shortenPath(path string) string {
	home, err := userHome()
	if err == nil && home != "" && strings.HasPrefix(path, home) {
		return "~" + strings.TrimPrefix(path, home)
	}
	return path
}
