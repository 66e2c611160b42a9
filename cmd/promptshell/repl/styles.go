package repl

import "github.com/charmbracelet/lipgloss"

// styles groups the lipgloss styles used by the shell.
type styles struct {
	prompt  lipgloss.Style
	cwd     lipgloss.Style
	user    lipgloss.Style
	command lipgloss.Style
	output  lipgloss.Style
	errText lipgloss.Style
	info    lipgloss.Style
	warn    lipgloss.Style
	spinner lipgloss.Style
	footer  lipgloss.Style
}

func newStyles(theme string) styles {
	primary := lipgloss.Color("99")
	accent := lipgloss.Color("205")
	muted := lipgloss.Color("240")
	if theme == "light" {
		muted = lipgloss.Color("245")
	}

	return styles{
		prompt:  lipgloss.NewStyle().Foreground(primary).Bold(true),
		cwd:     lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		user:    lipgloss.NewStyle().Foreground(primary).Bold(true),
		command: lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true),
		output:  lipgloss.NewStyle(),
		errText: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		info:    lipgloss.NewStyle().Foreground(muted),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		spinner: lipgloss.NewStyle().Foreground(accent),
		footer:  lipgloss.NewStyle().Foreground(muted),
	}
}
