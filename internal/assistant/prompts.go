package assistant

import (
	"fmt"
	"strings"

	"promptshell/internal/history"
	"promptshell/internal/safety"
	"promptshell/internal/sysinfo"
)

// installedCommandLimit bounds how many PATH binaries are listed in the
// interpreter's system prompt.
const installedCommandLimit = 75

// interpreterSystemPrompt builds the translation role definition. The host
// facts, installed commands, and per-OS examples anchor the model to commands
// that actually exist on this machine.
func interpreterSystemPrompt(info sysinfo.Info) string {
	var b strings.Builder

	b.WriteString("You are a command-line interpreter for a terminal assistant.\n")
	b.WriteString("Translate the user's natural language request into a single shell command.\n\n")

	b.WriteString("Rules:\n")
	b.WriteString("- Respond with ONLY the command, no explanation, no markdown, no code fences.\n")
	b.WriteString("- Use commands available on this system.\n")
	b.WriteString("- Prefer simple, portable invocations over clever one-liners.\n")
	fmt.Fprintf(&b, "- If the command is destructive (deletes data, overwrites files, kills processes), prefix it with %q.\n", safety.ConfirmPrefix)
	b.WriteString("- If the request cannot be done with a shell command, respond with: ERROR: <short reason>\n\n")

	fmt.Fprintf(&b, "System: %s\n", info.Summary())
	fmt.Fprintf(&b, "Shell: %s\n", info.Shell)
	fmt.Fprintf(&b, "Working user: %s@%s\n\n", info.Username, info.Hostname)

	if cmds := sysinfo.InstalledCommands(installedCommandLimit); len(cmds) > 0 {
		b.WriteString("Some installed commands: ")
		b.WriteString(strings.Join(cmds, ", "))
		b.WriteString("\n\n")
	}

	osName := sysinfo.CurrentOS()
	if examples := sysinfo.Examples(osName); len(examples) > 0 {
		fmt.Fprintf(&b, "Examples for %s:\n", osName)
		for _, ex := range examples {
			b.WriteString(ex)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// questionSystemPrompt builds the Q&A role definition.
func questionSystemPrompt(info sysinfo.Info) string {
	var b strings.Builder
	b.WriteString("You are a concise terminal-savvy assistant answering questions about the command line, ")
	b.WriteString("system administration, and software development.\n")
	b.WriteString("Answer in short markdown. Use fenced code blocks for commands.\n")
	fmt.Fprintf(&b, "The user is on: %s\n", info.Summary())
	return b.String()
}

// debuggerSystemPrompt builds the failure-analysis role definition.
func debuggerSystemPrompt(info sysinfo.Info) string {
	var b strings.Builder
	b.WriteString("You are a shell command debugger. A command just failed; explain why in one or two ")
	b.WriteString("sentences and, when a corrected command exists, put it on its own final line as:\n")
	b.WriteString(suggestionPrefix + " <command>\n")
	b.WriteString("Do not suggest a command when none would help.\n")
	fmt.Fprintf(&b, "The user is on: %s\n", info.Summary())
	return b.String()
}

// formatRecent renders recent command history for prompt context.
func formatRecent(entries []history.Entry) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Recent commands (oldest first):\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "- %q -> %s (exit %d)\n", e.NaturalLanguage, e.ShellCommand, e.ExitCode)
	}
	return b.String()
}

// formatGathered renders retriever output for prompt context.
func formatGathered(gathered map[string]string) string {
	if len(gathered) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Additional context:\n")
	for name, value := range gathered {
		fmt.Fprintf(&b, "[%s]\n%s\n", name, strings.TrimSpace(value))
	}
	return b.String()
}
