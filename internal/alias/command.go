package alias

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
)

const usage = "Usage: alias [add|remove|list|import|export|help]"

const helpText = `Alias Management Commands:
  alias add <name> "<command>" - Add new alias
  alias remove <name> - Remove alias
  alias list [name] - List all aliases or show details
  alias import <file> - Import aliases from JSON file
  alias export <file> - Export aliases to JSON file
  alias help - Show this help`

// HandleCommand interprets an `alias ...` line from the REPL or CLI and
// returns the message to display.
func HandleCommand(input string, m *Manager) string {
	parts, err := shellquote.Split(input)
	if err != nil {
		return fmt.Sprintf("Error parsing alias command: %v", err)
	}
	if len(parts) < 2 {
		return usage
	}

	switch strings.ToLower(parts[1]) {
	case "add":
		if len(parts) < 4 {
			return usage
		}
		name := parts[2]
		cmd := strings.Join(parts[3:], " ")
		if err := m.Add(name, cmd, ""); err != nil {
			return err.Error()
		}
		return fmt.Sprintf("Alias %q added", name)

	case "remove":
		if len(parts) < 3 {
			return usage
		}
		if err := m.Remove(parts[2]); err != nil {
			return err.Error()
		}
		return fmt.Sprintf("Alias %q removed", parts[2])

	case "list":
		if len(parts) >= 3 {
			a, ok := m.Get(parts[2])
			if !ok {
				return fmt.Sprintf("alias %q not found", parts[2])
			}
			return fmt.Sprintf("%s: %s\nDescription: %s", parts[2], a.Command, a.Description)
		}
		names := m.Names()
		if len(names) == 0 {
			return "No aliases defined"
		}
		var b strings.Builder
		for i, name := range names {
			if i > 0 {
				b.WriteByte('\n')
			}
			a, _ := m.Get(name)
			fmt.Fprintf(&b, "%s: %s", name, a.Command)
		}
		return b.String()

	case "import":
		if len(parts) < 3 {
			return usage
		}
		n, err := m.Import(parts[2])
		if err != nil {
			return err.Error()
		}
		return fmt.Sprintf("Imported %d aliases", n)

	case "export":
		if len(parts) < 3 {
			return usage
		}
		if err := m.Export(parts[2]); err != nil {
			return err.Error()
		}
		return "Aliases exported successfully"

	case "help":
		return helpText
	}

	return "Invalid alias command: use 'alias help' for valid commands"
}
