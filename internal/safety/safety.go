// Package safety guards command execution: a conservative blocklist of
// destructive patterns and the CONFIRM: gating protocol used by the
// interpreter role for risky commands.
package safety

import (
	"errors"
	"regexp"
	"strings"
)

// ConfirmPrefix marks interpreter output that needs destructive-command
// confirmation before execution.
const ConfirmPrefix = "CONFIRM:"

var dangerousPatterns = []*regexp.Regexp{
	// Destructive filesystem ops
	regexp.MustCompile(`(?i)\brm\s+-rf\s+/\s*$`),
	regexp.MustCompile(`(?i)\brm\s+-rf\s+/[^ ]*`),
	regexp.MustCompile(`(?i)\bmkfs\b`),
	regexp.MustCompile(`(?i)\bdd\s+if=/dev/(random|urandom|zero)`),
	regexp.MustCompile(`(?i)\bwipefs\b`),
	// Recursive permission blowouts on root
	regexp.MustCompile(`(?i)\bchmod\s+-R\s+777\s+/\s*$`),
	// fork bombs (e.g. :(){ :|:& };:)
	regexp.MustCompile(`:\(\)\s*\{`),
}

// ErrBlocked is wrapped by CheckAllowed for blocklist rejections.
var ErrBlocked = errors.New("command appears destructive or unsafe")

// CheckAllowed returns nil if the command is allowed to run, or an error
// describing why it's blocked. Checking is conservative and not exhaustive.
func CheckAllowed(command string) error {
	cmd := strings.TrimSpace(command)
	if cmd == "" {
		return errors.New("empty command")
	}
	for _, re := range dangerousPatterns {
		if re.MatchString(cmd) {
			return ErrBlocked
		}
	}
	return nil
}

// NeedsConfirmation reports whether the interpreter flagged the command as
// destructive, and returns the command with the prefix stripped.
func NeedsConfirmation(command string) (string, bool) {
	trimmed := strings.TrimSpace(command)
	if !strings.HasPrefix(trimmed, ConfirmPrefix) {
		return command, false
	}
	return strings.TrimSpace(strings.TrimPrefix(trimmed, ConfirmPrefix)), true
}

// VerifyRetyped checks the re-typed confirmation against the original
// command. The match must be exact after trimming surrounding whitespace.
func VerifyRetyped(command, retyped string) bool {
	return strings.TrimSpace(retyped) == strings.TrimSpace(command)
}
