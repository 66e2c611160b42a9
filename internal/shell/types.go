// Package shell is PromptShell's execution layer. It runs translated or
// direct commands on the host, captures bounded output, and feeds execution
// results back to the assistant for error diagnosis.
package shell

import (
	"io"
	"strings"
	"time"
)

// Command is the input specification for an execution.
type Command struct {
	// Binary is the executable to run.
	Binary string `json:"binary"`

	// Arguments are the command-line arguments.
	Arguments []string `json:"arguments,omitempty"`

	// WorkingDirectory to execute in; empty means the process cwd.
	WorkingDirectory string `json:"working_directory,omitempty"`

	// Environment variables (KEY=VALUE), merged over the parent environment.
	Environment []string `json:"environment,omitempty"`

	// Stdin provides input to the command's standard input.
	Stdin string `json:"stdin,omitempty"`

	// Timeout bounds execution; zero means the executor default.
	Timeout time.Duration `json:"-"`

	// MaxOutputBytes caps captured stdout/stderr per stream; zero means the
	// executor default.
	MaxOutputBytes int64 `json:"max_output_bytes,omitempty"`

	// SessionID links this execution to a REPL session for audit.
	SessionID string `json:"session_id,omitempty"`
}

// String renders the full command for display and logging.
func (c Command) String() string {
	if len(c.Arguments) == 0 {
		return c.Binary
	}
	return c.Binary + " " + strings.Join(c.Arguments, " ")
}

// Result describes a completed (or killed) execution.
type Result struct {
	ExitCode       int           `json:"exit_code"`
	Stdout         string        `json:"stdout"`
	Stderr         string        `json:"stderr"`
	StartedAt      time.Time     `json:"started_at"`
	Duration       time.Duration `json:"duration"`
	Truncated      bool          `json:"truncated,omitempty"`
	TruncatedBytes int64         `json:"truncated_bytes,omitempty"`
	Killed         bool          `json:"killed,omitempty"`
	KillReason     string        `json:"kill_reason,omitempty"`
}

// AuditEventType classifies executor audit events.
type AuditEventType string

const (
	AuditEventStart    AuditEventType = "start"
	AuditEventComplete AuditEventType = "complete"
	AuditEventKilled   AuditEventType = "killed"
	AuditEventError    AuditEventType = "error"
)

// AuditEvent is emitted around each execution when a callback is registered.
type AuditEvent struct {
	Type      AuditEventType
	Timestamp time.Time
	Command   Command
	Result    *Result
	SessionID string
}

// limitedWriter caps how many bytes reach the underlying writer, counting
// what it discards.
type limitedWriter struct {
	w         io.Writer
	max       int64
	written   int64
	truncated bool
	discarded int64
}

func (l *limitedWriter) Write(p []byte) (int, error) {
	if l.written >= l.max {
		l.truncated = true
		l.discarded += int64(len(p))
		return len(p), nil
	}
	remain := l.max - l.written
	if int64(len(p)) > remain {
		n, err := l.w.Write(p[:remain])
		l.written += int64(n)
		l.truncated = true
		l.discarded += int64(len(p)) - remain
		if err != nil {
			return n, err
		}
		return len(p), nil
	}
	n, err := l.w.Write(p)
	l.written += int64(n)
	return n, err
}
