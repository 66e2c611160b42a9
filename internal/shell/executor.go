package shell

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/kballard/go-shellquote"

	"promptshell/internal/logging"
)

// interactiveCommands take over the terminal and are run attached to the
// user's stdio instead of being captured.
var interactiveCommands = map[string]struct{}{
	"vim": {}, "vi": {}, "nano": {}, "emacs": {}, "ssh": {}, "telnet": {},
	"top": {}, "htop": {}, "man": {}, "less": {}, "more": {}, "mysql": {},
	"psql": {}, "nmtui": {}, "crontab": {}, "passwd": {}, "sudo": {}, "su": {},
	"gdb": {}, "screen": {}, "tmux": {}, "picocom": {}, "powershell": {},
	"cmd": {}, "ftp": {}, "sftp": {},
}

// Executor runs commands directly on the host using os/exec.
type Executor struct {
	mu             sync.RWMutex
	defaultTimeout time.Duration
	maxOutputBytes int64
	auditCallback  func(AuditEvent)
}

// Option configures an Executor.
type Option func(*Executor)

// WithTimeout overrides the default execution timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) { e.defaultTimeout = d }
}

// WithMaxOutput overrides the per-stream output cap.
func WithMaxOutput(n int64) Option {
	return func(e *Executor) { e.maxOutputBytes = n }
}

// NewExecutor creates an executor with the given options.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		defaultTimeout: 2 * time.Minute,
		maxOutputBytes: 10 * 1024 * 1024,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetAuditCallback registers a callback invoked around each execution.
func (e *Executor) SetAuditCallback(callback func(AuditEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.auditCallback = callback
}

func (e *Executor) emitAudit(event AuditEvent) {
	e.mu.RLock()
	callback := e.auditCallback
	e.mu.RUnlock()
	if callback != nil {
		callback(event)
	}
}

// sanitize normalizes unicode characters that editors and chat models like to
// insert (smart quotes, NBSP, zero-width runes) and strips embedded NULs.
func sanitize(s string) string {
	r := strings.NewReplacer(
		"‘", "'", // left single quote
		"’", "'", // right single quote
		"“", `"`, // left double quote
		"”", `"`, // right double quote
		" ", " ", // no-break space
		"​", "", // zero width space
		"‎", "", // left-to-right mark
		"‏", "", // right-to-left mark
	)
	out := r.Replace(s)
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, out)
}

// Parse splits a command line into a Command using shell-style quoting rules.
func Parse(line string) (Command, error) {
	words, err := shellquote.Split(sanitize(line))
	if err != nil {
		return Command{}, fmt.Errorf("parse command: %w", err)
	}
	if len(words) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	return Command{Binary: words[0], Arguments: words[1:]}, nil
}

// IsInteractive reports whether the command's binary takes over the terminal.
func IsInteractive(cmd Command) bool {
	_, ok := interactiveCommands[cmd.Binary]
	return ok
}

// Run executes a command line string: parses it, dispatches interactive
// commands to the attached path, and captures everything else.
func (e *Executor) Run(ctx context.Context, line string) (*Result, error) {
	cmd, err := Parse(line)
	if err != nil {
		return nil, err
	}
	if IsInteractive(cmd) {
		return e.RunInteractive(ctx, cmd)
	}
	return e.Execute(ctx, cmd)
}

// Execute runs a command, capturing bounded output.
func (e *Executor) Execute(ctx context.Context, cmd Command) (*Result, error) {
	timer := logging.StartTimer(logging.CategoryExec, "command execution")
	defer timer.Stop()

	if cmd.Binary == "" {
		return nil, fmt.Errorf("binary is required")
	}

	logging.Exec("executing: %s", cmd.String())

	timeout := e.defaultTimeout
	if cmd.Timeout > 0 {
		timeout = cmd.Timeout
	}
	maxOutput := e.maxOutputBytes
	if cmd.MaxOutputBytes > 0 {
		maxOutput = cmd.MaxOutputBytes
	}

	e.emitAudit(AuditEvent{
		Type:      AuditEventStart,
		Timestamp: time.Now(),
		Command:   cmd,
		SessionID: cmd.SessionID,
	})

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	execCmd := exec.CommandContext(execCtx, cmd.Binary, cmd.Arguments...)
	execCmd.Dir = cmd.WorkingDirectory
	execCmd.Env = append(os.Environ(), cmd.Environment...)
	if cmd.Stdin != "" {
		execCmd.Stdin = strings.NewReader(cmd.Stdin)
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	stdoutLimited := &limitedWriter{w: &stdoutBuf, max: maxOutput}
	stderrLimited := &limitedWriter{w: &stderrBuf, max: maxOutput}
	execCmd.Stdout = stdoutLimited
	execCmd.Stderr = stderrLimited

	result := &Result{ExitCode: -1, StartedAt: time.Now()}
	err := execCmd.Run()
	result.Duration = time.Since(result.StartedAt)
	result.Stdout = stdoutBuf.String()
	result.Stderr = stderrBuf.String()

	if stdoutLimited.truncated || stderrLimited.truncated {
		result.Truncated = true
		result.TruncatedBytes = stdoutLimited.discarded + stderrLimited.discarded
		logging.ExecWarn("output truncated: %d bytes discarded", result.TruncatedBytes)
	}

	switch {
	case execCtx.Err() == context.DeadlineExceeded:
		result.Killed = true
		result.KillReason = fmt.Sprintf("timeout after %s", timeout)
		logging.ExecWarn("command killed (timeout): %s after %s", cmd.Binary, timeout)
		e.emitAudit(AuditEvent{Type: AuditEventKilled, Timestamp: time.Now(), Command: cmd, Result: result, SessionID: cmd.SessionID})
	case execCtx.Err() == context.Canceled:
		result.Killed = true
		result.KillReason = "canceled"
		e.emitAudit(AuditEvent{Type: AuditEventKilled, Timestamp: time.Now(), Command: cmd, Result: result, SessionID: cmd.SessionID})
	case err == nil:
		result.ExitCode = 0
		logging.ExecDebug("command succeeded: %s", cmd.Binary)
	default:
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			logging.ExecDebug("command exited non-zero: %s -> %d", cmd.Binary, result.ExitCode)
		} else {
			logging.ExecError("command failed: %s - %v", cmd.Binary, err)
			e.emitAudit(AuditEvent{Type: AuditEventError, Timestamp: time.Now(), Command: cmd, Result: result, SessionID: cmd.SessionID})
			return result, fmt.Errorf("execute %s: %w", cmd.Binary, err)
		}
	}

	e.emitAudit(AuditEvent{Type: AuditEventComplete, Timestamp: time.Now(), Command: cmd, Result: result, SessionID: cmd.SessionID})
	return result, nil
}

// RunInteractive attaches the command to the process stdio for full-screen or
// credential-prompting programs. Output is not captured.
func (e *Executor) RunInteractive(ctx context.Context, cmd Command) (*Result, error) {
	logging.Exec("executing interactive: %s", cmd.String())

	execCmd := exec.CommandContext(ctx, cmd.Binary, cmd.Arguments...)
	execCmd.Dir = cmd.WorkingDirectory
	execCmd.Env = append(os.Environ(), cmd.Environment...)
	execCmd.Stdin = os.Stdin
	execCmd.Stdout = os.Stdout
	execCmd.Stderr = os.Stderr

	result := &Result{ExitCode: -1, StartedAt: time.Now()}
	err := execCmd.Run()
	result.Duration = time.Since(result.StartedAt)

	if err == nil {
		result.ExitCode = 0
	} else if exitErr, ok := err.(*exec.ExitError); ok {
		result.ExitCode = exitErr.ExitCode()
	} else {
		return result, fmt.Errorf("execute %s: %w", cmd.Binary, err)
	}
	return result, nil
}
