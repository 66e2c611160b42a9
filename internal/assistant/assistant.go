// Package assistant orchestrates the PromptShell roles: translating natural
// language to shell commands, answering questions, and debugging failed
// commands. It owns the safety gating and the rolling command context fed
// back into prompts.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"promptshell/internal/alias"
	"promptshell/internal/gather"
	"promptshell/internal/history"
	"promptshell/internal/llm"
	"promptshell/internal/logging"
	"promptshell/internal/safety"
	"promptshell/internal/shell"
	"promptshell/internal/sysinfo"
)

// recentWindow is how many prior commands are fed back into prompts.
const recentWindow = 10

// suggestionPrefix marks a corrected command in debugger output.
const suggestionPrefix = "SUGGESTED:"

// ErrCannotTranslate is returned when the interpreter declines the request.
var ErrCannotTranslate = fmt.Errorf("request cannot be translated to a shell command")

// Translation is the interpreter's output for one natural language input.
type Translation struct {
	// Command is the shell command, with any confirmation prefix stripped.
	Command string
	// Destructive reports that the interpreter flagged the command and the
	// caller must collect a re-typed confirmation before executing.
	Destructive bool
	// Reason carries the interpreter's explanation when translation failed.
	Reason string
}

// Outcome bundles an execution result with the debugger's take on a failure.
type Outcome struct {
	Result *shell.Result
	// Diagnosis is set when the command exited non-zero and the debugger
	// produced an explanation.
	Diagnosis string
	// Suggestion is a corrected command extracted from the diagnosis, if any.
	Suggestion string
}

// Assistant wires the LLM client, executor, aliases, and history into the
// REPL-facing operations.
type Assistant struct {
	client   llm.Client
	executor *shell.Executor
	aliases  *alias.Manager
	gatherer *gather.Provider
	store    *history.Store

	sysPromptOnce sync.Once
	interpSystem  string
	questionSys   string
	debuggerSys   string

	mu     sync.Mutex
	recent []history.Entry
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithAliases attaches an alias manager consulted before translation.
func WithAliases(m *alias.Manager) Option {
	return func(a *Assistant) { a.aliases = m }
}

// WithHistory attaches a persistent history store.
func WithHistory(s *history.Store) Option {
	return func(a *Assistant) { a.store = s }
}

// WithGatherer overrides the default context retrievers.
func WithGatherer(p *gather.Provider) Option {
	return func(a *Assistant) { a.gatherer = p }
}

// New creates an Assistant around the given client and executor.
func New(client llm.Client, executor *shell.Executor, opts ...Option) *Assistant {
	a := &Assistant{
		client:   client,
		executor: executor,
		gatherer: gather.DefaultProvider(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// systemPrompts builds the role definitions once. Collecting host facts and
// scanning PATH is not free, so it happens on first use rather than at
// startup.
func (a *Assistant) systemPrompts() (interp, question, debugger string) {
	a.sysPromptOnce.Do(func() {
		info := sysinfo.Collect()
		a.interpSystem = interpreterSystemPrompt(info)
		a.questionSys = questionSystemPrompt(info)
		a.debuggerSys = debuggerSystemPrompt(info)
		logging.AssistantDebug("system prompts initialized (%d bytes interpreter)", len(a.interpSystem))
	})
	return a.interpSystem, a.questionSys, a.debuggerSys
}

// Translate turns a natural language request into a shell command. Aliases
// are expanded first; when the whole input resolves through an alias the LLM
// is skipped entirely.
func (a *Assistant) Translate(ctx context.Context, input string) (Translation, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Translation{}, fmt.Errorf("empty input")
	}

	if a.aliases != nil {
		if expanded := a.aliases.Expand(input); expanded != input {
			logging.Assistant("alias expansion: %q -> %q", input, expanded)
			cmd, destructive := safety.NeedsConfirmation(expanded)
			return Translation{Command: cmd, Destructive: destructive}, nil
		}
	}

	interp, _, _ := a.systemPrompts()

	var prompt strings.Builder
	if recent := formatRecent(a.Recent()); recent != "" {
		prompt.WriteString(recent)
		prompt.WriteByte('\n')
	}
	if gathered := formatGathered(a.gatherer.Collect(ctx, input)); gathered != "" {
		prompt.WriteString(gathered)
		prompt.WriteByte('\n')
	}
	prompt.WriteString("Request: ")
	prompt.WriteString(input)

	raw, err := a.client.CompleteWithSystem(ctx, interp, prompt.String())
	if err != nil {
		return Translation{}, fmt.Errorf("translate request: %w", err)
	}

	command := cleanCommandOutput(raw)
	if reason, failed := strings.CutPrefix(command, "ERROR:"); failed {
		return Translation{Reason: strings.TrimSpace(reason)}, ErrCannotTranslate
	}
	if command == "" {
		return Translation{}, ErrCannotTranslate
	}

	command, destructive := safety.NeedsConfirmation(command)
	logging.Assistant("translated %q -> %q (destructive=%v)", input, command, destructive)
	return Translation{Command: command, Destructive: destructive}, nil
}

// Execute runs a confirmed command, records it, and on failure asks the
// debugger role for a diagnosis. The blocklist is the last line of defense
// and applies even to commands the user already confirmed.
func (a *Assistant) Execute(ctx context.Context, naturalLanguage, command string) (Outcome, error) {
	if err := safety.CheckAllowed(command); err != nil {
		return Outcome{}, err
	}

	result, err := a.executor.Run(ctx, command)
	if err != nil {
		return Outcome{Result: result}, err
	}

	a.Record(ctx, naturalLanguage, command, result.ExitCode)

	out := Outcome{Result: result}
	if result.ExitCode != 0 && !result.Killed {
		diagnosis, suggestion, derr := a.debug(ctx, command, result)
		if derr != nil {
			logging.AssistantDebug("debugger failed: %v", derr)
		} else {
			out.Diagnosis = diagnosis
			out.Suggestion = suggestion
		}
	}
	return out, nil
}

// Answer responds to a direct question using the Q&A role.
func (a *Assistant) Answer(ctx context.Context, question string) (string, error) {
	_, qSys, _ := a.systemPrompts()
	answer, err := a.client.CompleteWithSystem(ctx, qSys, question)
	if err != nil {
		return "", fmt.Errorf("answer question: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// debug asks the debugger role to explain a failure and extracts any
// suggested replacement command.
func (a *Assistant) debug(ctx context.Context, command string, result *shell.Result) (diagnosis, suggestion string, err error) {
	_, _, dSys := a.systemPrompts()

	prompt := fmt.Sprintf("Command: %s\nExit code: %d\nStderr:\n%s\nStdout (tail):\n%s",
		command, result.ExitCode, tail(result.Stderr, 2000), tail(result.Stdout, 500))

	raw, err := a.client.CompleteWithSystem(ctx, dSys, prompt)
	if err != nil {
		return "", "", fmt.Errorf("debug failure: %w", err)
	}

	diagnosis = strings.TrimSpace(raw)
	for _, line := range strings.Split(diagnosis, "\n") {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), suggestionPrefix); ok {
			suggestion = cleanCommandOutput(rest)
		}
	}
	if suggestion != "" {
		diagnosis = strings.TrimSpace(strings.ReplaceAll(diagnosis, suggestionPrefix+" "+suggestion, ""))
	}
	return diagnosis, suggestion, nil
}

// Record appends a finished command to the rolling window and the persistent
// store. Execute calls it automatically; callers that run commands outside
// the assistant (interactive programs) record explicitly.
func (a *Assistant) Record(ctx context.Context, naturalLanguage, command string, exitCode int) {
	var entry history.Entry
	if a.store != nil {
		var err error
		if entry, err = a.store.Append(ctx, naturalLanguage, command, exitCode); err != nil {
			logging.AssistantDebug("history append failed: %v", err)
			entry = history.Entry{NaturalLanguage: naturalLanguage, ShellCommand: command, ExitCode: exitCode}
		}
	} else {
		entry = history.Entry{NaturalLanguage: naturalLanguage, ShellCommand: command, ExitCode: exitCode}
	}

	a.mu.Lock()
	a.recent = append(a.recent, entry)
	if len(a.recent) > recentWindow {
		a.recent = a.recent[len(a.recent)-recentWindow:]
	}
	a.mu.Unlock()
}

// Recent returns a copy of the rolling command window, oldest first.
func (a *Assistant) Recent() []history.Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]history.Entry, len(a.recent))
	copy(out, a.recent)
	return out
}

// cleanCommandOutput strips the wrappers models add despite the rules:
// code fences, backticks, a leading shell prompt, surrounding whitespace.
func cleanCommandOutput(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		// drop a language tag like ```bash
		if idx := strings.Index(s, "\n"); idx >= 0 && !strings.ContainsAny(s[:idx], " \t") {
			s = s[idx+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	s = strings.Trim(s, "`")
	s = strings.TrimPrefix(s, "$ ")

	// Multi-line responses keep only the first command line.
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
