package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"promptshell/internal/alias"
	"promptshell/internal/assistant"
	"promptshell/internal/config"
	"promptshell/internal/history"
	"promptshell/internal/llm"
	"promptshell/internal/safety"
	"promptshell/internal/shell"
)

var runYes bool

var runCmd = &cobra.Command{
	Use:   "run [request]",
	Short: "Translate and run a single request without entering the shell",
	Long: `Translates one natural language request into a shell command, asks for
confirmation, and executes it. The same prefixes as the interactive shell
apply: ! runs the rest verbatim, a trailing ? asks a question instead.

Example:
  promptshell run "show the 5 largest files in this directory"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOnce,
}

func init() {
	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "execute without confirmation (destructive commands still require it)")
}

func runOnce(cmd *cobra.Command, args []string) error {
	input := strings.TrimSpace(strings.Join(args, " "))
	ctx := cmd.Context()

	cfg, err := config.Load(config.Path(configDir))
	if err != nil {
		return err
	}

	client, err := llm.NewClientFromConfig(ctx, cfg)
	if err != nil {
		return err
	}

	store, err := history.Open(historyPath(configDir))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	aliases := alias.NewManager(aliasPath(configDir))
	if err := aliases.Reload(); err != nil {
		logger.Warn("alias load failed", zap.Error(err))
	}

	execCfg := cfg.GetExecutionConfig()
	executor := shell.NewExecutor(
		shell.WithTimeout(execCfg.DefaultTimeout()),
		shell.WithMaxOutput(execCfg.MaxOutputBytes),
	)
	asst := assistant.New(client, executor,
		assistant.WithAliases(aliases),
		assistant.WithHistory(store),
	)

	// Question path
	if q, ok := questionInput(input); ok {
		answer, err := asst.Answer(ctx, q)
		if err != nil {
			return err
		}
		fmt.Println(answer)
		return nil
	}

	// Direct command path: aliases still expand.
	if direct, ok := strings.CutPrefix(input, "!"); ok {
		return executeAndReport(cmd, asst, input, aliases.Expand(strings.TrimSpace(direct)))
	}

	tr, err := asst.Translate(ctx, input)
	if err != nil {
		if tr.Reason != "" {
			return fmt.Errorf("%w: %s", err, tr.Reason)
		}
		return err
	}

	fmt.Printf("Command: %s\n", tr.Command)

	reader := bufio.NewReader(os.Stdin)
	if tr.Destructive {
		fmt.Println("This command looks destructive. Re-type it exactly to confirm:")
		retyped, err := promptLine(reader, "> ")
		if err != nil {
			return err
		}
		if !safety.VerifyRetyped(tr.Command, retyped) {
			fmt.Println("Confirmation did not match. Aborted.")
			return nil
		}
	} else if !runYes {
		answer, err := promptLine(reader, "Run it? [y/N] ")
		if err != nil {
			return err
		}
		if answer != "y" && answer != "Y" && !strings.EqualFold(answer, "yes") {
			fmt.Println("Aborted.")
			return nil
		}
	}

	return executeAndReport(cmd, asst, input, tr.Command)
}

func executeAndReport(cmd *cobra.Command, asst *assistant.Assistant, naturalLanguage, command string) error {
	out, err := asst.Execute(cmd.Context(), naturalLanguage, command)
	if err != nil {
		return err
	}

	if out.Result.Stdout != "" {
		fmt.Print(out.Result.Stdout)
	}
	if out.Result.Stderr != "" {
		fmt.Fprint(os.Stderr, out.Result.Stderr)
	}
	if out.Result.Killed {
		fmt.Fprintf(os.Stderr, "command killed: %s\n", out.Result.KillReason)
	}
	if out.Diagnosis != "" {
		fmt.Fprintf(os.Stderr, "\n%s\n", out.Diagnosis)
		if out.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "Try: %s\n", out.Suggestion)
		}
	}
	if out.Result.ExitCode != 0 {
		os.Exit(out.Result.ExitCode)
	}
	return nil
}

// questionInput reports whether input is a question (leading or trailing ?)
// and returns it with the markers stripped.
func questionInput(input string) (string, bool) {
	if q, ok := strings.CutPrefix(input, "?"); ok {
		return strings.TrimSpace(q), true
	}
	if strings.HasSuffix(input, "?") {
		return input, true
	}
	return input, false
}

func historyPath(dir string) string {
	return filepath.Join(dir, "history.db")
}

func aliasPath(dir string) string {
	return filepath.Join(dir, alias.FileName)
}
