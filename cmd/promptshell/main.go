// PromptShell is an AI-powered terminal assistant: natural language in,
// reviewed shell commands out. Run without arguments to start the
// interactive shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"promptshell/cmd/promptshell/repl"
	"promptshell/internal/config"
	"promptshell/internal/logging"
	"promptshell/internal/version"
)

var (
	// Global flags
	verbose    bool
	configDir  string
	showConfig bool

	// Logger for non-interactive subcommands
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "promptshell",
	Short: "PromptShell - AI-powered natural language terminal",
	Long: `PromptShell turns plain English into shell commands.

Type what you want done; PromptShell translates it to a command, shows it,
and runs it only after you confirm. Prefix a line with ! to run it verbatim,
or end it with ? to ask a question instead.

Run without arguments to start the interactive shell.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configDir == "" {
			configDir = config.DefaultDir()
		}
		if err := logging.Initialize(configDir); err != nil {
			return fmt.Errorf("initialize logging: %w", err)
		}

		// The interactive shell owns the terminal; skip the console logger.
		if cmd.CalledAs() == "promptshell" {
			return nil
		}

		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showConfig {
			return runWizard(configDir)
		}
		return runShell(configDir)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the PromptShell version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Banner())
	},
}

// runShell starts the interactive shell, running the setup wizard first when
// no configuration exists, and re-entering the shell after an in-shell
// --config request.
func runShell(dir string) error {
	cfg, err := config.Load(config.Path(dir))
	if err != nil {
		return err
	}
	if cfg == nil {
		logging.Boot("no config found, starting setup wizard")
		if err := runWizard(dir); err != nil {
			return err
		}
	}

	for {
		err := repl.Run(dir)
		if err == repl.ErrConfigRequested {
			if werr := runWizard(dir); werr != nil {
				return werr
			}
			continue
		}
		return err
	}
}

func main() {
	rootCmd.SetVersionTemplate(version.Banner() + "\n")

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.promptshell)")
	rootCmd.Flags().BoolVar(&showConfig, "config", false, "run the setup wizard")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(aliasCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
