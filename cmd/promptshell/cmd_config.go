package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"promptshell/internal/config"
	"promptshell/internal/secrets"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfigSettings()
	},
}

var configWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Run the interactive setup wizard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWizard(configDir)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.Path(configDir))
	},
}

var configMigrateCmd = &cobra.Command{
	Use:   "migrate-keys",
	Short: "Move plaintext API keys from config.json into the system keyring",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.Path(configDir)
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if cfg == nil {
			return fmt.Errorf("no configuration found at %s", path)
		}
		if !secrets.MigrateConfigKeys(cfg) {
			fmt.Println("No plaintext keys to migrate.")
			return nil
		}
		if err := cfg.Save(path); err != nil {
			return err
		}
		fmt.Println("API keys moved to the system keyring.")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configWizardCmd, configPathCmd, configMigrateCmd)
}

func showConfigSettings() error {
	path := config.Path(configDir)
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if cfg == nil {
		fmt.Printf("No configuration at %s. Run 'promptshell config wizard' to create one.\n", path)
		return nil
	}

	fmt.Printf("Config file: %s\n", path)
	fmt.Printf("Provider:    %s\n", valueOr(cfg.Provider, "(auto-detect)"))
	fmt.Printf("Model:       %s\n", valueOr(cfg.Model, "(provider default)"))
	if cfg.OllamaEndpoint != "" {
		fmt.Printf("Ollama:      %s\n", cfg.OllamaEndpoint)
	}

	fmt.Println("API keys:")
	for _, provider := range config.Providers() {
		if provider == "ollama" {
			continue
		}
		switch cfg.KeyFor(provider) {
		case "":
			// not configured
		case config.SecurePlaceholder:
			fmt.Printf("  %-11s keyring\n", provider)
		default:
			fmt.Printf("  %-11s config.json (run 'promptshell config migrate-keys')\n", provider)
		}
	}

	exec := cfg.GetExecutionConfig()
	fmt.Printf("Timeout:     %s\n", exec.DefaultTimeout())
	fmt.Printf("Output cap:  %d bytes\n", exec.MaxOutputBytes)

	if cfg.Sync != nil && cfg.Sync.Provider != "" {
		fmt.Printf("Sync:        %s\n", cfg.Sync.Provider)
	}
	return nil
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
