package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"promptshell/internal/config"
	"promptshell/internal/llm"
	"promptshell/internal/logging"
	"promptshell/internal/secrets"
)

// runWizard walks the user through provider, model, and API key setup and
// writes config.json. API keys go to the system keyring when available; the
// config file then carries only a placeholder.
func runWizard(dir string) error {
	path := config.Path(dir)
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("PromptShell setup")
	fmt.Println()

	providers := config.Providers()
	fmt.Println("Choose a provider:")
	for i, p := range providers {
		marker := " "
		if p == cfg.Provider {
			marker = "*"
		}
		fmt.Printf("  %s %d. %s\n", marker, i+1, p)
	}
	choice, err := promptLine(reader, fmt.Sprintf("Provider [1-%d]: ", len(providers)))
	if err != nil {
		return err
	}
	if choice != "" {
		n, err := strconv.Atoi(choice)
		if err != nil || n < 1 || n > len(providers) {
			return fmt.Errorf("invalid provider choice %q", choice)
		}
		cfg.Provider = providers[n-1]
	}
	if cfg.Provider == "" {
		cfg.Provider = string(llm.ProviderOllama)
	}
	provider := llm.Provider(cfg.Provider)

	if models := llm.KnownModels[provider]; len(models) > 0 {
		fmt.Println("\nChoose a model (empty keeps the default):")
		for i, m := range models {
			fmt.Printf("    %d. %s\n", i+1, m)
		}
		choice, err := promptLine(reader, "Model: ")
		if err != nil {
			return err
		}
		switch {
		case choice == "":
			cfg.Model = llm.DefaultModels[provider]
		default:
			if n, err := strconv.Atoi(choice); err == nil && n >= 1 && n <= len(models) {
				cfg.Model = models[n-1]
			} else {
				cfg.Model = choice // free-form model name
			}
		}
	}

	if provider == llm.ProviderOllama {
		endpoint, err := promptLine(reader, "\nOllama endpoint [http://localhost:11434]: ")
		if err != nil {
			return err
		}
		if endpoint != "" {
			cfg.OllamaEndpoint = endpoint
		}
	} else {
		fmt.Printf("\nAPI key for %s (input hidden, empty keeps current): ", provider)
		keyBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("read API key: %w", err)
		}
		if key := strings.TrimSpace(string(keyBytes)); key != "" {
			if err := secrets.SetAPIKey(string(provider), key); err != nil {
				// No keyring on this host. The key lives in config.json with
				// 0600 permissions instead.
				logging.BootError("keyring unavailable, storing key in config: %v", err)
				fmt.Println("Warning: system keyring unavailable; key stored in config.json")
				cfg.SetKey(string(provider), key)
			} else {
				cfg.SetKey(string(provider), config.SecurePlaceholder)
			}
		}
	}

	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Printf("\nConfiguration saved to %s\n", path)
	return nil
}

func promptLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
