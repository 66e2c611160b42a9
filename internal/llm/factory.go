package llm

import (
	"context"
	"fmt"
	"os"

	"promptshell/internal/config"
	"promptshell/internal/secrets"
)

// ProviderConfig holds the resolved provider, key, and model override.
type ProviderConfig struct {
	Provider       Provider
	APIKey         string
	Model          string
	MaxTokens      int
	OllamaEndpoint string
}

// DetectProvider resolves the active provider from config, falling back to
// environment variables. Keyring placeholders are resolved to real keys.
func DetectProvider(cfg *config.Config) (*ProviderConfig, error) {
	if cfg != nil {
		providerStr, _ := cfg.GetActiveProvider()
		if providerStr != "" {
			provider := Provider(providerStr)
			if !provider.Valid() {
				return nil, fmt.Errorf("unknown provider: %s", providerStr)
			}

			pc := &ProviderConfig{
				Provider:       provider,
				Model:          cfg.Model,
				MaxTokens:      cfg.MaxTokens,
				OllamaEndpoint: cfg.OllamaEndpoint,
			}
			if provider != ProviderOllama {
				key, err := secrets.ResolveKey(cfg, providerStr)
				if err != nil {
					return nil, fmt.Errorf("resolve %s key: %w", providerStr, err)
				}
				if key == "" {
					key = os.Getenv(config.EnvVarFor(providerStr))
				}
				if key == "" {
					return nil, fmt.Errorf("no API key found for %s; run --config or set %s", providerStr, config.EnvVarFor(providerStr))
				}
				pc.APIKey = key
			}
			return pc, nil
		}
	}

	// No config: scan env vars in priority order.
	for _, providerStr := range config.Providers() {
		if providerStr == "ollama" {
			continue
		}
		if key := os.Getenv(config.EnvVarFor(providerStr)); key != "" {
			return &ProviderConfig{Provider: Provider(providerStr), APIKey: key}, nil
		}
	}

	return nil, fmt.Errorf("no provider configured; run the setup wizard or set an API key environment variable")
}

// NewClient creates a Client from a resolved provider config.
func NewClient(ctx context.Context, pc *ProviderConfig) (Client, error) {
	model := pc.Model
	if model == "" {
		model = DefaultModels[pc.Provider]
	}

	switch pc.Provider {
	case ProviderOllama:
		return NewOllamaClient(OllamaConfig{
			Endpoint:  pc.OllamaEndpoint,
			Model:     model,
			MaxTokens: pc.MaxTokens,
		}), nil

	case ProviderOpenAI:
		cfg := DefaultOpenAIConfig(pc.APIKey)
		cfg.Model = model
		if pc.MaxTokens > 0 {
			cfg.MaxTokens = pc.MaxTokens
		}
		return NewOpenAIClientWithConfig(cfg), nil

	case ProviderAnthropic:
		cfg := DefaultAnthropicConfig(pc.APIKey)
		cfg.Model = model
		if pc.MaxTokens > 0 {
			cfg.MaxTokens = pc.MaxTokens
		}
		return NewAnthropicClientWithConfig(cfg), nil

	case ProviderGoogle:
		return NewGeminiClient(ctx, GeminiConfig{
			APIKey:    pc.APIKey,
			Model:     model,
			MaxTokens: pc.MaxTokens,
		})

	case ProviderGroq:
		client := NewGroqClient(pc.APIKey)
		client.SetModel(model)
		return client, nil

	case ProviderFireworks:
		client := NewFireworksClient(pc.APIKey)
		client.SetModel(model)
		return client, nil

	case ProviderOpenRouter:
		client := NewOpenRouterClient(pc.APIKey)
		client.SetModel(model)
		return client, nil

	case ProviderDeepSeek:
		client := NewDeepSeekClient(pc.APIKey)
		client.SetModel(model)
		return client, nil

	default:
		return nil, fmt.Errorf("unknown provider: %s", pc.Provider)
	}
}

// NewClientFromConfig is the common path: detect then construct.
func NewClientFromConfig(ctx context.Context, cfg *config.Config) (Client, error) {
	pc, err := DetectProvider(cfg)
	if err != nil {
		return nil, err
	}
	return NewClient(ctx, pc)
}
