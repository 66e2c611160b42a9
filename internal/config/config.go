// Package config holds PromptShell configuration, persisted as JSON at
// ~/.promptshell/config.json. This is the single source of truth for provider
// selection, model overrides, and subsystem settings.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SecurePlaceholder marks an API key that lives in the system keyring rather
// than the config file.
const SecurePlaceholder = "🔒 SECURE_STORAGE"

// Config holds all PromptShell configuration.
//
// Supported models by provider:
//   - anthropic:  claude-sonnet-4-20250514, claude-3-5-haiku-20241022
//   - openai:     gpt-4o (default), gpt-4o-mini, gpt-4-turbo
//   - google:     gemini-2.5-flash (default), gemini-2.5-pro
//   - groq:       llama-3.3-70b-versatile (default), mixtral-8x7b-32768
//   - ollama:     any locally pulled model (llama3.2, qwen2.5-coder, ...)
//   - fireworks, openrouter, deepseek: OpenAI-compatible model names
type Config struct {
	// Provider selection (ollama, openai, anthropic, google, groq,
	// fireworks, openrouter, deepseek).
	Provider string `json:"provider,omitempty"`

	// Optional model override for the active provider.
	Model string `json:"model,omitempty"`

	// MaxTokens caps completion length. Zero means the provider default.
	MaxTokens int `json:"max_tokens,omitempty"`

	// API keys per provider. Values may be the keyring placeholder.
	OpenAIAPIKey     string `json:"openai_api_key,omitempty"`
	AnthropicAPIKey  string `json:"anthropic_api_key,omitempty"`
	GoogleAPIKey     string `json:"google_api_key,omitempty"`
	GroqAPIKey       string `json:"groq_api_key,omitempty"`
	FireworksAPIKey  string `json:"fireworks_api_key,omitempty"`
	OpenRouterAPIKey string `json:"openrouter_api_key,omitempty"`
	DeepSeekAPIKey   string `json:"deepseek_api_key,omitempty"`

	// OllamaEndpoint is the local Ollama server (default http://localhost:11434).
	OllamaEndpoint string `json:"ollama_endpoint,omitempty"`

	// Theme for the TUI ("light" or "dark").
	Theme string `json:"theme,omitempty"`

	// Execution settings for the shell executor.
	Execution *ExecutionConfig `json:"execution,omitempty"`

	// Logging configuration.
	Logging *LoggingConfig `json:"logging,omitempty"`

	// Sync configures the optional cloud history sync.
	Sync *SyncConfig `json:"sync,omitempty"`
}

// LoggingConfig controls the categorized file logging.
type LoggingConfig struct {
	DebugMode  bool            `json:"debug_mode"`
	Categories map[string]bool `json:"categories,omitempty"`
	Level      string          `json:"level,omitempty"`
	JSONFormat bool            `json:"json_format,omitempty"`
}

// keyFields maps provider names to accessors over the per-provider key fields.
var keyFields = []struct {
	Provider string
	EnvVar   string
	Get      func(*Config) string
	Set      func(*Config, string)
}{
	{"anthropic", "ANTHROPIC_API_KEY", func(c *Config) string { return c.AnthropicAPIKey }, func(c *Config, v string) { c.AnthropicAPIKey = v }},
	{"openai", "OPENAI_API_KEY", func(c *Config) string { return c.OpenAIAPIKey }, func(c *Config, v string) { c.OpenAIAPIKey = v }},
	{"google", "GOOGLE_API_KEY", func(c *Config) string { return c.GoogleAPIKey }, func(c *Config, v string) { c.GoogleAPIKey = v }},
	{"groq", "GROQ_API_KEY", func(c *Config) string { return c.GroqAPIKey }, func(c *Config, v string) { c.GroqAPIKey = v }},
	{"fireworks", "FIREWORKS_API_KEY", func(c *Config) string { return c.FireworksAPIKey }, func(c *Config, v string) { c.FireworksAPIKey = v }},
	{"openrouter", "OPENROUTER_API_KEY", func(c *Config) string { return c.OpenRouterAPIKey }, func(c *Config, v string) { c.OpenRouterAPIKey = v }},
	{"deepseek", "DEEPSEEK_API_KEY", func(c *Config) string { return c.DeepSeekAPIKey }, func(c *Config, v string) { c.DeepSeekAPIKey = v }},
}

// DefaultDir returns the PromptShell config directory (~/.promptshell).
// PROMPTSHELL_CONFIG_DIR overrides it, which tests rely on.
func DefaultDir() string {
	if dir := os.Getenv("PROMPTSHELL_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".promptshell"
	}
	return filepath.Join(home, ".promptshell")
}

// Path returns the config file path inside dir.
func Path(dir string) string {
	return filepath.Join(dir, "config.json")
}

// Load reads configuration from path. A missing file yields a nil config and
// nil error so callers can detect first-run.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to path, creating the directory when needed. The
// file is 0600 since keys may be stored here when the keyring is unavailable.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// KeyFor returns the stored key string for a provider (may be the keyring
// placeholder). Ollama has no key.
func (c *Config) KeyFor(provider string) string {
	for _, f := range keyFields {
		if f.Provider == provider {
			return f.Get(c)
		}
	}
	return ""
}

// SetKey stores a key string for a provider.
func (c *Config) SetKey(provider, value string) {
	for _, f := range keyFields {
		if f.Provider == provider {
			f.Set(c, value)
			return
		}
	}
}

// GetActiveProvider resolves the provider and its raw key string.
// Priority: explicit provider setting > first configured key > environment
// variables. Ollama never requires a key.
func (c *Config) GetActiveProvider() (provider, apiKey string) {
	if c.Provider == "ollama" {
		return "ollama", ""
	}
	if c.Provider != "" {
		return c.Provider, c.KeyFor(c.Provider)
	}
	for _, f := range keyFields {
		if key := f.Get(c); key != "" {
			return f.Provider, key
		}
	}
	for _, f := range keyFields {
		if key := os.Getenv(f.EnvVar); key != "" {
			return f.Provider, key
		}
	}
	return "", ""
}

// Providers lists every provider PromptShell can talk to.
func Providers() []string {
	out := []string{"ollama"}
	for _, f := range keyFields {
		out = append(out, f.Provider)
	}
	return out
}

// EnvVarFor returns the conventional environment variable for a provider key.
func EnvVarFor(provider string) string {
	for _, f := range keyFields {
		if f.Provider == provider {
			return f.EnvVar
		}
	}
	return ""
}
