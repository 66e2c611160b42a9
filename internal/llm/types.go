// Package llm provides the provider clients used by the assistant roles.
// Every provider implements Client; the factory picks one from config or
// environment.
package llm

import "context"

// Client defines the interface for LLM providers.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Provider identifies an LLM backend.
type Provider string

const (
	ProviderOllama     Provider = "ollama"
	ProviderOpenAI     Provider = "openai"
	ProviderAnthropic  Provider = "anthropic"
	ProviderGoogle     Provider = "google"
	ProviderGroq       Provider = "groq"
	ProviderFireworks  Provider = "fireworks"
	ProviderOpenRouter Provider = "openrouter"
	ProviderDeepSeek   Provider = "deepseek"
)

// DefaultModels maps each provider to the model used when no override is set.
var DefaultModels = map[Provider]string{
	ProviderOllama:     "llama3.2",
	ProviderOpenAI:     "gpt-4o",
	ProviderAnthropic:  "claude-sonnet-4-20250514",
	ProviderGoogle:     "gemini-2.5-flash",
	ProviderGroq:       "llama-3.3-70b-versatile",
	ProviderFireworks:  "accounts/fireworks/models/llama-v3p1-70b-instruct",
	ProviderOpenRouter: "anthropic/claude-3.5-sonnet",
	ProviderDeepSeek:   "deepseek-chat",
}

// KnownModels lists selectable models per provider for the setup wizard.
var KnownModels = map[Provider][]string{
	ProviderOllama:     {"llama3.2", "llama3.1", "qwen2.5-coder", "mistral", "gemma2"},
	ProviderOpenAI:     {"gpt-4o", "gpt-4o-mini", "gpt-4-turbo"},
	ProviderAnthropic:  {"claude-sonnet-4-20250514", "claude-3-5-sonnet-20241022", "claude-3-5-haiku-20241022"},
	ProviderGoogle:     {"gemini-2.5-flash", "gemini-2.5-pro", "gemini-2.0-flash"},
	ProviderGroq:       {"llama-3.3-70b-versatile", "mixtral-8x7b-32768", "gemma2-9b-it"},
	ProviderFireworks:  {"accounts/fireworks/models/llama-v3p1-70b-instruct", "accounts/fireworks/models/qwen2p5-coder-32b-instruct"},
	ProviderOpenRouter: {"anthropic/claude-3.5-sonnet", "openai/gpt-4o", "google/gemini-pro-1.5", "meta-llama/llama-3.1-70b-instruct", "deepseek/deepseek-chat"},
	ProviderDeepSeek:   {"deepseek-chat", "deepseek-coder"},
}

// Valid reports whether p is a known provider.
func (p Provider) Valid() bool {
	_, ok := DefaultModels[p]
	return ok
}
