package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptshell/internal/config"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, p := range config.Providers() {
		if env := config.EnvVarFor(p); env != "" {
			t.Setenv(env, "")
		}
	}
}

func TestDetectProvider(t *testing.T) {
	t.Run("explicit ollama needs no key", func(t *testing.T) {
		clearProviderEnv(t)
		cfg := &config.Config{Provider: "ollama", OllamaEndpoint: "http://box:11434", Model: "mistral"}
		pc, err := DetectProvider(cfg)
		require.NoError(t, err)
		assert.Equal(t, ProviderOllama, pc.Provider)
		assert.Equal(t, "http://box:11434", pc.OllamaEndpoint)
		assert.Equal(t, "mistral", pc.Model)
		assert.Empty(t, pc.APIKey)
	})

	t.Run("plaintext config key used directly", func(t *testing.T) {
		clearProviderEnv(t)
		cfg := &config.Config{Provider: "groq", GroqAPIKey: "gk"}
		pc, err := DetectProvider(cfg)
		require.NoError(t, err)
		assert.Equal(t, ProviderGroq, pc.Provider)
		assert.Equal(t, "gk", pc.APIKey)
	})

	t.Run("env fallback when config has provider but no key", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("OPENAI_API_KEY", "sk-env")
		cfg := &config.Config{Provider: "openai"}
		pc, err := DetectProvider(cfg)
		require.NoError(t, err)
		assert.Equal(t, "sk-env", pc.APIKey)
	})

	t.Run("provider without key errors", func(t *testing.T) {
		clearProviderEnv(t)
		cfg := &config.Config{Provider: "anthropic"}
		_, err := DetectProvider(cfg)
		assert.Error(t, err)
	})

	t.Run("unknown provider errors", func(t *testing.T) {
		cfg := &config.Config{Provider: "skynet"}
		_, err := DetectProvider(cfg)
		assert.Error(t, err)
	})

	t.Run("nil config scans environment", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("FIREWORKS_API_KEY", "fk")
		pc, err := DetectProvider(nil)
		require.NoError(t, err)
		assert.Equal(t, ProviderFireworks, pc.Provider)
		assert.Equal(t, "fk", pc.APIKey)
	})

	t.Run("nothing configured errors", func(t *testing.T) {
		clearProviderEnv(t)
		_, err := DetectProvider(nil)
		assert.Error(t, err)
	})
}

func TestNewClient(t *testing.T) {
	ctx := context.Background()

	t.Run("each provider constructs", func(t *testing.T) {
		for _, p := range []Provider{
			ProviderOllama, ProviderOpenAI, ProviderAnthropic,
			ProviderGroq, ProviderFireworks, ProviderOpenRouter, ProviderDeepSeek,
		} {
			c, err := NewClient(ctx, &ProviderConfig{Provider: p, APIKey: "test-key"})
			require.NoError(t, err, string(p))
			assert.NotNil(t, c, string(p))
		}
	})

	t.Run("model override applies", func(t *testing.T) {
		c, err := NewClient(ctx, &ProviderConfig{Provider: ProviderOpenAI, APIKey: "k", Model: "gpt-4o-mini"})
		require.NoError(t, err)
		oc, ok := c.(*OpenAIClient)
		require.True(t, ok)
		assert.Equal(t, "gpt-4o-mini", oc.GetModel())
	})

	t.Run("unknown provider errors", func(t *testing.T) {
		_, err := NewClient(ctx, &ProviderConfig{Provider: Provider("palm")})
		assert.Error(t, err)
	})
}
