package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"promptshell/internal/logging"
)

// OpenAIClient implements Client for the OpenAI chat completions API and for
// the OpenAI-compatible providers (Groq, Fireworks, OpenRouter, DeepSeek)
// that differ only in base URL, default model, and headers.
type OpenAIClient struct {
	apiKey       string
	baseURL      string
	model        string
	maxTokens    int
	temperature  float64
	extraHeaders map[string]string
	httpClient   *http.Client
	mu           sync.Mutex
	lastRequest  time.Time
}

// OpenAIConfig holds configuration for an OpenAI-compatible client.
type OpenAIConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	MaxTokens    int
	Temperature  float64
	Timeout      time.Duration
	ExtraHeaders map[string]string
}

// DefaultOpenAIConfig returns sensible defaults for api.openai.com.
func DefaultOpenAIConfig(apiKey string) OpenAIConfig {
	return OpenAIConfig{
		APIKey:    apiKey,
		BaseURL:   "https://api.openai.com/v1",
		Model:     DefaultModels[ProviderOpenAI],
		MaxTokens: 4096,
		Timeout:   120 * time.Second,
	}
}

// NewOpenAIClient creates a new OpenAI client with default config.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	return NewOpenAIClientWithConfig(DefaultOpenAIConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new client with custom config.
func NewOpenAIClientWithConfig(config OpenAIConfig) *OpenAIClient {
	if config.Timeout == 0 {
		config.Timeout = 120 * time.Second
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 4096
	}
	return &OpenAIClient{
		apiKey:       config.APIKey,
		baseURL:      config.BaseURL,
		model:        config.Model,
		maxTokens:    config.MaxTokens,
		temperature:  config.Temperature,
		extraHeaders: config.ExtraHeaders,
		httpClient:   &http.Client{Timeout: config.Timeout},
	}
}

// NewGroqClient creates a client for the Groq OpenAI-compatible endpoint.
func NewGroqClient(apiKey string) *OpenAIClient {
	cfg := DefaultOpenAIConfig(apiKey)
	cfg.BaseURL = "https://api.groq.com/openai/v1"
	cfg.Model = DefaultModels[ProviderGroq]
	return NewOpenAIClientWithConfig(cfg)
}

// NewFireworksClient creates a client for the Fireworks AI endpoint.
func NewFireworksClient(apiKey string) *OpenAIClient {
	cfg := DefaultOpenAIConfig(apiKey)
	cfg.BaseURL = "https://api.fireworks.ai/inference/v1"
	cfg.Model = DefaultModels[ProviderFireworks]
	return NewOpenAIClientWithConfig(cfg)
}

// NewOpenRouterClient creates a client for OpenRouter's multi-provider API.
func NewOpenRouterClient(apiKey string) *OpenAIClient {
	cfg := DefaultOpenAIConfig(apiKey)
	cfg.BaseURL = "https://openrouter.ai/api/v1"
	cfg.Model = DefaultModels[ProviderOpenRouter]
	cfg.ExtraHeaders = map[string]string{
		"HTTP-Referer": "https://github.com/Kirti-Rathi/PromptShell",
		"X-Title":      "PromptShell",
	}
	return NewOpenAIClientWithConfig(cfg)
}

// NewDeepSeekClient creates a client for the DeepSeek endpoint.
func NewDeepSeekClient(apiKey string) *OpenAIClient {
	cfg := DefaultOpenAIConfig(apiKey)
	cfg.BaseURL = "https://api.deepseek.com/v1"
	cfg.Model = DefaultModels[ProviderDeepSeek]
	cfg.Temperature = 0.3 // recommended default for DeepSeek
	return NewOpenAIClientWithConfig(cfg)
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends a prompt and returns the completion.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt)
}

// CompleteWithSystem sends a prompt with a system message.
func (c *OpenAIClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("API key not configured")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	logging.APIDebug("[openai-compat] model=%s system_len=%d user_len=%d", c.model, len(systemPrompt), len(userPrompt))

	// Rate limiting between requests
	c.mu.Lock()
	elapsed := time.Since(c.lastRequest)
	if elapsed < 100*time.Millisecond {
		time.Sleep(100*time.Millisecond - elapsed)
	}
	c.lastRequest = time.Now()
	c.mu.Unlock()

	messages := make([]chatMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userPrompt})

	reqBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	// Retry loop for 429 errors
	const maxRetries = 3
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if i > 0 {
			// Exponential backoff: 1s, 2s, 4s
			time.Sleep(time.Duration(1<<uint(i-1)) * time.Second)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		for k, v := range c.extraHeaders {
			req.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limit exceeded (429)")
			logging.APIDebug("[openai-compat] 429, retry %d/%d", i+1, maxRetries)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			logging.APIError("[openai-compat] status %d: %s", resp.StatusCode, string(body))
			return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
		}

		var cr chatResponse
		if err := json.Unmarshal(body, &cr); err != nil {
			return "", fmt.Errorf("failed to parse response: %w", err)
		}
		if cr.Error != nil {
			return "", fmt.Errorf("API error: %s", cr.Error.Message)
		}
		if len(cr.Choices) == 0 {
			return "", fmt.Errorf("no completion returned")
		}

		logging.API("[openai-compat] ok model=%s tokens=%d", cr.Model, cr.Usage.TotalTokens)
		return strings.TrimSpace(cr.Choices[0].Message.Content), nil
	}

	return "", fmt.Errorf("max retries exceeded: %w", lastErr)
}

// SetModel changes the model used for completions.
func (c *OpenAIClient) SetModel(model string) {
	c.model = model
}

// GetModel returns the current model.
func (c *OpenAIClient) GetModel() string {
	return c.model
}
