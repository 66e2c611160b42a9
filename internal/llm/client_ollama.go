package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"promptshell/internal/logging"
)

// OllamaClient implements Client against a local Ollama server. No API key is
// required.
type OllamaClient struct {
	endpoint   string
	model      string
	maxTokens  int
	httpClient *http.Client
}

// OllamaConfig holds configuration for the Ollama client.
type OllamaConfig struct {
	Endpoint  string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// NewOllamaClient creates a client for the given endpoint and model, applying
// defaults for empty fields.
func NewOllamaClient(config OllamaConfig) *OllamaClient {
	if config.Endpoint == "" {
		config.Endpoint = "http://localhost:11434"
	}
	if config.Model == "" {
		config.Model = DefaultModels[ProviderOllama]
	}
	if config.Timeout == 0 {
		// Local models can be slow to load on first call.
		config.Timeout = 5 * time.Minute
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 4096
	}
	return &OllamaClient{
		endpoint:   config.Endpoint,
		model:      config.Model,
		maxTokens:  config.MaxTokens,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	NumPredict int `json:"num_predict,omitempty"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Complete sends a prompt and returns the completion.
func (c *OllamaClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt)
}

// CompleteWithSystem sends a prompt with a system message.
func (c *OllamaClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := ollamaGenerateRequest{
		Model:   c.model,
		Prompt:  userPrompt,
		System:  systemPrompt,
		Stream:  false,
		Options: ollamaOptions{NumPredict: c.maxTokens},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed (is the server running at %s?): %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		logging.APIError("[ollama] status %d: %s", resp.StatusCode, string(body))
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(body))
	}

	var or ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if or.Error != "" {
		return "", fmt.Errorf("ollama error: %s", or.Error)
	}

	logging.API("[ollama] ok model=%s", c.model)
	return strings.TrimSpace(or.Response), nil
}

// SetModel changes the model used for completions.
func (c *OllamaClient) SetModel(model string) {
	c.model = model
}

// GetModel returns the current model.
func (c *OllamaClient) GetModel() string {
	return c.model
}
