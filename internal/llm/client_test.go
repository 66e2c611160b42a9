package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openAIResponse(content string) chatResponse {
	var cr chatResponse
	cr.Model = "test-model"
	cr.Choices = []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	}{{}}
	cr.Choices[0].Message.Role = "assistant"
	cr.Choices[0].Message.Content = content
	return cr
}

func TestOpenAIClientComplete(t *testing.T) {
	var gotReq chatRequest
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(openAIResponse("  ls -la\n"))
	}))
	defer srv.Close()

	c := NewOpenAIClientWithConfig(OpenAIConfig{
		APIKey:  "sk-test",
		BaseURL: srv.URL,
		Model:   "gpt-4o",
	})

	out, err := c.CompleteWithSystem(context.Background(), "you are a translator", "list files")
	require.NoError(t, err)
	assert.Equal(t, "ls -la", out, "response must be trimmed")
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
}

func TestOpenAIClientNoSystemMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		_ = json.NewEncoder(w).Encode(openAIResponse("pwd"))
	}))
	defer srv.Close()

	c := NewOpenAIClientWithConfig(OpenAIConfig{APIKey: "k", BaseURL: srv.URL, Model: "m"})
	out, err := c.Complete(context.Background(), "where am I")
	require.NoError(t, err)
	assert.Equal(t, "pwd", out)
}

func TestOpenAIClientMissingKey(t *testing.T) {
	c := NewOpenAIClient("")
	_, err := c.Complete(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestOpenAIClientRetriesOn429(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(openAIResponse("ok"))
	}))
	defer srv.Close()

	c := NewOpenAIClientWithConfig(OpenAIConfig{APIKey: "k", BaseURL: srv.URL, Model: "m"})
	out, err := c.Complete(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 2, attempts)
}

func TestOpenAIClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewOpenAIClientWithConfig(OpenAIConfig{APIKey: "k", BaseURL: srv.URL, Model: "m"})
	_, err := c.Complete(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestOpenAIClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": {"message": "model not found", "type": "invalid_request_error"}}`))
	}))
	defer srv.Close()

	c := NewOpenAIClientWithConfig(OpenAIConfig{APIKey: "k", BaseURL: srv.URL, Model: "m"})
	_, err := c.Complete(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestOpenRouterHeaders(t *testing.T) {
	c := NewOpenRouterClient("k")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PromptShell", r.Header.Get("X-Title"))
		assert.NotEmpty(t, r.Header.Get("HTTP-Referer"))
		_ = json.NewEncoder(w).Encode(openAIResponse("ok"))
	}))
	defer srv.Close()
	c.baseURL = srv.URL

	_, err := c.Complete(context.Background(), "x")
	require.NoError(t, err)
}

func TestAnthropicClientComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "translate", req.System)

		_, _ = w.Write([]byte(`{"content": [{"type": "text", "text": "df "}, {"type": "text", "text": "-h"}]}`))
	}))
	defer srv.Close()

	c := NewAnthropicClientWithConfig(AnthropicConfig{
		APIKey:  "sk-ant",
		BaseURL: srv.URL,
		Model:   "claude-sonnet-4-20250514",
	})

	out, err := c.CompleteWithSystem(context.Background(), "translate", "disk usage")
	require.NoError(t, err)
	assert.Equal(t, "df -h", out, "text blocks are concatenated")
}

func TestOllamaClientComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		var req ollamaGenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		assert.Equal(t, "uptime please", req.Prompt)
		_ = json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: "uptime", Done: true})
	}))
	defer srv.Close()

	c := NewOllamaClient(OllamaConfig{Endpoint: srv.URL, Model: "llama3.2"})
	out, err := c.Complete(context.Background(), "uptime please")
	require.NoError(t, err)
	assert.Equal(t, "uptime", out)
}

func TestOllamaClientUnreachable(t *testing.T) {
	c := NewOllamaClient(OllamaConfig{
		Endpoint: "http://127.0.0.1:1",
		Model:    "llama3.2",
		Timeout:  200 * time.Millisecond,
	})
	_, err := c.Complete(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is the server running")
}

func TestProviderValid(t *testing.T) {
	assert.True(t, ProviderOllama.Valid())
	assert.True(t, ProviderDeepSeek.Valid())
	assert.False(t, Provider("palm").Valid())
}
