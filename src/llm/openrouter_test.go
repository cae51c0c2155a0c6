package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRouterComplete(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"intent\":\"check_balance\"}"}}]}`))
	}))
	defer server.Close()

	client := NewOpenRouterClient("test-key", server.URL+"/", "test-model")
	content, err := client.Complete(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, `{"intent":"check_balance"}`, content)
	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, []chatMessage{{Role: "user", Content: "hello"}}, got.Messages)
	assert.Equal(t, defaultMaxTokens, got.MaxTokens)
	assert.Zero(t, got.Temperature)
}

func TestOpenRouterCompleteErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"api error message", http.StatusTooManyRequests, `{"error":{"message":"rate limited"}}`, "API request failed (429): rate limited"},
		{"plain error body", http.StatusBadGateway, `upstream down`, "API request failed (502): upstream down"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "response has no message content"},
		{"blank content", http.StatusOK, `{"choices":[{"message":{"content":"  "}}]}`, "response has no message content"},
		{"malformed body", http.StatusOK, `{"choices":`, "failed to decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewOpenRouterClient("k", server.URL, "m").Complete(context.Background(), "p")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOpenRouterMissingKey(t *testing.T) {
	_, err := NewOpenRouterClient("", "http://127.0.0.1:0", "m").Complete(context.Background(), "p")
	assert.EqualError(t, err, "OPENROUTER_API_KEY not set")
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "", "gemini-2.5-flash")
	assert.EqualError(t, err, "GEMINI_API_KEY not set")
}
