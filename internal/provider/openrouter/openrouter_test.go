package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deskagent/internal/provider"
)

func TestComplete_SendsChatRequest(t *testing.T) {
	var gotAuth string
	var gotBody completionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": `{"action":"wait","seconds":1}`}},
			},
		})
	}))
	defer server.Close()

	p := New("test-key", "openai/gpt-4-turbo-preview", server.URL)
	text, err := p.Complete(context.Background(), &provider.CompletionRequest{
		System:      "contract",
		User:        "wait a second",
		Temperature: 0.1,
		MaxTokens:   1000,
	})
	require.NoError(t, err)

	assert.Equal(t, `{"action":"wait","seconds":1}`, text)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "openai/gpt-4-turbo-preview", gotBody.Model)
	require.Len(t, gotBody.Messages, 2)
	assert.Equal(t, "system", gotBody.Messages[0].Role)
	assert.Equal(t, "user", gotBody.Messages[1].Role)
}

func TestComplete_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := New("k", "m", server.URL).Complete(context.Background(), &provider.CompletionRequest{User: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestComplete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	_, err := New("k", "m", server.URL).Complete(context.Background(), &provider.CompletionRequest{User: "x"})
	assert.ErrorIs(t, err, provider.ErrEmptyResponse)
}
