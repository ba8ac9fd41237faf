package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeCompletions(t *testing.T, content string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var request map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		assert.Equal(t, "gpt-4o-mini", request["model"])

		w.Header().Set("Content-Type", "application/json")
		response := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]interface{}{"role": "assistant", "content": content}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(response))
	}))
}

func TestGenerateTitle(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	server := newFakeCompletions(t, "Weekly Vegan Meal Plan")
	defer server.Close()

	llm := NewLLMClient(server.URL, "gpt-4o-mini")
	title, err := llm.GenerateTitle(context.Background(), "Plan my week of vegan meals")
	require.NoError(t, err)
	assert.Equal(t, "Weekly Vegan Meal Plan", title)
}

func TestGenerateTitleTrimsQuotesAndWhitespace(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	server := newFakeCompletions(t, "  \"Weeknight Pasta Ideas\"\n")
	defer server.Close()

	llm := NewLLMClient(server.URL, "gpt-4o-mini")
	title, err := llm.GenerateTitle(context.Background(), "What pasta should I make tonight?")
	require.NoError(t, err)
	assert.Equal(t, "Weeknight Pasta Ideas", title)
}

func TestGenerateTitleEmptyContent(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	server := newFakeCompletions(t, "  \"\"  ")
	defer server.Close()

	llm := NewLLMClient(server.URL, "gpt-4o-mini")
	_, err := llm.GenerateTitle(context.Background(), "hello")
	assert.Error(t, err)
}

func TestChatNoChoices(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	llm := NewLLMClient(server.URL, "gpt-4o-mini")
	_, err := llm.Chat(context.Background(), "instructions", "data")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content choices")
}
