package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat(t *testing.T) {
	var received ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"reply": "Try a chickpea curry.", "reasoning": "High protein, vegan."}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	response, err := client.Chat(context.Background(), "Suggest a vegan dinner", []HistoryMessage{
		{Role: "user", Content: "I'm vegan"},
		{Role: "assistant", Content: "Noted!"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Suggest a vegan dinner", received.Message)
	require.Len(t, received.ConversationHistory, 2)
	assert.Equal(t, "I'm vegan", received.ConversationHistory[0].Content)

	assert.Equal(t, "Try a chickpea curry.", response.Reply)
	assert.Equal(t, "High protein, vegan.", response.Reasoning)
	assert.Nil(t, response.Chart)
}

func TestChatSendsEmptyHistoryAsArray(t *testing.T) {
	var rawBody map[string]json.RawMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rawBody))
		_, _ = w.Write([]byte(`{"reply": "ok"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Chat(context.Background(), "hello", nil)
	require.NoError(t, err)

	// The agent expects a list, not null.
	assert.JSONEq(t, `[]`, string(rawBody["conversation_history"]))
}

func TestChatPassesChartThroughUnparsed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"reply": "Here's your week", "chart": {"data": [], "x_column": "day", "y_column": "calories", "chart_type": "line"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	response, err := client.Chat(context.Background(), "chart my calories", nil)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"data": [], "x_column": "day", "y_column": "calories", "chart_type": "line"}`,
		string(response.Chart))
}

func TestChatErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Chat(context.Background(), "hello", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestChatNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL)
	_, err := client.Chat(context.Background(), "hello", nil)
	assert.Error(t, err)
}

func TestChatMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"reply": `))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Chat(context.Background(), "hello", nil)
	assert.Error(t, err)
}
