// Package agent is the client for the recipe agent, the external
// completion service that turns a message plus recent history into a
// reply and, sometimes, a chart.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const defaultTimeout = 60 * time.Second

// HistoryMessage is one prior turn, as the agent expects it.
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the agent's wire format for a chat turn.
type ChatRequest struct {
	Message             string           `json:"message"`
	ConversationHistory []HistoryMessage `json:"conversation_history"`
}

// ChatResponse is the agent's reply. Chart is left raw here; it gets
// validated by the caller before anything else touches it.
type ChatResponse struct {
	Reply     string          `json:"reply"`
	Reasoning string          `json:"reasoning,omitempty"`
	Chart     json.RawMessage `json:"chart,omitempty"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the agent at baseURL, e.g.
// "http://localhost:8000". A request timeout is always set; a hung
// agent must not pin request handlers forever.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Chat submits one turn to the agent and returns its reply. There is no
// retry; callers surface a failure to the user as-is.
func (c *Client) Chat(ctx context.Context, message string, history []HistoryMessage) (*ChatResponse, error) {
	if history == nil {
		history = []HistoryMessage{}
	}
	payload, err := json.Marshal(ChatRequest{
		Message:             message,
		ConversationHistory: history,
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not encode chat request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "could not build chat request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "agent request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("agent request failed with status %d", resp.StatusCode)
	}

	var chatResponse ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResponse); err != nil {
		return nil, errors.Wrap(err, "could not decode agent response")
	}

	return &chatResponse, nil
}
