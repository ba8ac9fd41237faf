package recipeserver

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"

	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/chart"
	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/chat"
	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/db/models"
)

// maxHistoryMessages bounds the context window sent to the agent.
const maxHistoryMessages = 5

var (
	chatTurnsMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recipe_chat_turns_total",
		Help: "Number of chat turns processed",
	})
	chatAgentFailuresMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recipe_chat_agent_failures_total",
		Help: "Number of chat turns that failed at the recipe agent",
	})
	titlesGeneratedMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recipe_chat_titles_generated_total",
		Help: "Number of conversation titles generated",
	})
)

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId"`
}

type chatResponse struct {
	Reply     string       `json:"reply"`
	Reasoning string       `json:"reasoning,omitempty"`
	Chart     *chart.Chart `json:"chart,omitempty"`
}

// jsonChat handles POST /api/chat, one full turn: persist the user
// message, submit it with bounded history to the agent, persist the
// reply, and hand it back. If the agent fails after the user message
// was saved, the conversation is left half-answered on purpose; there
// is no rollback or retry.
func (s *Server) jsonChat(w http.ResponseWriter, req *http.Request) {
	user := s.requireUser(w, req)
	if user == nil {
		return
	}

	var request chatRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		failureResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if request.Message == "" || request.ConversationID == "" {
		failureResponse(w, http.StatusBadRequest, "Message and conversationId are required")
		return
	}
	conversationID, err := uuid.Parse(request.ConversationID)
	if err != nil {
		failureResponse(w, http.StatusBadRequest, "Invalid conversation ID format")
		return
	}

	ctx := req.Context()
	chatTurnsMetric.Inc()

	if _, err := s.store.AppendMessage(ctx, user.ID, conversationID, models.MessageRoleUser, request.Message, "", nil); err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			failureResponse(w, http.StatusNotFound, "Conversation not found")
			return
		}
		log.WithError(err).Error("error saving user message")
		failureResponse(w, http.StatusInternalServerError, "An error occurred while processing your request")
		return
	}

	history, err := s.store.HistoryWindow(ctx, user.ID, conversationID, maxHistoryMessages)
	if err != nil {
		log.WithError(err).Error("error fetching conversation history")
		failureResponse(w, http.StatusInternalServerError, "An error occurred while processing your request")
		return
	}

	agentResponse, err := s.agent.Chat(ctx, request.Message, history)
	if err != nil {
		chatAgentFailuresMetric.Inc()
		log.WithError(err).WithField("conversationID", conversationID).Error("recipe agent request failed")
		failureResponse(w, http.StatusInternalServerError, "An error occurred while processing your request")
		return
	}

	var chartPayload *chart.Chart
	if len(agentResponse.Chart) > 0 {
		chartPayload, err = chart.Parse(agentResponse.Chart)
		if err != nil {
			// A bad chart doesn't fail the turn; the reply stands on
			// its own.
			log.WithError(err).WithField("conversationID", conversationID).Warn("dropping invalid chart payload")
			chartPayload = nil
		}
	}

	if _, err := s.store.AppendMessage(ctx, user.ID, conversationID, models.MessageRoleAssistant, agentResponse.Reply, agentResponse.Reasoning, chartPayload); err != nil {
		log.WithError(err).Error("error saving assistant message")
		failureResponse(w, http.StatusInternalServerError, "An error occurred while processing your request")
		return
	}

	s.maybeGenerateTitle(ctx, user.ID, conversationID, request.Message)

	RespondWithJSON(http.StatusOK, w, chatResponse{
		Reply:     agentResponse.Reply,
		Reasoning: agentResponse.Reasoning,
		Chart:     chartPayload,
	})
}

// maybeGenerateTitle titles the conversation after its first user
// message. Every failure is logged and swallowed; the default title is
// an acceptable outcome.
func (s *Server) maybeGenerateTitle(ctx context.Context, userID, conversationID uuid.UUID, firstUserMessage string) {
	if s.titles == nil {
		return
	}

	count, err := s.store.CountUserMessages(ctx, userID, conversationID)
	if err != nil {
		log.WithError(err).Warn("could not count user messages for title generation")
		return
	}
	if count != 1 {
		return
	}

	title, err := s.titles.GenerateTitle(ctx, firstUserMessage)
	if err != nil {
		log.WithError(err).WithField("conversationID", conversationID).Warn("title generation failed")
		return
	}

	conversation, err := s.store.GetConversation(ctx, userID, conversationID)
	if err != nil {
		log.WithError(err).Warn("could not fetch conversation for title update")
		return
	}
	if title == conversation.Title {
		return
	}

	if _, err := s.store.UpdateConversationTitle(ctx, userID, conversationID, title); err != nil {
		log.WithError(err).Warn("could not update generated conversation title")
		return
	}

	titlesGeneratedMetric.Inc()
	log.WithFields(log.Fields{
		"conversationID": conversationID,
		"title":          title,
	}).Info("conversation title generated")
}

type generateTitleRequest struct {
	ConversationID string `json:"conversationId"`
	Message        string `json:"message"`
}

// jsonGenerateTitle handles POST /api/generate-title, the explicit
// title endpoint the dashboard calls. The inline path in jsonChat
// covers the normal flow; this one exists for clients that want to
// retry a failed generation.
func (s *Server) jsonGenerateTitle(w http.ResponseWriter, req *http.Request) {
	user := s.requireUser(w, req)
	if user == nil {
		return
	}

	var request generateTitleRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		failureResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if request.ConversationID == "" || request.Message == "" {
		failureResponse(w, http.StatusBadRequest, "Message and conversationId are required")
		return
	}
	conversationID, err := uuid.Parse(request.ConversationID)
	if err != nil {
		failureResponse(w, http.StatusBadRequest, "Invalid conversation ID format")
		return
	}

	if s.titles == nil {
		failureResponse(w, http.StatusInternalServerError, "Title generation is not configured")
		return
	}

	conversation, err := s.store.GetConversation(req.Context(), user.ID, conversationID)
	if errors.Is(err, chat.ErrNotFound) {
		failureResponse(w, http.StatusNotFound, "Conversation not found")
		return
	}
	if err != nil {
		log.WithError(err).Error("error fetching conversation")
		failureResponse(w, http.StatusInternalServerError, "An error occurred while generating the title")
		return
	}

	title, err := s.titles.GenerateTitle(req.Context(), request.Message)
	if err != nil {
		log.WithError(err).Error("title generation failed")
		failureResponse(w, http.StatusInternalServerError, "An error occurred while generating the title")
		return
	}

	if title != conversation.Title {
		if _, err := s.store.UpdateConversationTitle(req.Context(), user.ID, conversationID, title); err != nil {
			log.WithError(err).Error("could not update conversation title")
			failureResponse(w, http.StatusInternalServerError, "An error occurred while generating the title")
			return
		}
		titlesGeneratedMetric.Inc()
	}

	RespondWithJSON(http.StatusOK, w, map[string]string{"title": title})
}
