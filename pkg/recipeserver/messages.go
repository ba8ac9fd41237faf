package recipeserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/chat"
	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/db/models"
)

type createMessageRequest struct {
	ConversationID string `json:"conversationId"`
	Content        string `json:"content"`
	Role           string `json:"role"`
}

// jsonListMessages handles GET /api/message?conversationId= with
// optional page and pageSize params. Messages come back oldest first.
func (s *Server) jsonListMessages(w http.ResponseWriter, req *http.Request) {
	user := s.requireUser(w, req)
	if user == nil {
		return
	}

	conversationIDParam := req.URL.Query().Get("conversationId")
	if conversationIDParam == "" {
		failureResponse(w, http.StatusBadRequest, "Conversation ID is required")
		return
	}
	conversationID, err := uuid.Parse(conversationIDParam)
	if err != nil {
		failureResponse(w, http.StatusBadRequest, "Invalid conversation ID format")
		return
	}

	page := 1
	if t := req.URL.Query().Get("page"); t != "" {
		page, _ = strconv.Atoi(t)
	}
	pageSize := chat.DefaultPageSize
	if t := req.URL.Query().Get("pageSize"); t != "" {
		pageSize, _ = strconv.Atoi(t)
	}

	messages, err := s.store.ListMessages(req.Context(), user.ID, conversationID, page, pageSize)
	if errors.Is(err, chat.ErrNotFound) {
		failureResponse(w, http.StatusNotFound, "Conversation not found")
		return
	}
	if err != nil {
		log.WithError(err).Error("error fetching messages")
		failureResponse(w, http.StatusInternalServerError, "An error occurred while fetching messages")
		return
	}

	RespondWithJSON(http.StatusOK, w, messages)
}

// jsonCreateMessage handles POST /api/message.
func (s *Server) jsonCreateMessage(w http.ResponseWriter, req *http.Request) {
	user := s.requireUser(w, req)
	if user == nil {
		return
	}

	var request createMessageRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		failureResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if request.ConversationID == "" || request.Content == "" || request.Role == "" {
		failureResponse(w, http.StatusBadRequest, "Conversation ID, content, and role are required")
		return
	}
	if request.Role != models.MessageRoleUser && request.Role != models.MessageRoleAssistant {
		failureResponse(w, http.StatusBadRequest, "Role must be user or assistant")
		return
	}

	conversationID, err := uuid.Parse(request.ConversationID)
	if err != nil {
		failureResponse(w, http.StatusBadRequest, "Invalid conversation ID format")
		return
	}

	message, err := s.store.AppendMessage(req.Context(), user.ID, conversationID, request.Role, request.Content, "", nil)
	if errors.Is(err, chat.ErrNotFound) {
		failureResponse(w, http.StatusNotFound, "Conversation not found")
		return
	}
	if err != nil {
		log.WithError(err).Error("error adding message")
		failureResponse(w, http.StatusInternalServerError, "An error occurred while adding the message")
		return
	}

	RespondWithJSON(http.StatusOK, w, message)
}
