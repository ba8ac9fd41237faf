package recipeserver

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/chat"
)

type conversationTitleRequest struct {
	Title string `json:"title"`
}

// jsonCreateConversation handles POST /api/conversation.
func (s *Server) jsonCreateConversation(w http.ResponseWriter, req *http.Request) {
	user := s.requireUser(w, req)
	if user == nil {
		return
	}

	var request conversationTitleRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		failureResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if request.Title == "" {
		failureResponse(w, http.StatusBadRequest, "Title is required")
		return
	}

	conversation, err := s.store.CreateConversation(req.Context(), user.ID, request.Title)
	if err != nil {
		log.WithError(err).Error("error creating conversation")
		failureResponse(w, http.StatusInternalServerError, "An error occurred while creating the conversation")
		return
	}

	log.WithFields(log.Fields{
		"user":           user.Email,
		"conversationID": conversation.ID,
	}).Info("conversation created")

	RespondWithJSON(http.StatusCreated, w, conversation)
}

// jsonListConversations handles GET /api/conversation, most recently
// updated first.
func (s *Server) jsonListConversations(w http.ResponseWriter, req *http.Request) {
	user := s.requireUser(w, req)
	if user == nil {
		return
	}

	conversations, err := s.store.ListConversations(req.Context(), user.ID)
	if err != nil {
		log.WithError(err).Error("error fetching conversations")
		failureResponse(w, http.StatusInternalServerError, "An error occurred while fetching conversations")
		return
	}

	RespondWithJSON(http.StatusOK, w, conversations)
}

// conversationIDFromPath parses the {id} path variable, writing a 400
// on malformed input.
func conversationIDFromPath(w http.ResponseWriter, req *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(req)["id"])
	if err != nil {
		failureResponse(w, http.StatusBadRequest, "Invalid conversation ID format")
		return uuid.Nil, false
	}
	return id, true
}

// jsonUpdateConversationTitle handles PATCH /api/conversation/{id}.
func (s *Server) jsonUpdateConversationTitle(w http.ResponseWriter, req *http.Request) {
	user := s.requireUser(w, req)
	if user == nil {
		return
	}

	conversationID, ok := conversationIDFromPath(w, req)
	if !ok {
		return
	}

	var request conversationTitleRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		failureResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if request.Title == "" {
		failureResponse(w, http.StatusBadRequest, "Title is required")
		return
	}

	conversation, err := s.store.UpdateConversationTitle(req.Context(), user.ID, conversationID, request.Title)
	if errors.Is(err, chat.ErrNotFound) {
		failureResponse(w, http.StatusNotFound, "Conversation not found")
		return
	}
	if err != nil {
		log.WithError(err).Error("error updating conversation")
		failureResponse(w, http.StatusInternalServerError, "An error occurred while updating the conversation")
		return
	}

	RespondWithJSON(http.StatusOK, w, conversation)
}

// jsonDeleteConversation handles DELETE /api/conversation/{id}. The
// conversation and its messages go together or not at all.
func (s *Server) jsonDeleteConversation(w http.ResponseWriter, req *http.Request) {
	user := s.requireUser(w, req)
	if user == nil {
		return
	}

	conversationID, ok := conversationIDFromPath(w, req)
	if !ok {
		return
	}

	err := s.store.DeleteConversation(req.Context(), user.ID, conversationID)
	if errors.Is(err, chat.ErrNotFound) {
		failureResponse(w, http.StatusNotFound, "Conversation not found")
		return
	}
	if err != nil {
		log.WithError(err).Error("error deleting conversation")
		failureResponse(w, http.StatusInternalServerError, "An error occurred while deleting the conversation and its messages")
		return
	}

	log.WithFields(log.Fields{
		"user":           user.Email,
		"conversationID": conversationID,
	}).Info("conversation deleted")

	RespondWithJSON(http.StatusOK, w, map[string]string{
		"message": "Conversation and associated messages deleted successfully",
	})
}
