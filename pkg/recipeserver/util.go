package recipeserver

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/chat"
	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/db/models"
)

// ForwardedUserHeader carries the identity asserted by the fronting
// auth proxy.
const ForwardedUserHeader = "X-Forwarded-User"

// RespondWithJSON writes a JSON payload with the given status code.
func RespondWithJSON(code int, w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Error("could not write JSON response")
	}
}

func failureResponse(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(code, w, map[string]interface{}{
		"code":    code,
		"message": message,
	})
}

func getUserForRequest(req *http.Request) string {
	return req.Header.Get(ForwardedUserHeader)
}

// requireUser resolves the request's identity header to a user record.
// On failure it writes the error response and returns nil; callers just
// return. A missing session is a 400 here, matching what the UI
// expects.
func (s *Server) requireUser(w http.ResponseWriter, req *http.Request) *models.User {
	email := getUserForRequest(req)
	if email == "" {
		failureResponse(w, http.StatusBadRequest, "User authentication required")
		return nil
	}

	user, err := s.store.GetUserByEmail(req.Context(), email)
	if err == chat.ErrUserNotFound {
		failureResponse(w, http.StatusBadRequest, "User authentication required")
		return nil
	}
	if err != nil {
		log.WithError(err).Error("error resolving request user")
		failureResponse(w, http.StatusInternalServerError, "An error occurred while resolving the user")
		return nil
	}

	return user
}
