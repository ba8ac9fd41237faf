package recipeserver

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/chat"
)

type createUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// jsonCreateUser handles POST /api/user (sign-up). The only endpoint
// that doesn't require an identity header.
func (s *Server) jsonCreateUser(w http.ResponseWriter, req *http.Request) {
	var request createUserRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		failureResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if request.Email == "" || request.Password == "" {
		failureResponse(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := s.store.CreateUser(req.Context(), request.Email, request.Name, request.Password)
	if errors.Is(err, chat.ErrEmailTaken) {
		failureResponse(w, http.StatusConflict, "Email already registered")
		return
	}
	if err != nil {
		log.WithError(err).Error("error creating user")
		failureResponse(w, http.StatusInternalServerError, "An error occurred while creating the user")
		return
	}

	log.WithField("user", user.Email).Info("user created")
	RespondWithJSON(http.StatusCreated, w, user)
}

// jsonGetUser handles GET /api/user, returning the requester's record.
func (s *Server) jsonGetUser(w http.ResponseWriter, req *http.Request) {
	user := s.requireUser(w, req)
	if user == nil {
		return
	}
	RespondWithJSON(http.StatusOK, w, user)
}

type checkPasswordRequest struct {
	Password string `json:"password"`
}

// jsonCheckPassword handles POST /api/user/check-password. Used by the
// settings page before destructive account actions.
func (s *Server) jsonCheckPassword(w http.ResponseWriter, req *http.Request) {
	user := s.requireUser(w, req)
	if user == nil {
		return
	}

	var request checkPasswordRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		failureResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if request.Password == "" {
		failureResponse(w, http.StatusBadRequest, "Password is required")
		return
	}

	valid, err := s.store.CheckPassword(req.Context(), user.ID, request.Password)
	if err != nil {
		log.WithError(err).Error("error checking password")
		failureResponse(w, http.StatusInternalServerError, "An error occurred while checking the password")
		return
	}

	RespondWithJSON(http.StatusOK, w, map[string]bool{"valid": valid})
}

// jsonDeleteUser handles DELETE /api/user. Deletion cascades to the
// user's conversations and messages in one transaction.
func (s *Server) jsonDeleteUser(w http.ResponseWriter, req *http.Request) {
	user := s.requireUser(w, req)
	if user == nil {
		return
	}

	if err := s.store.DeleteUser(req.Context(), user.ID); err != nil {
		log.WithError(err).Error("error deleting user")
		failureResponse(w, http.StatusInternalServerError, "An error occurred while deleting the user")
		return
	}

	log.WithField("user", user.Email).Info("user deleted")
	RespondWithJSON(http.StatusOK, w, map[string]string{
		"message": "User and associated data deleted successfully",
	})
}
