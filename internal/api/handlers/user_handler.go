package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// NewUserPayload defines the structure for user creation requests.
type NewUserPayload struct {
	Username string `form:"username" validate:"required"`
}

// NewUser handles user creation.
func (h *ExerciseHandler) NewUser(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	payload := NewUserPayload{Username: fields["username"]}
	if err := checkPayload(payload); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.service.CreateUser(r.Context(), payload.Username)
	if err != nil {
		log.Warn().Err(err).Str("username", payload.Username).Msg("Failed to create user")
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// ListUsers returns every user.
func (h *ExerciseHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
