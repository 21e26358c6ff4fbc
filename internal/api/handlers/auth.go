package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nikhilbhutani/swasthlog/internal/auth"
	"github.com/nikhilbhutani/swasthlog/internal/models"
)

type AuthHandler struct {
	creds auth.CredentialStore
	jwt   *auth.JWTMiddleware
}

func NewAuthHandler(creds auth.CredentialStore, jwt *auth.JWTMiddleware) *AuthHandler {
	return &AuthHandler{creds: creds, jwt: jwt}
}

// Login validates a mobile/password pair against the credential store and
// returns a bearer token. Failure re-prompts: 401, nothing else happens.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mobile   string `json:"mobile"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Mobile == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "mobile and password required"})
		return
	}

	if err := h.creds.Validate(r.Context(), req.Mobile, req.Password); err != nil {
		if errors.Is(err, models.ErrAuthFailure) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	token, err := h.jwt.Issue(req.Mobile)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not issue token"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
