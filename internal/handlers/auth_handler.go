package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lingua/internal/services/session"
)

// SessionCookieName is the cookie carrying the session ID.
const SessionCookieName = "lingua_session"

// AuthHandler handles password login and logout.
type AuthHandler struct {
	sessions *session.Manager
	logger   arbor.ILogger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(sessions *session.Manager, logger arbor.ILogger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		logger:   logger,
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

// LoginHandler exchanges a password for a session cookie. The response
// carries the resolved language and its UI labels so the client can render
// localized immediately.
func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess, err := h.sessions.Authenticate(req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidPassword) {
			WriteError(w, http.StatusUnauthorized, "Invalid password")
			return
		}
		h.logger.Error().Err(err).Msg("Login failed")
		WriteError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"language": sess.Language,
		"labels":   sess.Profile().Labels,
	})
}

// LogoutHandler deletes the session and clears the cookie.
func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		h.sessions.Delete(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	WriteSuccess(w, "Logged out")
}
