package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ternarybob/lingua/internal/services/session"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a standard success JSON response.
func WriteSuccess(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": message,
	})
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

type contextKey string

const sessionContextKey contextKey = "lingua_session"

// WithSession attaches an authenticated session to the request context.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SessionFromContext returns the authenticated session, or nil when the
// request did not pass the auth middleware.
func SessionFromContext(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionContextKey).(*session.Session)
	return sess
}

// RequireSession fetches the session from the context, writing a 401 when
// it is missing.
func RequireSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess := SessionFromContext(r.Context())
	if sess == nil {
		WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return nil, false
	}
	return sess, true
}
