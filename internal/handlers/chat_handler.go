package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lingua/internal/services/session"
)

// ChatHandler handles the website RAG conversation endpoints.
type ChatHandler struct {
	sessions *session.Manager
	logger   arbor.ILogger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(sessions *session.Manager, logger arbor.ILogger) *ChatHandler {
	return &ChatHandler{
		sessions: sessions,
		logger:   logger,
	}
}

type chatRequest struct {
	URL     string `json:"url"`
	Message string `json:"message"`
}

// ChatHandler runs one conversational turn against the indexed page and
// returns the full ordered history.
func (h *ChatHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}
	sess, ok := RequireSession(w, r)
	if !ok {
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	conv, err := h.sessions.Chat(r.Context(), sess, req.URL, req.Message)
	if err != nil {
		if errors.Is(err, session.ErrEmptyInput) {
			WriteError(w, http.StatusBadRequest, sess.Profile().Labels.URLPrompt)
			return
		}
		h.logger.Error().Err(err).Str("url", req.URL).Msg("Chat turn failed")
		WriteError(w, http.StatusInternalServerError, sess.Profile().Labels.ChatFailed)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"url":   conv.URL,
		"turns": conv.Turns,
	})
}

// HistoryHandler returns the current conversation for a URL, seeding a
// greeting-only view when the conversation has not started.
func (h *ChatHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	sess, ok := RequireSession(w, r)
	if !ok {
		return
	}

	conv := h.sessions.ChatHistory(sess, r.URL.Query().Get("url"))
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"url":   conv.URL,
		"turns": conv.Turns,
	})
}
