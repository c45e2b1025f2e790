package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/airdesk-ai/airdesk/internal/observability"
	"github.com/airdesk-ai/airdesk/internal/session"
)

// SessionHandler handles session inspection and deletion.
type SessionHandler struct {
	logger   *observability.Logger
	sessions *session.Manager
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(logger *observability.Logger, sessions *session.Manager) *SessionHandler {
	return &SessionHandler{
		logger:   logger,
		sessions: sessions,
	}
}

// SessionMessageDTO represents one transcript message.
type SessionMessageDTO struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Intent    string    `json:"intent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionResponseDTO represents a session transcript.
type SessionResponseDTO struct {
	SessionID string              `json:"session_id"`
	Messages  []SessionMessageDTO `json:"messages"`
}

// Get handles GET /v1/sessions/{sessionID}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	history, err := h.sessions.History(r.Context(), sessionID)
	if errors.Is(err, session.ErrNotFound) {
		writeError(w, http.StatusNotFound, "session not found", "")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to load session")
		writeError(w, http.StatusInternalServerError, "session unavailable", "")
		return
	}

	messages := make([]SessionMessageDTO, 0, len(history))
	for _, msg := range history {
		messages = append(messages, SessionMessageDTO{
			Role:      string(msg.Role),
			Content:   msg.Content,
			Intent:    string(msg.Intent),
			Timestamp: msg.Timestamp,
		})
	}
	writeJSON(w, http.StatusOK, SessionResponseDTO{
		SessionID: sessionID,
		Messages:  messages,
	})
}

// Delete handles DELETE /v1/sessions/{sessionID}.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	err := h.sessions.Delete(r.Context(), sessionID)
	if errors.Is(err, session.ErrNotFound) {
		writeError(w, http.StatusNotFound, "session not found", "")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to delete session")
		writeError(w, http.StatusInternalServerError, "delete failed", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
