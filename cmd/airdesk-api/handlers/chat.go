package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/airdesk-ai/airdesk/internal/conversation"
	"github.com/airdesk-ai/airdesk/internal/engine"
	"github.com/airdesk-ai/airdesk/internal/observability"
	"github.com/airdesk-ai/airdesk/internal/session"
)

// ChatHandler handles chat turns.
type ChatHandler struct {
	logger   *observability.Logger
	engine   *engine.Engine
	sessions *session.Manager
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(logger *observability.Logger, eng *engine.Engine, sessions *session.Manager) *ChatHandler {
	return &ChatHandler{
		logger:   logger,
		engine:   eng,
		sessions: sessions,
	}
}

// ChatRequestDTO represents one user message. SessionID may be empty;
// a new session is then created and its ID returned.
type ChatRequestDTO struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

// ChatResponseDTO represents the assistant's reply.
type ChatResponseDTO struct {
	SessionID  string      `json:"session_id"`
	Text       string      `json:"text"`
	Kind       string      `json:"kind"`
	Intent     string      `json:"intent"`
	Confidence float64     `json:"confidence"`
	Data       interface{} `json:"data,omitempty"`
	Source     string      `json:"source,omitempty"`
	LatencyMs  int64       `json:"latency_ms"`
}

// Chat handles POST /v1/chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ChatRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required", "")
		return
	}

	sessionID, err := h.sessions.Resolve(ctx, req.SessionID)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to resolve session")
		writeError(w, http.StatusInternalServerError, "session unavailable", "")
		return
	}

	var resp engine.Response
	err = h.sessions.With(ctx, sessionID, func(convCtx *conversation.Context) error {
		resp = h.engine.ProcessQuery(ctx, convCtx, req.Message)
		return nil
	})
	if err != nil {
		h.logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to process query")
		writeError(w, http.StatusInternalServerError, "processing failed", "")
		return
	}

	writeJSON(w, http.StatusOK, ChatResponseDTO{
		SessionID:  sessionID,
		Text:       resp.Text,
		Kind:       resp.Kind,
		Intent:     string(resp.Intent),
		Confidence: resp.Confidence,
		Data:       resp.Data,
		Source:     resp.Source,
		LatencyMs:  resp.Elapsed.Milliseconds(),
	})
}

// Stats handles GET /v1/stats.
func (h *ChatHandler) Stats(w http.ResponseWriter, r *http.Request) {
	snapshot := h.engine.Stats()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_queries":       snapshot.TotalQueries,
		"intent_distribution": snapshot.IntentDistribution,
		"avg_processing_ms":   snapshot.AvgProcessingTime.Milliseconds(),
		"live_sessions":       h.sessions.Len(),
	})
}
