// Package main provides the API router setup.
package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/airdesk-ai/airdesk/cmd/airdesk-api/handlers"
	"github.com/airdesk-ai/airdesk/cmd/airdesk-api/middleware"
	"github.com/airdesk-ai/airdesk/internal/engine"
	"github.com/airdesk-ai/airdesk/internal/observability"
	"github.com/airdesk-ai/airdesk/internal/session"
)

// NewRouter creates the API router with all routes configured.
func NewRouter(logger *observability.Logger, eng *engine.Engine, sessions *session.Manager, requestTimeout time.Duration) http.Handler {
	if logger == nil {
		logger = observability.Nop()
	}
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(chimiddleware.Timeout(requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"airdesk"}`))
	})

	chatHandler := handlers.NewChatHandler(logger, eng, sessions)
	sessionHandler := handlers.NewSessionHandler(logger, sessions)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/chat", chatHandler.Chat)
		r.Get("/stats", chatHandler.Stats)

		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", sessionHandler.Get)
			r.Delete("/", sessionHandler.Delete)
		})
	})

	return r
}
