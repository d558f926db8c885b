// Package handler implements the local Roam stub backend: an in-process
// stand-in for the real photo-upload and itinerary endpoints, faithful to
// the documented contract. It exists for development and integration tests —
// the pipeline can run end-to-end against it without network access or an AI
// budget.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ekaravadi/roam/client/spec"
)

// Server holds the stub backend's handlers and their dependencies.
// When authToken is non-empty, both endpoints require a matching bearer
// token and answer 401 otherwise; an empty authToken makes the server
// accept unauthenticated requests, like the demo deployments do.
type Server struct {
	logger    *slog.Logger
	authToken string
}

// NewServer constructs the stub backend. A nil logger falls back to slog.Default.
func NewServer(logger *slog.Logger, authToken string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{logger: logger, authToken: authToken}
}

// Routes returns the chi router with all stub endpoints mounted under /api,
// plus /healthz and the embedded OpenAPI document. Middleware is wired by
// the caller so tests can exercise bare handlers.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/openapi.yaml", s.handleOpenAPI)

	r.Route("/api", func(r chi.Router) {
		r.Post("/photos/upload/batch", s.handleUploadBatch)
		r.Post("/ai/generate-itinerary", s.handleGenerateItinerary)
		// Older client builds call the short path; same handler.
		r.Post("/ai/itinerary", s.handleGenerateItinerary)
	})

	return r
}

// handleHealth answers GET /healthz with {"status":"ok"}.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleOpenAPI serves the embedded OpenAPI document.
func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	w.Write(spec.OpenAPI) //nolint:errcheck
}

// authorized checks the Authorization header against the configured token.
// With no token configured, every request passes.
func (s *Server) authorized(r *http.Request) bool {
	if s.authToken == "" {
		return true
	}
	return r.Header.Get("Authorization") == "Bearer "+s.authToken
}

// writeJSON serializes v to the response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// writeError answers with the backend's error envelope: {"error": message}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
