package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/claude/workoutgen/internal/storage"
	"github.com/claude/workoutgen/internal/workout"
	"github.com/go-chi/chi/v5"
)

// ImportLogSource lists past library imports.
type ImportLogSource interface {
	QueryImportLogs(ctx context.Context, limit int) ([]storage.ImportLog, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	svc      *workout.Service
	imports  ImportLogSource
	log      *slog.Logger
	apiKey   string
	identity func(http.Handler) http.Handler
	router   chi.Router
}

// New creates a new Server with all routes configured. imports may be nil
// when no database is configured.
func New(svc *workout.Service, imports ImportLogSource, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		svc:      svc,
		imports:  imports,
		log:      log,
		apiKey:   apiKey,
		identity: DevIdentity,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetTailscale switches request identity to the tailnet peer's profile. It
// may be called after New but before the server starts serving.
func (s *Server) SetTailscale(lc WhoIsClient) {
	s.identity = TailscaleIdentity(lc, s.log)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.identity(next).ServeHTTP(w, r)
		})
	})

	s.router.Get("/api/v1/me", s.handleMe)
	s.router.Get("/api/v1/pool", s.handlePool)
	s.router.Post("/api/v1/validate", s.handleValidate)
	s.router.Post("/api/v1/generate", s.handleGenerate)
	s.router.Post("/api/v1/reroll", s.handleReroll)
	s.router.Post("/api/v1/regenerate", s.handleRegenerate)
	s.router.Get("/api/v1/templates", s.handleListTemplates)

	// Template writes (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/templates", s.handleSaveTemplate)
		r.Delete("/api/v1/templates/{id}", s.handleDeleteTemplate)
	})

	if s.imports != nil {
		s.router.Get("/api/v1/import-logs", s.handleImportLogs)
	}
}
