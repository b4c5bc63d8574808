// Package api provides the HTTP API server and handlers for the ScriptRoom server.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/scriptroom/scriptroom-server/internal/align"
	"github.com/scriptroom/scriptroom-server/internal/http/response"
	"github.com/scriptroom/scriptroom-server/internal/logger"
	"github.com/scriptroom/scriptroom-server/internal/store"
	"github.com/scriptroom/scriptroom-server/internal/tts"
	"github.com/scriptroom/scriptroom-server/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store        *store.Store
	orchestrator *align.Orchestrator
	generator    *tts.Generator
	validator    *validation.Validator
	router       *chi.Mux
	logger       *logger.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(store *store.Store, orchestrator *align.Orchestrator, generator *tts.Generator, log *logger.Logger) *Server {
	s := &Server{
		store:        store,
		orchestrator: orchestrator,
		generator:    generator,
		validator:    validation.New(),
		router:       chi.NewRouter(),
		logger:       log,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		// The editing UI is served from a local dev server.
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/projects", func(r chi.Router) {
			r.Post("/", s.handleCreateProject)
			r.Get("/", s.handleListProjects)

			r.Route("/{projectID}", func(r chi.Router) {
				r.Get("/", s.handleGetProject)

				r.Route("/characters", func(r chi.Router) {
					r.Post("/", s.handleCreateCharacter)
					r.Get("/", s.handleListCharacters)
					r.Post("/{characterID}/merge", s.handleMergeCharacter)
					r.Post("/{characterID}/generate", s.handleGenerateVoice)
				})

				r.Route("/chapters", func(r chi.Router) {
					r.Post("/", s.handleCreateChapter)
					r.Get("/", s.handleListChapters)
					r.Get("/{chapterID}", s.handleGetChapter)
				})

				r.Post("/import", s.handleImport)
				r.Get("/masters/{masterID}", s.handleGetMasterAudio)
			})
		})

		r.Get("/audio/{blobID}", s.handleGetAudio)
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger.Logger)
}
