// Package api provides the HTTP API server and handlers for the Reel
// Wrapped application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/reelwrapped/reelwrapped-server/internal/http/response"
	"github.com/reelwrapped/reelwrapped-server/internal/service"
	"github.com/reelwrapped/reelwrapped-server/internal/store"
)

// Config holds the handler-level server settings.
type Config struct {
	CORSOrigins    []string
	UploadDir      string
	MaxUploadBytes int64
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	analysisService *service.AnalysisService
	store           *store.Store
	config          Config
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(analysisService *service.AnalysisService, store *store.Store, config Config, logger *slog.Logger) *Server {
	s := &Server{
		analysisService: analysisService,
		store:           store,
		config:          config,
		router:          chi.NewRouter(),
		logger:          logger,
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("Reel Wrapped API", "1.0.0")
	s.api = humachi.New(s.router, humaConfig)

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
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealthCheck)
	s.registerAnalyzeRoutes()
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
