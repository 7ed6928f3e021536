// Package api provides the HTTP API server for the ReadNext gateway.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/readnextapp/readnext-server/internal/bot"
	"github.com/readnextapp/readnext-server/internal/config"
	"github.com/readnextapp/readnext-server/internal/ratelimit"
	"github.com/readnextapp/readnext-server/internal/service"
	"github.com/readnextapp/readnext-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store       *store.Store
	suggestions *service.SuggestionService
	dispatcher  *bot.Dispatcher
	router      *chi.Mux
	api         huma.API
	rateLimiter *ratelimit.KeyedRateLimiter
	logger      *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg *config.Config, st *store.Store, suggestions *service.SuggestionService, dispatcher *bot.Dispatcher, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	humaConfig := huma.DefaultConfig("ReadNext API", "1.0.0")
	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:       st,
		suggestions: suggestions,
		dispatcher:  dispatcher,
		router:      router,
		api:         api,
		rateLimiter: ratelimit.New(cfg.RateLimit.PerUserRPS, cfg.RateLimit.Burst),
		logger:      logger,
	}

	s.registerHealthRoutes()
	s.registerSuggestionRoutes()
	s.registerInteractionRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
