// Package api provides the HTTP API server and handlers for the BookSphere
// application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/booksphere/booksphere-server/internal/config"
	"github.com/booksphere/booksphere-server/internal/ratelimit"
	"github.com/booksphere/booksphere-server/internal/realtime"
	"github.com/booksphere/booksphere-server/internal/signedurl"
	"github.com/booksphere/booksphere-server/internal/store"
)

// Version reported by the OpenAPI document and the health endpoint.
const Version = "1.0.0"

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           *store.Store
	services        *Services
	wsHandler       *realtime.Handler
	hub             *realtime.Hub
	signer          *signedurl.Signer
	backgroundsDir  string
	router          *chi.Mux
	api             huma.API
	authRateLimiter *ratelimit.KeyedRateLimiter
	logger          *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st *store.Store, services *Services, wsHandler *realtime.Handler, hub *realtime.Hub, signer *signedurl.Signer, cfg *config.Config, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Server.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(authMiddleware(services.Auth))

	// Login and registration attempts are limited per client IP.
	limiter := ratelimit.New(20.0/60.0, 10)
	router.Use(authRateLimit(limiter, logger))

	humaConfig := huma.DefaultConfig("BookSphere API", Version)
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:           st,
		services:        services,
		wsHandler:       wsHandler,
		hub:             hub,
		signer:          signer,
		backgroundsDir:  cfg.Data.BasePath,
		router:          router,
		api:             api,
		authRateLimiter: limiter,
		logger:          logger,
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerMoodRoutes()
	s.registerPresetRoutes()
	s.registerSettingsRoutes()
	s.registerSyncRoutes()

	// Websocket upgrade and signed file downloads bypass huma: neither
	// speaks JSON.
	if wsHandler != nil {
		router.Get("/api/v1/ws", wsHandler.ServeHTTP)
	}
	router.Get("/api/v1/files/{token}", s.handleSignedFile)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
