package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/waqet/groundops/internal/auth"
	"github.com/waqet/groundops/internal/config"
	"github.com/waqet/groundops/internal/events"
	"github.com/waqet/groundops/internal/models"
	"github.com/waqet/groundops/internal/server"
	"github.com/waqet/groundops/internal/storage"
	"github.com/waqet/groundops/internal/validation"
)

// EquipmentService activates ground equipment for a flight
type EquipmentService interface {
	Activate(ctx context.Context, kind models.EquipmentKind, req models.ActivationRequest) (*models.ActivationResult, error)
}

// RESTServer represents the REST API server
type RESTServer struct {
	config    *config.Config
	store     storage.Store
	auth      *auth.Authenticator
	equipment EquipmentService
	bus       *events.Bus
	live      *server.LiveHub
	validator *validation.Validator
	router    chi.Router
	server    *http.Server
}

// NewRESTServer creates a new REST API server. live may be nil, in which case
// the live feed route answers 503.
func NewRESTServer(cfg *config.Config, store storage.Store, equipment EquipmentService, bus *events.Bus, live *server.LiveHub) *RESTServer {
	s := &RESTServer{
		config:    cfg,
		store:     store,
		auth:      auth.NewAuthenticator(cfg.Airports.PINs),
		equipment: equipment,
		bus:       bus,
		live:      live,
		validator: validation.NewValidator(),
		router:    chi.NewRouter(),
	}

	s.setupRoutes()

	// No WriteTimeout; live feed connections stay open. Other routes are
	// bounded by the Timeout middleware.
	s.server = &http.Server{
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	return s
}

// setupRoutes configures all routes
func (s *RESTServer) setupRoutes() {
	// Middleware
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.API.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		s.setupAPIRoutes(r)
	})
}

// Handler returns the root handler
func (s *RESTServer) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the server
func (s *RESTServer) ListenAndServe(addr string) error {
	s.server.Addr = addr

	log.Info().Str("addr", addr).Msg("Starting REST API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *RESTServer) Shutdown(ctx context.Context) error {
	if s.live != nil {
		s.live.Close()
	}
	return s.server.Shutdown(ctx)
}

// publish sends an event on the bus when one is configured
func (s *RESTServer) publish(e events.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}
