package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// setupAPIRoutes sets up API v1 routes
func (s *RESTServer) setupAPIRoutes(r chi.Router) {
	timeout := middleware.Timeout(s.config.API.RequestTimeout)

	// Airports
	r.Route("/airports", func(r chi.Router) {
		// Websocket, not subject to the request timeout
		r.Get("/{code}/live", s.HandleLiveFeed)

		r.With(timeout).Get("/", s.HandleListAirports)
		r.With(timeout).Post("/access", s.HandleAirportAccess)
		r.With(timeout).Get("/{code}/gates", s.HandleListGates)
	})

	r.Group(func(r chi.Router) {
		r.Use(timeout)

		// Health check
		r.Get("/health", s.HandleHealth)
		r.Get("/", s.HandleRoot)

		// Auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.HandleLogin)
			r.Post("/signup", s.HandleSignup)
		})

		// Flights
		r.Route("/flights", func(r chi.Router) {
			r.Get("/timeline", s.HandleTimeline)
			r.Post("/activate_gpu", s.HandleActivateGPU)
			r.Post("/activate_acu", s.HandleActivateACU)
		})

		// Dashboard
		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/daily_reports", s.HandleDailyReports)
			r.Get("/sustainability", s.HandleSustainability)
		})

		// Events
		r.Get("/events", s.HandleListEvents)
	})
}
