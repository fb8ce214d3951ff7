package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/waqet/groundops/internal/auth"
	"github.com/waqet/groundops/internal/events"
	"github.com/waqet/groundops/internal/models"
)

// HandleListAirports lists the airports technicians can select
func (s *RESTServer) HandleListAirports(w http.ResponseWriter, r *http.Request) {
	airports, err := s.store.Airports(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to list airports")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"airports": airports,
	})
}

// HandleAirportAccess checks the PIN for the selected airport
func (s *RESTServer) HandleAirportAccess(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Airport string `json:"airport"`
		PIN     string `json:"pin"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	airport, err := s.auth.CheckAirportAccess(req.Airport, req.PIN)
	switch {
	case errors.Is(err, auth.ErrMissingSelection):
		s.respondFailure(w, http.StatusBadRequest, "Please select an airport and enter the PIN")
		return
	case err != nil:
		log.Warn().Str("airport", req.Airport).Msg("Airport access denied")
		s.publish(events.Event{
			Type:     events.AirportAccessDenied,
			Severity: events.SeverityWarning,
			Airport:  req.Airport,
			Message:  "Invalid PIN entered for " + req.Airport,
		})
		s.respondFailure(w, http.StatusForbidden, "Invalid PIN for the selected airport")
		return
	}

	s.publish(events.Event{
		Type:     events.AirportAccessGranted,
		Severity: events.SeverityInfo,
		Airport:  airport.Code,
		Message:  "Access granted to " + airport.Name,
	})

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Access granted",
		"airport": airport,
	})
}

// HandleListGates lists the gates of an airport. Unknown airports have no gates.
func (s *RESTServer) HandleListGates(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	gates, err := s.store.Gates(r.Context(), code)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to fetch gates data")
		return
	}
	if gates == nil {
		gates = []models.Gate{}
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"airport":   code,
		"gates":     gates,
		"summary":   models.SummarizeGates(gates),
		"timestamp": time.Now().UTC(),
	})
}

// HandleLiveFeed streams activation and access events of an airport over a
// websocket
func (s *RESTServer) HandleLiveFeed(w http.ResponseWriter, r *http.Request) {
	airport, ok := models.LookupAirport(chi.URLParam(r, "code"))
	if !ok {
		s.respondError(w, http.StatusNotFound, "airport not found")
		return
	}
	if s.live == nil {
		s.respondError(w, http.StatusServiceUnavailable, "live feed unavailable")
		return
	}

	s.live.ServeAirport(w, r, airport)
}
