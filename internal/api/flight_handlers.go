package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/waqet/groundops/internal/equipment"
	"github.com/waqet/groundops/internal/models"
)

// HandleTimeline returns the flight timeline of an airport
func (s *RESTServer) HandleTimeline(w http.ResponseWriter, r *http.Request) {
	airport := r.URL.Query().Get("airport")

	flights, err := s.store.Timeline(r.Context(), airport)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to fetch flight timeline")
		return
	}
	if flights == nil {
		flights = []models.Flight{}
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"flights": flights,
	})
}

// HandleActivateGPU activates the ground power unit for a flight
func (s *RESTServer) HandleActivateGPU(w http.ResponseWriter, r *http.Request) {
	s.handleActivate(w, r, models.EquipmentGPU)
}

// HandleActivateACU activates the air conditioning unit for a flight
func (s *RESTServer) HandleActivateACU(w http.ResponseWriter, r *http.Request) {
	s.handleActivate(w, r, models.EquipmentACU)
}

func (s *RESTServer) handleActivate(w http.ResponseWriter, r *http.Request, kind models.EquipmentKind) {
	var req struct {
		FlightNumber string `json:"flightNumber" validate:"required"`
		Airport      string `json:"airport"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validator.Validate(req); err != nil {
		s.respondFailure(w, http.StatusBadRequest, "Flight number is required")
		return
	}

	result, err := s.equipment.Activate(r.Context(), kind, models.ActivationRequest{
		FlightNumber: req.FlightNumber,
		Airport:      req.Airport,
	})
	if err != nil {
		if errors.Is(err, equipment.ErrFlightNumberRequired) {
			s.respondFailure(w, http.StatusBadRequest, "Flight number is required")
			return
		}
		log.Error().
			Err(err).
			Str("flight", req.FlightNumber).
			Str("kind", string(kind)).
			Msg("Activation failed")
		s.respondFailure(w, http.StatusInternalServerError, fmt.Sprintf("Failed to activate %s", kind))
		return
	}

	s.respondJSON(w, http.StatusOK, result)
}
