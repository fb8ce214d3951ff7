package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/waqet/groundops/internal/models"
	"github.com/waqet/groundops/internal/storage"
)

const maxEventPageSize = 100

// HandleDailyReports returns the daily operations report of an airport
func (s *RESTServer) HandleDailyReports(w http.ResponseWriter, r *http.Request) {
	report, err := s.store.DailyReport(r.Context(), r.URL.Query().Get("airport"))
	if err != nil {
		log.Error().Err(err).Msg("Failed to build daily report")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch daily reports")
		return
	}

	s.respondJSON(w, http.StatusOK, report)
}

// HandleSustainability returns the sustainability figures of an airport
func (s *RESTServer) HandleSustainability(w http.ResponseWriter, r *http.Request) {
	data, err := s.store.Sustainability(r.Context(), r.URL.Query().Get("airport"))
	if err != nil {
		log.Error().Err(err).Msg("Failed to build sustainability data")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch sustainability data")
		return
	}

	s.respondJSON(w, http.StatusOK, data)
}

// HandleListEvents lists events
func (s *RESTServer) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit <= 0 {
		limit = 20
	}
	if limit > maxEventPageSize {
		limit = maxEventPageSize
	}
	offset, _ := strconv.Atoi(query.Get("offset"))
	if offset < 0 {
		offset = 0
	}

	filters := storage.EventLogFilters{}

	// Parse filters
	if airport := query.Get("airport"); airport != "" {
		filters.Airport = &airport
	}

	if flight := query.Get("flight_number"); flight != "" {
		filters.FlightNumber = &flight
	}

	if eventType := query.Get("type"); eventType != "" {
		modelEventType := models.EventType(eventType)
		filters.Type = &modelEventType
	}

	if level := query.Get("level"); level != "" {
		modelEventLevel := models.EventLevel(level)
		filters.Level = &modelEventLevel
	}

	if start := query.Get("start"); start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid start time")
			return
		}
		filters.StartTime = &t
	}

	if end := query.Get("end"); end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid end time")
			return
		}
		filters.EndTime = &t
	}

	events, total, err := s.store.ListEventLogs(ctx, filters, limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list event logs")
		s.respondError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	if events == nil {
		events = []*models.EventLog{}
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}
