// Package equipment simulates the ground equipment activation backend.
package equipment

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/waqet/groundops/internal/events"
	"github.com/waqet/groundops/internal/models"
	"github.com/waqet/groundops/internal/storage"
)

// ErrFlightNumberRequired is returned when a request has no flight number
var ErrFlightNumberRequired = errors.New("flight number is required")

// Default simulated latencies
const (
	DefaultGPULatency = 1500 * time.Millisecond
	DefaultACULatency = 1200 * time.Millisecond
)

// savingsRange is an inclusive-exclusive range in kilograms
type savingsRange struct {
	co2Min, co2Span   int
	fuelMin, fuelSpan int
}

var savingsRanges = map[models.EquipmentKind]savingsRange{
	models.EquipmentGPU: {co2Min: 30, co2Span: 20, fuelMin: 20, fuelSpan: 15},
	models.EquipmentACU: {co2Min: 25, co2Span: 15, fuelMin: 15, fuelSpan: 10},
}

// acuDetails are reported for every ACU activation
var acuDetails = models.ACUDetails{
	Temperature:      "22°C",
	Airflow:          "High",
	EnergyEfficiency: "95%",
}

// Options configures the service
type Options struct {
	GPULatency time.Duration
	ACULatency time.Duration
}

// Service activates equipment, records the activation and announces it on
// the bus
type Service struct {
	store storage.Store
	bus   *events.Bus
	opts  Options

	intn func(n int) int
	now  func() time.Time
}

// NewService creates an equipment service. Zero latencies mean no delay.
func NewService(store storage.Store, bus *events.Bus, opts Options) *Service {
	return &Service{
		store: store,
		bus:   bus,
		opts:  opts,
		intn:  rand.IntN,
		now:   time.Now,
	}
}

// Activate runs one activation. It blocks for the simulated latency of kind
// unless ctx is done first.
func (s *Service) Activate(ctx context.Context, kind models.EquipmentKind, req models.ActivationRequest) (*models.ActivationResult, error) {
	rng, ok := savingsRanges[kind]
	if !ok {
		return nil, fmt.Errorf("unknown equipment kind %q", kind)
	}
	if req.FlightNumber == "" {
		return nil, ErrFlightNumberRequired
	}

	if err := s.wait(ctx, s.latency(kind)); err != nil {
		s.publishFailure(kind, req, err)
		return nil, err
	}

	result := &models.ActivationResult{
		Success:      true,
		Message:      fmt.Sprintf("%s successfully activated for flight %s", kind, req.FlightNumber),
		FlightNumber: req.FlightNumber,
		ActivatedAt:  s.now().UTC(),
		EstimatedSavings: models.Savings{
			CO2:  rng.co2Min + s.intn(rng.co2Span),
			Fuel: rng.fuelMin + s.intn(rng.fuelSpan),
		},
	}
	if kind == models.EquipmentACU {
		details := acuDetails
		result.ACUDetails = &details
	}

	rec := &models.ActivationRecord{
		Airport:      req.Airport,
		FlightNumber: req.FlightNumber,
		Kind:         kind,
		ActivatedAt:  result.ActivatedAt,
		CO2Saved:     result.EstimatedSavings.CO2,
		FuelSaved:    result.EstimatedSavings.Fuel,
	}

	if _, known := models.LookupAirport(req.Airport); known {
		if err := s.record(ctx, rec, result); err != nil {
			s.publishFailure(kind, req, err)
			return nil, fmt.Errorf("record activation: %w", err)
		}
	} else {
		log.Warn().
			Str("airport", req.Airport).
			Str("flight", req.FlightNumber).
			Msg("Activation for unknown airport not recorded")
	}

	log.Info().
		Str("flight", req.FlightNumber).
		Str("kind", string(kind)).
		Str("airport", req.Airport).
		Int("co2", result.EstimatedSavings.CO2).
		Int("fuel", result.EstimatedSavings.Fuel).
		Msg("Equipment activated")

	if s.bus != nil {
		s.bus.Publish(events.Event{
			Type:         events.EquipmentActivated,
			Severity:     events.SeverityInfo,
			Airport:      req.Airport,
			FlightNumber: req.FlightNumber,
			Message:      result.Message,
			Activation:   rec,
			Timestamp:    result.ActivatedAt,
		})
	}

	return result, nil
}

func (s *Service) latency(kind models.EquipmentKind) time.Duration {
	if kind == models.EquipmentACU {
		return s.opts.ACULatency
	}
	return s.opts.GPULatency
}

func (s *Service) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// record stores the activation and its event log entry together
func (s *Service) record(ctx context.Context, rec *models.ActivationRecord, result *models.ActivationResult) error {
	return s.store.WithTx(ctx, func(tx storage.Store) error {
		if err := tx.RecordActivation(ctx, rec); err != nil {
			return err
		}
		return tx.CreateEventLog(ctx, &models.EventLog{
			CreatedAt:    rec.ActivatedAt,
			Airport:      rec.Airport,
			FlightNumber: rec.FlightNumber,
			Type:         models.EventTypeEquipmentActivated,
			Level:        models.EventLevelInfo,
			Code:         string(rec.Kind),
			Description:  result.Message,
			Details: models.Variables{
				"activationId": rec.ID.String(),
				"co2":          rec.CO2Saved,
				"fuel":         rec.FuelSaved,
			},
		})
	})
}

func (s *Service) publishFailure(kind models.EquipmentKind, req models.ActivationRequest, err error) {
	log.Error().
		Err(err).
		Str("flight", req.FlightNumber).
		Str("kind", string(kind)).
		Str("airport", req.Airport).
		Msg("Equipment activation failed")

	if s.bus == nil {
		return
	}
	s.bus.Publish(events.Event{
		Type:         events.ActivationFailed,
		Severity:     events.SeverityWarning,
		Airport:      req.Airport,
		FlightNumber: req.FlightNumber,
		Message:      fmt.Sprintf("Failed to activate %s for flight %s: %v", kind, req.FlightNumber, err),
		Metadata:     map[string]string{"kind": string(kind)},
	})
}
