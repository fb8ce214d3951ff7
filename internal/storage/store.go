package storage

import (
	"context"
	"errors"
	"time"

	"github.com/waqet/groundops/internal/models"
)

// Common errors
var (
	ErrDuplicateKey = errors.New("duplicate key")
	ErrInvalidData  = errors.New("invalid data")
)

// Store defines the storage interface. Airport arguments accept an airport
// code or name.
type Store interface {
	// Transaction support
	WithTx(ctx context.Context, fn func(Store) error) error

	// Reference data
	Airports(ctx context.Context) ([]models.Airport, error)
	Timeline(ctx context.Context, airport string) ([]models.Flight, error)
	Gates(ctx context.Context, airport string) ([]models.Gate, error)
	DailyReport(ctx context.Context, airport string) (*models.DailyReport, error)
	Sustainability(ctx context.Context, airport string) (*models.Sustainability, error)

	// Activation methods
	RecordActivation(ctx context.Context, rec *models.ActivationRecord) error
	ListActivations(ctx context.Context, airport string) ([]*models.ActivationRecord, error)

	// Event log methods
	CreateEventLog(ctx context.Context, event *models.EventLog) error
	ListEventLogs(ctx context.Context, filters EventLogFilters, limit, offset int) ([]*models.EventLog, int64, error)

	// Close the store
	Close() error
}

// EventLogFilters represents filters for event logs
type EventLogFilters struct {
	Airport      *string
	FlightNumber *string
	Type         *models.EventType
	Level        *models.EventLevel
	StartTime    *time.Time
	EndTime      *time.Time
}

func (f EventLogFilters) match(e *models.EventLog) bool {
	if f.Airport != nil && e.Airport != *f.Airport {
		return false
	}
	if f.FlightNumber != nil && e.FlightNumber != *f.FlightNumber {
		return false
	}
	if f.Type != nil && e.Type != *f.Type {
		return false
	}
	if f.Level != nil && e.Level != *f.Level {
		return false
	}
	if f.StartTime != nil && e.CreatedAt.Before(*f.StartTime) {
		return false
	}
	if f.EndTime != nil && e.CreatedAt.After(*f.EndTime) {
		return false
	}
	return true
}

// overlayActivations sets the equipment flags recorded for each flight
func overlayActivations(flights []models.Flight, records []*models.ActivationRecord) []models.Flight {
	for _, rec := range records {
		for i := range flights {
			if flights[i].FlightNumber != rec.FlightNumber {
				continue
			}
			switch rec.Kind {
			case models.EquipmentGPU:
				flights[i].GPUActivated = true
			case models.EquipmentACU:
				flights[i].ACUActivated = true
			}
		}
	}
	return flights
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*memoryTx)(nil)
	_ Store = (*PostgresStore)(nil)
)
