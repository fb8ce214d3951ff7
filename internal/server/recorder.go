package server

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/waqet/groundops/internal/events"
	"github.com/waqet/groundops/internal/models"
	"github.com/waqet/groundops/internal/storage"
)

// recordedTypes maps bus events to their event log type and level.
// Activations are logged by the equipment service together with the record.
var recordedTypes = map[events.EventType]struct {
	typ   models.EventType
	level models.EventLevel
}{
	events.UserLoggedIn:         {models.EventTypeLogin, models.EventLevelInfo},
	events.UserSignedUp:         {models.EventTypeSignup, models.EventLevelInfo},
	events.AirportAccessGranted: {models.EventTypeAirportAccess, models.EventLevelInfo},
	events.AirportAccessDenied:  {models.EventTypeAirportDenied, models.EventLevelWarning},
	events.ActivationFailed:     {models.EventTypeActivationFailed, models.EventLevelError},
}

// Recorder writes local bus events to the event log
type Recorder struct {
	store storage.Store
}

// NewRecorder creates a recorder
func NewRecorder(store storage.Store) *Recorder {
	return &Recorder{store: store}
}

// Attach subscribes the recorder to bus
func (r *Recorder) Attach(bus *events.Bus) (detach func()) {
	types := make([]events.EventType, 0, len(recordedTypes))
	for t := range recordedTypes {
		types = append(types, t)
	}
	return bus.Subscribe(r.handle, types...)
}

func (r *Recorder) handle(e events.Event) {
	if e.Remote() {
		return
	}
	mapping := recordedTypes[e.Type]

	details := models.Variables{}
	for k, v := range e.Metadata {
		details[k] = v
	}

	entry := &models.EventLog{
		CreatedAt:    e.Timestamp,
		Airport:      e.Airport,
		FlightNumber: e.FlightNumber,
		Type:         mapping.typ,
		Level:        mapping.level,
		Code:         string(e.Type),
		Description:  e.Message,
		Details:      details,
	}
	if err := r.store.CreateEventLog(context.Background(), entry); err != nil {
		log.Error().Err(err).Str("type", string(e.Type)).Msg("Failed to create event log")
	}
}
