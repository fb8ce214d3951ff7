package events

import (
	"time"

	"github.com/waqet/groundops/internal/models"
)

// EventType identifies the kind of event being published.
type EventType string

const (
	// Equipment events
	EquipmentActivated EventType = "equipment.activated"
	ActivationFailed   EventType = "equipment.activation_failed"

	// Access events
	AirportAccessGranted EventType = "airport.access_granted"
	AirportAccessDenied  EventType = "airport.access_denied"
	UserLoggedIn         EventType = "user.logged_in"
	UserSignedUp         EventType = "user.signed_up"
)

// Severity indicates the urgency of an event.
type Severity int

const (
	SeverityInfo     Severity = 0
	SeverityWarning  Severity = 1
	SeverityCritical Severity = 2
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Event is the payload published through the bus.
type Event struct {
	Type         EventType         `json:"type"`
	Severity     Severity          `json:"severity"`
	Airport      string            `json:"airport,omitempty"`
	FlightNumber string            `json:"flightNumber,omitempty"`
	Message      string            `json:"message"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	Timestamp    time.Time         `json:"timestamp"`

	// Activation is set on equipment events
	Activation *models.ActivationRecord `json:"activation,omitempty"`

	// Origin is the instance id of the server that produced the event when
	// it arrived from another instance; empty for local events.
	Origin string `json:"origin,omitempty"`
}

// Remote reports whether the event was received from another instance.
func (e Event) Remote() bool {
	return e.Origin != ""
}
