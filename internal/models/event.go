package models

import (
	"time"

	"github.com/google/uuid"
)

// EventLog represents an event log entry
type EventLog struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Airport      string `json:"airport,omitempty" db:"airport"`
	FlightNumber string `json:"flightNumber,omitempty" db:"flight_number"`

	Type        EventType  `json:"type" db:"type"`
	Level       EventLevel `json:"level" db:"level"`
	Code        string     `json:"code" db:"code"`
	Description string     `json:"description" db:"description"`

	Details Variables `json:"details,omitempty" db:"details"`
}

// EventType represents event types
type EventType string

const (
	EventTypeLogin              EventType = "LOGIN"
	EventTypeSignup             EventType = "SIGNUP"
	EventTypeAirportAccess      EventType = "AIRPORT_ACCESS"
	EventTypeAirportDenied      EventType = "AIRPORT_DENIED"
	EventTypeEquipmentActivated EventType = "EQUIPMENT_ACTIVATED"
	EventTypeActivationFailed   EventType = "ACTIVATION_FAILED"
)

// EventLevel represents event severity levels
type EventLevel string

const (
	EventLevelDebug   EventLevel = "DEBUG"
	EventLevelInfo    EventLevel = "INFO"
	EventLevelWarning EventLevel = "WARNING"
	EventLevelError   EventLevel = "ERROR"
)
