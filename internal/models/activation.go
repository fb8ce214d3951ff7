package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivationRequest asks the equipment service to activate a unit for a flight
type ActivationRequest struct {
	FlightNumber string `json:"flightNumber"`
	Airport      string `json:"airport"`
}

// Savings is the estimated saving of an activation, in kilograms
type Savings struct {
	CO2  int `json:"co2"`
	Fuel int `json:"fuel"`
}

// ACUDetails is the device telemetry returned by ACU activations
type ACUDetails struct {
	Temperature      string `json:"temperature"`
	Airflow          string `json:"airflow"`
	EnergyEfficiency string `json:"energyEfficiency"`
}

// ActivationResult is the equipment service response
type ActivationResult struct {
	Success          bool        `json:"success"`
	Message          string      `json:"message"`
	FlightNumber     string      `json:"flightNumber,omitempty"`
	ActivatedAt      time.Time   `json:"activatedAt,omitempty"`
	EstimatedSavings Savings     `json:"estimatedSavings"`
	ACUDetails       *ACUDetails `json:"acuDetails,omitempty"`
}

// ActivationRecord is a stored successful activation
type ActivationRecord struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	Airport      string        `json:"airport" db:"airport"`
	FlightNumber string        `json:"flightNumber" db:"flight_number"`
	Kind         EquipmentKind `json:"kind" db:"kind"`
	ActivatedAt  time.Time     `json:"activatedAt" db:"activated_at"`
	CO2Saved     int           `json:"co2Saved" db:"co2_saved"`
	FuelSaved    int           `json:"fuelSaved" db:"fuel_saved"`
}
