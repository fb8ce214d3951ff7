package models

import (
	"fmt"
	"strings"
)

// FlightStatus is the externally driven status of a flight
type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "scheduled"
	FlightStatusBoarding  FlightStatus = "boarding"
	FlightStatusDeparted  FlightStatus = "departed"
)

// Flight is a timeline entry for one airport
type Flight struct {
	FlightNumber  string       `json:"flightNumber"`
	Origin        string       `json:"origin"`
	Gate          string       `json:"gate"`
	ScheduledTime string       `json:"scheduledTime"`
	Status        FlightStatus `json:"status"`
	GPUActivated  bool         `json:"gpuActivated"`
	ACUActivated  bool         `json:"acuActivated"`
	Airport       string       `json:"airport"`
}

// Activated reports the equipment flag for kind
func (f Flight) Activated(kind EquipmentKind) bool {
	switch kind {
	case EquipmentGPU:
		return f.GPUActivated
	case EquipmentACU:
		return f.ACUActivated
	}
	return false
}

// EquipmentKind identifies a piece of ground equipment
type EquipmentKind string

const (
	EquipmentGPU EquipmentKind = "GPU"
	EquipmentACU EquipmentKind = "ACU"
)

// ParseEquipmentKind accepts "gpu"/"acu" in any case
func ParseEquipmentKind(s string) (EquipmentKind, error) {
	switch EquipmentKind(strings.ToUpper(strings.TrimSpace(s))) {
	case EquipmentGPU:
		return EquipmentGPU, nil
	case EquipmentACU:
		return EquipmentACU, nil
	}
	return "", fmt.Errorf("unknown equipment kind %q", s)
}

// Slug is the lower-case form used in routes and subjects
func (k EquipmentKind) Slug() string {
	return strings.ToLower(string(k))
}
