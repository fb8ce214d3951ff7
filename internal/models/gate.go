package models

// GateStatus is the occupancy state of a gate
type GateStatus string

const (
	GateAvailable   GateStatus = "available"
	GateOccupied    GateStatus = "occupied"
	GateMaintenance GateStatus = "maintenance"
)

// Gate is a stand at an airport
type Gate struct {
	GateNumber    string     `json:"gateNumber"`
	Status        GateStatus `json:"status"`
	CurrentFlight string     `json:"currentFlight,omitempty"`
	NextFlight    string     `json:"nextFlight,omitempty"`
	GPUConnected  bool       `json:"gpuConnected"`
}

// GateSummary counts gates by status
type GateSummary struct {
	Available   int `json:"available"`
	Occupied    int `json:"occupied"`
	Maintenance int `json:"maintenance"`
}

// SummarizeGates counts gates per status
func SummarizeGates(gates []Gate) GateSummary {
	var s GateSummary
	for _, g := range gates {
		switch g.Status {
		case GateAvailable:
			s.Available++
		case GateOccupied:
			s.Occupied++
		case GateMaintenance:
			s.Maintenance++
		}
	}
	return s
}
