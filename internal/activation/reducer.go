package activation

import "github.com/waqet/groundops/internal/models"

// ApplyActivation returns a copy of flights with the kind flag set on the
// flight matching flightNumber. The input is not modified. The second result
// is false when no flight matches, in which case the copy is unchanged.
func ApplyActivation(flights []models.Flight, flightNumber string, kind models.EquipmentKind) ([]models.Flight, bool) {
	out := make([]models.Flight, len(flights))
	copy(out, flights)

	for i := range out {
		if out[i].FlightNumber != flightNumber {
			continue
		}
		switch kind {
		case models.EquipmentGPU:
			out[i].GPUActivated = true
		case models.EquipmentACU:
			out[i].ACUActivated = true
		default:
			return out, false
		}
		return out, true
	}
	return out, false
}

// MergeFlights takes a refreshed collection and keeps any flag that was
// already true in the previous collection for the same flight, so a refresh
// never turns equipment back off within a view.
func MergeFlights(previous, fresh []models.Flight) []models.Flight {
	active := make(map[string]models.Flight, len(previous))
	for _, f := range previous {
		if f.GPUActivated || f.ACUActivated {
			active[f.FlightNumber] = f
		}
	}

	out := make([]models.Flight, len(fresh))
	copy(out, fresh)
	for i := range out {
		prev, ok := active[out[i].FlightNumber]
		if !ok {
			continue
		}
		out[i].GPUActivated = out[i].GPUActivated || prev.GPUActivated
		out[i].ACUActivated = out[i].ACUActivated || prev.ACUActivated
	}
	return out
}
