package storage

import "github.com/waqet/groundops/internal/models"

// Reference data served for each airport, keyed by airport code.

var referenceFlights = map[string][]models.Flight{
	"RUH": {
		{FlightNumber: "SV123", Origin: "Dubai", Gate: "A01", ScheduledTime: "08:30", Status: models.FlightStatusBoarding},
		{FlightNumber: "MS456", Origin: "Cairo", Gate: "A03", ScheduledTime: "09:15", Status: models.FlightStatusScheduled},
		{FlightNumber: "EK789", Origin: "London", Gate: "B02", ScheduledTime: "10:00", Status: models.FlightStatusScheduled},
		{FlightNumber: "AF234", Origin: "Paris", Gate: "B04", ScheduledTime: "07:45", Status: models.FlightStatusDeparted, GPUActivated: true},
		{FlightNumber: "MS789", Origin: "Cairo", Gate: "A01", ScheduledTime: "11:20", Status: models.FlightStatusScheduled},
		{FlightNumber: "QR456", Origin: "Doha", Gate: "B02", ScheduledTime: "12:05", Status: models.FlightStatusScheduled},
	},
	"JED": {
		{FlightNumber: "QR321", Origin: "Doha", Gate: "A01", ScheduledTime: "08:10", Status: models.FlightStatusBoarding},
		{FlightNumber: "TK654", Origin: "Frankfurt", Gate: "A04", ScheduledTime: "08:55", Status: models.FlightStatusScheduled},
		{FlightNumber: "SV789", Origin: "Riyadh", Gate: "A07", ScheduledTime: "09:30", Status: models.FlightStatusScheduled},
		{FlightNumber: "EK456", Origin: "Dubai", Gate: "B02", ScheduledTime: "07:20", Status: models.FlightStatusDeparted, GPUActivated: true, ACUActivated: true},
		{FlightNumber: "BA567", Origin: "London", Gate: "B04", ScheduledTime: "10:40", Status: models.FlightStatusScheduled},
		{FlightNumber: "AF123", Origin: "Paris", Gate: "B07", ScheduledTime: "11:15", Status: models.FlightStatusScheduled},
		{FlightNumber: "LH234", Origin: "Frankfurt", Gate: "C03", ScheduledTime: "12:00", Status: models.FlightStatusScheduled},
		{FlightNumber: "EY789", Origin: "Abu Dhabi", Gate: "C06", ScheduledTime: "12:45", Status: models.FlightStatusScheduled},
		{FlightNumber: "SV234", Origin: "Istanbul", Gate: "A01", ScheduledTime: "14:10", Status: models.FlightStatusScheduled},
	},
	"DMM": {
		{FlightNumber: "SV345", Origin: "Kuwait", Gate: "A02", ScheduledTime: "08:00", Status: models.FlightStatusBoarding},
		{FlightNumber: "QR789", Origin: "Doha", Gate: "A05", ScheduledTime: "09:05", Status: models.FlightStatusScheduled},
		{FlightNumber: "EY456", Origin: "Abu Dhabi", Gate: "B01", ScheduledTime: "09:50", Status: models.FlightStatusScheduled},
		{FlightNumber: "KU567", Origin: "Kuwait", Gate: "B04", ScheduledTime: "07:30", Status: models.FlightStatusDeparted, GPUActivated: true},
		{FlightNumber: "LH987", Origin: "Frankfurt", Gate: "C01", ScheduledTime: "10:35", Status: models.FlightStatusScheduled},
		{FlightNumber: "MS234", Origin: "Cairo", Gate: "C06", ScheduledTime: "11:50", Status: models.FlightStatusScheduled},
	},
}

var referenceGates = map[string][]models.Gate{
	"RUH": {
		{GateNumber: "A01", Status: models.GateOccupied, CurrentFlight: "SV123", NextFlight: "MS789", GPUConnected: true},
		{GateNumber: "A02", Status: models.GateAvailable, GPUConnected: true},
		{GateNumber: "A03", Status: models.GateOccupied, CurrentFlight: "MS456"},
		{GateNumber: "A04", Status: models.GateMaintenance},
		{GateNumber: "A05", Status: models.GateAvailable, GPUConnected: true},
		{GateNumber: "B01", Status: models.GateAvailable, GPUConnected: true},
		{GateNumber: "B02", Status: models.GateOccupied, CurrentFlight: "EK789", NextFlight: "QR456", GPUConnected: true},
		{GateNumber: "B03", Status: models.GateAvailable, GPUConnected: true},
		{GateNumber: "B04", Status: models.GateOccupied, CurrentFlight: "AF234", GPUConnected: true},
		{GateNumber: "C01", Status: models.GateAvailable},
		{GateNumber: "C02", Status: models.GateMaintenance},
		{GateNumber: "C03", Status: models.GateAvailable, GPUConnected: true},
	},
	"JED": {
		{GateNumber: "A01", Status: models.GateOccupied, CurrentFlight: "QR321", NextFlight: "TK123", GPUConnected: true},
		{GateNumber: "A02", Status: models.GateAvailable, GPUConnected: true},
		{GateNumber: "A03", Status: models.GateAvailable, GPUConnected: true},
		{GateNumber: "A04", Status: models.GateOccupied, CurrentFlight: "TK654", GPUConnected: true},
		{GateNumber: "A05", Status: models.GateMaintenance},
		{GateNumber: "A06", Status: models.GateAvailable, GPUConnected: true},
		{GateNumber: "A07", Status: models.GateOccupied, CurrentFlight: "SV789", NextFlight: "MS234", GPUConnected: true},
		{GateNumber: "A08", Status: models.GateAvailable},
		{GateNumber: "B01", Status: models.GateAvailable, GPUConnected: true},
		{GateNumber: "B02", Status: models.GateOccupied, CurrentFlight: "EK456", GPUConnected: true},
		{GateNumber: "B03", Status: models.GateAvailable, GPUConnected: true},
		{GateNumber: "B04", Status: models.GateOccupied, CurrentFlight: "BA567", NextFlight: "LH890", GPUConnected: true},
		{GateNumber: "B05", Status: models.GateAvailable},
		{GateNumber: "B06", Status: models.GateAvailable, GPUConnected: true},
		{GateNumber: "B07", Status: models.GateOccupied, CurrentFlight: "AF123", NextFlight: "KL567", GPUConnected: true},
		{GateNumber: "B08", Status: models.GateMaintenance},
		{GateNumber: "C01", Status: models.GateAvailable, GPUConnected: true},
		{GateNumber: "C02", Status: models.GateAvailable, GPUConnected: true},
		{GateNumber: "C03", Status: models.GateOccupied, CurrentFlight: "LH234", GPUConnected: true},
		{GateNumber: "C04", Status: models.GateAvailable, GPUConnected: true},
		{GateNumber: "C05", Status: models.GateAvailable, GPUConnected: true},
		{GateNumber: "C06", Status: models.GateOccupied, CurrentFlight: "EY789", NextFlight: "QR456", GPUConnected: true},
		{GateNumber: "C07", Status: models.GateAvailable},
		{GateNumber: "C08", Status: models.GateAvailable, GPUConnected: true},
	},
	"DMM": {
		{GateNumber: "A01", Status: models.GateAvailable, GPUConnected: true},
		{GateNumber: "A02", Status: models.GateOccupied, CurrentFlight: "SV345", NextFlight: "EY123", GPUConnected: true},
		{GateNumber: "A03", Status: models.GateAvailable, GPUConnected: true},
		{GateNumber: "A04", Status: models.GateAvailable, GPUConnected: true},
		{GateNumber: "A05", Status: models.GateOccupied, CurrentFlight: "QR789", GPUConnected: true},
		{GateNumber: "A06", Status: models.GateMaintenance},
		{GateNumber: "A07", Status: models.GateAvailable, GPUConnected: true},
		{GateNumber: "A08", Status: models.GateAvailable},
		{GateNumber: "B01", Status: models.GateOccupied, CurrentFlight: "EY456", NextFlight: "SV234", GPUConnected: true},
		{GateNumber: "B02", Status: models.GateAvailable, GPUConnected: true},
		{GateNumber: "B03", Status: models.GateAvailable, GPUConnected: true},
		{GateNumber: "B04", Status: models.GateOccupied, CurrentFlight: "KU567", GPUConnected: true},
		{GateNumber: "B05", Status: models.GateAvailable, GPUConnected: true},
		{GateNumber: "B06", Status: models.GateAvailable},
		{GateNumber: "C01", Status: models.GateOccupied, CurrentFlight: "LH987", NextFlight: "TK456", GPUConnected: true},
		{GateNumber: "C02", Status: models.GateAvailable, GPUConnected: true},
		{GateNumber: "C03", Status: models.GateMaintenance},
		{GateNumber: "C04", Status: models.GateAvailable, GPUConnected: true},
		{GateNumber: "C05", Status: models.GateAvailable, GPUConnected: true},
		{GateNumber: "C06", Status: models.GateOccupied, CurrentFlight: "MS234", GPUConnected: true},
	},
}

var referenceReports = map[string]models.DailyReport{
	"RUH": {TodaysFlights: 89, ActiveGPUUnits: 28, TotalFlights: 89, NotificationsSent: 45, GPUActivations: 76},
	"JED": {TodaysFlights: 67, ActiveGPUUnits: 22, TotalFlights: 67, NotificationsSent: 34, GPUActivations: 58},
	"DMM": {TodaysFlights: 43, ActiveGPUUnits: 18, TotalFlights: 43, NotificationsSent: 28, GPUActivations: 39},
}

var referenceSustainability = map[string]models.Sustainability{
	"RUH": {
		CO2Saved:  1847,
		FuelSaved: 1123,
		MonthlyTrend: []models.MonthlySavings{
			{Date: "Jan", CO2Saved: 1400, FuelSaved: 800},
			{Date: "Feb", CO2Saved: 1550, FuelSaved: 900},
			{Date: "Mar", CO2Saved: 1650, FuelSaved: 950},
			{Date: "Apr", CO2Saved: 1750, FuelSaved: 1050},
			{Date: "May", CO2Saved: 1847, FuelSaved: 1123},
		},
		FlightSummary: []models.FlightSavings{
			{FlightNumber: "SV123", Origin: "Dubai", Destination: "Riyadh", CO2Saved: 45, FuelSaved: 28, GPUUsed: true, Gate: "A12"},
			{FlightNumber: "MS456", Origin: "Cairo", Destination: "Riyadh", CO2Saved: 38, FuelSaved: 22, Gate: "B05"},
			{FlightNumber: "EK789", Origin: "London", Destination: "Riyadh", CO2Saved: 52, FuelSaved: 31, GPUUsed: true, Gate: "C08"},
		},
		EmissionTrend: []models.EmissionMonth{
			{Month: "Jan", CO2Reduction: 1400, FuelReduction: 800},
			{Month: "Feb", CO2Reduction: 1550, FuelReduction: 900},
			{Month: "Mar", CO2Reduction: 1650, FuelReduction: 950},
			{Month: "Apr", CO2Reduction: 1750, FuelReduction: 1050},
			{Month: "May", CO2Reduction: 1847, FuelReduction: 1123},
		},
	},
	"JED": {
		CO2Saved:  1456,
		FuelSaved: 892,
		MonthlyTrend: []models.MonthlySavings{
			{Date: "Jan", CO2Saved: 1100, FuelSaved: 650},
			{Date: "Feb", CO2Saved: 1200, FuelSaved: 720},
			{Date: "Mar", CO2Saved: 1300, FuelSaved: 780},
			{Date: "Apr", CO2Saved: 1380, FuelSaved: 830},
			{Date: "May", CO2Saved: 1456, FuelSaved: 892},
		},
		FlightSummary: []models.FlightSavings{
			{FlightNumber: "SV234", Origin: "Istanbul", Destination: "Jeddah", CO2Saved: 42, FuelSaved: 26, GPUUsed: true, Gate: "A01"},
			{FlightNumber: "TK654", Origin: "Frankfurt", Destination: "Jeddah", CO2Saved: 48, FuelSaved: 29, Gate: "A04"},
			{FlightNumber: "BA567", Origin: "London", Destination: "Jeddah", CO2Saved: 55, FuelSaved: 33, GPUUsed: true, Gate: "B04"},
		},
		EmissionTrend: []models.EmissionMonth{
			{Month: "Jan", CO2Reduction: 1100, FuelReduction: 650},
			{Month: "Feb", CO2Reduction: 1200, FuelReduction: 720},
			{Month: "Mar", CO2Reduction: 1300, FuelReduction: 780},
			{Month: "Apr", CO2Reduction: 1380, FuelReduction: 830},
			{Month: "May", CO2Reduction: 1456, FuelReduction: 892},
		},
	},
	"DMM": {
		CO2Saved:  987,
		FuelSaved: 623,
		MonthlyTrend: []models.MonthlySavings{
			{Date: "Jan", CO2Saved: 750, FuelSaved: 450},
			{Date: "Feb", CO2Saved: 820, FuelSaved: 500},
			{Date: "Mar", CO2Saved: 880, FuelSaved: 540},
			{Date: "Apr", CO2Saved: 930, FuelSaved: 580},
			{Date: "May", CO2Saved: 987, FuelSaved: 623},
		},
		FlightSummary: []models.FlightSavings{
			{FlightNumber: "SV345", Origin: "Kuwait", Destination: "Dammam", CO2Saved: 35, FuelSaved: 21, Gate: "A01"},
			{FlightNumber: "EY456", Origin: "Abu Dhabi", Destination: "Dammam", CO2Saved: 40, FuelSaved: 24, GPUUsed: true, Gate: "A02"},
			{FlightNumber: "QR789", Origin: "Doha", Destination: "Dammam", CO2Saved: 38, FuelSaved: 23, Gate: "A05"},
		},
		EmissionTrend: []models.EmissionMonth{
			{Month: "Jan", CO2Reduction: 750, FuelReduction: 450},
			{Month: "Feb", CO2Reduction: 820, FuelReduction: 500},
			{Month: "Mar", CO2Reduction: 880, FuelReduction: 540},
			{Month: "Apr", CO2Reduction: 930, FuelReduction: 580},
			{Month: "May", CO2Reduction: 987, FuelReduction: 623},
		},
	},
}

// reportAirport is used when a report is requested for an airport without data
const reportAirport = "RUH"

// airportCode resolves a code or name to a code
func airportCode(key string) (string, bool) {
	a, ok := models.LookupAirport(key)
	if !ok {
		return "", false
	}
	return a.Code, true
}

func timelineFor(key string) []models.Flight {
	a, ok := models.LookupAirport(key)
	if !ok {
		return []models.Flight{}
	}
	src := referenceFlights[a.Code]
	out := make([]models.Flight, len(src))
	for i, f := range src {
		f.Airport = a.Name
		out[i] = f
	}
	return out
}

func gatesFor(key string) []models.Gate {
	code, ok := airportCode(key)
	if !ok {
		return []models.Gate{}
	}
	src := referenceGates[code]
	out := make([]models.Gate, len(src))
	copy(out, src)
	return out
}

func reportFor(key string) *models.DailyReport {
	code, ok := airportCode(key)
	if !ok {
		code = reportAirport
	}
	r := referenceReports[code]
	return &r
}

func sustainabilityFor(key string) *models.Sustainability {
	code, ok := airportCode(key)
	if !ok {
		code = reportAirport
	}
	src := referenceSustainability[code]
	s := src
	s.MonthlyTrend = append([]models.MonthlySavings(nil), src.MonthlyTrend...)
	s.FlightSummary = append([]models.FlightSavings(nil), src.FlightSummary...)
	s.EmissionTrend = append([]models.EmissionMonth(nil), src.EmissionTrend...)
	return &s
}

func airportList() []models.Airport {
	out := make([]models.Airport, len(models.Airports))
	copy(out, models.Airports)
	return out
}
