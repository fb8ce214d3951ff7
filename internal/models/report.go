package models

import "time"

// DailyReport holds the daily operations counters of an airport
type DailyReport struct {
	TodaysFlights     int       `json:"todaysFlights"`
	ActiveGPUUnits    int       `json:"activeGPUUnits"`
	TotalFlights      int       `json:"totalFlights"`
	NotificationsSent int       `json:"notificationsSent"`
	GPUActivations    int       `json:"gpuActivations"`
	Airport           string    `json:"airport"`
	Timestamp         time.Time `json:"timestamp"`
}

// Sustainability holds the emission savings of an airport
type Sustainability struct {
	CO2Saved      int              `json:"co2Saved"`
	FuelSaved     int              `json:"fuelSaved"`
	MonthlyTrend  []MonthlySavings `json:"monthlyTrend"`
	FlightSummary []FlightSavings  `json:"flightSummary"`
	EmissionTrend []EmissionMonth  `json:"emissionTrend"`
	Airport       string           `json:"airport"`
	Timestamp     time.Time        `json:"timestamp"`
}

// MonthlySavings is one point of the monthly trend
type MonthlySavings struct {
	Date      string `json:"date"`
	CO2Saved  int    `json:"co2Saved"`
	FuelSaved int    `json:"fuelSaved"`
}

// FlightSavings is the per-flight savings summary
type FlightSavings struct {
	FlightNumber string `json:"flightNumber"`
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
	CO2Saved     int    `json:"co2Saved"`
	FuelSaved    int    `json:"fuelSaved"`
	GPUUsed      bool   `json:"gpuUsed"`
	Gate         string `json:"gate"`
}

// EmissionMonth is one point of the emission reduction trend
type EmissionMonth struct {
	Month         string `json:"month"`
	CO2Reduction  int    `json:"co2Reduction"`
	FuelReduction int    `json:"fuelReduction"`
}
