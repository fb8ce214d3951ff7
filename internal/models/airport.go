package models

import "strings"

// Airport is one of the airports technicians can be assigned to
type Airport struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	FullName string `json:"fullName"`
}

// Airports is the reference airport set
var Airports = []Airport{
	{Code: "RUH", Name: "Riyadh", FullName: "King Khalid International Airport"},
	{Code: "DMM", Name: "Dammam", FullName: "King Fahd International Airport"},
	{Code: "JED", Name: "Jeddah", FullName: "King Abdulaziz International Airport"},
}

// LookupAirport resolves an airport by code or name, case-insensitively
func LookupAirport(key string) (Airport, bool) {
	key = strings.TrimSpace(key)
	for _, a := range Airports {
		if strings.EqualFold(a.Code, key) || strings.EqualFold(a.Name, key) {
			return a, true
		}
	}
	return Airport{}, false
}
