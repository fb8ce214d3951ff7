package models

// User is the identity of an authenticated technician. It is issued by login
// and never modified afterwards.
type User struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employeeNumber"`
	Name           string `json:"name"`
	Organization   string `json:"organization"`
	JobTitle       string `json:"jobTitle"`
}

// SignupRequest carries the fields of a new technician account
type SignupRequest struct {
	Name           string `json:"name" validate:"required"`
	Birthdate      string `json:"birthdate" validate:"required"`
	NationalID     string `json:"nationalId" validate:"required"`
	Organization   string `json:"organization" validate:"required"`
	JobTitle       string `json:"jobTitle" validate:"required"`
	EmployeeNumber string `json:"employeeNumber" validate:"required"`
	Password       string `json:"password" validate:"required"`
}
