// Package auth implements the mock credential check, signup field checks and
// the per-airport PIN check.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/waqet/groundops/internal/models"
	"github.com/waqet/groundops/internal/validation"
)

// Organization is the organization every issued user belongs to
const Organization = "WAQET Airport Operations"

var (
	ErrInvalidCredentials = errors.New("invalid employee number or password")
	ErrMissingFields      = errors.New("missing required fields")
	ErrMissingSelection   = errors.New("please select an airport and enter the PIN")
	ErrInvalidPIN         = errors.New("invalid PIN for the selected airport")
)

// MissingFieldsError names the signup fields that were left empty
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "Missing required fields: " + strings.Join(e.Fields, ", ")
}

func (e *MissingFieldsError) Is(target error) bool {
	return target == ErrMissingFields
}

// Authenticator checks credentials and airport PINs
type Authenticator struct {
	pins      map[string]string // airport code -> PIN
	validator *validation.Validator
	now       func() time.Time
}

// NewAuthenticator creates an authenticator. pins is keyed by airport name or
// code; entries for unknown airports are ignored.
func NewAuthenticator(pins map[string]string) *Authenticator {
	a := &Authenticator{
		pins:      make(map[string]string, len(pins)),
		validator: validation.NewValidator(),
		now:       time.Now,
	}
	for key, pin := range pins {
		airport, ok := models.LookupAirport(key)
		if !ok {
			log.Warn().Str("airport", key).Msg("PIN configured for unknown airport, ignored")
			continue
		}
		a.pins[airport.Code] = pin
	}
	return a
}

// Login accepts any non-empty employee number and password pair
func (a *Authenticator) Login(employeeNumber, password string) (*models.User, error) {
	if employeeNumber == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user := &models.User{
		ID:             "1",
		EmployeeNumber: employeeNumber,
		Name:           "John Doe",
		Organization:   Organization,
		JobTitle:       "Airport Technician",
	}
	if strings.Contains(employeeNumber, "admin") {
		user.Name = "Admin User"
		user.JobTitle = "System Administrator"
	}
	return user, nil
}

// Signup checks that every field is present and returns the new user. Nothing
// is persisted.
func (a *Authenticator) Signup(req models.SignupRequest) (*models.User, error) {
	if err := a.validator.Validate(req); err != nil {
		if fields := validation.MissingFields(err); len(fields) > 0 {
			return nil, &MissingFieldsError{Fields: fields}
		}
		return nil, fmt.Errorf("validate signup: %w", err)
	}

	return &models.User{
		ID:             strconv.FormatInt(a.now().UnixMilli(), 10),
		EmployeeNumber: req.EmployeeNumber,
		Name:           req.Name,
		Organization:   req.Organization,
		JobTitle:       req.JobTitle,
	}, nil
}

// CheckAirportAccess verifies the PIN for an airport given by name or code
func (a *Authenticator) CheckAirportAccess(airport, pin string) (models.Airport, error) {
	if strings.TrimSpace(airport) == "" || pin == "" {
		return models.Airport{}, ErrMissingSelection
	}

	ap, ok := models.LookupAirport(airport)
	if !ok {
		return models.Airport{}, ErrInvalidPIN
	}
	expected, ok := a.pins[ap.Code]
	if !ok || expected != pin {
		return models.Airport{}, ErrInvalidPIN
	}
	return ap, nil
}
