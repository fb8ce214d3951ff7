package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/waqet/groundops/internal/auth"
	"github.com/waqet/groundops/internal/events"
	"github.com/waqet/groundops/internal/models"
)

// ========== Auth handlers ==========

// HandleLogin handles technician login
func (s *RESTServer) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeNumber string `json:"employeeNumber" validate:"required"`
		Password       string `json:"password" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validator.Validate(req); err != nil {
		s.respondFailure(w, http.StatusUnauthorized, "Invalid employee number or password")
		return
	}

	user, err := s.auth.Login(req.EmployeeNumber, req.Password)
	if err != nil {
		s.respondFailure(w, http.StatusUnauthorized, "Invalid employee number or password")
		return
	}

	s.publish(events.Event{
		Type:     events.UserLoggedIn,
		Severity: events.SeverityInfo,
		Message:  "Technician " + user.EmployeeNumber + " logged in",
		Metadata: map[string]string{"employeeNumber": user.EmployeeNumber},
	})

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Login successful",
		"user":    user,
	})
}

// signupUser is the user returned by signup
type signupUser struct {
	*models.User
	CreatedAt time.Time `json:"createdAt"`
}

// HandleSignup handles account creation
func (s *RESTServer) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.auth.Signup(req)
	if err != nil {
		var missing *auth.MissingFieldsError
		if errors.As(err, &missing) {
			s.respondFailure(w, http.StatusBadRequest, missing.Error())
			return
		}
		log.Error().Err(err).Msg("Signup failed")
		s.respondFailure(w, http.StatusInternalServerError, "Server error")
		return
	}

	s.publish(events.Event{
		Type:     events.UserSignedUp,
		Severity: events.SeverityInfo,
		Message:  "Account created for " + user.EmployeeNumber,
		Metadata: map[string]string{
			"employeeNumber": user.EmployeeNumber,
			"organization":   user.Organization,
		},
	})

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Account created successfully",
		"user":    signupUser{User: user, CreatedAt: time.Now().UTC()},
	})
}

// ========== System handlers ==========

// HandleHealth health check
func (s *RESTServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now(),
	})
}

// HandleRoot root handler
func (s *RESTServer) HandleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": s.config.Server.Name,
		"version": s.config.Server.Version,
		"health":  "/api/v1/health",
		"message": "Ground operations API",
	})
}

// respondJSON responds with JSON
func (s *RESTServer) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

// respondError responds with error
func (s *RESTServer) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondFailure responds with the success/message envelope used by the auth
// and activation routes
func (s *RESTServer) respondFailure(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}
