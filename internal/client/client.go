// Package client talks to the ground operations REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/waqet/groundops/internal/models"
)

const userAgent = "groundops-technician/1.0"

// APIError is returned for non-2xx responses
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// Client is a REST API client
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the API at baseURL, e.g. http://localhost:8000
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// Login checks the technician credentials
func (c *Client) Login(ctx context.Context, employeeNumber, password string) (*models.User, error) {
	var resp struct {
		User *models.User `json:"user"`
	}
	body := map[string]string{"employeeNumber": employeeNumber, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		resp.User = &models.User{EmployeeNumber: employeeNumber}
	}
	return resp.User, nil
}

// Signup creates a technician account
func (c *Client) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	var resp struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/signup", req, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		resp.User = &models.User{}
	}
	return resp.User, nil
}

// CheckAirportAccess verifies the PIN of an airport given by name or code
func (c *Client) CheckAirportAccess(ctx context.Context, airport, pin string) (models.Airport, error) {
	var resp struct {
		Airport models.Airport `json:"airport"`
	}
	body := map[string]string{"airport": airport, "pin": pin}
	if err := c.do(ctx, http.MethodPost, "/airports/access", body, &resp); err != nil {
		return models.Airport{}, err
	}
	return resp.Airport, nil
}

// Airports lists the selectable airports
func (c *Client) Airports(ctx context.Context) ([]models.Airport, error) {
	var resp struct {
		Airports []models.Airport `json:"airports"`
	}
	if err := c.do(ctx, http.MethodGet, "/airports/", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Airports, nil
}

// Timeline fetches the full flight timeline of an airport
func (c *Client) Timeline(ctx context.Context, airport string) ([]models.Flight, error) {
	var resp struct {
		Flights []models.Flight `json:"flights"`
	}
	path := "/flights/timeline?airport=" + url.QueryEscape(airport)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Flights == nil {
		resp.Flights = []models.Flight{}
	}
	return resp.Flights, nil
}

// Activate requests an equipment activation. A 2xx answer without success is
// returned as a result, not an error.
func (c *Client) Activate(ctx context.Context, kind models.EquipmentKind, req models.ActivationRequest) (*models.ActivationResult, error) {
	var result models.ActivationResult
	if err := c.do(ctx, http.MethodPost, "/flights/activate_"+kind.Slug(), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Gates lists the gates of an airport code
func (c *Client) Gates(ctx context.Context, code string) ([]models.Gate, error) {
	var resp struct {
		Gates []models.Gate `json:"gates"`
	}
	if err := c.do(ctx, http.MethodGet, "/airports/"+url.PathEscape(code)+"/gates", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Gates, nil
}

// DailyReport fetches the daily operations report of an airport
func (c *Client) DailyReport(ctx context.Context, airport string) (*models.DailyReport, error) {
	var report models.DailyReport
	if err := c.do(ctx, http.MethodGet, "/dashboard/daily_reports?airport="+url.QueryEscape(airport), nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Sustainability fetches the sustainability figures of an airport
func (c *Client) Sustainability(ctx context.Context, airport string) (*models.Sustainability, error) {
	var data models.Sustainability
	if err := c.do(ctx, http.MethodGet, "/dashboard/sustainability?airport="+url.QueryEscape(airport), nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		// Malformed bodies leave out at its zero value
		log.Warn().Err(err).Str("path", path).Msg("Failed to decode response")
	}
	return nil
}

// errorMessage extracts the message of an error body
func errorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return strings.TrimSpace(string(data))
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
