// Package activation drives GPU and ACU activations for the flights shown in
// one technician view.
//
// Each (flight number, equipment kind) pair moves INACTIVE -> PENDING on
// Activate, then PENDING -> ACTIVE on success or back to INACTIVE on failure.
// ACTIVE is terminal for the life of the Controller.
package activation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/waqet/groundops/internal/models"
	"github.com/waqet/groundops/internal/session"
)

// DefaultMessageTTL is how long a success message stays visible
const DefaultMessageTTL = 3 * time.Second

// ErrRejected is reported when the service answers without success
var ErrRejected = errors.New("activation rejected")

// Service is the equipment activation service
type Service interface {
	Activate(ctx context.Context, kind models.EquipmentKind, req models.ActivationRequest) (*models.ActivationResult, error)
}

// SessionReader gives read access to the session.
// *session.Store satisfies it.
type SessionReader interface {
	State() session.State
}

// Pair identifies one activation
type Pair struct {
	FlightNumber string               `json:"flightNumber"`
	Kind         models.EquipmentKind `json:"kind"`
}

func (p Pair) String() string {
	return p.FlightNumber + "/" + string(p.Kind)
}

// Outcome describes a resolved activation
type Outcome struct {
	Pair    Pair
	Airport string
	Result  *models.ActivationResult
	Err     error
	// Applied is false when the flight was no longer in the collection
	Applied bool
}

// Succeeded reports whether the activation succeeded
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Options configures a Controller
type Options struct {
	// MessageTTL defaults to DefaultMessageTTL
	MessageTTL time.Duration
	// RequestTimeout bounds each request; zero means no timeout
	RequestTimeout time.Duration
	// OnResolve is called after each request resolves, outside the lock
	OnResolve func(Outcome)
}

// View is a consistent snapshot of the controller state
type View struct {
	Flights []models.Flight `json:"flights"`
	Pending []Pair          `json:"pending"`
	Message string          `json:"message,omitempty"`
}

// Controller owns the flight collection of one view
type Controller struct {
	session SessionReader
	service Service
	opts    Options

	mu         sync.Mutex
	flights    []models.Flight
	pending    map[Pair]struct{}
	message    string
	messageGen uint64
	timer      *time.Timer
	closed     bool

	wg sync.WaitGroup
}

// NewController creates a controller for the given flights
func NewController(sess SessionReader, svc Service, flights []models.Flight, opts Options) *Controller {
	if opts.MessageTTL <= 0 {
		opts.MessageTTL = DefaultMessageTTL
	}

	initial := make([]models.Flight, len(flights))
	copy(initial, flights)

	return &Controller{
		session: sess,
		service: svc,
		opts:    opts,
		flights: initial,
		pending: make(map[Pair]struct{}),
	}
}

// Activate starts an activation for the pair and returns true, or returns
// false without contacting the service when the pair is already pending, the
// flag is already set, or the controller is closed.
//
// The request runs in its own goroutine and is not cancelled by Close. ctx
// is passed to the service.
func (c *Controller) Activate(ctx context.Context, flightNumber string, kind models.EquipmentKind) bool {
	pair := Pair{FlightNumber: flightNumber, Kind: kind}

	c.mu.Lock()
	if reason := c.suppressLocked(pair); reason != "" {
		c.mu.Unlock()
		log.Debug().
			Str("flight", flightNumber).
			Str("kind", string(kind)).
			Str("reason", reason).
			Msg("Activation suppressed")
		return false
	}
	c.pending[pair] = struct{}{}
	c.clearMessageLocked()
	c.wg.Add(1)
	c.mu.Unlock()

	// Read at call time, never cached.
	airport := c.session.State().SelectedAirport

	log.Info().
		Str("flight", flightNumber).
		Str("kind", string(kind)).
		Str("airport", airport).
		Msg("Activation requested")

	go c.run(ctx, pair, airport)
	return true
}

func (c *Controller) suppressLocked(pair Pair) string {
	if c.closed {
		return "closed"
	}
	if _, ok := c.pending[pair]; ok {
		return "pending"
	}
	for _, f := range c.flights {
		if f.FlightNumber == pair.FlightNumber && f.Activated(pair.Kind) {
			return "active"
		}
	}
	return ""
}

func (c *Controller) run(ctx context.Context, pair Pair, airport string) {
	defer c.wg.Done()

	if c.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.RequestTimeout)
		defer cancel()
	}

	result, err := c.call(ctx, pair, airport)
	c.resolve(pair, airport, result, err)
}

func (c *Controller) call(ctx context.Context, pair Pair, airport string) (result *models.ActivationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("activation service panic: %v", r)
		}
	}()

	result, err = c.service.Activate(ctx, pair.Kind, models.ActivationRequest{
		FlightNumber: pair.FlightNumber,
		Airport:      airport,
	})
	if err != nil {
		return result, err
	}
	if result == nil {
		return nil, fmt.Errorf("%w: empty response", ErrRejected)
	}
	if !result.Success {
		return result, fmt.Errorf("%w: %s", ErrRejected, result.Message)
	}
	return result, nil
}

func (c *Controller) resolve(pair Pair, airport string, result *models.ActivationResult, err error) {
	outcome := Outcome{Pair: pair, Airport: airport, Result: result, Err: err}

	c.mu.Lock()
	delete(c.pending, pair)
	closed := c.closed

	switch {
	case closed:
	case err != nil:
		log.Error().
			Err(err).
			Str("flight", pair.FlightNumber).
			Str("kind", string(pair.Kind)).
			Str("airport", airport).
			Msg("Activation failed")
	default:
		flights, ok := ApplyActivation(c.flights, pair.FlightNumber, pair.Kind)
		if ok {
			c.flights = flights
		} else {
			log.Warn().
				Str("flight", pair.FlightNumber).
				Str("kind", string(pair.Kind)).
				Msg("Activated flight is no longer in the view, update dropped")
		}
		outcome.Applied = ok
		c.setMessageLocked(fmt.Sprintf("%s successfully activated for flight %s at %s", pair.Kind, pair.FlightNumber, airport))
	}
	c.mu.Unlock()

	if closed {
		log.Debug().Str("pair", pair.String()).Msg("Late activation response ignored")
		return
	}

	if c.opts.OnResolve != nil {
		c.opts.OnResolve(outcome)
	}
}

func (c *Controller) setMessageLocked(msg string) {
	c.clearMessageLocked()
	c.message = msg
	gen := c.messageGen
	c.timer = time.AfterFunc(c.opts.MessageTTL, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.messageGen == gen {
			c.message = ""
		}
	})
}

func (c *Controller) clearMessageLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.messageGen++
	c.message = ""
}

// IsPending reports whether the pair has a request in flight
func (c *Controller) IsPending(flightNumber string, kind models.EquipmentKind) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[Pair{FlightNumber: flightNumber, Kind: kind}]
	return ok
}

// Flights returns a copy of the held collection
func (c *Controller) Flights() []models.Flight {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Flight, len(c.flights))
	copy(out, c.flights)
	return out
}

// Message returns the current success message, empty once expired
func (c *Controller) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

// Snapshot returns flights, pending pairs and message together
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Flights: make([]models.Flight, len(c.flights)),
		Pending: make([]Pair, 0, len(c.pending)),
		Message: c.message,
	}
	copy(v.Flights, c.flights)
	for p := range c.pending {
		v.Pending = append(v.Pending, p)
	}
	sort.Slice(v.Pending, func(i, j int) bool {
		return v.Pending[i].String() < v.Pending[j].String()
	})
	return v
}

// SetFlights replaces the collection after a refresh. Flags already set in
// this view stay set.
func (c *Controller) SetFlights(flights []models.Flight) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flights = MergeFlights(c.flights, flights)
}

// Wait blocks until every issued request has resolved
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close tears the view down. In-flight requests keep running; their
// responses are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.clearMessageLocked()
	c.flights = nil
}
