package events

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/waqet/groundops/internal/models"
)

// Handler is a callback invoked when a matching event is published.
type Handler func(Event)

// Route selects the events a handler receives. The zero Route matches every
// event.
type Route struct {
	Types []EventType
	// Airport is a code or name; events of other airports, and events without
	// an airport, are not delivered.
	Airport string
	// Flight restricts delivery to one flight number.
	Flight string
}

type route struct {
	id      uint64
	types   map[EventType]bool
	airport string // airport code
	flight  string // upper-cased flight number
	handler Handler
}

func (r route) matches(e Event, airport string) bool {
	if len(r.types) > 0 && !r.types[e.Type] {
		return false
	}
	if r.airport != "" && r.airport != airport {
		return false
	}
	return r.flight == "" || strings.EqualFold(r.flight, e.FlightNumber)
}

// Bus routes ground operations events to in-process handlers by type,
// airport and flight.
type Bus struct {
	mu     sync.RWMutex
	routes []route
	seq    uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for the given event types of every airport.
// If no types are provided the handler receives every event.
// The returned function removes the subscription; calling it more than once
// is harmless.
func (b *Bus) Subscribe(handler Handler, types ...EventType) (unsubscribe func()) {
	return b.SubscribeRoute(Route{Types: types}, handler)
}

// SubscribeRoute registers a handler for the events matching r.
func (b *Bus) SubscribeRoute(r Route, handler Handler) (unsubscribe func()) {
	rt := route{
		airport: airportKey(r.Airport),
		flight:  strings.ToUpper(strings.TrimSpace(r.Flight)),
		handler: handler,
	}
	if len(r.Types) > 0 {
		rt.types = make(map[EventType]bool, len(r.Types))
		for _, t := range r.Types {
			rt.types[t] = true
		}
	}

	b.mu.Lock()
	b.seq++
	rt.id = b.seq
	b.routes = append(b.routes, rt)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(rt.id) })
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, rt := range b.routes {
		if rt.id == id {
			b.routes = append(b.routes[:i:i], b.routes[i+1:]...)
			return
		}
	}
}

// Publish hands e to every matching handler, synchronously and in
// subscription order. The timestamp is set if zero. The event keeps the
// airport key it was published with; routing compares airport codes.
func (b *Bus) Publish(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	airport := airportKey(e.Airport)

	b.mu.RLock()
	routes := make([]route, 0, len(b.routes))
	for _, rt := range b.routes {
		if rt.matches(e, airport) {
			routes = append(routes, rt)
		}
	}
	b.mu.RUnlock()

	for _, rt := range routes {
		b.dispatch(rt, e)
	}
}

func (b *Bus) dispatch(rt route, e Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("type", string(e.Type)).
				Str("airport", e.Airport).
				Str("flight", e.FlightNumber).
				Interface("panic", r).
				Msg("Event handler panic")
		}
	}()
	rt.handler(e)
}

// airportKey resolves an airport code or name to its code. Unknown keys are
// compared upper-cased.
func airportKey(key string) string {
	if a, ok := models.LookupAirport(key); ok {
		return a.Code
	}
	return strings.ToUpper(strings.TrimSpace(key))
}
