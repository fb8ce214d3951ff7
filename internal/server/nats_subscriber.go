package server

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/waqet/groundops/internal/events"
	"github.com/waqet/groundops/internal/models"
	"github.com/waqet/groundops/internal/storage"
)

// NATSSubscriber receives activations announced by other instances, logs
// them and replays them on the local bus
type NATSSubscriber struct {
	nc     *nats.Conn
	store  storage.Store
	bus    *events.Bus
	prefix string
	origin string
	subs   []*nats.Subscription
}

// NewNATSSubscriber creates NATS subscriber
func NewNATSSubscriber(nc *nats.Conn, store storage.Store, bus *events.Bus, prefix, origin string) *NATSSubscriber {
	return &NATSSubscriber{
		nc:     nc,
		store:  store,
		bus:    bus,
		prefix: prefix,
		origin: origin,
		subs:   make([]*nats.Subscription, 0),
	}
}

// Start subscribes and blocks until ctx is done
func (s *NATSSubscriber) Start(ctx context.Context) error {
	sub, err := s.nc.Subscribe(activationWildcard(s.prefix), s.handleActivation)
	if err != nil {
		return fmt.Errorf("subscribe activations: %w", err)
	}
	s.subs = append(s.subs, sub)

	log.Info().
		Int("subscriptions", len(s.subs)).
		Msg("NATS subscriber started")

	<-ctx.Done()

	for _, sub := range s.subs {
		sub.Unsubscribe()
	}

	return ctx.Err()
}

// handleActivation handles activation announcements
func (s *NATSSubscriber) handleActivation(msg *nats.Msg) {
	log.Debug().
		Str("subject", msg.Subject).
		Int("size", len(msg.Data)).
		Msg("Received activation")

	m, err := decodeActivation(msg.Data)
	if err != nil {
		log.Error().Err(err).Str("subject", msg.Subject).Msg("Failed to decode activation")
		return
	}
	if m.Origin == s.origin {
		return
	}

	event := &models.EventLog{
		Airport:      m.Airport,
		FlightNumber: m.FlightNumber,
		Type:         models.EventTypeEquipmentActivated,
		Level:        models.EventLevelInfo,
		Code:         string(m.Kind),
		Description:  fmt.Sprintf("%s activated for flight %s by instance %s", m.Kind, m.FlightNumber, m.Origin),
		Details: models.Variables{
			"origin": m.Origin,
			"co2":    m.CO2,
			"fuel":   m.Fuel,
		},
	}
	if err := s.store.CreateEventLog(context.Background(), event); err != nil {
		log.Error().Err(err).Msg("Failed to create event log")
	}

	s.bus.Publish(events.Event{
		Type:         events.EquipmentActivated,
		Severity:     events.SeverityInfo,
		Airport:      m.Airport,
		FlightNumber: m.FlightNumber,
		Message:      fmt.Sprintf("%s successfully activated for flight %s", m.Kind, m.FlightNumber),
		Timestamp:    m.ActivatedAt,
		Origin:       m.Origin,
		Activation: &models.ActivationRecord{
			Airport:      m.Airport,
			FlightNumber: m.FlightNumber,
			Kind:         m.Kind,
			ActivatedAt:  m.ActivatedAt,
			CO2Saved:     m.CO2,
			FuelSaved:    m.Fuel,
		},
	})

	log.Info().
		Str("origin", m.Origin).
		Str("airport", m.Airport).
		Str("flight", m.FlightNumber).
		Str("kind", string(m.Kind)).
		Msg("Remote activation processed")
}
