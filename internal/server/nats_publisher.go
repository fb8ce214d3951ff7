package server

import (
	"github.com/rs/zerolog/log"

	"github.com/waqet/groundops/internal/events"
)

// Publisher is the part of *nats.Conn used to publish
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher announces local activations to other instances
type NATSPublisher struct {
	nc     Publisher
	prefix string
	origin string
}

// NewNATSPublisher creates a publisher. origin identifies this instance.
func NewNATSPublisher(nc Publisher, prefix, origin string) *NATSPublisher {
	return &NATSPublisher{
		nc:     nc,
		prefix: prefix,
		origin: origin,
	}
}

// Attach subscribes the publisher to activation events on bus
func (p *NATSPublisher) Attach(bus *events.Bus) (detach func()) {
	return bus.Subscribe(p.handleActivation, events.EquipmentActivated)
}

func (p *NATSPublisher) handleActivation(e events.Event) {
	// Remote events came from NATS already.
	if e.Remote() || e.Activation == nil {
		return
	}
	rec := e.Activation

	data, err := encodeActivation(ActivationMessage{
		Origin:       p.origin,
		Airport:      rec.Airport,
		FlightNumber: rec.FlightNumber,
		Kind:         rec.Kind,
		ActivatedAt:  rec.ActivatedAt,
		CO2:          rec.CO2Saved,
		Fuel:         rec.FuelSaved,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal activation message")
		return
	}

	subject := ActivationSubject(p.prefix, rec.Airport, rec.Kind)
	if err := p.nc.Publish(subject, data); err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("Failed to publish activation")
		return
	}

	log.Debug().
		Str("subject", subject).
		Str("flight", rec.FlightNumber).
		Msg("Activation published")
}
