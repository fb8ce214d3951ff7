package server

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/waqet/groundops/internal/config"
	"github.com/waqet/groundops/internal/models"
)

// ActivationMessage is the NATS payload announcing an activation
type ActivationMessage struct {
	Origin       string               `json:"origin"`
	Airport      string               `json:"airport"`
	FlightNumber string               `json:"flightNumber"`
	Kind         models.EquipmentKind `json:"kind"`
	ActivatedAt  time.Time            `json:"activatedAt"`
	CO2          int                  `json:"co2"`
	Fuel         int                  `json:"fuel"`
}

// ActivationSubject builds <prefix>.<CODE>.equipment.<kind>.activated
func ActivationSubject(prefix, airportCode string, kind models.EquipmentKind) string {
	return fmt.Sprintf("%s.%s.equipment.%s.activated", prefix, strings.ToUpper(airportCode), kind.Slug())
}

// activationWildcard matches activation subjects of every airport and kind
func activationWildcard(prefix string) string {
	return prefix + ".*.equipment.*.activated"
}

func encodeActivation(m ActivationMessage) ([]byte, error) {
	return json.Marshal(m)
}

func decodeActivation(data []byte) (ActivationMessage, error) {
	var m ActivationMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return m, err
	}
	if m.FlightNumber == "" || m.Airport == "" {
		return m, fmt.Errorf("incomplete activation message")
	}
	kind, err := models.ParseEquipmentKind(string(m.Kind))
	if err != nil {
		return m, err
	}
	m.Kind = kind
	return m, nil
}

// Connect opens a NATS connection using cfg
func Connect(cfg config.NATSConfig) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name(cfg.ClientID),
		nats.ReconnectWait(cfg.ReconnectInterval),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn().Err(err).Msg("Disconnected from NATS")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Msg("Reconnected to NATS")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			subject := ""
			if sub != nil {
				subject = sub.Subject
			}
			log.Error().
				Err(err).
				Str("subject", subject).
				Msg("NATS error")
		}),
	}
	if cfg.Username != "" {
		opts = append(opts, nats.UserInfo(cfg.Username, cfg.Password))
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return nc, nil
}
