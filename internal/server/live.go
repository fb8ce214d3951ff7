package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/waqet/groundops/internal/events"
	"github.com/waqet/groundops/internal/models"
)

const (
	liveSendBuffer   = 32
	liveWriteTimeout = 10 * time.Second
	livePongWait     = 90 * time.Second
	livePingInterval = 30 * time.Second
)

// LiveFrame is the wire format sent to live feed clients
type LiveFrame struct {
	Type         events.EventType         `json:"type"`
	Airport      string                   `json:"airport"`
	FlightNumber string                   `json:"flightNumber,omitempty"`
	Message      string                   `json:"message"`
	Activation   *models.ActivationRecord `json:"activation,omitempty"`
	Remote       bool                     `json:"remote,omitempty"`
	Timestamp    time.Time                `json:"timestamp"`
}

// liveEvents are the event types streamed to live feed clients
var liveEvents = []events.EventType{
	events.EquipmentActivated,
	events.ActivationFailed,
	events.AirportAccessGranted,
	events.AirportAccessDenied,
}

// LiveHub streams bus events to websocket clients watching an airport. Each
// client holds its own bus route for its airport.
type LiveHub struct {
	upgrader websocket.Upgrader
	bus      *events.Bus

	mu      sync.Mutex
	clients map[*liveClient]struct{}
	closed  bool
}

type liveClient struct {
	conn        *websocket.Conn
	airport     models.Airport
	send        chan []byte
	done        chan struct{}
	once        sync.Once
	unsubscribe func()
}

func (c *liveClient) stop() {
	c.once.Do(func() {
		if c.unsubscribe != nil {
			c.unsubscribe()
		}
		close(c.done)
	})
}

// push queues e for the client, dropping it when the client lags
func (c *liveClient) push(e events.Event) {
	data, err := json.Marshal(LiveFrame{
		Type:         e.Type,
		Airport:      c.airport.Name,
		FlightNumber: e.FlightNumber,
		Message:      e.Message,
		Activation:   e.Activation,
		Remote:       e.Remote(),
		Timestamp:    e.Timestamp,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal live frame")
		return
	}

	select {
	case <-c.done:
	case c.send <- data:
	default:
		log.Warn().Str("airport", c.airport.Code).Msg("Live feed client too slow, frame dropped")
	}
}

// NewLiveHub creates a hub fed by bus
func NewLiveHub(bus *events.Bus) *LiveHub {
	h := &LiveHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		bus:     bus,
		clients: make(map[*liveClient]struct{}),
	}
	return h
}

// ServeAirport upgrades the request and streams events for the airport.
// It blocks until the client disconnects.
func (h *LiveHub) ServeAirport(w http.ResponseWriter, r *http.Request, airport models.Airport) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("airport", airport.Code).Msg("Live feed upgrade failed")
		return
	}

	c := &liveClient{
		conn:    conn,
		airport: airport,
		send:    make(chan []byte, liveSendBuffer),
		done:    make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	c.unsubscribe = h.bus.SubscribeRoute(events.Route{Types: liveEvents, Airport: airport.Code}, c.push)
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	log.Info().Str("airport", airport.Code).Str("remote", r.RemoteAddr).Msg("Live feed client connected")

	go h.writeLoop(c)
	h.readLoop(c)

	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.stop()

	log.Info().Str("airport", airport.Code).Msg("Live feed client disconnected")
}

// readLoop discards client messages and returns when the connection closes
func (h *LiveHub) readLoop(c *liveClient) {
	defer c.conn.Close()

	c.conn.SetReadLimit(4 * 1024)
	c.conn.SetReadDeadline(time.Now().Add(livePongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(livePongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("airport", c.airport.Code).Msg("Live feed read error")
			}
			return
		}
	}
}

func (h *LiveHub) writeLoop(c *liveClient) {
	ticker := time.NewTicker(livePingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.conn.Close()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(
				websocket.PingMessage, nil,
				time.Now().Add(liveWriteTimeout),
			); err != nil {
				return
			}
		}
	}
}

// Clients returns the number of connected clients
func (h *LiveHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close detaches every client from the bus and disconnects it
func (h *LiveHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		c.stop()
		c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
			time.Now().Add(time.Second),
		)
		c.conn.Close()
		delete(h.clients, c)
	}
}
