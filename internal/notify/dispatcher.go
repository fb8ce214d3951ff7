// Package notify forwards selected bus events to operator channels through
// Shoutrrr service URLs.
package notify

import (
	"fmt"
	"sync"

	"github.com/nicholas-fedor/shoutrrr"
	"github.com/rs/zerolog/log"

	"github.com/waqet/groundops/internal/events"
)

const queueSize = 256

// Sender abstracts message dispatch so the dispatcher can be tested
// without hitting real services.
type Sender interface {
	Send(shoutrrrURL, message string) error
}

// ShoutrrrSender dispatches via the Shoutrrr library.
type ShoutrrrSender struct{}

func (ShoutrrrSender) Send(url, message string) error {
	return shoutrrr.Send(url, message)
}

// Dispatcher subscribes to the event bus and sends matching events to every
// configured URL.
type Dispatcher struct {
	urls   []string
	types  []events.EventType
	sender Sender

	detach func()
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher. Only events of the given types are
// sent; an empty list sends nothing.
func NewDispatcher(urls []string, types []string, sender Sender) *Dispatcher {
	if sender == nil {
		sender = ShoutrrrSender{}
	}
	d := &Dispatcher{
		urls:   urls,
		sender: sender,
		stopCh: make(chan struct{}),
	}
	for _, t := range types {
		d.types = append(d.types, events.EventType(t))
	}
	return d
}

// Enabled reports whether there is anything to dispatch
func (d *Dispatcher) Enabled() bool {
	return len(d.urls) > 0 && len(d.types) > 0
}

// Start subscribes to bus and begins dispatching in the background.
func (d *Dispatcher) Start(bus *events.Bus) {
	ch := make(chan events.Event, queueSize)

	// Subscribe with no types would receive every event.
	if len(d.types) > 0 {
		d.detach = bus.Subscribe(func(e events.Event) {
			select {
			case ch <- e:
			default:
				log.Warn().Str("type", string(e.Type)).Msg("Notification queue full, event dropped")
			}
		}, d.types...)
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case e := <-ch:
				d.handle(e)
			case <-d.stopCh:
				// Drain remaining events
				for {
					select {
					case e := <-ch:
						d.handle(e)
					default:
						return
					}
				}
			}
		}
	}()

	log.Info().
		Int("targets", len(d.urls)).
		Int("eventTypes", len(d.types)).
		Msg("Notification dispatcher started")
}

// Stop unsubscribes, sends what is queued and waits for the worker.
func (d *Dispatcher) Stop() {
	if d.detach != nil {
		d.detach()
	}
	close(d.stopCh)
	d.wg.Wait()
}

func (d *Dispatcher) handle(e events.Event) {
	msg := formatMessage(e)
	for _, url := range d.urls {
		if err := d.sender.Send(url, msg); err != nil {
			log.Error().Err(err).Str("type", string(e.Type)).Msg("Notification send failed")
		}
	}
}

// formatMessage builds a human-readable notification string.
func formatMessage(e events.Event) string {
	severity := e.Severity.String()
	if e.Airport != "" {
		return fmt.Sprintf("[%s] [%s] %s", severity, e.Airport, e.Message)
	}
	return fmt.Sprintf("[%s] %s", severity, e.Message)
}
