package notify

import (
	"fmt"
	"sync"
	"testing"

	"github.com/waqet/groundops/internal/events"
)

// mockSender records calls for assertion.
type mockSender struct {
	mu    sync.Mutex
	urls  []string
	calls []string
	fail  bool
}

func (m *mockSender) Send(url, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.urls = append(m.urls, url)
	m.calls = append(m.calls, message)
	if m.fail {
		return fmt.Errorf("mock send error")
	}
	return nil
}

func (m *mockSender) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func TestDispatcherSendsConfiguredTypes(t *testing.T) {
	bus := events.NewBus()
	sender := &mockSender{}
	d := NewDispatcher(
		[]string{"generic://ops.example.com", "generic://backup.example.com"},
		[]string{string(events.AirportAccessDenied)},
		sender,
	)
	d.Start(bus)

	bus.Publish(events.Event{
		Type:     events.AirportAccessDenied,
		Severity: events.SeverityWarning,
		Airport:  "Jeddah",
		Message:  "Invalid PIN for the selected airport",
	})
	bus.Publish(events.Event{Type: events.UserLoggedIn, Message: "ignored"})

	// Stop drains the queue.
	d.Stop()

	if sender.callCount() != 2 {
		t.Fatalf("expected 2 sends, got %d", sender.callCount())
	}
	want := "[warning] [Jeddah] Invalid PIN for the selected airport"
	if sender.calls[0] != want {
		t.Errorf("expected %q, got %q", want, sender.calls[0])
	}
	if sender.urls[1] != "generic://backup.example.com" {
		t.Errorf("unexpected url order %v", sender.urls)
	}
}

func TestDispatcherSurvivesSendErrors(t *testing.T) {
	bus := events.NewBus()
	sender := &mockSender{fail: true}
	d := NewDispatcher([]string{"generic://ops.example.com"}, []string{string(events.ActivationFailed)}, sender)
	d.Start(bus)

	bus.Publish(events.Event{Type: events.ActivationFailed, Message: "a"})
	bus.Publish(events.Event{Type: events.ActivationFailed, Message: "b"})
	d.Stop()

	if sender.callCount() != 2 {
		t.Errorf("expected 2 attempts, got %d", sender.callCount())
	}
}

func TestDispatcherStopsListening(t *testing.T) {
	bus := events.NewBus()
	sender := &mockSender{}
	d := NewDispatcher([]string{"generic://ops.example.com"}, []string{string(events.UserSignedUp)}, sender)
	d.Start(bus)
	d.Stop()

	bus.Publish(events.Event{Type: events.UserSignedUp})
	if sender.callCount() != 0 {
		t.Errorf("expected no sends after stop, got %d", sender.callCount())
	}
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		urls  []string
		types []string
		want  bool
	}{
		{nil, []string{"airport.access_denied"}, false},
		{[]string{"generic://x"}, nil, false},
		{[]string{"generic://x"}, []string{"airport.access_denied"}, true},
	}
	for _, tt := range tests {
		if got := NewDispatcher(tt.urls, tt.types, nil).Enabled(); got != tt.want {
			t.Errorf("Enabled(%v, %v) = %v, want %v", tt.urls, tt.types, got, tt.want)
		}
	}
}

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		e    events.Event
		want string
	}{
		{events.Event{Severity: events.SeverityInfo, Message: "hello"}, "[info] hello"},
		{events.Event{Severity: events.SeverityCritical, Airport: "Riyadh", Message: "down"}, "[critical] [Riyadh] down"},
	}
	for _, tt := range tests {
		if got := formatMessage(tt.e); got != tt.want {
			t.Errorf("formatMessage() = %q, want %q", got, tt.want)
		}
	}
}
