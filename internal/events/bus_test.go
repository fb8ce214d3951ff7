package events

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPublishCallsMatchingSubscriber(t *testing.T) {
	bus := NewBus()
	var called atomic.Bool

	bus.Subscribe(func(e Event) {
		if e.Type != EquipmentActivated {
			t.Errorf("expected EquipmentActivated, got %s", e.Type)
		}
		called.Store(true)
	}, EquipmentActivated)

	bus.Publish(Event{Type: EquipmentActivated, FlightNumber: "SV123"})

	if !called.Load() {
		t.Error("subscriber was not called")
	}
}

func TestSubscriberIgnoresUnmatchedTypes(t *testing.T) {
	bus := NewBus()
	var called atomic.Bool

	bus.Subscribe(func(e Event) {
		called.Store(true)
	}, AirportAccessDenied)

	bus.Publish(Event{Type: UserLoggedIn})

	if called.Load() {
		t.Error("subscriber should not have been called for UserLoggedIn")
	}
}

func TestWildcardSubscriberReceivesAll(t *testing.T) {
	bus := NewBus()
	var count atomic.Int32

	bus.Subscribe(func(e Event) {
		count.Add(1)
	})

	bus.Publish(Event{Type: EquipmentActivated})
	bus.Publish(Event{Type: AirportAccessGranted})
	bus.Publish(Event{Type: UserSignedUp})

	if count.Load() != 3 {
		t.Errorf("expected 3 calls, got %d", count.Load())
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()
	var a, b atomic.Int32

	unsub := bus.Subscribe(func(Event) { a.Add(1) })
	bus.Subscribe(func(Event) { b.Add(1) })

	bus.Publish(Event{Type: UserLoggedIn})
	unsub()
	unsub()
	bus.Publish(Event{Type: UserLoggedIn})

	if a.Load() != 1 || b.Load() != 2 {
		t.Errorf("expected 1 and 2 calls, got %d and %d", a.Load(), b.Load())
	}
}

func TestSubscribeRouteByAirport(t *testing.T) {
	bus := NewBus()
	var riyadh, jeddah []string

	bus.SubscribeRoute(Route{Airport: "Riyadh"}, func(e Event) {
		riyadh = append(riyadh, e.FlightNumber)
	})
	bus.SubscribeRoute(Route{Airport: "jed", Types: []EventType{EquipmentActivated}}, func(e Event) {
		jeddah = append(jeddah, e.FlightNumber)
	})

	bus.Publish(Event{Type: EquipmentActivated, Airport: "RUH", FlightNumber: "SV123"})
	bus.Publish(Event{Type: ActivationFailed, Airport: "riyadh", FlightNumber: "MS456"})
	bus.Publish(Event{Type: EquipmentActivated, Airport: "Jeddah", FlightNumber: "TK654"})
	bus.Publish(Event{Type: ActivationFailed, Airport: "JED", FlightNumber: "SV567"})
	bus.Publish(Event{Type: UserLoggedIn})

	if len(riyadh) != 2 || riyadh[0] != "SV123" || riyadh[1] != "MS456" {
		t.Errorf("unexpected Riyadh events %v", riyadh)
	}
	if len(jeddah) != 1 || jeddah[0] != "TK654" {
		t.Errorf("unexpected Jeddah events %v", jeddah)
	}
}

func TestSubscribeRouteByFlight(t *testing.T) {
	bus := NewBus()
	var got []EventType

	bus.SubscribeRoute(Route{Airport: "RUH", Flight: "sv123"}, func(e Event) {
		if e.Airport != "Riyadh" {
			t.Errorf("event airport rewritten to %q", e.Airport)
		}
		got = append(got, e.Type)
	})

	bus.Publish(Event{Type: EquipmentActivated, Airport: "Riyadh", FlightNumber: "SV123"})
	bus.Publish(Event{Type: EquipmentActivated, Airport: "Riyadh", FlightNumber: "MS456"})
	bus.Publish(Event{Type: ActivationFailed, Airport: "Jeddah", FlightNumber: "SV123"})
	bus.Publish(Event{Type: ActivationFailed, Airport: "Riyadh", FlightNumber: "SV123"})

	if len(got) != 2 || got[0] != EquipmentActivated || got[1] != ActivationFailed {
		t.Errorf("unexpected events %v", got)
	}
}

func TestPublishSetsTimestamp(t *testing.T) {
	bus := NewBus()
	var got time.Time

	bus.Subscribe(func(e Event) {
		got = e.Timestamp
	})

	bus.Publish(Event{Type: UserLoggedIn})

	if got.IsZero() {
		t.Error("timestamp was not set")
	}
}

func TestPublishPreservesExplicitTimestamp(t *testing.T) {
	bus := NewBus()
	explicit := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var got time.Time

	bus.Subscribe(func(e Event) {
		got = e.Timestamp
	})

	bus.Publish(Event{Type: UserLoggedIn, Timestamp: explicit})

	if !got.Equal(explicit) {
		t.Errorf("expected %v, got %v", explicit, got)
	}
}

func TestConcurrentPublishSubscribe(t *testing.T) {
	bus := NewBus()
	var count atomic.Int32
	var wg sync.WaitGroup

	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Subscribe(func(e Event) {
				count.Add(1)
			}, EquipmentActivated)
		}()
	}
	wg.Wait()

	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(Event{Type: EquipmentActivated})
		}()
	}
	wg.Wait()

	expected := int32(10 * 100)
	if count.Load() != expected {
		t.Errorf("expected %d, got %d", expected, count.Load())
	}
}

func TestPanicInSubscriberDoesNotCrash(t *testing.T) {
	bus := NewBus()
	var secondCalled atomic.Bool

	bus.Subscribe(func(e Event) {
		panic("bad subscriber")
	}, EquipmentActivated)

	bus.Subscribe(func(e Event) {
		secondCalled.Store(true)
	}, EquipmentActivated)

	bus.Publish(Event{Type: EquipmentActivated})

	if !secondCalled.Load() {
		t.Error("second subscriber should still be called after first panics")
	}
}

func TestRemote(t *testing.T) {
	if (Event{}).Remote() {
		t.Error("local event reported as remote")
	}
	if !(Event{Origin: "b1c2"}).Remote() {
		t.Error("event with origin should be remote")
	}
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		s    Severity
		want string
	}{
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityCritical, "critical"},
		{Severity(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
