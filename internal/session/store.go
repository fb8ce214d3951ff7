// Package session holds the technician's authentication and airport
// selection state.
//
// A Store is created once per running client and passed to every component
// that needs it. Mutators notify subscribers synchronously, in subscription
// order, before returning.
//
// Subscribers may call mutators. Such a nested mutation is applied at once and
// its notification is queued behind the one being delivered, so every
// subscriber still sees snapshots in mutation order. The same holds for a
// mutation made by another goroutine while a delivery is under way: the
// delivering goroutine hands it out before returning.
package session

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/waqet/groundops/internal/models"
)

// State is a snapshot of the session.
// IsAuthenticated is true if and only if User is non-nil.
type State struct {
	User            *models.User `json:"user"`
	SelectedAirport string       `json:"selectedAirport"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

// HasAirport reports whether an airport has been selected
func (s State) HasAirport() bool {
	return s.SelectedAirport != ""
}

// Listener receives the post-mutation snapshot
type Listener func(State)

type subscription struct {
	id int
	fn Listener
}

// notification is a snapshot waiting to be handed to the subscribers that
// were registered when it was taken
type notification struct {
	snapshot State
	subs     []subscription
}

// Store is the session state container
type Store struct {
	mu     sync.RWMutex
	state  State
	subs   []subscription
	nextID int

	// pending is drained in FIFO order by the one mutator that set delivering
	pending    []notification
	delivering bool
}

// NewStore creates a store in the initial (logged out) state
func NewStore() *Store {
	return &Store{}
}

// Login sets the user and marks the session authenticated.
// A previously selected airport is kept.
func (s *Store) Login(user models.User) {
	s.mutate(func(st *State) {
		u := user
		st.User = &u
		st.IsAuthenticated = true
	})
}

// SelectAirport sets the selected airport. It does not check authentication;
// callers guard that.
func (s *Store) SelectAirport(airport string) {
	s.mutate(func(st *State) {
		st.SelectedAirport = airport
	})
}

// Logout resets the session to its initial state
func (s *Store) Logout() {
	s.mutate(func(st *State) {
		*st = State{}
	})
}

// State returns the current snapshot
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Subscribe registers fn for every future notification. The returned func
// removes this registration only; calling it more than once is harmless.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Subscribers returns the number of active subscriptions
func (s *Store) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

func (s *Store) mutate(apply func(*State)) {
	s.mu.Lock()
	apply(&s.state)
	n := notification{snapshot: s.state.clone(), subs: make([]subscription, len(s.subs))}
	copy(n.subs, s.subs)
	s.pending = append(s.pending, n)

	if s.delivering {
		s.mu.Unlock()
		return
	}
	s.delivering = true

	for len(s.pending) > 0 {
		next := s.pending[0]
		s.pending[0] = notification{}
		s.pending = s.pending[1:]
		s.mu.Unlock()

		for _, sub := range next.subs {
			s.deliver(sub, next.snapshot.clone())
		}

		s.mu.Lock()
	}
	s.pending = nil
	s.delivering = false
	s.mu.Unlock()
}

func (s *Store) deliver(sub subscription, snapshot State) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Int("subscription", sub.id).
				Msg("Session subscriber panicked")
		}
	}()
	sub.fn(snapshot)
}

func (st State) clone() State {
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}
