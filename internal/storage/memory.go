package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/waqet/groundops/internal/models"
)

// MemoryStore implements Store in process memory. Used when no database is
// configured and in tests.
type MemoryStore struct {
	mu          sync.RWMutex
	activations []*models.ActivationRecord
	events      []*models.EventLog
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// WithTx runs fn against a staging store. Writes made through it become
// visible only when fn returns nil.
func (s *MemoryStore) WithTx(ctx context.Context, fn func(Store) error) error {
	tx := &memoryTx{MemoryStore: s}
	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.activations = append(s.activations, tx.activations...)
	s.events = append(s.events, tx.events...)
	return nil
}

func (s *MemoryStore) Airports(ctx context.Context) ([]models.Airport, error) {
	return airportList(), nil
}

func (s *MemoryStore) Timeline(ctx context.Context, airport string) ([]models.Flight, error) {
	flights := timelineFor(airport)
	records, err := s.ListActivations(ctx, airport)
	if err != nil {
		return nil, err
	}
	return overlayActivations(flights, records), nil
}

func (s *MemoryStore) Gates(ctx context.Context, airport string) ([]models.Gate, error) {
	return gatesFor(airport), nil
}

func (s *MemoryStore) DailyReport(ctx context.Context, airport string) (*models.DailyReport, error) {
	r := reportFor(airport)
	r.Airport = airport
	r.Timestamp = time.Now().UTC()
	return r, nil
}

func (s *MemoryStore) Sustainability(ctx context.Context, airport string) (*models.Sustainability, error) {
	r := sustainabilityFor(airport)
	r.Airport = airport
	r.Timestamp = time.Now().UTC()
	return r, nil
}

func (s *MemoryStore) RecordActivation(ctx context.Context, rec *models.ActivationRecord) error {
	if err := prepareActivation(rec); err != nil {
		return err
	}
	cp := *rec

	s.mu.Lock()
	defer s.mu.Unlock()
	if containsActivation(s.activations, rec.ID) {
		return fmt.Errorf("%w: activation %s", ErrDuplicateKey, rec.ID)
	}
	s.activations = append(s.activations, &cp)
	return nil
}

func (s *MemoryStore) ListActivations(ctx context.Context, airport string) ([]*models.ActivationRecord, error) {
	code, ok := airportCode(airport)
	if !ok {
		return []*models.ActivationRecord{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.ActivationRecord{}
	for _, rec := range s.activations {
		if rec.Airport == code {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemoryStore) CreateEventLog(ctx context.Context, event *models.EventLog) error {
	prepareEventLog(event)
	cp := *event

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, &cp)
	return nil
}

// ListEventLogs returns matching events, newest first
func (s *MemoryStore) ListEventLogs(ctx context.Context, filters EventLogFilters, limit, offset int) ([]*models.EventLog, int64, error) {
	if filters.Airport != nil {
		code := normalizeAirport(*filters.Airport)
		filters.Airport = &code
	}

	s.mu.RLock()
	matched := []*models.EventLog{}
	for _, e := range s.events {
		if filters.match(e) {
			cp := *e
			matched = append(matched, &cp)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	count := int64(len(matched))
	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	if limit >= 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, count, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// memoryTx stages writes for MemoryStore.WithTx and reads through to the
// parent store.
type memoryTx struct {
	*MemoryStore
	activations []*models.ActivationRecord
	events      []*models.EventLog
}

func (t *memoryTx) WithTx(ctx context.Context, fn func(Store) error) error {
	return fn(t)
}

func (t *memoryTx) RecordActivation(ctx context.Context, rec *models.ActivationRecord) error {
	if err := prepareActivation(rec); err != nil {
		return err
	}
	t.MemoryStore.mu.RLock()
	committed := containsActivation(t.MemoryStore.activations, rec.ID)
	t.MemoryStore.mu.RUnlock()
	if committed || containsActivation(t.activations, rec.ID) {
		return fmt.Errorf("%w: activation %s", ErrDuplicateKey, rec.ID)
	}
	cp := *rec
	t.activations = append(t.activations, &cp)
	return nil
}

func containsActivation(records []*models.ActivationRecord, id uuid.UUID) bool {
	for _, r := range records {
		if r.ID == id {
			return true
		}
	}
	return false
}

func (t *memoryTx) CreateEventLog(ctx context.Context, event *models.EventLog) error {
	prepareEventLog(event)
	cp := *event
	t.events = append(t.events, &cp)
	return nil
}

// prepareActivation validates rec and fills in id, time and airport code
func prepareActivation(rec *models.ActivationRecord) error {
	code, ok := airportCode(rec.Airport)
	if !ok {
		return fmt.Errorf("%w: unknown airport %q", ErrInvalidData, rec.Airport)
	}
	if rec.FlightNumber == "" {
		return fmt.Errorf("%w: flight number is required", ErrInvalidData)
	}
	kind, err := models.ParseEquipmentKind(string(rec.Kind))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	rec.Airport = code
	rec.Kind = kind
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.ActivatedAt.IsZero() {
		rec.ActivatedAt = time.Now().UTC()
	}
	return nil
}

func prepareEventLog(event *models.EventLog) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if event.Level == "" {
		event.Level = models.EventLevelInfo
	}
	event.Airport = normalizeAirport(event.Airport)
}

// normalizeAirport maps known airport names to their code
func normalizeAirport(key string) string {
	if code, ok := airportCode(key); ok {
		return code
	}
	return key
}
