package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/waqet/groundops/internal/models"
)

func flightByNumber(flights []models.Flight, number string) (models.Flight, bool) {
	for _, f := range flights {
		if f.FlightNumber == number {
			return f, true
		}
	}
	return models.Flight{}, false
}

func TestTimelineByNameOrCode(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for _, key := range []string{"Riyadh", "RUH", "ruh"} {
		flights, err := s.Timeline(ctx, key)
		if err != nil {
			t.Fatalf("Timeline(%q): %v", key, err)
		}
		if len(flights) != len(referenceFlights["RUH"]) {
			t.Errorf("Timeline(%q) returned %d flights", key, len(flights))
		}
		for _, f := range flights {
			if f.Airport != "Riyadh" {
				t.Errorf("expected airport Riyadh, got %q", f.Airport)
			}
		}
	}
}

func TestUnknownAirportIsEmpty(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	flights, err := s.Timeline(ctx, "Tabuk")
	if err != nil || flights == nil || len(flights) != 0 {
		t.Errorf("expected empty timeline, got %v, %v", flights, err)
	}
	gates, err := s.Gates(ctx, "XXX")
	if err != nil || gates == nil || len(gates) != 0 {
		t.Errorf("expected empty gates, got %v, %v", gates, err)
	}
}

func TestReportsFallBackToRiyadh(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	tests := []struct {
		airport string
		flights int
		co2     int
	}{
		{"Riyadh", 89, 1847},
		{"Jeddah", 67, 1456},
		{"Dammam", 43, 987},
		{"Tabuk", 89, 1847},
		{"", 89, 1847},
	}
	for _, tt := range tests {
		r, err := s.DailyReport(ctx, tt.airport)
		if err != nil {
			t.Fatal(err)
		}
		if r.TodaysFlights != tt.flights || r.Airport != tt.airport || r.Timestamp.IsZero() {
			t.Errorf("DailyReport(%q) = %+v", tt.airport, r)
		}

		sus, err := s.Sustainability(ctx, tt.airport)
		if err != nil {
			t.Fatal(err)
		}
		if sus.CO2Saved != tt.co2 || len(sus.MonthlyTrend) != 5 {
			t.Errorf("Sustainability(%q) = %+v", tt.airport, sus)
		}
	}
}

func TestReferenceDataIsCopied(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	gates, _ := s.Gates(ctx, "JED")
	gates[0].Status = models.GateMaintenance
	sus, _ := s.Sustainability(ctx, "JED")
	sus.FlightSummary[0].CO2Saved = 0

	again, _ := s.Gates(ctx, "JED")
	if again[0].Status != models.GateOccupied {
		t.Error("gate table was modified through a returned slice")
	}
	susAgain, _ := s.Sustainability(ctx, "JED")
	if susAgain.FlightSummary[0].CO2Saved != 42 {
		t.Error("sustainability table was modified through a returned slice")
	}
}

func TestTimelineReflectsRecordedActivations(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	err := s.RecordActivation(ctx, &models.ActivationRecord{
		Airport:      "Riyadh",
		FlightNumber: "SV123",
		Kind:         models.EquipmentGPU,
		CO2Saved:     40,
	})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		flights, err := s.Timeline(ctx, "RUH")
		if err != nil {
			t.Fatal(err)
		}
		sv, _ := flightByNumber(flights, "SV123")
		if !sv.GPUActivated || sv.ACUActivated {
			t.Errorf("read %d: unexpected flags %+v", i, sv)
		}
		ms, _ := flightByNumber(flights, "MS456")
		if ms.GPUActivated {
			t.Errorf("read %d: other flight changed %+v", i, ms)
		}
	}

	other, _ := s.Timeline(ctx, "Jeddah")
	for _, f := range other {
		if f.FlightNumber == "SV123" {
			t.Error("activation leaked into another airport")
		}
	}
}

func TestRecordActivationNormalizes(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rec := &models.ActivationRecord{Airport: "jeddah", FlightNumber: "TK654", Kind: "acu"}
	if err := s.RecordActivation(ctx, rec); err != nil {
		t.Fatal(err)
	}
	if rec.Airport != "JED" || rec.Kind != models.EquipmentACU || rec.ActivatedAt.IsZero() {
		t.Errorf("record not normalized: %+v", rec)
	}

	list, _ := s.ListActivations(ctx, "JED")
	if len(list) != 1 || list[0].ID != rec.ID {
		t.Errorf("unexpected activations %+v", list)
	}
}

func TestRecordActivationRejectsInvalid(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	tests := map[string]*models.ActivationRecord{
		"unknown airport": {Airport: "Tabuk", FlightNumber: "SV1", Kind: models.EquipmentGPU},
		"no flight":       {Airport: "RUH", Kind: models.EquipmentGPU},
		"bad kind":        {Airport: "RUH", FlightNumber: "SV1", Kind: "APU"},
	}
	for name, rec := range tests {
		if err := s.RecordActivation(ctx, rec); !errors.Is(err, ErrInvalidData) {
			t.Errorf("%s: expected ErrInvalidData, got %v", name, err)
		}
	}
}

func TestRecordActivationRejectsDuplicateID(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first := &models.ActivationRecord{Airport: "RUH", FlightNumber: "SV123", Kind: models.EquipmentGPU}
	if err := s.RecordActivation(ctx, first); err != nil {
		t.Fatal(err)
	}

	again := &models.ActivationRecord{ID: first.ID, Airport: "RUH", FlightNumber: "MS456", Kind: models.EquipmentACU}
	if err := s.RecordActivation(ctx, again); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}

	err := s.WithTx(ctx, func(tx Store) error {
		staged := &models.ActivationRecord{Airport: "JED", FlightNumber: "TK654", Kind: models.EquipmentGPU}
		if err := tx.RecordActivation(ctx, staged); err != nil {
			return err
		}
		if err := tx.RecordActivation(ctx, &models.ActivationRecord{ID: staged.ID, Airport: "JED", FlightNumber: "TK654", Kind: models.EquipmentACU}); !errors.Is(err, ErrDuplicateKey) {
			t.Errorf("expected staged duplicate to be rejected, got %v", err)
		}
		return tx.RecordActivation(ctx, &models.ActivationRecord{ID: first.ID, Airport: "JED", FlightNumber: "TK654", Kind: models.EquipmentACU})
	})
	if !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("expected committed duplicate to abort the transaction, got %v", err)
	}

	ruh, _ := s.ListActivations(ctx, "RUH")
	jed, _ := s.ListActivations(ctx, "JED")
	if len(ruh) != 1 || len(jed) != 0 {
		t.Errorf("unexpected activations RUH=%d JED=%d", len(ruh), len(jed))
	}
}

func TestEventLogFiltersAndPaging(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		airport := "Riyadh"
		if i%2 == 1 {
			airport = "DMM"
		}
		err := s.CreateEventLog(ctx, &models.EventLog{
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Airport:   airport,
			Type:      models.EventTypeEquipmentActivated,
			Code:      "GPU",
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	s.CreateEventLog(ctx, &models.EventLog{
		CreatedAt: base,
		Type:      models.EventTypeAirportDenied,
		Level:     models.EventLevelWarning,
	})

	all, count, _ := s.ListEventLogs(ctx, EventLogFilters{}, 100, 0)
	if count != 6 || len(all) != 6 {
		t.Fatalf("expected 6 events, got %d (%d)", len(all), count)
	}
	if !all[0].CreatedAt.Equal(base.Add(4 * time.Minute)) {
		t.Errorf("expected newest first, got %v", all[0].CreatedAt)
	}
	if all[0].Level != models.EventLevelInfo || all[0].Airport != "RUH" {
		t.Errorf("expected default level and airport code, got %+v", all[0])
	}

	riyadh := "riyadh"
	list, count, _ := s.ListEventLogs(ctx, EventLogFilters{Airport: &riyadh}, 2, 1)
	if count != 3 || len(list) != 2 {
		t.Errorf("expected 2 of 3 Riyadh events, got %d of %d", len(list), count)
	}

	denied := models.EventTypeAirportDenied
	list, count, _ = s.ListEventLogs(ctx, EventLogFilters{Type: &denied}, 10, 0)
	if count != 1 || list[0].Level != models.EventLevelWarning {
		t.Errorf("unexpected denied events %+v", list)
	}

	start := base.Add(3 * time.Minute)
	list, _, _ = s.ListEventLogs(ctx, EventLogFilters{StartTime: &start}, 10, 0)
	if len(list) != 2 {
		t.Errorf("expected 2 events after start, got %d", len(list))
	}

	list, count, _ = s.ListEventLogs(ctx, EventLogFilters{}, 10, 50)
	if count != 6 || len(list) != 0 {
		t.Errorf("expected empty page past the end, got %d", len(list))
	}
}

func TestWithTxCommitsOnlyOnSuccess(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	failure := errors.New("boom")
	err := s.WithTx(ctx, func(tx Store) error {
		tx.RecordActivation(ctx, &models.ActivationRecord{Airport: "RUH", FlightNumber: "SV123", Kind: models.EquipmentGPU})
		tx.CreateEventLog(ctx, &models.EventLog{Type: models.EventTypeEquipmentActivated})
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("expected failure, got %v", err)
	}
	if list, _ := s.ListActivations(ctx, "RUH"); len(list) != 0 {
		t.Error("rolled back activation is visible")
	}

	err = s.WithTx(ctx, func(tx Store) error {
		if err := tx.RecordActivation(ctx, &models.ActivationRecord{Airport: "RUH", FlightNumber: "SV123", Kind: models.EquipmentGPU}); err != nil {
			return err
		}
		return tx.CreateEventLog(ctx, &models.EventLog{Type: models.EventTypeEquipmentActivated})
	})
	if err != nil {
		t.Fatal(err)
	}
	if list, _ := s.ListActivations(ctx, "RUH"); len(list) != 1 {
		t.Errorf("expected committed activation, got %d", len(list))
	}
	if _, count, _ := s.ListEventLogs(ctx, EventLogFilters{}, 10, 0); count != 1 {
		t.Errorf("expected committed event, got %d", count)
	}
}

func TestAirports(t *testing.T) {
	s := NewMemoryStore()
	airports, _ := s.Airports(context.Background())
	if len(airports) != 3 {
		t.Fatalf("expected 3 airports, got %d", len(airports))
	}
	airports[0].Name = "changed"
	if models.Airports[0].Name != "Riyadh" {
		t.Error("reference airports were modified")
	}
}
