package models

import "testing"

func TestLookupAirport(t *testing.T) {
	tests := []struct {
		key  string
		code string
		ok   bool
	}{
		{"Jeddah", "JED", true},
		{"jed", "JED", true},
		{" RUH ", "RUH", true},
		{"dammam", "DMM", true},
		{"Cairo", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		a, ok := LookupAirport(tt.key)
		if ok != tt.ok || a.Code != tt.code {
			t.Errorf("LookupAirport(%q) = %q, %v; want %q, %v", tt.key, a.Code, ok, tt.code, tt.ok)
		}
	}
}

func TestParseEquipmentKind(t *testing.T) {
	for in, want := range map[string]EquipmentKind{"gpu": EquipmentGPU, "ACU": EquipmentACU, " Gpu ": EquipmentGPU} {
		got, err := ParseEquipmentKind(in)
		if err != nil || got != want {
			t.Errorf("ParseEquipmentKind(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseEquipmentKind("apu"); err == nil {
		t.Error("expected error for unknown kind")
	}
	if EquipmentACU.Slug() != "acu" {
		t.Errorf("unexpected slug %q", EquipmentACU.Slug())
	}
}

func TestFlightActivated(t *testing.T) {
	f := Flight{GPUActivated: true}
	if !f.Activated(EquipmentGPU) || f.Activated(EquipmentACU) {
		t.Errorf("unexpected flags for %+v", f)
	}
}

func TestSummarizeGates(t *testing.T) {
	s := SummarizeGates([]Gate{
		{Status: GateAvailable},
		{Status: GateOccupied},
		{Status: GateOccupied},
		{Status: GateMaintenance},
	})
	if s.Available != 1 || s.Occupied != 2 || s.Maintenance != 1 {
		t.Errorf("unexpected summary %+v", s)
	}
}

func TestVariablesScan(t *testing.T) {
	var v Variables
	if err := v.Scan([]byte(`{"co2":42}`)); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if v["co2"].(float64) != 42 {
		t.Errorf("unexpected value %v", v["co2"])
	}
	if err := v.Scan(nil); err != nil || len(v) != 0 {
		t.Errorf("expected empty map on nil, got %v %v", v, err)
	}
	if err := v.Scan(12); err == nil {
		t.Error("expected error for int")
	}
}
