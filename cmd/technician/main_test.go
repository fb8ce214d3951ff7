package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/waqet/groundops/internal/activation"
	"github.com/waqet/groundops/internal/api"
	"github.com/waqet/groundops/internal/client"
	"github.com/waqet/groundops/internal/config"
	"github.com/waqet/groundops/internal/equipment"
	"github.com/waqet/groundops/internal/events"
	"github.com/waqet/groundops/internal/models"
	"github.com/waqet/groundops/internal/session"
	"github.com/waqet/groundops/internal/storage"
)

func TestParsePairs(t *testing.T) {
	got, err := parsePairs([]string{"sv123:gpu", "MS456:ACU, EK789:gpu", ""})
	if err != nil {
		t.Fatalf("parsePairs: %v", err)
	}
	want := []activation.Pair{
		{FlightNumber: "SV123", Kind: models.EquipmentGPU},
		{FlightNumber: "MS456", Kind: models.EquipmentACU},
		{FlightNumber: "EK789", Kind: models.EquipmentGPU},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	for _, bad := range []string{"SV123", ":gpu", "SV123:apu"} {
		if _, err := parsePairs([]string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func newAPI(t *testing.T) *client.Client {
	t.Helper()
	cfg := config.Default()
	store := storage.NewMemoryStore()
	bus := events.NewBus()
	svc := equipment.NewService(store, bus, equipment.Options{GPULatency: 10 * time.Millisecond, ACULatency: 10 * time.Millisecond})
	srv := httptest.NewServer(api.NewRESTServer(cfg, store, svc, bus, nil).Handler())
	t.Cleanup(srv.Close)
	return client.New(srv.URL, 5*time.Second)
}

func TestRunActivatesRequestedPairs(t *testing.T) {
	sess := session.NewStore()
	pairs := []activation.Pair{
		{FlightNumber: "SV123", Kind: models.EquipmentGPU},
		{FlightNumber: "SV123", Kind: models.EquipmentGPU},
		{FlightNumber: "MS456", Kind: models.EquipmentACU},
	}

	view, err := run(context.Background(), newAPI(t), sess, config.Default(), credentials{
		employeeNumber: "T100", password: "pw", airport: "Riyadh", pin: "5555",
	}, pairs)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	st := sess.State()
	if !st.IsAuthenticated || st.SelectedAirport != "Riyadh" {
		t.Errorf("unexpected session %+v", st)
	}
	if len(view.Pending) != 0 {
		t.Errorf("expected nothing pending, got %v", view.Pending)
	}

	flags := map[string][2]bool{}
	for _, f := range view.Flights {
		flags[f.FlightNumber] = [2]bool{f.GPUActivated, f.ACUActivated}
	}
	if flags["SV123"] != [2]bool{true, false} || flags["MS456"] != [2]bool{false, true} {
		t.Errorf("unexpected flags %v", flags)
	}
	if !strings.Contains(view.Message, "successfully activated") || !strings.HasSuffix(view.Message, "at Riyadh") {
		t.Errorf("unexpected message %q", view.Message)
	}

	var out bytes.Buffer
	printView(&out, st, view)
	if !strings.Contains(out.String(), "John Doe") || !strings.Contains(out.String(), "SV123") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestRunWrongPINLeavesAirportUnselected(t *testing.T) {
	sess := session.NewStore()
	_, err := run(context.Background(), newAPI(t), sess, config.Default(), credentials{
		employeeNumber: "T100", password: "pw", airport: "Jeddah", pin: "0000",
	}, nil)

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
	if st := sess.State(); st.SelectedAirport != "" || !st.IsAuthenticated {
		t.Errorf("unexpected session %+v", st)
	}
}

func TestRunBadCredentials(t *testing.T) {
	sess := session.NewStore()
	_, err := run(context.Background(), newAPI(t), sess, config.Default(), credentials{airport: "Riyadh", pin: "5555"}, nil)
	if err == nil {
		t.Fatal("expected login error")
	}
	if sess.State().IsAuthenticated {
		t.Error("session should stay logged out")
	}
}

func TestSelectedAirportRequiresSelection(t *testing.T) {
	sess := session.NewStore()
	if _, err := selectedAirport(sess); !errors.Is(err, errNoAirport) {
		t.Errorf("expected errNoAirport, got %v", err)
	}

	sess.SelectAirport("Riyadh")
	if _, err := selectedAirport(sess); !errors.Is(err, errNoAirport) {
		t.Errorf("logged out session should not count, got %v", err)
	}

	sess.Login(models.User{EmployeeNumber: "T100"})
	airport, err := selectedAirport(sess)
	if err != nil || airport.Code != "RUH" {
		t.Errorf("got %+v %v", airport, err)
	}
}

func TestRunGates(t *testing.T) {
	sess := session.NewStore()
	gates, err := runGates(context.Background(), newAPI(t), sess, credentials{
		employeeNumber: "T100", password: "pw", airport: "RUH", pin: "5555",
	})
	if err != nil {
		t.Fatalf("runGates: %v", err)
	}
	sum := models.SummarizeGates(gates)
	if len(gates) != 12 || sum.Available != 6 || sum.Occupied != 4 || sum.Maintenance != 2 {
		t.Errorf("unexpected gates %d %+v", len(gates), sum)
	}

	var out bytes.Buffer
	printGates(&out, sess.State().SelectedAirport, gates)
	if !strings.Contains(out.String(), "Gates at Riyadh: 6 available, 4 occupied, 2 maintenance") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestRunGatesWrongPIN(t *testing.T) {
	sess := session.NewStore()
	gates, err := runGates(context.Background(), newAPI(t), sess, credentials{
		employeeNumber: "T100", password: "pw", airport: "RUH", pin: "0000",
	})
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden || gates != nil {
		t.Errorf("expected 403 and no gates, got %v %v", gates, err)
	}
}

func TestRunReport(t *testing.T) {
	sess := session.NewStore()
	report, err := runReport(context.Background(), newAPI(t), sess, credentials{
		employeeNumber: "T100", password: "pw", airport: "Jeddah", pin: "7777",
	})
	if err != nil {
		t.Fatalf("runReport: %v", err)
	}
	if report.Daily == nil || report.Daily.TodaysFlights != 67 || report.Daily.Airport != "Jeddah" {
		t.Errorf("unexpected daily report %+v", report.Daily)
	}
	if report.Sustainability == nil || len(report.Sustainability.FlightSummary) == 0 {
		t.Errorf("unexpected sustainability %+v", report.Sustainability)
	}

	var out bytes.Buffer
	printReport(&out, "Jeddah", report)
	if !strings.Contains(out.String(), "Report for Jeddah") || !strings.Contains(out.String(), "67") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestAirportsAndSignup(t *testing.T) {
	api := newAPI(t)
	ctx := context.Background()

	airports, err := api.Airports(ctx)
	if err != nil || len(airports) != len(models.Airports) {
		t.Fatalf("unexpected airports %+v %v", airports, err)
	}
	var out bytes.Buffer
	printAirports(&out, airports)
	if !strings.Contains(out.String(), "King Khalid International Airport") {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	user, err := api.Signup(ctx, models.SignupRequest{
		Name: "Sara Ali", Birthdate: "1990-04-01", NationalID: "1234567890",
		Organization: "WAQET", JobTitle: "Technician", EmployeeNumber: "T200", Password: "pw",
	})
	if err != nil || user.EmployeeNumber != "T200" {
		t.Errorf("unexpected signup %+v %v", user, err)
	}
}
