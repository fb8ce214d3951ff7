package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/waqet/groundops/internal/activation"
	"github.com/waqet/groundops/internal/client"
	"github.com/waqet/groundops/internal/config"
	"github.com/waqet/groundops/internal/models"
	"github.com/waqet/groundops/internal/session"
)

// Modes
const (
	modeActivate = "activate"
	modeGates    = "gates"
	modeReport   = "report"
	modeAirports = "airports"
	modeSignup   = "signup"
)

var errNoAirport = errors.New("no airport selected")

func main() {
	// Command line flags
	var (
		configFile     string
		mode           string
		employeeNumber string
		password       string
		airport        string
		pin            string
		jsonOutput     bool
		signup         models.SignupRequest
	)
	flag.StringVar(&configFile, "config", "config/groundops.yml", "Configuration file path")
	flag.StringVar(&mode, "mode", modeActivate, "One of activate, gates, report, airports, signup")
	flag.StringVar(&employeeNumber, "employee", os.Getenv("GROUNDOPS_EMPLOYEE"), "Employee number")
	flag.StringVar(&password, "password", os.Getenv("GROUNDOPS_PASSWORD"), "Password")
	flag.StringVar(&airport, "airport", "", "Airport name or code")
	flag.StringVar(&pin, "pin", "", "Airport access PIN")
	flag.BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	flag.StringVar(&signup.Name, "name", "", "Full name (signup)")
	flag.StringVar(&signup.Birthdate, "birthdate", "", "Birthdate, YYYY-MM-DD (signup)")
	flag.StringVar(&signup.NationalID, "national-id", "", "National ID (signup)")
	flag.StringVar(&signup.Organization, "organization", "", "Organization (signup)")
	flag.StringVar(&signup.JobTitle, "job-title", "", "Job title (signup)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [FLIGHT:gpu|acu ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using process environment")
	}

	cfg, err := config.LoadOptional(configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := client.New(cfg.Client.BaseURL, cfg.Client.Timeout)
	sess := session.NewStore()
	unsubscribe := sess.Subscribe(func(st session.State) {
		log.Debug().
			Bool("authenticated", st.IsAuthenticated).
			Str("airport", st.SelectedAirport).
			Msg("Session changed")
	})
	defer unsubscribe()

	creds := credentials{
		employeeNumber: employeeNumber,
		password:       password,
		airport:        airport,
		pin:            pin,
	}

	var (
		result interface{}
		render func(io.Writer)
	)
	switch mode {
	case modeActivate:
		pairs, err := parsePairs(flag.Args())
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid activation list")
		}
		view, err := run(ctx, api, sess, cfg, creds, pairs)
		if err != nil {
			log.Fatal().Err(err).Msg("Technician session failed")
		}
		result = view
		render = func(w io.Writer) { printView(w, sess.State(), view) }

	case modeGates:
		gates, err := runGates(ctx, api, sess, creds)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load gates")
		}
		result = gates
		render = func(w io.Writer) { printGates(w, sess.State().SelectedAirport, gates) }

	case modeReport:
		report, err := runReport(ctx, api, sess, creds)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load reports")
		}
		result = report
		render = func(w io.Writer) { printReport(w, sess.State().SelectedAirport, report) }

	case modeAirports:
		airports, err := api.Airports(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to list airports")
		}
		result = airports
		render = func(w io.Writer) { printAirports(w, airports) }

	case modeSignup:
		signup.EmployeeNumber = employeeNumber
		signup.Password = password
		user, err := api.Signup(ctx, signup)
		if err != nil {
			log.Fatal().Err(err).Msg("Signup failed")
		}
		result = user
		render = func(w io.Writer) {
			fmt.Fprintf(w, "Account created: %s (%s)\n", user.Name, user.EmployeeNumber)
		}

	default:
		log.Fatal().Str("mode", mode).Msg("Unknown mode")
	}
	defer sess.Logout()

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			log.Fatal().Err(err).Msg("Failed to encode result")
		}
		return
	}
	render(os.Stdout)
}

type credentials struct {
	employeeNumber string
	password       string
	airport        string
	pin            string
}

// apiClient is the part of the REST client the technician flows need
type apiClient interface {
	activation.Service
	Login(ctx context.Context, employeeNumber, password string) (*models.User, error)
	Signup(ctx context.Context, req models.SignupRequest) (*models.User, error)
	Airports(ctx context.Context) ([]models.Airport, error)
	CheckAirportAccess(ctx context.Context, airport, pin string) (models.Airport, error)
	Timeline(ctx context.Context, airport string) ([]models.Flight, error)
	Gates(ctx context.Context, code string) ([]models.Gate, error)
	DailyReport(ctx context.Context, airport string) (*models.DailyReport, error)
	Sustainability(ctx context.Context, airport string) (*models.Sustainability, error)
}

// openAirport logs in and selects the airport once its PIN is accepted
func openAirport(ctx context.Context, api apiClient, sess *session.Store, creds credentials) error {
	user, err := api.Login(ctx, creds.employeeNumber, creds.password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	sess.Login(*user)
	log.Info().Str("employee", user.EmployeeNumber).Str("name", user.Name).Msg("Logged in")

	airport, err := api.CheckAirportAccess(ctx, creds.airport, creds.pin)
	if err != nil {
		return fmt.Errorf("airport access: %w", err)
	}
	// Only selected after both checks passed
	sess.SelectAirport(airport.Name)
	log.Info().Str("airport", airport.Name).Msg("Airport access granted")
	return nil
}

// selectedAirport returns the airport of an authenticated session
func selectedAirport(sess *session.Store) (models.Airport, error) {
	st := sess.State()
	if !st.IsAuthenticated || !st.HasAirport() {
		return models.Airport{}, errNoAirport
	}
	airport, ok := models.LookupAirport(st.SelectedAirport)
	if !ok {
		return models.Airport{}, fmt.Errorf("unknown airport %q", st.SelectedAirport)
	}
	return airport, nil
}

// run logs in, opens the airport, activates the requested pairs and returns
// the refreshed view
func run(ctx context.Context, api apiClient, sess *session.Store, cfg *config.Config, creds credentials, pairs []activation.Pair) (activation.View, error) {
	if err := openAirport(ctx, api, sess, creds); err != nil {
		return activation.View{}, err
	}
	airport, err := selectedAirport(sess)
	if err != nil {
		return activation.View{}, err
	}

	flights, err := api.Timeline(ctx, airport.Name)
	if err != nil {
		return activation.View{}, fmt.Errorf("load timeline: %w", err)
	}

	ctrl := activation.NewController(sess, api, flights, activation.Options{
		MessageTTL:     cfg.Activation.MessageTTL,
		RequestTimeout: cfg.Activation.RequestTimeout,
		OnResolve: func(o activation.Outcome) {
			if !o.Succeeded() {
				log.Warn().Err(o.Err).Str("pair", o.Pair.String()).Msg("Activation did not complete")
			}
		},
	})
	defer ctrl.Close()

	for _, p := range pairs {
		if !ctrl.Activate(ctx, p.FlightNumber, p.Kind) {
			log.Info().Str("pair", p.String()).Msg("Activation skipped")
		}
	}
	ctrl.Wait()

	// The message may expire during the refresh
	message := ctrl.Message()
	if fresh, err := api.Timeline(ctx, airport.Name); err == nil {
		ctrl.SetFlights(fresh)
	} else {
		log.Warn().Err(err).Msg("Failed to refresh timeline")
	}

	view := ctrl.Snapshot()
	if view.Message == "" {
		view.Message = message
	}
	return view, nil
}

// runGates opens the airport and lists its gates
func runGates(ctx context.Context, api apiClient, sess *session.Store, creds credentials) ([]models.Gate, error) {
	if err := openAirport(ctx, api, sess, creds); err != nil {
		return nil, err
	}
	airport, err := selectedAirport(sess)
	if err != nil {
		return nil, err
	}
	gates, err := api.Gates(ctx, airport.Code)
	if err != nil {
		return nil, fmt.Errorf("load gates: %w", err)
	}
	return gates, nil
}

// airportReport combines the dashboard figures of one airport
type airportReport struct {
	Daily          *models.DailyReport    `json:"daily"`
	Sustainability *models.Sustainability `json:"sustainability"`
}

// runReport opens the airport and fetches its dashboard figures
func runReport(ctx context.Context, api apiClient, sess *session.Store, creds credentials) (airportReport, error) {
	if err := openAirport(ctx, api, sess, creds); err != nil {
		return airportReport{}, err
	}
	airport, err := selectedAirport(sess)
	if err != nil {
		return airportReport{}, err
	}

	daily, err := api.DailyReport(ctx, airport.Name)
	if err != nil {
		return airportReport{}, fmt.Errorf("load daily report: %w", err)
	}
	sustainability, err := api.Sustainability(ctx, airport.Name)
	if err != nil {
		return airportReport{}, fmt.Errorf("load sustainability: %w", err)
	}
	return airportReport{Daily: daily, Sustainability: sustainability}, nil
}

// parsePairs parses FLIGHT:KIND arguments
func parsePairs(args []string) ([]activation.Pair, error) {
	pairs := make([]activation.Pair, 0, len(args))
	for _, arg := range args {
		for _, item := range strings.Split(arg, ",") {
			if item = strings.TrimSpace(item); item == "" {
				continue
			}
			flight, kind, ok := strings.Cut(item, ":")
			if !ok || strings.TrimSpace(flight) == "" {
				return nil, fmt.Errorf("expected FLIGHT:KIND, got %q", item)
			}
			k, err := models.ParseEquipmentKind(kind)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, activation.Pair{
				FlightNumber: strings.ToUpper(strings.TrimSpace(flight)),
				Kind:         k,
			})
		}
	}
	return pairs, nil
}

func printView(w io.Writer, st session.State, view activation.View) {
	if st.User != nil {
		fmt.Fprintf(w, "Technician: %s (%s)\n", st.User.Name, st.User.EmployeeNumber)
	}
	if view.Message != "" {
		fmt.Fprintln(w, view.Message)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FLIGHT\tORIGIN\tGATE\tTIME\tSTATUS\tGPU\tACU")
	for _, f := range view.Flights {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			f.FlightNumber, f.Origin, f.Gate, f.ScheduledTime, f.Status,
			onOff(f.GPUActivated), onOff(f.ACUActivated))
	}
	tw.Flush()
}

func printGates(w io.Writer, airport string, gates []models.Gate) {
	sum := models.SummarizeGates(gates)
	fmt.Fprintf(w, "Gates at %s: %d available, %d occupied, %d maintenance\n",
		airport, sum.Available, sum.Occupied, sum.Maintenance)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GATE\tSTATUS\tCURRENT\tNEXT\tGPU")
	for _, g := range gates {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			g.GateNumber, g.Status, orDash(g.CurrentFlight), orDash(g.NextFlight), onOff(g.GPUConnected))
	}
	tw.Flush()
}

func printReport(w io.Writer, airport string, r airportReport) {
	fmt.Fprintf(w, "Report for %s\n", airport)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if d := r.Daily; d != nil {
		fmt.Fprintf(tw, "Today's flights\t%d\n", d.TodaysFlights)
		fmt.Fprintf(tw, "Active GPU units\t%d\n", d.ActiveGPUUnits)
		fmt.Fprintf(tw, "GPU activations\t%d\n", d.GPUActivations)
		fmt.Fprintf(tw, "Notifications sent\t%d\n", d.NotificationsSent)
	}
	if s := r.Sustainability; s != nil {
		fmt.Fprintf(tw, "CO2 saved (kg)\t%d\n", s.CO2Saved)
		fmt.Fprintf(tw, "Fuel saved (L)\t%d\n", s.FuelSaved)
	}
	tw.Flush()

	if r.Sustainability == nil || len(r.Sustainability.FlightSummary) == 0 {
		return
	}
	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FLIGHT\tROUTE\tGATE\tCO2\tFUEL\tGPU")
	for _, f := range r.Sustainability.FlightSummary {
		fmt.Fprintf(tw, "%s\t%s-%s\t%s\t%d\t%d\t%s\n",
			f.FlightNumber, f.Origin, f.Destination, f.Gate, f.CO2Saved, f.FuelSaved, onOff(f.GPUUsed))
	}
	tw.Flush()
}

func printAirports(w io.Writer, airports []models.Airport) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tAIRPORT")
	for _, a := range airports {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", a.Code, a.Name, a.FullName)
	}
	tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func onOff(active bool) string {
	if active {
		return "ACTIVE"
	}
	return "-"
}
