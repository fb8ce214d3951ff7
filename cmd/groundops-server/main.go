package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/waqet/groundops/internal/api"
	"github.com/waqet/groundops/internal/config"
	"github.com/waqet/groundops/internal/equipment"
	"github.com/waqet/groundops/internal/events"
	"github.com/waqet/groundops/internal/notify"
	"github.com/waqet/groundops/internal/server"
	"github.com/waqet/groundops/internal/storage"
)

func main() {
	// Command line flags
	var configFile string
	flag.StringVar(&configFile, "config", "config/groundops.yml", "Configuration file path")
	flag.Parse()

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using process environment")
	}

	// Load configuration
	cfg, err := config.LoadOptional(configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Log.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := openStore(ctx, cfg)
	defer store.Close()

	bus := events.NewBus()
	detachRecorder := server.NewRecorder(store).Attach(bus)
	defer detachRecorder()

	equipmentService := equipment.NewService(store, bus, equipment.Options{
		GPULatency: cfg.Equipment.GPULatency,
		ACULatency: cfg.Equipment.ACULatency,
	})

	live := server.NewLiveHub(bus)

	// WaitGroup for services
	var wg sync.WaitGroup

	// Optional: NATS fan-out between server instances
	if cfg.NATS.URL != "" {
		log.Info().Str("url", cfg.NATS.URL).Msg("Connecting to NATS...")

		nc, err := server.Connect(cfg.NATS)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to NATS, continuing without NATS support")
		} else {
			defer nc.Close()
			log.Info().Msg("Connected to NATS")

			origin := uuid.NewString()
			publisher := server.NewNATSPublisher(nc, cfg.NATS.SubjectPrefix, origin)
			detachPublisher := publisher.Attach(bus)
			defer detachPublisher()

			subscriber := server.NewNATSSubscriber(nc, store, bus, cfg.NATS.SubjectPrefix, origin)

			wg.Add(1)
			go func() {
				defer wg.Done()
				log.Info().Str("origin", origin).Msg("Starting NATS subscriber")
				if err := subscriber.Start(ctx); err != nil {
					log.Error().Err(err).Msg("NATS subscriber stopped")
				}
			}()
		}
	} else {
		log.Info().Msg("NATS not configured, running in standalone mode")
	}

	// Optional: operator notifications
	dispatcher := notify.NewDispatcher(cfg.Notify.URLs, cfg.Notify.Events, nil)
	if dispatcher.Enabled() {
		dispatcher.Start(bus)
		defer dispatcher.Stop()
	}

	// Start REST API server
	apiServer := api.NewRESTServer(cfg, store, equipmentService, bus, live)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := apiServer.ListenAndServe(cfg.API.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("REST API server failed")
		}
	}()

	// Wait for signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received signal, shutting down")

	// Cancel context
	cancel()

	// Shutdown API server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown API server gracefully")
	}

	// Wait for all services
	wg.Wait()

	log.Info().Msg("Ground operations server stopped")
}

// openStore connects to PostgreSQL when a DSN is configured and falls back to
// the in-memory store otherwise
func openStore(ctx context.Context, cfg *config.Config) storage.Store {
	if cfg.Database.DSN == "" {
		log.Info().Msg("No database configured, using in-memory store")
		return storage.NewMemoryStore()
	}

	store, err := storage.NewPostgresStore(cfg.Database.DSN, storage.PostgresOptions{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Msg("Connected to database")

	if cfg.Database.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
	}
	return store
}
