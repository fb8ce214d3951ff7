package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"

	"github.com/waqet/groundops/internal/models"
)

//go:embed migrations/*.sql
var migrations embed.FS

// PostgresOptions tunes the connection pool
type PostgresOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// PostgresStore implements Store interface for PostgreSQL. Reference data is
// served from memory; activations and event logs are persisted.
type PostgresStore struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPostgresStore creates a new PostgreSQL store
func NewPostgresStore(dsn string, opts PostgresOptions) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Migrate applies the embedded schema migrations
func (s *PostgresStore) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, s.db, "migrations"); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Info().Msg("Database migrations applied")
	return nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *PostgresStore) BeginTx(ctx context.Context) (*PostgresStore, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{db: s.db, tx: tx}, nil
}

// Commit commits the transaction
func (s *PostgresStore) Commit() error {
	if s.tx == nil {
		return nil
	}
	return s.tx.Commit()
}

// Rollback rolls back the transaction
func (s *PostgresStore) Rollback() error {
	if s.tx == nil {
		return nil
	}
	return s.tx.Rollback()
}

// WithTx runs fn inside a transaction, committing when fn returns nil
func (s *PostgresStore) WithTx(ctx context.Context, fn func(Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	txStore, err := s.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(txStore); err != nil {
		if rbErr := txStore.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("Failed to roll back transaction")
		}
		return err
	}
	return txStore.Commit()
}

// getDB returns tx if in transaction, otherwise db
func (s *PostgresStore) getDB() interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
} {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s *PostgresStore) Airports(ctx context.Context) ([]models.Airport, error) {
	return airportList(), nil
}

// Timeline returns the reference timeline with persisted activations applied
func (s *PostgresStore) Timeline(ctx context.Context, airport string) ([]models.Flight, error) {
	flights := timelineFor(airport)
	if len(flights) == 0 {
		return flights, nil
	}
	records, err := s.ListActivations(ctx, airport)
	if err != nil {
		return nil, err
	}
	return overlayActivations(flights, records), nil
}

func (s *PostgresStore) Gates(ctx context.Context, airport string) ([]models.Gate, error) {
	return gatesFor(airport), nil
}

func (s *PostgresStore) DailyReport(ctx context.Context, airport string) (*models.DailyReport, error) {
	r := reportFor(airport)
	r.Airport = airport
	r.Timestamp = time.Now().UTC()
	return r, nil
}

func (s *PostgresStore) Sustainability(ctx context.Context, airport string) (*models.Sustainability, error) {
	r := sustainabilityFor(airport)
	r.Airport = airport
	r.Timestamp = time.Now().UTC()
	return r, nil
}
