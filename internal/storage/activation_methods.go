package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/waqet/groundops/internal/models"
)

// RecordActivation stores a successful activation
func (s *PostgresStore) RecordActivation(ctx context.Context, rec *models.ActivationRecord) error {
	if err := prepareActivation(rec); err != nil {
		return err
	}

	query := `
		INSERT INTO activations (
			id, airport, flight_number, kind, activated_at, co2_saved, fuel_saved
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.getDB().ExecContext(ctx, query,
		rec.ID, rec.Airport, rec.FlightNumber, rec.Kind,
		rec.ActivatedAt, rec.CO2Saved, rec.FuelSaved,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: activation %s", ErrDuplicateKey, rec.ID)
	}
	return err
}

// isUniqueViolation reports whether err is a PostgreSQL unique_violation
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// ListActivations lists the activations recorded for an airport, oldest first
func (s *PostgresStore) ListActivations(ctx context.Context, airport string) ([]*models.ActivationRecord, error) {
	code, ok := airportCode(airport)
	if !ok {
		return []*models.ActivationRecord{}, nil
	}

	query := `
		SELECT id, airport, flight_number, kind, activated_at, co2_saved, fuel_saved
		FROM activations
		WHERE airport = $1
		ORDER BY activated_at`

	rows, err := s.getDB().QueryContext(ctx, query, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*models.ActivationRecord{}
	for rows.Next() {
		rec := &models.ActivationRecord{}
		err := rows.Scan(
			&rec.ID, &rec.Airport, &rec.FlightNumber, &rec.Kind,
			&rec.ActivatedAt, &rec.CO2Saved, &rec.FuelSaved,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
