package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/waqet/groundops/internal/models"
)

// CreateEventLog creates an event log entry
func (s *PostgresStore) CreateEventLog(ctx context.Context, event *models.EventLog) error {
	prepareEventLog(event)

	query := `
		INSERT INTO event_logs (
			id, created_at, airport, flight_number,
			type, level, code, description, details
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.getDB().ExecContext(ctx, query,
		event.ID, event.CreatedAt, nullString(event.Airport), nullString(event.FlightNumber),
		event.Type, event.Level, event.Code, event.Description, event.Details,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: event %s", ErrDuplicateKey, event.ID)
	}

	return err
}

// ListEventLogs lists event logs with filters
func (s *PostgresStore) ListEventLogs(ctx context.Context, filters EventLogFilters, limit, offset int) ([]*models.EventLog, int64, error) {
	// Build query with filters
	query := "SELECT COUNT(*) FROM event_logs WHERE 1=1"
	args := []interface{}{}
	argCount := 0

	if filters.Airport != nil {
		argCount++
		query += fmt.Sprintf(" AND airport = $%d", argCount)
		args = append(args, normalizeAirport(*filters.Airport))
	}

	if filters.FlightNumber != nil {
		argCount++
		query += fmt.Sprintf(" AND flight_number = $%d", argCount)
		args = append(args, *filters.FlightNumber)
	}

	if filters.Type != nil {
		argCount++
		query += fmt.Sprintf(" AND type = $%d", argCount)
		args = append(args, *filters.Type)
	}

	if filters.Level != nil {
		argCount++
		query += fmt.Sprintf(" AND level = $%d", argCount)
		args = append(args, *filters.Level)
	}

	if filters.StartTime != nil {
		argCount++
		query += fmt.Sprintf(" AND created_at >= $%d", argCount)
		args = append(args, *filters.StartTime)
	}

	if filters.EndTime != nil {
		argCount++
		query += fmt.Sprintf(" AND created_at <= $%d", argCount)
		args = append(args, *filters.EndTime)
	}

	var count int64
	err := s.getDB().QueryRowContext(ctx, query, args...).Scan(&count)
	if err != nil {
		return nil, 0, err
	}

	selectQuery := strings.Replace(query, "SELECT COUNT(*)",
		"SELECT id, created_at, airport, flight_number, type, level, code, description, details", 1)

	argCount++
	selectQuery += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argCount)
	args = append(args, limit)

	argCount++
	selectQuery += fmt.Sprintf(" OFFSET $%d", argCount)
	args = append(args, offset)

	rows, err := s.getDB().QueryContext(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events := []*models.EventLog{}
	for rows.Next() {
		event := &models.EventLog{}
		var airport, flightNumber, code, description sql.NullString

		err := rows.Scan(
			&event.ID, &event.CreatedAt, &airport, &flightNumber,
			&event.Type, &event.Level, &code, &description, &event.Details,
		)
		if err != nil {
			return nil, 0, err
		}

		event.Airport = airport.String
		event.FlightNumber = flightNumber.String
		event.Code = code.String
		event.Description = description.String
		events = append(events, event)
	}

	return events, count, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
