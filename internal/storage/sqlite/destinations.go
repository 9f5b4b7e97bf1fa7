package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/tripplanner/internal/models"
)

// UpsertDestinations inserts or refreshes catalog entries. Existing entries
// keep their catalog position.
func (s *SQLiteStore) UpsertDestinations(ctx context.Context, destinations []*models.Destination) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, d := range destinations {
		if d == nil || d.ID == "" {
			return fmt.Errorf("destination ID is required")
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO destinations (id, resort, accommodation, price, start_date, end_date)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT (id) DO UPDATE SET
			     resort = excluded.resort,
			     accommodation = excluded.accommodation,
			     price = excluded.price,
			     start_date = excluded.start_date,
			     end_date = excluded.end_date`,
			d.ID, d.Resort, d.Accommodation, d.Price, d.Dates.Start, d.Dates.End,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert destination %s: %w", d.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetAllDestinations returns the catalog in insertion order.
func (s *SQLiteStore) GetAllDestinations(ctx context.Context) ([]*models.Destination, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, resort, accommodation, price, start_date, end_date FROM destinations ORDER BY rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list destinations: %w", err)
	}
	defer rows.Close()

	var destinations []*models.Destination
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan destination: %w", err)
		}
		destinations = append(destinations, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate destinations: %w", err)
	}

	return destinations, nil
}

// GetDestinationByID retrieves a catalog entry.
func (s *SQLiteStore) GetDestinationByID(ctx context.Context, destinationID string) (*models.Destination, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, resort, accommodation, price, start_date, end_date FROM destinations WHERE id = ?",
		destinationID,
	)
	d, err := scanDestination(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Destination not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get destination: %w", err)
	}
	return d, nil
}

func scanDestination(row rowScanner) (*models.Destination, error) {
	d := &models.Destination{}
	if err := row.Scan(&d.ID, &d.Resort, &d.Accommodation, &d.Price, &d.Dates.Start, &d.Dates.End); err != nil {
		return nil, err
	}
	return d, nil
}
