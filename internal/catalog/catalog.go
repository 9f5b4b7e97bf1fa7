// Package catalog provides the destinations a group can vote on.
package catalog

import (
	"context"
	"fmt"

	"github.com/mmynk/tripplanner/internal/models"
)

// Store is the catalog part of the storage layer.
type Store interface {
	UpsertDestinations(ctx context.Context, destinations []*models.Destination) error
	GetAllDestinations(ctx context.Context) ([]*models.Destination, error)
	GetDestinationByID(ctx context.Context, destinationID string) (*models.Destination, error)
}

// Default returns the built-in ski catalog. Each call returns fresh values.
func Default() []*models.Destination {
	return []*models.Destination{
		{
			ID:            "whistler-blackcomb",
			Resort:        "Whistler Blackcomb",
			Accommodation: "Fairmont Chateau Whistler",
			Price:         1850,
			Dates:         models.DateRange{Start: "2026-01-17", End: "2026-01-24"},
		},
		{
			ID:            "zermatt",
			Resort:        "Zermatt",
			Accommodation: "Chalet Hotel Schönegg",
			Price:         2400,
			Dates:         models.DateRange{Start: "2026-02-07", End: "2026-02-14"},
		},
		{
			ID:            "niseko",
			Resort:        "Niseko United",
			Accommodation: "Hilton Niseko Village",
			Price:         2100,
			Dates:         models.DateRange{Start: "2026-01-31", End: "2026-02-07"},
		},
		{
			ID:            "chamonix",
			Resort:        "Chamonix Mont-Blanc",
			Accommodation: "Hameau Albert 1er",
			Price:         1950,
			Dates:         models.DateRange{Start: "2026-03-07", End: "2026-03-14"},
		},
		{
			ID:            "jackson-hole",
			Resort:        "Jackson Hole",
			Accommodation: "Hotel Terra",
			Price:         2250,
			Dates:         models.DateRange{Start: "2026-02-21", End: "2026-02-28"},
		},
	}
}

// Seed upserts the default catalog.
func Seed(ctx context.Context, store Store) error {
	if err := store.UpsertDestinations(ctx, Default()); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	return nil
}
