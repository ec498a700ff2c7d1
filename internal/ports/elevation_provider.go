package ports

import (
	"context"
	"gpx-route-editor/internal/domain"
)

type ElevationProvider interface {
	// Return one elevation in meters per coordinate, in the same order.
	FetchElevations(ctx context.Context, coords []domain.Coordinates) ([]float64, error)
}
