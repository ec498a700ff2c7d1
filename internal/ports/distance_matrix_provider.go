package ports

import (
	"context"
	"gpx-route-editor/internal/domain"
)

// Optional capability used to pick insertion points by travel distance
// instead of straight-line distance.
type DistanceMatrixProvider interface {
	// Return distances in meters from every location to the last one.
	// Row i holds a single column; the last row is the destination itself.
	FetchDistanceMatrix(ctx context.Context, locations []domain.Coordinates, profile string) ([][]float64, error)
}
