package ports

import (
	"context"
	"gpx-route-editor/internal/domain"

	"github.com/tkrajina/gpxgo/gpx"
)

// Contract for turning a list of control points into route geometry.
type RouteProvider interface {
	// Return the full route through coords, in order, for the given profile.
	FetchRoute(ctx context.Context, coords []domain.Coordinates, profile string) (gpx.GPXRoute, error)
}
