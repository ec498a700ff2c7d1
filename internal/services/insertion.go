package services

import (
	"context"
	"fmt"
	"gpx-route-editor/internal/domain"
	"gpx-route-editor/internal/ports"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Pick the segment [i, i+1] that a new point disturbs least.
//
// cost(i) is the detour of visiting p between coords[i] and coords[i+1].
// The scan is strictly-less so the lowest index wins ties; this keeps the
// choice deterministic when a point sits exactly between two segments.
func nearestInsertionIndex(n int, cost func(i int) float64) int {
	best := 0
	bestCost := math.Inf(1)
	for i := 0; i <= n-2; i++ {
		if c := cost(i); c < bestCost {
			bestCost = c
			best = i
		}
	}
	return best
}

// Straight-line cost in coordinate space (degrees, not meters).
func EuclideanInsertionIndex(coords []domain.Coordinates, p domain.Coordinates) int {
	np := orb.Point{p.Lon, p.Lat}
	dist := func(c domain.Coordinates) float64 {
		return planar.Distance(np, orb.Point{c.Lon, c.Lat})
	}

	return nearestInsertionIndex(len(coords), func(i int) float64 {
		return dist(coords[i]) + dist(coords[i+1])
	})
}

// Travel-distance cost from a matrix whose last location is the new point.
// Row i carries the distance from coords[i] to p; the trailing row (p to itself) is ignored.
func MatrixInsertionIndex(
	ctx context.Context,
	matrix ports.DistanceMatrixProvider,
	coords []domain.Coordinates,
	p domain.Coordinates,
	profile string,
) (int, error) {
	locations := make([]domain.Coordinates, 0, len(coords)+1)
	locations = append(locations, coords...)
	locations = append(locations, p)

	m, err := matrix.FetchDistanceMatrix(ctx, locations, profile)
	if err != nil {
		return 0, fmt.Errorf("insertion index: %w", err)
	}
	if len(m) < len(coords) {
		return 0, fmt.Errorf("%w: matrix has %d rows for %d coordinates",
			domain.ErrRouteProviderParse, len(m), len(coords))
	}

	rows := m[:len(coords)]
	for i, row := range rows {
		if len(row) == 0 {
			return 0, fmt.Errorf("%w: matrix row %d is empty", domain.ErrRouteProviderParse, i)
		}
	}

	return nearestInsertionIndex(len(coords), func(i int) float64 {
		return rows[i][0] + rows[i+1][0]
	}), nil
}
