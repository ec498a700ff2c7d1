package gpxdoc

import (
	"fmt"
	"gpx-route-editor/internal/domain"

	"github.com/tkrajina/gpxgo/gpx"
)

// ExtractCoordinates returns the control points of the active route:
// its first point, every waypoint in order, then its last point.
//
// A one-point route contributes its point once. The list is the source of truth
// for edits; the route geometry in between is provider output.
func ExtractCoordinates(doc *gpx.GPX) ([]domain.Coordinates, error) {
	if doc == nil || len(doc.Routes) == 0 {
		return nil, fmt.Errorf("%w: document has no route", domain.ErrMalformedDocument)
	}

	points := doc.Routes[0].Points
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: route has no points", domain.ErrMalformedDocument)
	}

	coords := make([]domain.Coordinates, 0, len(doc.Waypoints)+2)
	coords = append(coords, coordsOf(points[0]))
	coords = append(coords, PointCoordinates(doc.Waypoints)...)
	if len(points) > 1 {
		coords = append(coords, coordsOf(points[len(points)-1]))
	}

	return coords, nil
}

// HasRoute reports whether doc carries a route with at least one point.
func HasRoute(doc *gpx.GPX) bool {
	return len(doc.Routes) > 0 && len(doc.Routes[0].Points) > 0
}
