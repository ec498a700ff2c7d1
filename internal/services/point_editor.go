package services

import (
	"context"
	"fmt"
	"gpx-route-editor/internal/domain"
	"gpx-route-editor/internal/gpxdoc"
	"gpx-route-editor/internal/ports"
	"log/slog"
	"slices"

	"github.com/tkrajina/gpxgo/gpx"
)

// PointEditor applies point edits to a GPX document.
//
// The control points of a document are its route start, its waypoints and its
// route end. Every edit computes a new control point list, asks the route provider
// for the whole route through it and only then swaps route and waypoints in the
// document. A failed provider call leaves the document untouched.
type PointEditor struct {
	Routes ports.RouteProvider
	// Optional. When set, insertions are placed by travel distance.
	Matrix ports.DistanceMatrixProvider
	// Optional. When set, route points without elevation are filled in.
	Elevation ports.ElevationProvider
}

func NewPointEditor(routes ports.RouteProvider) *PointEditor {
	return &PointEditor{Routes: routes}
}

// AddPoint inserts p between the two consecutive control points it is closest to.
// With fewer than two control points it appends.
func (e *PointEditor) AddPoint(ctx context.Context, doc *gpx.GPX, profile string, p domain.Coordinates) error {
	coords, err := gpxdoc.ExtractCoordinates(doc)
	if err != nil {
		return fmt.Errorf("add point: %w", err)
	}
	if len(coords) < 2 {
		return e.AppendPoint(ctx, doc, profile, p)
	}

	i, err := e.insertionIndex(ctx, coords, p, profile)
	if err != nil {
		return fmt.Errorf("add point: %w", err)
	}

	newCoords := slices.Insert(slices.Clone(coords), i+1, p)
	waypoints := slices.Clone(doc.Waypoints)
	waypoints = slices.Insert(waypoints, min(i, len(waypoints)), gpxdoc.NewPoint(p))

	if err := e.rebuild(ctx, doc, profile, newCoords, waypoints); err != nil {
		return fmt.Errorf("add point: %w", err)
	}
	return nil
}

// AppendPoint makes p the new route end; the previous end becomes a waypoint.
func (e *PointEditor) AppendPoint(ctx context.Context, doc *gpx.GPX, profile string, p domain.Coordinates) error {
	coords, err := gpxdoc.ExtractCoordinates(doc)
	if err != nil {
		return fmt.Errorf("append point: %w", err)
	}

	newCoords := append(slices.Clone(coords), p)
	waypoints := slices.Clone(doc.Waypoints)
	if len(coords) > 1 {
		waypoints = append(waypoints, gpxdoc.NewPoint(coords[len(coords)-1]))
	}

	if err := e.rebuild(ctx, doc, profile, newCoords, waypoints); err != nil {
		return fmt.Errorf("append point: %w", err)
	}
	return nil
}

// MovePoint relocates the control point matching from to to.
//
// When nothing matches the route is still refetched through the unchanged control
// points. Moving the start or the end changes only the route geometry.
func (e *PointEditor) MovePoint(ctx context.Context, doc *gpx.GPX, profile string, from, to domain.Coordinates) error {
	coords, err := gpxdoc.ExtractCoordinates(doc)
	if err != nil {
		return fmt.Errorf("move point: %w", err)
	}

	newCoords := slices.Clone(coords)
	waypoints := slices.Clone(doc.Waypoints)

	i := domain.IndexOfMatch(coords, from)
	switch {
	case i < 0:
		slog.WarnContext(ctx, "move point: no control point matches", "lon", from.Lon, "lat", from.Lat)
	default:
		newCoords[i] = to
		if interior(i, len(coords)) && i-1 < len(waypoints) {
			waypoints[i-1] = movedWaypoint(waypoints[i-1], to)
		}
	}

	if err := e.rebuild(ctx, doc, profile, newCoords, waypoints); err != nil {
		return fmt.Errorf("move point: %w", err)
	}
	return nil
}

// RemovePoint drops the control point matching p.
//
// An interior point takes its waypoint with it. Removing the start or the end drops
// the first waypoint instead. When nothing matches the route is still refetched.
func (e *PointEditor) RemovePoint(ctx context.Context, doc *gpx.GPX, profile string, p domain.Coordinates) error {
	coords, err := gpxdoc.ExtractCoordinates(doc)
	if err != nil {
		return fmt.Errorf("remove point: %w", err)
	}

	newCoords := slices.Clone(coords)
	waypoints := slices.Clone(doc.Waypoints)

	i := domain.IndexOfMatch(coords, p)
	switch {
	case i < 0:
		slog.WarnContext(ctx, "remove point: no control point matches", "lon", p.Lon, "lat", p.Lat)
	default:
		newCoords = slices.Delete(newCoords, i, i+1)
		if interior(i, len(coords)) && i-1 < len(waypoints) {
			waypoints = slices.Delete(waypoints, i-1, i)
		} else if len(waypoints) > 0 {
			waypoints = slices.Delete(waypoints, 0, 1)
		}
	}

	if err := e.rebuild(ctx, doc, profile, newCoords, waypoints); err != nil {
		return fmt.Errorf("remove point: %w", err)
	}
	return nil
}

// SetStart places the route start at p. An empty document gets a one-point route.
func (e *PointEditor) SetStart(ctx context.Context, doc *gpx.GPX, profile string, p domain.Coordinates) error {
	if !gpxdoc.HasRoute(doc) {
		if err := e.rebuild(ctx, doc, profile, []domain.Coordinates{p}, doc.Waypoints); err != nil {
			return fmt.Errorf("set start: %w", err)
		}
		return nil
	}

	coords, err := gpxdoc.ExtractCoordinates(doc)
	if err != nil {
		return fmt.Errorf("set start: %w", err)
	}

	newCoords := slices.Clone(coords)
	newCoords[0] = p

	if err := e.rebuild(ctx, doc, profile, newCoords, slices.Clone(doc.Waypoints)); err != nil {
		return fmt.Errorf("set start: %w", err)
	}
	return nil
}

// SetEnd places the route end at p. The route must already have a start.
func (e *PointEditor) SetEnd(ctx context.Context, doc *gpx.GPX, profile string, p domain.Coordinates) error {
	if !gpxdoc.HasRoute(doc) {
		return domain.ValidationErrorf("set end: route has no start point")
	}

	coords, err := gpxdoc.ExtractCoordinates(doc)
	if err != nil {
		return fmt.Errorf("set end: %w", err)
	}

	newCoords := slices.Clone(coords)
	if len(newCoords) == 1 {
		newCoords = append(newCoords, p)
	} else {
		newCoords[len(newCoords)-1] = p
	}

	if err := e.rebuild(ctx, doc, profile, newCoords, slices.Clone(doc.Waypoints)); err != nil {
		return fmt.Errorf("set end: %w", err)
	}
	return nil
}

// UpdateProfile refetches the route through the same control points under profile.
// A document without a route has nothing to refetch.
func (e *PointEditor) UpdateProfile(ctx context.Context, doc *gpx.GPX, profile string) error {
	if err := domain.ValidateProfile(profile); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if !gpxdoc.HasRoute(doc) {
		return nil
	}

	coords, err := gpxdoc.ExtractCoordinates(doc)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	if err := e.rebuild(ctx, doc, profile, coords, slices.Clone(doc.Waypoints)); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func (e *PointEditor) insertionIndex(
	ctx context.Context,
	coords []domain.Coordinates,
	p domain.Coordinates,
	profile string,
) (int, error) {
	if e.Matrix != nil {
		return MatrixInsertionIndex(ctx, e.Matrix, coords, p, profile)
	}
	return EuclideanInsertionIndex(coords, p), nil
}

// rebuild fetches the route through coords and, only on success, installs it
// together with waypoints.
func (e *PointEditor) rebuild(
	ctx context.Context,
	doc *gpx.GPX,
	profile string,
	coords []domain.Coordinates,
	waypoints []gpx.GPXPoint,
) error {
	if len(coords) == 0 {
		doc.Routes = nil
		doc.Tracks = nil
		doc.Waypoints = waypoints
		return nil
	}

	route, err := e.route(ctx, coords, profile)
	if err != nil {
		return err
	}

	gpxdoc.ReplaceRoute(doc, route)
	doc.Waypoints = waypoints
	return nil
}

func (e *PointEditor) route(ctx context.Context, coords []domain.Coordinates, profile string) (gpx.GPXRoute, error) {
	// Providers need two points; a lone start is its own route.
	if len(coords) < 2 {
		return gpxdoc.RouteFromCoordinates(coords), nil
	}

	route, err := e.Routes.FetchRoute(ctx, coords, profile)
	if err != nil {
		return gpx.GPXRoute{}, fmt.Errorf("fetch route: %w", err)
	}

	if e.Elevation != nil {
		if err := e.fillElevation(ctx, &route); err != nil {
			return gpx.GPXRoute{}, err
		}
	}

	return route, nil
}

func (e *PointEditor) fillElevation(ctx context.Context, route *gpx.GPXRoute) error {
	var (
		idx    []int
		coords []domain.Coordinates
	)
	for i, p := range route.Points {
		if p.Elevation.Null() {
			idx = append(idx, i)
			coords = append(coords, domain.Coordinates{Lon: p.Longitude, Lat: p.Latitude})
		}
	}
	if len(idx) == 0 {
		return nil
	}

	elevations, err := e.Elevation.FetchElevations(ctx, coords)
	if err != nil {
		return fmt.Errorf("fetch elevation: %w", err)
	}
	if len(elevations) != len(idx) {
		return fmt.Errorf("%w: got %d elevations for %d points",
			domain.ErrRouteProviderParse, len(elevations), len(idx))
	}

	for k, i := range idx {
		route.Points[i].Elevation.SetValue(elevations[k])
	}
	return nil
}

func interior(i, n int) bool { return i > 0 && i < n-1 }

func movedWaypoint(w gpx.GPXPoint, to domain.Coordinates) gpx.GPXPoint {
	w.Latitude = to.Lat
	w.Longitude = to.Lon
	w.Elevation = gpx.NullableFloat64{}
	return w
}
