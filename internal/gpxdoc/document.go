// Package gpxdoc holds the operations the editor needs on top of the gpxgo
// document model: parsing with normalization, serialization and conversion
// between route geometry and coordinate lists.
package gpxdoc

import (
	"bytes"
	"fmt"
	"gpx-route-editor/internal/domain"

	"github.com/tkrajina/gpxgo/gpx"
)

const creator = "gpx-route-editor"

// New returns an empty GPX 1.1 document.
func New() *gpx.GPX {
	return &gpx.GPX{Version: "1.1", Creator: creator}
}

// Parse decodes data and normalizes it so all path geometry lives in a single route.
func Parse(data []byte) (*gpx.GPX, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", domain.ErrMalformedDocument)
	}

	doc, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDocument, err)
	}

	Normalize(doc)
	return doc, nil
}

// Normalize folds extra routes and all tracks into one route, routes first.
//
// Files recorded by a device carry their geometry in tracks, and files written by
// older versions of the editor may hold several consecutive routes. Junction points
// shared by consecutive pieces are kept once.
func Normalize(doc *gpx.GPX) {
	if len(doc.Routes) <= 1 && len(doc.Tracks) == 0 {
		return
	}

	var merged gpx.GPXRoute
	if len(doc.Routes) > 0 {
		merged = doc.Routes[0]
		merged.Points = nil
	} else if len(doc.Tracks) > 0 {
		merged.Name = doc.Tracks[0].Name
	}

	add := func(points []gpx.GPXPoint) {
		for _, p := range points {
			if n := len(merged.Points); n > 0 && domain.PointsMatch(coordsOf(merged.Points[n-1]), coordsOf(p)) {
				continue
			}
			merged.Points = append(merged.Points, p)
		}
	}

	for _, r := range doc.Routes {
		add(r.Points)
	}
	// Track geometry follows the routes, whether or not a route exists.
	for _, t := range doc.Tracks {
		for _, seg := range t.Segments {
			add(seg.Points)
		}
	}

	doc.Routes = []gpx.GPXRoute{merged}
	doc.Tracks = nil
}

// Serialize encodes doc as indented GPX 1.1.
func Serialize(doc *gpx.GPX) ([]byte, error) {
	out, err := doc.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return nil, fmt.Errorf("serialize gpx: %w", err)
	}
	return out, nil
}

// ReplaceRoute swaps the document's single route for route, keeping the old route name.
func ReplaceRoute(doc *gpx.GPX, route gpx.GPXRoute) {
	if len(doc.Routes) > 0 && route.Name == "" {
		route.Name = doc.Routes[0].Name
	}
	doc.Routes = []gpx.GPXRoute{route}
	doc.Tracks = nil
}

// RouteFromCoordinates builds a straight-line route through coords.
func RouteFromCoordinates(coords []domain.Coordinates) gpx.GPXRoute {
	route := gpx.GPXRoute{Points: make([]gpx.GPXPoint, 0, len(coords))}
	for _, c := range coords {
		route.Points = append(route.Points, NewPoint(c))
	}
	return route
}

func NewPoint(c domain.Coordinates) gpx.GPXPoint {
	return gpx.GPXPoint{Point: gpx.Point{Latitude: c.Lat, Longitude: c.Lon}}
}

func coordsOf(p gpx.GPXPoint) domain.Coordinates {
	return domain.Coordinates{Lon: p.Longitude, Lat: p.Latitude}
}

// PointCoordinates lists the coordinates of points in order.
func PointCoordinates(points []gpx.GPXPoint) []domain.Coordinates {
	out := make([]domain.Coordinates, 0, len(points))
	for _, p := range points {
		out = append(out, coordsOf(p))
	}
	return out
}
