package gpxdoc

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
	"github.com/tkrajina/gpxgo/gpx"
)

// RouteLineString returns the route geometry as an orb line string.
func RouteLineString(doc *gpx.GPX) orb.LineString {
	if len(doc.Routes) == 0 {
		return nil
	}
	pts := doc.Routes[0].Points
	ls := make(orb.LineString, 0, len(pts))
	for _, p := range pts {
		ls = append(ls, orb.Point{p.Longitude, p.Latitude})
	}
	return ls
}

// RouteLengthMeters sums great-circle distances along the route.
func RouteLengthMeters(doc *gpx.GPX) float64 {
	ls := RouteLineString(doc)
	total := 0.0
	for i := 1; i < len(ls); i++ {
		total += geo.Distance(ls[i-1], ls[i])
	}
	return total
}

// ToGeoJSON renders the route as a LineString feature followed by one Point
// feature per waypoint.
func ToGeoJSON(doc *gpx.GPX, name, profile string) ([]byte, error) {
	fc := geojson.NewFeatureCollection()

	if ls := RouteLineString(doc); len(ls) > 0 {
		f := geojson.NewFeature(ls)
		f.Properties["kind"] = "route"
		f.Properties["name"] = name
		f.Properties["profile"] = profile
		f.Properties["length_m"] = RouteLengthMeters(doc)
		fc.Append(f)
	}

	for i, w := range doc.Waypoints {
		f := geojson.NewFeature(orb.Point{w.Longitude, w.Latitude})
		f.Properties["kind"] = "waypoint"
		f.Properties["index"] = i
		if w.Elevation.NotNull() {
			f.Properties["ele"] = w.Elevation.Value()
		}
		fc.Append(f)
	}

	out, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode geojson: %w", err)
	}
	return out, nil
}
