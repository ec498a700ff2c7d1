package gpxdoc

import (
	"gpx-route-editor/internal/domain"
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tkrajina/gpxgo/gpx"
)

const routeWithWaypoint = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <wpt lat="49.41" lon="8.68"></wpt>
  <rte>
    <name>Heidelberg</name>
    <rtept lat="49.40" lon="8.67"></rtept>
    <rtept lat="49.405" lon="8.675"></rtept>
    <rtept lat="49.42" lon="8.69"></rtept>
  </rte>
</gpx>`

const trackOnly = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk>
    <name>morning walk</name>
    <trkseg>
      <trkpt lat="1" lon="1"></trkpt>
      <trkpt lat="2" lon="2"></trkpt>
    </trkseg>
    <trkseg>
      <trkpt lat="2" lon="2"></trkpt>
      <trkpt lat="3" lon="3"></trkpt>
    </trkseg>
  </trk>
</gpx>`

func TestExtractCoordinates(t *testing.T) {
	doc, err := Parse([]byte(routeWithWaypoint))
	require.NoError(t, err)

	coords, err := ExtractCoordinates(doc)
	require.NoError(t, err)

	assert.Equal(t, []domain.Coordinates{
		{Lon: 8.67, Lat: 49.40},
		{Lon: 8.68, Lat: 49.41},
		{Lon: 8.69, Lat: 49.42},
	}, coords)
}

func TestExtractCoordinatesSinglePointRoute(t *testing.T) {
	doc := New()
	doc.Routes = []gpx.GPXRoute{RouteFromCoordinates([]domain.Coordinates{{Lon: 1, Lat: 2}})}

	coords, err := ExtractCoordinates(doc)
	require.NoError(t, err)
	assert.Equal(t, []domain.Coordinates{{Lon: 1, Lat: 2}}, coords)
}

func TestExtractCoordinatesMalformed(t *testing.T) {
	_, err := ExtractCoordinates(New())
	assert.ErrorIs(t, err, domain.ErrMalformedDocument)

	doc := New()
	doc.Routes = []gpx.GPXRoute{{Name: "empty"}}
	_, err = ExtractCoordinates(doc)
	assert.ErrorIs(t, err, domain.ErrMalformedDocument)
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "GPX data", "<gpx"} {
		_, err := Parse([]byte(in))
		assert.ErrorIs(t, err, domain.ErrMalformedDocument, "input %q", in)
	}
}

func TestParseNormalizesTracksIntoRoute(t *testing.T) {
	doc, err := Parse([]byte(trackOnly))
	require.NoError(t, err)

	assert.Empty(t, doc.Tracks)
	require.Len(t, doc.Routes, 1)
	assert.Equal(t, "morning walk", doc.Routes[0].Name)
	assert.Equal(t, []domain.Coordinates{{Lon: 1, Lat: 1}, {Lon: 2, Lat: 2}, {Lon: 3, Lat: 3}},
		PointCoordinates(doc.Routes[0].Points))
}

func TestParseAppendsTracksAfterRoute(t *testing.T) {
	const mixed = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <rte>
    <name>planned</name>
    <rtept lat="1" lon="1"></rtept>
    <rtept lat="2" lon="2"></rtept>
  </rte>
  <trk>
    <trkseg>
      <trkpt lat="2" lon="2"></trkpt>
      <trkpt lat="5" lon="5"></trkpt>
      <trkpt lat="6" lon="6"></trkpt>
    </trkseg>
  </trk>
</gpx>`

	doc, err := Parse([]byte(mixed))
	require.NoError(t, err)

	assert.Empty(t, doc.Tracks)
	require.Len(t, doc.Routes, 1)
	assert.Equal(t, "planned", doc.Routes[0].Name)
	assert.Equal(t,
		[]domain.Coordinates{{Lon: 1, Lat: 1}, {Lon: 2, Lat: 2}, {Lon: 5, Lat: 5}, {Lon: 6, Lat: 6}},
		PointCoordinates(doc.Routes[0].Points))
}

func TestNormalizeMergesRoutes(t *testing.T) {
	doc := New()
	doc.Routes = []gpx.GPXRoute{
		RouteFromCoordinates([]domain.Coordinates{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}}),
		RouteFromCoordinates([]domain.Coordinates{{Lon: 1, Lat: 0}, {Lon: 2, Lat: 0}}),
	}

	Normalize(doc)

	require.Len(t, doc.Routes, 1)
	assert.Len(t, doc.Routes[0].Points, 3)
}

func TestSerializeParseKeepsCoordinates(t *testing.T) {
	doc, err := Parse([]byte(routeWithWaypoint))
	require.NoError(t, err)

	out, err := Serialize(doc)
	require.NoError(t, err)

	again, err := Parse(out)
	require.NoError(t, err)

	before, _ := ExtractCoordinates(doc)
	after, err := ExtractCoordinates(again)
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.True(t, domain.PointsMatch(before[i], after[i]), "coordinate %d: %v != %v", i, before[i], after[i])
	}
	assert.Equal(t, "Heidelberg", again.Routes[0].Name)
}

func TestEmptyDocumentSerializes(t *testing.T) {
	out, err := Serialize(New())
	require.NoError(t, err)

	doc, err := Parse(out)
	require.NoError(t, err)
	assert.False(t, HasRoute(doc))
}

func TestReplaceRouteKeepsName(t *testing.T) {
	doc, err := Parse([]byte(routeWithWaypoint))
	require.NoError(t, err)

	ReplaceRoute(doc, RouteFromCoordinates([]domain.Coordinates{{Lon: 5, Lat: 5}, {Lon: 6, Lat: 6}}))

	require.Len(t, doc.Routes, 1)
	assert.Equal(t, "Heidelberg", doc.Routes[0].Name)
	assert.Len(t, doc.Routes[0].Points, 2)
}

func TestToGeoJSON(t *testing.T) {
	doc, err := Parse([]byte(routeWithWaypoint))
	require.NoError(t, err)

	out, err := ToGeoJSON(doc, "walk.gpx", "foot-hiking")
	require.NoError(t, err)

	fc, err := geojson.UnmarshalFeatureCollection(out)
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "route", fc.Features[0].Properties["kind"])
	assert.Equal(t, "waypoint", fc.Features[1].Properties["kind"])
	assert.Greater(t, RouteLengthMeters(doc), 0.0)
}
