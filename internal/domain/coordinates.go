package domain

import "math"

// Two points closer than this on both axes (in degrees) are the same location.
const MatchEpsilon = 1e-5

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Validate rejects non-finite or out of range values.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) || c.Lon < -180 || c.Lon > 180 {
		return ValidationErrorf("longitude %v out of range", c.Lon)
	}
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || c.Lat < -90 || c.Lat > 90 {
		return ValidationErrorf("latitude %v out of range", c.Lat)
	}
	return nil
}

// PointsMatch reports whether a and b denote the same location, tolerating
// the rounding a map client introduces when echoing coordinates back.
func PointsMatch(a, b Coordinates) bool {
	return math.Abs(a.Lon-b.Lon) <= MatchEpsilon && math.Abs(a.Lat-b.Lat) <= MatchEpsilon
}

// Index of the first coordinate matching p, or -1.
func IndexOfMatch(coords []Coordinates, p Coordinates) int {
	for i, c := range coords {
		if PointsMatch(c, p) {
			return i
		}
	}
	return -1
}
