package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"gpx-route-editor/internal/domain"
	"gpx-route-editor/internal/platform/obs"
	"net/http"
	"net/url"

	"github.com/tkrajina/gpxgo/gpx"
)

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
	Elevation   bool        `json:"elevation"`
}

// FetchRoute asks the directions endpoint for a GPX route through coords.
func (o *ORSClient) FetchRoute(
	ctx context.Context,
	coords []domain.Coordinates,
	profile string,
) (_ gpx.GPXRoute, err error) {
	defer obs.Time(ctx, "ors.FetchRoute")(&err)

	if len(coords) < 2 {
		return gpx.GPXRoute{}, domain.ValidationErrorf("fetch route: need at least 2 coordinates, got %d", len(coords))
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s/gpx", o.baseURL, url.PathEscape(profile))

	bodyObj := directionsRequest{
		Coordinates: make([][]float64, 0, len(coords)),
		Elevation:   o.elevation,
	}
	for _, c := range coords {
		bodyObj.Coordinates = append(bodyObj.Coordinates, c.CoordsToList())
	}

	payload, err := json.Marshal(bodyObj)
	if err != nil {
		return gpx.GPXRoute{}, fmt.Errorf("marshal directions request: %w", err)
	}

	req, err := newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload), "application/gpx+xml")
	if err != nil {
		return gpx.GPXRoute{}, err
	}
	o.authorize(req)

	resp, err := do(o.session, o.limiter, req, "directions")
	if err != nil {
		return gpx.GPXRoute{}, fmt.Errorf("directions request failed: %w", err)
	}

	body, err := readBody(resp)
	if err != nil {
		return gpx.GPXRoute{}, err
	}

	doc, err := gpx.ParseBytes(body)
	if err != nil {
		return gpx.GPXRoute{}, parseErrorf("decode directions gpx: %v", err)
	}
	if len(doc.Routes) == 0 || len(doc.Routes[0].Points) == 0 {
		return gpx.GPXRoute{}, parseErrorf("directions response holds no route points")
	}

	return doc.Routes[0], nil
}
