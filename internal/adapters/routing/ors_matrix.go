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
)

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
}

// FetchDistanceMatrix retrieves the travel distance from every location to the last one
// using the OpenRouteService matrix endpoint.
func (o *ORSClient) FetchDistanceMatrix(
	ctx context.Context,
	locations []domain.Coordinates,
	profile string,
) (_ [][]float64, err error) {
	defer obs.Time(ctx, "ors.FetchDistanceMatrix")(&err)

	if len(locations) < 2 {
		return nil, domain.ValidationErrorf("fetch matrix: need at least 2 locations, got %d", len(locations))
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, url.PathEscape(profile))

	bodyObj := matrixRequest{
		Locations:    make([][]float64, 0, len(locations)),
		Destinations: []int{len(locations) - 1},
		Metrics:      []string{"distance"},
	}
	for _, c := range locations {
		bodyObj.Locations = append(bodyObj.Locations, c.CoordsToList())
	}

	payload, err := json.Marshal(bodyObj)
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	req, err := newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload), "application/json")
	if err != nil {
		return nil, err
	}
	o.authorize(req)

	resp, err := do(o.session, o.limiter, req, "matrix")
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}

	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}

	var mr matrixResponse
	if err := json.Unmarshal(body, &mr); err != nil {
		return nil, parseErrorf("decode matrix response: %v", err)
	}

	if len(mr.Distances) != len(locations) {
		return nil, parseErrorf("expected %d source rows, got %d", len(locations), len(mr.Distances))
	}

	out := make([][]float64, 0, len(mr.Distances))
	for i, row := range mr.Distances {
		if len(row) != 1 || row[0] == nil {
			return nil, parseErrorf("matrix returned invalid distance for location %d", i)
		}
		out = append(out, []float64{*row[0]})
	}

	return out, nil
}
