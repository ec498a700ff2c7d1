package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"gpx-route-editor/internal/domain"
	"gpx-route-editor/internal/platform/obs"
	"net/http"
	"strings"
	"time"
)

// Largest number of locations sent in one lookup.
const ElevationBatchSize = 512

type elevationLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type elevationRequest struct {
	Locations []elevationLocation `json:"locations"`
}

type elevationResponse struct {
	Results []struct {
		Elevation *float64 `json:"elevation"`
	} `json:"results"`
}

// OpenElevationClient implements ElevationProvider against an open-elevation
// compatible lookup endpoint (POST /api/v1/lookup).
type OpenElevationClient struct {
	session *http.Client
	url     string
}

func NewOpenElevationClient(lookupURL string, timeout time.Duration) (*OpenElevationClient, error) {
	if strings.TrimSpace(lookupURL) == "" {
		return nil, errors.New("elevation lookup url is empty")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &OpenElevationClient{
		session: &http.Client{Timeout: timeout},
		url:     lookupURL,
	}, nil
}

// FetchElevations resolves coords in sequential batches. The result is parallel to coords.
func (c *OpenElevationClient) FetchElevations(
	ctx context.Context,
	coords []domain.Coordinates,
) (_ []float64, err error) {
	defer obs.Time(ctx, "elevation.FetchElevations")(&err)

	out := make([]float64, 0, len(coords))
	for start := 0; start < len(coords); start += ElevationBatchSize {
		end := min(start+ElevationBatchSize, len(coords))

		batch, err := c.lookup(ctx, coords[start:end])
		if err != nil {
			return nil, fmt.Errorf("elevation batch %d-%d: %w", start, end, err)
		}
		out = append(out, batch...)
	}

	return out, nil
}

func (c *OpenElevationClient) lookup(ctx context.Context, coords []domain.Coordinates) ([]float64, error) {
	bodyObj := elevationRequest{Locations: make([]elevationLocation, 0, len(coords))}
	for _, p := range coords {
		bodyObj.Locations = append(bodyObj.Locations, elevationLocation{Latitude: p.Lat, Longitude: p.Lon})
	}

	payload, err := json.Marshal(bodyObj)
	if err != nil {
		return nil, fmt.Errorf("marshal elevation request: %w", err)
	}

	req, err := newRequest(ctx, http.MethodPost, c.url, bytes.NewReader(payload), "application/json")
	if err != nil {
		return nil, err
	}

	resp, err := do(c.session, nil, req, "elevation")
	if err != nil {
		return nil, err
	}

	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}

	var er elevationResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return nil, parseErrorf("decode elevation response: %v", err)
	}
	if len(er.Results) != len(coords) {
		return nil, parseErrorf("expected %d elevations, got %d", len(coords), len(er.Results))
	}

	out := make([]float64, 0, len(er.Results))
	for i, r := range er.Results {
		if r.Elevation == nil {
			return nil, parseErrorf("missing elevation for location %d", i)
		}
		out = append(out, *r.Elevation)
	}
	return out, nil
}
