package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"gpx-route-editor/internal/domain"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orsGPXResponse = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="openrouteservice" xmlns="http://www.topografix.com/GPX/1/1">
  <rte>
    <rtept lat="49.41461" lon="8.681495"><ele>110.0</ele></rtept>
    <rtept lat="49.41500" lon="8.68200"><ele>112.5</ele></rtept>
    <rtept lat="49.42027" lon="8.687872"><ele>115.0</ele></rtept>
  </rte>
</gpx>`

var twoPoints = []domain.Coordinates{
	{Lon: 8.681495, Lat: 49.41461},
	{Lon: 8.687872, Lat: 49.420318},
}

func newTestClient(t *testing.T, h http.HandlerFunc, opts ORSOptions) *ORSClient {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	opts.BaseURL = srv.URL
	c, err := NewORSClient("test-key", opts)
	require.NoError(t, err)
	return c
}

func TestFetchRouteSendsDirectionsRequest(t *testing.T) {
	var got directionsRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/directions/foot-hiking/gpx", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/gpx+xml")
		io.WriteString(w, orsGPXResponse)
	}, ORSOptions{Elevation: true})

	route, err := c.FetchRoute(context.Background(), twoPoints, "foot-hiking")
	require.NoError(t, err)

	assert.Equal(t, [][]float64{{8.681495, 49.41461}, {8.687872, 49.420318}}, got.Coordinates)
	assert.True(t, got.Elevation)
	require.Len(t, route.Points, 3)
	assert.True(t, route.Points[1].Elevation.NotNull())
	assert.InDelta(t, 112.5, route.Points[1].Elevation.Value(), 1e-9)
}

func TestFetchRouteErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "rejected",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				io.WriteString(w, `{"error":{"code":2003,"message":"Parameter 'profile' has incorrect value"}}`)
			},
			want: domain.ErrRouteProviderRejected,
		},
		{
			name: "quota",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			want: domain.ErrRouteProviderRejected,
		},
		{
			name: "not gpx",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, "<html>oops")
			},
			want: domain.ErrRouteProviderParse,
		},
		{
			name: "gpx without route",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `<?xml version="1.0"?><gpx version="1.1" creator="x"></gpx>`)
			},
			want: domain.ErrRouteProviderParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler, ORSOptions{})

			_, err := c.FetchRoute(context.Background(), twoPoints, "foot-hiking")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFetchRouteRejectedCarriesStatusAndBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, "Access to this API has been disallowed")
	}, ORSOptions{})

	_, err := c.FetchRoute(context.Background(), twoPoints, "foot-hiking")

	var pse *domain.ProviderStatusError
	require.True(t, errors.As(err, &pse))
	assert.Equal(t, http.StatusForbidden, pse.Code)
	assert.Equal(t, "Access to this API has been disallowed", pse.Body)
}

func TestFetchRouteSingleAttempt(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, ORSOptions{})

	_, err := c.FetchRoute(context.Background(), twoPoints, "foot-hiking")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchRouteTimeoutIsUnavailable(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, ORSOptions{Timeout: 50 * time.Millisecond})
	defer close(release)

	_, err := c.FetchRoute(context.Background(), twoPoints, "foot-hiking")
	assert.ErrorIs(t, err, domain.ErrRouteProviderUnavailable)
}

func TestFetchRouteConnectionRefusedIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewORSClient("k", ORSOptions{BaseURL: url})
	require.NoError(t, err)

	_, err = c.FetchRoute(context.Background(), twoPoints, "foot-hiking")
	assert.ErrorIs(t, err, domain.ErrRouteProviderUnavailable)
}

func TestFetchRouteNeedsTwoCoordinates(t *testing.T) {
	c, err := NewORSClient("k", ORSOptions{BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = c.FetchRoute(context.Background(), twoPoints[:1], "foot-hiking")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewORSClientRequiresKey(t *testing.T) {
	_, err := NewORSClient("  ", ORSOptions{})
	assert.Error(t, err)
}

func TestFetchDistanceMatrix(t *testing.T) {
	var got matrixRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/matrix/driving-car", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, `{"distances":[[120.5],[80.25],[0]]}`)
	}, ORSOptions{})

	locs := append(append([]domain.Coordinates{}, twoPoints...), domain.Coordinates{Lon: 8.69, Lat: 49.42})
	m, err := c.FetchDistanceMatrix(context.Background(), locs, "driving-car")
	require.NoError(t, err)

	assert.Equal(t, []int{2}, got.Destinations)
	assert.Equal(t, []string{"distance"}, got.Metrics)
	assert.Len(t, got.Locations, 3)
	assert.Equal(t, [][]float64{{120.5}, {80.25}, {0}}, m)
}

func TestFetchDistanceMatrixNullCell(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"distances":[[null],[0]]}`)
	}, ORSOptions{})

	_, err := c.FetchDistanceMatrix(context.Background(), twoPoints, "driving-car")
	assert.ErrorIs(t, err, domain.ErrRouteProviderParse)
}

func TestFetchElevationsBatches(t *testing.T) {
	var sizes []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req elevationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		sizes = append(sizes, len(req.Locations))

		fmt.Fprint(w, `{"results":[`)
		for i, l := range req.Locations {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"latitude":%v,"longitude":%v,"elevation":%v}`, l.Latitude, l.Longitude, l.Latitude)
		}
		fmt.Fprint(w, `]}`)
	}))
	defer srv.Close()

	c, err := NewOpenElevationClient(srv.URL, time.Second)
	require.NoError(t, err)

	coords := make([]domain.Coordinates, 1030)
	for i := range coords {
		coords[i] = domain.Coordinates{Lon: 8, Lat: float64(i % 90)}
	}

	elev, err := c.FetchElevations(context.Background(), coords)
	require.NoError(t, err)

	assert.Equal(t, []int{512, 512, 6}, sizes)
	require.Len(t, elev, len(coords))
	assert.Equal(t, float64(1029%90), elev[1029])
}

func TestFetchElevationsShortResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"results":[]}`)
	}))
	defer srv.Close()

	c, err := NewOpenElevationClient(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = c.FetchElevations(context.Background(), twoPoints)
	assert.ErrorIs(t, err, domain.ErrRouteProviderParse)
}

func TestEchoRouteProvider(t *testing.T) {
	p := NewEchoRouteProvider()

	route, err := p.FetchRoute(context.Background(), twoPoints, "cycling-road")
	require.NoError(t, err)
	require.Len(t, route.Points, 2)
	assert.Equal(t, twoPoints[1].Lat, route.Points[1].Latitude)

	last, ok := p.LastCall()
	require.True(t, ok)
	assert.Equal(t, "cycling-road", last.Profile)

	p.Err = domain.ErrRouteProviderUnavailable
	_, err = p.FetchRoute(context.Background(), twoPoints, "cycling-road")
	assert.ErrorIs(t, err, domain.ErrRouteProviderUnavailable)
	assert.Len(t, p.Calls(), 2)
}

func TestEchoRouteProviderCancelledContext(t *testing.T) {
	p := NewEchoRouteProvider()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.FetchRoute(ctx, twoPoints, "foot-walking")
	assert.ErrorIs(t, err, domain.ErrRouteProviderUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}
