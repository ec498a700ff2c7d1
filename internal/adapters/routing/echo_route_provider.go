package routing

import (
	"context"
	"fmt"
	"gpx-route-editor/internal/domain"
	"gpx-route-editor/internal/gpxdoc"
	"slices"
	"sync"

	"github.com/tkrajina/gpxgo/gpx"
)

// EchoRouteProvider returns the requested control points as the route geometry.
// It needs no network and backs offline runs and tests.
type EchoRouteProvider struct {
	mu    sync.Mutex
	calls []EchoCall
	// When set, every call fails with Err.
	Err error
}

type EchoCall struct {
	Coords  []domain.Coordinates
	Profile string
}

func NewEchoRouteProvider() *EchoRouteProvider {
	return &EchoRouteProvider{}
}

func (p *EchoRouteProvider) FetchRoute(
	ctx context.Context,
	coords []domain.Coordinates,
	profile string,
) (gpx.GPXRoute, error) {
	p.mu.Lock()
	p.calls = append(p.calls, EchoCall{Coords: slices.Clone(coords), Profile: profile})
	err := p.Err
	p.mu.Unlock()

	if err != nil {
		return gpx.GPXRoute{}, err
	}
	if err := ctx.Err(); err != nil {
		return gpx.GPXRoute{}, fmt.Errorf("%w: %w", domain.ErrRouteProviderUnavailable, err)
	}

	return gpxdoc.RouteFromCoordinates(coords), nil
}

// Calls returns every request seen so far.
func (p *EchoRouteProvider) Calls() []EchoCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.calls)
}

func (p *EchoRouteProvider) LastCall() (EchoCall, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.calls) == 0 {
		return EchoCall{}, false
	}
	return p.calls[len(p.calls)-1], true
}
