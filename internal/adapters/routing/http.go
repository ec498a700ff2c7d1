package routing

import (
	"context"
	"fmt"
	"gpx-route-editor/internal/domain"
	"gpx-route-editor/internal/platform/obs"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

// Upper bound on provider response bodies we are willing to buffer.
const maxResponseBytes = 32 << 20

func newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
	accept string,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", accept)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// do performs a single attempt and classifies the outcome:
// transport failures and timeouts become ErrRouteProviderUnavailable,
// non-2xx answers become *domain.ProviderStatusError.
func do(session *http.Client, limiter *rate.Limiter, req *http.Request, endpoint string) (*http.Response, error) {
	if limiter != nil {
		if err := limiter.Wait(req.Context()); err != nil {
			obs.ProviderRequests.WithLabelValues(endpoint, "throttled").Inc()
			return nil, fmt.Errorf("%w: rate limit wait: %w", domain.ErrRouteProviderUnavailable, err)
		}
	}

	resp, err := session.Do(req)
	if err != nil {
		obs.ProviderRequests.WithLabelValues(endpoint, "unavailable").Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrRouteProviderUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()
		obs.ProviderRequests.WithLabelValues(endpoint, "rejected").Inc()
		return nil, &domain.ProviderStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}

	obs.ProviderRequests.WithLabelValues(endpoint, "ok").Inc()
	return resp, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrRouteProviderUnavailable, err)
	}
	return b, nil
}

func parseErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrRouteProviderParse, fmt.Sprintf(format, args...))
}
