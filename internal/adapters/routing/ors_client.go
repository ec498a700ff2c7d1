package routing

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultORSBaseURL = "https://api.openrouteservice.org"

type ORSOptions struct {
	BaseURL string
	Timeout time.Duration
	// Outbound requests per minute; zero disables throttling.
	RatePerMinute int
	// Ask the directions endpoint for elevation on every route point.
	Elevation bool
}

// ORSClient implements RouteProvider and DistanceMatrixProvider using OpenRouteService.
//
// Every call is a single attempt bounded by the client timeout.
// The client is safe for concurrent use.
type ORSClient struct {
	session   *http.Client
	limiter   *rate.Limiter
	apiKey    string
	baseURL   string
	elevation bool
}

func NewORSClient(apiKey string, opts ORSOptions) (*ORSClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultORSBaseURL
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var limiter *rate.Limiter
	if opts.RatePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RatePerMinute)), 1)
	}

	return &ORSClient{
		session:   &http.Client{Timeout: timeout},
		limiter:   limiter,
		apiKey:    apiKey,
		baseURL:   baseURL,
		elevation: opts.Elevation,
	}, nil
}

func (o *ORSClient) authorize(req *http.Request) {
	req.Header.Set("Authorization", o.apiKey)
}
