package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gpxedit",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gpxedit",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"method", "route"})

	// Outcome is one of ok, rejected, unavailable, throttled.
	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gpxedit",
		Subsystem: "provider",
		Name:      "requests_total",
		Help:      "Calls to external routing and elevation providers",
	}, []string{"endpoint", "outcome"})

	PointEdits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gpxedit",
		Subsystem: "editor",
		Name:      "edits_total",
		Help:      "Route edits by operation and outcome",
	}, []string{"op", "outcome"})
)
