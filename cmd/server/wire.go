package main

import (
	"gpx-route-editor/internal/adapters/events"
	"gpx-route-editor/internal/adapters/routing"
	"gpx-route-editor/internal/config"
	"gpx-route-editor/internal/ports"
	"gpx-route-editor/internal/services"
	"log/slog"
)

func newPointEditor(cfg *config.Config) (*services.PointEditor, error) {
	var editor *services.PointEditor

	switch cfg.Routing.Provider {
	case "echo":
		slog.Warn("routing provider is echo; routes are straight lines between control points")
		editor = services.NewPointEditor(routing.NewEchoRouteProvider())
	default:
		ors, err := routing.NewORSClient(cfg.ORS.APIKey, routing.ORSOptions{
			BaseURL:       cfg.ORS.BaseURL,
			Timeout:       cfg.ORS.Timeout,
			RatePerMinute: cfg.ORS.RatePerMinute,
			Elevation:     cfg.ORS.Elevation,
		})
		if err != nil {
			return nil, err
		}
		editor = services.NewPointEditor(ors)
		if cfg.ORS.UseMatrix {
			editor.Matrix = ors
		}
	}

	if cfg.Elevation.URL != "" {
		elev, err := routing.NewOpenElevationClient(cfg.Elevation.URL, cfg.Elevation.Timeout)
		if err != nil {
			return nil, err
		}
		editor.Elevation = elev
	}

	return editor, nil
}

// newEventPublisher returns a NATS publisher when nats.url is set and a logging
// publisher otherwise. The returned func releases the connection.
func newEventPublisher(cfg *config.Config) (ports.FileEventPublisher, func(), error) {
	if cfg.NATS.URL == "" {
		return events.LogPublisher{}, func() {}, nil
	}

	pub, err := events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.Subject)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("publishing file events", "nats", cfg.NATS.URL, "subject", cfg.NATS.Subject)
	return pub, pub.Close, nil
}
