package events

import (
	"context"
	"gpx-route-editor/internal/domain"
	"log/slog"
)

// LogPublisher stands in when no broker is configured and records events at debug level.
type LogPublisher struct{}

func (LogPublisher) PublishFileEvent(ctx context.Context, ev domain.FileEvent) error {
	slog.DebugContext(ctx, "file event", "type", ev.Type, "name", ev.Name, "op", ev.Op)
	return nil
}
