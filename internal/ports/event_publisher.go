package ports

import (
	"context"
	"gpx-route-editor/internal/domain"
)

type FileEventPublisher interface {
	PublishFileEvent(ctx context.Context, ev domain.FileEvent) error
}
