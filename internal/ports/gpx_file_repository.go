package ports

import (
	"context"
	"gpx-route-editor/internal/domain"
)

// Port: storage for named GPX files.
type GpxFileRepository interface {
	// Store a new file. Fails with domain.ErrConflict when the name is taken.
	Create(ctx context.Context, name, profile string, data []byte) (*domain.GpxFile, error)
	// Fetch a file by name. Fails with domain.ErrNotFound.
	Get(ctx context.Context, name string) (*domain.GpxFile, error)
	List(ctx context.Context) ([]*domain.GpxFile, error)
	// Replace the stored bytes; an empty profile keeps the current one.
	Update(ctx context.Context, file *domain.GpxFile, data []byte, profile string) error
	Delete(ctx context.Context, name string) error
	Ping(ctx context.Context) error
}
