package events

import (
	"context"
	"encoding/json"
	"fmt"
	"gpx-route-editor/internal/domain"
	"time"

	"github.com/nats-io/nats.go"
)

const DefaultSubjectPrefix = "gpx.files"

// NATSPublisher implements FileEventPublisher with core NATS publishes on
// <prefix>.<event type>, e.g. gpx.files.file.updated.
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("gpx-route-editor"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSPublisher{conn: conn, prefix: prefix}, nil
}

func (p *NATSPublisher) PublishFileEvent(ctx context.Context, ev domain.FileEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal file event: %w", err)
	}
	if err := p.conn.Publish(p.prefix+"."+ev.Type, data); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() {
	_ = p.conn.Drain()
}
