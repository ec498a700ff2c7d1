package domain

import "time"

// Persisted GPX file. Name is the sole identity; Data holds the serialized
// document and is replaced wholesale on every edit.
type GpxFile struct {
	ID      int64
	Name    string
	Profile string
	Data    []byte
}

const (
	FileCreated = "file.created"
	FileUpdated = "file.updated"
	FileDeleted = "file.deleted"
)

// Emitted after a change to a stored file has been committed.
type FileEvent struct {
	Type    string    `json:"type"`
	Name    string    `json:"name"`
	Profile string    `json:"profile,omitempty"`
	Op      string    `json:"op,omitempty"`
	At      time.Time `json:"at"`
}
