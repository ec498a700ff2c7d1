package repositories

import (
	"database/sql"
	"fmt"
	"gpx-route-editor/internal/ports"
)

// NewGpxFileRepository picks the implementation matching the database driver.
func NewGpxFileRepository(db *sql.DB, driver string) (ports.GpxFileRepository, error) {
	switch driver {
	case DriverSqlite:
		return NewSqliteGpxFileRepository(db), nil
	case DriverPostgres:
		return NewSQLGpxFileRepository(db), nil
	default:
		return nil, fmt.Errorf("file repository: unsupported driver %q", driver)
	}
}
