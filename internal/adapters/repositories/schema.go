package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

const (
	DriverSqlite   = "sqlite"
	DriverPostgres = "pgx"
)

// Initialize the database schema for the given driver.
func InitSchema(db *sql.DB, driver string) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	var statements []string
	switch driver {
	case DriverSqlite:
		statements = []string{`
	CREATE TABLE IF NOT EXISTS gpx_files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		profile TEXT NOT NULL DEFAULT 'foot-hiking',
		data BLOB NOT NULL
	);
	`}
	case DriverPostgres:
		statements = []string{`
	CREATE TABLE IF NOT EXISTS gpx_files (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		profile TEXT NOT NULL DEFAULT 'foot-hiking',
		data BYTEA NOT NULL
	);
	`}
	default:
		return fmt.Errorf("init schema: unsupported driver %q", driver)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
