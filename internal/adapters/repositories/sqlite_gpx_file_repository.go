package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"gpx-route-editor/internal/domain"
	"gpx-route-editor/internal/platform/obs"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLite-backed implementation of the GpxFileRepository port.
type SqliteGpxFileRepository struct{ DB *sql.DB }

func NewSqliteGpxFileRepository(db *sql.DB) *SqliteGpxFileRepository {
	return &SqliteGpxFileRepository{DB: db}
}

func (s *SqliteGpxFileRepository) Create(
	ctx context.Context,
	name, profile string,
	data []byte,
) (_ *domain.GpxFile, err error) {
	defer obs.Time(ctx, "sqlite.files.Create")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite file repository: DB is nil")
	}

	query := `
	INSERT INTO gpx_files (
		name,
		profile,
		data
	)
	VALUES (?, ?, ?);
	`
	res, err := s.DB.ExecContext(ctx, query, name, profile, data)
	if err != nil {
		if isSqliteUniqueViolation(err) {
			return nil, fmt.Errorf("create file %q: %w", name, domain.ErrConflict)
		}
		return nil, fmt.Errorf("create file %q: insert: %w", name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create file %q: last insert id: %w", name, err)
	}

	return &domain.GpxFile{ID: id, Name: name, Profile: profile, Data: data}, nil
}

func (s *SqliteGpxFileRepository) Get(ctx context.Context, name string) (*domain.GpxFile, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite file repository: DB is nil")
	}

	query := `
	SELECT id, name, profile, data
	FROM gpx_files
	WHERE name = ?;
	`
	f, err := scanFile(s.DB.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get file %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get file %q: %w", name, err)
	}

	return f, nil
}

// Return all stored files ordered by name.
func (s *SqliteGpxFileRepository) List(ctx context.Context) ([]*domain.GpxFile, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite file repository: DB is nil")
	}

	query := `
	SELECT id, name, profile, data
	FROM gpx_files
	ORDER BY name;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list files: query gpx_files table: %w", err)
	}

	return scanFiles(rows)
}

func (s *SqliteGpxFileRepository) Update(
	ctx context.Context,
	file *domain.GpxFile,
	data []byte,
	profile string,
) (err error) {
	defer obs.Time(ctx, "sqlite.files.Update")(&err)

	if s.DB == nil {
		return errors.New("sqlite file repository: DB is nil")
	}

	query := `
	UPDATE gpx_files
	SET data = ?,
		profile = COALESCE(NULLIF(?, ''), profile)
	WHERE id = ?;
	`
	res, err := s.DB.ExecContext(ctx, query, data, profile, file.ID)
	if err != nil {
		return fmt.Errorf("update file %q: %w", file.Name, err)
	}
	if err := requireAffected(res, "update file", file.Name); err != nil {
		return err
	}

	file.Data = data
	if profile != "" {
		file.Profile = profile
	}
	return nil
}

func (s *SqliteGpxFileRepository) Delete(ctx context.Context, name string) error {
	if s.DB == nil {
		return errors.New("sqlite file repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM gpx_files WHERE name = ?;`, name)
	if err != nil {
		return fmt.Errorf("delete file %q: %w", name, err)
	}
	return requireAffected(res, "delete file", name)
}

func (s *SqliteGpxFileRepository) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func isSqliteUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
