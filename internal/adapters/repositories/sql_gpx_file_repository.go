package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"gpx-route-editor/internal/domain"
	"gpx-route-editor/internal/platform/obs"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL implementation of the GpxFileRepository port.
// Expects a *sql.DB opened with the pgx stdlib driver.
type SQLGpxFileRepository struct{ DB *sql.DB }

func NewSQLGpxFileRepository(db *sql.DB) *SQLGpxFileRepository {
	return &SQLGpxFileRepository{DB: db}
}

func (s *SQLGpxFileRepository) Create(
	ctx context.Context,
	name, profile string,
	data []byte,
) (_ *domain.GpxFile, err error) {
	defer obs.Time(ctx, "postgres.files.Create")(&err)

	if s.DB == nil {
		return nil, errors.New("file repository: db is nil")
	}

	q := `
	INSERT INTO gpx_files (name, profile, data)
	VALUES ($1, $2, $3)
	RETURNING id;
	`
	var id int64
	if err := s.DB.QueryRowContext(ctx, q, name, profile, data).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("create file %q: %w", name, domain.ErrConflict)
		}
		return nil, fmt.Errorf("create file %q: insert: %w", name, err)
	}

	return &domain.GpxFile{ID: id, Name: name, Profile: profile, Data: data}, nil
}

func (s *SQLGpxFileRepository) Get(ctx context.Context, name string) (*domain.GpxFile, error) {
	if s.DB == nil {
		return nil, errors.New("file repository: db is nil")
	}

	q := `
	SELECT id, name, profile, data
	FROM gpx_files
	WHERE name = $1;
	`
	f, err := scanFile(s.DB.QueryRowContext(ctx, q, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get file %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get file %q: %w", name, err)
	}

	return f, nil
}

func (s *SQLGpxFileRepository) List(ctx context.Context) ([]*domain.GpxFile, error) {
	if s.DB == nil {
		return nil, errors.New("file repository: db is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT id, name, profile, data FROM gpx_files ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("list files: query gpx_files table: %w", err)
	}

	return scanFiles(rows)
}

func (s *SQLGpxFileRepository) Update(
	ctx context.Context,
	file *domain.GpxFile,
	data []byte,
	profile string,
) (err error) {
	defer obs.Time(ctx, "postgres.files.Update")(&err)

	if s.DB == nil {
		return errors.New("file repository: db is nil")
	}

	q := `
	UPDATE gpx_files
	SET data = $1,
		profile = COALESCE(NULLIF($2, ''), profile)
	WHERE id = $3;
	`
	res, err := s.DB.ExecContext(ctx, q, data, profile, file.ID)
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

func (s *SQLGpxFileRepository) Delete(ctx context.Context, name string) error {
	if s.DB == nil {
		return errors.New("file repository: db is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM gpx_files WHERE name = $1;`, name)
	if err != nil {
		return fmt.Errorf("delete file %q: %w", name, err)
	}
	return requireAffected(res, "delete file", name)
}

func (s *SQLGpxFileRepository) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}
