package repositories

import (
	"database/sql"
	"fmt"
	"gpx-route-editor/internal/domain"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (*domain.GpxFile, error) {
	var f domain.GpxFile
	if err := row.Scan(&f.ID, &f.Name, &f.Profile, &f.Data); err != nil {
		return nil, err
	}
	return &f, nil
}

func scanFiles(rows *sql.Rows) ([]*domain.GpxFile, error) {
	defer rows.Close()

	files := make([]*domain.GpxFile, 0, 16)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("list files: scan row: %w", err)
		}
		files = append(files, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list files: row iteration: %w", err)
	}

	return files, nil
}

func requireAffected(res sql.Result, op, name string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %q: rows affected: %w", op, name, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", op, name, domain.ErrNotFound)
	}
	return nil
}
