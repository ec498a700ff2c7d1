package main

import (
	"context"
	"fmt"
	"gpx-route-editor/internal/services"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

type importResult struct {
	Imported int
	Failed   map[string]error
}

// collectGpxPaths expands directories into the .gpx files below them. Plain file
// arguments are kept as given so the upload step can reject wrong extensions.
func collectGpxPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("import: %w", err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".gpx") {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("import: walk %s: %w", arg, err)
		}
	}

	slices.Sort(paths)
	return slices.Compact(paths), nil
}

// importFiles uploads every path and keeps going past failures.
func importFiles(ctx context.Context, files *services.GpxFileService, paths []string, profile string, step func()) importResult {
	res := importResult{Failed: map[string]error{}}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err == nil {
			_, err = files.Upload(ctx, filepath.Base(path), profile, data)
		}

		if err != nil {
			res.Failed[path] = err
		} else {
			res.Imported++
		}
		step()
	}

	return res
}
