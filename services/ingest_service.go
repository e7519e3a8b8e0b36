package services

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/maldun/UltraMekCore/persistence"
)

// IngestResult is the outcome for one unit file of a batch
type IngestResult struct {
	Path string
	Name string
	Err  error
}

// IngestService parses unit files in bulk and stores them by display name
type IngestService struct {
	units   *UnitService
	db      persistence.Storage
	workers int
	logger  *slog.Logger
}

// NewIngestService creates an ingest service running up to workers parses at once
func NewIngestService(units *UnitService, db persistence.Storage, workers int, logger *slog.Logger) *IngestService {
	if logger == nil {
		logger = slog.Default()
	}
	if workers < 1 {
		workers = 1
	}
	return &IngestService{
		units:   units,
		db:      db,
		workers: workers,
		logger:  logger.With("component", "ingest_service"),
	}
}

// IngestDir parses every .mtf and .blk file below dir and saves each under
// category. A file that fails to parse is reported in its result; a storage
// failure or cancellation aborts the batch.
func (is *IngestService) IngestDir(ctx context.Context, dir, category string) ([]IngestResult, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			if _, ok := unitFormat(p); ok {
				paths = append(paths, p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	results := make([]IngestResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(is.workers)

	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = IngestResult{Path: p}

			unit, err := is.units.ParseUnitFile(p)
			if err != nil {
				is.logger.Warn("skipping unit file", "file", p, "error", err)
				results[i].Err = err
				return nil
			}

			name := UnitName(unit)
			if name == "" {
				name = unitBaseName(p)
			}
			results[i].Name = name

			if err := is.db.SaveUnit(category, name, unit); err != nil {
				return fmt.Errorf("failed to save %s: %w", name, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	is.logger.Info("ingest finished", "dir", dir, "category", category, "files", len(paths), "failed", len(Failed(results)))
	return results, nil
}

// Failed returns the results that carry an error
func Failed(results []IngestResult) []IngestResult {
	var failed []IngestResult
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
