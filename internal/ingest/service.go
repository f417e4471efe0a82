// backend-go/internal/ingest/service.go
package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/internal/repository"
)

// Invalidator drops caches whose inputs changed after an ingest.
type Invalidator interface {
	InvalidateAll(ctx context.Context) error
}

type Service struct {
	snapshots    repository.SnapshotRepository
	invalidators []Invalidator
}

func NewService(snapshots repository.SnapshotRepository, invalidators ...Invalidator) *Service {
	return &Service{
		snapshots:    snapshots,
		invalidators: invalidators,
	}
}

// IngestFile parses one snapshot CSV and persists its sales and stock rows.
func (s *Service) IngestFile(ctx context.Context, path string) (*domain.IngestResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return s.IngestReader(ctx, filepath.Base(path), file)
}

// IngestReader ingests snapshot CSV content from any source.
func (s *Service) IngestReader(ctx context.Context, name string, r io.Reader) (*domain.IngestResult, error) {
	rows, skipped, err := ParseSnapshotCSV(r)
	if err != nil {
		return nil, err
	}

	stored := 0

	n, err := s.snapshots.InsertSalesRecords(ctx, SalesRecords(rows))
	if err != nil {
		return nil, err
	}
	stored += n

	if _, err := s.snapshots.UpsertStockSnapshots(ctx, StockSnapshots(rows)); err != nil {
		return nil, err
	}

	for _, inv := range s.invalidators {
		if err := inv.InvalidateAll(ctx); err != nil {
			log.Warn().Err(err).Msg("ingest: cache invalidation failed")
		}
	}

	result := &domain.IngestResult{
		Filename:    name,
		RowsRead:    len(rows) + skipped,
		RowsStored:  stored,
		RowsSkipped: skipped,
		ProcessedAt: time.Now(),
	}

	log.Info().
		Str("file", result.Filename).
		Int("rows_read", result.RowsRead).
		Int("rows_stored", result.RowsStored).
		Int("rows_skipped", result.RowsSkipped).
		Msg("snapshot file ingested")

	return result, nil
}

// IngestDir ingests every CSV in a directory, continuing past per-file
// failures.
func (s *Service) IngestDir(ctx context.Context, dir string) ([]domain.IngestResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var results []domain.IngestResult
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".csv" {
			continue
		}

		result, err := s.IngestFile(ctx, filepath.Join(dir, entry.Name()))
		if err != nil {
			log.Error().Err(err).Str("file", entry.Name()).Msg("ingest: file failed")
			continue
		}
		results = append(results, *result)
	}

	return results, nil
}
