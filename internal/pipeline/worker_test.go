package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu       sync.Mutex
	nextID   int64
	finalRun *PipelineRun
	incr     int
	rows     int
}

func (s *memStore) CreatePipelineRun(_ context.Context, run *PipelineRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	run.ID = s.nextID
	return nil
}

func (s *memStore) UpdatePipelineRun(_ context.Context, run *PipelineRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := *run
	s.finalRun = &snapshot
	return nil
}

func (s *memStore) GetPipelineRunByDate(_ context.Context, _ string, _ time.Time) (*PipelineRun, error) {
	return nil, nil
}

func (s *memStore) CreateFileJob(_ context.Context, job *FileJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	job.ID = s.nextID
	return nil
}

func (s *memStore) UpdateFileJob(_ context.Context, _ *FileJob) error { return nil }

func (s *memStore) GetFailedFileJobs(_ context.Context, _ int64, _ int) ([]*FileJob, error) {
	return nil, nil
}

func (s *memStore) IncrementProcessedFiles(_ context.Context, _ int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incr++
	return nil
}

func (s *memStore) AddRowCount(_ context.Context, _ int64, rows int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows += rows
	return nil
}

type stubIngester struct {
	rowsByFile map[string]int
	failFile   string
}

func (s *stubIngester) IngestFile(_ context.Context, path string) (*domain.IngestResult, error) {
	if path == s.failFile {
		return nil, errors.New("malformed snapshot")
	}
	rows := s.rowsByFile[path]
	return &domain.IngestResult{Filename: path, RowsRead: rows, RowsStored: rows}, nil
}

func TestProcessBatchReportsCountersOnCompletion(t *testing.T) {
	store := &memStore{}
	ingester := &stubIngester{rowsByFile: map[string]int{"a.csv": 10, "b.csv": 20, "c.csv": 30}}
	worker := NewWorker(DefaultPipelineConfig("snapshot_ingest"), store, ingester)

	err := worker.ProcessBatch(context.Background(), time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), []string{"a.csv", "b.csv", "c.csv"})
	require.NoError(t, err)

	require.NotNil(t, store.finalRun)
	assert.Equal(t, StatusCompleted, store.finalRun.Status)
	assert.Equal(t, 3, store.finalRun.ProcessedFiles)
	assert.Equal(t, 60, store.finalRun.TotalRows)
	require.NotNil(t, store.finalRun.CompletedAt)

	// The DB-side counters saw the same totals.
	assert.Equal(t, 3, store.incr)
	assert.Equal(t, 60, store.rows)
}

func TestProcessBatchKeepsPartialCountersOnFailure(t *testing.T) {
	store := &memStore{}
	ingester := &stubIngester{rowsByFile: map[string]int{"a.csv": 10}, failFile: "bad.csv"}
	cfg := DefaultPipelineConfig("snapshot_ingest")
	cfg.WorkerCount = 1
	worker := NewWorker(cfg, store, ingester)

	err := worker.ProcessBatch(context.Background(), time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), []string{"a.csv", "bad.csv"})
	require.Error(t, err)

	require.NotNil(t, store.finalRun)
	assert.Equal(t, StatusFailed, store.finalRun.Status)
	assert.Equal(t, 1, store.finalRun.ProcessedFiles)
	assert.Equal(t, 10, store.finalRun.TotalRows)
	assert.NotEmpty(t, store.finalRun.ErrorMessage)
}
