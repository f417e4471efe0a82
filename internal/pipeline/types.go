package pipeline

import (
	"context"
	"time"

	"github.com/stocklens/backend-go/internal/domain"
)

// Ingester processes a single local snapshot file.
type Ingester interface {
	IngestFile(ctx context.Context, path string) (*domain.IngestResult, error)
}

// Store is the run and file-job bookkeeping surface the worker writes to.
// *Repository implements it against Postgres.
type Store interface {
	CreatePipelineRun(ctx context.Context, run *PipelineRun) error
	UpdatePipelineRun(ctx context.Context, run *PipelineRun) error
	GetPipelineRunByDate(ctx context.Context, name string, date time.Time) (*PipelineRun, error)
	CreateFileJob(ctx context.Context, job *FileJob) error
	UpdateFileJob(ctx context.Context, job *FileJob) error
	GetFailedFileJobs(ctx context.Context, runID int64, maxRetries int) ([]*FileJob, error)
	IncrementProcessedFiles(ctx context.Context, runID int64) error
	AddRowCount(ctx context.Context, runID int64, rows int) error
}

// PipelineConfig holds configuration for a pipeline instance
type PipelineConfig struct {
	Name          string
	WorkerCount   int           // Number of concurrent workers
	RetryAttempts int           // Number of retries on failure
	RetryBackoff  time.Duration // Backoff duration between retries
}

// DefaultPipelineConfig returns sensible defaults
func DefaultPipelineConfig(name string) PipelineConfig {
	return PipelineConfig{
		Name:          name,
		WorkerCount:   4,
		RetryAttempts: 3,
		RetryBackoff:  30 * time.Second,
	}
}

// PipelineStatus represents the current state of a pipeline run
type PipelineStatus string

const (
	StatusPending    PipelineStatus = "pending"
	StatusProcessing PipelineStatus = "processing"
	StatusCompleted  PipelineStatus = "completed"
	StatusFailed     PipelineStatus = "failed"
)

// FileJobStatus represents the state of a single file processing job
type FileJobStatus string

const (
	FileStatusQueued     FileJobStatus = "queued"
	FileStatusProcessing FileJobStatus = "processing"
	FileStatusCompleted  FileJobStatus = "completed"
	FileStatusFailed     FileJobStatus = "failed"
)

// PipelineRun tracks a single execution of a pipeline for a specific date
type PipelineRun struct {
	ID             int64
	PipelineName   string
	Date           time.Time
	Status         PipelineStatus
	TotalFiles     int
	ProcessedFiles int
	TotalRows      int
	StartedAt      time.Time
	CompletedAt    *time.Time
	ErrorMessage   string
}

// FileJob tracks the processing of a single file
type FileJob struct {
	ID            int64
	PipelineRunID int64
	FilePath      string
	Status        FileJobStatus
	ErrorMessage  string
	ProcessedAt   *time.Time
	RetryCount    int
}
