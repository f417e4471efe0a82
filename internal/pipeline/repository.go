package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository handles pipeline run and file job bookkeeping
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreatePipelineRun inserts a new pipeline run record
func (r *Repository) CreatePipelineRun(ctx context.Context, run *PipelineRun) error {
	query := `
		INSERT INTO pipeline_runs (pipeline_name, run_date, status, total_files, processed_files, total_rows, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		run.PipelineName, run.Date, run.Status,
		run.TotalFiles, run.ProcessedFiles, run.TotalRows, run.StartedAt,
	).Scan(&run.ID)
	if err != nil {
		return fmt.Errorf("create pipeline run: %w", err)
	}
	return nil
}

// UpdatePipelineRun updates status and counters of an existing run
func (r *Repository) UpdatePipelineRun(ctx context.Context, run *PipelineRun) error {
	query := `
		UPDATE pipeline_runs
		SET status = $1, total_files = $2, processed_files = $3, total_rows = $4,
		    completed_at = $5, error_message = $6
		WHERE id = $7`

	_, err := r.db.ExecContext(ctx, query,
		run.Status, run.TotalFiles, run.ProcessedFiles, run.TotalRows,
		run.CompletedAt, nullIfEmpty(run.ErrorMessage), run.ID,
	)
	if err != nil {
		return fmt.Errorf("update pipeline run %d: %w", run.ID, err)
	}
	return nil
}

// GetPipelineRunByDate returns the most recent run for a pipeline and date, or nil
func (r *Repository) GetPipelineRunByDate(ctx context.Context, name string, date time.Time) (*PipelineRun, error) {
	query := `
		SELECT id, pipeline_name, run_date, status, total_files, processed_files, total_rows,
		       started_at, completed_at, COALESCE(error_message, '')
		FROM pipeline_runs
		WHERE pipeline_name = $1 AND run_date = $2
		ORDER BY started_at DESC
		LIMIT 1`

	run := &PipelineRun{}
	err := r.db.QueryRowContext(ctx, query, name, date).Scan(
		&run.ID, &run.PipelineName, &run.Date, &run.Status,
		&run.TotalFiles, &run.ProcessedFiles, &run.TotalRows,
		&run.StartedAt, &run.CompletedAt, &run.ErrorMessage,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pipeline run: %w", err)
	}
	return run, nil
}

// CreateFileJob records a file queued for processing
func (r *Repository) CreateFileJob(ctx context.Context, job *FileJob) error {
	query := `
		INSERT INTO pipeline_file_jobs (pipeline_run_id, file_path, status, retry_count)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		job.PipelineRunID, job.FilePath, job.Status, job.RetryCount,
	).Scan(&job.ID)
	if err != nil {
		return fmt.Errorf("create file job: %w", err)
	}
	return nil
}

// UpdateFileJob updates a file job's status after an attempt
func (r *Repository) UpdateFileJob(ctx context.Context, job *FileJob) error {
	query := `
		UPDATE pipeline_file_jobs
		SET status = $1, error_message = $2, processed_at = $3, retry_count = $4
		WHERE id = $5`

	_, err := r.db.ExecContext(ctx, query,
		job.Status, nullIfEmpty(job.ErrorMessage), job.ProcessedAt, job.RetryCount, job.ID,
	)
	if err != nil {
		return fmt.Errorf("update file job %d: %w", job.ID, err)
	}
	return nil
}

// GetFailedFileJobs returns failed jobs for a run that are eligible for retry
func (r *Repository) GetFailedFileJobs(ctx context.Context, runID int64, maxRetries int) ([]*FileJob, error) {
	query := `
		SELECT id, pipeline_run_id, file_path, status, COALESCE(error_message, ''), processed_at, retry_count
		FROM pipeline_file_jobs
		WHERE pipeline_run_id = $1 AND status = $2 AND retry_count < $3
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, runID, FileStatusFailed, maxRetries)
	if err != nil {
		return nil, fmt.Errorf("get failed file jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*FileJob
	for rows.Next() {
		job := &FileJob{}
		if err := rows.Scan(
			&job.ID, &job.PipelineRunID, &job.FilePath, &job.Status,
			&job.ErrorMessage, &job.ProcessedAt, &job.RetryCount,
		); err != nil {
			return nil, fmt.Errorf("scan file job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// IncrementProcessedFiles bumps the processed file counter for a run
func (r *Repository) IncrementProcessedFiles(ctx context.Context, runID int64) error {
	query := `UPDATE pipeline_runs SET processed_files = processed_files + 1 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, runID); err != nil {
		return fmt.Errorf("increment processed files: %w", err)
	}
	return nil
}

// AddRowCount adds stored row counts to a run's total
func (r *Repository) AddRowCount(ctx context.Context, runID int64, rows int) error {
	query := `UPDATE pipeline_runs SET total_rows = total_rows + $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, rows, runID); err != nil {
		return fmt.Errorf("add row count: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
