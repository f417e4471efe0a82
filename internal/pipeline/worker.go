package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// Worker ingests a batch of snapshot files with a worker pool and records
// progress through the pipeline repository.
type Worker struct {
	config   PipelineConfig
	repo     Store
	ingester Ingester
}

func NewWorker(config PipelineConfig, repo Store, ingester Ingester) *Worker {
	return &Worker{
		config:   config,
		repo:     repo,
		ingester: ingester,
	}
}

// ProcessBatch ingests a batch of files belonging to a single snapshot date
func (w *Worker) ProcessBatch(ctx context.Context, date time.Time, files []string) error {
	log.Info().
		Str("pipeline", w.config.Name).
		Str("date", date.Format("2006-01-02")).
		Int("files", len(files)).
		Msg("starting batch ingestion")

	run, err := w.getOrCreatePipelineRun(ctx, date, len(files))
	if err != nil {
		return fmt.Errorf("create pipeline run: %w", err)
	}

	jobs := make([]*FileJob, len(files))
	for i, file := range files {
		job := &FileJob{
			PipelineRunID: run.ID,
			FilePath:      file,
			Status:        FileStatusQueued,
		}
		if err := w.repo.CreateFileJob(ctx, job); err != nil {
			return fmt.Errorf("create file job: %w", err)
		}
		jobs[i] = job
	}

	run.Status = StatusProcessing
	if err := w.repo.UpdatePipelineRun(ctx, run); err != nil {
		return fmt.Errorf("update pipeline run: %w", err)
	}

	processed, rows, err := w.processFilesParallel(ctx, run, jobs)
	// Mirror the DB-side counters so the final update and log see them.
	run.ProcessedFiles += processed
	run.TotalRows += rows

	if err != nil {
		run.Status = StatusFailed
		run.ErrorMessage = err.Error()
		now := time.Now()
		run.CompletedAt = &now
		if uerr := w.repo.UpdatePipelineRun(ctx, run); uerr != nil {
			log.Warn().Err(uerr).Int64("run_id", run.ID).Msg("failed to record run failure")
		}
		return err
	}

	run.Status = StatusCompleted
	now := time.Now()
	run.CompletedAt = &now
	if err := w.repo.UpdatePipelineRun(ctx, run); err != nil {
		return fmt.Errorf("complete pipeline run: %w", err)
	}

	log.Info().
		Str("pipeline", w.config.Name).
		Int("processed_files", run.ProcessedFiles).
		Int("total_rows", run.TotalRows).
		Msg("batch ingestion completed")

	return nil
}

// processFilesParallel drains the job list through a fixed worker pool and
// returns how many files and rows made it through.
func (w *Worker) processFilesParallel(ctx context.Context, run *PipelineRun, jobs []*FileJob) (int, int, error) {
	workerCount := w.config.WorkerCount
	if workerCount < 1 {
		workerCount = 1
	}

	jobChan := make(chan *FileJob, len(jobs))
	errChan := make(chan error, workerCount)
	var (
		wg        sync.WaitGroup
		processed atomic.Int64
		totalRows atomic.Int64
	)

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for job := range jobChan {
				rows, err := w.processFile(ctx, run, job)
				if err != nil {
					log.Error().Err(err).
						Int("worker", workerID).
						Str("file", job.FilePath).
						Msg("file ingestion failed")
					select {
					case errChan <- err:
					default:
					}
					continue
				}
				processed.Add(1)
				totalRows.Add(int64(rows))
			}
		}(i)
	}

	for _, job := range jobs {
		select {
		case <-ctx.Done():
			close(jobChan)
			wg.Wait()
			return int(processed.Load()), int(totalRows.Load()), ctx.Err()
		case jobChan <- job:
		}
	}
	close(jobChan)

	wg.Wait()
	close(errChan)

	if err := <-errChan; err != nil {
		return int(processed.Load()), int(totalRows.Load()), err
	}
	return int(processed.Load()), int(totalRows.Load()), nil
}

// processFile ingests a single file, updates its job record and returns the
// stored row count
func (w *Worker) processFile(ctx context.Context, run *PipelineRun, job *FileJob) (int, error) {
	start := time.Now()

	job.Status = FileStatusProcessing
	if err := w.repo.UpdateFileJob(ctx, job); err != nil {
		return 0, err
	}

	result, err := w.ingester.IngestFile(ctx, job.FilePath)
	if err != nil {
		return 0, w.markJobFailed(ctx, job, err)
	}

	job.Status = FileStatusCompleted
	now := time.Now()
	job.ProcessedAt = &now
	if err := w.repo.UpdateFileJob(ctx, job); err != nil {
		return 0, err
	}

	if err := w.repo.IncrementProcessedFiles(ctx, run.ID); err != nil {
		log.Warn().Err(err).Int64("run_id", run.ID).Msg("failed to increment processed files")
	}
	if err := w.repo.AddRowCount(ctx, run.ID, result.RowsStored); err != nil {
		log.Warn().Err(err).Int64("run_id", run.ID).Msg("failed to add row count")
	}

	log.Info().
		Str("file", job.FilePath).
		Int("rows_stored", result.RowsStored).
		Int("rows_skipped", result.RowsSkipped).
		Dur("duration", time.Since(start)).
		Msg("file ingested")

	return result.RowsStored, nil
}

func (w *Worker) markJobFailed(ctx context.Context, job *FileJob, cause error) error {
	job.Status = FileStatusFailed
	job.ErrorMessage = cause.Error()
	job.RetryCount++

	if err := w.repo.UpdateFileJob(ctx, job); err != nil {
		log.Warn().Err(err).Int64("job_id", job.ID).Msg("failed to update job status")
	}

	return cause
}

// getOrCreatePipelineRun reuses an existing run for the date so reruns resume
// instead of duplicating bookkeeping
func (w *Worker) getOrCreatePipelineRun(ctx context.Context, date time.Time, totalFiles int) (*PipelineRun, error) {
	run, err := w.repo.GetPipelineRunByDate(ctx, w.config.Name, date)
	if err != nil {
		return nil, err
	}

	if run != nil {
		if run.TotalFiles != totalFiles {
			run.TotalFiles = totalFiles
			if err := w.repo.UpdatePipelineRun(ctx, run); err != nil {
				return nil, err
			}
		}
		return run, nil
	}

	run = &PipelineRun{
		PipelineName: w.config.Name,
		Date:         date,
		Status:       StatusPending,
		TotalFiles:   totalFiles,
		StartedAt:    time.Now(),
	}
	if err := w.repo.CreatePipelineRun(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// RetryFailed reprocesses failed jobs of a run that still have retries left
func (w *Worker) RetryFailed(ctx context.Context, runID int64) error {
	jobs, err := w.repo.GetFailedFileJobs(ctx, runID, w.config.RetryAttempts)
	if err != nil {
		return fmt.Errorf("get failed jobs: %w", err)
	}
	if len(jobs) == 0 {
		log.Info().Int64("run_id", runID).Msg("no failed jobs to retry")
		return nil
	}

	log.Info().Int64("run_id", runID).Int("jobs", len(jobs)).Msg("retrying failed jobs")

	if w.config.RetryBackoff > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.config.RetryBackoff):
		}
	}

	run := &PipelineRun{ID: runID, PipelineName: w.config.Name}
	processed, rows, err := w.processFilesParallel(ctx, run, jobs)
	log.Info().
		Int64("run_id", runID).
		Int("processed_files", processed).
		Int("total_rows", rows).
		Msg("retry pass finished")
	return err
}
