package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"time"
)

var snapshotDatePattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2}|\d{8})`)

// SnapshotDateFromFilename extracts the snapshot date embedded in a file name,
// accepting both 2006-01-02 and 20060102 forms. Files without a date fall back
// to today so they still land in a batch.
func SnapshotDateFromFilename(name string) time.Time {
	match := snapshotDatePattern.FindString(name)
	if match != "" {
		for _, layout := range []string{"2006-01-02", "20060102"} {
			if d, err := time.Parse(layout, match); err == nil {
				return d
			}
		}
	}
	return time.Now().Truncate(24 * time.Hour)
}

// Orchestrator groups snapshot files by date and runs a worker batch per date.
type Orchestrator struct {
	cfg    PipelineConfig
	worker *Worker
}

func NewOrchestrator(cfg PipelineConfig, repo Store, ingester Ingester) *Orchestrator {
	return &Orchestrator{
		cfg:    cfg,
		worker: NewWorker(cfg, repo, ingester),
	}
}

// Run ingests the provided files, one batch per snapshot date, oldest first
func (o *Orchestrator) Run(ctx context.Context, files []string) error {
	if len(files) == 0 {
		return nil
	}

	byDate := make(map[time.Time][]string)
	for _, f := range files {
		date := SnapshotDateFromFilename(filepath.Base(f))
		byDate[date] = append(byDate[date], f)
	}

	dates := make([]time.Time, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	for _, date := range dates {
		if err := o.worker.ProcessBatch(ctx, date, byDate[date]); err != nil {
			return fmt.Errorf("process batch for %s: %w", date.Format("2006-01-02"), err)
		}
	}
	return nil
}
