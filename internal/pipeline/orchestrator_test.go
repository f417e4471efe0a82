package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotDateFromFilename(t *testing.T) {
	d := SnapshotDateFromFilename("snapshot_2026-08-15.csv")
	assert.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), d)

	d = SnapshotDateFromFilename("stock_20260815_warehouse_a.csv")
	assert.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), d)
}

func TestSnapshotDateFromFilenameFallsBackToToday(t *testing.T) {
	d := SnapshotDateFromFilename("inventory.csv")
	assert.WithinDuration(t, time.Now(), d, 24*time.Hour)
}
