package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectTrend(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
		want   TrendDirection
	}{
		{"empty", nil, TrendStable},
		{"single value", []float64{12}, TrendStable},
		{"flat", []float64{10, 10, 10, 10, 10}, TrendStable},
		{"growing", []float64{10, 12, 14, 16, 18, 20}, TrendGrowing},
		{"declining", []float64{20, 18, 16, 14, 12, 10}, TrendDeclining},
		{"zero average", []float64{0, 0, 0, 0}, TrendStable},
		{"noise within threshold", []float64{100, 101, 100, 99, 100, 101}, TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectTrend(tt.series)
			assert.Equal(t, tt.want, got.Direction)
		})
	}
}

func TestDetectTrendFit(t *testing.T) {
	got := DetectTrend([]float64{1, 3, 5, 7})
	assert.InDelta(t, 2.0, got.Slope, 1e-9)
	assert.InDelta(t, 1.0, got.Intercept, 1e-9)
	assert.Equal(t, TrendGrowing, got.Direction)

	single := DetectTrend([]float64{9})
	assert.Equal(t, 0.0, single.Slope)
	assert.Equal(t, 9.0, single.Intercept)
}

func TestCalculateSeasonalityFallbacks(t *testing.T) {
	ones := make([]float64, 12)
	for i := range ones {
		ones[i] = 1.0
	}

	assert.Equal(t, ones, CalculateSeasonality(nil, time.January))
	assert.Equal(t, ones, CalculateSeasonality([]float64{10, 20, 30}, time.January))

	zeros := make([]float64, 12)
	assert.Equal(t, ones, CalculateSeasonality(zeros, time.January))
}

func TestCalculateSeasonality(t *testing.T) {
	// One year of monthly totals starting in January; June sells double the
	// average month.
	totals := []float64{10, 10, 10, 10, 10, 32, 10, 10, 10, 10, 10, 12}
	idx := CalculateSeasonality(totals, time.January)
	require.Len(t, idx, 12)

	grand := Mean(totals)
	assert.InDelta(t, 32/grand, idx[int(time.June)-1], 1e-9)
	assert.InDelta(t, 10/grand, idx[int(time.January)-1], 1e-9)
}

func TestCalculateSeasonalityStartOffset(t *testing.T) {
	// Series starting in March: entry 0 must land in the March bucket.
	totals := make([]float64, 12)
	for i := range totals {
		totals[i] = 10
	}
	totals[0] = 40

	idx := CalculateSeasonality(totals, time.March)
	assert.Greater(t, idx[int(time.March)-1], 1.0)
	assert.InDelta(t, 1.0, Mean(idx), 0.35)
}
