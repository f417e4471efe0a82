package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovingAverage(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
		window int
		want   []float64
	}{
		{"single window", []float64{2, 4, 6}, 3, []float64{4}},
		{"sliding windows", []float64{1, 2, 3, 4, 5}, 2, []float64{1.5, 2.5, 3.5, 4.5}},
		{"window equals one", []float64{3, 7}, 1, []float64{3, 7}},
		{"window larger than series", []float64{1, 2}, 5, nil},
		{"empty series", nil, 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MovingAverage(tt.series, tt.window)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMovingAverageLengthProperty(t *testing.T) {
	series := []float64{5, 1, 9, 2, 8, 3, 7}
	for window := 1; window <= len(series)+2; window++ {
		got, err := MovingAverage(series, window)
		require.NoError(t, err)

		want := len(series) - window + 1
		if want < 0 {
			want = 0
		}
		assert.Len(t, got, want, "window %d", window)
	}
}

func TestMovingAverageRejectsNonPositiveWindow(t *testing.T) {
	_, err := MovingAverage([]float64{1, 2, 3}, 0)
	assert.Error(t, err)

	_, err = MovingAverage([]float64{1, 2, 3}, -1)
	assert.Error(t, err)
}

func TestExponentialSmoothing(t *testing.T) {
	assert.Nil(t, ExponentialSmoothing(nil, 0.5))
	assert.Equal(t, []float64{42}, ExponentialSmoothing([]float64{42}, 0.5))

	series := []float64{10, 20, 30, 40}
	got := ExponentialSmoothing(series, 0.5)
	require.Len(t, got, len(series))
	assert.Equal(t, 10.0, got[0])
	assert.Equal(t, 15.0, got[1])
	assert.Equal(t, 22.5, got[2])
	assert.Equal(t, 31.25, got[3])
}

func TestExponentialSmoothingDefaultsAlpha(t *testing.T) {
	series := []float64{10, 20}
	got := ExponentialSmoothing(series, -1)
	require.Len(t, got, 2)
	// 0.3*20 + 0.7*10
	assert.InDelta(t, 13.0, got[1], 1e-9)
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]float64{7}))
	assert.Equal(t, 0.0, StdDev([]float64{4, 4, 4, 4}))

	// Population std dev of {2,4,4,4,5,5,7,9} is exactly 2.
	assert.InDelta(t, 2.0, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
}

func TestCoefficientOfVariation(t *testing.T) {
	assert.Equal(t, 0.0, CoefficientOfVariation(nil))
	assert.Equal(t, 0.0, CoefficientOfVariation([]float64{0, 0, 0}))

	series := []float64{8, 10, 12, 10}
	scaled := make([]float64, len(series))
	for i, v := range series {
		scaled[i] = v * 3.5
	}
	assert.InDelta(t, CoefficientOfVariation(series), CoefficientOfVariation(scaled), 1e-9,
		"CV must be scale invariant")
}

func TestGreatCircleDistance(t *testing.T) {
	assert.Equal(t, 0.0, GreatCircleDistance(50.45, 30.52, 50.45, 30.52))

	// Kyiv to Lviv is roughly 470 km.
	d := GreatCircleDistance(50.4501, 30.5234, 49.8397, 24.0297)
	assert.InDelta(t, 470, d, 10)

	// Symmetric in its endpoints.
	back := GreatCircleDistance(49.8397, 24.0297, 50.4501, 30.5234)
	assert.InDelta(t, d, back, 1e-9)
}
