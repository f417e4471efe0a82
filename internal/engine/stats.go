package engine

import (
	"fmt"
	"math"
)

// DefaultSmoothingAlpha is the smoothing factor used when the caller passes a
// value outside (0, 1].
const DefaultSmoothingAlpha = 0.3

// MovingAverage returns the arithmetic mean of each contiguous window of the
// series. The result has length len(series)-window+1, or is empty when the
// window is larger than the series. A non-positive window is an input
// contract violation.
func MovingAverage(series []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, fmt.Errorf("moving average window must be positive, got %d", window)
	}
	if window > len(series) {
		return nil, nil
	}

	out := make([]float64, 0, len(series)-window+1)
	sum := 0.0
	for i, v := range series {
		sum += v
		if i >= window {
			sum -= series[i-window]
		}
		if i >= window-1 {
			out = append(out, sum/float64(window))
		}
	}
	return out, nil
}

// ExponentialSmoothing applies single exponential smoothing to the series.
// The first output equals the first input; each subsequent output is
// alpha*actual + (1-alpha)*previous. An alpha outside (0, 1] falls back to
// DefaultSmoothingAlpha.
func ExponentialSmoothing(series []float64, alpha float64) []float64 {
	if len(series) == 0 {
		return nil
	}
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultSmoothingAlpha
	}

	out := make([]float64, len(series))
	out[0] = series[0]
	for i := 1; i < len(series); i++ {
		out[i] = alpha*series[i] + (1-alpha)*out[i-1]
	}
	return out
}

// Mean returns the arithmetic mean, or 0 for an empty series.
func Mean(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range series {
		sum += v
	}
	return sum / float64(len(series))
}

// StdDev returns the population standard deviation (divide by N). Series with
// fewer than two values have no spread and yield 0.
func StdDev(series []float64) float64 {
	if len(series) <= 1 {
		return 0
	}
	mean := Mean(series)
	var sumSq float64
	for _, v := range series {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(series)))
}

// CoefficientOfVariation returns stdDev/mean, the scale-free demand stability
// measure. A zero mean yields 0 rather than a division fault.
func CoefficientOfVariation(series []float64) float64 {
	mean := Mean(series)
	if mean == 0 {
		return 0
	}
	return StdDev(series) / mean
}
