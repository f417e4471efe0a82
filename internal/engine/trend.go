package engine

import "time"

const (
	// trendThresholdPercent is the implied change over the series beyond
	// which demand is classified as growing or declining.
	trendThresholdPercent = 5.0

	monthsPerYear = 12
)

// DetectTrend fits an ordinary-least-squares line over the index positions of
// the series and classifies the implied percentage change over its length.
// Change above +5% is growing, below -5% declining, otherwise stable. Empty
// and single-value series are stable with slope 0; a zero-average series is
// forced stable to guard the percent computation.
func DetectTrend(series []float64) TrendResult {
	n := len(series)
	if n == 0 {
		return TrendResult{Direction: TrendStable}
	}
	if n == 1 {
		return TrendResult{Intercept: series[0], Direction: TrendStable}
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range series {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	slope := (fn*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / fn

	avg := sumY / fn
	if avg == 0 {
		return TrendResult{Slope: slope, Intercept: intercept, Direction: TrendStable}
	}

	changePercent := slope * (fn - 1) / avg * 100

	direction := TrendStable
	switch {
	case changePercent > trendThresholdPercent:
		direction = TrendGrowing
	case changePercent < -trendThresholdPercent:
		direction = TrendDeclining
	}

	return TrendResult{
		Slope:         slope,
		Intercept:     intercept,
		Direction:     direction,
		ChangePercent: changePercent,
	}
}

// CalculateSeasonality derives 12 monthly indices from a chronological series
// of monthly totals. monthlyTotals[0] is the total for startMonth and entries
// continue through consecutive calendar months. Each index is that month's
// average divided by the grand average, so 1.0 means an average month. Fewer
// than 12 data points or a zero grand average yields all-1.0 indices.
func CalculateSeasonality(monthlyTotals []float64, startMonth time.Month) []float64 {
	indices := make([]float64, monthsPerYear)
	for i := range indices {
		indices[i] = 1.0
	}
	if len(monthlyTotals) < monthsPerYear {
		return indices
	}

	grand := Mean(monthlyTotals)
	if grand == 0 {
		return indices
	}

	sums := make([]float64, monthsPerYear)
	counts := make([]int, monthsPerYear)
	for i, total := range monthlyTotals {
		// time.Month is 1-based
		m := (int(startMonth) - 1 + i) % monthsPerYear
		sums[m] += total
		counts[m]++
	}

	for m := range indices {
		if counts[m] == 0 {
			continue
		}
		indices[m] = sums[m] / float64(counts[m]) / grand
	}
	return indices
}
