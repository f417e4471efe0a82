package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func steadyHistory(days int, qty float64) ProductSalesHistory {
	start := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	sales := make([]DailySale, days)
	for i := range sales {
		sales[i] = DailySale{Date: start.AddDate(0, 0, i), Quantity: qty}
	}
	return ProductSalesHistory{ProductID: "P1", ProductName: "Widget", DailySales: sales}
}

func TestForecastDemandSteadySales(t *testing.T) {
	history := steadyHistory(30, 10)

	result := ForecastDemand(history, 50, ForecastOptions{})

	assert.Equal(t, "P1", result.ProductID)
	assert.InDelta(t, 10.0, result.AvgDailySales, 1e-9)
	assert.Equal(t, TrendStable, result.Trend)
	require.Len(t, result.Forecast, DefaultForecastDays)

	for _, p := range result.Forecast {
		assert.InDelta(t, 10.0, p.Predicted, 1e-6)
		assert.InDelta(t, p.Predicted, p.Lower, 1e-6, "flat series has no band")
		assert.InDelta(t, p.Predicted, p.Upper, 1e-6)
	}

	// 50 units at 10/day run out on day 5; lead time 7 means order today.
	require.NotNil(t, result.DaysUntilStockout)
	assert.Equal(t, 5, *result.DaysUntilStockout)

	require.NotNil(t, result.RecommendedReorderDate)
	today := time.Now()
	assert.Equal(t, today.Year(), result.RecommendedReorderDate.Year())
	assert.Equal(t, today.YearDay(), result.RecommendedReorderDate.YearDay())
}

func TestForecastDemandReorderDateBeyondLeadTime(t *testing.T) {
	history := steadyHistory(30, 10)

	// 200 units last 20 days; with 7 days lead time the order should go out
	// 13 days from now.
	result := ForecastDemand(history, 200, ForecastOptions{})
	require.NotNil(t, result.DaysUntilStockout)
	assert.Equal(t, 20, *result.DaysUntilStockout)

	require.NotNil(t, result.RecommendedReorderDate)
	want := truncateToDay(time.Now()).AddDate(0, 0, 13)
	assert.Equal(t, want, *result.RecommendedReorderDate)
}

func TestForecastDemandStockOutlastsHorizon(t *testing.T) {
	history := steadyHistory(30, 1)

	result := ForecastDemand(history, 1000, ForecastOptions{})
	assert.Nil(t, result.DaysUntilStockout)
	assert.Nil(t, result.RecommendedReorderDate)
}

func TestForecastDemandEmptyHistory(t *testing.T) {
	history := ProductSalesHistory{ProductID: "P2", ProductName: "Gadget"}

	result := ForecastDemand(history, 100, ForecastOptions{})
	assert.Zero(t, result.AvgDailySales)
	assert.Nil(t, result.DaysUntilStockout)
	assert.Nil(t, result.RecommendedReorderDate)
	assert.Empty(t, result.Forecast)
	require.Len(t, result.SeasonalityIndex, 12)
	for _, idx := range result.SeasonalityIndex {
		assert.Equal(t, 1.0, idx)
	}
}

func TestForecastDemandBoundsNeverNegative(t *testing.T) {
	start := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	sales := make([]DailySale, 14)
	for i := range sales {
		qty := 2.0
		if i%3 == 0 {
			qty = 9.0
		}
		sales[i] = DailySale{Date: start.AddDate(0, 0, i), Quantity: qty}
	}
	history := ProductSalesHistory{ProductID: "P3", DailySales: sales}

	result := ForecastDemand(history, 40, ForecastOptions{DaysAhead: 10})
	require.Len(t, result.Forecast, 10)
	for _, p := range result.Forecast {
		assert.GreaterOrEqual(t, p.Predicted, 0.0)
		assert.GreaterOrEqual(t, p.Lower, 0.0)
		assert.GreaterOrEqual(t, p.Upper, p.Lower)
	}
}

func TestForecastDemandHorizonStartsAfterLastDate(t *testing.T) {
	history := steadyHistory(10, 5)
	last := history.DailySales[len(history.DailySales)-1].Date

	result := ForecastDemand(history, 100, ForecastOptions{DaysAhead: 3})
	require.Len(t, result.Forecast, 3)
	assert.Equal(t, last.AddDate(0, 0, 1), result.Forecast[0].Date)
	assert.Equal(t, last.AddDate(0, 0, 3), result.Forecast[2].Date)
}
