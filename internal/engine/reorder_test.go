package engine

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func salesOf(quantities ...float64) []DailySale {
	start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	sales := make([]DailySale, len(quantities))
	for i, q := range quantities {
		sales[i] = DailySale{Date: start.AddDate(0, 0, i), Quantity: q}
	}
	return sales
}

func TestZScoreForServiceLevel(t *testing.T) {
	assert.Equal(t, 1.28, ZScoreForServiceLevel(0.90))
	assert.Equal(t, 1.65, ZScoreForServiceLevel(0.95))
	assert.Equal(t, 2.33, ZScoreForServiceLevel(0.99))
	assert.Equal(t, 1.65, ZScoreForServiceLevel(0.42), "unknown levels fall back to 0.95")
}

func TestCalculateReorderPointFormulas(t *testing.T) {
	history := salesOf(8, 10, 12, 10, 10)

	result := CalculateReorderPoint("P1", "Widget", 100, history, ReorderOptions{})

	avg := Mean([]float64{8, 10, 12, 10, 10})
	std := StdDev([]float64{8, 10, 12, 10, 10})
	wantSafety := 1.65 * std * math.Sqrt(7)

	assert.InDelta(t, avg, result.AvgDailySales, 1e-9)
	assert.InDelta(t, wantSafety, result.SafetyStock, 1e-9)
	assert.InDelta(t, avg*7+wantSafety, result.ReorderPoint, 1e-9)
	assert.InDelta(t, avg*30+wantSafety, result.ReorderQuantity, 1e-9)
	assert.InDelta(t, 100/avg, result.DaysOfStock, 1e-9)
	assert.Equal(t, 7, result.LeadTimeDays)
}

func TestCalculateReorderPointStatusLadder(t *testing.T) {
	history := salesOf(5, 15, 10, 5, 15, 10)

	tests := []struct {
		name         string
		currentStock float64
		want         StockStatus
	}{
		{"no stock", 0, StatusCritical},
		{"massive stock", 100000, StatusOverstock},
		{"comfortable stock", 400, StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateReorderPoint("P1", "Widget", tt.currentStock, history, ReorderOptions{})
			assert.Equal(t, tt.want, result.Status)
		})
	}
}

func TestCalculateReorderPointCriticalDominates(t *testing.T) {
	history := salesOf(5, 15, 10, 5, 15, 10)
	probe := CalculateReorderPoint("P1", "", 0, history, ReorderOptions{})
	require.Greater(t, probe.SafetyStock, 0.0)

	// Anything at or below safety stock is critical, regardless of the other
	// thresholds.
	result := CalculateReorderPoint("P1", "", probe.SafetyStock, history, ReorderOptions{})
	assert.Equal(t, StatusCritical, result.Status)
}

func TestCalculateReorderPointReorderNow(t *testing.T) {
	history := salesOf(5, 15, 10, 5, 15, 10)
	probe := CalculateReorderPoint("P1", "", 0, history, ReorderOptions{})

	stock := (probe.SafetyStock + probe.ReorderPoint) / 2
	result := CalculateReorderPoint("P1", "", stock, history, ReorderOptions{})
	assert.Equal(t, StatusReorderNow, result.Status)
}

func TestCalculateReorderPointNoSales(t *testing.T) {
	result := CalculateReorderPoint("P1", "Widget", 25, nil, ReorderOptions{})
	assert.Equal(t, float64(999), result.DaysOfStock)
	assert.Zero(t, result.SafetyStock)
	assert.Zero(t, result.ReorderPoint)
}

func TestCalculateBulkReorderPoints(t *testing.T) {
	products := []ReorderProduct{
		{ProductID: "A", CurrentStock: 10, SalesHistory: salesOf(1, 2, 3)},
		{ProductID: "B", CurrentStock: 10, SalesHistory: salesOf(1, 2, 3), LeadTimeDays: 21},
	}

	results := CalculateBulkReorderPoints(products, 14, 0.95)
	require.Len(t, results, 2)
	assert.Equal(t, 14, results[0].LeadTimeDays, "default lead time applies")
	assert.Equal(t, 21, results[1].LeadTimeDays, "per-product override wins")
}
