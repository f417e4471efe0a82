package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForecastProductUnknownID(t *testing.T) {
	sales, snapshots := dashboardFixture()
	svc := NewAnalyticsService(sales, snapshots, nil, engineDefaults())

	_, err := svc.ForecastProduct(context.Background(), "P-MISSING", 30)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProductNotFound))
}

func TestForecastProductUsesSnapshotStock(t *testing.T) {
	sales, snapshots := dashboardFixture()
	svc := NewAnalyticsService(sales, snapshots, nil, engineDefaults())

	result, err := svc.ForecastProduct(context.Background(), "P-OK", 30)
	require.NoError(t, err)

	assert.Equal(t, 200.0, result.CurrentStock)
	assert.Greater(t, result.AvgDailySales, 0.0)
}

func TestReorderPointStatusFromSnapshot(t *testing.T) {
	sales, snapshots := dashboardFixture()
	svc := NewAnalyticsService(sales, snapshots, nil, engineDefaults())

	result, err := svc.ReorderPoint(context.Background(), "P-LOW", 0)
	require.NoError(t, err)

	// 50 in stock against a steady 10/day with 7 days lead time
	assert.Equal(t, engine.StatusReorderNow, result.Status)
	assert.InDelta(t, 70.0, result.ReorderPoint, 0.001)
}

func TestBulkForecastCoversEveryProduct(t *testing.T) {
	sales, snapshots := dashboardFixture()
	svc := NewAnalyticsService(sales, snapshots, nil, engineDefaults())

	results, err := svc.BulkForecast(context.Background(), domain.SalesFilter{}, 14)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for _, r := range results {
		assert.NotEmpty(t, r.ProductID)
	}
}

func TestABCXYZRanksByRevenueShare(t *testing.T) {
	sales, snapshots := dashboardFixture()
	// Cumulative shares 0.70, 0.90, 1.00 against the 80/95 cuts.
	sales.totals = []domain.RevenueTotal{
		{ProductID: "P-CRIT", ProductName: "Critical Widget", Revenue: decimal.NewFromInt(70000)},
		{ProductID: "P-LOW", ProductName: "Low Widget", Revenue: decimal.NewFromInt(20000)},
		{ProductID: "P-OK", ProductName: "Healthy Widget", Revenue: decimal.NewFromInt(10000)},
	}
	svc := NewAnalyticsService(sales, snapshots, nil, engineDefaults())

	results, err := svc.ABCXYZ(context.Background(), domain.SalesFilter{})
	require.NoError(t, err)
	require.Len(t, results, 3)

	byID := make(map[string]engine.ABCXYZResult)
	for _, r := range results {
		byID[r.ProductID] = r
	}
	assert.Equal(t, engine.ClassA, byID["P-CRIT"].ABCClass)
	assert.Equal(t, engine.ClassB, byID["P-LOW"].ABCClass)
	assert.Equal(t, engine.ClassC, byID["P-OK"].ABCClass)
	// steady demand in the fixture means every product is X
	assert.Equal(t, engine.ClassX, byID["P-CRIT"].XYZClass)
}

func TestAnomaliesQuietOnSteadySales(t *testing.T) {
	sales, snapshots := dashboardFixture()
	svc := NewAnalyticsService(sales, snapshots, nil, engineDefaults())

	anomalies, err := svc.Anomalies(context.Background(), domain.SalesFilter{}, 0)
	require.NoError(t, err)
	assert.Empty(t, anomalies)
}
