package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stocklens/backend-go/internal/config"
	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSalesRepo struct {
	products map[string]domain.Product
	sales    map[string][]domain.SalesRecord
	totals   []domain.RevenueTotal
}

func (f *fakeSalesRepo) GetProduct(_ context.Context, productID string) (*domain.Product, error) {
	if p, ok := f.products[productID]; ok {
		return &p, nil
	}
	return nil, nil
}

func (f *fakeSalesRepo) ListProducts(_ context.Context, _ domain.SalesFilter) ([]domain.Product, int, error) {
	ids := make([]string, 0, len(f.products))
	for id := range f.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	products := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		products = append(products, f.products[id])
	}
	return products, len(products), nil
}

func (f *fakeSalesRepo) GetDailySales(_ context.Context, productID string, _, _ time.Time) ([]domain.SalesRecord, error) {
	return f.sales[productID], nil
}

func (f *fakeSalesRepo) GetBulkDailySales(_ context.Context, _ domain.SalesFilter) (map[string][]domain.SalesRecord, error) {
	return f.sales, nil
}

func (f *fakeSalesRepo) GetRevenueTotals(_ context.Context, _ domain.SalesFilter) ([]domain.RevenueTotal, error) {
	return f.totals, nil
}

type fakeSnapshotRepo struct {
	snapshots map[string]domain.StockSnapshot
}

func (f *fakeSnapshotRepo) GetStockSnapshot(_ context.Context, productID string) (*domain.StockSnapshot, error) {
	if s, ok := f.snapshots[productID]; ok {
		return &s, nil
	}
	return nil, nil
}

func (f *fakeSnapshotRepo) ListStockSnapshots(_ context.Context, _ string) ([]domain.StockSnapshot, error) {
	snaps := make([]domain.StockSnapshot, 0, len(f.snapshots))
	for _, s := range f.snapshots {
		snaps = append(snaps, s)
	}
	return snaps, nil
}

func (f *fakeSnapshotRepo) UpsertStockSnapshots(_ context.Context, rows []domain.StockSnapshot) (int, error) {
	return len(rows), nil
}

func (f *fakeSnapshotRepo) InsertSalesRecords(_ context.Context, rows []domain.SalesRecord) (int, error) {
	return len(rows), nil
}

// constantSales builds 30 days selling qty units per day.
func constantSales(productID string, qty float64) []domain.SalesRecord {
	records := make([]domain.SalesRecord, 30)
	day := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	for i := range records {
		records[i] = domain.SalesRecord{
			ProductID: productID,
			SaleDate:  day.AddDate(0, 0, i),
			Quantity:  qty,
			Revenue:   decimal.NewFromFloat(qty * 10),
		}
	}
	return records
}

func engineDefaults() config.EngineConfig {
	return config.EngineConfig{
		ForecastDaysAhead:   30,
		DefaultLeadTimeDays: 7,
		ServiceLevel:        0.95,
		SmoothingAlpha:      0.3,
		AnomalySensitivity:  2.0,
	}
}

// Three products selling a steady 10/day with lead time 7: reorder point is 70,
// so stock 0 is critical, 50 calls for a reorder and 200 is healthy.
func dashboardFixture() (*fakeSalesRepo, *fakeSnapshotRepo) {
	sales := &fakeSalesRepo{
		products: map[string]domain.Product{
			"P-CRIT": {ID: "P-CRIT", Name: "Critical Widget", SKU: "SKU-1", Category: "widgets", UnitPrice: decimal.NewFromInt(5)},
			"P-LOW":  {ID: "P-LOW", Name: "Low Widget", SKU: "SKU-2", Category: "widgets", UnitPrice: decimal.NewFromInt(8)},
			"P-OK":   {ID: "P-OK", Name: "Healthy Widget", SKU: "SKU-3", Category: "widgets", UnitPrice: decimal.NewFromInt(3)},
		},
		sales: map[string][]domain.SalesRecord{
			"P-CRIT": constantSales("P-CRIT", 10),
			"P-LOW":  constantSales("P-LOW", 10),
			"P-OK":   constantSales("P-OK", 10),
		},
	}
	snapshots := &fakeSnapshotRepo{
		snapshots: map[string]domain.StockSnapshot{
			"P-CRIT": {ProductID: "P-CRIT", CurrentStock: 0, LeadTimeDays: 7},
			"P-LOW":  {ProductID: "P-LOW", CurrentStock: 50, LeadTimeDays: 7},
			"P-OK":   {ProductID: "P-OK", CurrentStock: 200, LeadTimeDays: 7},
		},
	}
	return sales, snapshots
}

func TestLowStockDashboardRowsAndRanking(t *testing.T) {
	sales, snapshots := dashboardFixture()
	analytics := NewAnalyticsService(sales, snapshots, nil, engineDefaults())
	svc := NewDashboardService(analytics, sales, nil)

	dashboard, err := svc.LowStockDashboard(context.Background(), domain.SalesFilter{})
	require.NoError(t, err)

	require.Len(t, dashboard.Rows, 2)
	assert.Equal(t, "P-CRIT", dashboard.Rows[0].ProductID)
	assert.Equal(t, string(engine.StatusCritical), dashboard.Rows[0].Status)
	assert.Equal(t, "P-LOW", dashboard.Rows[1].ProductID)
	assert.Equal(t, "SKU-2", dashboard.Rows[1].SKU)

	require.Len(t, dashboard.Suggestions, 2)
	assert.Equal(t, domain.PriorityUrgent, dashboard.Suggestions[0].Priority)
	assert.Equal(t, domain.PriorityHigh, dashboard.Suggestions[1].Priority)

	require.NotNil(t, dashboard.Suggestions[1].DaysUntilStockout)
	assert.Equal(t, 5, *dashboard.Suggestions[1].DaysUntilStockout)
}

func TestLowStockDashboardSummary(t *testing.T) {
	sales, snapshots := dashboardFixture()
	analytics := NewAnalyticsService(sales, snapshots, nil, engineDefaults())
	svc := NewDashboardService(analytics, sales, nil)

	dashboard, err := svc.LowStockDashboard(context.Background(), domain.SalesFilter{})
	require.NoError(t, err)

	byStatus := make(map[string]domain.StockStatusSummary)
	for _, s := range dashboard.Summary {
		byStatus[s.Status] = s
	}

	require.Contains(t, byStatus, string(engine.StatusCritical))
	require.Contains(t, byStatus, string(engine.StatusReorderNow))
	require.Contains(t, byStatus, string(engine.StatusOK))

	assert.Equal(t, 1, byStatus[string(engine.StatusReorderNow)].Count)
	// 50 units at 8 each
	assert.True(t, byStatus[string(engine.StatusReorderNow)].TotalValue.Equal(decimal.NewFromInt(400)))
	// 200 units at 3 each
	assert.True(t, byStatus[string(engine.StatusOK)].TotalValue.Equal(decimal.NewFromInt(600)))
}

func TestReorderSuggestionsExcludeHealthyProducts(t *testing.T) {
	sales, snapshots := dashboardFixture()
	analytics := NewAnalyticsService(sales, snapshots, nil, engineDefaults())
	svc := NewDashboardService(analytics, sales, nil)

	suggestions, err := svc.ReorderSuggestions(context.Background(), domain.SalesFilter{})
	require.NoError(t, err)

	require.Len(t, suggestions, 2)
	for _, s := range suggestions {
		assert.NotEqual(t, "P-OK", s.ProductID)
	}
}
