package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/stocklens/backend-go/internal/cache"
	"github.com/stocklens/backend-go/internal/config"
	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/internal/engine"
	"github.com/stocklens/backend-go/internal/repository"
	"golang.org/x/sync/errgroup"
)

// ErrProductNotFound signals an unknown product ID.
var ErrProductNotFound = errors.New("product not found")

const (
	// historyWindowDays bounds how far back sales are loaded for analysis.
	historyWindowDays = 365
	// bulkConcurrency caps parallel per-product computations in bulk calls.
	bulkConcurrency = 8
)

type AnalyticsService struct {
	sales     repository.SalesRepository
	snapshots repository.SnapshotRepository
	forecasts cache.ForecastCache
	cfg       config.EngineConfig
}

func NewAnalyticsService(
	sales repository.SalesRepository,
	snapshots repository.SnapshotRepository,
	forecasts cache.ForecastCache,
	cfg config.EngineConfig,
) *AnalyticsService {
	if forecasts == nil {
		forecasts = cache.NewNoopForecastCache()
	}
	return &AnalyticsService{
		sales:     sales,
		snapshots: snapshots,
		forecasts: forecasts,
		cfg:       cfg,
	}
}

// ForecastProduct forecasts demand for one product, serving from cache when a
// recent result exists.
func (s *AnalyticsService) ForecastProduct(ctx context.Context, productID string, daysAhead int) (*engine.ForecastResult, error) {
	if daysAhead <= 0 {
		daysAhead = s.cfg.ForecastDaysAhead
	}

	if result, ok, err := s.forecasts.Get(ctx, productID, daysAhead); err == nil && ok {
		return result, nil
	} else if err != nil {
		log.Warn().Err(err).Str("product_id", productID).Msg("forecast: cache get failed")
	}

	product, err := s.sales.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}

	history, err := s.loadHistory(ctx, product)
	if err != nil {
		return nil, err
	}

	stock, leadTime, err := s.stockAndLeadTime(ctx, productID)
	if err != nil {
		return nil, err
	}

	result := engine.ForecastDemand(history, stock, engine.ForecastOptions{
		DaysAhead:    daysAhead,
		LeadTimeDays: leadTime,
		Alpha:        s.cfg.SmoothingAlpha,
	})

	if err := s.forecasts.Set(ctx, productID, daysAhead, &result); err != nil {
		log.Warn().Err(err).Str("product_id", productID).Msg("forecast: cache set failed")
	}

	return &result, nil
}

// BulkForecast forecasts every product matched by the filter. Per-product
// computation fans out across a bounded worker group.
func (s *AnalyticsService) BulkForecast(ctx context.Context, filter domain.SalesFilter, daysAhead int) ([]engine.ForecastResult, error) {
	if daysAhead <= 0 {
		daysAhead = s.cfg.ForecastDaysAhead
	}

	products, histories, snapshots, err := s.loadBulkInputs(ctx, filter)
	if err != nil {
		return nil, err
	}

	results := make([]engine.ForecastResult, len(products))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(bulkConcurrency)
	for i, product := range products {
		i, product := i, product
		g.Go(func() error {
			stock, leadTime := 0.0, s.cfg.DefaultLeadTimeDays
			if snap, ok := snapshots[product.ID]; ok {
				stock = snap.CurrentStock
				if snap.LeadTimeDays > 0 {
					leadTime = snap.LeadTimeDays
				}
			}
			results[i] = engine.ForecastDemand(histories[product.ID], stock, engine.ForecastOptions{
				DaysAhead:    daysAhead,
				LeadTimeDays: leadTime,
				Alpha:        s.cfg.SmoothingAlpha,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// ReorderPoint computes safety stock and reorder point for one product.
func (s *AnalyticsService) ReorderPoint(ctx context.Context, productID string, serviceLevel float64) (*engine.ReorderPointResult, error) {
	product, err := s.sales.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}

	history, err := s.loadHistory(ctx, product)
	if err != nil {
		return nil, err
	}

	stock, leadTime, err := s.stockAndLeadTime(ctx, productID)
	if err != nil {
		return nil, err
	}

	if serviceLevel <= 0 {
		serviceLevel = s.cfg.ServiceLevel
	}

	result := engine.CalculateReorderPoint(product.ID, product.Name, stock, history.DailySales, engine.ReorderOptions{
		LeadTimeDays: leadTime,
		ServiceLevel: serviceLevel,
	})

	return &result, nil
}

// BulkReorderPoints computes reorder points for every product matched by the
// filter.
func (s *AnalyticsService) BulkReorderPoints(ctx context.Context, filter domain.SalesFilter, serviceLevel float64) ([]engine.ReorderPointResult, error) {
	products, histories, snapshots, err := s.loadBulkInputs(ctx, filter)
	if err != nil {
		return nil, err
	}

	if serviceLevel <= 0 {
		serviceLevel = s.cfg.ServiceLevel
	}

	inputs := make([]engine.ReorderProduct, 0, len(products))
	for _, product := range products {
		input := engine.ReorderProduct{
			ProductID:    product.ID,
			ProductName:  product.Name,
			SalesHistory: histories[product.ID].DailySales,
		}
		if snap, ok := snapshots[product.ID]; ok {
			input.CurrentStock = snap.CurrentStock
			input.LeadTimeDays = snap.LeadTimeDays
		}
		inputs = append(inputs, input)
	}

	return engine.CalculateBulkReorderPoints(inputs, s.cfg.DefaultLeadTimeDays, serviceLevel), nil
}

// ABCXYZ classifies the filtered products by revenue share and demand
// stability.
func (s *AnalyticsService) ABCXYZ(ctx context.Context, filter domain.SalesFilter) ([]engine.ABCXYZResult, error) {
	totals, err := s.sales.GetRevenueTotals(ctx, filter)
	if err != nil {
		return nil, err
	}

	records, err := s.sales.GetBulkDailySales(ctx, filter)
	if err != nil {
		return nil, err
	}

	inputs := make([]engine.RevenueProduct, 0, len(totals))
	for _, total := range totals {
		quantities := make([]float64, 0, len(records[total.ProductID]))
		for _, rec := range records[total.ProductID] {
			quantities = append(quantities, rec.Quantity)
		}
		inputs = append(inputs, engine.RevenueProduct{
			ProductID:    total.ProductID,
			ProductName:  total.ProductName,
			Revenue:      total.Revenue.InexactFloat64(),
			SalesHistory: quantities,
		})
	}

	return engine.PerformABCXYZAnalysis(inputs), nil
}

// Anomalies scans the filtered products' sales for spikes, drops and dead
// zero-sales streaks.
func (s *AnalyticsService) Anomalies(ctx context.Context, filter domain.SalesFilter, sensitivity float64) ([]engine.Anomaly, error) {
	products, histories, _, err := s.loadBulkInputs(ctx, filter)
	if err != nil {
		return nil, err
	}

	if sensitivity <= 0 {
		sensitivity = s.cfg.AnomalySensitivity
	}

	inputs := make([]engine.AnomalyProduct, 0, len(products))
	for _, product := range products {
		inputs = append(inputs, engine.AnomalyProduct{
			ProductID:    product.ID,
			ProductName:  product.Name,
			SalesHistory: histories[product.ID].DailySales,
		})
	}

	return engine.DetectBulkAnomalies(inputs, sensitivity), nil
}

// InvalidateForecasts drops all cached forecasts, typically after a snapshot
// ingestion changes the inputs.
func (s *AnalyticsService) InvalidateForecasts(ctx context.Context) {
	if err := s.forecasts.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("forecast: cache invalidation failed")
	}
}

func (s *AnalyticsService) loadHistory(ctx context.Context, product *domain.Product) (engine.ProductSalesHistory, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -historyWindowDays)

	records, err := s.sales.GetDailySales(ctx, product.ID, from, to)
	if err != nil {
		return engine.ProductSalesHistory{}, err
	}

	return historyFromRecords(product.ID, product.Name, records), nil
}

func (s *AnalyticsService) stockAndLeadTime(ctx context.Context, productID string) (float64, int, error) {
	snap, err := s.snapshots.GetStockSnapshot(ctx, productID)
	if err != nil {
		return 0, 0, err
	}

	stock := 0.0
	leadTime := s.cfg.DefaultLeadTimeDays
	if snap != nil {
		stock = snap.CurrentStock
		if snap.LeadTimeDays > 0 {
			leadTime = snap.LeadTimeDays
		}
	}

	return stock, leadTime, nil
}

func (s *AnalyticsService) loadBulkInputs(ctx context.Context, filter domain.SalesFilter) ([]domain.Product, map[string]engine.ProductSalesHistory, map[string]domain.StockSnapshot, error) {
	products, _, err := s.sales.ListProducts(ctx, filter)
	if err != nil {
		return nil, nil, nil, err
	}

	salesFilter := filter
	if salesFilter.From.IsZero() {
		salesFilter.From = time.Now().AddDate(0, 0, -historyWindowDays)
	}

	records, err := s.sales.GetBulkDailySales(ctx, salesFilter)
	if err != nil {
		return nil, nil, nil, err
	}

	snaps, err := s.snapshots.ListStockSnapshots(ctx, filter.WarehouseID)
	if err != nil {
		return nil, nil, nil, err
	}

	histories := make(map[string]engine.ProductSalesHistory, len(products))
	for _, product := range products {
		histories[product.ID] = historyFromRecords(product.ID, product.Name, records[product.ID])
	}

	snapshots := make(map[string]domain.StockSnapshot, len(snaps))
	for _, snap := range snaps {
		snapshots[snap.ProductID] = snap
	}

	return products, histories, snapshots, nil
}

func historyFromRecords(productID, productName string, records []domain.SalesRecord) engine.ProductSalesHistory {
	sales := make([]engine.DailySale, 0, len(records))
	for _, rec := range records {
		sales = append(sales, engine.DailySale{
			Date:     rec.SaleDate,
			Quantity: rec.Quantity,
			Revenue:  rec.Revenue.InexactFloat64(),
		})
	}

	return engine.ProductSalesHistory{
		ProductID:   productID,
		ProductName: productName,
		DailySales:  sales,
	}
}
