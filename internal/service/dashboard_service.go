package service

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/stocklens/backend-go/internal/cache"
	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/internal/engine"
	"github.com/stocklens/backend-go/internal/repository"
)

type DashboardService struct {
	analytics  *AnalyticsService
	sales      repository.SalesRepository
	dashboards cache.LowStockDashboardCache
}

func NewDashboardService(
	analytics *AnalyticsService,
	sales repository.SalesRepository,
	dashboards cache.LowStockDashboardCache,
) *DashboardService {
	if dashboards == nil {
		dashboards = cache.NewNoopLowStockDashboardCache()
	}
	return &DashboardService{
		analytics:  analytics,
		sales:      sales,
		dashboards: dashboards,
	}
}

// LowStockDashboard builds the replenishment overview: status summary cards,
// the low-stock table and the ranked reorder worklist.
func (s *DashboardService) LowStockDashboard(ctx context.Context, filter domain.SalesFilter) (*domain.LowStockDashboard, error) {
	if dashboard, ok, err := s.dashboards.Get(ctx, filter); err == nil && ok {
		return dashboard, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("dashboard: cache get failed")
	}

	results, err := s.analytics.BulkReorderPoints(ctx, filter, 0)
	if err != nil {
		return nil, err
	}

	products, _, err := s.sales.ListProducts(ctx, filter)
	if err != nil {
		return nil, err
	}

	skus := make(map[string]domain.Product, len(products))
	for _, product := range products {
		skus[product.ID] = product
	}

	dashboard := &domain.LowStockDashboard{
		Summary:     summarizeByStatus(results, skus),
		Rows:        lowStockRows(results, skus),
		Suggestions: rankSuggestions(results, skus),
	}

	if err := s.dashboards.Set(ctx, filter, dashboard); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache set failed")
	}

	return dashboard, nil
}

// ReorderSuggestions returns the ranked reorder worklist on its own.
func (s *DashboardService) ReorderSuggestions(ctx context.Context, filter domain.SalesFilter) ([]domain.ReorderSuggestion, error) {
	results, err := s.analytics.BulkReorderPoints(ctx, filter, 0)
	if err != nil {
		return nil, err
	}

	products, _, err := s.sales.ListProducts(ctx, filter)
	if err != nil {
		return nil, err
	}

	skus := make(map[string]domain.Product, len(products))
	for _, product := range products {
		skus[product.ID] = product
	}

	return rankSuggestions(results, skus), nil
}

// InvalidateAll drops cached dashboards after data changes.
func (s *DashboardService) InvalidateAll(ctx context.Context) {
	if err := s.dashboards.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache invalidation failed")
	}
}

func summarizeByStatus(results []engine.ReorderPointResult, skus map[string]domain.Product) []domain.StockStatusSummary {
	type agg struct {
		count int
		value decimal.Decimal
	}

	byStatus := make(map[string]*agg)
	for _, res := range results {
		entry, ok := byStatus[string(res.Status)]
		if !ok {
			entry = &agg{}
			byStatus[string(res.Status)] = entry
		}
		entry.count++
		if product, ok := skus[res.ProductID]; ok {
			stockValue := product.UnitPrice.Mul(decimal.NewFromFloat(res.CurrentStock))
			entry.value = entry.value.Add(stockValue)
		}
	}

	summaries := make([]domain.StockStatusSummary, 0, len(byStatus))
	for status, entry := range byStatus {
		summaries = append(summaries, domain.StockStatusSummary{
			Status:     status,
			Count:      entry.count,
			TotalValue: entry.value,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Status < summaries[j].Status })

	return summaries
}

func lowStockRows(results []engine.ReorderPointResult, skus map[string]domain.Product) []domain.LowStockRow {
	rows := make([]domain.LowStockRow, 0)
	for _, res := range results {
		if res.Status != engine.StatusCritical && res.Status != engine.StatusReorderNow {
			continue
		}
		row := domain.LowStockRow{
			ProductID:    res.ProductID,
			ProductName:  res.ProductName,
			CurrentStock: res.CurrentStock,
			SafetyStock:  res.SafetyStock,
			Status:       string(res.Status),
		}
		if product, ok := skus[res.ProductID]; ok {
			row.SKU = product.SKU
			row.Category = product.Category
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		ri, rj := domain.PriorityRank(domain.PriorityForStatus(rows[i].Status)), domain.PriorityRank(domain.PriorityForStatus(rows[j].Status))
		if ri != rj {
			return ri < rj
		}
		return rows[i].CurrentStock < rows[j].CurrentStock
	})

	return rows
}

// rankSuggestions orders replenishment candidates most urgent first: critical
// products before reorder_now, then by how few days of stock remain.
func rankSuggestions(results []engine.ReorderPointResult, skus map[string]domain.Product) []domain.ReorderSuggestion {
	suggestions := make([]domain.ReorderSuggestion, 0)
	for _, res := range results {
		if res.Status != engine.StatusCritical && res.Status != engine.StatusReorderNow {
			continue
		}
		suggestion := domain.ReorderSuggestion{
			ProductID:       res.ProductID,
			ProductName:     res.ProductName,
			CurrentStock:    res.CurrentStock,
			ReorderPoint:    res.ReorderPoint,
			ReorderQuantity: res.ReorderQuantity,
			DaysOfStock:     res.DaysOfStock,
			Priority:        domain.PriorityForStatus(string(res.Status)),
		}
		if product, ok := skus[res.ProductID]; ok {
			suggestion.SKU = product.SKU
		}
		if res.AvgDailySales > 0 {
			days := int(res.DaysOfStock)
			suggestion.DaysUntilStockout = &days
		}
		suggestions = append(suggestions, suggestion)
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		ri, rj := domain.PriorityRank(suggestions[i].Priority), domain.PriorityRank(suggestions[j].Priority)
		if ri != rj {
			return ri < rj
		}
		return suggestions[i].DaysOfStock < suggestions[j].DaysOfStock
	})

	return suggestions
}
