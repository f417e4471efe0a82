// backend-go/internal/repository/sales_repository.go
package repository

import (
	"context"
	"time"

	"github.com/stocklens/backend-go/internal/domain"
)

// SalesRepository serves product catalog and sales history reads.
type SalesRepository interface {
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, filter domain.SalesFilter) ([]domain.Product, int, error)
	GetDailySales(ctx context.Context, productID string, from, to time.Time) ([]domain.SalesRecord, error)
	GetBulkDailySales(ctx context.Context, filter domain.SalesFilter) (map[string][]domain.SalesRecord, error)
	GetRevenueTotals(ctx context.Context, filter domain.SalesFilter) ([]domain.RevenueTotal, error)
}

// SnapshotRepository persists stock levels and raw sales rows coming in
// from snapshot files.
type SnapshotRepository interface {
	GetStockSnapshot(ctx context.Context, productID string) (*domain.StockSnapshot, error)
	ListStockSnapshots(ctx context.Context, warehouseID string) ([]domain.StockSnapshot, error)
	UpsertStockSnapshots(ctx context.Context, rows []domain.StockSnapshot) (int, error)
	InsertSalesRecords(ctx context.Context, rows []domain.SalesRecord) (int, error)
}

// WarehouseRepository serves fulfillment locations and slotting data.
type WarehouseRepository interface {
	ListWarehouses(ctx context.Context) ([]domain.Warehouse, error)
	GetPickLocations(ctx context.Context, warehouseID string) ([]domain.PickLocation, error)
	UpsertPickLocations(ctx context.Context, rows []domain.PickLocation) error
}
