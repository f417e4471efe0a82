// backend-go/internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog product
type Product struct {
	ID          string          `json:"id" db:"id"`
	SKU         string          `json:"sku" db:"sku"`
	Name        string          `json:"name" db:"name"`
	Category    string          `json:"category" db:"category"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
	WarehouseID string          `json:"warehouse_id" db:"warehouse_id"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// SalesRecord represents one day of sales for a product
type SalesRecord struct {
	ID        int64           `json:"id" db:"id"`
	ProductID string          `json:"product_id" db:"product_id"`
	SaleDate  time.Time       `json:"sale_date" db:"sale_date"`
	Quantity  float64         `json:"quantity" db:"quantity"`
	Revenue   decimal.Decimal `json:"revenue" db:"revenue"`
}

// StockSnapshot represents the most recent known stock level of a product
type StockSnapshot struct {
	ID           int64     `json:"id" db:"id"`
	ProductID    string    `json:"product_id" db:"product_id"`
	WarehouseID  string    `json:"warehouse_id" db:"warehouse_id"`
	CurrentStock float64   `json:"current_stock" db:"current_stock"`
	LeadTimeDays int       `json:"lead_time_days" db:"lead_time_days"`
	SnapshotAt   time.Time `json:"snapshot_at" db:"snapshot_at"`
}

// Warehouse represents a fulfillment location
type Warehouse struct {
	ID                  string    `json:"id" db:"id"`
	Name                string    `json:"name" db:"name"`
	Lat                 float64   `json:"lat" db:"lat"`
	Lng                 float64   `json:"lng" db:"lng"`
	ShippingCostPerKm   float64   `json:"shipping_cost_per_km" db:"shipping_cost_per_km"`
	ProcessingTimeHours float64   `json:"processing_time_hours" db:"processing_time_hours"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
}

// PickLocation represents a product's slot assignment in a warehouse
type PickLocation struct {
	ProductID     string  `json:"product_id" db:"product_id"`
	WarehouseID   string  `json:"warehouse_id" db:"warehouse_id"`
	Zone          string  `json:"zone" db:"zone"`
	PickFrequency float64 `json:"pick_frequency" db:"pick_frequency"`
}

// RevenueTotal is a product's summed revenue over a query window
type RevenueTotal struct {
	ProductID   string          `json:"product_id" db:"product_id"`
	ProductName string          `json:"product_name" db:"product_name"`
	Revenue     decimal.Decimal `json:"revenue" db:"revenue"`
}

// SalesFilter narrows sales-history queries
type SalesFilter struct {
	ProductIDs  []string  `json:"product_ids"`
	WarehouseID string    `json:"warehouse_id"`
	Category    string    `json:"category"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	Page        int       `json:"page"`
	PageSize    int       `json:"page_size"`
}

// IngestResult summarizes one snapshot file ingestion
type IngestResult struct {
	Filename    string    `json:"filename"`
	RowsRead    int       `json:"rows_read"`
	RowsStored  int       `json:"rows_stored"`
	RowsSkipped int       `json:"rows_skipped"`
	ProcessedAt time.Time `json:"processed_at"`
}
