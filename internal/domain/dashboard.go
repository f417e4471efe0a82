package domain

import "github.com/shopspring/decimal"

// StockStatusSummary represents the summary card data for one stock status
type StockStatusSummary struct {
	Status     string          `json:"status" db:"status"`
	Count      int             `json:"count" db:"count"`
	TotalValue decimal.Decimal `json:"total_value" db:"total_value"`
}

// ReorderSuggestion is one row of the reorder worklist, ranked by urgency.
type ReorderSuggestion struct {
	ProductID         string  `json:"product_id"`
	SKU               string  `json:"sku"`
	ProductName       string  `json:"product_name"`
	CurrentStock      float64 `json:"current_stock"`
	ReorderPoint      float64 `json:"reorder_point"`
	ReorderQuantity   float64 `json:"reorder_quantity"`
	DaysOfStock       float64 `json:"days_of_stock"`
	Priority          string  `json:"priority"`
	DaysUntilStockout *int    `json:"days_until_stockout,omitempty"`
}

// LowStockRow is one row of the low-stock dashboard table
type LowStockRow struct {
	ProductID    string  `json:"product_id"`
	SKU          string  `json:"sku"`
	ProductName  string  `json:"product_name"`
	Category     string  `json:"category"`
	CurrentStock float64 `json:"current_stock"`
	SafetyStock  float64 `json:"safety_stock"`
	Status       string  `json:"status"`
}

// LowStockDashboard aggregates the low-stock view
type LowStockDashboard struct {
	Summary     []StockStatusSummary `json:"summary"`
	Rows        []LowStockRow        `json:"rows"`
	Suggestions []ReorderSuggestion  `json:"suggestions"`
}

// PagedResponse wraps a paginated result set
type PagedResponse[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}
