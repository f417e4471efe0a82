package engine

import "time"

// DailySale is a single day of sales for one product. The Date is a calendar
// day and is unique within a product's history; Revenue is optional and may
// be zero when only quantities are tracked.
type DailySale struct {
	Date     time.Time `json:"date"`
	Quantity float64   `json:"quantity"`
	Revenue  float64   `json:"revenue,omitempty"`
}

// ProductSalesHistory is an immutable snapshot of one product's sales,
// ordered chronologically. Gaps between days are allowed.
type ProductSalesHistory struct {
	ProductID   string      `json:"product_id"`
	ProductName string      `json:"product_name"`
	DailySales  []DailySale `json:"daily_sales"`
}

// Quantities returns the quantity series in chronological order.
func (h ProductSalesHistory) Quantities() []float64 {
	out := make([]float64, len(h.DailySales))
	for i, s := range h.DailySales {
		out[i] = s.Quantity
	}
	return out
}

// TrendDirection classifies the slope of a sales series.
type TrendDirection string

const (
	TrendGrowing   TrendDirection = "growing"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
)

// TrendResult holds the fitted line and its classification.
type TrendResult struct {
	Slope         float64        `json:"slope"`
	Intercept     float64        `json:"intercept"`
	Direction     TrendDirection `json:"direction"`
	ChangePercent float64        `json:"change_percent"`
}

// ForecastPoint is one day of forecasted demand with a confidence band.
// Predicted and Lower are never negative and Upper >= Lower.
type ForecastPoint struct {
	Date      time.Time `json:"date"`
	Predicted float64   `json:"predicted"`
	Lower     float64   `json:"lower"`
	Upper     float64   `json:"upper"`
}

// ForecastResult is the full forecast for one product.
type ForecastResult struct {
	ProductID              string          `json:"product_id"`
	ProductName            string          `json:"product_name"`
	Forecast               []ForecastPoint `json:"forecast"`
	CurrentStock           float64         `json:"current_stock"`
	AvgDailySales          float64         `json:"avg_daily_sales"`
	Trend                  TrendDirection  `json:"trend"`
	TrendPercent           float64         `json:"trend_percent"`
	SeasonalityIndex       []float64       `json:"seasonality_index"`
	DaysUntilStockout      *int            `json:"days_until_stockout"`
	RecommendedReorderDate *time.Time      `json:"recommended_reorder_date"`
}

// StockStatus is the replenishment urgency for a product.
type StockStatus string

const (
	StatusOK         StockStatus = "ok"
	StatusReorderNow StockStatus = "reorder_now"
	StatusCritical   StockStatus = "critical"
	StatusOverstock  StockStatus = "overstock"
)

// ReorderPointResult holds safety stock, reorder point and the derived status
// for one product.
type ReorderPointResult struct {
	ProductID        string      `json:"product_id"`
	ProductName      string      `json:"product_name"`
	AvgDailySales    float64     `json:"avg_daily_sales"`
	StdDevDailySales float64     `json:"std_dev_daily_sales"`
	LeadTimeDays     int         `json:"lead_time_days"`
	SafetyStock      float64     `json:"safety_stock"`
	ReorderPoint     float64     `json:"reorder_point"`
	ReorderQuantity  float64     `json:"reorder_quantity"`
	CurrentStock     float64     `json:"current_stock"`
	DaysOfStock      float64     `json:"days_of_stock"`
	Status           StockStatus `json:"status"`
}

// ReorderProduct is the per-product input for bulk reorder analysis.
// LeadTimeDays of zero falls back to the bulk default.
type ReorderProduct struct {
	ProductID    string
	ProductName  string
	CurrentStock float64
	SalesHistory []DailySale
	LeadTimeDays int
}

// ABCClass is the Pareto revenue tier.
type ABCClass string

const (
	ClassA ABCClass = "A"
	ClassB ABCClass = "B"
	ClassC ABCClass = "C"
)

// XYZClass is the demand-stability tier derived from the coefficient of
// variation of a product's sales.
type XYZClass string

const (
	ClassX XYZClass = "X"
	ClassY XYZClass = "Y"
	ClassZ XYZClass = "Z"
)

// RevenueProduct is the per-product input for ABC/XYZ classification.
type RevenueProduct struct {
	ProductID    string
	ProductName  string
	Revenue      float64
	SalesHistory []float64
}

// ABCXYZResult is the joined classification for one product.
type ABCXYZResult struct {
	ProductID      string   `json:"product_id"`
	ProductName    string   `json:"product_name"`
	RevenueShare   float64  `json:"revenue_share"`
	ABCClass       ABCClass `json:"abc_class"`
	XYZClass       XYZClass `json:"xyz_class"`
	Recommendation string   `json:"recommendation"`
	Strategy       string   `json:"strategy"`
}

// AnomalyType distinguishes the kinds of demand anomalies.
type AnomalyType string

const (
	AnomalySpike     AnomalyType = "spike"
	AnomalyDrop      AnomalyType = "drop"
	AnomalyZeroSales AnomalyType = "zero_sales"
)

// AnomalySeverity grades how far an observation is from normal.
type AnomalySeverity string

const (
	SeverityMedium   AnomalySeverity = "medium"
	SeverityHigh     AnomalySeverity = "high"
	SeverityCritical AnomalySeverity = "critical"
)

// Anomaly is a single detected irregularity. It is a pure observation and is
// never mutated after creation.
type Anomaly struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Date         time.Time       `json:"date"`
	Type         AnomalyType     `json:"type"`
	Severity     AnomalySeverity `json:"severity"`
	ZScore       float64         `json:"z_score,omitempty"`
	StreakLength int             `json:"streak_length,omitempty"`
}

// AnomalyProduct is the per-product input for bulk anomaly detection.
type AnomalyProduct struct {
	ProductID    string
	ProductName  string
	SalesHistory []DailySale
}

// ZoneType is one of the four warehouse velocity zones.
type ZoneType string

const (
	ZoneHot    ZoneType = "hot"
	ZoneWarm   ZoneType = "warm"
	ZoneCold   ZoneType = "cold"
	ZoneFrozen ZoneType = "frozen"
)

// ZoneProduct carries the velocity metrics used for slotting.
type ZoneProduct struct {
	ProductID     string  `json:"product_id"`
	TurnoverRate  float64 `json:"turnover_rate"`
	PickFrequency float64 `json:"pick_frequency"`
}

// Zone is one slotting bucket. The four zones together partition the input
// product set.
type Zone struct {
	Type     ZoneType      `json:"type"`
	Products []ZoneProduct `json:"products"`
}

// OrderPriority orders express before standard before economy.
type OrderPriority string

const (
	PriorityExpress  OrderPriority = "express"
	PriorityStandard OrderPriority = "standard"
	PriorityEconomy  OrderPriority = "economy"
)

// OrderLine is one picked product within an order, located in a zone.
type OrderLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Zone      string `json:"zone"`
}

// PickOrder is an order queued for wave picking.
type PickOrder struct {
	OrderID  string        `json:"order_id"`
	Priority OrderPriority `json:"priority"`
	Lines    []OrderLine   `json:"lines"`
}

// BatchProduct is a consolidated product quantity inside a route stop.
type BatchProduct struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// RouteStop is one zone visit with the consolidated products to pick there.
type RouteStop struct {
	Zone     string         `json:"zone"`
	Products []BatchProduct `json:"products"`
}

// Batch is one wave-picking batch. Its priority is the highest priority among
// the orders it contains.
type Batch struct {
	Orders    []string      `json:"orders"`
	Priority  OrderPriority `json:"priority"`
	Route     []RouteStop   `json:"route"`
	ItemCount int           `json:"item_count"`
}

// OrderItem is one requested product line for shipment sourcing.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Location is a geographic point in decimal degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// WarehouseCandidate is a fulfillment source under consideration. Stock maps
// productID to available quantity and is treated as read-only.
type WarehouseCandidate struct {
	WarehouseID         string         `json:"warehouse_id"`
	Name                string         `json:"name"`
	Location            Location       `json:"location"`
	Stock               map[string]int `json:"stock"`
	ShippingCostPerKm   float64        `json:"shipping_cost_per_km"`
	ProcessingTimeHours float64        `json:"processing_time_hours"`
}

// ShipmentSourceCandidate is a scored fulfillment source.
type ShipmentSourceCandidate struct {
	WarehouseID         string  `json:"warehouse_id"`
	Name                string  `json:"name"`
	HasAllItems         bool    `json:"has_all_items"`
	DistanceKm          float64 `json:"distance_km"`
	ShippingCost        float64 `json:"shipping_cost"`
	ProcessingTimeHours float64 `json:"processing_time_hours"`
	Score               float64 `json:"score"`
}

// ShipmentAlternative is a non-selected candidate with the reason it lost.
type ShipmentAlternative struct {
	ShipmentSourceCandidate
	Reason string `json:"reason"`
}

// ShipmentDecision is the recommended source plus the ranked remainder.
// RecommendedSource is nil when no candidates were supplied.
type ShipmentDecision struct {
	OrderID           string                   `json:"order_id"`
	RecommendedSource *ShipmentSourceCandidate `json:"recommended_source"`
	Alternatives      []ShipmentAlternative    `json:"alternatives"`
}
