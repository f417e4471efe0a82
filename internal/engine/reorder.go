package engine

import "math"

const (
	// DefaultServiceLevel is the target in-stock probability during lead time.
	DefaultServiceLevel = 0.95
	// reorderCycleDays is the replenishment cycle assumed when sizing the
	// reorder quantity.
	reorderCycleDays = 30
	// overstockFactor flags stock above this multiple of the reorder quantity.
	overstockFactor = 3
	// infiniteDaysOfStock is the sentinel for products with no sales at all.
	infiniteDaysOfStock = 999
)

// serviceLevelZ maps a service level to its normal z-score. Unrecognized
// levels fall back to the 0.95 entry.
var serviceLevelZ = map[float64]float64{
	0.90: 1.28,
	0.95: 1.65,
	0.99: 2.33,
}

// ZScoreForServiceLevel returns the z-score for the given service level,
// defaulting to the 0.95 value for levels outside the fixed table.
func ZScoreForServiceLevel(level float64) float64 {
	if z, ok := serviceLevelZ[level]; ok {
		return z
	}
	return serviceLevelZ[DefaultServiceLevel]
}

// ReorderOptions tunes CalculateReorderPoint. Zero values fall back to the
// package defaults.
type ReorderOptions struct {
	LeadTimeDays int
	ServiceLevel float64
}

func (o ReorderOptions) withDefaults() ReorderOptions {
	if o.LeadTimeDays <= 0 {
		o.LeadTimeDays = DefaultLeadTimeDays
	}
	if o.ServiceLevel <= 0 {
		o.ServiceLevel = DefaultServiceLevel
	}
	return o
}

// CalculateReorderPoint computes safety stock, reorder point and replenishment
// status for one product. Safety stock is z * stdDev(daily sales) *
// sqrt(leadTime); the reorder point covers lead-time demand plus that buffer;
// the reorder quantity targets a 30-day cycle.
//
// Status is decided in order: at or below safety stock is critical, at or
// below the reorder point calls for reordering now, stock above three reorder
// quantities is overstock, anything else is ok.
func CalculateReorderPoint(productID, productName string, currentStock float64, salesHistory []DailySale, opts ReorderOptions) ReorderPointResult {
	opts = opts.withDefaults()

	quantities := make([]float64, len(salesHistory))
	for i, s := range salesHistory {
		quantities[i] = s.Quantity
	}

	avg := Mean(quantities)
	std := StdDev(quantities)
	z := ZScoreForServiceLevel(opts.ServiceLevel)

	safetyStock := z * std * math.Sqrt(float64(opts.LeadTimeDays))
	reorderPoint := avg*float64(opts.LeadTimeDays) + safetyStock
	reorderQty := avg*reorderCycleDays + safetyStock

	daysOfStock := float64(infiniteDaysOfStock)
	if avg > 0 {
		daysOfStock = currentStock / avg
	}

	status := StatusOK
	switch {
	case currentStock <= safetyStock:
		status = StatusCritical
	case currentStock <= reorderPoint:
		status = StatusReorderNow
	case currentStock > reorderQty*overstockFactor:
		status = StatusOverstock
	}

	return ReorderPointResult{
		ProductID:        productID,
		ProductName:      productName,
		AvgDailySales:    avg,
		StdDevDailySales: std,
		LeadTimeDays:     opts.LeadTimeDays,
		SafetyStock:      safetyStock,
		ReorderPoint:     reorderPoint,
		ReorderQuantity:  reorderQty,
		CurrentStock:     currentStock,
		DaysOfStock:      daysOfStock,
		Status:           status,
	}
}

// CalculateBulkReorderPoints applies CalculateReorderPoint to each product.
// Products may override the default lead time individually.
func CalculateBulkReorderPoints(products []ReorderProduct, defaultLeadTime int, serviceLevel float64) []ReorderPointResult {
	results := make([]ReorderPointResult, 0, len(products))
	for _, p := range products {
		leadTime := p.LeadTimeDays
		if leadTime <= 0 {
			leadTime = defaultLeadTime
		}
		results = append(results, CalculateReorderPoint(p.ProductID, p.ProductName, p.CurrentStock, p.SalesHistory, ReorderOptions{
			LeadTimeDays: leadTime,
			ServiceLevel: serviceLevel,
		}))
	}
	return results
}
