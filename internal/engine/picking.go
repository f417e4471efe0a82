package engine

import (
	"fmt"
	"sort"
)

const (
	// DefaultMaxOrdersPerBatch caps how many orders a single wave may carry.
	DefaultMaxOrdersPerBatch = 10
	// DefaultMaxItemsPerBatch caps the total picked units in one wave.
	DefaultMaxItemsPerBatch = 50
)

var priorityRank = map[OrderPriority]int{
	PriorityExpress:  0,
	PriorityStandard: 1,
	PriorityEconomy:  2,
}

// CreateWavePickingBatches groups orders into pick waves. Orders are handled
// express first, then standard, then economy (stable within a priority), and
// batches fill greedily: a batch closes as soon as adding the next order
// would exceed the order-count or item-count cap. This is a deliberate greedy
// heuristic, not an optimal packing.
//
// A batch's priority is the highest-priority order it contains, and its route
// consolidates identical products per zone across constituent orders. Zero
// caps fall back to the defaults; negative caps are an input contract
// violation.
func CreateWavePickingBatches(orders []PickOrder, maxOrdersPerBatch, maxItemsPerBatch int) ([]Batch, error) {
	if maxOrdersPerBatch < 0 || maxItemsPerBatch < 0 {
		return nil, fmt.Errorf("batch limits must not be negative: orders=%d items=%d", maxOrdersPerBatch, maxItemsPerBatch)
	}
	if maxOrdersPerBatch == 0 {
		maxOrdersPerBatch = DefaultMaxOrdersPerBatch
	}
	if maxItemsPerBatch == 0 {
		maxItemsPerBatch = DefaultMaxItemsPerBatch
	}
	if len(orders) == 0 {
		return nil, nil
	}

	sorted := make([]PickOrder, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return priorityRank[sorted[i].Priority] < priorityRank[sorted[j].Priority]
	})

	var batches []Batch
	var current []PickOrder
	currentItems := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		batches = append(batches, buildBatch(current, currentItems))
		current = nil
		currentItems = 0
	}

	for _, order := range sorted {
		items := orderItemCount(order)
		if len(current) > 0 &&
			(len(current)+1 > maxOrdersPerBatch || currentItems+items > maxItemsPerBatch) {
			flush()
		}
		current = append(current, order)
		currentItems += items
	}
	flush()

	return batches, nil
}

func orderItemCount(order PickOrder) int {
	total := 0
	for _, line := range order.Lines {
		total += line.Quantity
	}
	return total
}

// buildBatch consolidates the orders' lines into a per-zone route. The input
// is already priority-sorted, so the first order carries the batch label.
func buildBatch(orders []PickOrder, itemCount int) Batch {
	batch := Batch{
		Priority:  orders[0].Priority,
		ItemCount: itemCount,
	}

	zoneQuantities := make(map[string]map[string]int)
	for _, order := range orders {
		batch.Orders = append(batch.Orders, order.OrderID)
		for _, line := range order.Lines {
			if zoneQuantities[line.Zone] == nil {
				zoneQuantities[line.Zone] = make(map[string]int)
			}
			zoneQuantities[line.Zone][line.ProductID] += line.Quantity
		}
	}

	zones := make([]string, 0, len(zoneQuantities))
	for zone := range zoneQuantities {
		zones = append(zones, zone)
	}
	sort.Strings(zones)

	for _, zone := range zones {
		stop := RouteStop{Zone: zone}
		productIDs := make([]string, 0, len(zoneQuantities[zone]))
		for id := range zoneQuantities[zone] {
			productIDs = append(productIDs, id)
		}
		sort.Strings(productIDs)
		for _, id := range productIDs {
			stop.Products = append(stop.Products, BatchProduct{ProductID: id, Quantity: zoneQuantities[zone][id]})
		}
		batch.Route = append(batch.Route, stop)
	}

	return batch
}
