package engine

import (
	"fmt"
	"sort"
)

const (
	// processingCostPerHour converts processing time into a cost-equivalent
	// so it can be summed with shipping cost when ranking sources.
	processingCostPerHour = 10.0
	// partialStockPenalty keeps sources that cannot cover the whole order
	// scored, but behind any full-availability candidate.
	partialStockPenalty = 10000.0
)

// FindOptimalShipmentSource scores every candidate warehouse for the order
// and recommends the best one. Full-availability candidates always beat
// partial ones; among comparable candidates the lower combined shipping cost
// plus processing-time cost-equivalent wins, with ties broken by shorter
// distance. All other candidates are returned ranked, each annotated with the
// first criterion on which it loses to the recommendation.
//
// Candidate stock maps are read-only; the function never mutates them.
func FindOptimalShipmentSource(orderID string, items []OrderItem, customer Location, warehouses []WarehouseCandidate) ShipmentDecision {
	decision := ShipmentDecision{OrderID: orderID}
	if len(warehouses) == 0 {
		return decision
	}

	candidates := make([]ShipmentSourceCandidate, 0, len(warehouses))
	for _, w := range warehouses {
		distance := GreatCircleDistance(customer.Lat, customer.Lng, w.Location.Lat, w.Location.Lng)
		candidate := ShipmentSourceCandidate{
			WarehouseID:         w.WarehouseID,
			Name:                w.Name,
			HasAllItems:         hasAllItems(w.Stock, items),
			DistanceKm:          distance,
			ShippingCost:        distance * w.ShippingCostPerKm,
			ProcessingTimeHours: w.ProcessingTimeHours,
		}

		candidate.Score = candidate.ShippingCost + candidate.ProcessingTimeHours*processingCostPerHour
		if !candidate.HasAllItems {
			candidate.Score += partialStockPenalty
		}
		candidates = append(candidates, candidate)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.HasAllItems != b.HasAllItems {
			return a.HasAllItems
		}
		if a.Score != b.Score {
			return a.Score < b.Score
		}
		return a.DistanceKm < b.DistanceKm
	})

	best := candidates[0]
	decision.RecommendedSource = &best

	for _, c := range candidates[1:] {
		decision.Alternatives = append(decision.Alternatives, ShipmentAlternative{
			ShipmentSourceCandidate: c,
			Reason:                  losingReason(best, c),
		})
	}
	return decision
}

func hasAllItems(stock map[string]int, items []OrderItem) bool {
	for _, item := range items {
		if stock[item.ProductID] < item.Quantity {
			return false
		}
	}
	return true
}

// losingReason names the first criterion on which the alternative loses to
// the recommended source: missing items, processing time, distance, then
// shipping cost.
func losingReason(best, alt ShipmentSourceCandidate) string {
	switch {
	case best.HasAllItems && !alt.HasAllItems:
		return "missing items for the order"
	case alt.ProcessingTimeHours > best.ProcessingTimeHours:
		return fmt.Sprintf("longer processing time (%.1fh vs %.1fh)", alt.ProcessingTimeHours, best.ProcessingTimeHours)
	case alt.DistanceKm > best.DistanceKm:
		return fmt.Sprintf("greater distance (%.1fkm vs %.1fkm)", alt.DistanceKm, best.DistanceKm)
	case alt.ShippingCost > best.ShippingCost:
		return fmt.Sprintf("higher shipping cost (%.2f vs %.2f)", alt.ShippingCost, best.ShippingCost)
	default:
		return "lower combined score"
	}
}
