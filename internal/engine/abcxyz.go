package engine

import "sort"

const (
	// Pareto cut points applied to the running cumulative revenue share.
	abcClassACut = 0.80
	abcClassBCut = 0.95

	// CV bands separating stable, variable and erratic demand.
	xyzClassXCut = 0.10
	xyzClassZCut = 0.25
)

// abcxyzAdvice holds the fixed recommendation and strategy text for one cell
// of the ABC x XYZ matrix.
type abcxyzAdvice struct {
	recommendation string
	strategy       string
}

var abcxyzMatrix = map[ABCClass]map[XYZClass]abcxyzAdvice{
	ClassA: {
		ClassX: {"High value, stable demand: keep tight safety stock with automated reorder", "just-in-time"},
		ClassY: {"High value, variable demand: hold moderate safety stock and review weekly", "buffered-replenishment"},
		ClassZ: {"High value, erratic demand: forecast manually and order against confirmed demand", "on-demand"},
	},
	ClassB: {
		ClassX: {"Mid value, stable demand: automate reorder with standard safety stock", "periodic-review"},
		ClassY: {"Mid value, variable demand: hold extra safety stock and review monthly", "buffered-replenishment"},
		ClassZ: {"Mid value, erratic demand: order in small lots and watch for obsolescence", "small-lot"},
	},
	ClassC: {
		ClassX: {"Low value, stable demand: order in bulk on a long cycle", "bulk-cycle"},
		ClassY: {"Low value, variable demand: keep a minimal buffer and reorder on depletion", "min-max"},
		ClassZ: {"Low value, erratic demand: review manually, consider discontinuation", "manual-review"},
	},
}

// ABCEntry is one product's Pareto classification.
type ABCEntry struct {
	ProductID       string   `json:"product_id"`
	RevenueShare    float64  `json:"revenue_share"`
	CumulativeShare float64  `json:"cumulative_share"`
	Class           ABCClass `json:"class"`
}

// ClassifyABC sorts products by revenue descending and assigns Pareto tiers
// from the running cumulative share: A while it stays within 80%, B within
// 95%, C beyond. Zero total revenue leaves every share at 0 but still
// classifies each product exactly once.
func ClassifyABC(products []RevenueProduct) []ABCEntry {
	sorted := make([]RevenueProduct, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Revenue > sorted[j].Revenue
	})

	var total float64
	for _, p := range sorted {
		total += p.Revenue
	}

	// The running total accumulates raw revenue, not per-item shares: summing
	// shares drifts (0.8 + 0.15 exceeds 0.95 in float64) and misclassifies
	// products sitting exactly on a cut.
	entries := make([]ABCEntry, 0, len(sorted))
	cumulativeRevenue := 0.0
	for _, p := range sorted {
		cumulativeRevenue += p.Revenue

		share := 0.0
		cumulative := 0.0
		if total > 0 {
			share = p.Revenue / total
			cumulative = cumulativeRevenue / total
		}

		class := ClassC
		switch {
		case cumulative <= abcClassACut:
			class = ClassA
		case cumulative <= abcClassBCut:
			class = ClassB
		}

		entries = append(entries, ABCEntry{
			ProductID:       p.ProductID,
			RevenueShare:    share,
			CumulativeShare: cumulative,
			Class:           class,
		})
	}
	return entries
}

// ClassifyXYZ maps each product to its demand-stability tier from the
// coefficient of variation of its sales history: X below 10%, Z above 25%,
// Y between.
func ClassifyXYZ(products []RevenueProduct) map[string]XYZClass {
	classes := make(map[string]XYZClass, len(products))
	for _, p := range products {
		cv := CoefficientOfVariation(p.SalesHistory)
		switch {
		case cv < xyzClassXCut:
			classes[p.ProductID] = ClassX
		case cv > xyzClassZCut:
			classes[p.ProductID] = ClassZ
		default:
			classes[p.ProductID] = ClassY
		}
	}
	return classes
}

// PerformABCXYZAnalysis joins the two classifications per product and attaches
// the fixed recommendation for its matrix cell. Recomputing over the same
// inputs is idempotent: classes are derived, never stored.
func PerformABCXYZAnalysis(products []RevenueProduct) []ABCXYZResult {
	abc := ClassifyABC(products)
	xyz := ClassifyXYZ(products)

	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ProductID] = p.ProductName
	}

	results := make([]ABCXYZResult, 0, len(abc))
	for _, entry := range abc {
		xyzClass := xyz[entry.ProductID]
		advice := abcxyzMatrix[entry.Class][xyzClass]
		results = append(results, ABCXYZResult{
			ProductID:      entry.ProductID,
			ProductName:    names[entry.ProductID],
			RevenueShare:   entry.RevenueShare,
			ABCClass:       entry.Class,
			XYZClass:       xyzClass,
			Recommendation: advice.recommendation,
			Strategy:       advice.strategy,
		})
	}
	return results
}
