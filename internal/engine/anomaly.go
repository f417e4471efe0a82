package engine

import "math"

const (
	// DefaultAnomalySensitivity is the z-score beyond which the latest
	// observation counts as a spike or drop.
	DefaultAnomalySensitivity = 2.0
	// anomalyMinHistoryDays is the minimum history before detection runs.
	anomalyMinHistoryDays = 7
	// highSeverityZ upgrades spikes/drops beyond this z-score to high.
	highSeverityZ = 3.0

	// Zero-sales streak handling. Low-volume products (series mean <= 1) are
	// exempt to avoid false positives; the 3/5 day cut points are empirically
	// chosen and kept as-is.
	zeroStreakMeanGuard    = 1.0
	zeroStreakHighDays     = 3
	zeroStreakCriticalDays = 5
)

// DetectAnomalies inspects the most recent point of the sales history for
// spikes and drops against the rest of the series, and checks for a trailing
// run of zero-sales days. It returns nothing for histories shorter than seven
// days. A perfectly flat series (zero standard deviation) never reports a
// spike or drop.
func DetectAnomalies(productID, productName string, salesHistory []DailySale, sensitivity float64) []Anomaly {
	if len(salesHistory) < anomalyMinHistoryDays {
		return nil
	}
	if sensitivity <= 0 {
		sensitivity = DefaultAnomalySensitivity
	}

	last := salesHistory[len(salesHistory)-1]
	baseline := make([]float64, len(salesHistory)-1)
	for i := 0; i < len(salesHistory)-1; i++ {
		baseline[i] = salesHistory[i].Quantity
	}

	var anomalies []Anomaly

	mean := Mean(baseline)
	std := StdDev(baseline)
	if std > 0 {
		zScore := (last.Quantity - mean) / std

		var kind AnomalyType
		switch {
		case zScore > sensitivity:
			kind = AnomalySpike
		case zScore < -sensitivity:
			kind = AnomalyDrop
		}

		if kind != "" {
			severity := SeverityMedium
			if math.Abs(zScore) > highSeverityZ {
				severity = SeverityHigh
			}
			anomalies = append(anomalies, Anomaly{
				ProductID:   productID,
				ProductName: productName,
				Date:        last.Date,
				Type:        kind,
				Severity:    severity,
				ZScore:      zScore,
			})
		}
	}

	// Zero-sales streaks only matter for products that normally sell.
	all := make([]float64, len(salesHistory))
	for i, s := range salesHistory {
		all[i] = s.Quantity
	}
	if Mean(all) > zeroStreakMeanGuard {
		streak := 0
		for i := len(salesHistory) - 1; i >= 0 && salesHistory[i].Quantity == 0; i-- {
			streak++
		}

		if streak >= zeroStreakHighDays {
			severity := SeverityHigh
			if streak >= zeroStreakCriticalDays {
				severity = SeverityCritical
			}
			anomalies = append(anomalies, Anomaly{
				ProductID:    productID,
				ProductName:  productName,
				Date:         last.Date,
				Type:         AnomalyZeroSales,
				Severity:     severity,
				StreakLength: streak,
			})
		}
	}

	return anomalies
}

// DetectBulkAnomalies fans DetectAnomalies out over a product list. Each
// product is independent; results keep the input order.
func DetectBulkAnomalies(products []AnomalyProduct, sensitivity float64) []Anomaly {
	var anomalies []Anomaly
	for _, p := range products {
		anomalies = append(anomalies, DetectAnomalies(p.ProductID, p.ProductName, p.SalesHistory, sensitivity)...)
	}
	return anomalies
}
