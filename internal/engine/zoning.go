package engine

import (
	"math"
	"sort"
)

// Zone percentile bands: hot top 20%, warm next 30%, cold next 30%, frozen
// bottom 20%.
const (
	zoneHotBand  = 0.20
	zoneWarmBand = 0.50
	zoneColdBand = 0.80
)

// ClassifyHotColdZones ranks products by a composite of turnover rate and
// pick frequency and partitions them into the four fixed percentile bands.
// Exactly four zones are always returned, empty buckets included, and every
// input product lands in exactly one zone.
func ClassifyHotColdZones(products []ZoneProduct) []Zone {
	zones := []Zone{
		{Type: ZoneHot, Products: []ZoneProduct{}},
		{Type: ZoneWarm, Products: []ZoneProduct{}},
		{Type: ZoneCold, Products: []ZoneProduct{}},
		{Type: ZoneFrozen, Products: []ZoneProduct{}},
	}
	if len(products) == 0 {
		return zones
	}

	// Normalize both metrics against their maxima so neither dominates on
	// scale alone.
	var maxTurnover, maxPickFreq float64
	for _, p := range products {
		maxTurnover = math.Max(maxTurnover, p.TurnoverRate)
		maxPickFreq = math.Max(maxPickFreq, p.PickFrequency)
	}

	composite := func(p ZoneProduct) float64 {
		score := 0.0
		if maxTurnover > 0 {
			score += p.TurnoverRate / maxTurnover
		}
		if maxPickFreq > 0 {
			score += p.PickFrequency / maxPickFreq
		}
		return score
	}

	ranked := make([]ZoneProduct, len(products))
	copy(ranked, products)
	sort.SliceStable(ranked, func(i, j int) bool {
		return composite(ranked[i]) > composite(ranked[j])
	})

	n := len(ranked)
	hotEnd := bandEnd(n, zoneHotBand)
	warmEnd := bandEnd(n, zoneWarmBand)
	coldEnd := bandEnd(n, zoneColdBand)

	for i, p := range ranked {
		switch {
		case i < hotEnd:
			zones[0].Products = append(zones[0].Products, p)
		case i < warmEnd:
			zones[1].Products = append(zones[1].Products, p)
		case i < coldEnd:
			zones[2].Products = append(zones[2].Products, p)
		default:
			zones[3].Products = append(zones[3].Products, p)
		}
	}
	return zones
}

// bandEnd converts a cumulative percentile into an exclusive rank boundary.
// Rounding up keeps small product sets from collapsing entirely into the
// bottom band.
func bandEnd(n int, percentile float64) int {
	return int(math.Ceil(float64(n) * percentile))
}
