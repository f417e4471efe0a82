package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyABCParetoCuts(t *testing.T) {
	products := []RevenueProduct{
		{ProductID: "low", Revenue: 5000},
		{ProductID: "top", Revenue: 80000},
		{ProductID: "mid", Revenue: 15000},
	}

	entries := ClassifyABC(products)
	require.Len(t, entries, 3)

	byID := make(map[string]ABCEntry)
	for _, e := range entries {
		byID[e.ProductID] = e
	}

	assert.Equal(t, ClassA, byID["top"].Class)
	assert.Equal(t, ClassB, byID["mid"].Class)
	assert.Equal(t, ClassC, byID["low"].Class)

	assert.InDelta(t, 0.80, byID["top"].CumulativeShare, 1e-9)
	assert.InDelta(t, 0.95, byID["mid"].CumulativeShare, 1e-9)
}

func TestClassifyABCExactCutBoundaries(t *testing.T) {
	// Shares 0.4, 0.4, 0.15, 0.05: summing the per-item shares in float64
	// drifts past both cut points, so the running total must come from raw
	// revenue for products landing exactly on 80% and 95%.
	products := []RevenueProduct{
		{ProductID: "a1", Revenue: 40000},
		{ProductID: "a2", Revenue: 40000},
		{ProductID: "b", Revenue: 15000},
		{ProductID: "c", Revenue: 5000},
	}

	entries := ClassifyABC(products)
	require.Len(t, entries, 4)

	byID := make(map[string]ABCEntry)
	for _, e := range entries {
		byID[e.ProductID] = e
	}

	assert.Equal(t, ClassA, byID["a1"].Class)
	assert.Equal(t, ClassA, byID["a2"].Class)
	assert.Equal(t, ClassB, byID["b"].Class)
	assert.Equal(t, ClassC, byID["c"].Class)
}

func TestClassifyABCPartition(t *testing.T) {
	products := []RevenueProduct{
		{ProductID: "a", Revenue: 100}, {ProductID: "b", Revenue: 90},
		{ProductID: "c", Revenue: 50}, {ProductID: "d", Revenue: 20},
		{ProductID: "e", Revenue: 10}, {ProductID: "f", Revenue: 0},
	}

	entries := ClassifyABC(products)
	require.Len(t, entries, len(products))

	seen := make(map[string]int)
	for _, e := range entries {
		seen[e.ProductID]++
		assert.Contains(t, []ABCClass{ClassA, ClassB, ClassC}, e.Class)
	}
	for _, p := range products {
		assert.Equal(t, 1, seen[p.ProductID], "every product classified exactly once")
	}
}

func TestClassifyABCZeroRevenue(t *testing.T) {
	products := []RevenueProduct{
		{ProductID: "a"}, {ProductID: "b"},
	}

	entries := ClassifyABC(products)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Zero(t, e.RevenueShare)
	}
}

func TestClassifyXYZBands(t *testing.T) {
	products := []RevenueProduct{
		{ProductID: "steady", SalesHistory: []float64{100, 101, 99, 100, 100}},
		{ProductID: "seasonal", SalesHistory: []float64{100, 120, 80, 110, 90}},
		{ProductID: "erratic", SalesHistory: []float64{10, 200, 5, 150, 1}},
	}

	classes := ClassifyXYZ(products)
	assert.Equal(t, ClassX, classes["steady"])
	assert.Equal(t, ClassY, classes["seasonal"])
	assert.Equal(t, ClassZ, classes["erratic"])
}

func TestPerformABCXYZAnalysis(t *testing.T) {
	products := []RevenueProduct{
		{ProductID: "top", ProductName: "Top seller", Revenue: 80000, SalesHistory: []float64{100, 100, 100, 100}},
		{ProductID: "mid", ProductName: "Mid seller", Revenue: 15000, SalesHistory: []float64{100, 130, 70, 100}},
		{ProductID: "low", ProductName: "Slow mover", Revenue: 5000, SalesHistory: []float64{1, 50, 0, 20}},
	}

	results := PerformABCXYZAnalysis(products)
	require.Len(t, results, 3)

	byID := make(map[string]ABCXYZResult)
	for _, r := range results {
		byID[r.ProductID] = r
		assert.NotEmpty(t, r.Recommendation)
		assert.NotEmpty(t, r.Strategy)
	}

	assert.Equal(t, ClassA, byID["top"].ABCClass)
	assert.Equal(t, ClassX, byID["top"].XYZClass)
	assert.Equal(t, "Top seller", byID["top"].ProductName)

	assert.Equal(t, ClassC, byID["low"].ABCClass)
	assert.Equal(t, ClassZ, byID["low"].XYZClass)

	// Same inputs, same outputs: classification is derived, not stored.
	again := PerformABCXYZAnalysis(products)
	assert.Equal(t, results, again)
}
