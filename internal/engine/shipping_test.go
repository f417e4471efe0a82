package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kyiv = Location{Lat: 50.4501, Lng: 30.5234}

func TestFindOptimalShipmentSourceNoCandidates(t *testing.T) {
	decision := FindOptimalShipmentSource("O1", nil, kyiv, nil)
	assert.Equal(t, "O1", decision.OrderID)
	assert.Nil(t, decision.RecommendedSource)
	assert.Empty(t, decision.Alternatives)
}

func TestFindOptimalShipmentSourcePrefersFullAvailability(t *testing.T) {
	items := []OrderItem{{ProductID: "A", Quantity: 3}}

	warehouses := []WarehouseCandidate{
		{
			WarehouseID:         "near-partial",
			Location:            Location{Lat: 50.46, Lng: 30.53},
			Stock:               map[string]int{"A": 1},
			ShippingCostPerKm:   1,
			ProcessingTimeHours: 1,
		},
		{
			WarehouseID:         "far-full",
			Location:            Location{Lat: 49.8397, Lng: 24.0297},
			Stock:               map[string]int{"A": 10},
			ShippingCostPerKm:   1,
			ProcessingTimeHours: 4,
		},
	}

	decision := FindOptimalShipmentSource("O1", items, kyiv, warehouses)
	require.NotNil(t, decision.RecommendedSource)
	assert.Equal(t, "far-full", decision.RecommendedSource.WarehouseID)
	assert.True(t, decision.RecommendedSource.HasAllItems)

	require.Len(t, decision.Alternatives, 1)
	assert.Equal(t, "near-partial", decision.Alternatives[0].WarehouseID)
	assert.Contains(t, decision.Alternatives[0].Reason, "missing items")
}

func TestFindOptimalShipmentSourceLowerCombinedCostWins(t *testing.T) {
	items := []OrderItem{{ProductID: "A", Quantity: 1}}
	stock := map[string]int{"A": 5}

	warehouses := []WarehouseCandidate{
		{
			WarehouseID:         "slow",
			Location:            Location{Lat: 50.5, Lng: 30.6},
			Stock:               stock,
			ShippingCostPerKm:   1,
			ProcessingTimeHours: 48,
		},
		{
			WarehouseID:         "fast",
			Location:            Location{Lat: 50.6, Lng: 30.7},
			Stock:               stock,
			ShippingCostPerKm:   1,
			ProcessingTimeHours: 2,
		},
	}

	decision := FindOptimalShipmentSource("O1", items, kyiv, warehouses)
	require.NotNil(t, decision.RecommendedSource)
	assert.Equal(t, "fast", decision.RecommendedSource.WarehouseID)

	require.Len(t, decision.Alternatives, 1)
	assert.Contains(t, decision.Alternatives[0].Reason, "longer processing time")
}

func TestFindOptimalShipmentSourceTieBrokenByDistance(t *testing.T) {
	items := []OrderItem{{ProductID: "A", Quantity: 1}}

	warehouses := []WarehouseCandidate{
		{
			WarehouseID:         "far-free",
			Location:            Location{Lat: 49.8397, Lng: 24.0297},
			Stock:               map[string]int{"A": 5},
			ShippingCostPerKm:   0,
			ProcessingTimeHours: 2,
		},
		{
			WarehouseID:         "near-free",
			Location:            Location{Lat: 50.46, Lng: 30.53},
			Stock:               map[string]int{"A": 5},
			ShippingCostPerKm:   0,
			ProcessingTimeHours: 2,
		},
	}

	decision := FindOptimalShipmentSource("O1", items, kyiv, warehouses)
	require.NotNil(t, decision.RecommendedSource)
	assert.Equal(t, "near-free", decision.RecommendedSource.WarehouseID)

	require.Len(t, decision.Alternatives, 1)
	assert.Contains(t, decision.Alternatives[0].Reason, "greater distance")
}

func TestFindOptimalShipmentSourceDoesNotMutateStock(t *testing.T) {
	items := []OrderItem{{ProductID: "A", Quantity: 2}, {ProductID: "B", Quantity: 1}}
	stock := map[string]int{"A": 2, "B": 1}

	warehouses := []WarehouseCandidate{{
		WarehouseID:         "w1",
		Location:            kyiv,
		Stock:               stock,
		ShippingCostPerKm:   1,
		ProcessingTimeHours: 1,
	}}

	_ = FindOptimalShipmentSource("O1", items, kyiv, warehouses)
	assert.Equal(t, map[string]int{"A": 2, "B": 1}, stock, "caller-owned stock map stays untouched")
}

func TestFindOptimalShipmentSourceAllPartial(t *testing.T) {
	items := []OrderItem{{ProductID: "A", Quantity: 100}}

	warehouses := []WarehouseCandidate{
		{WarehouseID: "w1", Location: Location{Lat: 50.5, Lng: 30.6}, Stock: map[string]int{"A": 1}, ShippingCostPerKm: 1, ProcessingTimeHours: 1},
		{WarehouseID: "w2", Location: Location{Lat: 51.5, Lng: 31.6}, Stock: map[string]int{"A": 2}, ShippingCostPerKm: 1, ProcessingTimeHours: 1},
	}

	decision := FindOptimalShipmentSource("O1", items, kyiv, warehouses)
	require.NotNil(t, decision.RecommendedSource)
	assert.Equal(t, "w1", decision.RecommendedSource.WarehouseID, "partial candidates still rank by score")
	assert.False(t, decision.RecommendedSource.HasAllItems)
}
