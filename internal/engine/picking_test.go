package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWavePickingBatchesEmptyInput(t *testing.T) {
	batches, err := CreateWavePickingBatches(nil, 10, 50)
	require.NoError(t, err)
	assert.Empty(t, batches)
}

func TestCreateWavePickingBatchesRejectsNegativeCaps(t *testing.T) {
	orders := []PickOrder{{OrderID: "O1", Priority: PriorityStandard}}

	_, err := CreateWavePickingBatches(orders, -1, 50)
	assert.Error(t, err)

	_, err = CreateWavePickingBatches(orders, 10, -5)
	assert.Error(t, err)
}

func TestCreateWavePickingBatchesPriorityOrder(t *testing.T) {
	orders := []PickOrder{
		{OrderID: "eco", Priority: PriorityEconomy, Lines: []OrderLine{{ProductID: "A", Quantity: 1, Zone: "Z1"}}},
		{OrderID: "exp", Priority: PriorityExpress, Lines: []OrderLine{{ProductID: "B", Quantity: 1, Zone: "Z1"}}},
		{OrderID: "std", Priority: PriorityStandard, Lines: []OrderLine{{ProductID: "C", Quantity: 1, Zone: "Z1"}}},
	}

	batches, err := CreateWavePickingBatches(orders, 1, 50)
	require.NoError(t, err)
	require.Len(t, batches, 3)

	assert.Equal(t, []string{"exp"}, batches[0].Orders)
	assert.Equal(t, []string{"std"}, batches[1].Orders)
	assert.Equal(t, []string{"eco"}, batches[2].Orders)
}

func TestCreateWavePickingBatchesMixedPriorityLabel(t *testing.T) {
	orders := []PickOrder{
		{OrderID: "std", Priority: PriorityStandard, Lines: []OrderLine{{ProductID: "A", Quantity: 1, Zone: "Z1"}}},
		{OrderID: "exp", Priority: PriorityExpress, Lines: []OrderLine{{ProductID: "B", Quantity: 1, Zone: "Z1"}}},
	}

	batches, err := CreateWavePickingBatches(orders, 10, 50)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, PriorityExpress, batches[0].Priority, "mixed batches take the higher label")
}

func TestCreateWavePickingBatchesRespectsCaps(t *testing.T) {
	var orders []PickOrder
	for i := 0; i < 25; i++ {
		orders = append(orders, PickOrder{
			OrderID:  fmt.Sprintf("O%02d", i),
			Priority: PriorityStandard,
			Lines:    []OrderLine{{ProductID: "A", Quantity: 7, Zone: "Z1"}},
		})
	}

	batches, err := CreateWavePickingBatches(orders, 10, 50)
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, b := range batches {
		assert.LessOrEqual(t, len(b.Orders), 10)

		items := 0
		for _, stop := range b.Route {
			for _, p := range stop.Products {
				items += p.Quantity
			}
		}
		assert.LessOrEqual(t, items, 50)
		assert.Equal(t, items, b.ItemCount)

		for _, id := range b.Orders {
			seen[id]++
		}
	}

	for _, o := range orders {
		assert.Equal(t, 1, seen[o.OrderID], "order %s must appear exactly once", o.OrderID)
	}
}

func TestCreateWavePickingBatchesConsolidatesRoute(t *testing.T) {
	orders := []PickOrder{
		{OrderID: "O1", Priority: PriorityStandard, Lines: []OrderLine{
			{ProductID: "A", Quantity: 2, Zone: "Z1"},
			{ProductID: "B", Quantity: 1, Zone: "Z2"},
		}},
		{OrderID: "O2", Priority: PriorityStandard, Lines: []OrderLine{
			{ProductID: "A", Quantity: 3, Zone: "Z1"},
			{ProductID: "C", Quantity: 4, Zone: "Z2"},
		}},
	}

	batches, err := CreateWavePickingBatches(orders, 10, 50)
	require.NoError(t, err)
	require.Len(t, batches, 1)

	batch := batches[0]
	require.Len(t, batch.Route, 2)

	assert.Equal(t, "Z1", batch.Route[0].Zone)
	require.Len(t, batch.Route[0].Products, 1)
	assert.Equal(t, BatchProduct{ProductID: "A", Quantity: 5}, batch.Route[0].Products[0],
		"identical products across orders merge into one entry")

	assert.Equal(t, "Z2", batch.Route[1].Zone)
	assert.ElementsMatch(t, []BatchProduct{{ProductID: "B", Quantity: 1}, {ProductID: "C", Quantity: 4}},
		batch.Route[1].Products)
}

func TestCreateWavePickingBatchesDefaultCaps(t *testing.T) {
	var orders []PickOrder
	for i := 0; i < 12; i++ {
		orders = append(orders, PickOrder{
			OrderID:  fmt.Sprintf("O%02d", i),
			Priority: PriorityStandard,
			Lines:    []OrderLine{{ProductID: "A", Quantity: 1, Zone: "Z1"}},
		})
	}

	batches, err := CreateWavePickingBatches(orders, 0, 0)
	require.NoError(t, err)
	require.Len(t, batches, 2, "default order cap is 10")
	assert.Len(t, batches[0].Orders, 10)
	assert.Len(t, batches[1].Orders, 2)
}
