package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/stocklens/backend-go/internal/config"
	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/internal/engine"
	"github.com/stocklens/backend-go/internal/repository"
)

// WaveBatch is a wave-picking batch with its assigned identifier.
type WaveBatch struct {
	BatchID string `json:"batch_id"`
	engine.Batch
}

type OperationsService struct {
	sales      repository.SalesRepository
	snapshots  repository.SnapshotRepository
	warehouses repository.WarehouseRepository
	cfg        config.EngineConfig
}

func NewOperationsService(
	sales repository.SalesRepository,
	snapshots repository.SnapshotRepository,
	warehouses repository.WarehouseRepository,
	cfg config.EngineConfig,
) *OperationsService {
	return &OperationsService{
		sales:      sales,
		snapshots:  snapshots,
		warehouses: warehouses,
		cfg:        cfg,
	}
}

// ClassifyZones slots a warehouse's products into velocity zones and persists
// the resulting assignments.
func (s *OperationsService) ClassifyZones(ctx context.Context, warehouseID string) ([]engine.Zone, error) {
	filter := domain.SalesFilter{WarehouseID: warehouseID}

	products, _, err := s.sales.ListProducts(ctx, filter)
	if err != nil {
		return nil, err
	}

	salesFilter := filter
	salesFilter.From = time.Now().AddDate(0, 0, -historyWindowDays)
	records, err := s.sales.GetBulkDailySales(ctx, salesFilter)
	if err != nil {
		return nil, err
	}

	locations, err := s.warehouses.GetPickLocations(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	pickFrequency := make(map[string]float64, len(locations))
	for _, loc := range locations {
		pickFrequency[loc.ProductID] = loc.PickFrequency
	}

	inputs := make([]engine.ZoneProduct, 0, len(products))
	for _, product := range products {
		var sold float64
		for _, rec := range records[product.ID] {
			sold += rec.Quantity
		}
		inputs = append(inputs, engine.ZoneProduct{
			ProductID:     product.ID,
			TurnoverRate:  sold / float64(historyWindowDays),
			PickFrequency: pickFrequency[product.ID],
		})
	}

	zones := engine.ClassifyHotColdZones(inputs)

	assignments := make([]domain.PickLocation, 0, len(inputs))
	for _, zone := range zones {
		for _, zp := range zone.Products {
			assignments = append(assignments, domain.PickLocation{
				ProductID:     zp.ProductID,
				WarehouseID:   warehouseID,
				Zone:          string(zone.Type),
				PickFrequency: zp.PickFrequency,
			})
		}
	}
	if err := s.warehouses.UpsertPickLocations(ctx, assignments); err != nil {
		log.Warn().Err(err).Str("warehouse_id", warehouseID).Msg("zoning: persisting assignments failed")
	}

	return zones, nil
}

// CreateBatches groups queued pick orders into wave-picking batches and
// assigns each batch an ID.
func (s *OperationsService) CreateBatches(ctx context.Context, orders []engine.PickOrder, maxOrders, maxItems int) ([]WaveBatch, error) {
	if maxOrders == 0 {
		maxOrders = s.cfg.MaxOrdersPerBatch
	}
	if maxItems == 0 {
		maxItems = s.cfg.MaxItemsPerBatch
	}

	batches, err := engine.CreateWavePickingBatches(orders, maxOrders, maxItems)
	if err != nil {
		return nil, err
	}

	out := make([]WaveBatch, len(batches))
	for i, batch := range batches {
		out[i] = WaveBatch{
			BatchID: uuid.New().String(),
			Batch:   batch,
		}
	}

	return out, nil
}

// SelectShipmentSource picks the best warehouse to fulfil an order shipped to
// the given destination.
func (s *OperationsService) SelectShipmentSource(ctx context.Context, orderID string, items []engine.OrderItem, destination engine.Location) (*engine.ShipmentDecision, error) {
	warehouses, err := s.warehouses.ListWarehouses(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]engine.WarehouseCandidate, 0, len(warehouses))
	for _, wh := range warehouses {
		snaps, err := s.snapshots.ListStockSnapshots(ctx, wh.ID)
		if err != nil {
			return nil, err
		}

		stock := make(map[string]int, len(snaps))
		for _, snap := range snaps {
			stock[snap.ProductID] = int(snap.CurrentStock)
		}

		candidates = append(candidates, engine.WarehouseCandidate{
			WarehouseID:         wh.ID,
			Name:                wh.Name,
			Location:            engine.Location{Lat: wh.Lat, Lng: wh.Lng},
			Stock:               stock,
			ShippingCostPerKm:   wh.ShippingCostPerKm,
			ProcessingTimeHours: wh.ProcessingTimeHours,
		})
	}

	decision := engine.FindOptimalShipmentSource(orderID, items, destination, candidates)

	return &decision, nil
}
