// backend-go/internal/repository/postgres/warehouse_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/internal/repository"
)

type warehouseRepository struct {
	db *DB
}

func NewWarehouseRepository(db *DB) repository.WarehouseRepository {
	return &warehouseRepository{db: db}
}

func (r *warehouseRepository) ListWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	query := `
		SELECT id, name, lat, lng, shipping_cost_per_km, processing_time_hours, created_at
		FROM warehouses
		ORDER BY name
	`

	var warehouses []domain.Warehouse
	if err := r.db.SelectContext(ctx, &warehouses, query); err != nil {
		return nil, fmt.Errorf("error listing warehouses: %w", err)
	}

	return warehouses, nil
}

func (r *warehouseRepository) GetPickLocations(ctx context.Context, warehouseID string) ([]domain.PickLocation, error) {
	query := `
		SELECT product_id, warehouse_id, zone, pick_frequency
		FROM pick_locations
		WHERE warehouse_id = $1
		ORDER BY zone, product_id
	`

	var locations []domain.PickLocation
	if err := r.db.SelectContext(ctx, &locations, query, warehouseID); err != nil {
		return nil, fmt.Errorf("error getting pick locations for %s: %w", warehouseID, err)
	}

	return locations, nil
}

func (r *warehouseRepository) UpsertPickLocations(ctx context.Context, rows []domain.PickLocation) error {
	if len(rows) == 0 {
		return nil
	}

	query := `
		INSERT INTO pick_locations (product_id, warehouse_id, zone, pick_frequency, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET
			zone = EXCLUDED.zone,
			pick_frequency = EXCLUDED.pick_frequency,
			updated_at = NOW()
	`

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, row := range rows {
			if _, err := tx.ExecContext(ctx, query,
				row.ProductID, row.WarehouseID, row.Zone, row.PickFrequency,
			); err != nil {
				return fmt.Errorf("failed to upsert pick location for %s: %w", row.ProductID, err)
			}
		}
		return nil
	})
}
