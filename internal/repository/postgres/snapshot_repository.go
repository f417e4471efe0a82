// backend-go/internal/repository/postgres/snapshot_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/internal/repository"
)

type snapshotRepository struct {
	db *DB
}

func NewSnapshotRepository(db *DB) repository.SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) GetStockSnapshot(ctx context.Context, productID string) (*domain.StockSnapshot, error) {
	query := `
		SELECT id, product_id, warehouse_id, current_stock, lead_time_days, snapshot_at
		FROM stock_snapshots
		WHERE product_id = $1
		ORDER BY snapshot_at DESC
		LIMIT 1
	`

	var snap domain.StockSnapshot
	if err := r.db.GetContext(ctx, &snap, query, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting stock snapshot for %s: %w", productID, err)
	}

	return &snap, nil
}

func (r *snapshotRepository) ListStockSnapshots(ctx context.Context, warehouseID string) ([]domain.StockSnapshot, error) {
	query := `
		SELECT DISTINCT ON (product_id)
			id, product_id, warehouse_id, current_stock, lead_time_days, snapshot_at
		FROM stock_snapshots
		WHERE ($1 = '' OR warehouse_id = $1)
		ORDER BY product_id, snapshot_at DESC
	`

	var snaps []domain.StockSnapshot
	if err := r.db.SelectContext(ctx, &snaps, query, warehouseID); err != nil {
		return nil, fmt.Errorf("error listing stock snapshots: %w", err)
	}

	return snaps, nil
}

func (r *snapshotRepository) UpsertStockSnapshots(ctx context.Context, rows []domain.StockSnapshot) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO stock_snapshots (product_id, warehouse_id, current_stock, lead_time_days, snapshot_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (product_id, warehouse_id, snapshot_at)
		DO UPDATE SET
			current_stock = EXCLUDED.current_stock,
			lead_time_days = EXCLUDED.lead_time_days
	`

	stored := 0
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, row := range rows {
			if _, err := tx.ExecContext(ctx, query,
				row.ProductID, row.WarehouseID, row.CurrentStock, row.LeadTimeDays, row.SnapshotAt,
			); err != nil {
				return fmt.Errorf("failed to upsert snapshot for %s: %w", row.ProductID, err)
			}
			stored++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return stored, nil
}

func (r *snapshotRepository) InsertSalesRecords(ctx context.Context, rows []domain.SalesRecord) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO sales_records (product_id, sale_date, quantity, revenue)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id, sale_date)
		DO UPDATE SET
			quantity = EXCLUDED.quantity,
			revenue = EXCLUDED.revenue
	`

	stored := 0
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, row := range rows {
			if _, err := tx.ExecContext(ctx, query,
				row.ProductID, row.SaleDate, row.Quantity, row.Revenue,
			); err != nil {
				return fmt.Errorf("failed to insert sales record for %s: %w", row.ProductID, err)
			}
			stored++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return stored, nil
}
