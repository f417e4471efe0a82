// backend-go/internal/repository/postgres/sales_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/internal/repository"
)

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) repository.SalesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	query := `
		SELECT id, sku, name, category, unit_price, warehouse_id, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	var product domain.Product
	if err := r.db.GetContext(ctx, &product, query, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting product %s: %w", productID, err)
	}

	return &product, nil
}

func (r *salesRepository) ListProducts(ctx context.Context, filter domain.SalesFilter) ([]domain.Product, int, error) {
	countQuery := `
        SELECT COUNT(*)
        FROM products
        WHERE 1=1
    `

	query := `
        SELECT id, sku, name, category, unit_price, warehouse_id, created_at, updated_at
        FROM products
        WHERE 1=1
    `

	var args []interface{}
	var conditions []string
	argCounter := 1

	if len(filter.ProductIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("id = ANY($%d::text[])", argCounter))
		args = append(args, pq.Array(filter.ProductIDs))
		argCounter++
	}

	if filter.WarehouseID != "" {
		conditions = append(conditions, fmt.Sprintf("warehouse_id = $%d", argCounter))
		args = append(args, filter.WarehouseID)
		argCounter++
	}

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argCounter))
		args = append(args, filter.Category)
		argCounter++
	}

	if len(conditions) > 0 {
		whereClause := " AND " + strings.Join(conditions, " AND ")
		query += whereClause
		countQuery += whereClause
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("error counting products: %w", err)
	}

	query += " ORDER BY sku"

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCounter, argCounter+1)
		args = append(args, filter.PageSize, offset)
	}

	var products []domain.Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, fmt.Errorf("error listing products: %w", err)
	}

	return products, total, nil
}

func (r *salesRepository) GetDailySales(ctx context.Context, productID string, from, to time.Time) ([]domain.SalesRecord, error) {
	query := `
		SELECT id, product_id, sale_date, quantity, revenue
		FROM sales_records
		WHERE product_id = $1 AND sale_date >= $2 AND sale_date <= $3
		ORDER BY sale_date
	`

	var records []domain.SalesRecord
	if err := r.db.SelectContext(ctx, &records, query, productID, from, to); err != nil {
		return nil, fmt.Errorf("error getting daily sales for %s: %w", productID, err)
	}

	return records, nil
}

func (r *salesRepository) GetBulkDailySales(ctx context.Context, filter domain.SalesFilter) (map[string][]domain.SalesRecord, error) {
	query := `
        SELECT sr.id, sr.product_id, sr.sale_date, sr.quantity, sr.revenue
        FROM sales_records sr
        JOIN products p ON p.id = sr.product_id
        WHERE 1=1
    `

	var args []interface{}
	var conditions []string
	argCounter := 1

	if len(filter.ProductIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("sr.product_id = ANY($%d::text[])", argCounter))
		args = append(args, pq.Array(filter.ProductIDs))
		argCounter++
	}

	if filter.WarehouseID != "" {
		conditions = append(conditions, fmt.Sprintf("p.warehouse_id = $%d", argCounter))
		args = append(args, filter.WarehouseID)
		argCounter++
	}

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("p.category = $%d", argCounter))
		args = append(args, filter.Category)
		argCounter++
	}

	if !filter.From.IsZero() {
		conditions = append(conditions, fmt.Sprintf("sr.sale_date >= $%d", argCounter))
		args = append(args, filter.From)
		argCounter++
	}

	if !filter.To.IsZero() {
		conditions = append(conditions, fmt.Sprintf("sr.sale_date <= $%d", argCounter))
		args = append(args, filter.To)
		argCounter++
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY sr.product_id, sr.sale_date"

	var records []domain.SalesRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("error getting bulk daily sales: %w", err)
	}

	result := make(map[string][]domain.SalesRecord)
	for _, rec := range records {
		result[rec.ProductID] = append(result[rec.ProductID], rec)
	}

	return result, nil
}

func (r *salesRepository) GetRevenueTotals(ctx context.Context, filter domain.SalesFilter) ([]domain.RevenueTotal, error) {
	query := `
        SELECT sr.product_id, p.name AS product_name, COALESCE(SUM(sr.revenue), 0) AS revenue
        FROM sales_records sr
        JOIN products p ON p.id = sr.product_id
        WHERE 1=1
    `

	var args []interface{}
	var conditions []string
	argCounter := 1

	if filter.WarehouseID != "" {
		conditions = append(conditions, fmt.Sprintf("p.warehouse_id = $%d", argCounter))
		args = append(args, filter.WarehouseID)
		argCounter++
	}

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("p.category = $%d", argCounter))
		args = append(args, filter.Category)
		argCounter++
	}

	if !filter.From.IsZero() {
		conditions = append(conditions, fmt.Sprintf("sr.sale_date >= $%d", argCounter))
		args = append(args, filter.From)
		argCounter++
	}

	if !filter.To.IsZero() {
		conditions = append(conditions, fmt.Sprintf("sr.sale_date <= $%d", argCounter))
		args = append(args, filter.To)
		argCounter++
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += " GROUP BY sr.product_id, p.name ORDER BY revenue DESC"

	var totals []domain.RevenueTotal
	if err := r.db.SelectContext(ctx, &totals, query, args...); err != nil {
		return nil, fmt.Errorf("error getting revenue totals: %w", err)
	}

	return totals, nil
}
