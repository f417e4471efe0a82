// backend-go/internal/ingest/parser.go
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/stocklens/backend-go/internal/domain"
)

// SnapshotRow is one parsed line of a daily snapshot file. Each line carries
// both the day's sales and the closing stock level for a product.
type SnapshotRow struct {
	ProductID    string
	WarehouseID  string
	Date         time.Time
	QuantitySold float64
	Revenue      decimal.Decimal
	CurrentStock float64
	LeadTimeDays int
}

var requiredColumns = []string{"product_id", "date", "quantity_sold"}

// ParseSnapshotCSV reads a snapshot file. Rows with a missing product ID or
// an unparseable date are skipped and counted, not fatal; a missing required
// header is.
func ParseSnapshotCSV(r io.Reader) ([]SnapshotRow, int, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}

	for _, col := range requiredColumns {
		if _, ok := colMap[col]; !ok {
			return nil, 0, fmt.Errorf("snapshot file missing column %q", col)
		}
	}

	var rows []SnapshotRow
	skipped := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("error reading record: %w", err)
		}

		if len(record) < len(colMap) {
			skipped++
			continue
		}

		productID := strings.TrimSpace(record[colMap["product_id"]])
		if productID == "" {
			skipped++
			continue
		}

		date := parseDate(record[colMap["date"]])
		if date == nil {
			log.Warn().Str("product_id", productID).Str("raw", record[colMap["date"]]).Msg("ingest: skipping row with unparseable date")
			skipped++
			continue
		}

		quantity, _ := strconv.ParseFloat(strings.TrimSpace(record[colMap["quantity_sold"]]), 64)

		row := SnapshotRow{
			ProductID:    productID,
			Date:         *date,
			QuantitySold: quantity,
		}

		if idx, ok := colMap["warehouse_id"]; ok {
			row.WarehouseID = strings.TrimSpace(record[idx])
		}
		if idx, ok := colMap["revenue"]; ok {
			if rev, err := decimal.NewFromString(strings.TrimSpace(record[idx])); err == nil {
				row.Revenue = rev
			}
		}
		if idx, ok := colMap["current_stock"]; ok {
			row.CurrentStock, _ = strconv.ParseFloat(strings.TrimSpace(record[idx]), 64)
		}
		if idx, ok := colMap["lead_time_days"]; ok {
			row.LeadTimeDays, _ = strconv.Atoi(strings.TrimSpace(record[idx]))
		}

		rows = append(rows, row)
	}

	return rows, skipped, nil
}

// parseDate tries the formats snapshot exports have shipped with.
func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "0000-00-00" || raw == "0000-00-00 00:00:00" {
		return nil
	}

	formats := []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		"2/1/2006",
		"20060102",
		time.RFC3339,
	}
	for _, format := range formats {
		if t, err := time.Parse(format, raw); err == nil {
			return &t
		}
	}
	return nil
}

// SalesRecords converts parsed rows into persistable sales records.
func SalesRecords(rows []SnapshotRow) []domain.SalesRecord {
	records := make([]domain.SalesRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.SalesRecord{
			ProductID: row.ProductID,
			SaleDate:  row.Date,
			Quantity:  row.QuantitySold,
			Revenue:   row.Revenue,
		})
	}
	return records
}

// StockSnapshots converts parsed rows into persistable stock snapshots,
// keeping only the latest row per product and warehouse.
func StockSnapshots(rows []SnapshotRow) []domain.StockSnapshot {
	type key struct{ product, warehouse string }

	latest := make(map[key]SnapshotRow)
	order := make([]key, 0)
	for _, row := range rows {
		k := key{row.ProductID, row.WarehouseID}
		if prev, ok := latest[k]; !ok {
			latest[k] = row
			order = append(order, k)
		} else if row.Date.After(prev.Date) {
			latest[k] = row
		}
	}

	snaps := make([]domain.StockSnapshot, 0, len(latest))
	for _, k := range order {
		row := latest[k]
		snaps = append(snaps, domain.StockSnapshot{
			ProductID:    row.ProductID,
			WarehouseID:  row.WarehouseID,
			CurrentStock: row.CurrentStock,
			LeadTimeDays: row.LeadTimeDays,
			SnapshotAt:   row.Date,
		})
	}
	return snaps
}
