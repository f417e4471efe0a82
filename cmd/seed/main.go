package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Seed the database with master data and stock snapshots",
		Commands: []*cli.Command{
			{
				Name:  "master",
				Usage: "Seed master data (products, warehouses)",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "data-dir",
						Usage:   "Directory containing master seed data",
						Value:   "./data/seeds/master_data",
						EnvVars: []string{"SEED_DATA_DIR"},
					},
				},
				Action: runMasterSeeder,
			},
			{
				Name:  "snapshots",
				Usage: "Ingest stock snapshot CSV files",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "snapshots-dir",
						Usage:   "Directory containing snapshot CSV files",
						Value:   "./data/seeds/snapshots",
						EnvVars: []string{"SNAPSHOTS_DIR"},
					},
					&cli.BoolFlag{
						Name:  "reset",
						Usage: "Truncate sales and snapshot tables before ingesting",
					},
				},
				Action: seedSnapshots,
			},
			{
				Name:  "download",
				Usage: "Download snapshot files from object storage and ingest them",
				Flags: append([]cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "Object key prefix to download",
						Value: "snapshots/",
					},
					&cli.StringFlag{
						Name:  "download-dir",
						Usage: "Local directory for downloaded files",
						Value: "./data/tmp/snapshots",
					},
				}, storageFlags()...),
				Action: downloadAndIngest,
			},
			{
				Name:  "all",
				Usage: "Seed master data, then ingest snapshots",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "data-dir",
						Value:   "./data/seeds/master_data",
						EnvVars: []string{"SEED_DATA_DIR"},
					},
					&cli.StringFlag{
						Name:    "snapshots-dir",
						Value:   "./data/seeds/snapshots",
						EnvVars: []string{"SNAPSHOTS_DIR"},
					},
				},
				Action: func(c *cli.Context) error {
					if err := runMasterSeeder(c); err != nil {
						return fmt.Errorf("error running master seed: %w", err)
					}
					if err := seedSnapshots(c); err != nil {
						return fmt.Errorf("error ingesting snapshots: %w", err)
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runMasterSeeder(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	log.Println("Starting master data seeding...")

	dataDir := c.String("data-dir")

	if err := seedTable(ctx, tx, "products", "id",
		[]string{"id", "name", "sku", "category", "unit_price"},
		filepath.Join(dataDir, "products.csv")); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	if err := seedTable(ctx, tx, "warehouses", "id",
		[]string{"id", "name", "lat", "lng", "shipping_cost_per_km", "processing_time_hours"},
		filepath.Join(dataDir, "warehouses.csv")); err != nil {
		return fmt.Errorf("failed to seed warehouses: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Println("Master data seeding completed successfully!")
	return nil
}

// seedTable upserts each CSV row into tableName, matching columns by header name
func seedTable(ctx context.Context, tx *sql.Tx, tableName, conflictCol string, columns []string, filePath string) error {
	log.Printf("Seeding %s from %s\n", tableName, filePath)

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		tableName,
		buildColumnList(columns),
		strings.Join(placeholders, ", "),
		conflictCol,
		buildUpdateClause(columns, conflictCol),
	)

	count := 0
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to read CSV record: %w", err)
		}

		args := make([]interface{}, len(columns))
		for i, col := range columns {
			idx := getColumnIndex(header, col)
			if idx < 0 || idx >= len(record) {
				return fmt.Errorf("column '%s' missing from %s", col, filePath)
			}
			args[i] = nullIfBlank(record[idx])
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
		count++
	}

	log.Printf("Successfully seeded %s (%d records)\n", tableName, count)
	return nil
}

func nullIfBlank(s string) interface{} {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

func buildColumnList(columns []string) string {
	return `"` + strings.Join(columns, `", "`) + `"`
}

func buildUpdateClause(columns []string, conflictCol string) string {
	updates := make([]string, 0, len(columns))
	for _, col := range columns {
		if col == conflictCol {
			continue
		}
		updates = append(updates, fmt.Sprintf(`"%s" = EXCLUDED."%s"`, col, col))
	}
	return strings.Join(updates, ", ")
}

func getColumnIndex(header []string, column string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), column) {
			return i
		}
	}
	return -1
}
