package main

import (
	"fmt"
	"log"

	"github.com/stocklens/backend-go/internal/ingest"
	"github.com/stocklens/backend-go/internal/repository/postgres"
	"github.com/urfave/cli/v2"
)

// seedSnapshots ingests every snapshot CSV in the configured directory
func seedSnapshots(c *cli.Context) error {
	db, err := postgres.NewDBFromURL("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if c.Bool("reset") {
		log.Println("Resetting snapshot tables...")
		resetQuery := `
			TRUNCATE TABLE sales_records RESTART IDENTITY CASCADE;
			TRUNCATE TABLE stock_snapshots RESTART IDENTITY CASCADE;
		`
		if _, err := db.ExecContext(c.Context, resetQuery); err != nil {
			return fmt.Errorf("failed to reset snapshot tables: %w", err)
		}
		log.Println("Snapshot tables reset successfully")
	}

	ingester := ingest.NewService(postgres.NewSnapshotRepository(db))

	results, err := ingester.IngestDir(c.Context, c.String("snapshots-dir"))
	if err != nil {
		return fmt.Errorf("failed to ingest snapshots: %w", err)
	}

	var stored, skipped int
	for _, r := range results {
		stored += r.RowsStored
		skipped += r.RowsSkipped
	}
	log.Printf("Ingested %d files: %d rows stored, %d skipped\n", len(results), stored, skipped)
	return nil
}
