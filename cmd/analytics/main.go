// cmd/analytics/main.go
package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"path/filepath"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stocklens/backend-go/internal/cache"
	"github.com/stocklens/backend-go/internal/config"
	"github.com/stocklens/backend-go/internal/drive"
	"github.com/stocklens/backend-go/internal/ingest"
	"github.com/stocklens/backend-go/internal/pipeline"
	"github.com/stocklens/backend-go/internal/repository/postgres"
	"github.com/stocklens/backend-go/pkg/logger"
)

// Batch runner: ingests a directory of snapshot CSV files through the
// pipeline, one tracked run per snapshot date.
func main() {
	dbURL := flag.String("db-url", "", "Database connection string for pipeline bookkeeping")
	dataDir := flag.String("data-dir", "./data/seeds", "Directory containing snapshot CSV files")
	pattern := flag.String("pattern", "*.csv", "Glob pattern for snapshot files")
	workers := flag.Int("workers", 4, "Number of concurrent ingestion workers")
	driveFolder := flag.String("drive-folder", "", "Google Drive folder path to pull snapshots from before ingesting")
	flag.Parse()

	cfg := config.Load()
	logger.SetLevel(cfg.App.LogLevel)

	if *dbURL == "" {
		logger.Log.Fatal().Msg("Database URL is required (use -db-url flag)")
	}

	ctx := context.Background()

	if *driveFolder != "" {
		pulled, err := pullDriveSnapshots(ctx, *driveFolder, *dataDir)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to pull snapshots from Google Drive")
		}
		logger.Log.Info().Int("files", len(pulled)).Str("folder", *driveFolder).Msg("Pulled snapshot files from Google Drive")
	}

	bookDB, err := sql.Open("pgx", *dbURL)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer bookDB.Close()

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	files, err := filepath.Glob(filepath.Join(*dataDir, *pattern))
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Invalid file pattern")
	}
	if len(files) == 0 {
		logger.Log.Info().Str("dir", *dataDir).Msg("No snapshot files found")
		return
	}

	snapshotRepo := postgres.NewSnapshotRepository(db)

	var invalidators []ingest.Invalidator
	if cfg.Cache.Enabled {
		if forecasts, err := cache.NewForecastCache(cfg.Cache); err == nil {
			invalidators = append(invalidators, forecasts)
		}
		if dashboards, err := cache.NewLowStockDashboardCache(cfg.Cache); err == nil {
			invalidators = append(invalidators, dashboards)
		}
	}

	ingester := ingest.NewService(snapshotRepo, invalidators...)

	pipeCfg := pipeline.DefaultPipelineConfig("snapshot_ingest")
	pipeCfg.WorkerCount = *workers

	orchestrator := pipeline.NewOrchestrator(pipeCfg, pipeline.NewRepository(bookDB), ingester)
	if err := orchestrator.Run(ctx, files); err != nil {
		logger.Log.Fatal().Err(err).Msg("Snapshot ingestion failed")
	}

	logger.Log.Info().Int("files", len(files)).Msg("Snapshot ingestion finished")
}

// pullDriveSnapshots downloads the CSV exports under the named Drive folder
// into dataDir so the glob below picks them up.
func pullDriveSnapshots(ctx context.Context, folderPath, dataDir string) ([]string, error) {
	driveService, err := drive.NewService(ctx, os.Getenv("GOOGLE_DRIVE_CREDENTIALS_JSON"))
	if err != nil {
		return nil, err
	}

	folderID, err := driveService.FindFolderByPath(ctx, folderPath)
	if err != nil {
		return nil, err
	}

	return drive.NewDownloader(driveService).DownloadFolderCSV(ctx, drive.DownloadOptions{
		FolderID:    folderID,
		DownloadDir: dataDir,
	})
}
