package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/stocklens/backend-go/internal/cache"
	"github.com/stocklens/backend-go/internal/config"
	"github.com/stocklens/backend-go/internal/drive"
	"github.com/stocklens/backend-go/internal/ingest"
	"github.com/stocklens/backend-go/internal/repository/postgres"
	"github.com/stocklens/backend-go/pkg/logger"
)

// Standalone ingestion server: exposes the Google Drive browse and ingest
// endpoints without the analytics API surface.
func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.App.LogLevel)

	driveService, err := drive.NewService(context.Background(), os.Getenv("GOOGLE_DRIVE_CREDENTIALS_JSON"))
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize Google Drive service")
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

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
	ingestService := drive.NewIngestService(driveService, ingester)

	r := mux.NewRouter()
	driveHandler := drive.NewHandler(driveService, ingestService)
	driveHandler.RegisterRoutes(r)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Log.Info().Str("addr", addr).Msg("Ingestion server starting")
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Log.Fatal().Err(err).Msg("Ingestion server stopped")
	}
}
