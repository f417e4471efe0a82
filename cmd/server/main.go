// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stocklens/backend-go/internal/api"
	"github.com/stocklens/backend-go/internal/cache"
	"github.com/stocklens/backend-go/internal/config"
	"github.com/stocklens/backend-go/internal/repository/postgres"
	"github.com/stocklens/backend-go/internal/service"
	"github.com/stocklens/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.App.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
		logger.UseJSON()
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	salesRepo := postgres.NewSalesRepository(db)
	snapshotRepo := postgres.NewSnapshotRepository(db)
	warehouseRepo := postgres.NewWarehouseRepository(db)

	forecasts := buildForecastCache(cfg)
	dashboards := buildDashboardCache(cfg)

	analyticsService := service.NewAnalyticsService(salesRepo, snapshotRepo, forecasts, cfg.Engine)
	operationsService := service.NewOperationsService(salesRepo, snapshotRepo, warehouseRepo, cfg.Engine)
	dashboardService := service.NewDashboardService(analyticsService, salesRepo, dashboards)

	router := api.NewRouter(&api.Services{
		Analytics:  analyticsService,
		Operations: operationsService,
		Dashboard:  dashboardService,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

func buildForecastCache(cfg *config.Config) cache.ForecastCache {
	if !cfg.Cache.Enabled {
		return cache.NewNoopForecastCache()
	}
	c, err := cache.NewForecastCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Forecast cache unavailable, continuing without it")
		return cache.NewNoopForecastCache()
	}
	return c
}

func buildDashboardCache(cfg *config.Config) cache.LowStockDashboardCache {
	if !cfg.Cache.Enabled {
		return cache.NewNoopLowStockDashboardCache()
	}
	c, err := cache.NewLowStockDashboardCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Dashboard cache unavailable, continuing without it")
		return cache.NewNoopLowStockDashboardCache()
	}
	return c
}
