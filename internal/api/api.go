// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/stocklens/backend-go/internal/api/handlers"
	"github.com/stocklens/backend-go/internal/api/middleware"
	"github.com/stocklens/backend-go/internal/service"
)

type Services struct {
	Analytics  *service.AnalyticsService
	Operations *service.OperationsService
	Dashboard  *service.DashboardService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.Analytics != nil {
			analyticsHandler := handlers.NewAnalyticsHandler(services.Analytics)
			analyticsGroup := apiGroup.Group("/analytics")
			{
				analyticsGroup.GET("/forecast", analyticsHandler.BulkForecast)
				analyticsGroup.GET("/forecast/:product_id", analyticsHandler.Forecast)
				analyticsGroup.GET("/reorder", analyticsHandler.BulkReorderPoints)
				analyticsGroup.GET("/reorder/:product_id", analyticsHandler.ReorderPoint)
				analyticsGroup.GET("/classification", analyticsHandler.ABCXYZ)
				analyticsGroup.GET("/anomalies", analyticsHandler.Anomalies)
			}
		}

		if services.Operations != nil {
			operationsHandler := handlers.NewOperationsHandler(services.Operations)
			operationsGroup := apiGroup.Group("/operations")
			{
				operationsGroup.GET("/zones/:warehouse_id", operationsHandler.ClassifyZones)
				operationsGroup.POST("/batches", operationsHandler.CreateBatches)
				operationsGroup.POST("/shipments/select", operationsHandler.SelectShipmentSource)
			}
		}

		if services.Dashboard != nil {
			dashboardHandler := handlers.NewDashboardHandler(services.Dashboard)
			dashboardGroup := apiGroup.Group("/dashboard")
			{
				dashboardGroup.GET("/low_stock", dashboardHandler.LowStock)
				dashboardGroup.GET("/reorder_suggestions", dashboardHandler.ReorderSuggestions)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	log.Error().Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
}
