// backend-go/internal/api/handlers/analytics_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/stocklens/backend-go/internal/service"
)

type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Forecast returns the demand forecast for one product
func (h *AnalyticsHandler) Forecast(c *gin.Context) {
	productID := strings.TrimSpace(c.Param("product_id"))
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}

	daysAhead := parseIntQuery(c, "days", 0)

	result, err := h.analytics.ForecastProduct(c.Request.Context(), productID, daysAhead)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Str("product_id", productID).Msg("forecast failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute forecast"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// BulkForecast returns forecasts for every product matching the filter
func (h *AnalyticsHandler) BulkForecast(c *gin.Context) {
	filter := parseSalesFilter(c)
	daysAhead := parseIntQuery(c, "days", 0)

	results, err := h.analytics.BulkForecast(c.Request.Context(), filter, daysAhead)
	if err != nil {
		log.Error().Err(err).Msg("bulk forecast failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute forecasts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

// ReorderPoint returns the reorder analysis for one product
func (h *AnalyticsHandler) ReorderPoint(c *gin.Context) {
	productID := strings.TrimSpace(c.Param("product_id"))
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}

	serviceLevel := parseFloatQuery(c, "service_level", 0)

	result, err := h.analytics.ReorderPoint(c.Request.Context(), productID, serviceLevel)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Str("product_id", productID).Msg("reorder point failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute reorder point"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// BulkReorderPoints returns reorder analyses for every product matching the filter
func (h *AnalyticsHandler) BulkReorderPoints(c *gin.Context) {
	filter := parseSalesFilter(c)
	serviceLevel := parseFloatQuery(c, "service_level", 0)

	results, err := h.analytics.BulkReorderPoints(c.Request.Context(), filter, serviceLevel)
	if err != nil {
		log.Error().Err(err).Msg("bulk reorder points failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute reorder points"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

// ABCXYZ returns the revenue/stability classification matrix
func (h *AnalyticsHandler) ABCXYZ(c *gin.Context) {
	filter := parseSalesFilter(c)

	results, err := h.analytics.ABCXYZ(c.Request.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("abc/xyz classification failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to classify products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

// Anomalies returns detected demand anomalies for the filtered products
func (h *AnalyticsHandler) Anomalies(c *gin.Context) {
	filter := parseSalesFilter(c)
	sensitivity := parseFloatQuery(c, "sensitivity", 0)

	anomalies, err := h.analytics.Anomalies(c.Request.Context(), filter, sensitivity)
	if err != nil {
		log.Error().Err(err).Msg("anomaly detection failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to detect anomalies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"anomalies": anomalies, "count": len(anomalies)})
}
