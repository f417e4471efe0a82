// backend-go/internal/api/handlers/dashboard_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/stocklens/backend-go/internal/service"
)

type DashboardHandler struct {
	dashboard *service.DashboardService
}

func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// LowStock returns the replenishment overview dashboard
func (h *DashboardHandler) LowStock(c *gin.Context) {
	filter := parseSalesFilter(c)

	dashboard, err := h.dashboard.LowStockDashboard(c.Request.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("low stock dashboard failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build dashboard"})
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// ReorderSuggestions returns the ranked reorder worklist
func (h *DashboardHandler) ReorderSuggestions(c *gin.Context) {
	filter := parseSalesFilter(c)

	suggestions, err := h.dashboard.ReorderSuggestions(c.Request.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("reorder suggestions failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build suggestions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions, "count": len(suggestions)})
}
