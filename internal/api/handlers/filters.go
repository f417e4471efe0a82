package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stocklens/backend-go/internal/domain"
)

// parseSalesFilter reads the shared filter params. Product IDs are accepted
// both as repeated params and as a comma-separated list.
func parseSalesFilter(c *gin.Context) domain.SalesFilter {
	filter := domain.SalesFilter{
		Page:     1,
		PageSize: 50,
	}

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		filter.Page = page
	}

	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "50")); err == nil && size > 0 {
		filter.PageSize = size
	}

	if warehouseID := strings.TrimSpace(c.Query("warehouse_id")); warehouseID != "" {
		filter.WarehouseID = warehouseID
	}

	if category := strings.TrimSpace(c.Query("category")); category != "" {
		filter.Category = category
	}

	rawIDs := c.QueryArray("product_ids")
	if len(rawIDs) == 0 {
		if single := strings.TrimSpace(c.Query("product_ids")); single != "" {
			rawIDs = strings.Split(single, ",")
		}
	}
	for _, id := range rawIDs {
		for _, part := range strings.Split(id, ",") {
			if part = strings.TrimSpace(part); part != "" {
				filter.ProductIDs = append(filter.ProductIDs, part)
			}
		}
	}

	if from := strings.TrimSpace(c.Query("from")); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.From = t
		}
	}
	if to := strings.TrimSpace(c.Query("to")); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filter.To = t
		}
	}

	return filter
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	if value, err := strconv.Atoi(c.Query(name)); err == nil && value > 0 {
		return value
	}
	return fallback
}

func parseFloatQuery(c *gin.Context, name string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(c.Query(name), 64); err == nil && value > 0 {
		return value
	}
	return fallback
}
