// backend-go/internal/api/handlers/operations_handler.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/stocklens/backend-go/internal/engine"
	"github.com/stocklens/backend-go/internal/service"
)

type OperationsHandler struct {
	operations *service.OperationsService
}

func NewOperationsHandler(operations *service.OperationsService) *OperationsHandler {
	return &OperationsHandler{operations: operations}
}

// ClassifyZones slots a warehouse's products into velocity zones
func (h *OperationsHandler) ClassifyZones(c *gin.Context) {
	warehouseID := strings.TrimSpace(c.Param("warehouse_id"))
	if warehouseID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "warehouse_id is required"})
		return
	}

	zones, err := h.operations.ClassifyZones(c.Request.Context(), warehouseID)
	if err != nil {
		log.Error().Err(err).Str("warehouse_id", warehouseID).Msg("zone classification failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to classify zones"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"zones": zones})
}

type createBatchesRequest struct {
	Orders            []engine.PickOrder `json:"orders" binding:"required"`
	MaxOrdersPerBatch int                `json:"max_orders_per_batch"`
	MaxItemsPerBatch  int                `json:"max_items_per_batch"`
}

// CreateBatches groups queued pick orders into wave-picking batches
func (h *OperationsHandler) CreateBatches(c *gin.Context) {
	var req createBatchesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	batches, err := h.operations.CreateBatches(c.Request.Context(), req.Orders, req.MaxOrdersPerBatch, req.MaxItemsPerBatch)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"batches": batches, "count": len(batches)})
}

type selectShipmentRequest struct {
	OrderID     string             `json:"order_id" binding:"required"`
	Items       []engine.OrderItem `json:"items" binding:"required"`
	Destination engine.Location    `json:"destination" binding:"required"`
}

// SelectShipmentSource picks the best warehouse to ship an order from
func (h *OperationsHandler) SelectShipmentSource(c *gin.Context) {
	var req selectShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	decision, err := h.operations.SelectShipmentSource(c.Request.Context(), req.OrderID, req.Items, req.Destination)
	if err != nil {
		log.Error().Err(err).Str("order_id", req.OrderID).Msg("shipment source selection failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to select shipment source"})
		return
	}

	c.JSON(http.StatusOK, decision)
}
