package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/granjasanluis/reparto-api/internal/application/service"
	"github.com/granjasanluis/reparto-api/internal/presentation/http/dto/response"
)

// WarehouseHandler handles warehouse preparation HTTP requests
type WarehouseHandler struct {
	warehouseService *service.WarehouseService
}

// NewWarehouseHandler creates a new warehouse handler
func NewWarehouseHandler(warehouseService *service.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{warehouseService: warehouseService}
}

// Summary handles the aggregated demand view across undispatched pre-sales
func (h *WarehouseHandler) Summary(c *gin.Context) {
	summary, err := h.warehouseService.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Warehouse summary retrieved successfully", summary)
}
