package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/granjasanluis/reparto-api/internal/application/service"
	"github.com/granjasanluis/reparto-api/internal/domain/enum"
	"github.com/granjasanluis/reparto-api/internal/domain/repository"
	"github.com/granjasanluis/reparto-api/internal/presentation/http/dto/request"
	"github.com/granjasanluis/reparto-api/internal/presentation/http/dto/response"
	"github.com/granjasanluis/reparto-api/pkg/pagination"
)

// PreSaleHandler handles pre-sale HTTP requests
type PreSaleHandler struct {
	preSaleService *service.PreSaleService
}

// NewPreSaleHandler creates a new pre-sale handler
func NewPreSaleHandler(preSaleService *service.PreSaleService) *PreSaleHandler {
	return &PreSaleHandler{preSaleService: preSaleService}
}

// QuoteCart handles pricing a cart without creating anything
func (h *PreSaleHandler) QuoteCart(c *gin.Context) {
	var req request.QuoteCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	quote, err := h.preSaleService.QuoteCart(c.Request.Context(), cartInput(req.CustomerID, req.Items))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart quoted successfully", quote)
}

// Create handles creating a pre-sale
func (h *PreSaleHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreatePreSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	preSale, err := h.preSaleService.CreatePreSale(c.Request.Context(), &service.CreatePreSaleInput{
		UserID:    *userID,
		RouteID:   req.RouteID,
		CartInput: *cartInput(req.CustomerID, req.Items),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Pre-sale created successfully", preSale)
}

// List handles listing pre-sales
func (h *PreSaleHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.PreSaleFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		if status, ok := enum.ParsePreSaleStatus(statusStr); ok {
			params.Status = &status
		}
	}

	if customerIDStr := c.Query("customer_id"); customerIDStr != "" {
		if customerID, err := uuid.Parse(customerIDStr); err == nil {
			params.CustomerID = &customerID
		}
	}

	if agentIDStr := c.Query("delivery_agent_id"); agentIDStr != "" {
		if agentID, err := uuid.Parse(agentIDStr); err == nil {
			params.DeliveryAgentID = &agentID
		}
	}

	if routeIDStr := c.Query("route_id"); routeIDStr != "" {
		if routeID, err := uuid.Parse(routeIDStr); err == nil {
			params.RouteID = &routeID
		}
	}

	if startDateStr := c.Query("start_date"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			params.StartDate = &startDate
		}
	}

	if endDateStr := c.Query("end_date"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			params.EndDate = &endDate
		}
	}

	result, err := h.preSaleService.ListPreSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Pre-sales retrieved successfully", result)
}

// Get handles getting a single pre-sale with its items and bonus awards
func (h *PreSaleHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid pre-sale ID")
		return
	}

	preSale, err := h.preSaleService.GetPreSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Pre-sale retrieved successfully", preSale)
}

// UpdateStatus handles moving a pre-sale between warehouse statuses
func (h *PreSaleHandler) UpdateStatus(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid pre-sale ID")
		return
	}

	var req request.UpdatePreSaleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	status, ok := enum.ParsePreSaleStatus(req.Status)
	if !ok {
		response.BadRequest(c, "Invalid status")
		return
	}

	preSale, err := h.preSaleService.UpdateStatus(c.Request.Context(), id, status, *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Pre-sale status updated successfully", preSale)
}

// Dispatch handles assigning a delivery agent and marking the order dispatched
func (h *PreSaleHandler) Dispatch(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid pre-sale ID")
		return
	}

	var req request.DispatchPreSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	preSale, err := h.preSaleService.Dispatch(c.Request.Context(), id, req.DeliveryAgentID, *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Pre-sale dispatched successfully", preSale)
}

// Settle handles settlement of a dispatched pre-sale by its delivery agent
func (h *PreSaleHandler) Settle(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid pre-sale ID")
		return
	}

	preSale, result, err := h.preSaleService.Settle(c.Request.Context(), id, *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Pre-sale settled successfully", gin.H{
		"presale":      preSale,
		"bonus_awards": result.Awards,
	})
}

// GetHistory handles retrieving the audit trail of a pre-sale
func (h *PreSaleHandler) GetHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid pre-sale ID")
		return
	}

	events, err := h.preSaleService.GetHistory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Pre-sale history retrieved successfully", events)
}

// Delete handles removing a pre-sale that has not been dispatched
func (h *PreSaleHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid pre-sale ID")
		return
	}

	if err := h.preSaleService.DeletePreSale(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Pre-sale deleted successfully", nil)
}

func cartInput(customerID *uuid.UUID, items []request.CartItemRequest) *service.CartInput {
	input := &service.CartInput{
		CustomerID: customerID,
		Items:      make([]service.CartItemInput, len(items)),
	}
	for i, item := range items {
		input.Items[i] = service.CartItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Discount:  item.Discount,
		}
	}
	return input
}
