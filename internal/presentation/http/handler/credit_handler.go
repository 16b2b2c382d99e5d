package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/granjasanluis/reparto-api/internal/application/service"
	"github.com/granjasanluis/reparto-api/internal/domain/enum"
	"github.com/granjasanluis/reparto-api/internal/domain/repository"
	"github.com/granjasanluis/reparto-api/internal/presentation/http/dto/request"
	"github.com/granjasanluis/reparto-api/internal/presentation/http/dto/response"
	"github.com/granjasanluis/reparto-api/pkg/pagination"
)

// CreditHandler handles customer credit HTTP requests
type CreditHandler struct {
	creditService *service.CreditService
}

// NewCreditHandler creates a new credit handler
func NewCreditHandler(creditService *service.CreditService) *CreditHandler {
	return &CreditHandler{creditService: creditService}
}

// Create handles opening a credit account
func (h *CreditHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	credit, err := h.creditService.CreateCredit(c.Request.Context(), &service.CreateCreditInput{
		UserID:     *userID,
		CustomerID: req.CustomerID,
		PreSaleID:  req.PreSaleID,
		Total:      req.Total,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Credit created successfully", credit)
}

// List handles listing credits
func (h *CreditHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.CreditFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		if status, ok := enum.ParseCreditStatus(statusStr); ok {
			params.Status = &status
		}
	}

	if customerIDStr := c.Query("customer_id"); customerIDStr != "" {
		if customerID, err := uuid.Parse(customerIDStr); err == nil {
			params.CustomerID = &customerID
		}
	}

	result, err := h.creditService.ListCredits(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Credits retrieved successfully", result)
}

// Get handles getting a single credit with its payment history
func (h *CreditHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid credit ID")
		return
	}

	credit, err := h.creditService.GetCredit(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Credit retrieved successfully", credit)
}

// RegisterPayment handles recording an abono against a credit
func (h *CreditHandler) RegisterPayment(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid credit ID")
		return
	}

	var req request.RegisterPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	credit, err := h.creditService.RegisterPayment(c.Request.Context(), id, &service.RegisterPaymentInput{
		UserID:  *userID,
		Amount:  req.Amount,
		Paid:    req.Paid,
		Pending: req.Pending,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment registered successfully", credit)
}

// Delete handles removing a credit account
func (h *CreditHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid credit ID")
		return
	}

	if err := h.creditService.DeleteCredit(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Credit deleted successfully", nil)
}
