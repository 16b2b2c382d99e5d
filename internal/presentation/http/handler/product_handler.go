package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/granjasanluis/reparto-api/internal/application/service"
	"github.com/granjasanluis/reparto-api/internal/domain/repository"
	"github.com/granjasanluis/reparto-api/internal/presentation/http/dto/request"
	"github.com/granjasanluis/reparto-api/internal/presentation/http/dto/response"
	"github.com/granjasanluis/reparto-api/pkg/pagination"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Create handles creating a product with its wholesale tiers and bonus rules
func (h *ProductHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &service.CreateProductInput{
		UserID:         *userID,
		Name:           req.Name,
		Code:           req.Code,
		Quantity:       req.Quantity,
		QuantityAlert:  req.QuantityAlert,
		SalePrice:      req.SalePrice,
		Notes:          req.Notes,
		WholesaleTiers: tierInputs(req.WholesaleTiers),
		BonusRules:     ruleInputs(req.BonusRules),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// List handles listing products
func (h *ProductHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	lowStock, _ := strconv.ParseBool(c.DefaultQuery("low_stock", "false"))

	params := &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search:    c.Query("search"),
		LowStock:  lowStock,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	result, err := h.productService.ListProducts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Products retrieved successfully", result)
}

// Get handles getting a single product by slug
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Update handles updating a product. Wholesale tiers and bonus rules, when
// present in the body, replace the stored sets whole.
func (h *ProductHandler) Update(c *gin.Context) {
	var req request.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdateProductInput{
		ProductSlug:   c.Param("slug"),
		Name:          req.Name,
		Code:          req.Code,
		Quantity:      req.Quantity,
		QuantityAlert: req.QuantityAlert,
		SalePrice:     req.SalePrice,
		Notes:         req.Notes,
	}
	if req.WholesaleTiers != nil {
		tiers := tierInputs(*req.WholesaleTiers)
		input.WholesaleTiers = &tiers
	}
	if req.BonusRules != nil {
		rules := ruleInputs(*req.BonusRules)
		input.BonusRules = &rules
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// Delete handles deleting a product
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.productService.DeleteProduct(c.Request.Context(), c.Param("slug")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product deleted successfully", nil)
}

// GetLowStock handles listing products at or below their alert threshold
func (h *ProductHandler) GetLowStock(c *gin.Context) {
	products, err := h.productService.GetLowStockProducts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock products retrieved successfully", products)
}

func tierInputs(tiers []request.WholesaleTierRequest) []service.WholesaleTierInput {
	inputs := make([]service.WholesaleTierInput, len(tiers))
	for i, tier := range tiers {
		inputs[i] = service.WholesaleTierInput{
			Threshold: tier.Threshold,
			UnitPrice: tier.UnitPrice,
		}
	}
	return inputs
}

func ruleInputs(rules []request.BonusRuleRequest) []service.BonusRuleInput {
	inputs := make([]service.BonusRuleInput, len(rules))
	for i, rule := range rules {
		inputs[i] = service.BonusRuleInput{
			Enabled:        rule.Enabled,
			Threshold:      rule.Threshold,
			BonusProductID: rule.BonusProductID,
			BonusQuantity:  rule.BonusQuantity,
		}
	}
	return inputs
}
