package request

import "github.com/google/uuid"

// CartItemRequest represents one requested line of a cart or pre-sale
type CartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
	Discount  float64   `json:"discount" binding:"omitempty,min=0"`
}

// QuoteCartRequest prices a cart without creating anything
type QuoteCartRequest struct {
	CustomerID *uuid.UUID        `json:"customer_id"`
	Items      []CartItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreatePreSaleRequest represents a pre-sale creation request
type CreatePreSaleRequest struct {
	CustomerID *uuid.UUID        `json:"customer_id"`
	RouteID    *uuid.UUID        `json:"route_id"`
	Items      []CartItemRequest `json:"items" binding:"required,min=1,dive"`
}

// RegisterSaleRequest represents a counter sale settled on registration
type RegisterSaleRequest struct {
	CustomerID *uuid.UUID        `json:"customer_id"`
	Items      []CartItemRequest `json:"items" binding:"required,min=1,dive"`
	Paid       float64           `json:"paid" binding:"min=0"`
}

// UpdatePreSaleStatusRequest moves a pre-sale between warehouse statuses
type UpdatePreSaleStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending preparing ready_for_delivery"`
}

// DispatchPreSaleRequest assigns a delivery agent
type DispatchPreSaleRequest struct {
	DeliveryAgentID uuid.UUID `json:"delivery_agent_id" binding:"required"`
}

// PreSaleFilterRequest represents pre-sale filter parameters
type PreSaleFilterRequest struct {
	Search          string `form:"search"`
	Status          string `form:"status"`
	CustomerID      string `form:"customer_id"`
	DeliveryAgentID string `form:"delivery_agent_id"`
	RouteID         string `form:"route_id"`
	StartDate       string `form:"start_date"`
	EndDate         string `form:"end_date"`
	SortBy          string `form:"sort_by"`
	SortOrder       string `form:"sort_order"`
	Page            int    `form:"page"`
	PerPage         int    `form:"per_page"`
}
