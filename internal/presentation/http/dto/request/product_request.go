package request

import "github.com/google/uuid"

// WholesaleTierRequest represents one wholesale tier of a product
type WholesaleTierRequest struct {
	Threshold int     `json:"threshold" binding:"required,min=1"`
	UnitPrice float64 `json:"unit_price" binding:"min=0"`
}

// BonusRuleRequest represents one bonus rule of a product
type BonusRuleRequest struct {
	Enabled        bool      `json:"enabled"`
	Threshold      int       `json:"threshold" binding:"required,min=1"`
	BonusProductID uuid.UUID `json:"bonus_product_id" binding:"required"`
	BonusQuantity  int       `json:"bonus_quantity" binding:"required,min=1"`
}

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Name           string                 `json:"name" binding:"required,min=2,max=255"`
	Code           string                 `json:"code" binding:"omitempty,max=100"`
	Quantity       int                    `json:"quantity" binding:"min=0"`
	QuantityAlert  int                    `json:"quantity_alert" binding:"min=0"`
	SalePrice      float64                `json:"sale_price" binding:"min=0"`
	Notes          *string                `json:"notes"`
	WholesaleTiers []WholesaleTierRequest `json:"wholesale_tiers" binding:"omitempty,dive"`
	BonusRules     []BonusRuleRequest     `json:"bonus_rules" binding:"omitempty,dive"`
}

// UpdateProductRequest represents a product update request. Tier and rule
// sets, when present, replace the stored sets whole.
type UpdateProductRequest struct {
	Name           *string                 `json:"name" binding:"omitempty,min=2,max=255"`
	Code           *string                 `json:"code" binding:"omitempty,min=1,max=100"`
	Quantity       *int                    `json:"quantity" binding:"omitempty,min=0"`
	QuantityAlert  *int                    `json:"quantity_alert" binding:"omitempty,min=0"`
	SalePrice      *float64                `json:"sale_price" binding:"omitempty,min=0"`
	Notes          *string                 `json:"notes"`
	WholesaleTiers *[]WholesaleTierRequest `json:"wholesale_tiers" binding:"omitempty,dive"`
	BonusRules     *[]BonusRuleRequest     `json:"bonus_rules" binding:"omitempty,dive"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search    string `form:"search"`
	LowStock  bool   `form:"low_stock"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
