package request

import "github.com/google/uuid"

// CreateCreditRequest opens a credit account for a customer
type CreateCreditRequest struct {
	CustomerID uuid.UUID  `json:"customer_id" binding:"required"`
	PreSaleID  *uuid.UUID `json:"presale_id"`
	Total      float64    `json:"total" binding:"required,gt=0"`
}

// RegisterPaymentRequest records an abono. Paid and pending carry the
// balance snapshot the client was showing when the payment was taken.
type RegisterPaymentRequest struct {
	Amount  float64 `json:"amount" binding:"required,gt=0"`
	Paid    float64 `json:"paid" binding:"min=0"`
	Pending float64 `json:"pending" binding:"required,gt=0"`
}

// CreditFilterRequest represents credit filter parameters
type CreditFilterRequest struct {
	Status     string `form:"status"`
	CustomerID string `form:"customer_id"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
