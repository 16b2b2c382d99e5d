package request

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	FirstName string  `json:"first_name" binding:"required,min=2,max=255"`
	LastName  string  `json:"last_name" binding:"required,min=2,max=255"`
	Phone     *string `json:"phone" binding:"omitempty,max=50"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Address   *string `json:"address"`
	Discount  float64 `json:"discount" binding:"min=0,max=100"`
	Notes     *string `json:"notes"`
}

// UpdateCustomerRequest represents a customer update request
type UpdateCustomerRequest struct {
	FirstName *string  `json:"first_name" binding:"omitempty,min=2,max=255"`
	LastName  *string  `json:"last_name" binding:"omitempty,min=2,max=255"`
	Phone     *string  `json:"phone" binding:"omitempty,max=50"`
	Email     *string  `json:"email" binding:"omitempty,email"`
	Address   *string  `json:"address"`
	Discount  *float64 `json:"discount" binding:"omitempty,min=0,max=100"`
	Notes     *string  `json:"notes"`
}
