package request

// CreateRouteRequest represents a delivery route creation request
type CreateRouteRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=255"`
	Description *string `json:"description"`
}

// UpdateRouteRequest represents a delivery route update request
type UpdateRouteRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=255"`
	Description *string `json:"description"`
}
