package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Route represents a delivery route. Pre-sales are assigned a route so
// delivery agents can work through their stops zone by zone.
type Route struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name        string         `gorm:"size:255;unique;not null" json:"name"`
	Description *string        `gorm:"type:text" json:"description,omitempty"`
	CreatedBy   uuid.UUID      `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	PreSales []PreSale `gorm:"foreignKey:RouteID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new route
func (r *Route) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Route model
func (Route) TableName() string {
	return "routes"
}
