package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a product in the inventory
type Product struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Slug          string         `gorm:"size:255;unique;not null" json:"slug"`
	Code          string         `gorm:"size:100;unique;not null" json:"code"`
	Quantity      int            `gorm:"default:0" json:"quantity"`
	QuantityAlert int            `gorm:"default:0" json:"quantity_alert"`
	SalePrice     int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Notes         *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy     uuid.UUID      `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	WholesaleTiers []WholesaleTier `gorm:"foreignKey:ProductID" json:"wholesale_tiers,omitempty"`
	BonusRules     []BonusRule     `gorm:"foreignKey:ProductID" json:"bonus_rules,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// GetSalePriceDecimal returns the sale price as a decimal (for display)
func (p *Product) GetSalePriceDecimal() float64 {
	return float64(p.SalePrice) / 100
}

// SetSalePriceFromDecimal sets the sale price from a decimal value
func (p *Product) SetSalePriceFromDecimal(price float64) {
	p.SalePrice = int64(price * 100)
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		SalePrice float64 `json:"sale_price"`
	}{
		Alias:     Alias(p),
		SalePrice: p.GetSalePriceDecimal(),
	})
}

// WholesaleTier is a quantity-based price override. When a cart line's
// quantity reaches Threshold, UnitPrice replaces the product's sale price.
type WholesaleTier struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Threshold int       `gorm:"not null" json:"threshold"`
	UnitPrice int64     `gorm:"not null" json:"-"` // Stored in cents
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new wholesale tier
func (t *WholesaleTier) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the WholesaleTier model
func (WholesaleTier) TableName() string {
	return "wholesale_tiers"
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (t WholesaleTier) MarshalJSON() ([]byte, error) {
	type Alias WholesaleTier
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
	}{
		Alias:     Alias(t),
		UnitPrice: float64(t.UnitPrice) / 100,
	})
}

// BonusRule grants free items of a (possibly different) product once for
// every Threshold units of this product sold. A product may carry several
// rules targeting the same or different bonus products.
type BonusRule struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Enabled        bool      `gorm:"default:true" json:"enabled"`
	Threshold      int       `gorm:"not null" json:"threshold"`
	BonusProductID uuid.UUID `gorm:"type:uuid;not null" json:"bonus_product_id"`
	BonusQuantity  int       `gorm:"not null" json:"bonus_quantity"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new bonus rule
func (r *BonusRule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BonusRule model
func (BonusRule) TableName() string {
	return "bonus_rules"
}

// IsActive reports whether the rule can actually grant anything
func (r *BonusRule) IsActive() bool {
	return r.Enabled && r.Threshold > 0 && r.BonusQuantity > 0
}
