package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/granjasanluis/reparto-api/internal/domain/enum"
	"gorm.io/gorm"
)

// PreSale represents a customer order moving through warehouse prep and
// delivery until payment is settled
type PreSale struct {
	ID              uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptNo       string             `gorm:"size:100;unique;not null" json:"receipt_no"`
	CustomerID      *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Status          enum.PreSaleStatus `gorm:"default:0;index" json:"status"`
	Subtotal        int64              `gorm:"default:0" json:"-"` // Stored in cents
	TotalDiscount   int64              `gorm:"default:0" json:"-"` // Stored in cents
	Total           int64              `gorm:"default:0" json:"-"` // Stored in cents
	DeliveryAgentID *uuid.UUID         `gorm:"type:uuid;index" json:"delivery_agent_id,omitempty"`
	RouteID         *uuid.UUID         `gorm:"type:uuid;index" json:"route_id,omitempty"`
	DispatchedAt    *time.Time         `json:"dispatched_at,omitempty"`
	SettledAt       *time.Time         `json:"settled_at,omitempty"`
	CreatedBy       uuid.UUID          `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	DeletedAt       gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Customer      *Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	DeliveryAgent *User          `gorm:"foreignKey:DeliveryAgentID" json:"delivery_agent,omitempty"`
	Route         *Route         `gorm:"foreignKey:RouteID" json:"route,omitempty"`
	Items         []PreSaleItem  `gorm:"foreignKey:PreSaleID" json:"items,omitempty"`
	BonusAwards   []BonusAward   `gorm:"foreignKey:PreSaleID" json:"bonus_awards,omitempty"`
	History       []PreSaleEvent `gorm:"foreignKey:PreSaleID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new pre-sale
func (p *PreSale) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PreSale model
func (PreSale) TableName() string {
	return "presales"
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p PreSale) MarshalJSON() ([]byte, error) {
	type Alias PreSale
	return json.Marshal(&struct {
		Alias
		Subtotal      float64 `json:"subtotal"`
		TotalDiscount float64 `json:"total_discount"`
		Total         float64 `json:"total"`
	}{
		Alias:         Alias(p),
		Subtotal:      float64(p.Subtotal) / 100,
		TotalDiscount: float64(p.TotalDiscount) / 100,
		Total:         float64(p.Total) / 100,
	})
}

// PreSaleItem is an ordered line item with its unit price snapshot. Bonus
// lines synthesized by the cart are stored here too, flagged with IsBonus
// and always priced at zero.
type PreSaleItem struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	PreSaleID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"presale_id"`
	ProductID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string         `gorm:"size:255;not null" json:"product_name"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	UnitPrice   int64          `gorm:"not null" json:"-"` // Stored in cents
	Discount    int64          `gorm:"default:0" json:"-"` // Stored in cents
	Total       int64          `gorm:"not null" json:"-"` // Stored in cents
	IsBonus     bool           `gorm:"default:false" json:"is_bonus"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new pre-sale item
func (i *PreSaleItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PreSaleItem model
func (PreSaleItem) TableName() string {
	return "presale_items"
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (i PreSaleItem) MarshalJSON() ([]byte, error) {
	type Alias PreSaleItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Discount  float64 `json:"discount"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(i),
		UnitPrice: float64(i.UnitPrice) / 100,
		Discount:  float64(i.Discount) / 100,
		Total:     float64(i.Total) / 100,
	})
}

// BonusAward records a bonus quantity actually granted at settlement.
// Quantity may be lower than the rules intended when bonus stock ran out,
// down to zero; zero awards are kept for audit visibility.
type BonusAward struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PreSaleID uuid.UUID `gorm:"type:uuid;not null;index" json:"presale_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new bonus award
func (a *BonusAward) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BonusAward model
func (BonusAward) TableName() string {
	return "bonus_awards"
}

// PreSaleEvent is an append-only history record for a pre-sale
type PreSaleEvent struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PreSaleID uuid.UUID `gorm:"type:uuid;not null;index" json:"presale_id"`
	Action    string    `gorm:"size:50;not null" json:"action"`
	Details   string    `gorm:"type:text" json:"details"`
	UserID    uuid.UUID `gorm:"type:uuid" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new history event
func (e *PreSaleEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PreSaleEvent model
func (PreSaleEvent) TableName() string {
	return "presale_events"
}

// History event actions
const (
	PreSaleEventCreate   = "CREATE"
	PreSaleEventEdit     = "EDIT"
	PreSaleEventStatus   = "STATUS"
	PreSaleEventDispatch = "DISPATCH"
	PreSaleEventSettle   = "SETTLE"
)
