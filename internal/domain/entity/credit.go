package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/granjasanluis/reparto-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Credit represents an outstanding customer balance being paid off in
// partial payments (abonos)
type Credit struct {
	ID         uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID uuid.UUID         `gorm:"type:uuid;not null;index" json:"customer_id"`
	PreSaleID  *uuid.UUID        `gorm:"type:uuid;index" json:"presale_id,omitempty"`
	Total      int64             `gorm:"not null" json:"-"`  // Stored in cents
	Paid       int64             `gorm:"default:0" json:"-"` // Stored in cents
	Pending    int64             `gorm:"not null" json:"-"`  // Stored in cents, never negative
	Status     enum.CreditStatus `gorm:"default:0;index" json:"status"`
	CreatedBy  uuid.UUID         `gorm:"type:uuid" json:"created_by"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
	DeletedAt  gorm.DeletedAt    `gorm:"index" json:"-"`

	// Relationships
	Customer Customer        `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Payments []CreditPayment `gorm:"foreignKey:CreditID" json:"payments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new credit
func (c *Credit) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Credit model
func (Credit) TableName() string {
	return "credits"
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (c Credit) MarshalJSON() ([]byte, error) {
	type Alias Credit
	return json.Marshal(&struct {
		Alias
		Total   float64 `json:"total"`
		Paid    float64 `json:"paid"`
		Pending float64 `json:"pending"`
	}{
		Alias:   Alias(c),
		Total:   float64(c.Total) / 100,
		Paid:    float64(c.Paid) / 100,
		Pending: float64(c.Pending) / 100,
	})
}

// CreditPayment is an append-only record of a partial payment against a
// credit account
type CreditPayment struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreditID   uuid.UUID `gorm:"type:uuid;not null;index" json:"credit_id"`
	Amount     int64     `gorm:"not null" json:"-"` // Stored in cents
	RecordedBy uuid.UUID `gorm:"type:uuid;not null" json:"recorded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new credit payment
func (p *CreditPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CreditPayment model
func (CreditPayment) TableName() string {
	return "credit_payments"
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p CreditPayment) MarshalJSON() ([]byte, error) {
	type Alias CreditPayment
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(p),
		Amount: float64(p.Amount) / 100,
	})
}
