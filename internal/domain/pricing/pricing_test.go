package pricing_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/granjasanluis/reparto-api/internal/domain/entity"
	"github.com/granjasanluis/reparto-api/internal/domain/pricing"
)

func newProduct(salePrice int64, tiers ...entity.WholesaleTier) *entity.Product {
	return &entity.Product{
		ID:             uuid.New(),
		Name:           "Pollo entero",
		SalePrice:      salePrice,
		WholesaleTiers: tiers,
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name          string
		product       *entity.Product
		quantity      int
		customer      *entity.Customer
		wantUnitPrice int64
		wantWholesale bool
	}{
		{
			name:          "base_price",
			product:       newProduct(5000),
			quantity:      1,
			wantUnitPrice: 5000,
		},
		{
			name:          "wholesale_threshold_met",
			product:       newProduct(5000, entity.WholesaleTier{Threshold: 10, UnitPrice: 4200}),
			quantity:      10,
			wantUnitPrice: 4200,
			wantWholesale: true,
		},
		{
			name:          "wholesale_threshold_not_met",
			product:       newProduct(5000, entity.WholesaleTier{Threshold: 10, UnitPrice: 4200}),
			quantity:      9,
			wantUnitPrice: 5000,
		},
		{
			name: "highest_applicable_tier_wins",
			product: newProduct(5000,
				entity.WholesaleTier{Threshold: 10, UnitPrice: 4200},
				entity.WholesaleTier{Threshold: 50, UnitPrice: 3800},
				entity.WholesaleTier{Threshold: 100, UnitPrice: 3500},
			),
			quantity:      60,
			wantUnitPrice: 3800,
			wantWholesale: true,
		},
		{
			name:          "customer_discount",
			product:       newProduct(5000),
			quantity:      1,
			customer:      &entity.Customer{Discount: 10},
			wantUnitPrice: 4500,
		},
		{
			name:          "discount_rounds_to_nearest_cent",
			product:       newProduct(999),
			quantity:      1,
			customer:      &entity.Customer{Discount: 12.5},
			wantUnitPrice: 874, // 999 * 0.875 = 874.125
		},
		{
			name:          "wholesale_suppresses_customer_discount",
			product:       newProduct(5000, entity.WholesaleTier{Threshold: 10, UnitPrice: 4200}),
			quantity:      12,
			customer:      &entity.Customer{Discount: 50},
			wantUnitPrice: 4200,
			wantWholesale: true,
		},
		{
			name:          "zero_discount_is_ignored",
			product:       newProduct(5000),
			quantity:      3,
			customer:      &entity.Customer{Discount: 0},
			wantUnitPrice: 5000,
		},
		{
			name:          "missing_price_defaults_to_zero",
			product:       newProduct(0),
			quantity:      5,
			customer:      &entity.Customer{Discount: 25},
			wantUnitPrice: 0,
		},
		{
			name:          "nil_product",
			product:       nil,
			quantity:      5,
			wantUnitPrice: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote := pricing.Compute(tt.product, tt.quantity, tt.customer)
			assert.Equal(t, tt.wantUnitPrice, quote.UnitPrice)
			assert.Equal(t, tt.wantWholesale, quote.UsedWholesale)
		})
	}
}

func TestComputeIgnoresInvalidTiers(t *testing.T) {
	product := newProduct(5000,
		entity.WholesaleTier{Threshold: 0, UnitPrice: 100},
		entity.WholesaleTier{Threshold: -5, UnitPrice: 200},
	)

	quote := pricing.Compute(product, 20, nil)

	assert.Equal(t, int64(5000), quote.UnitPrice)
	assert.False(t, quote.UsedWholesale)
}
