package pricing

import (
	"math"

	"github.com/granjasanluis/reparto-api/internal/domain/entity"
)

// Quote is the outcome of a price computation for one cart line
type Quote struct {
	UnitPrice     int64 `json:"-"` // cents
	UsedWholesale bool  `json:"used_wholesale"`
}

// Compute returns the unit price to charge for quantity units of product,
// optionally for a specific customer.
//
// A wholesale tier wins when the quantity reaches its threshold; among
// applicable tiers the one with the highest threshold is taken and its
// price is used as-is. The customer discount percentage applies only when
// no tier matched; wholesale and discount are never combined.
//
// Quantities of zero or less are the caller's responsibility to reject
// before asking for a quote.
func Compute(product *entity.Product, quantity int, customer *entity.Customer) Quote {
	if product == nil {
		return Quote{}
	}

	price := product.SalePrice

	if tier := bestTier(product.WholesaleTiers, quantity); tier != nil {
		return Quote{UnitPrice: tier.UnitPrice, UsedWholesale: true}
	}

	if customer != nil && customer.Discount > 0 {
		price = applyDiscount(price, customer.Discount)
	}

	return Quote{UnitPrice: price}
}

// bestTier selects the tier with the highest threshold not exceeding the
// requested quantity, or nil when none applies
func bestTier(tiers []entity.WholesaleTier, quantity int) *entity.WholesaleTier {
	var best *entity.WholesaleTier
	for i := range tiers {
		tier := &tiers[i]
		if tier.Threshold <= 0 || quantity < tier.Threshold {
			continue
		}
		if best == nil || tier.Threshold > best.Threshold {
			best = tier
		}
	}
	return best
}

// applyDiscount applies a percentage discount to a price in cents,
// rounding to the nearest cent
func applyDiscount(price int64, percent float64) int64 {
	return int64(math.Round(float64(price) * (1 - percent/100)))
}
