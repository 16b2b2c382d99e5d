// Package settlement implements the read-modify step of pre-sale payment
// settlement. It is pure: callers load the pre-sale and every product it
// touches, Apply mutates those snapshots, and the repository persists the
// whole set inside one database transaction.
package settlement

import (
	"time"

	"github.com/google/uuid"

	"github.com/granjasanluis/reparto-api/internal/domain/bonus"
	"github.com/granjasanluis/reparto-api/internal/domain/entity"
	"github.com/granjasanluis/reparto-api/internal/domain/enum"
	"github.com/granjasanluis/reparto-api/pkg/apperror"
)

// Result describes what settlement changed
type Result struct {
	SettledAt time.Time
	// Awards lists the bonus quantities actually granted per product,
	// including zero-quantity entries where bonus stock had run out.
	Awards []entity.BonusAward
	// Products are the product snapshots whose stock changed (or whose
	// award was recorded), ready to be persisted.
	Products []*entity.Product
}

// Apply settles a dispatched pre-sale: marks it paid, decrements sold
// stock, and grants bonus items according to the products' current rules,
// clamping bonus decrements so no bonus product's stock goes below zero.
// Sold-stock decrements are deliberately not clamped; quantities were
// validated when the order was taken.
//
// products must contain every product referenced by the order's regular
// items; bonus targets missing from the map are skipped. On any failed
// precondition nothing is mutated.
func Apply(preSale *entity.PreSale, products map[uuid.UUID]*entity.Product, callerID uuid.UUID, now time.Time) (*Result, error) {
	if preSale == nil {
		return nil, apperror.NewNotFoundError("Pre-sale")
	}
	if preSale.DeliveryAgentID == nil || *preSale.DeliveryAgentID != callerID {
		return nil, apperror.NewForbiddenError("Only the assigned delivery agent can settle this pre-sale")
	}
	if preSale.Status != enum.PreSaleStatusDispatched {
		return nil, apperror.NewPreconditionFailedError(
			"Pre-sale cannot be settled from status " + preSale.Status.String())
	}

	sold := regularLines(preSale.Items)
	for _, line := range sold {
		if products[line.ProductID] == nil {
			return nil, apperror.NewNotFoundError("Product")
		}
	}

	touched := make(map[uuid.UUID]*entity.Product)

	// Sold stock first. No floor here: the decrement mirrors what was
	// promised at order time even if stock drifted.
	for _, line := range sold {
		product := products[line.ProductID]
		product.Quantity -= line.Quantity
		touched[product.ID] = product
	}

	// Bonus grants are recomputed from the rules as they exist right now,
	// not from the bonus lines stored when the cart was built.
	grants := bonus.Aggregate(sold, func(productID uuid.UUID) []entity.BonusRule {
		return products[productID].BonusRules
	})

	awards := make([]entity.BonusAward, 0, len(grants))
	for _, grant := range grants {
		product, ok := products[grant.ProductID]
		if !ok {
			continue
		}

		granted := grant.Quantity
		if product.Quantity < granted {
			granted = product.Quantity
		}
		if granted < 0 {
			granted = 0
		}

		product.Quantity -= granted
		touched[product.ID] = product

		awards = append(awards, entity.BonusAward{
			PreSaleID: preSale.ID,
			ProductID: grant.ProductID,
			Quantity:  granted,
		})
	}

	preSale.Status = enum.PreSaleStatusPaid
	preSale.SettledAt = &now

	result := &Result{SettledAt: now, Awards: awards}
	for _, product := range touched {
		result.Products = append(result.Products, product)
	}
	return result, nil
}

func regularLines(items []entity.PreSaleItem) []bonus.Line {
	lines := make([]bonus.Line, 0, len(items))
	for _, item := range items {
		if item.IsBonus {
			continue
		}
		lines = append(lines, bonus.Line{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines
}
