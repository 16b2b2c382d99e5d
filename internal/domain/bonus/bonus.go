// Package bonus computes free-item grants from product bonus rules. The
// cart uses it to synthesize bonus lines while selling; settlement uses it
// again, against rules re-read inside its transaction, to decide the
// quantities actually granted.
package bonus

import (
	"github.com/google/uuid"

	"github.com/granjasanluis/reparto-api/internal/domain/entity"
)

// Line is a sold (regular, non-bonus) quantity of one product
type Line struct {
	ProductID uuid.UUID
	Quantity  int
}

// Grant is the intended bonus quantity for one target product
type Grant struct {
	ProductID uuid.UUID
	Quantity  int
}

// RuleSource resolves the bonus rules for a product
type RuleSource func(productID uuid.UUID) []entity.BonusRule

// Aggregate computes the intended bonus grants for a set of sold lines.
// Each active rule triggers floor(quantity/threshold) times, granting
// bonusQuantity units per trigger. Grants from different lines or rules
// that target the same product are merged into a single entry, in the
// order the target product was first encountered, so the result is a
// deterministic function of its inputs.
func Aggregate(lines []Line, rulesFor RuleSource) []Grant {
	grants := make([]Grant, 0)
	index := make(map[uuid.UUID]int)

	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		for _, rule := range rulesFor(line.ProductID) {
			if !rule.IsActive() {
				continue
			}
			timesTriggered := line.Quantity / rule.Threshold
			if timesTriggered == 0 {
				continue
			}
			quantity := timesTriggered * rule.BonusQuantity

			if i, ok := index[rule.BonusProductID]; ok {
				grants[i].Quantity += quantity
				continue
			}
			index[rule.BonusProductID] = len(grants)
			grants = append(grants, Grant{ProductID: rule.BonusProductID, Quantity: quantity})
		}
	}

	return grants
}

// RulesByProduct adapts a prefetched rule map into a RuleSource
func RulesByProduct(rules map[uuid.UUID][]entity.BonusRule) RuleSource {
	return func(productID uuid.UUID) []entity.BonusRule {
		return rules[productID]
	}
}
