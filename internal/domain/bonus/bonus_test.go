package bonus_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/granjasanluis/reparto-api/internal/domain/bonus"
	"github.com/granjasanluis/reparto-api/internal/domain/entity"
)

func TestAggregate(t *testing.T) {
	productA := uuid.New()
	productB := uuid.New()
	freebie := uuid.New()
	otherFreebie := uuid.New()

	rules := map[uuid.UUID][]entity.BonusRule{
		productA: {
			{Enabled: true, Threshold: 5, BonusProductID: freebie, BonusQuantity: 1},
		},
		productB: {
			{Enabled: true, Threshold: 3, BonusProductID: freebie, BonusQuantity: 1},
			{Enabled: true, Threshold: 10, BonusProductID: otherFreebie, BonusQuantity: 2},
		},
	}

	t.Run("single_line_single_rule", func(t *testing.T) {
		grants := bonus.Aggregate(
			[]bonus.Line{{ProductID: productA, Quantity: 12}},
			bonus.RulesByProduct(rules),
		)

		assert.Equal(t, []bonus.Grant{{ProductID: freebie, Quantity: 2}}, grants)
	})

	t.Run("below_threshold_grants_nothing", func(t *testing.T) {
		grants := bonus.Aggregate(
			[]bonus.Line{{ProductID: productA, Quantity: 4}},
			bonus.RulesByProduct(rules),
		)

		assert.Empty(t, grants)
	})

	t.Run("merges_grants_for_same_target", func(t *testing.T) {
		// A: 10/5 -> 2 units, B: 6/3 -> 2 units, both targeting freebie
		grants := bonus.Aggregate(
			[]bonus.Line{
				{ProductID: productA, Quantity: 10},
				{ProductID: productB, Quantity: 6},
			},
			bonus.RulesByProduct(rules),
		)

		assert.Equal(t, []bonus.Grant{{ProductID: freebie, Quantity: 4}}, grants)
	})

	t.Run("multiple_rules_on_one_product", func(t *testing.T) {
		grants := bonus.Aggregate(
			[]bonus.Line{{ProductID: productB, Quantity: 10}},
			bonus.RulesByProduct(rules),
		)

		assert.Equal(t, []bonus.Grant{
			{ProductID: freebie, Quantity: 3},
			{ProductID: otherFreebie, Quantity: 2},
		}, grants)
	})

	t.Run("disabled_and_malformed_rules_are_skipped", func(t *testing.T) {
		broken := map[uuid.UUID][]entity.BonusRule{
			productA: {
				{Enabled: false, Threshold: 5, BonusProductID: freebie, BonusQuantity: 1},
				{Enabled: true, Threshold: 0, BonusProductID: freebie, BonusQuantity: 1},
				{Enabled: true, Threshold: 5, BonusProductID: freebie, BonusQuantity: 0},
			},
		}

		grants := bonus.Aggregate(
			[]bonus.Line{{ProductID: productA, Quantity: 50}},
			bonus.RulesByProduct(broken),
		)

		assert.Empty(t, grants)
	})

	t.Run("deterministic_across_runs", func(t *testing.T) {
		lines := []bonus.Line{
			{ProductID: productB, Quantity: 30},
			{ProductID: productA, Quantity: 25},
		}

		first := bonus.Aggregate(lines, bonus.RulesByProduct(rules))
		second := bonus.Aggregate(lines, bonus.RulesByProduct(rules))

		assert.Equal(t, first, second)
	})
}
