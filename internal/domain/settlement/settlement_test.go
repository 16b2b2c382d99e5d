package settlement

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granjasanluis/reparto-api/internal/domain/entity"
	"github.com/granjasanluis/reparto-api/internal/domain/enum"
	"github.com/granjasanluis/reparto-api/pkg/apperror"
)

func stockedProduct(name string, quantity int) *entity.Product {
	return &entity.Product{
		ID:       uuid.New(),
		Name:     name,
		Quantity: quantity,
	}
}

func dispatchedPreSale(agentID uuid.UUID, items ...entity.PreSaleItem) *entity.PreSale {
	return &entity.PreSale{
		ID:              uuid.New(),
		ReceiptNo:       "PS-TEST0001",
		Status:          enum.PreSaleStatusDispatched,
		DeliveryAgentID: &agentID,
		Items:           items,
	}
}

func soldItem(productID uuid.UUID, quantity int) entity.PreSaleItem {
	return entity.PreSaleItem{ProductID: productID, Quantity: quantity}
}

func productMap(products ...*entity.Product) map[uuid.UUID]*entity.Product {
	m := make(map[uuid.UUID]*entity.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return m
}

func TestApplySettlesAndDecrementsStock(t *testing.T) {
	agentID := uuid.New()
	pollo := stockedProduct("Pollo entero", 50)
	pre := dispatchedPreSale(agentID, soldItem(pollo.ID, 12))
	now := time.Now()

	result, err := Apply(pre, productMap(pollo), agentID, now)
	require.NoError(t, err)

	assert.Equal(t, enum.PreSaleStatusPaid, pre.Status)
	require.NotNil(t, pre.SettledAt)
	assert.Equal(t, now, *pre.SettledAt)
	assert.Equal(t, 38, pollo.Quantity)
	assert.Equal(t, now, result.SettledAt)
	assert.Empty(t, result.Awards)
}

func TestApplyRejectsWrongStatus(t *testing.T) {
	agentID := uuid.New()
	pollo := stockedProduct("Pollo entero", 50)

	statuses := []enum.PreSaleStatus{
		enum.PreSaleStatusPending,
		enum.PreSaleStatusPreparing,
		enum.PreSaleStatusReadyForDelivery,
		enum.PreSaleStatusPaid,
	}

	for _, status := range statuses {
		t.Run(status.String(), func(t *testing.T) {
			pre := dispatchedPreSale(agentID, soldItem(pollo.ID, 5))
			pre.Status = status

			_, err := Apply(pre, productMap(pollo), agentID, time.Now())
			require.Error(t, err)

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, 412, appErr.Code)
			assert.Equal(t, 50, pollo.Quantity, "failed settlement must not touch stock")
		})
	}
}

func TestApplyRejectsSecondSettlement(t *testing.T) {
	agentID := uuid.New()
	pollo := stockedProduct("Pollo entero", 50)
	pre := dispatchedPreSale(agentID, soldItem(pollo.ID, 5))

	_, err := Apply(pre, productMap(pollo), agentID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 45, pollo.Quantity)

	_, err = Apply(pre, productMap(pollo), agentID, time.Now())
	require.Error(t, err)
	assert.Equal(t, 45, pollo.Quantity, "double settlement must not decrement twice")
}

func TestApplyRejectsWrongAgent(t *testing.T) {
	agentID := uuid.New()
	pollo := stockedProduct("Pollo entero", 50)
	pre := dispatchedPreSale(agentID, soldItem(pollo.ID, 5))

	_, err := Apply(pre, productMap(pollo), uuid.New(), time.Now())
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Code)
	assert.Equal(t, enum.PreSaleStatusDispatched, pre.Status)
}

func TestApplyRejectsUnassignedPreSale(t *testing.T) {
	pollo := stockedProduct("Pollo entero", 50)
	pre := dispatchedPreSale(uuid.New(), soldItem(pollo.ID, 5))
	pre.DeliveryAgentID = nil

	_, err := Apply(pre, productMap(pollo), uuid.New(), time.Now())
	require.Error(t, err)
}

func TestApplyGrantsBonusesFromCurrentRules(t *testing.T) {
	agentID := uuid.New()
	huevo := stockedProduct("Caja de huevo", 100)
	pollo := stockedProduct("Pollo entero", 50)
	pollo.BonusRules = []entity.BonusRule{{
		ID:             uuid.New(),
		ProductID:      pollo.ID,
		Enabled:        true,
		Threshold:      5,
		BonusProductID: huevo.ID,
		BonusQuantity:  1,
	}}

	pre := dispatchedPreSale(agentID, soldItem(pollo.ID, 12))

	result, err := Apply(pre, productMap(pollo, huevo), agentID, time.Now())
	require.NoError(t, err)

	require.Len(t, result.Awards, 1)
	assert.Equal(t, huevo.ID, result.Awards[0].ProductID)
	assert.Equal(t, 2, result.Awards[0].Quantity)
	assert.Equal(t, 98, huevo.Quantity)
	assert.Equal(t, 38, pollo.Quantity)
}

func TestApplyAggregatesBonusesAcrossLines(t *testing.T) {
	agentID := uuid.New()
	huevo := stockedProduct("Caja de huevo", 100)
	pollo := stockedProduct("Pollo entero", 50)
	pierna := stockedProduct("Pierna de pollo", 40)
	pollo.BonusRules = []entity.BonusRule{{
		ID: uuid.New(), ProductID: pollo.ID, Enabled: true,
		Threshold: 5, BonusProductID: huevo.ID, BonusQuantity: 1,
	}}
	pierna.BonusRules = []entity.BonusRule{{
		ID: uuid.New(), ProductID: pierna.ID, Enabled: true,
		Threshold: 3, BonusProductID: huevo.ID, BonusQuantity: 1,
	}}

	pre := dispatchedPreSale(agentID,
		soldItem(pollo.ID, 10),
		soldItem(pierna.ID, 6),
	)

	result, err := Apply(pre, productMap(pollo, pierna, huevo), agentID, time.Now())
	require.NoError(t, err)

	require.Len(t, result.Awards, 1, "grants for the same product merge into one award")
	assert.Equal(t, 4, result.Awards[0].Quantity)
	assert.Equal(t, 96, huevo.Quantity)
}

func TestApplyClampsBonusToAvailableStock(t *testing.T) {
	agentID := uuid.New()
	huevo := stockedProduct("Caja de huevo", 3)
	pollo := stockedProduct("Pollo entero", 100)
	pollo.BonusRules = []entity.BonusRule{{
		ID: uuid.New(), ProductID: pollo.ID, Enabled: true,
		Threshold: 5, BonusProductID: huevo.ID, BonusQuantity: 1,
	}}

	pre := dispatchedPreSale(agentID, soldItem(pollo.ID, 50))

	result, err := Apply(pre, productMap(pollo, huevo), agentID, time.Now())
	require.NoError(t, err)

	require.Len(t, result.Awards, 1)
	assert.Equal(t, 3, result.Awards[0].Quantity, "intended 10, clamped to stock")
	assert.Equal(t, 0, huevo.Quantity, "bonus stock floors at zero")
}

func TestApplyRecordsZeroAwardWhenBonusStockExhausted(t *testing.T) {
	agentID := uuid.New()
	huevo := stockedProduct("Caja de huevo", 0)
	pollo := stockedProduct("Pollo entero", 100)
	pollo.BonusRules = []entity.BonusRule{{
		ID: uuid.New(), ProductID: pollo.ID, Enabled: true,
		Threshold: 5, BonusProductID: huevo.ID, BonusQuantity: 1,
	}}

	pre := dispatchedPreSale(agentID, soldItem(pollo.ID, 10))

	result, err := Apply(pre, productMap(pollo, huevo), agentID, time.Now())
	require.NoError(t, err)

	require.Len(t, result.Awards, 1, "exhausted bonus still leaves an audit record")
	assert.Equal(t, 0, result.Awards[0].Quantity)
	assert.Equal(t, 0, huevo.Quantity)
}

func TestApplySoldDecrementIsNotClamped(t *testing.T) {
	agentID := uuid.New()
	pollo := stockedProduct("Pollo entero", 3)
	pre := dispatchedPreSale(agentID, soldItem(pollo.ID, 10))

	_, err := Apply(pre, productMap(pollo), agentID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, -7, pollo.Quantity)
}

func TestApplySkipsBonusLinesAndMissingBonusTargets(t *testing.T) {
	agentID := uuid.New()
	pollo := stockedProduct("Pollo entero", 50)
	missing := uuid.New()
	pollo.BonusRules = []entity.BonusRule{{
		ID: uuid.New(), ProductID: pollo.ID, Enabled: true,
		Threshold: 5, BonusProductID: missing, BonusQuantity: 1,
	}}

	pre := dispatchedPreSale(agentID,
		soldItem(pollo.ID, 10),
		entity.PreSaleItem{ProductID: missing, Quantity: 2, IsBonus: true},
	)

	result, err := Apply(pre, productMap(pollo), agentID, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 40, pollo.Quantity, "bonus lines do not decrement sold stock")
	assert.Empty(t, result.Awards, "unresolvable bonus target is skipped")
}
