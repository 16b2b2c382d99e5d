package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granjasanluis/reparto-api/internal/domain/entity"
	"github.com/granjasanluis/reparto-api/internal/domain/enum"
)

func TestWarehouseSummaryGroupsAcrossOrders(t *testing.T) {
	polloID := uuid.New()
	huevoID := uuid.New()

	orderA := &entity.PreSale{
		ID:     uuid.New(),
		Status: enum.PreSaleStatusPending,
		Items: []entity.PreSaleItem{
			{ProductID: polloID, ProductName: "Pollo entero", Quantity: 10},
			{ProductID: huevoID, ProductName: "Caja de huevo", Quantity: 2, IsBonus: true},
		},
	}
	orderB := &entity.PreSale{
		ID:     uuid.New(),
		Status: enum.PreSaleStatusPreparing,
		Items: []entity.PreSaleItem{
			{ProductID: polloID, ProductName: "Pollo entero", Quantity: 6},
		},
	}
	svc := NewWarehouseService(newFakePreSaleRepo(orderA, orderB))

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Len(t, summary, 2)

	// Largest total demand first
	assert.Equal(t, polloID, summary[0].ProductID)
	assert.Equal(t, 16, summary[0].Quantity)
	assert.Equal(t, 0, summary[0].BonusQuantity)
	assert.Equal(t, 16, summary[0].TotalQuantity)
	assert.Equal(t, 2, summary[0].Orders)

	assert.Equal(t, huevoID, summary[1].ProductID)
	assert.Equal(t, 0, summary[1].Quantity)
	assert.Equal(t, 2, summary[1].BonusQuantity)
	assert.Equal(t, 1, summary[1].Orders)
}

func TestWarehouseSummaryExcludesDispatchedAndPaid(t *testing.T) {
	agentID := uuid.New()
	polloID := uuid.New()

	dispatched := &entity.PreSale{
		ID:              uuid.New(),
		Status:          enum.PreSaleStatusDispatched,
		DeliveryAgentID: &agentID,
		Items: []entity.PreSaleItem{
			{ProductID: polloID, ProductName: "Pollo entero", Quantity: 10},
		},
	}
	ready := &entity.PreSale{
		ID:     uuid.New(),
		Status: enum.PreSaleStatusReadyForDelivery,
		Items: []entity.PreSaleItem{
			{ProductID: polloID, ProductName: "Pollo entero", Quantity: 3},
		},
	}
	svc := NewWarehouseService(newFakePreSaleRepo(dispatched, ready))

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, 3, summary[0].TotalQuantity)
}

func TestWarehouseSummaryEmptyPipeline(t *testing.T) {
	svc := NewWarehouseService(newFakePreSaleRepo())

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summary)
}
