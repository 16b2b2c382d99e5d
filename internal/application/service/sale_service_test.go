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

func newSaleFixture(products ...*entity.Product) (*fakeProductRepo, *fakeCustomerRepo, *fakeCreditRepo, *SaleService) {
	productRepo := newFakeProductRepo(products...)
	customerRepo := newFakeCustomerRepo()
	creditRepo := newFakeCreditRepo()
	svc := NewSaleService(newFakePreSaleRepo(), productRepo, customerRepo, creditRepo)
	return productRepo, customerRepo, creditRepo, svc
}

func TestRegisterSaleFullPaymentSettlesWithoutCredit(t *testing.T) {
	pollo := testProduct("pollo-entero", 8500, 50)
	_, _, creditRepo, svc := newSaleFixture(pollo)

	result, err := svc.RegisterSale(context.Background(), &RegisterSaleInput{
		UserID: uuid.New(),
		Paid:   170, // 2 x 85.00
		CartInput: CartInput{
			Items: []CartItemInput{{ProductID: pollo.ID, Quantity: 2}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, enum.PreSaleStatusPaid, result.Sale.Status)
	assert.NotNil(t, result.Sale.SettledAt)
	assert.Equal(t, int64(17000), result.Sale.Total)
	assert.Nil(t, result.Credit)
	assert.Empty(t, creditRepo.credits)
}

func TestRegisterSaleDecrementsStockIncludingBonusLines(t *testing.T) {
	huevo := testProduct("caja-huevo", 12000, 100)
	pollo := testProduct("pollo-entero", 8500, 50)
	pollo.BonusRules = []entity.BonusRule{{
		ID: uuid.New(), ProductID: pollo.ID, Enabled: true,
		Threshold: 5, BonusProductID: huevo.ID, BonusQuantity: 1,
	}}
	productRepo, _, _, svc := newSaleFixture(pollo, huevo)

	result, err := svc.RegisterSale(context.Background(), &RegisterSaleInput{
		UserID: uuid.New(),
		Paid:   1020, // 12 x 85.00
		CartInput: CartInput{
			Items: []CartItemInput{{ProductID: pollo.ID, Quantity: 12}},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Sale.Items, 2)

	assert.Equal(t, 50-12, productRepo.products[pollo.ID].Quantity)
	// 12 units crossed the threshold twice, granting 2 bonus boxes
	assert.Equal(t, 100-2, productRepo.products[huevo.ID].Quantity)
}

func TestRegisterSalePartialPaymentOpensCredit(t *testing.T) {
	pollo := testProduct("pollo-entero", 8500, 50)
	_, customerRepo, creditRepo, svc := newSaleFixture(pollo)

	maria := &entity.Customer{ID: uuid.New(), FirstName: "Maria"}
	require.NoError(t, customerRepo.Create(context.Background(), maria))

	result, err := svc.RegisterSale(context.Background(), &RegisterSaleInput{
		UserID: uuid.New(),
		Paid:   100,
		CartInput: CartInput{
			CustomerID: &maria.ID,
			Items:      []CartItemInput{{ProductID: pollo.ID, Quantity: 2}},
		},
	})
	require.NoError(t, err)

	require.NotNil(t, result.Credit)
	assert.Equal(t, maria.ID, result.Credit.CustomerID)
	require.NotNil(t, result.Credit.PreSaleID)
	assert.Equal(t, result.Sale.ID, *result.Credit.PreSaleID)
	assert.Equal(t, int64(17000), result.Credit.Total)
	assert.Equal(t, int64(10000), result.Credit.Paid)
	assert.Equal(t, int64(7000), result.Credit.Pending)
	assert.Equal(t, enum.CreditStatusPending, result.Credit.Status)
	assert.Len(t, creditRepo.credits, 1)
}

func TestRegisterSalePartialPaymentRequiresCustomer(t *testing.T) {
	pollo := testProduct("pollo-entero", 8500, 50)
	_, _, creditRepo, svc := newSaleFixture(pollo)

	_, err := svc.RegisterSale(context.Background(), &RegisterSaleInput{
		UserID: uuid.New(),
		Paid:   100,
		CartInput: CartInput{
			Items: []CartItemInput{{ProductID: pollo.ID, Quantity: 2}},
		},
	})
	require.Error(t, err)
	assert.Empty(t, creditRepo.credits)
}

func TestRegisterSaleOverpaymentRecordsTotalOnly(t *testing.T) {
	pollo := testProduct("pollo-entero", 8500, 50)
	_, _, creditRepo, svc := newSaleFixture(pollo)

	result, err := svc.RegisterSale(context.Background(), &RegisterSaleInput{
		UserID: uuid.New(),
		Paid:   200, // change handed back at the counter
		CartInput: CartInput{
			Items: []CartItemInput{{ProductID: pollo.ID, Quantity: 2}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, enum.PreSaleStatusPaid, result.Sale.Status)
	assert.Nil(t, result.Credit)
	assert.Empty(t, creditRepo.credits)
}

func TestRegisterSaleRejectsEmptyCart(t *testing.T) {
	_, _, _, svc := newSaleFixture()

	_, err := svc.RegisterSale(context.Background(), &RegisterSaleInput{
		UserID:    uuid.New(),
		CartInput: CartInput{},
	})
	require.Error(t, err)
}
