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

func creditFixture(total, paid, pending int64) (*entity.Credit, *fakeCreditRepo, *CreditService) {
	customer := &entity.Customer{ID: uuid.New(), FirstName: "Rosa", LastName: "Mendez"}
	credit := &entity.Credit{
		ID:         uuid.New(),
		CustomerID: customer.ID,
		Total:      total,
		Paid:       paid,
		Pending:    pending,
		Status:     enum.CreditStatusForPending(pending),
	}
	creditRepo := newFakeCreditRepo(credit)
	svc := NewCreditService(creditRepo, newFakeCustomerRepo(customer))
	return credit, creditRepo, svc
}

func TestRegisterPaymentMovesPendingToPaid(t *testing.T) {
	credit, repo, svc := creditFixture(50000, 10000, 40000)

	updated, err := svc.RegisterPayment(context.Background(), credit.ID, &RegisterPaymentInput{
		UserID:  uuid.New(),
		Amount:  150,
		Paid:    100,
		Pending: 400,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(25000), updated.Paid)
	assert.Equal(t, int64(25000), updated.Pending)
	assert.Equal(t, enum.CreditStatusPending, updated.Status)
	require.Len(t, repo.payments, 1)
	assert.Equal(t, int64(15000), repo.payments[0].Amount)
}

func TestRegisterPaymentFullBalanceFlipsStatusToPaid(t *testing.T) {
	credit, _, svc := creditFixture(50000, 10000, 40000)

	updated, err := svc.RegisterPayment(context.Background(), credit.ID, &RegisterPaymentInput{
		UserID:  uuid.New(),
		Amount:  400,
		Paid:    100,
		Pending: 400,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), updated.Pending)
	assert.Equal(t, int64(50000), updated.Paid)
	assert.Equal(t, enum.CreditStatusPaid, updated.Status)
}

func TestRegisterPaymentRejectsNonPositiveAmount(t *testing.T) {
	credit, repo, svc := creditFixture(50000, 0, 50000)

	for _, amount := range []float64{0, -25} {
		_, err := svc.RegisterPayment(context.Background(), credit.ID, &RegisterPaymentInput{
			UserID: uuid.New(), Amount: amount, Paid: 0, Pending: 500,
		})
		require.Error(t, err)
	}
	assert.Empty(t, repo.payments)
}

func TestRegisterPaymentRejectsOverpayment(t *testing.T) {
	credit, repo, svc := creditFixture(50000, 40000, 10000)

	_, err := svc.RegisterPayment(context.Background(), credit.ID, &RegisterPaymentInput{
		UserID: uuid.New(), Amount: 101, Paid: 400, Pending: 100,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "100.00")
	assert.Empty(t, repo.payments)
	assert.Equal(t, enum.CreditStatusPending, credit.Status)
}

func TestRegisterPaymentUsesCallerSnapshotNotStoredBalance(t *testing.T) {
	// Two clients share a stale view of the balance. The second write wins
	// with values derived from its own snapshot; the stored balance is not
	// re-read under a lock.
	credit, repo, svc := creditFixture(50000, 0, 50000)

	_, err := svc.RegisterPayment(context.Background(), credit.ID, &RegisterPaymentInput{
		UserID: uuid.New(), Amount: 200, Paid: 0, Pending: 500,
	})
	require.NoError(t, err)

	updated, err := svc.RegisterPayment(context.Background(), credit.ID, &RegisterPaymentInput{
		UserID: uuid.New(), Amount: 100, Paid: 0, Pending: 500,
	})
	require.NoError(t, err)

	// The second abono overwrote the first's balance but both payments are
	// in the history.
	assert.Equal(t, int64(10000), updated.Paid)
	assert.Equal(t, int64(40000), updated.Pending)
	assert.Len(t, repo.payments, 2)
}

func TestRegisterPaymentUnknownCreditReturnsNotFound(t *testing.T) {
	_, _, svc := creditFixture(50000, 0, 50000)

	_, err := svc.RegisterPayment(context.Background(), uuid.New(), &RegisterPaymentInput{
		UserID: uuid.New(), Amount: 100, Paid: 0, Pending: 500,
	})
	require.Error(t, err)
}

func TestCreateCreditStartsPendingWithFullBalance(t *testing.T) {
	customer := &entity.Customer{ID: uuid.New(), FirstName: "Luis", LastName: "Paredes"}
	svc := NewCreditService(newFakeCreditRepo(), newFakeCustomerRepo(customer))

	credit, err := svc.CreateCredit(context.Background(), &CreateCreditInput{
		UserID:     uuid.New(),
		CustomerID: customer.ID,
		Total:      750,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(75000), credit.Total)
	assert.Equal(t, int64(0), credit.Paid)
	assert.Equal(t, int64(75000), credit.Pending)
	assert.Equal(t, enum.CreditStatusPending, credit.Status)
}

func TestCreateCreditRejectsUnknownCustomerAndZeroTotal(t *testing.T) {
	customer := &entity.Customer{ID: uuid.New(), FirstName: "Luis", LastName: "Paredes"}
	svc := NewCreditService(newFakeCreditRepo(), newFakeCustomerRepo(customer))

	_, err := svc.CreateCredit(context.Background(), &CreateCreditInput{
		UserID: uuid.New(), CustomerID: uuid.New(), Total: 100,
	})
	require.Error(t, err)

	_, err = svc.CreateCredit(context.Background(), &CreateCreditInput{
		UserID: uuid.New(), CustomerID: customer.ID, Total: 0,
	})
	require.Error(t, err)
}
