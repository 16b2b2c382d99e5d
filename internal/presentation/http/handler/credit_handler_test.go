package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granjasanluis/reparto-api/internal/application/service"
	"github.com/granjasanluis/reparto-api/internal/domain/entity"
	"github.com/granjasanluis/reparto-api/internal/domain/enum"
	"github.com/granjasanluis/reparto-api/internal/domain/repository"
	"github.com/granjasanluis/reparto-api/pkg/pagination"
)

type stubCreditRepo struct {
	credits  map[uuid.UUID]*entity.Credit
	payments []entity.CreditPayment
}

func newStubCreditRepo() *stubCreditRepo {
	return &stubCreditRepo{credits: make(map[uuid.UUID]*entity.Credit)}
}

func (r *stubCreditRepo) Create(ctx context.Context, credit *entity.Credit) error {
	if credit.ID == uuid.Nil {
		credit.ID = uuid.New()
	}
	stored := *credit
	r.credits[credit.ID] = &stored
	return nil
}

func (r *stubCreditRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Credit, error) {
	credit, ok := r.credits[id]
	if !ok {
		return nil, nil
	}
	copied := *credit
	return &copied, nil
}

func (r *stubCreditRepo) GetWithPayments(ctx context.Context, id uuid.UUID) (*entity.Credit, error) {
	credit, err := r.GetByID(ctx, id)
	if credit == nil || err != nil {
		return credit, err
	}
	for _, p := range r.payments {
		if p.CreditID == id {
			credit.Payments = append(credit.Payments, p)
		}
	}
	return credit, nil
}

func (r *stubCreditRepo) Update(ctx context.Context, credit *entity.Credit) error {
	stored := *credit
	r.credits[credit.ID] = &stored
	return nil
}

func (r *stubCreditRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.credits, id)
	return nil
}

func (r *stubCreditRepo) List(ctx context.Context, params *repository.CreditFilterParams) ([]entity.Credit, int64, error) {
	var credits []entity.Credit
	for _, c := range r.credits {
		credits = append(credits, *c)
	}
	return credits, int64(len(credits)), nil
}

func (r *stubCreditRepo) RecordPayment(ctx context.Context, credit *entity.Credit, payment *entity.CreditPayment) error {
	stored := *credit
	r.credits[credit.ID] = &stored
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	r.payments = append(r.payments, *payment)
	return nil
}

type stubCustomerRepo struct {
	customers map[uuid.UUID]*entity.Customer
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
}

func (r *stubCustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	r.customers[customer.ID] = customer
	return nil
}

func (r *stubCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	return customer, nil
}

func (r *stubCustomerRepo) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	return nil, nil
}

func (r *stubCustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	r.customers[customer.ID] = customer
	return nil
}

func (r *stubCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

func (r *stubCustomerRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	return nil, 0, nil
}

func setupCreditRouter(t *testing.T) (*gin.Engine, *stubCreditRepo, *stubCustomerRepo, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	creditRepo := newStubCreditRepo()
	customerRepo := newStubCustomerRepo()
	creditService := service.NewCreditService(creditRepo, customerRepo)
	h := NewCreditHandler(creditService)

	userID := uuid.New()

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	credits := router.Group("/credits")
	{
		credits.POST("", h.Create)
		credits.GET("/:id", h.Get)
		credits.POST("/:id/payments", h.RegisterPayment)
	}

	return router, creditRepo, customerRepo, userID
}

func TestCreditHandlerCreate(t *testing.T) {
	router, creditRepo, customerRepo, _ := setupCreditRouter(t)

	customerID := uuid.New()
	customerRepo.customers[customerID] = &entity.Customer{ID: customerID, FirstName: "Rosa"}

	body, _ := json.Marshal(gin.H{
		"customer_id": customerID,
		"total":       350.50,
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/credits", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, creditRepo.credits, 1)
	for _, credit := range creditRepo.credits {
		assert.Equal(t, int64(35050), credit.Total)
		assert.Equal(t, int64(35050), credit.Pending)
		assert.Equal(t, enum.CreditStatusPending, credit.Status)
	}
}

func TestCreditHandlerCreateUnknownCustomer(t *testing.T) {
	router, _, _, _ := setupCreditRouter(t)

	body, _ := json.Marshal(gin.H{
		"customer_id": uuid.New(),
		"total":       100,
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/credits", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreditHandlerRegisterPayment(t *testing.T) {
	router, creditRepo, customerRepo, userID := setupCreditRouter(t)

	customerID := uuid.New()
	customerRepo.customers[customerID] = &entity.Customer{ID: customerID, FirstName: "Rosa"}

	creditID := uuid.New()
	creditRepo.credits[creditID] = &entity.Credit{
		ID:         creditID,
		CustomerID: customerID,
		Total:      40000,
		Paid:       0,
		Pending:    40000,
		Status:     enum.CreditStatusPending,
	}

	body, _ := json.Marshal(gin.H{
		"amount":  150,
		"paid":    0,
		"pending": 400,
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/credits/%s/payments", creditID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	updated := creditRepo.credits[creditID]
	assert.Equal(t, int64(15000), updated.Paid)
	assert.Equal(t, int64(25000), updated.Pending)
	assert.Equal(t, enum.CreditStatusPending, updated.Status)

	require.Len(t, creditRepo.payments, 1)
	assert.Equal(t, int64(15000), creditRepo.payments[0].Amount)
	assert.Equal(t, userID, creditRepo.payments[0].RecordedBy)
}

func TestCreditHandlerRegisterPaymentRejectsOverpayment(t *testing.T) {
	router, creditRepo, _, _ := setupCreditRouter(t)

	creditID := uuid.New()
	creditRepo.credits[creditID] = &entity.Credit{
		ID:      creditID,
		Total:   10000,
		Pending: 10000,
		Status:  enum.CreditStatusPending,
	}

	body, _ := json.Marshal(gin.H{
		"amount":  200,
		"paid":    0,
		"pending": 100,
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/credits/%s/payments", creditID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, creditRepo.payments)
}

func TestCreditHandlerGetInvalidID(t *testing.T) {
	router, _, _, _ := setupCreditRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/credits/not-a-uuid", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
