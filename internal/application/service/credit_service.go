package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/granjasanluis/reparto-api/internal/domain/entity"
	"github.com/granjasanluis/reparto-api/internal/domain/enum"
	"github.com/granjasanluis/reparto-api/internal/domain/repository"
	"github.com/granjasanluis/reparto-api/pkg/apperror"
	"github.com/granjasanluis/reparto-api/pkg/pagination"
)

// CreditService handles customer credit operations
type CreditService struct {
	creditRepo   repository.CreditRepository
	customerRepo repository.CustomerRepository
}

// NewCreditService creates a new credit service
func NewCreditService(creditRepo repository.CreditRepository, customerRepo repository.CustomerRepository) *CreditService {
	return &CreditService{creditRepo: creditRepo, customerRepo: customerRepo}
}

// CreateCreditInput represents the create credit input
type CreateCreditInput struct {
	UserID     uuid.UUID
	CustomerID uuid.UUID
	PreSaleID  *uuid.UUID
	Total      float64 // currency units
}

// RegisterPaymentInput represents an abono against a credit. Paid and
// Pending carry the balance snapshot the client was looking at when the
// payment was taken; the new balance is computed from that snapshot.
type RegisterPaymentInput struct {
	UserID  uuid.UUID
	Amount  float64 // currency units
	Paid    float64
	Pending float64
}

// CreateCredit opens a credit account for a customer
func (s *CreditService) CreateCredit(ctx context.Context, input *CreateCreditInput) (*entity.Credit, error) {
	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	totalCents := int64(input.Total * 100)
	if totalCents <= 0 {
		return nil, apperror.NewBadRequestError("Credit total must be greater than zero")
	}

	credit := &entity.Credit{
		CustomerID: input.CustomerID,
		PreSaleID:  input.PreSaleID,
		Total:      totalCents,
		Paid:       0,
		Pending:    totalCents,
		Status:     enum.CreditStatusPending,
		CreatedBy:  input.UserID,
	}

	if err := s.creditRepo.Create(ctx, credit); err != nil {
		return nil, err
	}
	return credit, nil
}

// GetCredit retrieves a credit with its payment history
func (s *CreditService) GetCredit(ctx context.Context, id uuid.UUID) (*entity.Credit, error) {
	credit, err := s.creditRepo.GetWithPayments(ctx, id)
	if err != nil {
		return nil, err
	}
	if credit == nil {
		return nil, apperror.NewNotFoundError("Credit")
	}
	return credit, nil
}

// ListCredits lists credits with filtering
func (s *CreditService) ListCredits(ctx context.Context, params *repository.CreditFilterParams) (*pagination.PaginatedResult[entity.Credit], error) {
	credits, total, err := s.creditRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(credits, pag), nil
}

// RegisterPayment records an abono: the amount moves from pending to paid,
// pending floors at zero, and the status flips to paid exactly when the
// pending balance reaches zero. The new balance is derived from the
// snapshot in the input, not re-read under a lock.
func (s *CreditService) RegisterPayment(ctx context.Context, creditID uuid.UUID, input *RegisterPaymentInput) (*entity.Credit, error) {
	credit, err := s.creditRepo.GetByID(ctx, creditID)
	if err != nil {
		return nil, err
	}
	if credit == nil {
		return nil, apperror.NewNotFoundError("Credit")
	}

	amountCents := int64(input.Amount * 100)
	paidCents := int64(input.Paid * 100)
	pendingCents := int64(input.Pending * 100)

	if amountCents <= 0 {
		return nil, apperror.NewBadRequestError("Payment amount must be greater than zero")
	}
	if amountCents > pendingCents {
		return nil, apperror.NewBadRequestError(fmt.Sprintf(
			"Payment amount exceeds the pending balance of %.2f", float64(pendingCents)/100))
	}

	newPending := pendingCents - amountCents
	if newPending < 0 {
		newPending = 0
	}

	credit.Paid = paidCents + amountCents
	credit.Pending = newPending
	credit.Status = enum.CreditStatusForPending(newPending)

	payment := &entity.CreditPayment{
		CreditID:   credit.ID,
		Amount:     amountCents,
		RecordedBy: input.UserID,
	}

	if err := s.creditRepo.RecordPayment(ctx, credit, payment); err != nil {
		return nil, err
	}

	return s.creditRepo.GetWithPayments(ctx, creditID)
}

// DeleteCredit removes a credit account
func (s *CreditService) DeleteCredit(ctx context.Context, id uuid.UUID) error {
	credit, err := s.creditRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if credit == nil {
		return apperror.NewNotFoundError("Credit")
	}
	return s.creditRepo.Delete(ctx, id)
}
