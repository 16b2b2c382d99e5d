package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/granjasanluis/reparto-api/internal/domain/entity"
	"github.com/granjasanluis/reparto-api/internal/domain/enum"
	"github.com/granjasanluis/reparto-api/pkg/pagination"
)

// CreditRepository defines the interface for customer credit data operations
type CreditRepository interface {
	Create(ctx context.Context, credit *entity.Credit) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Credit, error)
	// GetWithPayments loads the credit with its customer and payment
	// history preloaded
	GetWithPayments(ctx context.Context, id uuid.UUID) (*entity.Credit, error)
	Update(ctx context.Context, credit *entity.Credit) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *CreditFilterParams) ([]entity.Credit, int64, error)
	// RecordPayment writes the new paid/pending/status values and appends
	// the payment entry. Both writes are plain updates; the caller supplies
	// the snapshot the new values were computed from.
	RecordPayment(ctx context.Context, credit *entity.Credit, payment *entity.CreditPayment) error
}

// CreditFilterParams contains filtering parameters for credit queries
type CreditFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.CreditStatus
	CustomerID *uuid.UUID
	SortBy     string
	SortOrder  string
}
