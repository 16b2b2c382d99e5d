package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/granjasanluis/reparto-api/internal/domain/entity"
	"github.com/granjasanluis/reparto-api/internal/domain/enum"
	"github.com/granjasanluis/reparto-api/internal/domain/settlement"
	"github.com/granjasanluis/reparto-api/pkg/pagination"
)

// PreSaleRepository defines the interface for pre-sale data operations
type PreSaleRepository interface {
	Create(ctx context.Context, preSale *entity.PreSale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PreSale, error)
	GetByReceiptNo(ctx context.Context, receiptNo string) (*entity.PreSale, error)
	// GetWithDetails loads the pre-sale with customer, items, bonus awards
	// and delivery agent preloaded
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.PreSale, error)
	Update(ctx context.Context, preSale *entity.PreSale) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *PreSaleFilterParams) ([]entity.PreSale, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.PreSaleStatus) error
	// Dispatch assigns the delivery agent and moves the pre-sale to
	// dispatched in one update
	Dispatch(ctx context.Context, id uuid.UUID, agentID uuid.UUID, dispatchedAt time.Time) error
	// Settle runs payment settlement inside a single transaction: it locks
	// the pre-sale and every product it touches, applies the stock and
	// bonus mutations, and persists the result
	Settle(ctx context.Context, id uuid.UUID, callerID uuid.UUID) (*settlement.Result, error)
	// ListItemsByStatus returns the line items of every pre-sale currently
	// in one of the given statuses, feeding the warehouse packing summary
	ListItemsByStatus(ctx context.Context, statuses []enum.PreSaleStatus) ([]entity.PreSaleItem, error)
	// AppendEvent records an audit entry in the pre-sale's history
	AppendEvent(ctx context.Context, event *entity.PreSaleEvent) error
	GetHistory(ctx context.Context, preSaleID uuid.UUID) ([]entity.PreSaleEvent, error)
}

// PreSaleFilterParams contains filtering parameters for pre-sale queries
type PreSaleFilterParams struct {
	Pagination      *pagination.PaginationParams
	Search          string
	Status          *enum.PreSaleStatus
	CustomerID      *uuid.UUID
	DeliveryAgentID *uuid.UUID
	RouteID         *uuid.UUID
	StartDate       *time.Time
	EndDate         *time.Time
	SortBy          string
	SortOrder       string
}
