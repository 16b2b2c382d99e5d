package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/granjasanluis/reparto-api/internal/domain/cart"
	"github.com/granjasanluis/reparto-api/internal/domain/entity"
	"github.com/granjasanluis/reparto-api/internal/domain/enum"
	"github.com/granjasanluis/reparto-api/internal/domain/repository"
	"github.com/granjasanluis/reparto-api/internal/domain/settlement"
	"github.com/granjasanluis/reparto-api/pkg/apperror"
	"github.com/granjasanluis/reparto-api/pkg/pagination"
	"github.com/granjasanluis/reparto-api/pkg/utils"
)

// PreSaleService handles pre-sale order operations
type PreSaleService struct {
	preSaleRepo  repository.PreSaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	userRepo     repository.UserRepository
	routeRepo    repository.RouteRepository
}

// NewPreSaleService creates a new pre-sale service
func NewPreSaleService(
	preSaleRepo repository.PreSaleRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	userRepo repository.UserRepository,
	routeRepo repository.RouteRepository,
) *PreSaleService {
	return &PreSaleService{
		preSaleRepo:  preSaleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		userRepo:     userRepo,
		routeRepo:    routeRepo,
	}
}

// CartItemInput represents one requested line of a pre-sale
type CartItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Discount  float64 // line discount in currency units
}

// CartInput represents the contents a cart is built from
type CartInput struct {
	CustomerID *uuid.UUID
	Items      []CartItemInput
}

// CartQuote is a priced cart: the regular lines, the bonus lines derived
// from them, and the totals
type CartQuote struct {
	Customer *entity.Customer `json:"customer,omitempty"`
	Lines    []cart.Line      `json:"lines"`
	Subtotal int64            `json:"-"`
	Discount int64            `json:"-"`
	Total    int64            `json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (q CartQuote) MarshalJSON() ([]byte, error) {
	type Alias CartQuote
	return json.Marshal(&struct {
		Alias
		Subtotal float64 `json:"subtotal"`
		Discount float64 `json:"discount"`
		Total    float64 `json:"total"`
	}{
		Alias:    Alias(q),
		Subtotal: float64(q.Subtotal) / 100,
		Discount: float64(q.Discount) / 100,
		Total:    float64(q.Total) / 100,
	})
}

// CreatePreSaleInput represents the create pre-sale input
type CreatePreSaleInput struct {
	UserID  uuid.UUID
	RouteID *uuid.UUID
	CartInput
}

// QuoteCart prices a cart without persisting anything: wholesale tiers and
// the customer discount are applied per line and bonus lines are
// synthesized from the current rules.
func (s *PreSaleService) QuoteCart(ctx context.Context, input *CartInput) (*CartQuote, error) {
	c, err := assembleCart(ctx, s.productRepo, s.customerRepo, input)
	if err != nil {
		return nil, err
	}
	return &CartQuote{
		Customer: c.Customer(),
		Lines:    c.Lines(),
		Subtotal: c.Subtotal(),
		Discount: c.TotalDiscount(),
		Total:    c.Total(),
	}, nil
}

// CreatePreSale prices the cart and persists it as a pending pre-sale with
// its line items, bonus lines included, and a CREATE history entry
func (s *PreSaleService) CreatePreSale(ctx context.Context, input *CreatePreSaleInput) (*entity.PreSale, error) {
	c, err := assembleCart(ctx, s.productRepo, s.customerRepo, &input.CartInput)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, apperror.NewBadRequestError("Pre-sale requires at least one item")
	}

	if input.RouteID != nil {
		route, err := s.routeRepo.GetByID(ctx, *input.RouteID)
		if err != nil {
			return nil, err
		}
		if route == nil {
			return nil, apperror.NewNotFoundError("Route")
		}
	}

	lines := c.Lines()
	items := make([]entity.PreSaleItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, entity.PreSaleItem{
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Discount:    line.Discount,
			Total:       line.Total,
			IsBonus:     line.IsBonus,
		})
	}

	preSale := &entity.PreSale{
		ReceiptNo:     utils.GenerateReceiptNo(),
		CustomerID:    input.CustomerID,
		RouteID:       input.RouteID,
		Status:        enum.PreSaleStatusPending,
		Subtotal:      c.Subtotal(),
		TotalDiscount: c.TotalDiscount(),
		Total:         c.Total(),
		CreatedBy:     input.UserID,
		Items:         items,
	}

	if err := s.preSaleRepo.Create(ctx, preSale); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, preSale.ID, entity.PreSaleEventCreate,
		fmt.Sprintf("Pre-sale %s created with %d lines", preSale.ReceiptNo, len(items)),
		input.UserID)

	return s.preSaleRepo.GetWithDetails(ctx, preSale.ID)
}

// GetPreSale retrieves a pre-sale with its items and bonus awards
func (s *PreSaleService) GetPreSale(ctx context.Context, id uuid.UUID) (*entity.PreSale, error) {
	preSale, err := s.preSaleRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if preSale == nil {
		return nil, apperror.NewNotFoundError("Pre-sale")
	}
	return preSale, nil
}

// ListPreSales lists pre-sales with filtering
func (s *PreSaleService) ListPreSales(ctx context.Context, params *repository.PreSaleFilterParams) (*pagination.PaginatedResult[entity.PreSale], error) {
	preSales, total, err := s.preSaleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(preSales, pag), nil
}

// UpdateStatus moves a pre-sale between the warehouse-prep statuses.
// Dispatch and settlement have their own operations and are rejected here.
func (s *PreSaleService) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.PreSaleStatus, actorID uuid.UUID) (*entity.PreSale, error) {
	preSale, err := s.preSaleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if preSale == nil {
		return nil, apperror.NewNotFoundError("Pre-sale")
	}

	if !preSale.Status.CanTransitionTo(status) {
		return nil, apperror.NewPreconditionFailedError(fmt.Sprintf(
			"Cannot move pre-sale from %s to %s", preSale.Status, status))
	}

	if err := s.preSaleRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, id, entity.PreSaleEventStatus,
		fmt.Sprintf("Status changed from %s to %s", preSale.Status, status),
		actorID)

	return s.preSaleRepo.GetWithDetails(ctx, id)
}

// Dispatch assigns a delivery agent and hands the order over for delivery.
// Only orders that are ready for delivery can be dispatched.
func (s *PreSaleService) Dispatch(ctx context.Context, id uuid.UUID, agentID uuid.UUID, actorID uuid.UUID) (*entity.PreSale, error) {
	preSale, err := s.preSaleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if preSale == nil {
		return nil, apperror.NewNotFoundError("Pre-sale")
	}

	if preSale.Status != enum.PreSaleStatusReadyForDelivery {
		return nil, apperror.NewPreconditionFailedError(fmt.Sprintf(
			"Cannot dispatch pre-sale in status %s", preSale.Status))
	}

	agent, err := s.userRepo.GetWithRoles(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, apperror.NewNotFoundError("Delivery agent")
	}
	if !agent.HasRole(entity.RoleDeliveryAgent) {
		return nil, apperror.NewBadRequestError("Assigned user is not a delivery agent")
	}

	now := time.Now().UTC()
	if err := s.preSaleRepo.Dispatch(ctx, id, agentID, now); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, id, entity.PreSaleEventDispatch,
		fmt.Sprintf("Dispatched with agent %s", agent.FirstName+" "+agent.LastName),
		actorID)

	return s.preSaleRepo.GetWithDetails(ctx, id)
}

// Settle performs payment settlement. Only the assigned delivery agent can
// settle, and only while the order is dispatched; stock decrements and
// bonus grants happen atomically inside the repository transaction.
func (s *PreSaleService) Settle(ctx context.Context, id uuid.UUID, callerID uuid.UUID) (*entity.PreSale, *settlement.Result, error) {
	result, err := s.preSaleRepo.Settle(ctx, id, callerID)
	if err != nil {
		return nil, nil, err
	}
	if result == nil {
		return nil, nil, apperror.NewNotFoundError("Pre-sale")
	}

	s.recordEvent(ctx, id, entity.PreSaleEventSettle,
		fmt.Sprintf("Payment settled, %d bonus grants recorded", len(result.Awards)),
		callerID)

	preSale, err := s.preSaleRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return preSale, result, nil
}

// DeletePreSale removes a pre-sale that has not yet been dispatched
func (s *PreSaleService) DeletePreSale(ctx context.Context, id uuid.UUID) error {
	preSale, err := s.preSaleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if preSale == nil {
		return apperror.NewNotFoundError("Pre-sale")
	}
	if preSale.Status >= enum.PreSaleStatusDispatched {
		return apperror.NewPreconditionFailedError("Dispatched pre-sales cannot be deleted")
	}
	return s.preSaleRepo.Delete(ctx, id)
}

// GetHistory returns the append-only event log of a pre-sale
func (s *PreSaleService) GetHistory(ctx context.Context, id uuid.UUID) ([]entity.PreSaleEvent, error) {
	preSale, err := s.preSaleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if preSale == nil {
		return nil, apperror.NewNotFoundError("Pre-sale")
	}
	return s.preSaleRepo.GetHistory(ctx, id)
}

// assembleCart loads the customer and products and replays the requested
// lines through the cart so pricing and bonus synthesis follow the same
// path the client previewed. Quick sales and pre-sales share this path.
func assembleCart(
	ctx context.Context,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	input *CartInput,
) (*cart.Cart, error) {
	c := cart.New(func(productID uuid.UUID) *entity.Product {
		product, err := productRepo.GetByID(ctx, productID)
		if err != nil {
			return nil
		}
		return product
	})

	if input.CustomerID != nil {
		customer, err := customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		c.SetCustomer(customer)
	}

	productIDs := make([]uuid.UUID, len(input.Items))
	for i, item := range input.Items {
		productIDs[i] = item.ProductID
	}
	products, err := productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	for _, item := range input.Items {
		product, exists := productMap[item.ProductID]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}
		if err := c.AddItem(product, item.Quantity); err != nil {
			return nil, err
		}
		if item.Discount > 0 {
			if err := c.SetLineDiscount(product.ID, int64(item.Discount*100)); err != nil {
				return nil, err
			}
		}
	}

	return c, nil
}

func (s *PreSaleService) recordEvent(ctx context.Context, preSaleID uuid.UUID, action, details string, userID uuid.UUID) {
	// History is best-effort; a failed audit write never rolls back the
	// operation it describes.
	_ = s.preSaleRepo.AppendEvent(ctx, &entity.PreSaleEvent{
		PreSaleID: preSaleID,
		Action:    action,
		Details:   details,
		UserID:    userID,
	})
}
