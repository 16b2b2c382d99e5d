package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/granjasanluis/reparto-api/internal/domain/entity"
	"github.com/granjasanluis/reparto-api/internal/domain/enum"
	"github.com/granjasanluis/reparto-api/internal/domain/repository"
	"github.com/granjasanluis/reparto-api/pkg/apperror"
	"github.com/granjasanluis/reparto-api/pkg/utils"
)

// SaleService handles point-of-sale transactions sold and settled on the
// spot, without the warehouse prep and delivery lifecycle
type SaleService struct {
	preSaleRepo  repository.PreSaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	creditRepo   repository.CreditRepository
}

// NewSaleService creates a new sale service
func NewSaleService(
	preSaleRepo repository.PreSaleRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	creditRepo repository.CreditRepository,
) *SaleService {
	return &SaleService{
		preSaleRepo:  preSaleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		creditRepo:   creditRepo,
	}
}

// RegisterSaleInput represents the register sale input
type RegisterSaleInput struct {
	UserID uuid.UUID
	Paid   float64 // amount handed over at the counter, in currency units
	CartInput
}

// SaleResult is a registered sale plus the credit opened for any unpaid
// remainder
type SaleResult struct {
	Sale   *entity.PreSale `json:"sale"`
	Credit *entity.Credit  `json:"credit,omitempty"`
}

// RegisterSale prices the cart, records it as an already-paid order, and
// decrements stock immediately. When the amount paid does not cover the
// total, the remainder is opened as a customer credit, so a customer is
// required for partial payments.
func (s *SaleService) RegisterSale(ctx context.Context, input *RegisterSaleInput) (*SaleResult, error) {
	c, err := assembleCart(ctx, s.productRepo, s.customerRepo, &input.CartInput)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, apperror.NewBadRequestError("Sale requires at least one item")
	}

	if input.Paid < 0 {
		return nil, apperror.NewBadRequestError("Paid amount cannot be negative")
	}

	total := c.Total()
	paidCents := int64(input.Paid * 100)
	if paidCents > total {
		// Change is handed back at the counter; the sale records the total.
		paidCents = total
	}
	pendingCents := total - paidCents

	if pendingCents > 0 && input.CustomerID == nil {
		return nil, apperror.NewBadRequestError("Partial payments require a customer to carry the credit")
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

	now := time.Now().UTC()
	sale := &entity.PreSale{
		ReceiptNo:     utils.GenerateReceiptNo(),
		CustomerID:    input.CustomerID,
		Status:        enum.PreSaleStatusPaid,
		Subtotal:      c.Subtotal(),
		TotalDiscount: c.TotalDiscount(),
		Total:         total,
		SettledAt:     &now,
		CreatedBy:     input.UserID,
		Items:         items,
	}

	if err := s.preSaleRepo.Create(ctx, sale); err != nil {
		return nil, err
	}

	// Bonus units leave the shelf with the rest of the sale, so every line
	// decrements stock.
	for _, line := range lines {
		product, err := s.productRepo.GetByID(ctx, line.Product.ID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			continue
		}
		if err := s.productRepo.UpdateQuantity(ctx, product.ID, product.Quantity-line.Quantity); err != nil {
			return nil, err
		}
	}

	var credit *entity.Credit
	if pendingCents > 0 {
		credit = &entity.Credit{
			CustomerID: *input.CustomerID,
			PreSaleID:  &sale.ID,
			Total:      total,
			Paid:       paidCents,
			Pending:    pendingCents,
			Status:     enum.CreditStatusForPending(pendingCents),
			CreatedBy:  input.UserID,
		}
		if err := s.creditRepo.Create(ctx, credit); err != nil {
			return nil, err
		}
	}

	// History is best-effort; a failed audit write never rolls back the
	// sale it describes.
	_ = s.preSaleRepo.AppendEvent(ctx, &entity.PreSaleEvent{
		PreSaleID: sale.ID,
		Action:    entity.PreSaleEventCreate,
		Details:   fmt.Sprintf("Sale %s registered and settled at the counter", sale.ReceiptNo),
		UserID:    input.UserID,
	})

	detailed, err := s.preSaleRepo.GetWithDetails(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: detailed, Credit: credit}, nil
}
