package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/granjasanluis/reparto-api/internal/domain/entity"
	"github.com/granjasanluis/reparto-api/internal/domain/repository"
	"github.com/granjasanluis/reparto-api/pkg/apperror"
	"github.com/granjasanluis/reparto-api/pkg/pagination"
	"github.com/granjasanluis/reparto-api/pkg/utils"
)

// ProductService handles product-related operations
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// WholesaleTierInput represents one wholesale tier of a product
type WholesaleTierInput struct {
	Threshold int
	UnitPrice float64 // currency units
}

// BonusRuleInput represents one bonus rule of a product
type BonusRuleInput struct {
	Enabled        bool
	Threshold      int
	BonusProductID uuid.UUID
	BonusQuantity  int
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	UserID         uuid.UUID
	Name           string
	Code           string
	Quantity       int
	QuantityAlert  int
	SalePrice      float64
	Notes          *string
	WholesaleTiers []WholesaleTierInput
	BonusRules     []BonusRuleInput
}

// CreateProduct creates a new product with its wholesale tiers and bonus rules
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	code := input.Code
	if code == "" {
		code = utils.GenerateProductCode()
	}

	existingProduct, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existingProduct != nil {
		return nil, apperror.NewConflictError("Product code already exists")
	}

	tiers, err := buildTiers(input.WholesaleTiers)
	if err != nil {
		return nil, err
	}
	rules, err := s.buildRules(ctx, input.BonusRules)
	if err != nil {
		return nil, err
	}

	product := &entity.Product{
		Name:           input.Name,
		Slug:           utils.Slugify(input.Name),
		Code:           code,
		Quantity:       input.Quantity,
		QuantityAlert:  input.QuantityAlert,
		Notes:          input.Notes,
		CreatedBy:      input.UserID,
		WholesaleTiers: tiers,
		BonusRules:     rules,
	}
	product.SetSalePriceFromDecimal(input.SalePrice)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, product.ID)
}

// GetProduct retrieves a product by slug
func (s *ProductService) GetProduct(ctx context.Context, slug string) (*entity.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// GetProductByID retrieves a product by ID
func (s *ProductService) GetProductByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	ProductSlug    string
	Name           *string
	Code           *string
	Quantity       *int
	QuantityAlert  *int
	SalePrice      *float64
	Notes          *string
	WholesaleTiers *[]WholesaleTierInput
	BonusRules     *[]BonusRuleInput
}

// UpdateProduct updates a product. Tier and rule sets, when present, are
// replaced whole; partial edits of a single tier are not supported.
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, input.ProductSlug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.Code != nil && *input.Code != product.Code {
		existingProduct, err := s.productRepo.GetByCode(ctx, *input.Code)
		if err != nil {
			return nil, err
		}
		if existingProduct != nil && existingProduct.ID != product.ID {
			return nil, apperror.NewConflictError("Product code already exists")
		}
		product.Code = *input.Code
	}

	if input.Name != nil {
		product.Name = *input.Name
		product.Slug = utils.Slugify(*input.Name)
	}
	if input.Quantity != nil {
		product.Quantity = *input.Quantity
	}
	if input.QuantityAlert != nil {
		product.QuantityAlert = *input.QuantityAlert
	}
	if input.SalePrice != nil {
		product.SetSalePriceFromDecimal(*input.SalePrice)
	}
	if input.Notes != nil {
		product.Notes = input.Notes
	}

	// Detach relations so Save does not re-persist the stale sets
	product.WholesaleTiers = nil
	product.BonusRules = nil

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	if input.WholesaleTiers != nil {
		tiers, err := buildTiers(*input.WholesaleTiers)
		if err != nil {
			return nil, err
		}
		if err := s.productRepo.ReplaceWholesaleTiers(ctx, product.ID, tiers); err != nil {
			return nil, err
		}
	}

	if input.BonusRules != nil {
		rules, err := s.buildRules(ctx, *input.BonusRules)
		if err != nil {
			return nil, err
		}
		if err := s.productRepo.ReplaceBonusRules(ctx, product.ID, rules); err != nil {
			return nil, err
		}
	}

	return s.productRepo.GetByID(ctx, product.ID)
}

// DeleteProduct deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, slug string) error {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}

	return s.productRepo.Delete(ctx, product.ID)
}

// GetLowStockProducts returns products at or below their alert threshold
func (s *ProductService) GetLowStockProducts(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx)
}

func buildTiers(inputs []WholesaleTierInput) ([]entity.WholesaleTier, error) {
	tiers := make([]entity.WholesaleTier, 0, len(inputs))
	for _, in := range inputs {
		if in.Threshold <= 0 {
			return nil, apperror.NewBadRequestError("Wholesale tier threshold must be greater than zero")
		}
		if in.UnitPrice < 0 {
			return nil, apperror.NewBadRequestError("Wholesale tier price cannot be negative")
		}
		tiers = append(tiers, entity.WholesaleTier{
			Threshold: in.Threshold,
			UnitPrice: int64(in.UnitPrice * 100),
		})
	}
	return tiers, nil
}

func (s *ProductService) buildRules(ctx context.Context, inputs []BonusRuleInput) ([]entity.BonusRule, error) {
	rules := make([]entity.BonusRule, 0, len(inputs))
	for _, in := range inputs {
		if in.Threshold <= 0 || in.BonusQuantity <= 0 {
			return nil, apperror.NewBadRequestError("Bonus rule threshold and quantity must be greater than zero")
		}
		target, err := s.productRepo.GetByID(ctx, in.BonusProductID)
		if err != nil {
			return nil, err
		}
		if target == nil {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Bonus product %s", in.BonusProductID))
		}
		rules = append(rules, entity.BonusRule{
			Enabled:        in.Enabled,
			Threshold:      in.Threshold,
			BonusProductID: in.BonusProductID,
			BonusQuantity:  in.BonusQuantity,
		})
	}
	return rules, nil
}
