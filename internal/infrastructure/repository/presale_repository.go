package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/granjasanluis/reparto-api/internal/domain/entity"
	"github.com/granjasanluis/reparto-api/internal/domain/enum"
	domainRepo "github.com/granjasanluis/reparto-api/internal/domain/repository"
	"github.com/granjasanluis/reparto-api/internal/domain/settlement"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type preSaleRepository struct {
	db *gorm.DB
}

// NewPreSaleRepository creates a new pre-sale repository
func NewPreSaleRepository(db *gorm.DB) domainRepo.PreSaleRepository {
	return &preSaleRepository{db: db}
}

func (r *preSaleRepository) Create(ctx context.Context, preSale *entity.PreSale) error {
	return r.db.WithContext(ctx).Create(preSale).Error
}

func (r *preSaleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PreSale, error) {
	var preSale entity.PreSale
	err := r.db.WithContext(ctx).
		Preload("Customer").
		First(&preSale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &preSale, err
}

func (r *preSaleRepository) GetByReceiptNo(ctx context.Context, receiptNo string) (*entity.PreSale, error) {
	var preSale entity.PreSale
	err := r.db.WithContext(ctx).First(&preSale, "receipt_no = ?", receiptNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &preSale, err
}

func (r *preSaleRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.PreSale, error) {
	var preSale entity.PreSale
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("DeliveryAgent").
		Preload("Route").
		Preload("Items").
		Preload("BonusAwards").
		First(&preSale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &preSale, err
}

func (r *preSaleRepository) Update(ctx context.Context, preSale *entity.PreSale) error {
	return r.db.WithContext(ctx).Save(preSale).Error
}

func (r *preSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.PreSale{}, "id = ?", id).Error
}

func (r *preSaleRepository) List(ctx context.Context, params *domainRepo.PreSaleFilterParams) ([]entity.PreSale, int64, error) {
	var preSales []entity.PreSale
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.PreSale{})

	if params.Search != "" {
		query = query.Where("receipt_no ILIKE ?", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.DeliveryAgentID != nil {
		query = query.Where("delivery_agent_id = ?", *params.DeliveryAgentID)
	}

	if params.RouteID != nil {
		query = query.Where("route_id = ?", *params.RouteID)
	}

	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Preload("Items").
		Order(sortBy + " " + sortOrder).
		Find(&preSales).Error

	return preSales, total, err
}

func (r *preSaleRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.PreSaleStatus) error {
	return r.db.WithContext(ctx).Model(&entity.PreSale{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *preSaleRepository) Dispatch(ctx context.Context, id uuid.UUID, agentID uuid.UUID, dispatchedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&entity.PreSale{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":            enum.PreSaleStatusDispatched,
			"delivery_agent_id": agentID,
			"dispatched_at":     dispatchedAt,
		}).Error
}

// Settle performs payment settlement inside a single transaction. The
// pre-sale row and every product row it touches are locked with SELECT FOR
// UPDATE so concurrent settlements serialize; the second one then fails the
// status guard instead of decrementing stock twice.
func (r *preSaleRepository) Settle(ctx context.Context, id uuid.UUID, callerID uuid.UUID) (*settlement.Result, error) {
	var result *settlement.Result

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var preSale entity.PreSale
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&preSale, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return gorm.ErrRecordNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.Where("pre_sale_id = ?", id).Find(&preSale.Items).Error; err != nil {
			return err
		}

		// Lock the sold products first, then resolve their bonus rules to
		// find the bonus targets that also need locking. Rules may have
		// changed since the order was taken; settlement honors the current
		// set.
		soldIDs := make([]uuid.UUID, 0, len(preSale.Items))
		seen := make(map[uuid.UUID]bool)
		for _, item := range preSale.Items {
			if item.IsBonus || seen[item.ProductID] {
				continue
			}
			seen[item.ProductID] = true
			soldIDs = append(soldIDs, item.ProductID)
		}

		products := make(map[uuid.UUID]*entity.Product)
		if err := lockProducts(tx, soldIDs, products); err != nil {
			return err
		}

		var rules []entity.BonusRule
		if len(soldIDs) > 0 {
			if err := tx.Where("product_id IN ?", soldIDs).Find(&rules).Error; err != nil {
				return err
			}
		}

		targetIDs := make([]uuid.UUID, 0, len(rules))
		for _, rule := range rules {
			product := products[rule.ProductID]
			if product == nil {
				continue
			}
			product.BonusRules = append(product.BonusRules, rule)
			if !seen[rule.BonusProductID] {
				seen[rule.BonusProductID] = true
				targetIDs = append(targetIDs, rule.BonusProductID)
			}
		}
		if err := lockProducts(tx, targetIDs, products); err != nil {
			return err
		}

		res, err := settlement.Apply(&preSale, products, callerID, time.Now().UTC())
		if err != nil {
			return err
		}

		for _, product := range res.Products {
			if err := tx.Model(&entity.Product{}).
				Where("id = ?", product.ID).
				Update("quantity", product.Quantity).Error; err != nil {
				return err
			}
		}

		if len(res.Awards) > 0 {
			if err := tx.Create(&res.Awards).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&entity.PreSale{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":     enum.PreSaleStatusPaid,
				"settled_at": res.SettledAt,
			}).Error; err != nil {
			return err
		}

		result = res
		return nil
	})

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return result, err
}

// lockProducts loads the given products with row locks into dst, ordered by
// id so concurrent settlements acquire locks in the same order.
func lockProducts(tx *gorm.DB, ids []uuid.UUID, dst map[uuid.UUID]*entity.Product) error {
	if len(ids) == 0 {
		return nil
	}
	var products []entity.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&products).Error
	if err != nil {
		return err
	}
	for i := range products {
		dst[products[i].ID] = &products[i]
	}
	return nil
}

func (r *preSaleRepository) ListItemsByStatus(ctx context.Context, statuses []enum.PreSaleStatus) ([]entity.PreSaleItem, error) {
	var items []entity.PreSaleItem
	err := r.db.WithContext(ctx).
		Joins("JOIN presales ON presales.id = presale_items.pre_sale_id").
		Where("presales.status IN ? AND presales.deleted_at IS NULL", statuses).
		Find(&items).Error
	return items, err
}

func (r *preSaleRepository) AppendEvent(ctx context.Context, event *entity.PreSaleEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *preSaleRepository) GetHistory(ctx context.Context, preSaleID uuid.UUID) ([]entity.PreSaleEvent, error) {
	var events []entity.PreSaleEvent
	err := r.db.WithContext(ctx).
		Where("pre_sale_id = ?", preSaleID).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}
