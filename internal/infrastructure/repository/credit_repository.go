package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/granjasanluis/reparto-api/internal/domain/entity"
	domainRepo "github.com/granjasanluis/reparto-api/internal/domain/repository"
	"gorm.io/gorm"
)

type creditRepository struct {
	db *gorm.DB
}

// NewCreditRepository creates a new credit repository
func NewCreditRepository(db *gorm.DB) domainRepo.CreditRepository {
	return &creditRepository{db: db}
}

func (r *creditRepository) Create(ctx context.Context, credit *entity.Credit) error {
	return r.db.WithContext(ctx).Create(credit).Error
}

func (r *creditRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Credit, error) {
	var credit entity.Credit
	err := r.db.WithContext(ctx).
		Preload("Customer").
		First(&credit, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &credit, err
}

func (r *creditRepository) GetWithPayments(ctx context.Context, id uuid.UUID) (*entity.Credit, error) {
	var credit entity.Credit
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&credit, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &credit, err
}

func (r *creditRepository) Update(ctx context.Context, credit *entity.Credit) error {
	return r.db.WithContext(ctx).Save(credit).Error
}

func (r *creditRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Credit{}, "id = ?", id).Error
}

func (r *creditRepository) List(ctx context.Context, params *domainRepo.CreditFilterParams) ([]entity.Credit, int64, error) {
	var credits []entity.Credit
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Credit{})

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

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
		Order(sortBy + " " + sortOrder).
		Find(&credits).Error

	return credits, total, err
}

// RecordPayment writes the recalculated balance and appends the payment
// entry. The two writes are plain sequential updates, not a locked
// transaction; the balance comes from the snapshot the caller read.
func (r *creditRepository) RecordPayment(ctx context.Context, credit *entity.Credit, payment *entity.CreditPayment) error {
	err := r.db.WithContext(ctx).Model(&entity.Credit{}).
		Where("id = ?", credit.ID).
		Updates(map[string]interface{}{
			"paid":    credit.Paid,
			"pending": credit.Pending,
			"status":  credit.Status,
		}).Error
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(payment).Error
}
