package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/granjasanluis/reparto-api/internal/domain/entity"
	domainRepo "github.com/granjasanluis/reparto-api/internal/domain/repository"
	"gorm.io/gorm"
)

type routeRepository struct {
	db *gorm.DB
}

// NewRouteRepository creates a new route repository
func NewRouteRepository(db *gorm.DB) domainRepo.RouteRepository {
	return &routeRepository{db: db}
}

func (r *routeRepository) Create(ctx context.Context, route *entity.Route) error {
	return r.db.WithContext(ctx).Create(route).Error
}

func (r *routeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Route, error) {
	var route entity.Route
	err := r.db.WithContext(ctx).First(&route, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &route, err
}

func (r *routeRepository) GetByName(ctx context.Context, name string) (*entity.Route, error) {
	var route entity.Route
	err := r.db.WithContext(ctx).First(&route, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &route, err
}

func (r *routeRepository) Update(ctx context.Context, route *entity.Route) error {
	return r.db.WithContext(ctx).Save(route).Error
}

func (r *routeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Route{}, "id = ?", id).Error
}

func (r *routeRepository) List(ctx context.Context) ([]entity.Route, error) {
	var routes []entity.Route
	err := r.db.WithContext(ctx).Order("name ASC").Find(&routes).Error
	return routes, err
}
