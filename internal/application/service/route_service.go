package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/granjasanluis/reparto-api/internal/domain/entity"
	"github.com/granjasanluis/reparto-api/internal/domain/repository"
	"github.com/granjasanluis/reparto-api/pkg/apperror"
)

// RouteService handles delivery route operations
type RouteService struct {
	routeRepo repository.RouteRepository
}

// NewRouteService creates a new route service
func NewRouteService(routeRepo repository.RouteRepository) *RouteService {
	return &RouteService{routeRepo: routeRepo}
}

// CreateRouteInput represents the create route input
type CreateRouteInput struct {
	UserID      uuid.UUID
	Name        string
	Description *string
}

// UpdateRouteInput represents the update route input
type UpdateRouteInput struct {
	Name        *string
	Description *string
}

// CreateRoute creates a new delivery route
func (s *RouteService) CreateRoute(ctx context.Context, input *CreateRouteInput) (*entity.Route, error) {
	existing, err := s.routeRepo.GetByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A route with this name already exists")
	}

	route := &entity.Route{
		Name:        input.Name,
		Description: input.Description,
		CreatedBy:   input.UserID,
	}

	if err := s.routeRepo.Create(ctx, route); err != nil {
		return nil, err
	}

	return route, nil
}

// GetRoute retrieves a route by ID
func (s *RouteService) GetRoute(ctx context.Context, id uuid.UUID) (*entity.Route, error) {
	route, err := s.routeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, apperror.NewNotFoundError("Route")
	}
	return route, nil
}

// ListRoutes lists every delivery route ordered by name
func (s *RouteService) ListRoutes(ctx context.Context) ([]entity.Route, error) {
	return s.routeRepo.List(ctx)
}

// UpdateRoute updates a route's name or description
func (s *RouteService) UpdateRoute(ctx context.Context, id uuid.UUID, input *UpdateRouteInput) (*entity.Route, error) {
	route, err := s.routeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, apperror.NewNotFoundError("Route")
	}

	if input.Name != nil && *input.Name != route.Name {
		existing, err := s.routeRepo.GetByName(ctx, *input.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, apperror.NewConflictError("A route with this name already exists")
		}
		route.Name = *input.Name
	}
	if input.Description != nil {
		route.Description = input.Description
	}

	if err := s.routeRepo.Update(ctx, route); err != nil {
		return nil, err
	}

	return route, nil
}

// DeleteRoute removes a route. Pre-sales keep their route assignment for
// reporting; the route record is soft deleted.
func (s *RouteService) DeleteRoute(ctx context.Context, id uuid.UUID) error {
	route, err := s.routeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if route == nil {
		return apperror.NewNotFoundError("Route")
	}
	return s.routeRepo.Delete(ctx, id)
}
