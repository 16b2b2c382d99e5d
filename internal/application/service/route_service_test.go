package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granjasanluis/reparto-api/internal/domain/entity"
	"github.com/granjasanluis/reparto-api/pkg/apperror"
)

func TestCreateRouteRejectsDuplicateName(t *testing.T) {
	svc := NewRouteService(newFakeRouteRepo())

	route, err := svc.CreateRoute(context.Background(), &CreateRouteInput{
		UserID: uuid.New(),
		Name:   "Ruta Norte",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, route.ID)

	_, err = svc.CreateRoute(context.Background(), &CreateRouteInput{
		UserID: uuid.New(),
		Name:   "Ruta Norte",
	})
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Code)
}

func TestUpdateRouteRenamesAndKeepsNameUnique(t *testing.T) {
	norte := &entity.Route{ID: uuid.New(), Name: "Ruta Norte"}
	sur := &entity.Route{ID: uuid.New(), Name: "Ruta Sur"}
	svc := NewRouteService(newFakeRouteRepo(norte, sur))

	taken := "Ruta Sur"
	_, err := svc.UpdateRoute(context.Background(), norte.ID, &UpdateRouteInput{Name: &taken})
	require.Error(t, err)

	renamed := "Ruta Centro"
	updated, err := svc.UpdateRoute(context.Background(), norte.ID, &UpdateRouteInput{Name: &renamed})
	require.NoError(t, err)
	assert.Equal(t, "Ruta Centro", updated.Name)
}

func TestDeleteRouteUnknownIDFails(t *testing.T) {
	svc := NewRouteService(newFakeRouteRepo())

	err := svc.DeleteRoute(context.Background(), uuid.New())
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
}
