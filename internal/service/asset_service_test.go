package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/shelf_server/internal/apperr"
	"github.com/Freeeeeet/shelf_server/internal/model"
	"github.com/Freeeeeet/shelf_server/internal/repository"
	"github.com/Freeeeeet/shelf_server/internal/service"
	"github.com/Freeeeeet/shelf_server/internal/service/mocks"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAssetList_HideUnavailableRequiresWindow(t *testing.T) {
	store := mocks.NewAssetStore(t)
	svc := service.NewAssetService(store, zap.NewNop())

	from := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err := svc.List(context.Background(), repository.AssetQuery{
		OrganizationID: "org-1",
		Availability:   repository.AvailabilityFilter{HideUnavailable: true, BookingFrom: &from},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidRequest))
	assert.Equal(t, 400, apperr.HTTPStatus(err))
	store.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestAssetList_Pagination(t *testing.T) {
	store := mocks.NewAssetStore(t)
	svc := service.NewAssetService(store, zap.NewNop())
	ctx := context.Background()

	store.On("List", ctx, mock.MatchedBy(func(q repository.AssetQuery) bool {
		return q.Page == 1 && q.PerPage == repository.DefaultPerPage
	})).Return([]*model.Asset{{ID: "asset-1"}}, 45, nil)

	page, err := svc.List(ctx, repository.AssetQuery{OrganizationID: "org-1", PerPage: 1000})

	require.NoError(t, err)
	assert.Equal(t, 45, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Assets, 1)
}

func TestUpdateBookingAvailability_NotFound(t *testing.T) {
	store := mocks.NewAssetStore(t)
	svc := service.NewAssetService(store, zap.NewNop())
	ctx := context.Background()

	store.On("UpdateBookingAvailability", ctx, "org-1", "asset-1", false).Return(pgx.ErrNoRows)

	err := svc.UpdateBookingAvailability(ctx, "org-1", "asset-1", false)

	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
