package service

import (
	"context"

	"github.com/Freeeeeet/shelf_server/internal/apperr"
	"github.com/Freeeeeet/shelf_server/internal/model"
	"github.com/Freeeeeet/shelf_server/internal/repository"
	"github.com/Freeeeeet/shelf_server/internal/repository/base"
	"go.uber.org/zap"
)

const labelAssets = "Assets"

// AssetPage страница списка активов
type AssetPage struct {
	Assets     []*model.Asset `json:"assets"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page"`
	TotalPages int            `json:"total_pages"`
}

type AssetService struct {
	assets AssetStore
	logger *zap.Logger
}

func NewAssetService(assets AssetStore, logger *zap.Logger) *AssetService {
	return &AssetService{assets: assets, logger: logger}
}

// List возвращает страницу активов организации. При заданном окне
// бронирования в выдачу попадают только активы, доступные для бронирования.
func (s *AssetService) List(ctx context.Context, q repository.AssetQuery) (*AssetPage, error) {
	if err := q.Availability.Validate(); err != nil {
		return nil, err
	}
	q.Normalize()

	assets, total, err := s.assets.List(ctx, q)
	if err != nil {
		return nil, apperr.Internal(labelAssets, "failed to load assets", err)
	}

	if assets == nil {
		assets = []*model.Asset{}
	}

	return &AssetPage{
		Assets:     assets,
		Total:      total,
		Page:       q.Page,
		PerPage:    q.PerPage,
		TotalPages: (total + q.PerPage - 1) / q.PerPage,
	}, nil
}

// UpdateBookingAvailability включает или выключает бронирование актива
func (s *AssetService) UpdateBookingAvailability(ctx context.Context, organizationID, assetID string, available bool) error {
	if err := s.assets.UpdateBookingAvailability(ctx, organizationID, assetID, available); err != nil {
		if base.IsNotFound(err) {
			return apperr.NotFound(labelAssets, "asset not found").With("id", assetID)
		}
		return apperr.Internal(labelAssets, "failed to update asset", err)
	}

	s.logger.Info("Asset booking availability updated",
		zap.String("asset_id", assetID),
		zap.Bool("available_to_book", available),
	)
	return nil
}
