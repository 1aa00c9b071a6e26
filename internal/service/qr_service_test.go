package service_test

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"testing"

	"github.com/Freeeeeet/shelf_server/internal/apperr"
	"github.com/Freeeeeet/shelf_server/internal/model"
	"github.com/Freeeeeet/shelf_server/internal/service"
	"github.com/Freeeeeet/shelf_server/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newQrService(t *testing.T) (*service.QrService, *mocks.QrStore, *mocks.AssetStore) {
	qrs := mocks.NewQrStore(t)
	assets := mocks.NewAssetStore(t)
	return service.NewQrService(qrs, assets, "https://app.shelf.nu/", zap.NewNop()), qrs, assets
}

func TestQrSize_Pixels(t *testing.T) {
	assert.Equal(t, 45, service.QrSizeCable.Pixels())
	assert.Equal(t, 94, service.QrSizeSmall.Pixels())
	assert.Equal(t, 170, service.QrSizeMedium.Pixels())
	assert.Equal(t, 246, service.QrSizeLarge.Pixels())
	assert.Equal(t, 170, service.QrSize("huge").Pixels())
}

func TestQrPayload(t *testing.T) {
	svc, _, _ := newQrService(t)
	assert.Equal(t, "https://app.shelf.nu/qr/qr-1", svc.Payload("qr-1"))
}

func TestGenerateCode_PNG(t *testing.T) {
	svc, _, _ := newQrService(t)

	data, err := svc.GenerateCode("qr-1", service.QrSizeLarge)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 246, img.Bounds().Dx())
}

func TestGetOrCreateForAsset_ReturnsExisting(t *testing.T) {
	svc, qrs, assets := newQrService(t)
	ctx := context.Background()
	assetID := "asset-1"

	assets.On("GetByIDs", ctx, "org-1", []string{assetID}).Return([]*model.Asset{{ID: assetID}}, nil)
	qrs.On("GetByAssetID", ctx, assetID).Return(&model.Qr{ID: "qr-1", AssetID: &assetID}, nil)

	qr, err := svc.GetOrCreateForAsset(ctx, "user-1", "org-1", assetID)

	require.NoError(t, err)
	assert.Equal(t, "qr-1", qr.ID)
	qrs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetOrCreateForAsset_Creates(t *testing.T) {
	svc, qrs, assets := newQrService(t)
	ctx := context.Background()

	assets.On("GetByIDs", ctx, "org-1", []string{"asset-1"}).Return([]*model.Asset{{ID: "asset-1"}}, nil)
	qrs.On("GetByAssetID", ctx, "asset-1").Return(nil, nil)
	qrs.On("Create", ctx, mock.MatchedBy(func(q *model.Qr) bool {
		return q.ID != "" && *q.AssetID == "asset-1" && *q.OrganizationID == "org-1" && q.UserID == "user-1"
	})).Return(nil)

	qr, err := svc.GetOrCreateForAsset(ctx, "user-1", "org-1", "asset-1")

	require.NoError(t, err)
	assert.NotEmpty(t, qr.ID)
}

func TestGetOrCreateForAsset_UnknownAsset(t *testing.T) {
	svc, _, assets := newQrService(t)
	ctx := context.Background()

	assets.On("GetByIDs", ctx, "org-1", []string{"asset-x"}).Return(nil, nil)

	_, err := svc.GetOrCreateForAsset(ctx, "user-1", "org-1", "asset-x")

	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestGenerateOrphanedCodes_Bounds(t *testing.T) {
	svc, qrs, _ := newQrService(t)

	for _, amount := range []int{0, service.MaxOrphanedCodes + 1} {
		_, err := svc.GenerateOrphanedCodes(context.Background(), "user-1", amount)
		assert.True(t, errors.Is(err, apperr.ErrInvalidRequest), "amount %d", amount)
	}
	qrs.AssertNotCalled(t, "CreateOrphaned", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateOrphanedCodes(t *testing.T) {
	svc, qrs, _ := newQrService(t)
	ctx := context.Background()

	qrs.On("CreateOrphaned", ctx, "user-1", mock.MatchedBy(func(ids []string) bool { return len(ids) == 3 })).
		Return([]*model.Qr{{ID: "a"}, {ID: "b"}, {ID: "c"}}, nil)

	codes, err := svc.GenerateOrphanedCodes(ctx, "user-1", 3)

	require.NoError(t, err)
	assert.Len(t, codes, 3)
}

func TestGetQr_Visibility(t *testing.T) {
	svc, qrs, _ := newQrService(t)
	ctx := context.Background()
	org := "org-1"

	qrs.On("GetByID", ctx, "qr-org").Return(&model.Qr{ID: "qr-org", UserID: "user-2", OrganizationID: &org}, nil)
	qrs.On("GetByID", ctx, "qr-orphan").Return(&model.Qr{ID: "qr-orphan", UserID: "user-2"}, nil)

	actor := service.Actor{UserID: "user-1", OrganizationID: "org-1"}

	_, err := svc.Get(ctx, actor, "qr-org")
	assert.NoError(t, err)

	_, err = svc.Get(ctx, actor, "qr-orphan")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestLabelSheet(t *testing.T) {
	svc, _, _ := newQrService(t)

	qrs := make([]*model.Qr, 30)
	for i := range qrs {
		qrs[i] = &model.Qr{ID: "00000000-0000-0000-0000-0000000000" + string(rune('a'+i%26)) + string(rune('a'+i/26))}
	}

	pdf, err := svc.LabelSheet(qrs)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}
