package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/shelf_server/internal/apperr"
	"github.com/Freeeeeet/shelf_server/internal/model"
	"github.com/Freeeeeet/shelf_server/internal/repository/base"
	"github.com/google/uuid"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const (
	labelQr = "QR"

	MaxOrphanedCodes = 1000
)

// QrSize размер изображения кода
type QrSize string

const (
	QrSizeCable  QrSize = "cable"
	QrSizeSmall  QrSize = "small"
	QrSizeMedium QrSize = "medium"
	QrSizeLarge  QrSize = "large"
)

// Pixels возвращает сторону изображения в пикселях, неизвестный размер считается medium
func (s QrSize) Pixels() int {
	switch s {
	case QrSizeCable:
		return 45
	case QrSizeSmall:
		return 94
	case QrSizeLarge:
		return 246
	default:
		return 170
	}
}

type QrService struct {
	qrs       QrStore
	assets    AssetStore
	serverURL string
	logger    *zap.Logger
}

func NewQrService(qrs QrStore, assets AssetStore, serverURL string, logger *zap.Logger) *QrService {
	return &QrService{
		qrs:       qrs,
		assets:    assets,
		serverURL: strings.TrimRight(serverURL, "/"),
		logger:    logger,
	}
}

// Payload ссылка, которую кодирует QR
func (s *QrService) Payload(qrID string) string {
	return s.serverURL + "/qr/" + qrID
}

// GetOrCreateForAsset возвращает код актива, создавая его при первом обращении
func (s *QrService) GetOrCreateForAsset(ctx context.Context, userID, organizationID, assetID string) (*model.Qr, error) {
	assets, err := s.assets.GetByIDs(ctx, organizationID, []string{assetID})
	if err != nil {
		return nil, apperr.Internal(labelQr, "failed to load asset", err)
	}
	if len(assets) == 0 {
		return nil, apperr.NotFound(labelQr, "asset not found").With("id", assetID)
	}

	qr, err := s.qrs.GetByAssetID(ctx, assetID)
	if err != nil {
		return nil, apperr.Internal(labelQr, "failed to load qr code", err)
	}
	if qr != nil {
		return qr, nil
	}

	qr = &model.Qr{
		ID:             uuid.New().String(),
		AssetID:        &assetID,
		UserID:         userID,
		OrganizationID: &organizationID,
	}
	if err := s.qrs.Create(ctx, qr); err != nil {
		if base.IsUniqueViolation(err) {
			// Параллельный запрос успел создать код первым
			return s.qrs.GetByAssetID(ctx, assetID)
		}
		return nil, apperr.Internal(labelQr, "failed to create qr code", err)
	}

	s.logger.Info("QR code created", zap.String("qr_id", qr.ID), zap.String("asset_id", assetID))
	return qr, nil
}

// Get возвращает код организации. Код без организации доступен только создавшему его.
func (s *QrService) Get(ctx context.Context, actor Actor, qrID string) (*model.Qr, error) {
	qr, err := s.qrs.GetByID(ctx, qrID)
	if err != nil {
		return nil, apperr.Internal(labelQr, "failed to load qr code", err)
	}

	visible := qr != nil &&
		((qr.OrganizationID != nil && *qr.OrganizationID == actor.OrganizationID) ||
			(qr.OrganizationID == nil && qr.UserID == actor.UserID))
	if !visible {
		return nil, apperr.NotFound(labelQr, "qr code not found").With("id", qrID)
	}
	return qr, nil
}

// GenerateCode рисует PNG кода нужного размера
func (s *QrService) GenerateCode(qrID string, size QrSize) ([]byte, error) {
	png, err := qrcode.Encode(s.Payload(qrID), qrcode.Medium, size.Pixels())
	if err != nil {
		return nil, apperr.Internal(labelQr, "failed to generate qr code", err)
	}
	return png, nil
}

// GenerateOrphanedCodes создаёт пачку кодов без актива, для печати заранее
func (s *QrService) GenerateOrphanedCodes(ctx context.Context, userID string, amount int) ([]*model.Qr, error) {
	if amount < 1 || amount > MaxOrphanedCodes {
		return nil, apperr.InvalidRequest(labelQr, fmt.Sprintf("amount must be between 1 and %d", MaxOrphanedCodes)).
			With("amount", amount)
	}

	ids := make([]string, amount)
	for i := range ids {
		ids[i] = uuid.New().String()
	}

	qrs, err := s.qrs.CreateOrphaned(ctx, userID, ids)
	if err != nil {
		return nil, apperr.Internal(labelQr, "failed to create qr codes", err)
	}

	s.logger.Info("Orphaned QR codes generated", zap.String("user_id", userID), zap.Int("amount", len(qrs)))
	return qrs, nil
}

// Раскладка листа наклеек A4, мм
const (
	labelColumns = 4
	labelRows    = 6
	labelWidth   = 45.0
	labelHeight  = 45.0
	labelQrSide  = 34.0
	pageMarginX  = 15.0
	pageMarginY  = 13.5
)

// LabelSheet собирает PDF с наклейками: код и сокращённый id под ним
func (s *QrService) LabelSheet(qrs []*model.Qr) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 7)
	pdf.SetAutoPageBreak(false, 0)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	perPage := labelColumns * labelRows

	for i, qr := range qrs {
		if i%perPage == 0 {
			pdf.AddPage()
		}

		png, err := s.GenerateCode(qr.ID, QrSizeLarge)
		if err != nil {
			return nil, err
		}

		slot := i % perPage
		x := pageMarginX + float64(slot%labelColumns)*labelWidth
		y := pageMarginY + float64(slot/labelColumns)*labelHeight

		name := "qr-" + qr.ID
		pdf.RegisterImageOptionsReader(name, imageOpts, bytes.NewReader(png))
		pdf.ImageOptions(name, x+(labelWidth-labelQrSide)/2, y+2, labelQrSide, labelQrSide, false, imageOpts, 0, "")

		pdf.SetXY(x, y+labelQrSide+3)
		pdf.CellFormat(labelWidth, 4, shortID(qr.ID), "", 0, "C", false, 0, "")
	}

	if len(qrs) == 0 {
		pdf.AddPage()
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperr.Internal(labelQr, "failed to render label sheet", err)
	}
	return buf.Bytes(), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
