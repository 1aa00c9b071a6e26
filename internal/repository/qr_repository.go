package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/shelf_server/internal/model"
	"github.com/Freeeeeet/shelf_server/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const qrColumns = `id, asset_id, user_id, organization_id, created_at`

type QrRepository struct {
	*base.Repository
}

func NewQrRepository(pool *pgxpool.Pool) *QrRepository {
	return &QrRepository{Repository: base.NewRepository(pool)}
}

// Create сохраняет QR код
func (r *QrRepository) Create(ctx context.Context, qr *model.Qr) error {
	query := `
		INSERT INTO qrs (id, asset_id, user_id, organization_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.QueryRow(ctx, query, qr.ID, qr.AssetID, qr.UserID, qr.OrganizationID).Scan(&qr.CreatedAt)
	if err != nil {
		return fmt.Errorf("create qr: %w", err)
	}

	return nil
}

// CreateOrphaned сохраняет пачку кодов без актива и организации одним запросом
func (r *QrRepository) CreateOrphaned(ctx context.Context, userID string, ids []string) ([]*model.Qr, error) {
	query := `
		INSERT INTO qrs (id, user_id)
		SELECT unnest($1::text[]), $2
		RETURNING ` + qrColumns

	rows, err := r.Query(ctx, query, ids, userID)
	if err != nil {
		return nil, fmt.Errorf("create orphaned qrs: %w", err)
	}

	return scanQrs(rows)
}

// GetByID получает QR код по ID
func (r *QrRepository) GetByID(ctx context.Context, id string) (*model.Qr, error) {
	qr, err := scanQr(r.QueryRow(ctx, `SELECT `+qrColumns+` FROM qrs WHERE id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get qr by id: %w", err)
	}

	return qr, nil
}

// GetByAssetID получает QR код, привязанный к активу
func (r *QrRepository) GetByAssetID(ctx context.Context, assetID string) (*model.Qr, error) {
	qr, err := scanQr(r.QueryRow(ctx, `SELECT `+qrColumns+` FROM qrs WHERE asset_id = $1`, assetID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get qr by asset id: %w", err)
	}

	return qr, nil
}

func scanQrs(rows pgx.Rows) ([]*model.Qr, error) {
	defer rows.Close()

	var qrs []*model.Qr
	for rows.Next() {
		qr, err := scanQr(rows)
		if err != nil {
			return nil, fmt.Errorf("scan qr: %w", err)
		}
		qrs = append(qrs, qr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate qrs: %w", err)
	}

	return qrs, nil
}

func scanQr(row rowScanner) (*model.Qr, error) {
	var qr model.Qr
	err := row.Scan(
		&qr.ID,
		&qr.AssetID,
		&qr.UserID,
		&qr.OrganizationID,
		&qr.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &qr, nil
}
