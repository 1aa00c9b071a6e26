package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/shelf_server/internal/model"
	"github.com/Freeeeeet/shelf_server/internal/repository/base"
	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
	MaxPage        = 10000

	uncategorized = "uncategorized"
)

// AssetQuery параметры выборки активов организации
type AssetQuery struct {
	OrganizationID string
	Search         string
	Status         *model.AssetStatus
	CategoryIDs    []string
	LocationIDs    []string
	TagIDs         []string
	TeamMemberIDs  []string
	Availability   AvailabilityFilter
	Page           int
	PerPage        int
}

// Normalize приводит параметры пагинации к допустимым значениям
func (q *AssetQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.PerPage < 1 || q.PerPage > MaxPerPage {
		q.PerPage = DefaultPerPage
	}
}

func (q AssetQuery) where() []exp.Expression {
	exprs := []exp.Expression{goqu.I("a.organization_id").Eq(q.OrganizationID)}

	if q.Search != "" {
		exprs = append(exprs, goqu.I("a.title").ILike("%"+escapeLike(q.Search)+"%"))
	}

	if q.Status != nil {
		exprs = append(exprs, goqu.I("a.status").Eq(string(*q.Status)))
	}

	if len(q.CategoryIDs) > 0 {
		in := goqu.I("a.category_id").In(stringsToInterfaces(q.CategoryIDs)...)
		if contains(q.CategoryIDs, uncategorized) {
			exprs = append(exprs, goqu.Or(in, goqu.I("a.category_id").IsNull()))
		} else {
			exprs = append(exprs, in)
		}
	}

	if len(q.LocationIDs) > 0 {
		exprs = append(exprs, goqu.I("a.location_id").In(stringsToInterfaces(q.LocationIDs)...))
	}

	if len(q.TagIDs) > 0 {
		tags := dialect.From(goqu.T("asset_tags").As("at")).
			Select(goqu.L("1")).
			Where(
				goqu.I("at.asset_id").Eq(goqu.I("a.id")),
				goqu.I("at.tag_id").In(stringsToInterfaces(q.TagIDs)...),
			)
		exprs = append(exprs, goqu.L("EXISTS ?", tags))
	}

	if len(q.TeamMemberIDs) > 0 {
		exprs = append(exprs, teamMemberExpression(stringsToInterfaces(q.TeamMemberIDs)))
	}

	return append(exprs, availabilityExpressions(q.Availability)...)
}

// teamMemberExpression актив у участника: закреплён за ним (по id участника или его пользователя)
// либо выдан ему по бронированию в статусе ONGOING или OVERDUE
func teamMemberExpression(ids []interface{}) exp.Expression {
	custody := dialect.From(goqu.T("custody").As("c")).
		Select(goqu.L("1")).
		Where(
			goqu.I("c.asset_id").Eq(goqu.I("a.id")),
			goqu.I("c.team_member_id").In(ids...),
		)
	userCustody := dialect.From(goqu.T("custody").As("uc")).
		Join(goqu.T("team_members").As("tm"), goqu.On(goqu.I("tm.id").Eq(goqu.I("uc.team_member_id")))).
		Select(goqu.L("1")).
		Where(
			goqu.I("uc.asset_id").Eq(goqu.I("a.id")),
			goqu.I("tm.user_id").In(ids...),
		)
	bookings := dialect.From(goqu.T("booking_assets").As("ba")).
		Join(goqu.T("bookings").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("ba.booking_id")))).
		Select(goqu.L("1")).
		Where(
			goqu.I("ba.asset_id").Eq(goqu.I("a.id")),
			goqu.I("b.status").In(string(model.BookingStatusOngoing), string(model.BookingStatusOverdue)),
			goqu.Or(
				goqu.I("b.custodian_team_member_id").In(ids...),
				goqu.I("b.custodian_user_id").In(ids...),
			),
		)

	return goqu.Or(
		goqu.L("EXISTS ?", custody),
		goqu.L("EXISTS ?", bookings),
		goqu.L("EXISTS ?", userCustody),
	)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike экранирует спецсимволы ILIKE, экранирующий символ по умолчанию обратный слэш
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// buildAssetListQuery запрос страницы активов с закреплением
func buildAssetListQuery(q AssetQuery) *goqu.SelectDataset {
	return dialect.From(goqu.T("assets").As("a")).
		LeftJoin(goqu.T("custody").As("c"), goqu.On(goqu.I("c.asset_id").Eq(goqu.I("a.id")))).
		Select(
			goqu.I("a.id"), goqu.I("a.title"), goqu.I("a.organization_id"), goqu.I("a.status"),
			goqu.I("a.available_to_book"), goqu.I("a.kit_id"), goqu.I("a.category_id"),
			goqu.I("a.location_id"), goqu.I("a.created_at"),
			goqu.I("c.id"), goqu.I("c.team_member_id"), goqu.I("c.created_at"),
		).
		Where(q.where()...).
		Order(goqu.I("a.created_at").Desc()).
		Limit(uint(q.PerPage)).
		Offset(uint((q.Page - 1) * q.PerPage))
}

func buildAssetCountQuery(q AssetQuery) *goqu.SelectDataset {
	return dialect.From(goqu.T("assets").As("a")).
		Select(goqu.COUNT("*")).
		Where(q.where()...)
}

// buildActiveBookingsQuery активные бронирования для набора активов,
// при заданном окне только пересекающиеся с ним
func buildActiveBookingsQuery(assetIDs []string, window *model.BookingWindow, exempt []string) *goqu.SelectDataset {
	ds := dialect.From(goqu.T("booking_assets").As("ba")).
		Join(goqu.T("bookings").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("ba.booking_id")))).
		Select(goqu.I("ba.asset_id"), goqu.I("b.id"), goqu.I("b.name"), goqu.I("b.status"), goqu.I("b.from"), goqu.I("b.to")).
		Where(
			goqu.I("ba.asset_id").In(stringsToInterfaces(assetIDs)...),
			goqu.I("b.status").In(activeStatuses()...),
			goqu.I("b.from").IsNotNull(),
			goqu.I("b.to").IsNotNull(),
		).
		Order(goqu.I("b.from").Asc())

	if window != nil {
		ds = ds.Where(overlapExpression(*window))
	}
	if len(exempt) > 0 {
		ds = ds.Where(goqu.I("b.id").NotIn(stringsToInterfaces(exempt)...))
	}

	return ds
}

type AssetRepository struct {
	*base.Repository
}

func NewAssetRepository(pool *pgxpool.Pool) *AssetRepository {
	return &AssetRepository{Repository: base.NewRepository(pool)}
}

// List возвращает страницу активов и общее количество по фильтру
func (r *AssetRepository) List(ctx context.Context, q AssetQuery) ([]*model.Asset, int, error) {
	q.Normalize()

	query, args, err := buildAssetListQuery(q).Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build assets query: %w", err)
	}

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list assets: %w", err)
	}
	assets, err := scanAssets(rows)
	if err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := buildAssetCountQuery(q).Prepared(true).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build assets count query: %w", err)
	}

	var total int
	if err := r.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count assets: %w", err)
	}

	if window, ok := q.Availability.Window(); ok && len(assets) > 0 {
		if err := r.attachConflicts(ctx, assets, window); err != nil {
			return nil, 0, err
		}
	}

	return assets, total, nil
}

// attachConflicts помечает активы первым пересекающимся бронированием, чтобы показать его в списке
func (r *AssetRepository) attachConflicts(ctx context.Context, assets []*model.Asset, window model.BookingWindow) error {
	ids := make([]string, len(assets))
	for i, a := range assets {
		ids[i] = a.ID
	}

	bookings, err := r.ActiveBookings(ctx, ids, &window, nil)
	if err != nil {
		return err
	}

	for _, a := range assets {
		if list := bookings[a.ID]; len(list) > 0 {
			first := list[0]
			a.ConflictBooking = &first
		}
	}
	return nil
}

// GetByIDs возвращает активы организации по id вместе с закреплением
func (r *AssetRepository) GetByIDs(ctx context.Context, organizationID string, ids []string) ([]*model.Asset, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := dialect.From(goqu.T("assets").As("a")).
		LeftJoin(goqu.T("custody").As("c"), goqu.On(goqu.I("c.asset_id").Eq(goqu.I("a.id")))).
		Select(
			goqu.I("a.id"), goqu.I("a.title"), goqu.I("a.organization_id"), goqu.I("a.status"),
			goqu.I("a.available_to_book"), goqu.I("a.kit_id"), goqu.I("a.category_id"),
			goqu.I("a.location_id"), goqu.I("a.created_at"),
			goqu.I("c.id"), goqu.I("c.team_member_id"), goqu.I("c.created_at"),
		).
		Where(
			goqu.I("a.organization_id").Eq(organizationID),
			goqu.I("a.id").In(stringsToInterfaces(ids)...),
		).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build assets by ids query: %w", err)
	}

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get assets by ids: %w", err)
	}
	return scanAssets(rows)
}

// ActiveBookings возвращает активные бронирования по активам: asset_id -> бронирования
func (r *AssetRepository) ActiveBookings(ctx context.Context, assetIDs []string, window *model.BookingWindow, exempt []string) (map[string][]model.BookingBrief, error) {
	result := make(map[string][]model.BookingBrief)
	if len(assetIDs) == 0 {
		return result, nil
	}

	query, args, err := buildActiveBookingsQuery(assetIDs, window, exempt).Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build active bookings query: %w", err)
	}

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get active bookings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var assetID string
		var b model.BookingBrief
		if err := rows.Scan(&assetID, &b.ID, &b.Name, &b.Status, &b.From, &b.To); err != nil {
			return nil, fmt.Errorf("scan active booking: %w", err)
		}
		result[assetID] = append(result[assetID], b)
	}

	return result, rows.Err()
}

// UpdateBookingAvailability включает или выключает возможность бронирования актива
func (r *AssetRepository) UpdateBookingAvailability(ctx context.Context, organizationID, assetID string, available bool) error {
	query := `
		UPDATE assets
		SET available_to_book = $1
		WHERE id = $2 AND organization_id = $3
	`

	affected, err := r.ExecAffected(ctx, query, available, assetID, organizationID)
	if err != nil {
		return fmt.Errorf("update asset booking availability: %w", err)
	}

	if affected == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// UpdateStatusForBooking меняет статус всех активов бронирования
func (r *AssetRepository) UpdateStatusForBooking(ctx context.Context, bookingID string, status model.AssetStatus) error {
	query := `
		UPDATE assets
		SET status = $1
		WHERE id IN (SELECT asset_id FROM booking_assets WHERE booking_id = $2)
	`

	if _, err := r.ExecAffected(ctx, query, status, bookingID); err != nil {
		return fmt.Errorf("update asset status for booking: %w", err)
	}

	return nil
}

func scanAssets(rows pgx.Rows) ([]*model.Asset, error) {
	defer rows.Close()

	var assets []*model.Asset
	for rows.Next() {
		var (
			asset            model.Asset
			custodyID        *string
			custodyMemberID  *string
			custodyCreatedAt *time.Time
		)
		err := rows.Scan(
			&asset.ID,
			&asset.Title,
			&asset.OrganizationID,
			&asset.Status,
			&asset.AvailableToBook,
			&asset.KitID,
			&asset.CategoryID,
			&asset.LocationID,
			&asset.CreatedAt,
			&custodyID,
			&custodyMemberID,
			&custodyCreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}

		if custodyID != nil {
			asset.Custody = &model.Custody{
				ID:           *custodyID,
				AssetID:      asset.ID,
				TeamMemberID: *custodyMemberID,
				CreatedAt:    *custodyCreatedAt,
			}
		}

		assets = append(assets, &asset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assets: %w", err)
	}

	return assets, nil
}
