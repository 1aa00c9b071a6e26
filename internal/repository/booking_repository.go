package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/shelf_server/internal/model"
	"github.com/Freeeeeet/shelf_server/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type rowScanner interface {
	Scan(dest ...any) error
}

const bookingSelect = `
	SELECT
		b.id, b.name, b.status, b.organization_id, b.creator_id,
		b.custodian_user_id, b.custodian_team_member_id, b."from", b."to",
		b.created_at, b.updated_at,
		(SELECT COUNT(*) FROM booking_assets ba WHERE ba.booking_id = b.id) AS assets_count,
		u.email, u.first_name, u.last_name, u.telegram_chat_id,
		tm.name, tm.user_id,
		o.name, o.type, o.owner_id
	FROM bookings b
	JOIN organizations o ON o.id = b.organization_id
	LEFT JOIN users u ON u.id = b.custodian_user_id
	LEFT JOIN team_members tm ON tm.id = b.custodian_team_member_id
`

// BookingQuery фильтр списка бронирований
type BookingQuery struct {
	OrganizationID        string
	Statuses              []model.BookingStatus
	CustodianUserID       *string
	CustodianTeamMemberID *string
}

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт новое бронирование
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (id, name, status, organization_id, creator_id,
			custodian_user_id, custodian_team_member_id, "from", "to")
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		booking.ID,
		booking.Name,
		booking.Status,
		booking.OrganizationID,
		booking.CreatorID,
		booking.CustodianUserID,
		booking.CustodianTeamMemberID,
		booking.From,
		booking.To,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByID получает бронирование по ID вместе с ответственным и организацией
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := scanBooking(r.QueryRow(ctx, bookingSelect+` WHERE b.id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return booking, nil
}

// GetForUpdate получает бронирование с блокировкой строки, используется внутри транзакции
func (r *BookingRepository) GetForUpdate(ctx context.Context, id string) (*model.Booking, error) {
	query := `
		SELECT id, name, status, organization_id, creator_id,
			custodian_user_id, custodian_team_member_id, "from", "to", created_at, updated_at
		FROM bookings
		WHERE id = $1
		FOR UPDATE
	`

	var b model.Booking
	err := r.QueryRow(ctx, query, id).Scan(
		&b.ID,
		&b.Name,
		&b.Status,
		&b.OrganizationID,
		&b.CreatorID,
		&b.CustodianUserID,
		&b.CustodianTeamMemberID,
		&b.From,
		&b.To,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking for update: %w", err)
	}

	return &b, nil
}

// List возвращает бронирования организации по фильтру
func (r *BookingRepository) List(ctx context.Context, q BookingQuery) ([]*model.Booking, error) {
	query := bookingSelect + `
		WHERE b.organization_id = $1
		  AND ($2::text[] IS NULL OR b.status = ANY($2))
		  AND ($3::text IS NULL OR b.custodian_user_id = $3)
		  AND ($4::text IS NULL OR b.custodian_team_member_id = $4)
		ORDER BY b."from" ASC NULLS LAST, b.created_at DESC
	`

	rows, err := r.Query(ctx, query, q.OrganizationID, statusesToStrings(q.Statuses), q.CustodianUserID, q.CustodianTeamMemberID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	return scanBookings(rows)
}

// ListByCustodianUser возвращает бронирования пользователя во всех организациях
func (r *BookingRepository) ListByCustodianUser(ctx context.Context, userID string, statuses []model.BookingStatus) ([]*model.Booking, error) {
	query := bookingSelect + `
		WHERE b.custodian_user_id = $1
		  AND ($2::text[] IS NULL OR b.status = ANY($2))
		ORDER BY b."from" ASC NULLS LAST
	`

	rows, err := r.Query(ctx, query, userID, statusesToStrings(statuses))
	if err != nil {
		return nil, fmt.Errorf("list bookings by custodian: %w", err)
	}

	return scanBookings(rows)
}

// Update сохраняет редактируемые поля бронирования
func (r *BookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	query := `
		UPDATE bookings
		SET name = $1, "from" = $2, "to" = $3,
			custodian_user_id = $4, custodian_team_member_id = $5,
			updated_at = now()
		WHERE id = $6
		RETURNING updated_at
	`

	err := r.QueryRow(
		ctx, query,
		booking.Name,
		booking.From,
		booking.To,
		booking.CustodianUserID,
		booking.CustodianTeamMemberID,
		booking.ID,
	).Scan(&booking.UpdatedAt)

	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}

	return nil
}

// TransitionStatus меняет статус, только если текущий входит в from.
// Возвращает false, если бронирование уже в другом состоянии.
func (r *BookingRepository) TransitionStatus(ctx context.Context, id string, from []model.BookingStatus, to model.BookingStatus) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = ANY($3)
	`

	affected, err := r.ExecAffected(ctx, query, to, id, statusesToStrings(from))
	if err != nil {
		return false, fmt.Errorf("transition booking status: %w", err)
	}

	return affected > 0, nil
}

// MarkOverdue переводит ONGOING бронирование в OVERDUE и возвращает время окончания.
// Если бронирование уже не ONGOING, возвращает nil.
func (r *BookingRepository) MarkOverdue(ctx context.Context, id string) (*time.Time, error) {
	query := `
		UPDATE bookings
		SET status = 'OVERDUE', updated_at = now()
		WHERE id = $1 AND status = 'ONGOING'
		RETURNING COALESCE("to", now())
	`

	var to time.Time
	if err := r.QueryRow(ctx, query, id).Scan(&to); err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("mark booking overdue: %w", err)
	}

	return &to, nil
}

// Delete удаляет бронирование
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}

	if affected == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// AddAssets добавляет активы в бронирование, повторное добавление игнорируется
func (r *BookingRepository) AddAssets(ctx context.Context, bookingID string, assetIDs []string) error {
	query := `
		INSERT INTO booking_assets (booking_id, asset_id)
		SELECT $1, unnest($2::text[])
		ON CONFLICT DO NOTHING
	`

	if _, err := r.ExecAffected(ctx, query, bookingID, assetIDs); err != nil {
		return fmt.Errorf("add booking assets: %w", err)
	}

	return nil
}

// RemoveAssets убирает активы из бронирования
func (r *BookingRepository) RemoveAssets(ctx context.Context, bookingID string, assetIDs []string) error {
	query := `DELETE FROM booking_assets WHERE booking_id = $1 AND asset_id = ANY($2)`

	if _, err := r.ExecAffected(ctx, query, bookingID, assetIDs); err != nil {
		return fmt.Errorf("remove booking assets: %w", err)
	}

	return nil
}

// AssetIDs возвращает id активов бронирования
func (r *BookingRepository) AssetIDs(ctx context.Context, bookingID string) ([]string, error) {
	rows, err := r.Query(ctx, `SELECT asset_id FROM booking_assets WHERE booking_id = $1 ORDER BY asset_id`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking assets: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan booking assets: %w", err)
	}

	return ids, nil
}

func statusesToStrings(statuses []model.BookingStatus) []string {
	if len(statuses) == 0 {
		return nil
	}
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func scanBookings(rows pgx.Rows) ([]*model.Booking, error) {
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}

func scanBooking(row rowScanner) (*model.Booking, error) {
	var (
		b             model.Booking
		userEmail     *string
		userFirstName *string
		userLastName  *string
		userChatID    *int64
		memberName    *string
		memberUserID  *string
		org           model.Organization
	)

	err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Status,
		&b.OrganizationID,
		&b.CreatorID,
		&b.CustodianUserID,
		&b.CustodianTeamMemberID,
		&b.From,
		&b.To,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.AssetsCount,
		&userEmail,
		&userFirstName,
		&userLastName,
		&userChatID,
		&memberName,
		&memberUserID,
		&org.Name,
		&org.Type,
		&org.OwnerID,
	)
	if err != nil {
		return nil, err
	}

	if b.CustodianUserID != nil && userEmail != nil {
		b.CustodianUser = &model.User{
			ID:             *b.CustodianUserID,
			Email:          *userEmail,
			FirstName:      deref(userFirstName),
			LastName:       deref(userLastName),
			TelegramChatID: userChatID,
		}
	}

	if b.CustodianTeamMemberID != nil && memberName != nil {
		b.CustodianTeamMember = &model.TeamMember{
			ID:             *b.CustodianTeamMemberID,
			Name:           *memberName,
			OrganizationID: b.OrganizationID,
			UserID:         memberUserID,
		}
	}

	org.ID = b.OrganizationID
	b.Organization = &org

	return &b, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
