package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/shelf_server/internal/model"
	"github.com/Freeeeeet/shelf_server/internal/repository"
)

//go:generate mockery --name=BookingStore --output=mocks --outpkg=mocks
//go:generate mockery --name=AssetStore --output=mocks --outpkg=mocks
//go:generate mockery --name=MembershipStore --output=mocks --outpkg=mocks
//go:generate mockery --name=UserStore --output=mocks --outpkg=mocks
//go:generate mockery --name=TeamMemberStore --output=mocks --outpkg=mocks
//go:generate mockery --name=QrStore --output=mocks --outpkg=mocks

// Transactor выполняет fn в одной транзакции базы
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type BookingStore interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetForUpdate(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context, q repository.BookingQuery) ([]*model.Booking, error)
	ListByCustodianUser(ctx context.Context, userID string, statuses []model.BookingStatus) ([]*model.Booking, error)
	Update(ctx context.Context, booking *model.Booking) error
	TransitionStatus(ctx context.Context, id string, from []model.BookingStatus, to model.BookingStatus) (bool, error)
	MarkOverdue(ctx context.Context, id string) (*time.Time, error)
	Delete(ctx context.Context, id string) error
	AddAssets(ctx context.Context, bookingID string, assetIDs []string) error
	RemoveAssets(ctx context.Context, bookingID string, assetIDs []string) error
	AssetIDs(ctx context.Context, bookingID string) ([]string, error)
}

type AssetStore interface {
	List(ctx context.Context, q repository.AssetQuery) ([]*model.Asset, int, error)
	GetByIDs(ctx context.Context, organizationID string, ids []string) ([]*model.Asset, error)
	ActiveBookings(ctx context.Context, assetIDs []string, window *model.BookingWindow, exempt []string) (map[string][]model.BookingBrief, error)
	UpdateBookingAvailability(ctx context.Context, organizationID, assetID string, available bool) error
	UpdateStatusForBooking(ctx context.Context, bookingID string, status model.AssetStatus) error
}

type MembershipStore interface {
	GetByID(ctx context.Context, id string) (*model.Organization, error)
	GetMembership(ctx context.Context, userID, organizationID string) (*model.Membership, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByTelegramChatID(ctx context.Context, chatID int64) (*model.User, error)
	SetTelegramChatID(ctx context.Context, userID string, chatID *int64) error
}

type TeamMemberStore interface {
	GetByID(ctx context.Context, organizationID, id string) (*model.TeamMember, error)
}

type QrStore interface {
	Create(ctx context.Context, qr *model.Qr) error
	CreateOrphaned(ctx context.Context, userID string, ids []string) ([]*model.Qr, error)
	GetByID(ctx context.Context, id string) (*model.Qr, error)
	GetByAssetID(ctx context.Context, assetID string) (*model.Qr, error)
}
