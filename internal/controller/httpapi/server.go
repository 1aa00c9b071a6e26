package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/Freeeeeet/shelf_server/internal/model"
	"github.com/Freeeeeet/shelf_server/internal/repository"
	"github.com/Freeeeeet/shelf_server/internal/service"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type Permissions interface {
	Roles(ctx context.Context, userID, organizationID string) ([]model.OrganizationRole, error)
	ValidatePermission(ctx context.Context, check service.PermissionCheck) error
}

type Assets interface {
	List(ctx context.Context, q repository.AssetQuery) (*service.AssetPage, error)
	UpdateBookingAvailability(ctx context.Context, organizationID, assetID string, available bool) error
}

type Bookings interface {
	Create(ctx context.Context, actor service.Actor, input service.BookingInput) (*model.Booking, error)
	Update(ctx context.Context, actor service.Actor, id string, input service.BookingInput) (*model.Booking, error)
	AddAssets(ctx context.Context, actor service.Actor, id string, assetIDs []string) (*model.Booking, error)
	RemoveAssets(ctx context.Context, actor service.Actor, id string, assetIDs []string) (*model.Booking, error)
	Reserve(ctx context.Context, actor service.Actor, id string) (*model.Booking, error)
	Checkout(ctx context.Context, actor service.Actor, id string) (*model.Booking, error)
	Checkin(ctx context.Context, actor service.Actor, id string) (*model.Booking, error)
	Cancel(ctx context.Context, actor service.Actor, id string) (*model.Booking, error)
	Archive(ctx context.Context, actor service.Actor, id string) (*model.Booking, error)
	Delete(ctx context.Context, actor service.Actor, id string) error
	Get(ctx context.Context, actor service.Actor, id string) (*model.Booking, error)
	List(ctx context.Context, actor service.Actor, statuses []model.BookingStatus, custodianTeamMemberID *string) ([]*model.Booking, error)
}

type Qrs interface {
	GetOrCreateForAsset(ctx context.Context, userID, organizationID, assetID string) (*model.Qr, error)
	Get(ctx context.Context, actor service.Actor, qrID string) (*model.Qr, error)
	GenerateCode(qrID string, size service.QrSize) ([]byte, error)
}

type Users interface {
	Get(ctx context.Context, id string) (*model.User, error)
	LinkTelegram(ctx context.Context, userID string, chatID *int64) error
}

// Options настройки HTTP слоя
type Options struct {
	JWTSecret      []byte
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Server HTTP API организации: активы, бронирования, QR коды
type Server struct {
	opts        Options
	permissions Permissions
	assets      Assets
	bookings    Bookings
	qrs         Qrs
	users       Users
	limiter     *RateLimiter
	logger      *zap.Logger
}

func NewServer(
	opts Options,
	permissions Permissions,
	assets Assets,
	bookings Bookings,
	qrs Qrs,
	users Users,
	logger *zap.Logger,
) *Server {
	return &Server{
		opts:        opts,
		permissions: permissions,
		assets:      assets,
		bookings:    bookings,
		qrs:         qrs,
		users:       users,
		limiter:     NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst, 10*time.Minute),
		logger:      logger,
	}
}

// Handler собирает роутер со всеми middleware
func (s *Server) Handler() http.Handler {
	router := s.routes()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   s.opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	return s.accessLog(securityHeaders(corsHandler))
}

func (s *Server) routes() *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", s.health)

	router.GET("/api/v1/me", s.limit(s.authenticate(s.getMe)))
	router.PUT("/api/v1/me/telegram", s.limit(s.authenticate(s.linkTelegram)))

	const org = "/api/v1/organizations/:orgId"

	router.GET(org+"/assets", s.orgRoute(model.EntityAsset, model.ActionRead, s.listAssets))
	router.PATCH(org+"/assets/:assetId/availability", s.orgRoute(model.EntityAsset, model.ActionUpdate, s.updateAssetAvailability))
	router.GET(org+"/assets/:assetId/qr", s.orgRoute(model.EntityQr, model.ActionRead, s.getAssetQr))
	router.GET(org+"/qr/:qrId/code.png", s.orgRoute(model.EntityQr, model.ActionRead, s.getQrCode))

	router.GET(org+"/bookings", s.orgRoute(model.EntityBooking, model.ActionRead, s.listBookings))
	router.POST(org+"/bookings", s.orgRoute(model.EntityBooking, model.ActionCreate, s.createBooking))
	router.GET(org+"/bookings/:bookingId", s.orgRoute(model.EntityBooking, model.ActionRead, s.getBooking))
	router.PATCH(org+"/bookings/:bookingId", s.orgRoute(model.EntityBooking, model.ActionUpdate, s.updateBooking))
	router.DELETE(org+"/bookings/:bookingId", s.orgRoute(model.EntityBooking, model.ActionDelete, s.deleteBooking))
	router.POST(org+"/bookings/:bookingId/assets", s.orgRoute(model.EntityBooking, model.ActionUpdate, s.addBookingAssets))
	router.DELETE(org+"/bookings/:bookingId/assets", s.orgRoute(model.EntityBooking, model.ActionUpdate, s.removeBookingAssets))
	router.POST(org+"/bookings/:bookingId/reserve", s.orgRoute(model.EntityBooking, model.ActionUpdate, s.bookingAction(s.bookings.Reserve)))
	router.POST(org+"/bookings/:bookingId/checkout", s.orgRoute(model.EntityBooking, model.ActionUpdate, s.bookingAction(s.bookings.Checkout)))
	router.POST(org+"/bookings/:bookingId/checkin", s.orgRoute(model.EntityBooking, model.ActionUpdate, s.bookingAction(s.bookings.Checkin)))
	router.POST(org+"/bookings/:bookingId/cancel", s.orgRoute(model.EntityBooking, model.ActionUpdate, s.bookingAction(s.bookings.Cancel)))
	router.POST(org+"/bookings/:bookingId/archive", s.orgRoute(model.EntityBooking, model.ActionUpdate, s.bookingAction(s.bookings.Archive)))

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, notFoundRoute())
	})

	return router
}

// orgRoute цепочка для маршрутов организации: лимит, аутентификация, проверка прав
func (s *Server) orgRoute(entity model.PermissionEntity, action model.PermissionAction, next httprouter.Handle) httprouter.Handle {
	return s.limit(s.authenticate(s.requirePermission(entity, action, next)))
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
