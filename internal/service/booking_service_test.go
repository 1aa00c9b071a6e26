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

var (
	futureFrom = time.Date(2099, 3, 10, 9, 0, 0, 0, time.UTC)
	futureTo   = time.Date(2099, 3, 15, 18, 0, 0, 0, time.UTC)

	admin = service.Actor{UserID: "user-1", OrganizationID: "org-1", Roles: []model.OrganizationRole{model.RoleAdmin}}
)

type bookingFixture struct {
	bookings    *mocks.BookingStore
	assets      *mocks.AssetStore
	teamMembers *mocks.TeamMemberStore
	memberships *mocks.MembershipStore
	scheduler   *mocks.Scheduler
	svc         *service.BookingService
}

func newBookingFixture(t *testing.T) bookingFixture {
	f := bookingFixture{
		bookings:    mocks.NewBookingStore(t),
		assets:      mocks.NewAssetStore(t),
		teamMembers: mocks.NewTeamMemberStore(t),
		memberships: mocks.NewMembershipStore(t),
		scheduler:   mocks.NewScheduler(t),
	}
	f.svc = service.NewBookingService(inlineTx{}, f.bookings, f.assets, f.teamMembers, f.memberships, f.scheduler, zap.NewNop())
	return f
}

func futureBooking(status model.BookingStatus) *model.Booking {
	b := testBooking(status)
	from, to := futureFrom, futureTo
	b.From, b.To = &from, &to
	return b
}

func bookableAsset(id string) *model.Asset {
	return &model.Asset{ID: id, Title: "Drill " + id, OrganizationID: "org-1", AvailableToBook: true}
}

func (f bookingFixture) expectCancelAll(ctx context.Context, bookingID string) *mock.Call {
	args := []interface{}{ctx, bookingID}
	for _, stage := range service.ReminderStages {
		args = append(args, stage)
	}
	return f.scheduler.On("CancelAll", args...).Return(nil)
}

func TestReserve_SeedsCheckoutReminderOneHourBeforeStart(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "booking-1").Return(futureBooking(model.BookingStatusDraft), nil).Once()
	f.bookings.On("GetForUpdate", ctx, "booking-1").Return(futureBooking(model.BookingStatusDraft), nil)
	f.bookings.On("AssetIDs", ctx, "booking-1").Return([]string{"asset-1"}, nil)
	f.assets.On("GetByIDs", ctx, "org-1", []string{"asset-1"}).Return([]*model.Asset{bookableAsset("asset-1")}, nil)
	f.assets.On("ActiveBookings", ctx, []string{"asset-1"}, mock.AnythingOfType("*model.BookingWindow"), []string{"booking-1"}).
		Return(map[string][]model.BookingBrief{}, nil)
	f.bookings.On("TransitionStatus", ctx, "booking-1", []model.BookingStatus{model.BookingStatusDraft}, model.BookingStatusReserved).
		Return(true, nil)
	f.bookings.On("GetByID", ctx, "booking-1").Return(futureBooking(model.BookingStatusReserved), nil).Once()
	f.expectCancelAll(ctx, "booking-1")
	f.scheduler.On("Schedule", ctx, service.JobCheckoutReminder, "booking-1",
		model.BookingReminderPayload{ID: "booking-1"}, futureFrom.Add(-time.Hour)).Return(nil)

	booking, err := f.svc.Reserve(ctx, admin, "booking-1")

	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusReserved, booking.Status)
}

func TestReserve_ConflictingBooking(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "booking-1").Return(futureBooking(model.BookingStatusDraft), nil)
	f.bookings.On("GetForUpdate", ctx, "booking-1").Return(futureBooking(model.BookingStatusDraft), nil)
	f.bookings.On("AssetIDs", ctx, "booking-1").Return([]string{"asset-1"}, nil)
	f.assets.On("GetByIDs", ctx, "org-1", []string{"asset-1"}).Return([]*model.Asset{bookableAsset("asset-1")}, nil)
	f.assets.On("ActiveBookings", ctx, []string{"asset-1"}, mock.Anything, []string{"booking-1"}).
		Return(map[string][]model.BookingBrief{
			"asset-1": {{
				ID:     "other",
				Status: model.BookingStatusReserved,
				From:   futureFrom.Add(96 * time.Hour),
				To:     futureTo.Add(120 * time.Hour),
			}},
		}, nil)

	_, err := f.svc.Reserve(ctx, admin, "booking-1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	f.bookings.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.scheduler.AssertNotCalled(t, "Schedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReserve_RequiresWindow(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	draft := futureBooking(model.BookingStatusDraft)
	draft.From, draft.To = nil, nil

	f.bookings.On("GetByID", ctx, "booking-1").Return(draft, nil)
	f.bookings.On("GetForUpdate", ctx, "booking-1").Return(draft, nil)

	_, err := f.svc.Reserve(ctx, admin, "booking-1")

	assert.True(t, errors.Is(err, apperr.ErrInvalidRequest))
}

func TestCheckin_ReleasesAssetsAndCancelsReminders(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "booking-1").Return(futureBooking(model.BookingStatusOverdue), nil).Once()
	f.bookings.On("GetForUpdate", ctx, "booking-1").Return(futureBooking(model.BookingStatusOverdue), nil)
	f.bookings.On("TransitionStatus", ctx, "booking-1",
		[]model.BookingStatus{model.BookingStatusOngoing, model.BookingStatusOverdue}, model.BookingStatusComplete).
		Return(true, nil)
	f.assets.On("UpdateStatusForBooking", ctx, "booking-1", model.AssetStatusAvailable).Return(nil)
	f.bookings.On("GetByID", ctx, "booking-1").Return(futureBooking(model.BookingStatusComplete), nil).Once()
	f.expectCancelAll(ctx, "booking-1")

	booking, err := f.svc.Checkin(ctx, admin, "booking-1")

	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusComplete, booking.Status)
	f.scheduler.AssertNotCalled(t, "Schedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_WrongStatus(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "booking-1").Return(futureBooking(model.BookingStatusDraft), nil)
	f.bookings.On("GetForUpdate", ctx, "booking-1").Return(futureBooking(model.BookingStatusDraft), nil)

	_, err := f.svc.Checkout(ctx, admin, "booking-1")

	assert.True(t, errors.Is(err, apperr.ErrInvalidRequest))
}

func TestCheckout_ConcurrentChangeIsConflict(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "booking-1").Return(futureBooking(model.BookingStatusReserved), nil)
	f.bookings.On("GetForUpdate", ctx, "booking-1").Return(futureBooking(model.BookingStatusReserved), nil)
	f.bookings.On("TransitionStatus", ctx, "booking-1", mock.Anything, model.BookingStatusOngoing).Return(false, nil)

	_, err := f.svc.Checkout(ctx, admin, "booking-1")

	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestGet_OtherOrganizationIsNotFound(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	other := futureBooking(model.BookingStatusDraft)
	other.OrganizationID = "org-2"
	f.bookings.On("GetByID", ctx, "booking-1").Return(other, nil)

	_, err := f.svc.Get(ctx, admin, "booking-1")

	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestGet_SelfServiceOnlyOwnBookings(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "booking-1").Return(futureBooking(model.BookingStatusReserved), nil)

	stranger := service.Actor{UserID: "user-9", OrganizationID: "org-1", Roles: []model.OrganizationRole{model.RoleSelfService}}
	_, err := f.svc.Get(ctx, stranger, "booking-1")
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	owner := service.Actor{UserID: "user-1", OrganizationID: "org-1", Roles: []model.OrganizationRole{model.RoleSelfService}}
	booking, err := f.svc.Get(ctx, owner, "booking-1")
	require.NoError(t, err)
	assert.Equal(t, "booking-1", booking.ID)
}

func TestList_SelfServiceScopedToOwnBookings(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	actor := service.Actor{UserID: "user-1", OrganizationID: "org-1", Roles: []model.OrganizationRole{model.RoleSelfService}}
	f.bookings.On("List", ctx, mock.MatchedBy(func(q repository.BookingQuery) bool {
		return q.OrganizationID == "org-1" && q.CustodianUserID != nil && *q.CustodianUserID == "user-1"
	})).Return([]*model.Booking{futureBooking(model.BookingStatusReserved)}, nil)

	bookings, err := f.svc.List(ctx, actor, nil, nil)

	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestList_UnknownStatus(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.svc.List(context.Background(), admin, []model.BookingStatus{"LOST"}, nil)

	assert.True(t, errors.Is(err, apperr.ErrInvalidRequest))
}

func TestDelete_OnlyDrafts(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "booking-1").Return(futureBooking(model.BookingStatusReserved), nil)

	err := f.svc.Delete(ctx, admin, "booking-1")

	assert.True(t, errors.Is(err, apperr.ErrInvalidRequest))
	f.bookings.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDelete_ConcurrentDeleteIsNotFound(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "booking-1").Return(futureBooking(model.BookingStatusDraft), nil)
	f.bookings.On("Delete", ctx, "booking-1").Return(pgx.ErrNoRows)

	err := f.svc.Delete(ctx, admin, "booking-1")

	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestCreate_Validation(t *testing.T) {
	from, to := futureFrom, futureTo
	userID, memberID := "user-1", "tm-1"

	cases := []struct {
		name  string
		input service.BookingInput
	}{
		{"empty name", service.BookingInput{Name: "  "}},
		{"inverted window", service.BookingInput{Name: "Trip", From: &to, To: &from}},
		{"half window", service.BookingInput{Name: "Trip", From: &from}},
		{"two custodians", service.BookingInput{Name: "Trip", CustodianUserID: &userID, CustodianTeamMemberID: &memberID}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newBookingFixture(t)

			_, err := f.svc.Create(context.Background(), admin, tc.input)

			assert.True(t, errors.Is(err, apperr.ErrInvalidRequest))
			f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreate_DraftWithAssets(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	from, to := futureFrom, futureTo

	var created *model.Booking
	f.bookings.On("Create", ctx, mock.AnythingOfType("*model.Booking")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*model.Booking) }).
		Return(nil)
	f.assets.On("GetByIDs", ctx, "org-1", []string{"asset-1"}).Return([]*model.Asset{bookableAsset("asset-1")}, nil)
	f.assets.On("ActiveBookings", ctx, []string{"asset-1"}, mock.Anything, mock.Anything).Return(map[string][]model.BookingBrief{}, nil)
	f.bookings.On("AddAssets", ctx, mock.AnythingOfType("string"), []string{"asset-1"}).Return(nil)
	f.bookings.On("GetByID", ctx, mock.AnythingOfType("string")).Return(futureBooking(model.BookingStatusDraft), nil)

	_, err := f.svc.Create(ctx, admin, service.BookingInput{Name: "Trip", From: &from, To: &to, AssetIDs: []string{"asset-1"}})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, model.BookingStatusDraft, created.Status)
	assert.Equal(t, "org-1", created.OrganizationID)
	assert.Equal(t, "user-1", created.CreatorID)
	assert.NotEmpty(t, created.ID)
}

func TestCreate_CustodianOutsideOrganizationIsNotFound(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	stranger := "user-9"

	f.memberships.On("GetMembership", ctx, "user-9", "org-1").Return(nil, nil)

	_, err := f.svc.Create(ctx, admin, service.BookingInput{Name: "Trip", CustodianUserID: &stranger})

	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_CustodianMemberOfOrganization(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	colleague := "user-2"

	f.memberships.On("GetMembership", ctx, "user-2", "org-1").
		Return(&model.Membership{UserID: "user-2", OrganizationID: "org-1", Roles: []model.OrganizationRole{model.RoleBase}}, nil)
	f.bookings.On("Create", ctx, mock.AnythingOfType("*model.Booking")).Return(nil)
	f.bookings.On("GetByID", ctx, mock.AnythingOfType("string")).Return(futureBooking(model.BookingStatusDraft), nil)

	_, err := f.svc.Create(ctx, admin, service.BookingInput{Name: "Trip", CustodianUserID: &colleague})

	require.NoError(t, err)
}

func TestAddAssets_AssetOutsideOrganization(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "booking-1").Return(futureBooking(model.BookingStatusDraft), nil)
	f.bookings.On("GetForUpdate", ctx, "booking-1").Return(futureBooking(model.BookingStatusDraft), nil)
	f.assets.On("GetByIDs", ctx, "org-1", []string{"foreign"}).Return([]*model.Asset{}, nil)

	_, err := f.svc.AddAssets(ctx, admin, "booking-1", []string{"foreign"})

	assert.True(t, errors.Is(err, apperr.ErrInvalidRequest))
	f.bookings.AssertNotCalled(t, "AddAssets", mock.Anything, mock.Anything, mock.Anything)
}

func TestReminderStart(t *testing.T) {
	from := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)
	booking := func(status model.BookingStatus) *model.Booking {
		return &model.Booking{ID: "b", Status: status, From: &from, To: &to}
	}

	cases := []struct {
		name      string
		booking   *model.Booking
		now       time.Time
		wantStage string
		wantAt    time.Time
		wantOK    bool
	}{
		{"reserved", booking(model.BookingStatusReserved), from.Add(-48 * time.Hour), service.JobCheckoutReminder, from.Add(-time.Hour), true},
		{"reserved late is clamped", booking(model.BookingStatusReserved), from, service.JobCheckoutReminder, from, true},
		{"ongoing", booking(model.BookingStatusOngoing), from, service.JobCheckinReminder, to.Add(-time.Hour), true},
		{"ongoing near end", booking(model.BookingStatusOngoing), to.Add(-30 * time.Minute), service.JobOverdueHandler, to, true},
		{"ongoing past end", booking(model.BookingStatusOngoing), to.Add(time.Hour), service.JobOverdueHandler, to.Add(time.Hour), true},
		{"overdue", booking(model.BookingStatusOverdue), to, service.JobOverdueReminder, to.Add(time.Hour), true},
		{"draft", booking(model.BookingStatusDraft), from, "", time.Time{}, false},
		{"no window", &model.Booking{Status: model.BookingStatusReserved}, from, "", time.Time{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stage, at, ok := service.ReminderStart(tc.booking, tc.now)

			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantStage, stage)
			assert.True(t, tc.wantAt.Equal(at), "want %s, got %s", tc.wantAt, at)
		})
	}
}
