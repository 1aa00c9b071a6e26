package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/shelf_server/internal/apperr"
	"github.com/Freeeeeet/shelf_server/internal/jobs"
	"github.com/Freeeeeet/shelf_server/internal/model"
	"github.com/Freeeeeet/shelf_server/internal/repository"
	"github.com/Freeeeeet/shelf_server/internal/repository/base"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const labelBooking = "Booking"

// BookingInput поля бронирования, которые задаёт пользователь
type BookingInput struct {
	Name                  string
	From                  *time.Time
	To                    *time.Time
	CustodianUserID       *string
	CustodianTeamMemberID *string
	AssetIDs              []string
}

type BookingService struct {
	tx          Transactor
	bookings    BookingStore
	assets      AssetStore
	teamMembers TeamMemberStore
	memberships MembershipStore
	scheduler   jobs.Scheduler
	logger      *zap.Logger
	now         func() time.Time
}

func NewBookingService(
	tx Transactor,
	bookings BookingStore,
	assets AssetStore,
	teamMembers TeamMemberStore,
	memberships MembershipStore,
	scheduler jobs.Scheduler,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		tx:          tx,
		bookings:    bookings,
		assets:      assets,
		teamMembers: teamMembers,
		memberships: memberships,
		scheduler:   scheduler,
		logger:      logger,
		now:         time.Now,
	}
}

// Create создаёт черновик бронирования
func (s *BookingService) Create(ctx context.Context, actor Actor, input BookingInput) (*model.Booking, error) {
	if actor.SelfServiceOnly() {
		// Пользователь с самообслуживанием бронирует только на себя
		input.CustodianUserID = &actor.UserID
		input.CustodianTeamMemberID = nil
	}

	if err := s.validateInput(ctx, actor, input); err != nil {
		return nil, err
	}

	booking := &model.Booking{
		ID:                    uuid.New().String(),
		Name:                  strings.TrimSpace(input.Name),
		Status:                model.BookingStatusDraft,
		OrganizationID:        actor.OrganizationID,
		CreatorID:             actor.UserID,
		CustodianUserID:       input.CustodianUserID,
		CustodianTeamMemberID: input.CustodianTeamMemberID,
		From:                  input.From,
		To:                    input.To,
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.bookings.Create(ctx, booking); err != nil {
			return err
		}
		if len(input.AssetIDs) == 0 {
			return nil
		}
		if err := s.checkAssets(ctx, booking, input.AssetIDs); err != nil {
			return err
		}
		return s.bookings.AddAssets(ctx, booking.ID, input.AssetIDs)
	})
	if err != nil {
		return nil, wrapStoreError(err, "failed to create booking")
	}

	s.logger.Info("Booking created",
		zap.String("booking_id", booking.ID),
		zap.String("organization_id", booking.OrganizationID),
		zap.Int("assets", len(input.AssetIDs)),
	)

	return s.reload(ctx, booking.ID)
}

// Update меняет название, окно и ответственного. Для активного бронирования
// активы перепроверяются на новом окне и цепочка напоминаний пересобирается.
func (s *BookingService) Update(ctx context.Context, actor Actor, id string, input BookingInput) (*model.Booking, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}

	if actor.SelfServiceOnly() {
		input.CustodianUserID = &actor.UserID
		input.CustodianTeamMemberID = nil
	}

	if err := s.validateInput(ctx, actor, input); err != nil {
		return nil, err
	}

	var updated *model.Booking
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		booking, err := s.lock(ctx, actor, id)
		if err != nil {
			return err
		}

		if !editable(booking.Status) {
			return statusError("update", booking.Status)
		}

		booking.Name = strings.TrimSpace(input.Name)
		booking.From = input.From
		booking.To = input.To
		booking.CustodianUserID = input.CustodianUserID
		booking.CustodianTeamMemberID = input.CustodianTeamMemberID

		if booking.Status.IsActive() {
			if !booking.HasWindow() {
				return apperr.InvalidRequest(labelBooking, "active booking must keep its dates")
			}
			assetIDs, err := s.bookings.AssetIDs(ctx, booking.ID)
			if err != nil {
				return err
			}
			if err := s.checkAssets(ctx, booking, assetIDs); err != nil {
				return err
			}
		}

		if err := s.bookings.Update(ctx, booking); err != nil {
			return err
		}
		updated = booking
		return nil
	})
	if err != nil {
		return nil, wrapStoreError(err, "failed to update booking")
	}

	if updated.Status.IsActive() {
		s.seedReminders(ctx, updated)
	}

	return s.reload(ctx, id)
}

// AddAssets добавляет активы. Каждый актив проверяется на доступность
// в окне бронирования, само бронирование конфликтом не считается.
func (s *BookingService) AddAssets(ctx context.Context, actor Actor, id string, assetIDs []string) (*model.Booking, error) {
	if len(assetIDs) == 0 {
		return nil, apperr.InvalidRequest(labelBooking, "no assets selected")
	}
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		booking, err := s.lock(ctx, actor, id)
		if err != nil {
			return err
		}
		if booking.Status != model.BookingStatusDraft && booking.Status != model.BookingStatusReserved {
			return statusError("add assets to", booking.Status)
		}
		if err := s.checkAssets(ctx, booking, assetIDs); err != nil {
			return err
		}
		return s.bookings.AddAssets(ctx, booking.ID, assetIDs)
	})
	if err != nil {
		return nil, wrapStoreError(err, "failed to add assets to booking")
	}

	return s.reload(ctx, id)
}

// RemoveAssets убирает активы из бронирования
func (s *BookingService) RemoveAssets(ctx context.Context, actor Actor, id string, assetIDs []string) (*model.Booking, error) {
	if len(assetIDs) == 0 {
		return nil, apperr.InvalidRequest(labelBooking, "no assets selected")
	}
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		booking, err := s.lock(ctx, actor, id)
		if err != nil {
			return err
		}
		if booking.Status != model.BookingStatusDraft && booking.Status != model.BookingStatusReserved {
			return statusError("remove assets from", booking.Status)
		}
		return s.bookings.RemoveAssets(ctx, booking.ID, assetIDs)
	})
	if err != nil {
		return nil, wrapStoreError(err, "failed to remove assets from booking")
	}

	return s.reload(ctx, id)
}

// Reserve переводит черновик в RESERVED и запускает цепочку напоминаний
func (s *BookingService) Reserve(ctx context.Context, actor Actor, id string) (*model.Booking, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		booking, err := s.lock(ctx, actor, id)
		if err != nil {
			return err
		}
		if booking.Status != model.BookingStatusDraft {
			return statusError("reserve", booking.Status)
		}
		if !booking.HasWindow() {
			return apperr.InvalidRequest(labelBooking, "booking dates are required to reserve")
		}
		if booking.CustodianUserID == nil && booking.CustodianTeamMemberID == nil {
			return apperr.InvalidRequest(labelBooking, "custodian is required to reserve")
		}

		assetIDs, err := s.bookings.AssetIDs(ctx, booking.ID)
		if err != nil {
			return err
		}
		if len(assetIDs) == 0 {
			return apperr.InvalidRequest(labelBooking, "booking has no assets")
		}
		if err := s.checkAssets(ctx, booking, assetIDs); err != nil {
			return err
		}

		return s.move(ctx, booking.ID, []model.BookingStatus{model.BookingStatusDraft}, model.BookingStatusReserved, nil)
	})
	if err != nil {
		return nil, wrapStoreError(err, "failed to reserve booking")
	}

	return s.afterTransition(ctx, id, "Booking reserved")
}

// Checkout выдаёт активы: RESERVED -> ONGOING
func (s *BookingService) Checkout(ctx context.Context, actor Actor, id string) (*model.Booking, error) {
	checkedOut := model.AssetStatusCheckedOut
	return s.transition(ctx, actor, id, "checkout",
		[]model.BookingStatus{model.BookingStatusReserved}, model.BookingStatusOngoing, &checkedOut)
}

// Checkin принимает активы обратно: ONGOING | OVERDUE -> COMPLETE
func (s *BookingService) Checkin(ctx context.Context, actor Actor, id string) (*model.Booking, error) {
	available := model.AssetStatusAvailable
	return s.transition(ctx, actor, id, "checkin",
		[]model.BookingStatus{model.BookingStatusOngoing, model.BookingStatusOverdue}, model.BookingStatusComplete, &available)
}

// Cancel отменяет активное бронирование и освобождает активы
func (s *BookingService) Cancel(ctx context.Context, actor Actor, id string) (*model.Booking, error) {
	available := model.AssetStatusAvailable
	return s.transition(ctx, actor, id, "cancel", model.UnavailableBookingStatuses, model.BookingStatusCancelled, &available)
}

// Archive переносит завершённое бронирование в архив
func (s *BookingService) Archive(ctx context.Context, actor Actor, id string) (*model.Booking, error) {
	return s.transition(ctx, actor, id, "archive",
		[]model.BookingStatus{model.BookingStatusComplete}, model.BookingStatusArchived, nil)
}

// Delete удаляет черновик
func (s *BookingService) Delete(ctx context.Context, actor Actor, id string) error {
	booking, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}

	if booking.Status != model.BookingStatusDraft {
		return statusError("delete", booking.Status)
	}

	if err := s.bookings.Delete(ctx, id); err != nil {
		return wrapStoreError(err, "failed to delete booking")
	}

	s.logger.Info("Booking deleted", zap.String("booking_id", id))
	return nil
}

// Get возвращает бронирование организации
func (s *BookingService) Get(ctx context.Context, actor Actor, id string) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(labelBooking, "failed to load booking", err)
	}

	if booking == nil || booking.OrganizationID != actor.OrganizationID {
		return nil, apperr.NotFound(labelBooking, "booking not found").With("id", id)
	}

	if actor.SelfServiceOnly() && !actor.owns(booking) {
		return nil, apperr.Forbidden(labelBooking, "you can only access your own bookings").With("id", id)
	}

	return booking, nil
}

// List возвращает бронирования организации. Самообслуживание видит только свои.
func (s *BookingService) List(ctx context.Context, actor Actor, statuses []model.BookingStatus, custodianTeamMemberID *string) ([]*model.Booking, error) {
	for _, st := range statuses {
		if !st.Valid() {
			return nil, apperr.InvalidRequest(labelBooking, fmt.Sprintf("unknown booking status %q", st))
		}
	}

	q := repository.BookingQuery{
		OrganizationID:        actor.OrganizationID,
		Statuses:              statuses,
		CustodianTeamMemberID: custodianTeamMemberID,
	}
	if actor.SelfServiceOnly() {
		q.CustodianUserID = &actor.UserID
		q.CustodianTeamMemberID = nil
	}

	bookings, err := s.bookings.List(ctx, q)
	if err != nil {
		return nil, apperr.Internal(labelBooking, "failed to list bookings", err)
	}

	return bookings, nil
}

// ListForUser возвращает активные бронирования пользователя во всех организациях
func (s *BookingService) ListForUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	bookings, err := s.bookings.ListByCustodianUser(ctx, userID, model.UnavailableBookingStatuses)
	if err != nil {
		return nil, apperr.Internal(labelBooking, "failed to list bookings", err)
	}
	return bookings, nil
}

func (s *BookingService) transition(
	ctx context.Context,
	actor Actor,
	id, verb string,
	from []model.BookingStatus,
	to model.BookingStatus,
	assetStatus *model.AssetStatus,
) (*model.Booking, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		booking, err := s.lock(ctx, actor, id)
		if err != nil {
			return err
		}
		if !statusIn(booking.Status, from) {
			return statusError(verb, booking.Status)
		}
		return s.move(ctx, booking.ID, from, to, assetStatus)
	})
	if err != nil {
		return nil, wrapStoreError(err, "failed to "+verb+" booking")
	}

	return s.afterTransition(ctx, id, "Booking status changed")
}

func (s *BookingService) move(ctx context.Context, id string, from []model.BookingStatus, to model.BookingStatus, assetStatus *model.AssetStatus) error {
	ok, err := s.bookings.TransitionStatus(ctx, id, from, to)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Conflict(labelBooking, "booking status was changed concurrently", nil).With("id", id)
	}
	if assetStatus != nil {
		return s.assets.UpdateStatusForBooking(ctx, id, *assetStatus)
	}
	return nil
}

func (s *BookingService) reload(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(labelBooking, "failed to load booking", err)
	}
	if booking == nil {
		return nil, apperr.NotFound(labelBooking, "booking not found").With("id", id)
	}
	return booking, nil
}

// afterTransition перечитывает бронирование и синхронизирует цепочку напоминаний с новым статусом
func (s *BookingService) afterTransition(ctx context.Context, id, event string) (*model.Booking, error) {
	booking, err := s.reload(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info(event,
		zap.String("booking_id", booking.ID),
		zap.String("status", string(booking.Status)),
	)

	if booking.Status.IsActive() {
		s.seedReminders(ctx, booking)
	} else if err := s.scheduler.CancelAll(ctx, booking.ID, ReminderStages...); err != nil {
		s.logger.Error("Failed to cancel booking reminders", zap.String("booking_id", booking.ID), zap.Error(err))
	}

	return booking, nil
}

// ReminderStart первая стадия цепочки для текущего статуса и время её запуска
func ReminderStart(booking *model.Booking, now time.Time) (string, time.Time, bool) {
	if !booking.HasWindow() {
		return "", time.Time{}, false
	}

	var stage string
	var at time.Time

	switch booking.Status {
	case model.BookingStatusReserved:
		stage, at = JobCheckoutReminder, booking.From.Add(-ReminderOffset)
	case model.BookingStatusOngoing:
		stage, at = JobCheckinReminder, booking.To.Add(-ReminderOffset)
		if at.Before(now) {
			// Время напоминания о возврате прошло, сразу к проверке просрочки
			stage, at = JobOverdueHandler, *booking.To
		}
	case model.BookingStatusOverdue:
		stage, at = JobOverdueReminder, booking.To.Add(ReminderOffset)
	default:
		return "", time.Time{}, false
	}

	if at.Before(now) {
		at = now
	}
	return stage, at, true
}

// seedReminders заменяет цепочку напоминаний бронирования. Ошибки планировщика
// не откатывают уже сохранённое изменение, только логируются.
func (s *BookingService) seedReminders(ctx context.Context, booking *model.Booking) {
	if err := s.scheduler.CancelAll(ctx, booking.ID, ReminderStages...); err != nil {
		s.logger.Error("Failed to reset booking reminders", zap.String("booking_id", booking.ID), zap.Error(err))
		return
	}

	stage, at, ok := ReminderStart(booking, s.now())
	if !ok {
		return
	}

	if err := s.scheduler.Schedule(ctx, stage, booking.ID, model.BookingReminderPayload{ID: booking.ID}, at); err != nil {
		s.logger.Error("Failed to schedule booking reminder",
			zap.String("booking_id", booking.ID),
			zap.String("stage", stage),
			zap.Error(err),
		)
		return
	}

	s.logger.Debug("Booking reminder scheduled",
		zap.String("booking_id", booking.ID),
		zap.String("stage", stage),
		zap.Time("run_at", at),
	)
}

// lock читает бронирование под блокировкой внутри транзакции
func (s *BookingService) lock(ctx context.Context, actor Actor, id string) (*model.Booking, error) {
	booking, err := s.bookings.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil || booking.OrganizationID != actor.OrganizationID {
		return nil, apperr.NotFound(labelBooking, "booking not found").With("id", id)
	}
	return booking, nil
}

func (s *BookingService) validateInput(ctx context.Context, actor Actor, input BookingInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperr.InvalidRequest(labelBooking, "booking name is required")
	}

	if (input.From == nil) != (input.To == nil) {
		return apperr.InvalidRequest(labelBooking, "both booking dates must be set")
	}
	if input.From != nil && input.From.After(*input.To) {
		return apperr.InvalidRequest(labelBooking, "booking start date must not be after the end date").
			With("from", input.From).
			With("to", input.To)
	}

	if input.CustodianUserID != nil && input.CustodianTeamMemberID != nil {
		return apperr.InvalidRequest(labelBooking, "custodian must be either a user or a team member")
	}

	if input.CustodianTeamMemberID != nil {
		member, err := s.teamMembers.GetByID(ctx, actor.OrganizationID, *input.CustodianTeamMemberID)
		if err != nil {
			return apperr.Internal(labelBooking, "failed to load team member", err)
		}
		if member == nil {
			return apperr.NotFound(labelBooking, "team member not found").With("id", *input.CustodianTeamMemberID)
		}
	}

	// Хранитель-пользователь должен состоять в организации бронирования
	if input.CustodianUserID != nil && *input.CustodianUserID != actor.UserID {
		membership, err := s.memberships.GetMembership(ctx, *input.CustodianUserID, actor.OrganizationID)
		if err != nil {
			return apperr.Internal(labelBooking, "failed to load custodian membership", err)
		}
		if membership == nil {
			return apperr.NotFound(labelBooking, "custodian is not a member of this workspace").With("id", *input.CustodianUserID)
		}
	}

	return nil
}

// checkAssets проверяет что активы из организации бронирования и свободны в его окне
func (s *BookingService) checkAssets(ctx context.Context, booking *model.Booking, assetIDs []string) error {
	assets, err := s.assets.GetByIDs(ctx, booking.OrganizationID, assetIDs)
	if err != nil {
		return err
	}

	found := make(map[string]*model.Asset, len(assets))
	for _, a := range assets {
		found[a.ID] = a
	}
	for _, id := range assetIDs {
		if _, ok := found[id]; !ok {
			return apperr.InvalidRequest(labelBooking, "asset does not belong to the organization").
				With("assetId", id).
				With("reason", model.ReasonOutsideOrganization)
		}
	}

	if !booking.HasWindow() {
		return nil
	}

	window := model.BookingWindow{From: *booking.From, To: *booking.To}
	exempt := []string{booking.ID}

	active, err := s.assets.ActiveBookings(ctx, assetIDs, &window, exempt)
	if err != nil {
		return err
	}

	for _, id := range assetIDs {
		reason := model.CheckAssetAvailability(found[id], active[id], window, exempt)
		if reason != model.ReasonNone {
			return apperr.Conflict(labelBooking, fmt.Sprintf("asset %q is not available for the selected dates", found[id].Title), nil).
				With("assetId", id).
				With("reason", reason)
		}
	}

	return nil
}

func editable(status model.BookingStatus) bool {
	return status == model.BookingStatusDraft || status.IsActive()
}

func statusIn(status model.BookingStatus, statuses []model.BookingStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func statusError(verb string, status model.BookingStatus) error {
	return apperr.InvalidRequest(labelBooking, fmt.Sprintf("cannot %s a booking in status %s", verb, status)).
		With("status", status)
}

// wrapStoreError оставляет доменные ошибки как есть, остальное превращает в NotFound, Conflict или Internal
func wrapStoreError(err error, message string) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	// Строку удалили между чтением и записью
	if base.IsNotFound(err) {
		return apperr.NotFound(labelBooking, "booking not found")
	}
	if base.IsUniqueViolation(err) {
		return apperr.Conflict(labelBooking, "duplicate booking", err)
	}
	return apperr.Internal(labelBooking, message, err)
}
