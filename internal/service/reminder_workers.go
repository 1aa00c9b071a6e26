package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/shelf_server/internal/jobs"
	"github.com/Freeeeeet/shelf_server/internal/model"
	"github.com/Freeeeeet/shelf_server/internal/notifier"
	"go.uber.org/zap"
)

// Стадии цепочки напоминаний по бронированию
const (
	JobCheckoutReminder = "checkout-reminder"
	JobCheckinReminder  = "checkin-reminder"
	JobOverdueHandler   = "overdue-handler"
	JobOverdueReminder  = "overdue-reminder"
)

// ReminderStages все стадии цепочки, используется для отмены
var ReminderStages = []string{
	JobCheckoutReminder,
	JobCheckinReminder,
	JobOverdueHandler,
	JobOverdueReminder,
}

// ReminderOffset отступ напоминаний от границ окна бронирования
const ReminderOffset = time.Hour

// ReminderBookings часть хранилища бронирований, нужная цепочке
type ReminderBookings interface {
	Transactor
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	MarkOverdue(ctx context.Context, id string) (*time.Time, error)
}

// ReminderWorkers обработчики стадий цепочки. Каждая стадия заново читает
// бронирование и сама планирует следующую.
type ReminderWorkers struct {
	bookings  ReminderBookings
	scheduler jobs.Scheduler
	notifier  notifier.Notifier
	serverURL string
	logger    *zap.Logger
}

func NewReminderWorkers(
	bookings ReminderBookings,
	scheduler jobs.Scheduler,
	n notifier.Notifier,
	serverURL string,
	logger *zap.Logger,
) *ReminderWorkers {
	return &ReminderWorkers{
		bookings:  bookings,
		scheduler: scheduler,
		notifier:  n,
		serverURL: serverURL,
		logger:    logger,
	}
}

// Register регистрирует обработчики всех стадий
func (w *ReminderWorkers) Register(r jobs.Registrar) {
	r.Work(JobCheckoutReminder, w.CheckoutReminder)
	r.Work(JobCheckinReminder, w.CheckinReminder)
	r.Work(JobOverdueHandler, w.OverdueHandler)
	r.Work(JobOverdueReminder, w.OverdueReminder)
}

// CheckoutReminder напоминает о выдаче и планирует напоминание о возврате на to - 1h
func (w *ReminderWorkers) CheckoutReminder(ctx context.Context, job jobs.Job) error {
	booking, ok, err := w.load(ctx, job)
	if err != nil || !ok {
		return err
	}

	if booking.CustodianUser != nil && booking.HasWindow() {
		w.notify(ctx, booking, notifier.SubjectCheckoutReminder, notifier.CheckoutReminderContent(w.content(booking, booking.AssetsCount)))
	}

	if booking.To != nil {
		return w.next(ctx, JobCheckinReminder, booking.ID, booking.To.Add(-ReminderOffset))
	}
	return nil
}

// CheckinReminder напоминает о возврате и планирует обработку просрочки ровно на to
func (w *ReminderWorkers) CheckinReminder(ctx context.Context, job jobs.Job) error {
	booking, ok, err := w.load(ctx, job)
	if err != nil || !ok {
		return err
	}

	if booking.CustodianUser != nil && booking.HasWindow() {
		w.notify(ctx, booking, notifier.SubjectCheckinReminder, notifier.CheckinReminderContent(w.content(booking, 0)))
	}

	if booking.To != nil {
		return w.next(ctx, JobOverdueHandler, booking.ID, *booking.To)
	}
	return nil
}

// OverdueHandler переводит ONGOING в OVERDUE. Следующая стадия планируется
// только если условное обновление затронуло строку.
func (w *ReminderWorkers) OverdueHandler(ctx context.Context, job jobs.Job) error {
	var payload model.BookingReminderPayload
	if err := job.Decode(&payload); err != nil {
		w.logger.Error("Malformed reminder job", zap.String("job_id", job.ID), zap.Error(err))
		return nil
	}

	var to *time.Time
	err := w.bookings.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		to, err = w.bookings.MarkOverdue(ctx, payload.ID)
		return err
	})
	if err != nil {
		return err
	}

	if to == nil {
		w.logger.Warn("Booking is not ongoing, skipping overdue handler",
			zap.String("booking_id", payload.ID),
			zap.String("expected_status", string(model.BookingStatusOngoing)),
		)
		return nil
	}

	w.logger.Info("Booking marked overdue", zap.String("booking_id", payload.ID))

	return w.next(ctx, JobOverdueReminder, payload.ID, to.Add(ReminderOffset))
}

// OverdueReminder сообщает о просрочке, последняя стадия цепочки
func (w *ReminderWorkers) OverdueReminder(ctx context.Context, job jobs.Job) error {
	booking, ok, err := w.load(ctx, job)
	if err != nil || !ok {
		return err
	}

	if booking.Status != model.BookingStatusOverdue {
		w.logger.Warn("Ignoring overdue reminder, booking is not overdue",
			zap.String("booking_id", booking.ID),
			zap.String("status", string(booking.Status)),
		)
		return nil
	}

	if booking.CustodianUser != nil {
		orgName := ""
		if booking.Organization != nil {
			orgName = booking.Organization.Name
		}
		w.notify(ctx, booking, notifier.SubjectOverdueReminder, notifier.OverdueReminderContent(booking.Name, orgName))
	}

	return nil
}

// load читает бронирование из задачи. ok = false означает мягкий пропуск.
func (w *ReminderWorkers) load(ctx context.Context, job jobs.Job) (*model.Booking, bool, error) {
	var payload model.BookingReminderPayload
	if err := job.Decode(&payload); err != nil {
		w.logger.Error("Malformed reminder job", zap.String("job_id", job.ID), zap.Error(err))
		return nil, false, nil
	}

	booking, err := w.bookings.GetByID(ctx, payload.ID)
	if err != nil {
		return nil, false, err
	}

	if booking == nil {
		w.logger.Warn("Booking not found in reminder worker",
			zap.String("booking_id", payload.ID),
			zap.String("stage", job.Name),
		)
		return nil, false, nil
	}

	return booking, true, nil
}

func (w *ReminderWorkers) content(booking *model.Booking, assetsCount int) notifier.ReminderContent {
	return notifier.ReminderContent{
		BookingID:   booking.ID,
		BookingName: booking.Name,
		AssetsCount: assetsCount,
		Custodian:   booking.CustodianName(),
		From:        *booking.From,
		To:          *booking.To,
		ServerURL:   w.serverURL,
	}
}

// notify отправляет напоминание ответственному. Ошибка доставки только логируется.
func (w *ReminderWorkers) notify(ctx context.Context, booking *model.Booking, subject, text string) {
	user := booking.CustodianUser
	msg := notifier.Message{
		To: notifier.Recipient{
			Name:           user.FullName(),
			Email:          user.Email,
			TelegramChatID: user.TelegramChatID,
		},
		Subject: subject,
		Text:    text,
	}

	if err := w.notifier.Notify(ctx, msg); err != nil {
		w.logger.Error("Failed to send reminder",
			zap.String("booking_id", booking.ID),
			zap.String("subject", subject),
			zap.Error(err),
		)
	}
}

func (w *ReminderWorkers) next(ctx context.Context, stage, bookingID string, at time.Time) error {
	err := w.scheduler.Schedule(ctx, stage, bookingID, model.BookingReminderPayload{ID: bookingID}, at)
	if err != nil {
		return err
	}

	w.logger.Debug("Scheduled next reminder stage",
		zap.String("booking_id", bookingID),
		zap.String("stage", stage),
		zap.Time("run_at", at),
	)
	return nil
}
