package repository

import (
	"time"

	"github.com/Freeeeeet/shelf_server/internal/apperr"
	"github.com/Freeeeeet/shelf_server/internal/model"
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // регистрация диалекта
	"github.com/doug-martin/goqu/v9/exp"
)

const labelAssets = "Assets"

var dialect = goqu.Dialect("postgres")

// AvailabilityFilter параметры фильтрации активов по доступности для бронирования
type AvailabilityFilter struct {
	HideUnavailable bool
	BookingFrom     *time.Time
	BookingTo       *time.Time
	// Бронирования, которые не считаются конфликтом (активы текущего бронирования)
	UnhideBookingIDs []string
}

// HasWindow проверяет что заданы обе границы окна
func (f AvailabilityFilter) HasWindow() bool {
	return f.BookingFrom != nil && f.BookingTo != nil
}

// Window возвращает окно бронирования, если оно задано
func (f AvailabilityFilter) Window() (model.BookingWindow, bool) {
	if !f.HasWindow() {
		return model.BookingWindow{}, false
	}
	return model.BookingWindow{From: *f.BookingFrom, To: *f.BookingTo}, true
}

// Validate проверяет что для скрытия недоступных активов задано окно
func (f AvailabilityFilter) Validate() error {
	if f.HideUnavailable && !f.HasWindow() {
		return apperr.InvalidRequest(labelAssets, "booking dates are needed to hide unavailable assets").
			With("hideUnavailable", f.HideUnavailable).
			With("bookingFrom", f.BookingFrom).
			With("bookingTo", f.BookingTo)
	}
	if f.HasWindow() && f.BookingFrom.After(*f.BookingTo) {
		return apperr.InvalidRequest(labelAssets, "booking start date must not be after the end date").
			With("bookingFrom", f.BookingFrom).
			With("bookingTo", f.BookingTo)
	}
	return nil
}

func activeStatuses() []interface{} {
	statuses := make([]interface{}, 0, len(model.UnavailableBookingStatuses))
	for _, s := range model.UnavailableBookingStatuses {
		statuses = append(statuses, string(s))
	}
	return statuses
}

func stringsToInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// overlapExpression пересечение с включёнными границами: b.from <= to AND b.to >= from
func overlapExpression(window model.BookingWindow) exp.Expression {
	return goqu.And(
		goqu.I("b.from").Lte(window.To),
		goqu.I("b.to").Gte(window.From),
	)
}

// conflictingBookingsQuery активные бронирования актива a.id, пересекающиеся с окном
func conflictingBookingsQuery(window model.BookingWindow, exempt []string) *goqu.SelectDataset {
	ds := dialect.From(goqu.T("booking_assets").As("ba")).
		Join(goqu.T("bookings").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("ba.booking_id")))).
		Select(goqu.L("1")).
		Where(
			goqu.I("ba.asset_id").Eq(goqu.I("a.id")),
			goqu.I("b.status").In(activeStatuses()...),
			overlapExpression(window),
		)

	if len(exempt) > 0 {
		ds = ds.Where(goqu.I("b.id").NotIn(stringsToInterfaces(exempt)...))
	}

	return ds
}

// availabilityExpressions условия на таблицу assets AS a.
// Актив недоступен, если выключен availableToBook, есть закрепление (custody)
// или есть пересекающееся активное бронирование не из списка исключений.
func availabilityExpressions(f AvailabilityFilter) []exp.Expression {
	var exprs []exp.Expression

	window, hasWindow := f.Window()

	if f.HideUnavailable || hasWindow {
		exprs = append(exprs, goqu.I("a.available_to_book").IsTrue())
	}

	if f.HideUnavailable {
		custody := dialect.From(goqu.T("custody").As("c")).
			Select(goqu.L("1")).
			Where(goqu.I("c.asset_id").Eq(goqu.I("a.id")))
		exprs = append(exprs, goqu.L("NOT EXISTS ?", custody))

		if hasWindow {
			exprs = append(exprs, goqu.L("NOT EXISTS ?", conflictingBookingsQuery(window, f.UnhideBookingIDs)))
		}
	}

	return exprs
}
