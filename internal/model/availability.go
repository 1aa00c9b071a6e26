package model

import "time"

// BookingWindow запрошенный интервал бронирования, границы включительно
type BookingWindow struct {
	From time.Time
	To   time.Time
}

// Overlaps проверяет пересечение интервалов с включёнными границами:
// existing.from <= to AND existing.to >= from
func (w BookingWindow) Overlaps(from, to time.Time) bool {
	return !from.After(w.To) && !to.Before(w.From)
}

// UnavailableReason причина, по которой актив нельзя забронировать
type UnavailableReason string

const (
	ReasonNone                UnavailableReason = ""
	ReasonNotBookable         UnavailableReason = "not_available_to_book"
	ReasonInCustody           UnavailableReason = "in_custody"
	ReasonAlreadyBooked       UnavailableReason = "already_booked"
	ReasonOutsideOrganization UnavailableReason = "outside_organization"
)

// CheckAssetAvailability решает, можно ли включить актив в бронирование на окно window.
// bookings это бронирования, в которые уже входит актив, exempt это id бронирований,
// которые не считаются конфликтом (обычно само редактируемое бронирование).
func CheckAssetAvailability(asset *Asset, bookings []BookingBrief, window BookingWindow, exempt []string) UnavailableReason {
	if !asset.AvailableToBook {
		return ReasonNotBookable
	}
	if asset.Custody != nil {
		return ReasonInCustody
	}

	skip := make(map[string]struct{}, len(exempt))
	for _, id := range exempt {
		skip[id] = struct{}{}
	}

	for _, b := range bookings {
		if _, ok := skip[b.ID]; ok {
			continue
		}
		if !b.Status.IsActive() {
			continue
		}
		if window.Overlaps(b.From, b.To) {
			return ReasonAlreadyBooked
		}
	}

	return ReasonNone
}
