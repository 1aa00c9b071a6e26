package model

import "time"

type BookingStatus string

const (
	BookingStatusDraft     BookingStatus = "DRAFT"     // Черновик, ещё не забронировано
	BookingStatusReserved  BookingStatus = "RESERVED"  // Забронировано, ждёт выдачи
	BookingStatusOngoing   BookingStatus = "ONGOING"   // Активы выданы
	BookingStatusOverdue   BookingStatus = "OVERDUE"   // Срок возврата прошёл
	BookingStatusComplete  BookingStatus = "COMPLETE"  // Активы возвращены
	BookingStatusArchived  BookingStatus = "ARCHIVED"  // В архиве
	BookingStatusCancelled BookingStatus = "CANCELLED" // Отменено
)

// UnavailableBookingStatuses статусы, при которых бронирование блокирует актив
var UnavailableBookingStatuses = []BookingStatus{
	BookingStatusReserved,
	BookingStatusOngoing,
	BookingStatusOverdue,
}

// IsActive возвращает true, если бронирование занимает активы
func (s BookingStatus) IsActive() bool {
	for _, st := range UnavailableBookingStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Valid проверяет что статус из известного набора
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusDraft, BookingStatusReserved, BookingStatusOngoing, BookingStatusOverdue,
		BookingStatusComplete, BookingStatusArchived, BookingStatusCancelled:
		return true
	}
	return false
}

type Booking struct {
	ID                    string        `json:"id"`
	Name                  string        `json:"name"`
	Status                BookingStatus `json:"status"`
	OrganizationID        string        `json:"organization_id"`
	CreatorID             string        `json:"creator_id"`
	CustodianUserID       *string       `json:"custodian_user_id,omitempty"`
	CustodianTeamMemberID *string       `json:"custodian_team_member_id,omitempty"`
	From                  *time.Time    `json:"from,omitempty"`
	To                    *time.Time    `json:"to,omitempty"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`

	// Дополнительные поля для удобства (не из таблицы bookings)
	AssetsCount         int           `json:"assets_count"`
	CustodianUser       *User         `json:"custodian_user,omitempty"`
	CustodianTeamMember *TeamMember   `json:"custodian_team_member,omitempty"`
	Organization        *Organization `json:"organization,omitempty"`
}

// CustodianName возвращает имя ответственного: пользователя или участника команды
func (b *Booking) CustodianName() string {
	if b.CustodianUser != nil {
		if name := b.CustodianUser.FullName(); name != "" {
			return name
		}
	}
	if b.CustodianTeamMember != nil {
		return b.CustodianTeamMember.Name
	}
	return ""
}

// HasWindow проверяет что у бронирования заданы обе даты
func (b *Booking) HasWindow() bool {
	return b.From != nil && b.To != nil
}

// BookingReminderPayload данные задачи цепочки напоминаний
type BookingReminderPayload struct {
	ID string `json:"id"`
}
