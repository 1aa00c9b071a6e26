package model

import "time"

type AssetStatus string

const (
	AssetStatusAvailable  AssetStatus = "AVAILABLE"
	AssetStatusCheckedOut AssetStatus = "CHECKED_OUT"
	AssetStatusInCustody  AssetStatus = "IN_CUSTODY"
)

// Valid проверяет что статус из известного набора
func (s AssetStatus) Valid() bool {
	switch s {
	case AssetStatusAvailable, AssetStatusCheckedOut, AssetStatusInCustody:
		return true
	}
	return false
}

type Asset struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	OrganizationID  string      `json:"organization_id"`
	Status          AssetStatus `json:"status"`
	AvailableToBook bool        `json:"available_to_book"`
	KitID           *string     `json:"kit_id,omitempty"`
	CategoryID      *string     `json:"category_id,omitempty"`
	LocationID      *string     `json:"location_id,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`

	// Дополнительные поля для удобства (не из таблицы assets)
	Custody         *Custody      `json:"custody,omitempty"`
	ConflictBooking *BookingBrief `json:"conflict_booking,omitempty"` // Пересекающееся бронирование, если запрошено окно
}

// Custody закрепление актива за участником команды
type Custody struct {
	ID           string    `json:"id"`
	AssetID      string    `json:"asset_id"`
	TeamMemberID string    `json:"team_member_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// BookingBrief краткие сведения о бронировании для списка активов
type BookingBrief struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Status BookingStatus `json:"status"`
	From   time.Time     `json:"from"`
	To     time.Time     `json:"to"`
}
