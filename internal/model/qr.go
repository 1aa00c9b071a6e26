package model

import "time"

type Qr struct {
	ID             string    `json:"id"`
	AssetID        *string   `json:"asset_id,omitempty"` // nil для "сиротских" кодов
	UserID         string    `json:"user_id"`
	OrganizationID *string   `json:"organization_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
