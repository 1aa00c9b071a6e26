package model

import "time"

type OrganizationType string

const (
	OrganizationTypePersonal OrganizationType = "PERSONAL"
	OrganizationTypeTeam     OrganizationType = "TEAM"
)

type OrganizationRole string

const (
	RoleAdmin       OrganizationRole = "ADMIN"
	RoleBase        OrganizationRole = "BASE"
	RoleOwner       OrganizationRole = "OWNER"
	RoleSelfService OrganizationRole = "SELF_SERVICE"
)

type Organization struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Type      OrganizationType `json:"type"`
	OwnerID   string           `json:"owner_id"`
	CreatedAt time.Time        `json:"created_at"`
}

// Membership связь пользователя с организацией и его роли в ней
type Membership struct {
	UserID         string             `json:"user_id"`
	OrganizationID string             `json:"organization_id"`
	Roles          []OrganizationRole `json:"roles"`
}
