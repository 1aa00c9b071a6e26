package service

import "github.com/Freeeeeet/shelf_server/internal/model"

// Actor пользователь, от имени которого выполняется операция в организации
type Actor struct {
	UserID         string
	OrganizationID string
	Roles          []model.OrganizationRole
}

// SelfServiceOnly true, если у пользователя нет ролей шире SELF_SERVICE.
// Такой пользователь видит и меняет только свои бронирования.
func (a Actor) SelfServiceOnly() bool {
	selfService := false
	for _, role := range a.Roles {
		switch role {
		case model.RoleAdmin, model.RoleOwner, model.RoleBase:
			return false
		case model.RoleSelfService:
			selfService = true
		}
	}
	return selfService
}

// owns проверяет что бронирование создано пользователем или выдано на него
func (a Actor) owns(b *model.Booking) bool {
	if b.CreatorID == a.UserID {
		return true
	}
	if b.CustodianUserID != nil && *b.CustodianUserID == a.UserID {
		return true
	}
	return b.CustodianTeamMember != nil && b.CustodianTeamMember.UserID != nil && *b.CustodianTeamMember.UserID == a.UserID
}
