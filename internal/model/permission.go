package model

type PermissionEntity string

const (
	EntityAsset           PermissionEntity = "asset"
	EntityBooking         PermissionEntity = "booking"
	EntityQr              PermissionEntity = "qr"
	EntityCategory        PermissionEntity = "category"
	EntityCustomField     PermissionEntity = "customField"
	EntityLocation        PermissionEntity = "location"
	EntityTag             PermissionEntity = "tag"
	EntityTeamMember      PermissionEntity = "teamMember"
	EntityWorkspace       PermissionEntity = "workspace"
	EntityDashboard       PermissionEntity = "dashboard"
	EntityGeneralSettings PermissionEntity = "generalSettings"
	EntitySubscription    PermissionEntity = "subscription"
	EntityTemplate        PermissionEntity = "template"
)

type PermissionAction string

const (
	ActionCreate PermissionAction = "create"
	ActionRead   PermissionAction = "read"
	ActionUpdate PermissionAction = "update"
	ActionDelete PermissionAction = "delete"
)

// PermissionTable набор разрешённых действий по сущностям для одной роли
type PermissionTable map[PermissionEntity][]PermissionAction

// Allows проверяет что действие есть в списке для сущности
func (t PermissionTable) Allows(entity PermissionEntity, action PermissionAction) bool {
	for _, a := range t[entity] {
		if a == action {
			return true
		}
	}
	return false
}

// RolePermissions статическая таблица прав для ролей, не имеющих полного доступа.
// ADMIN и OWNER сюда не входят: им разрешено всё.
var RolePermissions = map[OrganizationRole]PermissionTable{
	RoleSelfService: {
		EntityAsset: {ActionRead},
		// delete нужен, чтобы пользователь мог удалить собственный черновик
		EntityBooking:         {ActionCreate, ActionRead, ActionUpdate, ActionDelete},
		EntityQr:              {},
		EntityCategory:        {},
		EntityCustomField:     {},
		EntityLocation:        {},
		EntityTag:             {},
		EntityTeamMember:      {},
		EntityWorkspace:       {},
		EntityDashboard:       {},
		EntityGeneralSettings: {},
		EntitySubscription:    {},
		EntityTemplate:        {ActionCreate, ActionRead, ActionUpdate},
	},
}
