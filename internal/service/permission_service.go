package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/shelf_server/internal/apperr"
	"github.com/Freeeeeet/shelf_server/internal/model"
	"go.uber.org/zap"
)

const labelPermission = "Permission"

// PermissionCheck проверяемое действие пользователя в организации.
// Roles можно передать заранее, тогда членство не запрашивается.
type PermissionCheck struct {
	UserID         string
	OrganizationID string
	Entity         model.PermissionEntity
	Action         model.PermissionAction
	Roles          []model.OrganizationRole
}

type PermissionService struct {
	memberships MembershipStore
	logger      *zap.Logger
}

func NewPermissionService(memberships MembershipStore, logger *zap.Logger) *PermissionService {
	return &PermissionService{memberships: memberships, logger: logger}
}

// Roles возвращает роли пользователя в организации или Forbidden, если он не участник
func (s *PermissionService) Roles(ctx context.Context, userID, organizationID string) ([]model.OrganizationRole, error) {
	membership, err := s.memberships.GetMembership(ctx, userID, organizationID)
	if err != nil {
		return nil, apperr.Internal(labelPermission, "failed to load organization membership", err)
	}

	if membership == nil {
		return nil, apperr.Forbidden(labelPermission, "you are not a member of this organization").
			With("userId", userID).
			With("organizationId", organizationID)
	}

	return membership.Roles, nil
}

// HasPermission проверяет разрешено ли действие. ADMIN и OWNER разрешено всё.
func (s *PermissionService) HasPermission(ctx context.Context, check PermissionCheck) (bool, error) {
	roles := check.Roles
	if roles == nil {
		var err error
		roles, err = s.Roles(ctx, check.UserID, check.OrganizationID)
		if err != nil {
			return false, err
		}
	}

	return RolesAllow(roles, check.Entity, check.Action), nil
}

// ValidatePermission возвращает Forbidden, если действие не разрешено
func (s *PermissionService) ValidatePermission(ctx context.Context, check PermissionCheck) error {
	ok, err := s.HasPermission(ctx, check)
	if err != nil {
		return err
	}

	if !ok {
		s.logger.Debug("Permission denied",
			zap.String("user_id", check.UserID),
			zap.String("organization_id", check.OrganizationID),
			zap.String("entity", string(check.Entity)),
			zap.String("action", string(check.Action)),
		)
		return apperr.Forbidden(labelPermission, fmt.Sprintf("you are not allowed to %s %s", check.Action, check.Entity)).
			With("userId", check.UserID).
			With("organizationId", check.OrganizationID).
			With("entity", check.Entity).
			With("action", check.Action)
	}

	return nil
}

// RolesAllow решает по набору ролей без обращения к базе
func RolesAllow(roles []model.OrganizationRole, entity model.PermissionEntity, action model.PermissionAction) bool {
	for _, role := range roles {
		if role == model.RoleAdmin || role == model.RoleOwner {
			return true
		}
	}

	for _, role := range roles {
		if table, ok := model.RolePermissions[role]; ok && table.Allows(entity, action) {
			return true
		}
	}

	return false
}
