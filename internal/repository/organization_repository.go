package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/shelf_server/internal/model"
	"github.com/Freeeeeet/shelf_server/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrganizationRepository struct {
	*base.Repository
}

func NewOrganizationRepository(pool *pgxpool.Pool) *OrganizationRepository {
	return &OrganizationRepository{Repository: base.NewRepository(pool)}
}

// GetByID получает организацию по ID
func (r *OrganizationRepository) GetByID(ctx context.Context, id string) (*model.Organization, error) {
	query := `
		SELECT id, name, type, owner_id, created_at
		FROM organizations
		WHERE id = $1
	`

	var org model.Organization
	err := r.QueryRow(ctx, query, id).Scan(
		&org.ID,
		&org.Name,
		&org.Type,
		&org.OwnerID,
		&org.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization by id: %w", err)
	}

	return &org, nil
}

// GetMembership получает роли пользователя в организации, nil если он не участник
func (r *OrganizationRepository) GetMembership(ctx context.Context, userID, organizationID string) (*model.Membership, error) {
	query := `
		SELECT roles
		FROM user_organizations
		WHERE user_id = $1 AND organization_id = $2
	`

	var roles []string
	if err := r.QueryRow(ctx, query, userID, organizationID).Scan(&roles); err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}

	membership := &model.Membership{
		UserID:         userID,
		OrganizationID: organizationID,
		Roles:          make([]model.OrganizationRole, len(roles)),
	}
	for i, role := range roles {
		membership.Roles[i] = model.OrganizationRole(role)
	}

	return membership, nil
}
