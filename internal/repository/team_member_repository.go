package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/shelf_server/internal/model"
	"github.com/Freeeeeet/shelf_server/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TeamMemberRepository struct {
	*base.Repository
}

func NewTeamMemberRepository(pool *pgxpool.Pool) *TeamMemberRepository {
	return &TeamMemberRepository{Repository: base.NewRepository(pool)}
}

// GetByID получает участника команды организации
func (r *TeamMemberRepository) GetByID(ctx context.Context, organizationID, id string) (*model.TeamMember, error) {
	query := `
		SELECT id, name, organization_id, user_id, created_at
		FROM team_members
		WHERE id = $1 AND organization_id = $2
	`

	var member model.TeamMember
	err := r.QueryRow(ctx, query, id, organizationID).Scan(
		&member.ID,
		&member.Name,
		&member.OrganizationID,
		&member.UserID,
		&member.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get team member: %w", err)
	}

	return &member, nil
}
