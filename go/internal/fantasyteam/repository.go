package fantasyteam

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mcdev12/sportsball/go/internal/apperrors"
	"github.com/mcdev12/sportsball/go/internal/models"
	"github.com/mcdev12/sportsball/go/internal/sqlutil"
)

const teamColumns = `id, user_id, team_name, motto, description, playing_style,
	total_fantasy_points, member_ids, version, created_at, updated_at`

type Repository struct {
	db sqlutil.DBTX
}

func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateTeam(ctx context.Context, t *models.Team) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO teams (id, user_id, team_name, motto, description, playing_style,
			total_fantasy_points, member_ids, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.UserID, t.TeamName, t.Motto, t.Description, t.PlayingStyle,
		t.TotalFantasyPoints, sqlutil.UUIDArray(t.MemberIDs), t.Version, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if sqlutil.IsUniqueViolation(err) {
			return apperrors.Conflict("user %s already has a team", t.UserID)
		}
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *Repository) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	team, err := scanTeam(r.db.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id))
	if err != nil {
		if sqlutil.IsNoRows(err) {
			return nil, apperrors.NotFound("team %s", id)
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

func (r *Repository) GetTeamByUser(ctx context.Context, userID uuid.UUID) (*models.Team, error) {
	team, err := scanTeam(r.db.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE user_id = $1`, userID))
	if err != nil {
		if sqlutil.IsNoRows(err) {
			return nil, apperrors.NotFound("team for user %s", userID)
		}
		return nil, fmt.Errorf("failed to get team by user: %w", err)
	}
	return team, nil
}

// UpdateTeam writes fields, members and total if the stored version still
// matches t.Version, then bumps the version
func (r *Repository) UpdateTeam(ctx context.Context, t *models.Team) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE teams SET
			team_name = $2, motto = $3, description = $4, playing_style = $5,
			total_fantasy_points = $6, member_ids = $7,
			version = version + 1, updated_at = $8
		WHERE id = $1 AND version = $9`,
		t.ID, t.TeamName, t.Motto, t.Description, t.PlayingStyle,
		t.TotalFantasyPoints, sqlutil.UUIDArray(t.MemberIDs), t.UpdatedAt, t.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM teams WHERE id = $1)`, t.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check team: %w", err)
		}
		if !exists {
			return apperrors.NotFound("team %s", t.ID)
		}
		return apperrors.ErrStale
	}
	t.Version++
	return nil
}

func (r *Repository) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("team %s", id)
	}
	return nil
}

func scanTeam(row pgx.Row) (*models.Team, error) {
	var t models.Team
	err := row.Scan(
		&t.ID, &t.UserID, &t.TeamName, &t.Motto, &t.Description, &t.PlayingStyle,
		&t.TotalFantasyPoints, &t.MemberIDs, &t.Version, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.MemberIDs = sqlutil.UUIDArray(t.MemberIDs)
	return &t, nil
}
