package player

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mcdev12/sportsball/go/internal/apperrors"
	"github.com/mcdev12/sportsball/go/internal/models"
	"github.com/mcdev12/sportsball/go/internal/sqlutil"
)

const playerColumns = `id, name, gender, position, species, is_supernatural, height_cm, weight_kg,
	yards, touchdowns, interceptions, fantasy_points, is_drafted, owner_team_id,
	version, created_at, updated_at`

// Repository handles all player-related database operations
type Repository struct {
	db sqlutil.DBTX
}

// NewRepository creates a new player repository
func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

// CreatePlayer inserts a new player row
func (r *Repository) CreatePlayer(ctx context.Context, p *models.Player) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO players (`+playerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		p.ID, p.Name, p.Gender, p.Position, p.Species, p.IsSupernatural, p.HeightCm, p.WeightKg,
		p.Stats.Yards, p.Stats.Touchdowns, p.Stats.Interceptions, p.FantasyPoints, p.IsDrafted,
		sqlutil.ToNullUUID(p.OwnerID), p.Version, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if sqlutil.IsUniqueViolation(err) {
			return apperrors.Conflict("player %s already exists", p.ID)
		}
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

// GetPlayer retrieves a player by ID
func (r *Repository) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	row := r.db.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id)
	player, err := scanPlayer(row)
	if err != nil {
		if sqlutil.IsNoRows(err) {
			return nil, apperrors.NotFound("player %s", id)
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

// GetPlayers retrieves the players with the given ids in the order given,
// skipping unknown ids
func (r *Repository) GetPlayers(ctx context.Context, ids []uuid.UUID) ([]models.Player, error) {
	if len(ids) == 0 {
		return []models.Player{}, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+playerColumns+` FROM players
		WHERE id = ANY($1::uuid[])
		ORDER BY array_position($1::uuid[], id)`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}
	defer rows.Close()

	players := make([]models.Player, 0, len(ids))
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, *player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate players: %w", err)
	}
	return players, nil
}

// UpdatePlayer writes every mutable column if the stored version still
// matches p.Version, then bumps the version
func (r *Repository) UpdatePlayer(ctx context.Context, p *models.Player) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE players SET
			name = $2, gender = $3, position = $4, species = $5, is_supernatural = $6,
			height_cm = $7, weight_kg = $8, yards = $9, touchdowns = $10, interceptions = $11,
			fantasy_points = $12, is_drafted = $13, owner_team_id = $14,
			version = version + 1, updated_at = $15
		WHERE id = $1 AND version = $16`,
		p.ID, p.Name, p.Gender, p.Position, p.Species, p.IsSupernatural,
		p.HeightCm, p.WeightKg, p.Stats.Yards, p.Stats.Touchdowns, p.Stats.Interceptions,
		p.FantasyPoints, p.IsDrafted, sqlutil.ToNullUUID(p.OwnerID), p.UpdatedAt, p.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missingOrStale(ctx, p.ID)
	}
	p.Version++
	return nil
}

// DeletePlayer deletes a player by ID
func (r *Repository) DeletePlayer(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("player %s", id)
	}
	return nil
}

func (r *Repository) missingOrStale(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM players WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check player: %w", err)
	}
	if !exists {
		return apperrors.NotFound("player %s", id)
	}
	return apperrors.ErrStale
}

// Helper function to convert a database row to the domain model
func scanPlayer(row pgx.Row) (*models.Player, error) {
	var (
		p     models.Player
		owner uuid.NullUUID
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Gender, &p.Position, &p.Species, &p.IsSupernatural,
		&p.HeightCm, &p.WeightKg, &p.Stats.Yards, &p.Stats.Touchdowns, &p.Stats.Interceptions,
		&p.FantasyPoints, &p.IsDrafted, &owner, &p.Version, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.OwnerID = sqlutil.FromNullUUID(owner)
	return &p, nil
}
