package player

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/sportsball/go/internal/apperrors"
	"github.com/mcdev12/sportsball/go/internal/models"
	"github.com/mcdev12/sportsball/go/internal/scoring"
	"github.com/rs/zerolog/log"
)

// PlayerRepository defines what the app layer needs from the repository
type PlayerRepository interface {
	CreatePlayer(ctx context.Context, p *models.Player) error
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	GetPlayers(ctx context.Context, ids []uuid.UUID) ([]models.Player, error)
	UpdatePlayer(ctx context.Context, p *models.Player) error
	DeletePlayer(ctx context.Context, id uuid.UUID) error
}

// App is the player store. It is the only code that writes player rows, and
// every path that changes a raw stat goes through rescore.
type App struct {
	repo  PlayerRepository
	clock clockwork.Clock
}

// NewApp creates a new player App
func NewApp(repo PlayerRepository, clock clockwork.Clock) *App {
	return &App{
		repo:  repo,
		clock: clock,
	}
}

// CreatePlayer validates the request and stores an undrafted player with its
// fantasy points already computed
func (a *App) CreatePlayer(ctx context.Context, req CreatePlayerRequest) (*models.Player, error) {
	if err := validateCreatePlayerRequest(req); err != nil {
		return nil, err
	}

	now := a.clock.Now().UTC()
	player := &models.Player{
		ID:             uuid.New(),
		Name:           req.Name,
		Gender:         req.Gender,
		Position:       req.Position,
		Species:        req.Species,
		IsSupernatural: *req.IsSupernatural,
		HeightCm:       *req.HeightCm,
		WeightKg:       *req.WeightKg,
		Stats: models.Stats{
			Yards:         *req.Yards,
			Touchdowns:    *req.Touchdowns,
			Interceptions: *req.Interceptions,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	rescore(player)

	if err := a.repo.CreatePlayer(ctx, player); err != nil {
		return nil, apperrors.Persistence("create player", err)
	}

	log.Debug().
		Str("player_id", player.ID.String()).
		Float64("fantasy_points", player.FantasyPoints).
		Msg("created player")
	return player, nil
}

// GetPlayer retrieves a player by ID
func (a *App) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	player, err := a.repo.GetPlayer(ctx, id)
	if err != nil {
		return nil, apperrors.Persistence("get player", err)
	}
	return player, nil
}

// GetPlayers retrieves the players with the given ids in the order given. An
// id with no stored player is a NotFound error.
func (a *App) GetPlayers(ctx context.Context, ids []uuid.UUID) ([]models.Player, error) {
	found, err := a.repo.GetPlayers(ctx, ids)
	if err != nil {
		return nil, apperrors.Persistence("get players", err)
	}
	byID := make(map[uuid.UUID]models.Player, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	players := make([]models.Player, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, apperrors.NotFound("player %s", id)
		}
		players = append(players, p)
	}
	return players, nil
}

// UpdateStats merges the supplied stats over the stored ones, recomputes
// fantasy points and persists the result
func (a *App) UpdateStats(ctx context.Context, id uuid.UUID, req UpdateStatsRequest) (*models.Player, error) {
	if req.Empty() {
		return nil, apperrors.Validation("at least one of yards, touchdowns or interceptions is required")
	}

	player, err := a.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}

	player.Stats = MergeStats(player.Stats, req)
	rescore(player)

	if err := a.save(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

// UpdateProfile changes descriptive fields. Stats, ownership and points are untouched.
func (a *App) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*models.Player, error) {
	if err := validateUpdateProfileRequest(req); err != nil {
		return nil, err
	}

	player, err := a.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		player.Name = *req.Name
	}
	if req.Gender != nil {
		player.Gender = *req.Gender
	}
	if req.Position != nil {
		player.Position = *req.Position
	}
	if req.Species != nil {
		player.Species = *req.Species
	}
	if req.IsSupernatural != nil {
		player.IsSupernatural = *req.IsSupernatural
	}
	if req.HeightCm != nil {
		player.HeightCm = *req.HeightCm
	}
	if req.WeightKg != nil {
		player.WeightKg = *req.WeightKg
	}

	if err := a.save(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

// SetOwnership sets the owning team and the drafted flag in one write.
// A nil teamID releases the player. Claiming a player another team owns is a conflict.
func (a *App) SetOwnership(ctx context.Context, id uuid.UUID, teamID *uuid.UUID) (*models.Player, error) {
	player, err := a.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}

	if teamID != nil && player.OwnerID != nil && *player.OwnerID != *teamID {
		return nil, apperrors.Conflict("player %s is already drafted by team %s", id, *player.OwnerID)
	}

	applyOwnership(player, teamID)

	if err := a.save(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

// Release clears ownership so the player returns to the undrafted pool
func (a *App) Release(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	return a.SetOwnership(ctx, id, nil)
}

// DeletePlayer deletes a player by ID
func (a *App) DeletePlayer(ctx context.Context, id uuid.UUID) error {
	if err := a.repo.DeletePlayer(ctx, id); err != nil {
		return apperrors.Persistence("delete player", err)
	}
	return nil
}

func (a *App) save(ctx context.Context, player *models.Player) error {
	player.UpdatedAt = a.clock.Now().UTC()
	if err := a.repo.UpdatePlayer(ctx, player); err != nil {
		return apperrors.Persistence("update player", err)
	}
	return nil
}

// MergeStats overlays the supplied fields on stored. A supplied zero is kept as zero.
func MergeStats(stored models.Stats, req UpdateStatsRequest) models.Stats {
	merged := stored
	if req.Yards != nil {
		merged.Yards = *req.Yards
	}
	if req.Touchdowns != nil {
		merged.Touchdowns = *req.Touchdowns
	}
	if req.Interceptions != nil {
		merged.Interceptions = *req.Interceptions
	}
	return merged
}

func rescore(player *models.Player) {
	player.FantasyPoints = scoring.ForStats(player.Stats)
}

func applyOwnership(player *models.Player, teamID *uuid.UUID) {
	if teamID == nil {
		player.OwnerID = nil
		player.IsDrafted = false
		return
	}
	owner := *teamID
	player.OwnerID = &owner
	player.IsDrafted = true
}

func validateCreatePlayerRequest(req CreatePlayerRequest) error {
	required := []struct {
		name    string
		missing bool
	}{
		{"name", req.Name == ""},
		{"gender", req.Gender == ""},
		{"position", req.Position == ""},
		{"species", req.Species == ""},
		{"isSupernatural", req.IsSupernatural == nil},
		{"heightCm", req.HeightCm == nil},
		{"weightKg", req.WeightKg == nil},
		{"yards", req.Yards == nil},
		{"touchdowns", req.Touchdowns == nil},
		{"interceptions", req.Interceptions == nil},
	}
	for _, field := range required {
		if field.missing {
			return apperrors.Validation("%s is required", field.name)
		}
	}
	return nil
}

func validateUpdateProfileRequest(req UpdateProfileRequest) error {
	for name, value := range map[string]*string{
		"name":     req.Name,
		"gender":   req.Gender,
		"position": req.Position,
		"species":  req.Species,
	} {
		if value != nil && *value == "" {
			return apperrors.Validation("%s cannot be empty", name)
		}
	}
	return nil
}
