package fantasyteam

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/sportsball/go/internal/apperrors"
	"github.com/mcdev12/sportsball/go/internal/models"
	"github.com/mcdev12/sportsball/go/internal/scoring"
	"github.com/rs/zerolog/log"
)

// TeamRepository defines what the app layer needs from the repository
type TeamRepository interface {
	CreateTeam(ctx context.Context, t *models.Team) error
	GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
	GetTeamByUser(ctx context.Context, userID uuid.UUID) (*models.Team, error)
	UpdateTeam(ctx context.Context, t *models.Team) error
	DeleteTeam(ctx context.Context, id uuid.UUID) error
}

// PlayerStore defines what the aggregator needs from the player store.
// *player.App satisfies it.
type PlayerStore interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	GetPlayers(ctx context.Context, ids []uuid.UUID) ([]models.Player, error)
	SetOwnership(ctx context.Context, id uuid.UUID, teamID *uuid.UUID) (*models.Player, error)
	Release(ctx context.Context, id uuid.UUID) (*models.Player, error)
}

// App is the team aggregator. It owns roster membership and keeps
// TotalFantasyPoints equal to the sum of the members' current points.
type App struct {
	repo    TeamRepository
	players PlayerStore
	clock   clockwork.Clock
}

// NewApp creates a new team App
func NewApp(repo TeamRepository, players PlayerStore, clock clockwork.Clock) *App {
	return &App{
		repo:    repo,
		players: players,
		clock:   clock,
	}
}

// CreateTeam creates the user's only team with an empty roster
func (a *App) CreateTeam(ctx context.Context, userID uuid.UUID, req CreateTeamRequest) (*models.Team, error) {
	if err := validateCreateTeamRequest(req); err != nil {
		return nil, err
	}

	existing, err := a.repo.GetTeamByUser(ctx, userID)
	switch {
	case err == nil:
		return nil, apperrors.Conflict("user %s already has team %s", userID, existing.ID)
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, apperrors.Persistence("get team by user", err)
	}

	now := a.clock.Now().UTC()
	team := &models.Team{
		ID:           uuid.New(),
		UserID:       userID,
		TeamName:     req.TeamName,
		Motto:        req.Motto,
		Description:  req.Description,
		PlayingStyle: req.PlayingStyle,
		MemberIDs:    []uuid.UUID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.repo.CreateTeam(ctx, team); err != nil {
		return nil, apperrors.Persistence("create team", err)
	}

	log.Info().
		Str("team_id", team.ID.String()).
		Str("user_id", userID.String()).
		Msg("created team")
	return team, nil
}

// GetTeam loads a team owned by userID. The caller decides whether the
// acting identity may read it; a team under another user is reported as missing.
func (a *App) GetTeam(ctx context.Context, userID, teamID uuid.UUID) (*models.Team, error) {
	team, err := a.repo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, apperrors.Persistence("get team", err)
	}
	if team.UserID != userID {
		return nil, apperrors.NotFound("team %s for user %s", teamID, userID)
	}
	return team, nil
}

// GetTeamByUser loads the user's team, NotFound when they have none
func (a *App) GetTeamByUser(ctx context.Context, userID uuid.UUID) (*models.Team, error) {
	team, err := a.repo.GetTeamByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Persistence("get team by user", err)
	}
	return team, nil
}

// PopulateMembers resolves MemberIDs into player records in roster order
func (a *App) PopulateMembers(ctx context.Context, team *models.Team) error {
	members, err := a.players.GetPlayers(ctx, team.MemberIDs)
	if err != nil {
		return err
	}
	team.Members = members
	return nil
}

// UpdateTeamFields changes descriptive fields of a team the user owns
func (a *App) UpdateTeamFields(ctx context.Context, userID, teamID uuid.UUID, req UpdateTeamRequest) (*models.Team, error) {
	if err := validateUpdateTeamRequest(req); err != nil {
		return nil, err
	}

	team, err := a.loadOwned(ctx, userID, teamID)
	if err != nil {
		return nil, err
	}

	if req.TeamName != nil {
		team.TeamName = *req.TeamName
	}
	if req.Motto != nil {
		team.Motto = *req.Motto
	}
	if req.Description != nil {
		team.Description = *req.Description
	}
	if req.PlayingStyle != nil {
		team.PlayingStyle = *req.PlayingStyle
	}

	if err := a.save(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

// AddPlayer drafts playerID onto the team. Adding a current member is a
// no-op reported with added=false; a player owned by another team is a conflict.
func (a *App) AddPlayer(ctx context.Context, userID, teamID, playerID uuid.UUID) (team *models.Team, added bool, err error) {
	team, err = a.loadOwned(ctx, userID, teamID)
	if err != nil {
		return nil, false, err
	}

	p, err := a.players.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, false, err
	}

	if team.HasMember(playerID) && p.OwnedBy(teamID) {
		return team, false, nil
	}
	if p.OwnerID != nil && !p.OwnedBy(teamID) {
		return nil, false, apperrors.Conflict("player %s is already drafted by team %s", playerID, *p.OwnerID)
	}

	if _, err := a.players.SetOwnership(ctx, playerID, &teamID); err != nil {
		return nil, false, err
	}
	team.AddMember(playerID)

	if err := a.Recompute(ctx, team); err != nil {
		return nil, false, err
	}
	if err := a.save(ctx, team); err != nil {
		return nil, false, err
	}

	log.Info().
		Str("team_id", teamID.String()).
		Str("player_id", playerID.String()).
		Float64("total_fantasy_points", team.TotalFantasyPoints).
		Msg("drafted player")
	return team, true, nil
}

// RemovePlayer releases playerID from the team
func (a *App) RemovePlayer(ctx context.Context, userID, teamID, playerID uuid.UUID) (*models.Team, error) {
	team, err := a.loadOwned(ctx, userID, teamID)
	if err != nil {
		return nil, err
	}

	if !team.HasMember(playerID) {
		return nil, apperrors.NotFound("player %s on team %s", playerID, teamID)
	}

	if err := a.releaseIfOwned(ctx, teamID, playerID); err != nil {
		return nil, err
	}
	team.RemoveMember(playerID)

	if err := a.Recompute(ctx, team); err != nil {
		return nil, err
	}
	if err := a.save(ctx, team); err != nil {
		return nil, err
	}

	log.Info().
		Str("team_id", teamID.String()).
		Str("player_id", playerID.String()).
		Float64("total_fantasy_points", team.TotalFantasyPoints).
		Msg("released player")
	return team, nil
}

// DropMember removes a player that is about to be deleted from its team and
// recomputes the total. It skips the owner check since the caller is acting
// on the player, not the team.
func (a *App) DropMember(ctx context.Context, teamID, playerID uuid.UUID) (*models.Team, error) {
	team, err := a.repo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, apperrors.Persistence("get team", err)
	}
	if !team.RemoveMember(playerID) {
		return team, nil
	}
	if err := a.Recompute(ctx, team); err != nil {
		return nil, err
	}
	if err := a.save(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

// RefreshTotal recomputes and stores the total of a team after one of its
// members changed score
func (a *App) RefreshTotal(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	team, err := a.repo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, apperrors.Persistence("get team", err)
	}
	if err := a.Recompute(ctx, team); err != nil {
		return nil, err
	}
	if err := a.save(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

// DeleteTeam releases every member, then removes the team. It returns the
// released player ids in roster order.
func (a *App) DeleteTeam(ctx context.Context, userID, teamID uuid.UUID) ([]uuid.UUID, error) {
	team, err := a.loadOwned(ctx, userID, teamID)
	if err != nil {
		return nil, err
	}

	for _, playerID := range team.MemberIDs {
		if err := a.releaseIfOwned(ctx, teamID, playerID); err != nil {
			return nil, err
		}
	}

	if err := a.repo.DeleteTeam(ctx, teamID); err != nil {
		return nil, apperrors.Persistence("delete team", err)
	}

	log.Info().
		Str("team_id", teamID.String()).
		Int("released", len(team.MemberIDs)).
		Msg("deleted team")
	return team.MemberIDs, nil
}

// Recompute sets TotalFantasyPoints from the current points of every member
func (a *App) Recompute(ctx context.Context, team *models.Team) error {
	members, err := a.players.GetPlayers(ctx, team.MemberIDs)
	if err != nil {
		return err
	}
	points := make([]float64, 0, len(members))
	for _, p := range members {
		points = append(points, p.FantasyPoints)
	}
	team.TotalFantasyPoints = scoring.Total(points...)
	return nil
}

func (a *App) loadOwned(ctx context.Context, userID, teamID uuid.UUID) (*models.Team, error) {
	team, err := a.repo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, apperrors.Persistence("get team", err)
	}
	if team.UserID != userID {
		return nil, apperrors.PermissionDenied("team %s is not owned by user %s", teamID, userID)
	}
	return team, nil
}

// releaseIfOwned releases the player unless it has since moved to another
// team or been deleted
func (a *App) releaseIfOwned(ctx context.Context, teamID, playerID uuid.UUID) error {
	p, err := a.players.GetPlayer(ctx, playerID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if p.OwnerID != nil && !p.OwnedBy(teamID) {
		return nil
	}
	_, err = a.players.Release(ctx, playerID)
	return err
}

func (a *App) save(ctx context.Context, team *models.Team) error {
	team.UpdatedAt = a.clock.Now().UTC()
	if err := a.repo.UpdateTeam(ctx, team); err != nil {
		return apperrors.Persistence("update team", err)
	}
	return nil
}

func validateCreateTeamRequest(req CreateTeamRequest) error {
	if req.TeamName == "" {
		return apperrors.Validation("teamName is required")
	}
	return nil
}

func validateUpdateTeamRequest(req UpdateTeamRequest) error {
	if req.Empty() {
		return apperrors.Validation("at least one team field is required")
	}
	if req.TeamName != nil && *req.TeamName == "" {
		return apperrors.Validation("teamName cannot be empty")
	}
	return nil
}
