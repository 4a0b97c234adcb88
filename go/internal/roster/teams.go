package roster

import (
	"context"

	"github.com/google/uuid"
	"github.com/mcdev12/sportsball/go/internal/events"
	"github.com/mcdev12/sportsball/go/internal/fantasyteam"
	"github.com/mcdev12/sportsball/go/internal/models"
)

// CreateTeam creates the target user's only team
func (c *Coordinator) CreateTeam(ctx context.Context, actorID, userID uuid.UUID, req fantasyteam.CreateTeamRequest) (*models.Team, error) {
	if err := authorize(actorID, userID); err != nil {
		return nil, err
	}

	var team *models.Team
	err := c.atomically(ctx, "create team", func(ctx context.Context, u *unit) error {
		if err := u.loadUser(ctx, userID); err != nil {
			return err
		}
		var err error
		team, err = u.teams.CreateTeam(ctx, userID, req)
		if err != nil {
			return err
		}
		team.Members = []models.Player{}
		return u.enqueue(ctx, team.ID, models.RosterEventTeamCreated, events.TeamCreatedPayload{
			TeamID:    team.ID.String(),
			UserID:    userID.String(),
			TeamName:  team.TeamName,
			CreatedAt: team.CreatedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

// GetTeam returns a team of userID with its members resolved. Any
// authenticated caller may read it.
func (c *Coordinator) GetTeam(ctx context.Context, userID, teamID uuid.UUID) (*models.Team, error) {
	var team *models.Team
	err := c.atomically(ctx, "get team", func(ctx context.Context, u *unit) error {
		var err error
		if team, err = u.teams.GetTeam(ctx, userID, teamID); err != nil {
			return err
		}
		return u.teams.PopulateMembers(ctx, team)
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

// UpdateTeam edits the descriptive fields of the target user's team
func (c *Coordinator) UpdateTeam(ctx context.Context, actorID, userID, teamID uuid.UUID, req fantasyteam.UpdateTeamRequest) (*models.Team, error) {
	if err := authorize(actorID, userID); err != nil {
		return nil, err
	}

	var team *models.Team
	err := c.atomically(ctx, "update team", func(ctx context.Context, u *unit) error {
		if err := u.loadUser(ctx, userID); err != nil {
			return err
		}
		var err error
		if team, err = u.teams.UpdateTeamFields(ctx, userID, teamID, req); err != nil {
			return err
		}
		if err := u.teams.PopulateMembers(ctx, team); err != nil {
			return err
		}
		return u.enqueue(ctx, teamID, models.RosterEventTeamUpdated, events.TeamUpdatedPayload{
			TeamID:       teamID.String(),
			TeamName:     team.TeamName,
			Motto:        team.Motto,
			Description:  team.Description,
			PlayingStyle: team.PlayingStyle,
			UpdatedAt:    team.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

// DraftPlayer assigns playerID to the target user's team
func (c *Coordinator) DraftPlayer(ctx context.Context, actorID, userID, teamID, playerID uuid.UUID) (*models.Team, error) {
	if err := authorize(actorID, userID); err != nil {
		return nil, err
	}

	var team *models.Team
	err := c.atomically(ctx, "draft player", func(ctx context.Context, u *unit) error {
		if err := u.loadUser(ctx, userID); err != nil {
			return err
		}
		var (
			added bool
			err   error
		)
		if team, added, err = u.teams.AddPlayer(ctx, userID, teamID, playerID); err != nil {
			return err
		}
		if err := u.teams.PopulateMembers(ctx, team); err != nil {
			return err
		}
		if !added {
			return nil
		}

		drafted := memberByID(team, playerID)
		return u.enqueue(ctx, teamID, models.RosterEventPlayerDrafted, events.PlayerDraftedPayload{
			TeamID:             teamID.String(),
			PlayerID:           playerID.String(),
			PlayerName:         drafted.Name,
			FantasyPoints:      drafted.FantasyPoints,
			TotalFantasyPoints: team.TotalFantasyPoints,
			DraftedAt:          team.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

// ReleasePlayer removes playerID from the target user's team
func (c *Coordinator) ReleasePlayer(ctx context.Context, actorID, userID, teamID, playerID uuid.UUID) (*models.Team, error) {
	if err := authorize(actorID, userID); err != nil {
		return nil, err
	}

	var team *models.Team
	err := c.atomically(ctx, "release player", func(ctx context.Context, u *unit) error {
		if err := u.loadUser(ctx, userID); err != nil {
			return err
		}
		var err error
		if team, err = u.teams.RemovePlayer(ctx, userID, teamID, playerID); err != nil {
			return err
		}
		if err := u.teams.PopulateMembers(ctx, team); err != nil {
			return err
		}
		return u.enqueue(ctx, teamID, models.RosterEventPlayerReleased, events.PlayerReleasedPayload{
			TeamID:             teamID.String(),
			PlayerID:           playerID.String(),
			Reason:             events.ReleaseReasonReleased,
			TotalFantasyPoints: team.TotalFantasyPoints,
			ReleasedAt:         team.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

// DeleteTeam releases every member of the target user's team and removes it
func (c *Coordinator) DeleteTeam(ctx context.Context, actorID, userID, teamID uuid.UUID) error {
	if err := authorize(actorID, userID); err != nil {
		return err
	}

	return c.atomically(ctx, "delete team", func(ctx context.Context, u *unit) error {
		if err := u.loadUser(ctx, userID); err != nil {
			return err
		}
		released, err := u.teams.DeleteTeam(ctx, userID, teamID)
		if err != nil {
			return err
		}

		ids := make([]string, len(released))
		for i, id := range released {
			ids[i] = id.String()
		}
		return u.enqueue(ctx, teamID, models.RosterEventTeamDeleted, events.TeamDeletedPayload{
			TeamID:            teamID.String(),
			UserID:            userID.String(),
			ReleasedPlayerIDs: ids,
			DeletedAt:         u.now(),
		})
	})
}

func memberByID(team *models.Team, playerID uuid.UUID) models.Player {
	for _, m := range team.Members {
		if m.ID == playerID {
			return m
		}
	}
	return models.Player{ID: playerID}
}
