package roster

import (
	"context"

	"github.com/google/uuid"
	"github.com/mcdev12/sportsball/go/internal/events"
	"github.com/mcdev12/sportsball/go/internal/models"
	"github.com/mcdev12/sportsball/go/internal/player"
)

// CreatePlayer adds an undrafted player to the pool
func (c *Coordinator) CreatePlayer(ctx context.Context, req player.CreatePlayerRequest) (*models.Player, error) {
	var p *models.Player
	err := c.atomically(ctx, "create player", func(ctx context.Context, u *unit) error {
		var err error
		p, err = u.players.CreatePlayer(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetPlayer returns a player by ID
func (c *Coordinator) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	var p *models.Player
	err := c.atomically(ctx, "get player", func(ctx context.Context, u *unit) error {
		var err error
		p, err = u.players.GetPlayer(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePlayerStats merges new stats, rescores the player and, when the
// player is drafted, recomputes the owning team's total in the same unit of work
func (c *Coordinator) UpdatePlayerStats(ctx context.Context, id uuid.UUID, req player.UpdateStatsRequest) (*models.Player, error) {
	var p *models.Player
	err := c.atomically(ctx, "update player stats", func(ctx context.Context, u *unit) error {
		var err error
		if p, err = u.players.UpdateStats(ctx, id, req); err != nil {
			return err
		}
		if p.OwnerID == nil {
			return nil
		}

		team, err := u.teams.RefreshTotal(ctx, *p.OwnerID)
		if err != nil {
			return err
		}
		return u.enqueue(ctx, team.ID, models.RosterEventPlayerStatsUpdated, events.PlayerStatsUpdatedPayload{
			TeamID:             team.ID.String(),
			PlayerID:           p.ID.String(),
			Yards:              p.Stats.Yards,
			Touchdowns:         p.Stats.Touchdowns,
			Interceptions:      p.Stats.Interceptions,
			FantasyPoints:      p.FantasyPoints,
			TotalFantasyPoints: team.TotalFantasyPoints,
			UpdatedAt:          p.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePlayerProfile edits descriptive player fields. Points are unaffected
// so no team total changes.
func (c *Coordinator) UpdatePlayerProfile(ctx context.Context, id uuid.UUID, req player.UpdateProfileRequest) (*models.Player, error) {
	var p *models.Player
	err := c.atomically(ctx, "update player profile", func(ctx context.Context, u *unit) error {
		var err error
		p, err = u.players.UpdateProfile(ctx, id, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePlayer removes a player. A drafted player is first dropped from its
// team, whose total is recomputed without it.
func (c *Coordinator) DeletePlayer(ctx context.Context, id uuid.UUID) error {
	return c.atomically(ctx, "delete player", func(ctx context.Context, u *unit) error {
		p, err := u.players.GetPlayer(ctx, id)
		if err != nil {
			return err
		}

		if p.OwnerID != nil {
			team, err := u.teams.DropMember(ctx, *p.OwnerID, id)
			if err != nil {
				return err
			}
			err = u.enqueue(ctx, team.ID, models.RosterEventPlayerReleased, events.PlayerReleasedPayload{
				TeamID:             team.ID.String(),
				PlayerID:           id.String(),
				Reason:             events.ReleaseReasonPlayerDeleted,
				TotalFantasyPoints: team.TotalFantasyPoints,
				ReleasedAt:         u.now(),
			})
			if err != nil {
				return err
			}
		}

		return u.players.DeletePlayer(ctx, id)
	})
}
