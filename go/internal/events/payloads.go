package events

import (
	"time"
)

// Event payload types shared between the roster coordinator, the outbox and the gateway

// TeamCreatedPayload is the payload for a TeamCreated event
type TeamCreatedPayload struct {
	TeamID    string    `json:"team_id"`
	UserID    string    `json:"user_id"`
	TeamName  string    `json:"team_name"`
	CreatedAt time.Time `json:"created_at"`
}

// TeamUpdatedPayload is the payload for a TeamUpdated event
type TeamUpdatedPayload struct {
	TeamID       string    `json:"team_id"`
	TeamName     string    `json:"team_name"`
	Motto        string    `json:"motto"`
	Description  string    `json:"description"`
	PlayingStyle string    `json:"playing_style"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PlayerDraftedPayload is the payload for a PlayerDrafted event
type PlayerDraftedPayload struct {
	TeamID             string    `json:"team_id"`
	PlayerID           string    `json:"player_id"`
	PlayerName         string    `json:"player_name"`
	FantasyPoints      float64   `json:"fantasy_points"`
	TotalFantasyPoints float64   `json:"total_fantasy_points"`
	DraftedAt          time.Time `json:"drafted_at"`
}

// ReleaseReason says why a player left a team
type ReleaseReason string

const (
	ReleaseReasonReleased      ReleaseReason = "released"
	ReleaseReasonPlayerDeleted ReleaseReason = "player_deleted"
)

// PlayerReleasedPayload is the payload for a PlayerReleased event
type PlayerReleasedPayload struct {
	TeamID             string        `json:"team_id"`
	PlayerID           string        `json:"player_id"`
	Reason             ReleaseReason `json:"reason"`
	TotalFantasyPoints float64       `json:"total_fantasy_points"`
	ReleasedAt         time.Time     `json:"released_at"`
}

// TeamDeletedPayload is the payload for a TeamDeleted event
type TeamDeletedPayload struct {
	TeamID            string    `json:"team_id"`
	UserID            string    `json:"user_id"`
	ReleasedPlayerIDs []string  `json:"released_player_ids"`
	DeletedAt         time.Time `json:"deleted_at"`
}

// PlayerStatsUpdatedPayload is the payload for a PlayerStatsUpdated event
type PlayerStatsUpdatedPayload struct {
	TeamID             string    `json:"team_id"`
	PlayerID           string    `json:"player_id"`
	Yards              float64   `json:"yards"`
	Touchdowns         float64   `json:"touchdowns"`
	Interceptions      float64   `json:"interceptions"`
	FantasyPoints      float64   `json:"fantasy_points"`
	TotalFantasyPoints float64   `json:"total_fantasy_points"`
	UpdatedAt          time.Time `json:"updated_at"`
}
