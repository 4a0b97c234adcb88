package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RosterEventType names a committed roster mutation
type RosterEventType string

const (
	RosterEventPlayerDrafted      RosterEventType = "PlayerDrafted"
	RosterEventPlayerReleased     RosterEventType = "PlayerReleased"
	RosterEventTeamCreated        RosterEventType = "TeamCreated"
	RosterEventTeamUpdated        RosterEventType = "TeamUpdated"
	RosterEventTeamDeleted        RosterEventType = "TeamDeleted"
	RosterEventPlayerStatsUpdated RosterEventType = "PlayerStatsUpdated"
)

// RosterEvent is an outbox row written in the same unit of work as the mutation
type RosterEvent struct {
	ID        uuid.UUID       `json:"id"`
	TeamID    uuid.UUID       `json:"team_id"`
	EventType RosterEventType `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	SentAt    *time.Time      `json:"sent_at,omitempty"`
}
