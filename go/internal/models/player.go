package models

import (
	"time"

	"github.com/google/uuid"
)

// Player represents a draftable player in the shared pool
type Player struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Gender         string     `json:"gender"`
	Position       string     `json:"position"`
	Species        string     `json:"species"`
	IsSupernatural bool       `json:"isSupernatural"`
	HeightCm       float64    `json:"heightCm"`
	WeightKg       float64    `json:"weightKg"`
	Stats          Stats      `json:"stats"`
	FantasyPoints  float64    `json:"fantasyPoints"`
	IsDrafted      bool       `json:"isDrafted"`
	OwnerID        *uuid.UUID `json:"owner,omitempty"` // owning team, nil while undrafted
	Version        int64      `json:"version"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Stats holds the raw game statistics fantasy points are derived from
type Stats struct {
	Yards         float64 `json:"yards"`
	Touchdowns    float64 `json:"touchdowns"`
	Interceptions float64 `json:"interceptions"`
}

// OwnedBy reports whether the player is currently drafted by teamID
func (p *Player) OwnedBy(teamID uuid.UUID) bool {
	return p.OwnerID != nil && *p.OwnerID == teamID
}
