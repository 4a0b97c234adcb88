package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Team is the single fantasy team a user assembles from drafted players
type Team struct {
	ID                 uuid.UUID   `json:"id"`
	UserID             uuid.UUID   `json:"userId"`
	TeamName           string      `json:"teamName"`
	Motto              string      `json:"motto"`
	Description        string      `json:"description"`
	PlayingStyle       string      `json:"playingStyle"`
	TotalFantasyPoints float64     `json:"totalFantasyPoints"`
	MemberIDs          []uuid.UUID `json:"memberIds"`
	Version            int64       `json:"version"`
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          time.Time   `json:"updatedAt"`

	// Members is populated on reads that resolve member ids into players
	Members []Player `json:"members,omitempty"`
}

// HasMember reports whether playerID is on the roster
func (t *Team) HasMember(playerID uuid.UUID) bool {
	return slices.Contains(t.MemberIDs, playerID)
}

// AddMember appends playerID unless it is already present.
// Returns false when the roster was left unchanged.
func (t *Team) AddMember(playerID uuid.UUID) bool {
	if t.HasMember(playerID) {
		return false
	}
	t.MemberIDs = append(t.MemberIDs, playerID)
	return true
}

// RemoveMember drops playerID from the roster, keeping the order of the rest.
// Returns false when playerID was not a member.
func (t *Team) RemoveMember(playerID uuid.UUID) bool {
	idx := slices.Index(t.MemberIDs, playerID)
	if idx < 0 {
		return false
	}
	t.MemberIDs = slices.Delete(t.MemberIDs, idx, idx+1)
	return true
}
