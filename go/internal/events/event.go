// Package events builds the roster events written to the outbox.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/sportsball/go/internal/models"
)

// New wraps payload in an unsent roster event for teamID
func New(teamID uuid.UUID, eventType models.RosterEventType, payload any, at time.Time) (*models.RosterEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return &models.RosterEvent{
		ID:        uuid.New(),
		TeamID:    teamID,
		EventType: eventType,
		Payload:   data,
		CreatedAt: at,
	}, nil
}

// Envelope is the message delivered to subscribers
type Envelope struct {
	EventID   string          `json:"eventId"`
	EventType string          `json:"eventType"`
	TeamID    string          `json:"teamId"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// Encode renders the subscriber envelope for e
func Encode(e models.RosterEvent) ([]byte, error) {
	data, err := json.Marshal(Envelope{
		EventID:   e.ID.String(),
		EventType: string(e.EventType),
		TeamID:    e.TeamID.String(),
		Timestamp: e.CreatedAt,
		Payload:   e.Payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event envelope: %w", err)
	}
	return data, nil
}
