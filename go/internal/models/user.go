package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account. PasswordHash never leaves the service.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	PasswordHash   string    `json:"-"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`

	Team *Team `json:"team,omitempty"`
}
