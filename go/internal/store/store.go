// Package store declares the persistence contracts the roster subsystem runs on.
// Every read and write happens inside a unit of work so the coordinator can
// commit the player, team, user and outbox writes of one request together.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/sportsball/go/internal/models"
)

// PlayerRepository persists players. UpdatePlayer is a compare-and-set on
// Version and bumps it on success; a mismatch returns apperrors.ErrStale.
type PlayerRepository interface {
	CreatePlayer(ctx context.Context, p *models.Player) error
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	GetPlayers(ctx context.Context, ids []uuid.UUID) ([]models.Player, error)
	UpdatePlayer(ctx context.Context, p *models.Player) error
	DeletePlayer(ctx context.Context, id uuid.UUID) error
}

// TeamRepository persists teams. A user owns at most one team; CreateTeam
// returns apperrors.ErrConflict for a second one.
type TeamRepository interface {
	CreateTeam(ctx context.Context, t *models.Team) error
	GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
	GetTeamByUser(ctx context.Context, userID uuid.UUID) (*models.Team, error)
	UpdateTeam(ctx context.Context, t *models.Team) error
	DeleteTeam(ctx context.Context, id uuid.UUID) error
}

// UserRepository persists users. Usernames are unique.
type UserRepository interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// OutboxRepository persists roster events until a publisher has sent them
type OutboxRepository interface {
	InsertEvent(ctx context.Context, e *models.RosterEvent) error
	FetchUnsent(ctx context.Context, limit int) ([]models.RosterEvent, error)
	MarkSent(ctx context.Context, ids []uuid.UUID, sentAt time.Time) error
}

// Repos is the set of repositories bound to one unit of work
type Repos struct {
	Users   UserRepository
	Teams   TeamRepository
	Players PlayerRepository
	Outbox  OutboxRepository
}

// UnitOfWork runs fn against repositories whose writes commit together.
// If fn returns an error none of its writes are kept.
type UnitOfWork interface {
	Atomically(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}
