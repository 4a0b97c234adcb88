// Package roster is the consistency coordinator for every request that
// touches users, teams or players. Each operation runs as one unit of work:
// authorize, load, apply through the team aggregator and player store,
// persist together with its roster event, and respond. Writes that lose an
// optimistic version check are retried as a whole.
package roster

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/sportsball/go/internal/apperrors"
	"github.com/mcdev12/sportsball/go/internal/events"
	"github.com/mcdev12/sportsball/go/internal/fantasyteam"
	"github.com/mcdev12/sportsball/go/internal/models"
	"github.com/mcdev12/sportsball/go/internal/player"
	"github.com/mcdev12/sportsball/go/internal/store"
	"github.com/mcdev12/sportsball/go/internal/users"
	"github.com/rs/zerolog/log"
)

// DefaultMaxAttempts bounds how often a unit of work is replayed after a stale write
const DefaultMaxAttempts = 3

type Config struct {
	MaxAttempts int `yaml:"max_attempts" env:"ROSTER_MAX_ATTEMPTS"`
}

// Coordinator sequences cross-entity mutations
type Coordinator struct {
	uow         store.UnitOfWork
	hasher      users.PasswordHasher
	tokens      users.TokenIssuer
	clock       clockwork.Clock
	maxAttempts int
}

// NewCoordinator creates a Coordinator. A non-positive MaxAttempts uses DefaultMaxAttempts.
func NewCoordinator(uow store.UnitOfWork, hasher users.PasswordHasher, tokens users.TokenIssuer, clock clockwork.Clock, cfg Config) *Coordinator {
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	return &Coordinator{
		uow:         uow,
		hasher:      hasher,
		tokens:      tokens,
		clock:       clock,
		maxAttempts: attempts,
	}
}

// unit is the set of apps bound to one unit of work
type unit struct {
	players *player.App
	teams   *fantasyteam.App
	users   *users.App
	userDB  store.UserRepository
	outbox  store.OutboxRepository
	now     func() time.Time
}

func (c *Coordinator) bind(r store.Repos) *unit {
	players := player.NewApp(r.Players, c.clock)
	teams := fantasyteam.NewApp(r.Teams, players, c.clock)
	return &unit{
		players: players,
		teams:   teams,
		users:   users.NewApp(r.Users, teams, c.hasher, c.tokens, c.clock),
		userDB:  r.Users,
		outbox:  r.Outbox,
		now:     func() time.Time { return c.clock.Now().UTC() },
	}
}

// atomically runs fn in a unit of work, replaying it while it fails with a
// stale write. fn must assign its results on every attempt.
func (c *Coordinator) atomically(ctx context.Context, op string, fn func(ctx context.Context, u *unit) error) error {
	for attempt := 1; ; attempt++ {
		err := c.uow.Atomically(ctx, func(ctx context.Context, r store.Repos) error {
			return fn(ctx, c.bind(r))
		})
		if !errors.Is(err, apperrors.ErrStale) {
			return err
		}
		if attempt >= c.maxAttempts {
			log.Warn().
				Str("op", op).
				Int("attempts", attempt).
				Msg("giving up after repeated stale writes")
			return apperrors.Conflict("%s: concurrent update did not settle after %d attempts", op, attempt)
		}
		log.Debug().
			Str("op", op).
			Int("attempt", attempt).
			Msg("stale write, retrying unit of work")
	}
}

// authorize requires the acting identity to be the user named in the request
func authorize(actorID, userID uuid.UUID) error {
	if actorID != userID {
		return apperrors.PermissionDenied("user %s cannot act for user %s", actorID, userID)
	}
	return nil
}

// enqueue writes a roster event in the current unit of work
func (u *unit) enqueue(ctx context.Context, teamID uuid.UUID, eventType models.RosterEventType, payload any) error {
	event, err := events.New(teamID, eventType, payload, u.now())
	if err != nil {
		return err
	}
	if err := u.outbox.InsertEvent(ctx, event); err != nil {
		return apperrors.Persistence("insert roster event", err)
	}
	return nil
}

// loadUser checks the target user exists
func (u *unit) loadUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := u.userDB.GetUser(ctx, userID); err != nil {
		return apperrors.Persistence("get user", err)
	}
	return nil
}
