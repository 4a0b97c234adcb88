// Package postgres implements the store contracts on a pgx connection pool.
// A unit of work is one database transaction.
package postgres

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/sportsball/go/internal/apperrors"
	"github.com/mcdev12/sportsball/go/internal/fantasyteam"
	"github.com/mcdev12/sportsball/go/internal/outbox"
	"github.com/mcdev12/sportsball/go/internal/player"
	"github.com/mcdev12/sportsball/go/internal/sqlutil"
	"github.com/mcdev12/sportsball/go/internal/store"
	"github.com/mcdev12/sportsball/go/internal/store/postgres/migrations"
	"github.com/mcdev12/sportsball/go/internal/users"
	"github.com/rs/zerolog/log"
)

// Store runs units of work against Postgres
type Store struct {
	pool *pgxpool.Pool
}

var _ store.UnitOfWork = (*Store)(nil)

// NewStore connects to dsn and checks the connection
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// Migrate applies the embedded schema files in name order. Every statement
// is idempotent so it runs on each start.
func (s *Store) Migrate(ctx context.Context) error {
	files, err := fs.Glob(migrations.FS, "*.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := fs.ReadFile(migrations.FS, file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}
		if _, err := s.pool.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
		log.Info().Str("migration", file).Msg("applied migration")
	}
	return nil
}

// Atomically runs fn in a transaction. Serialization failures and deadlocks
// are reported as stale writes so the caller replays the unit of work.
func (s *Store) Atomically(ctx context.Context, fn func(ctx context.Context, r store.Repos) error) error {
	err := sqlutil.Run(ctx, s.pool, bind, func(r store.Repos) error {
		return fn(ctx, r)
	})
	if err == nil {
		return nil
	}
	if sqlutil.IsRetryable(err) {
		return fmt.Errorf("%w: %v", apperrors.ErrStale, err)
	}
	return apperrors.Persistence("transaction", err)
}

func bind(tx pgx.Tx) store.Repos {
	return store.Repos{
		Users:   users.NewRepository(tx),
		Teams:   fantasyteam.NewRepository(tx),
		Players: player.NewRepository(tx),
		Outbox:  outbox.NewRepository(tx),
	}
}
