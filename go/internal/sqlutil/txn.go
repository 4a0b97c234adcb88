package sqlutil

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx so repositories
// can run inside or outside a transaction
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Beginner starts transactions; *pgxpool.Pool implements it
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Run executes fn inside a pgx.Tx.
// If fn returns an error the tx rolls back, else it commits.
func Run[T any](
	ctx context.Context,
	db Beginner,
	newQueries func(pgx.Tx) T,
	fn func(q T) error,
) error {
	tx, err := db.Begin(ctx) // BEGIN
	if err != nil {
		return err
	}
	q := newQueries(tx) // bind repositories to this tx
	if err := fn(q); err != nil {
		_ = tx.Rollback(ctx) // ROLLBACK
		return err
	}
	return tx.Commit(ctx) // COMMIT
}

// IsNoRows reports whether err is pgx's no-rows sentinel
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports whether err is a Postgres unique_violation (23505)
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsRetryable reports whether err is a serialization failure (40001) or a
// deadlock (40P01), after which the whole transaction may be replayed
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01")
}
