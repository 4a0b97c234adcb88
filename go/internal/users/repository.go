package users

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mcdev12/sportsball/go/internal/apperrors"
	"github.com/mcdev12/sportsball/go/internal/models"
	"github.com/mcdev12/sportsball/go/internal/sqlutil"
)

const userColumns = `id, username, password_hash, profile_picture, created_at`

// Repository implements user data access operations
type Repository struct {
	db sqlutil.DBTX
}

// NewRepository creates a new users repository
func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user
func (r *Repository) CreateUser(ctx context.Context, u *models.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Username, u.PasswordHash, u.ProfilePicture, u.CreatedAt,
	)
	if err != nil {
		if sqlutil.IsUniqueViolation(err) {
			return apperrors.Conflict("username %q already taken", u.Username)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID
func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if sqlutil.IsNoRows(err) {
			return nil, apperrors.NotFound("user %s", id)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		if sqlutil.IsNoRows(err) {
			return nil, apperrors.NotFound("user %q", username)
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.ProfilePicture, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
