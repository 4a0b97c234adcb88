package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/sportsball/go/internal/apperrors"
	"github.com/mcdev12/sportsball/go/internal/models"
	"github.com/rs/zerolog/log"
)

const minPasswordLength = 6

// maxPasswordLength is the most bytes bcrypt accepts
const maxPasswordLength = 72

// UsersRepository defines what the app layer needs from the repository
type UsersRepository interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// TeamLookup resolves the team a user owns. *fantasyteam.App satisfies it.
type TeamLookup interface {
	GetTeamByUser(ctx context.Context, userID uuid.UUID) (*models.Team, error)
	PopulateMembers(ctx context.Context, team *models.Team) error
}

// PasswordHasher hashes and checks passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Matches(hash, password string) (bool, error)
}

// TokenIssuer issues the bearer token returned on sign up and sign in
type TokenIssuer interface {
	Issue(id uuid.UUID, username string) (string, error)
}

// App handles users business logic
type App struct {
	repo   UsersRepository
	teams  TeamLookup
	hasher PasswordHasher
	tokens TokenIssuer
	clock  clockwork.Clock
}

// NewApp creates a new users App
func NewApp(repo UsersRepository, teams TeamLookup, hasher PasswordHasher, tokens TokenIssuer, clock clockwork.Clock) *App {
	return &App{
		repo:   repo,
		teams:  teams,
		hasher: hasher,
		tokens: tokens,
		clock:  clock,
	}
}

// SignUp registers a user and signs them in
func (a *App) SignUp(ctx context.Context, req SignUpRequest) (*models.User, string, error) {
	if err := validateSignUpRequest(req); err != nil {
		return nil, "", err
	}

	_, err := a.repo.GetUserByUsername(ctx, req.Username)
	switch {
	case err == nil:
		return nil, "", usernameTaken(req.Username)
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, "", apperrors.Persistence("get user by username", err)
	}

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		ID:             uuid.New(),
		Username:       req.Username,
		PasswordHash:   hash,
		ProfilePicture: req.ProfilePicture,
		CreatedAt:      a.clock.Now().UTC(),
	}
	if err := a.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, "", usernameTaken(req.Username)
		}
		return nil, "", apperrors.Persistence("create user", err)
	}

	token, err := a.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}

	log.Info().
		Str("user_id", user.ID.String()).
		Str("username", user.Username).
		Msg("signed up user")
	return user, token, nil
}

// SignIn checks the credentials and returns a fresh token
func (a *App) SignIn(ctx context.Context, req SignInRequest) (*models.User, string, error) {
	if req.Username == "" || req.Password == "" {
		return nil, "", apperrors.Validation("username and password are required")
	}

	user, err := a.repo.GetUserByUsername(ctx, req.Username)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, "", invalidCredentials()
	}
	if err != nil {
		return nil, "", apperrors.Persistence("get user by username", err)
	}

	if len(req.Password) > maxPasswordLength {
		return nil, "", invalidCredentials()
	}
	ok, err := a.hasher.Matches(user.PasswordHash, req.Password)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", invalidCredentials()
	}

	token, err := a.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetUser retrieves a user by ID with their team and its members populated
func (a *App) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return nil, apperrors.Persistence("get user", err)
	}

	team, err := a.teams.GetTeamByUser(ctx, id)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return user, nil
	case err != nil:
		return nil, err
	}
	if err := a.teams.PopulateMembers(ctx, team); err != nil {
		return nil, err
	}
	user.Team = team
	return user, nil
}

// usernameTaken is a conflict reported to clients as malformed input
func usernameTaken(username string) error {
	return fmt.Errorf("%w: %w", apperrors.ErrValidation, apperrors.Conflict("username %q already taken", username))
}

func invalidCredentials() error {
	return fmt.Errorf("%w: invalid username or password", apperrors.ErrUnauthenticated)
}

func validateSignUpRequest(req SignUpRequest) error {
	if req.Username == "" {
		return apperrors.Validation("username is required")
	}
	if len(req.Password) < minPasswordLength {
		return apperrors.Validation("password must be at least %d characters", minPasswordLength)
	}
	if len(req.Password) > maxPasswordLength {
		return apperrors.Validation("password must be at most %d bytes", maxPasswordLength)
	}
	return nil
}
