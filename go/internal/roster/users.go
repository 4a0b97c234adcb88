package roster

import (
	"context"

	"github.com/google/uuid"
	"github.com/mcdev12/sportsball/go/internal/models"
	"github.com/mcdev12/sportsball/go/internal/users"
)

// SignUp registers a user and returns them with a bearer token
func (c *Coordinator) SignUp(ctx context.Context, req users.SignUpRequest) (*models.User, string, error) {
	var (
		user  *models.User
		token string
	)
	err := c.atomically(ctx, "sign up", func(ctx context.Context, u *unit) error {
		var err error
		user, token, err = u.users.SignUp(ctx, req)
		return err
	})
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// SignIn checks credentials and returns a bearer token
func (c *Coordinator) SignIn(ctx context.Context, req users.SignInRequest) (*models.User, string, error) {
	var (
		user  *models.User
		token string
	)
	err := c.atomically(ctx, "sign in", func(ctx context.Context, u *unit) error {
		var err error
		user, token, err = u.users.SignIn(ctx, req)
		return err
	})
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetUser returns a user with their team populated
func (c *Coordinator) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user *models.User
	err := c.atomically(ctx, "get user", func(ctx context.Context, u *unit) error {
		var err error
		user, err = u.users.GetUser(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
