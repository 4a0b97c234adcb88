package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mcdev12/sportsball/go/internal/apperrors"
	"github.com/mcdev12/sportsball/go/internal/models"
	"github.com/mcdev12/sportsball/go/internal/roster"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the body of a successful delete
type MessageResponse struct {
	Message string `json:"message"`
}

// AuthResponse is returned by sign up and sign in
type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func respondError(c *gin.Context, err error) {
	status, msg := roster.Outcome(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
}

// pathID parses a uuid path parameter
func pathID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperrors.Validation("%s must be a uuid", name)
	}
	return id, nil
}

// pathIDs parses several uuid path parameters in order
func pathIDs(c *gin.Context, names ...string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(names))
	for i, name := range names {
		id, err := pathID(c, name)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperrors.Validation("invalid request body: %v", err)
	}
	return nil
}
