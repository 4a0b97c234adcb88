package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mcdev12/sportsball/go/internal/apperrors"
	"github.com/mcdev12/sportsball/go/internal/auth"
	"github.com/rs/zerolog/log"
)

const identityKey = "auth_identity"

// authenticate requires a valid bearer token and stores the identity in the
// gin context. With allowQuery the token may also come from ?token=.
func authenticate(tokens TokenParser, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" && allowQuery {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "authorization header is required"})
			return
		}

		identity, err := tokens.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid or expired token"})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// requireSelf rejects a caller acting on another user's path before any
// other parameter or the body is read.
func requireSelf() gin.HandlerFunc {
	return func(c *gin.Context) {
		who, err := actor(c)
		if err != nil {
			respondError(c, err)
			return
		}
		userID, err := uuid.Parse(c.Param("userId"))
		if err != nil || userID != who.ID {
			respondError(c, apperrors.PermissionDenied("user %s cannot act for user %s", who.ID, c.Param("userId")))
			return
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// actor returns the authenticated identity. Routes without authenticate never call it.
func actor(c *gin.Context) (auth.Identity, error) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, apperrors.ErrUnauthenticated
	}
	identity, ok := v.(auth.Identity)
	if !ok || identity.ID == uuid.Nil {
		return auth.Identity{}, apperrors.ErrUnauthenticated
	}
	return identity, nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
