// Package api exposes the roster coordinator over HTTP with gin.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mcdev12/sportsball/go/internal/auth"
	"github.com/mcdev12/sportsball/go/internal/fantasyteam"
	"github.com/mcdev12/sportsball/go/internal/models"
	"github.com/mcdev12/sportsball/go/internal/player"
	"github.com/mcdev12/sportsball/go/internal/users"
)

// Roster is the set of coordinator operations the handlers call.
// *roster.Coordinator satisfies it.
type Roster interface {
	SignUp(ctx context.Context, req users.SignUpRequest) (*models.User, string, error)
	SignIn(ctx context.Context, req users.SignInRequest) (*models.User, string, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)

	CreatePlayer(ctx context.Context, req player.CreatePlayerRequest) (*models.Player, error)
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	UpdatePlayerStats(ctx context.Context, id uuid.UUID, req player.UpdateStatsRequest) (*models.Player, error)
	UpdatePlayerProfile(ctx context.Context, id uuid.UUID, req player.UpdateProfileRequest) (*models.Player, error)
	DeletePlayer(ctx context.Context, id uuid.UUID) error

	CreateTeam(ctx context.Context, actorID, userID uuid.UUID, req fantasyteam.CreateTeamRequest) (*models.Team, error)
	GetTeam(ctx context.Context, userID, teamID uuid.UUID) (*models.Team, error)
	UpdateTeam(ctx context.Context, actorID, userID, teamID uuid.UUID, req fantasyteam.UpdateTeamRequest) (*models.Team, error)
	DraftPlayer(ctx context.Context, actorID, userID, teamID, playerID uuid.UUID) (*models.Team, error)
	ReleasePlayer(ctx context.Context, actorID, userID, teamID, playerID uuid.UUID) (*models.Team, error)
	DeleteTeam(ctx context.Context, actorID, userID, teamID uuid.UUID) error
}

// TokenParser turns a bearer token into the acting identity
type TokenParser interface {
	Parse(token string) (auth.Identity, error)
}

// TeamWatcher upgrades a request into a websocket that receives a team's roster events
type TeamWatcher interface {
	UpgradeConnection(w http.ResponseWriter, r *http.Request, userID string, teamID uuid.UUID) error
}

// Handler serves the REST surface
type Handler struct {
	roster  Roster
	tokens  TokenParser
	watcher TeamWatcher
}

// NewHandler creates a Handler. watcher may be nil, in which case the
// websocket route is not registered.
func NewHandler(roster Roster, tokens TokenParser, watcher TeamWatcher) *Handler {
	return &Handler{
		roster:  roster,
		tokens:  tokens,
		watcher: watcher,
	}
}

// NewRouter builds the gin engine with every route registered
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	h.Register(r)
	return r
}

// Register adds the routes to r
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	r.POST("/users/signup", h.signUp)
	r.POST("/users/signin", h.signIn)
	r.GET("/players/:playerId", h.getPlayer)

	authed := r.Group("/")
	authed.Use(authenticate(h.tokens, false))
	{
		authed.GET("/users/:userId", h.getUser)

		authed.POST("/players", h.createPlayer)
		authed.PUT("/players/:playerId/stats", h.updatePlayerStats)
		authed.PUT("/players/:playerId", h.updatePlayerProfile)
		authed.DELETE("/players/:playerId", h.deletePlayer)

		authed.GET("/users/:userId/teams/:teamId", h.getTeam)

		owner := authed.Group("/users/:userId/teams", requireSelf())
		owner.POST("", h.createTeam)
		owner.PUT("/:teamId", h.updateTeam)
		owner.DELETE("/:teamId", h.deleteTeam)
		owner.POST("/:teamId/players/:playerId", h.draftPlayer)
		owner.DELETE("/:teamId/players/:playerId", h.releasePlayer)
	}

	if h.watcher != nil {
		// Browsers cannot set headers on a websocket handshake
		r.GET("/ws/teams/:teamId", authenticate(h.tokens, true), h.watchTeam)
	}
}
