package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mcdev12/sportsball/go/internal/fantasyteam"
	"github.com/rs/zerolog/log"
)

func (h *Handler) createTeam(c *gin.Context) {
	who, err := actor(c)
	if err != nil {
		respondError(c, err)
		return
	}
	userID, err := pathID(c, "userId")
	if err != nil {
		respondError(c, err)
		return
	}
	var req fantasyteam.CreateTeamRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	team, err := h.roster.CreateTeam(c.Request.Context(), who.ID, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, team)
}

func (h *Handler) getTeam(c *gin.Context) {
	ids, err := pathIDs(c, "userId", "teamId")
	if err != nil {
		respondError(c, err)
		return
	}

	team, err := h.roster.GetTeam(c.Request.Context(), ids[0], ids[1])
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

func (h *Handler) updateTeam(c *gin.Context) {
	who, err := actor(c)
	if err != nil {
		respondError(c, err)
		return
	}
	ids, err := pathIDs(c, "userId", "teamId")
	if err != nil {
		respondError(c, err)
		return
	}
	var req fantasyteam.UpdateTeamRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	team, err := h.roster.UpdateTeam(c.Request.Context(), who.ID, ids[0], ids[1], req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

func (h *Handler) draftPlayer(c *gin.Context) {
	who, err := actor(c)
	if err != nil {
		respondError(c, err)
		return
	}
	ids, err := pathIDs(c, "userId", "teamId", "playerId")
	if err != nil {
		respondError(c, err)
		return
	}

	team, err := h.roster.DraftPlayer(c.Request.Context(), who.ID, ids[0], ids[1], ids[2])
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

func (h *Handler) releasePlayer(c *gin.Context) {
	who, err := actor(c)
	if err != nil {
		respondError(c, err)
		return
	}
	ids, err := pathIDs(c, "userId", "teamId", "playerId")
	if err != nil {
		respondError(c, err)
		return
	}

	team, err := h.roster.ReleasePlayer(c.Request.Context(), who.ID, ids[0], ids[1], ids[2])
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

func (h *Handler) deleteTeam(c *gin.Context) {
	who, err := actor(c)
	if err != nil {
		respondError(c, err)
		return
	}
	ids, err := pathIDs(c, "userId", "teamId")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.roster.DeleteTeam(c.Request.Context(), who.ID, ids[0], ids[1]); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "team deleted"})
}

func (h *Handler) watchTeam(c *gin.Context) {
	who, err := actor(c)
	if err != nil {
		respondError(c, err)
		return
	}
	teamID, err := pathID(c, "teamId")
	if err != nil {
		respondError(c, err)
		return
	}

	// The upgrader has already written an HTTP error on failure
	if err := h.watcher.UpgradeConnection(c.Writer, c.Request, who.ID.String(), teamID); err != nil {
		log.Warn().
			Err(err).
			Str("team_id", teamID.String()).
			Msg("websocket upgrade failed")
	}
}
