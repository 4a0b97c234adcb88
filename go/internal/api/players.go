package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mcdev12/sportsball/go/internal/player"
)

func (h *Handler) createPlayer(c *gin.Context) {
	var req player.CreatePlayerRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	p, err := h.roster.CreatePlayer(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) getPlayer(c *gin.Context) {
	id, err := pathID(c, "playerId")
	if err != nil {
		respondError(c, err)
		return
	}

	p, err := h.roster.GetPlayer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) updatePlayerStats(c *gin.Context) {
	id, err := pathID(c, "playerId")
	if err != nil {
		respondError(c, err)
		return
	}
	var req player.UpdateStatsRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	p, err := h.roster.UpdatePlayerStats(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) updatePlayerProfile(c *gin.Context) {
	id, err := pathID(c, "playerId")
	if err != nil {
		respondError(c, err)
		return
	}
	var req player.UpdateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	p, err := h.roster.UpdatePlayerProfile(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) deletePlayer(c *gin.Context) {
	id, err := pathID(c, "playerId")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.roster.DeletePlayer(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "player deleted"})
}
