package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mcdev12/sportsball/go/internal/users"
)

func (h *Handler) signUp(c *gin.Context) {
	var req users.SignUpRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	user, token, err := h.roster.SignUp(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, AuthResponse{User: user, Token: token})
}

func (h *Handler) signIn(c *gin.Context) {
	var req users.SignInRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	user, token, err := h.roster.SignIn(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, AuthResponse{User: user, Token: token})
}

func (h *Handler) getUser(c *gin.Context) {
	userID, err := pathID(c, "userId")
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.roster.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
