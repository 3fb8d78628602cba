package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vfuster66/Batmodule-dev-sub002/internal/session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	userID, err := h.credentialService.Authenticate(
		c.Request.Context(),
		req.Email,
		req.Password,
	)

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	sess := session.FromContext(c)
	if sess == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return
	}
	sess.SetUserID(userID)

	// API clients that cannot carry the cookie use this instead.
	token, err := h.tokenService.Issue(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "logged_in",
		"token":  token,
	})
}
