package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vfuster66/Batmodule-dev-sub002/internal/auth/credentials"
	"github.com/vfuster66/Batmodule-dev-sub002/internal/session"
)

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"companyName"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	userID, err := h.credentialService.Register(
		c.Request.Context(),
		req.Email,
		req.Password,
		req.CompanyName,
	)

	if err != nil {
		switch err {
		case credentials.ErrAlreadyRegistered:
			c.JSON(http.StatusConflict, gin.H{"error": "account already exists"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	if sess := session.FromContext(c); sess != nil {
		sess.SetUserID(userID)
	}

	c.JSON(http.StatusCreated, gin.H{"status": "registered"})
}
