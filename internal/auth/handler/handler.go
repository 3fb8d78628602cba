package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vfuster66/Batmodule-dev-sub002/internal/auth"
	"github.com/vfuster66/Batmodule-dev-sub002/internal/auth/credentials"
	"github.com/vfuster66/Batmodule-dev-sub002/internal/csrf"
	"github.com/vfuster66/Batmodule-dev-sub002/internal/session"
)

type Handler struct {
	credentialService *credentials.Service
	tokenService      *auth.TokenService
	csrfService       *csrf.Service
}

func NewHandler(
	credentialService *credentials.Service,
	tokenService *auth.TokenService,
	csrfService *csrf.Service,
) *Handler {
	return &Handler{
		credentialService: credentialService,
		tokenService:      tokenService,
		csrfService:       csrfService,
	}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/csrf-token", h.CSRFToken)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	authGroup.POST("/logout", h.Logout)
	authGroup.GET("/me", session.RequireSession(), h.Me)
}

// CSRFToken hands the SPA a fresh token for its next state-changing
// request. Without a resolvable identity there is nothing to bind the
// token to, so the caller is asked to log in first.
func (h *Handler) CSRFToken(c *gin.Context) {
	if token := csrf.TokenFromContext(c); token != "" {
		c.JSON(http.StatusOK, gin.H{"csrfToken": token})
		return
	}

	identity, ok := csrf.ResolveIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Session requise",
			"message": "Vous devez être connecté pour accéder à cette ressource",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"csrfToken": h.csrfService.Generate(identity)})
}

func (h *Handler) Me(c *gin.Context) {
	sess := session.FromContext(c)

	user, err := h.credentialService.GetUser(c.Request.Context(), sess.UserID)
	if err != nil || user == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          user.ID,
		"email":       user.Email,
		"companyName": user.CompanyName,
		"siret":       user.Siret,
	})
}
