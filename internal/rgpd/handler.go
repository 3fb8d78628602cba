// Package rgpd implements the personal-data export required by the
// French data-protection rules (droit à la portabilité).
package rgpd

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vfuster66/Batmodule-dev-sub002/internal/auth/credentials"
	"github.com/vfuster66/Batmodule-dev-sub002/internal/clients"
	"github.com/vfuster66/Batmodule-dev-sub002/internal/session"
)

type Handler struct {
	users   *credentials.Service
	clients *clients.Repository
}

func NewHandler(users *credentials.Service, clientsRepo *clients.Repository) *Handler {
	return &Handler{users: users, clients: clientsRepo}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// CSRF-exempt by policy: triggered by a plain form post.
	api.POST("/rgpd/export", session.RequireSession(), h.Export)
}

// Export bundles everything the service holds about the logged-in user.
func (h *Handler) Export(c *gin.Context) {
	userID := session.FromContext(c).UserID

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil || user == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	clientList, err := h.clients.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load clients"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"exportedAt": time.Now().UTC(),
		"user": gin.H{
			"id":          user.ID,
			"email":       user.Email,
			"companyName": user.CompanyName,
			"siret":       user.Siret,
			"createdAt":   user.CreatedAt,
		},
		"clients": clientList,
	})
}
