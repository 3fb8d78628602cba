package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vfuster66/Batmodule-dev-sub002/internal/session"
)

// Logout destroys the session; the manager deletes the store entry and
// clears the cookie once the request unwinds. Idempotent.
func (h *Handler) Logout(c *gin.Context) {
	if sess := session.FromContext(c); sess != nil {
		sess.Destroy()
	}

	c.Status(http.StatusNoContent)
}
