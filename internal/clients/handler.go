package clients

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vfuster66/Batmodule-dev-sub002/internal/session"
	"github.com/vfuster66/Batmodule-dev-sub002/internal/validate"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// RegisterRoutes mounts the client CRUD under the given group. The group
// is expected to already carry the session, CSRF and RequireSession
// middleware.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/clients", h.List)
	api.POST("/clients", h.Create)
	api.GET("/clients/:id", h.Get)
	api.PUT("/clients/:id", h.Update)
	api.DELETE("/clients/:id", h.Delete)
}

type clientRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
	Siret      string `json:"siret"`
}

func (req clientRequest) validate() string {
	if req.Name == "" {
		return "le nom du client est requis"
	}
	if req.Siret != "" && !validate.Siret(req.Siret) {
		return "le numéro SIRET est invalide"
	}
	return ""
}

func (h *Handler) List(c *gin.Context) {
	userID := session.FromContext(c).UserID

	list, err := h.repo.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list clients"})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *Handler) Get(c *gin.Context) {
	userID := session.FromContext(c).UserID

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return
	}

	client, err := h.repo.Get(c.Request.Context(), userID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load client"})
		return
	}
	if client == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "client introuvable"})
		return
	}

	c.JSON(http.StatusOK, client)
}

func (h *Handler) Create(c *gin.Context) {
	userID := session.FromContext(c).UserID

	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	client := Client{
		UserID:     userID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		PostalCode: req.PostalCode,
		City:       req.City,
		Siret:      req.Siret,
	}

	if err := h.repo.Create(c.Request.Context(), &client); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create client"})
		return
	}

	c.JSON(http.StatusCreated, client)
}

func (h *Handler) Update(c *gin.Context) {
	userID := session.FromContext(c).UserID

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return
	}

	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	client := Client{
		ID:         id,
		UserID:     userID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		PostalCode: req.PostalCode,
		City:       req.City,
		Siret:      req.Siret,
	}

	found, err := h.repo.Update(c.Request.Context(), &client)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update client"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "client introuvable"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Delete(c *gin.Context) {
	userID := session.FromContext(c).UserID

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return
	}

	found, err := h.repo.Delete(c.Request.Context(), userID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete client"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "client introuvable"})
		return
	}

	c.Status(http.StatusNoContent)
}
