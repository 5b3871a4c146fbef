package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Wikid82/argus/internal/models"
	"github.com/Wikid82/argus/internal/services"
)

type SiteHandler struct {
	service *services.SiteService
}

func NewSiteHandler(db *gorm.DB) *SiteHandler {
	return &SiteHandler{service: services.NewSiteService(db)}
}

// Create handles POST /api/v1/sites
func (h *SiteHandler) Create(c *gin.Context) {
	var site models.Site
	if err := c.ShouldBindJSON(&site); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Create(&site); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, site)
}

// List handles GET /api/v1/sites
func (h *SiteHandler) List(c *gin.Context) {
	sites, err := h.service.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sites)
}

// Get handles GET /api/v1/sites/:id
func (h *SiteHandler) Get(c *gin.Context) {
	id, ok := siteIDParam(c)
	if !ok {
		return
	}

	site, err := h.service.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, site)
}

// Delete handles DELETE /api/v1/sites/:id
func (h *SiteHandler) Delete(c *gin.Context) {
	id, ok := siteIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "site deleted"})
}
