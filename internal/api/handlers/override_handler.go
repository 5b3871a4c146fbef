package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Wikid82/argus/internal/services"
)

type OverrideHandler struct {
	overrides *services.OverrideService
	sites     *services.SiteService
}

func NewOverrideHandler(overrides *services.OverrideService, sites *services.SiteService) *OverrideHandler {
	return &OverrideHandler{overrides: overrides, sites: sites}
}

// List handles GET /api/v1/sites/:id/{allowlist,blocklist}
func (h *OverrideHandler) List(list string) gin.HandlerFunc {
	return func(c *gin.Context) {
		siteID, ok := requireSite(c, h.sites)
		if !ok {
			return
		}

		entries, err := h.overrides.List(siteID, list)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

// Add handles POST /api/v1/sites/:id/{allowlist,blocklist}
func (h *OverrideHandler) Add(list string) gin.HandlerFunc {
	return func(c *gin.Context) {
		siteID, ok := requireSite(c, h.sites)
		if !ok {
			return
		}

		var req struct {
			MatchType  string `json:"match_type" binding:"required"`
			MatchValue string `json:"match_value" binding:"required"`
			Note       string `json:"note"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		entry, err := h.overrides.Add(siteID, list, req.MatchType, req.MatchValue, req.Note, actorFrom(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, entry)
	}
}

// Remove handles DELETE /api/v1/sites/:id/{allowlist,blocklist}/:entryID
func (h *OverrideHandler) Remove(list string) gin.HandlerFunc {
	return func(c *gin.Context) {
		siteID, ok := requireSite(c, h.sites)
		if !ok {
			return
		}

		entryID, err := strconv.ParseUint(c.Param("entryID"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry ID"})
			return
		}

		if err := h.overrides.Remove(siteID, list, uint(entryID), actorFrom(c)); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "override entry removed"})
	}
}
