package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Wikid82/argus/internal/services"
)

type AuditHandler struct {
	audit *services.AuditService
	sites *services.SiteService
}

func NewAuditHandler(audit *services.AuditService, sites *services.SiteService) *AuditHandler {
	return &AuditHandler{audit: audit, sites: sites}
}

// List handles GET /api/v1/sites/:id/audit?cursor=&limit= with newest-first
// keyset pagination.
func (h *AuditHandler) List(c *gin.Context) {
	siteID, ok := requireSite(c, h.sites)
	if !ok {
		return
	}

	cursor := uint(0)
	if raw := c.Query("cursor"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cursor"})
			return
		}
		cursor = uint(v)
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = v
	}

	records, nextCursor, err := h.audit.List(siteID, cursor, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records, "next_cursor": nextCursor})
}
