package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Wikid82/argus/internal/services"
)

// actorHeader identifies the operator performing a mutation. Authentication
// itself is an upstream concern; the engine only records who acted.
const actorHeader = "X-Actor"

func actorFrom(c *gin.Context) string {
	if actor := c.GetHeader(actorHeader); actor != "" {
		return actor
	}
	return "anonymous"
}

func siteIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid site ID"})
		return 0, false
	}
	return uint(id), true
}

// requireSite resolves the :id param and checks the site exists.
func requireSite(c *gin.Context, sites *services.SiteService) (uint, bool) {
	id, ok := siteIDParam(c)
	if !ok {
		return 0, false
	}
	if _, err := sites.GetByID(id); err != nil {
		respondError(c, err)
		return 0, false
	}
	return id, true
}

// respondError maps service errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err == services.ErrRecomputeConflict:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// timeRangeQuery parses optional from/to query params (RFC3339 or
// YYYY-MM-DD), defaulting to the trailing 30 days.
func timeRangeQuery(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if raw := c.Query("from"); raw != "" {
		t, err := parseTime(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return from, to, false
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := parseTime(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
			return from, to, false
		}
		to = t
	}
	return from, to, true
}

func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
