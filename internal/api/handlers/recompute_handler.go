package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Wikid82/argus/internal/services"
)

type RecomputeHandler struct {
	recompute *services.RecomputeService
	sites     *services.SiteService
}

func NewRecomputeHandler(recompute *services.RecomputeService, sites *services.SiteService) *RecomputeHandler {
	return &RecomputeHandler{recompute: recompute, sites: sites}
}

// Start handles POST /api/v1/sites/:id/recompute. Accepted jobs come back
// 202 with status "queued"; execution is asynchronous.
func (h *RecomputeHandler) Start(c *gin.Context) {
	siteID, ok := requireSite(c, h.sites)
	if !ok {
		return
	}

	var req struct {
		StartDate string `json:"start_date" binding:"required"`
		EndDate   string `json:"end_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	from, err := parseTime(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
		return
	}
	to, err := parseTime(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
		return
	}

	job, err := h.recompute.Start(siteID, from, to, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"job_id": job.JobID, "status": job.Status})
}

// Status handles GET /api/v1/sites/:id/recompute/:jobID
func (h *RecomputeHandler) Status(c *gin.Context) {
	if _, ok := requireSite(c, h.sites); !ok {
		return
	}

	job, err := h.recompute.GetStatus(c.Param("jobID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// List handles GET /api/v1/sites/:id/recompute
func (h *RecomputeHandler) List(c *gin.Context) {
	siteID, ok := requireSite(c, h.sites)
	if !ok {
		return
	}

	jobs, err := h.recompute.ListForSite(siteID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, jobs)
}
