package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Wikid82/argus/internal/services"
)

type ReportHandler struct {
	reports *services.ReportService
	sites   *services.SiteService
}

func NewReportHandler(reports *services.ReportService, sites *services.SiteService) *ReportHandler {
	return &ReportHandler{reports: reports, sites: sites}
}

// Summary handles GET /api/v1/sites/:id/bot-summary?from=&to=
func (h *ReportHandler) Summary(c *gin.Context) {
	siteID, ok := requireSite(c, h.sites)
	if !ok {
		return
	}
	from, to, ok := timeRangeQuery(c)
	if !ok {
		return
	}

	summary, err := h.reports.Summary(siteID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Report handles GET /api/v1/sites/:id/bot-report?from=&to=
func (h *ReportHandler) Report(c *gin.Context) {
	siteID, ok := requireSite(c, h.sites)
	if !ok {
		return
	}
	from, to, ok := timeRangeQuery(c)
	if !ok {
		return
	}

	buckets, err := h.reports.Report(siteID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": buckets})
}
