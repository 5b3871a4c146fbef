package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Wikid82/argus/internal/services"
)

type PolicyHandler struct {
	policies *services.PolicyService
	sites    *services.SiteService
}

func NewPolicyHandler(policies *services.PolicyService, sites *services.SiteService) *PolicyHandler {
	return &PolicyHandler{policies: policies, sites: sites}
}

// Get handles GET /api/v1/sites/:id/policy. Reading a policy for the first
// time materialises the balanced default.
func (h *PolicyHandler) Get(c *gin.Context) {
	siteID, ok := requireSite(c, h.sites)
	if !ok {
		return
	}

	policy, err := h.policies.Get(siteID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, policy)
}

// Update handles PUT /api/v1/sites/:id/policy
func (h *PolicyHandler) Update(c *gin.Context) {
	siteID, ok := requireSite(c, h.sites)
	if !ok {
		return
	}

	var req struct {
		Mode           string `json:"mode" binding:"required"`
		ThresholdScore *int   `json:"threshold_score" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	policy, err := h.policies.Update(siteID, req.Mode, *req.ThresholdScore, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, policy)
}
