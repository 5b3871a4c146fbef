package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Wikid82/argus/internal/classifier"
	"github.com/Wikid82/argus/internal/engine"
	"github.com/Wikid82/argus/internal/services"
)

type EventHandler struct {
	engine *engine.Engine
	events *services.EventService
	sites  *services.SiteService
}

func NewEventHandler(eng *engine.Engine, events *services.EventService, sites *services.SiteService) *EventHandler {
	return &EventHandler{engine: eng, events: events, sites: sites}
}

type signalsRequest struct {
	IP             string  `json:"ip"`
	UserAgent      string  `json:"user_agent"`
	AcceptLanguage string  `json:"accept_language"`
	RequestRate    float64 `json:"request_rate"`
	Timestamp      string  `json:"timestamp"`
}

func (r *signalsRequest) signals() classifier.Signals {
	sig := classifier.Signals{
		IP:             r.IP,
		UserAgent:      r.UserAgent,
		AcceptLanguage: r.AcceptLanguage,
		RequestRate:    r.RequestRate,
	}
	if r.Timestamp != "" {
		if t, err := time.Parse(time.RFC3339, r.Timestamp); err == nil {
			sig.Timestamp = t
		}
	}
	return sig
}

// Ingest handles POST /api/v1/sites/:id/events: classify the event, persist
// it tagged, and hand the tags back to the caller.
func (h *EventHandler) Ingest(c *gin.Context) {
	siteID, ok := requireSite(c, h.sites)
	if !ok {
		return
	}

	var req signalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	decision := h.engine.Classify(siteID, req.signals())
	event, err := h.events.Record(siteID, req.signals(), decision)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"event_id":         event.ID,
		"is_bot":           decision.IsBot,
		"score":            decision.Score,
		"reason_codes":     decision.ReasonCodes,
		"matched_override": decision.MatchedOverride,
	})
}

// Classify handles POST /api/v1/sites/:id/classify: a dry-run classification
// that stores nothing.
func (h *EventHandler) Classify(c *gin.Context) {
	siteID, ok := requireSite(c, h.sites)
	if !ok {
		return
	}

	var req signalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	decision := h.engine.Classify(siteID, req.signals())
	c.JSON(http.StatusOK, decision)
}
