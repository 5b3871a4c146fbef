package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Wikid82/argus/internal/cache"
	"github.com/Wikid82/argus/internal/classifier"
	"github.com/Wikid82/argus/internal/engine"
	"github.com/Wikid82/argus/internal/models"
	"github.com/Wikid82/argus/internal/services"
)

// testEnv wires the full API surface against an in-memory DB, mirroring
// routes.Register without the scheduler or the metrics endpoint.
type testEnv struct {
	router    *gin.Engine
	db        *gorm.DB
	audit     *services.AuditService
	recompute *services.RecomputeService
	siteID    uint
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsnName := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_journal_mode=WAL&_busy_timeout=5000", dsnName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Site{},
		&models.BotPolicy{},
		&models.OverrideEntry{},
		&models.TrafficEvent{},
		&models.RecomputeJob{},
		&models.AuditRecord{},
	))

	generations := cache.NewGenerations()
	audit := services.NewAuditService(db)
	sites := services.NewSiteService(db)
	policies := services.NewPolicyService(db, audit, generations)
	overrides := services.NewOverrideService(db, audit, generations)
	eng := engine.New(classifier.NewHeuristicScorer(), overrides, policies, generations, engine.Options{
		FingerprintSalt: "test-salt",
		CacheShards:     1,
	})
	events := services.NewEventService(db)
	recompute := services.NewRecomputeService(db, eng, events, audit, 100)
	reports := services.NewReportService(db)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	siteHandler := NewSiteHandler(db)
	policyHandler := NewPolicyHandler(policies, sites)
	overrideHandler := NewOverrideHandler(overrides, sites)
	eventHandler := NewEventHandler(eng, events, sites)
	recomputeHandler := NewRecomputeHandler(recompute, sites)
	auditHandler := NewAuditHandler(audit, sites)
	reportHandler := NewReportHandler(reports, sites)

	api := router.Group("/api/v1")
	api.POST("/sites", siteHandler.Create)
	api.GET("/sites", siteHandler.List)
	api.GET("/sites/:id", siteHandler.Get)
	api.DELETE("/sites/:id", siteHandler.Delete)
	api.GET("/sites/:id/policy", policyHandler.Get)
	api.PUT("/sites/:id/policy", policyHandler.Update)
	api.GET("/sites/:id/allowlist", overrideHandler.List(models.OverrideListAllow))
	api.POST("/sites/:id/allowlist", overrideHandler.Add(models.OverrideListAllow))
	api.DELETE("/sites/:id/allowlist/:entryID", overrideHandler.Remove(models.OverrideListAllow))
	api.GET("/sites/:id/blocklist", overrideHandler.List(models.OverrideListBlock))
	api.POST("/sites/:id/blocklist", overrideHandler.Add(models.OverrideListBlock))
	api.DELETE("/sites/:id/blocklist/:entryID", overrideHandler.Remove(models.OverrideListBlock))
	api.POST("/sites/:id/events", eventHandler.Ingest)
	api.POST("/sites/:id/classify", eventHandler.Classify)
	api.POST("/sites/:id/recompute", recomputeHandler.Start)
	api.GET("/sites/:id/recompute", recomputeHandler.List)
	api.GET("/sites/:id/recompute/:jobID", recomputeHandler.Status)
	api.GET("/sites/:id/audit", auditHandler.List)
	api.GET("/sites/:id/bot-summary", reportHandler.Summary)
	api.GET("/sites/:id/bot-report", reportHandler.Report)

	site := &models.Site{Name: "example", Domain: "example.com"}
	require.NoError(t, sites.Create(site))

	return &testEnv{
		router:    router,
		db:        db,
		audit:     audit,
		recompute: recompute,
		siteID:    site.ID,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor", "ops")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func (e *testEnv) sitePath(suffix string) string {
	return fmt.Sprintf("/api/v1/sites/%d%s", e.siteID, suffix)
}
