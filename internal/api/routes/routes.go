package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/Wikid82/argus/internal/api/handlers"
	"github.com/Wikid82/argus/internal/api/middleware"
	"github.com/Wikid82/argus/internal/cache"
	"github.com/Wikid82/argus/internal/classifier"
	"github.com/Wikid82/argus/internal/config"
	"github.com/Wikid82/argus/internal/engine"
	"github.com/Wikid82/argus/internal/logger"
	"github.com/Wikid82/argus/internal/metrics"
	"github.com/Wikid82/argus/internal/models"
	"github.com/Wikid82/argus/internal/services"
)

// Register performs migrations, wires the engine and services, starts the
// background scheduler and attaches all API routes.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) error {
	if err := db.AutoMigrate(
		&models.Site{},
		&models.BotPolicy{},
		&models.OverrideEntry{},
		&models.TrafficEvent{},
		&models.RecomputeJob{},
		&models.AuditRecord{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	generations := cache.NewGenerations()
	audit := services.NewAuditService(db)
	sites := services.NewSiteService(db)
	policies := services.NewPolicyService(db, audit, generations)
	overrides := services.NewOverrideService(db, audit, generations)

	eng := engine.New(classifier.NewHeuristicScorer(), overrides, policies, generations, engine.Options{
		FingerprintSalt:   cfg.FingerprintSalt,
		DecisionCacheSize: cfg.DecisionCacheSize,
		OverrideCacheSize: cfg.OverrideCacheSize,
		CacheShards:       cfg.CacheShards,
		DecisionTTL:       cfg.DecisionTTL,
		OverrideTTL:       cfg.OverrideTTL,
	})

	events := services.NewEventService(db)
	recompute := services.NewRecomputeService(db, eng, events, audit, cfg.RecomputeBatchSize)
	reports := services.NewReportService(db)

	// Jobs interrupted by a previous shutdown have no executor anymore.
	if err := recompute.FailOrphaned(); err != nil {
		logger.Log().WithError(err).Warn("failed to reap orphaned recompute jobs at startup")
	}
	services.StartScheduler(eng, recompute)

	router.GET("/api/v1/health", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")
	api.Use(middleware.RequestID(), middleware.RequestLogger(), middleware.Recovery(cfg.Environment == "development"))

	siteHandler := handlers.NewSiteHandler(db)
	policyHandler := handlers.NewPolicyHandler(policies, sites)
	overrideHandler := handlers.NewOverrideHandler(overrides, sites)
	eventHandler := handlers.NewEventHandler(eng, events, sites)
	recomputeHandler := handlers.NewRecomputeHandler(recompute, sites)
	auditHandler := handlers.NewAuditHandler(audit, sites)
	reportHandler := handlers.NewReportHandler(reports, sites)

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

	return nil
}
