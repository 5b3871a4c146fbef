package services

import (
	"github.com/robfig/cron/v3"

	"github.com/Wikid82/argus/internal/engine"
	"github.com/Wikid82/argus/internal/logger"
)

// Scheduler runs the periodic housekeeping the engine needs: cache expiry
// sweeps and reaping recompute jobs whose executor died.
type Scheduler struct {
	cron *cron.Cron
}

// StartScheduler wires and starts the cron jobs.
func StartScheduler(eng *engine.Engine, recompute *RecomputeService) *Scheduler {
	c := cron.New()

	c.AddFunc("@every 5m", func() {
		if removed := eng.SweepCaches(); removed > 0 {
			logger.WithFields(map[string]interface{}{"removed": removed}).Debug("swept expired cache entries")
		}
	})
	c.AddFunc("@every 10m", func() {
		if err := recompute.FailOrphaned(); err != nil {
			logger.Log().WithError(err).Warn("failed to reap orphaned recompute jobs")
		}
	})

	c.Start()
	return &Scheduler{cron: c}
}

// Stop halts the scheduler; running entries finish on their own.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
