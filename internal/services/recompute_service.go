package services

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Wikid82/argus/internal/classifier"
	"github.com/Wikid82/argus/internal/engine"
	"github.com/Wikid82/argus/internal/logger"
	"github.com/Wikid82/argus/internal/metrics"
	"github.com/Wikid82/argus/internal/models"
)

// RecomputeService runs historical reclassification as background jobs.
// State transitions are monotonic (queued -> running -> success|failed) and
// at most one job per site executes at a time: a second request while a job
// is active is rejected with ErrRecomputeConflict rather than queued.
//
// Jobs read policy and override state through the same engine as live
// traffic, so an operator edit made mid-job applies from the next event
// onward. That is the documented semantic, not a bug.
type RecomputeService struct {
	db        *gorm.DB
	engine    *engine.Engine
	events    *EventService
	audit     *AuditService
	batchSize int

	mu     sync.Mutex
	active map[uint]bool
	wg     sync.WaitGroup
}

// NewRecomputeService returns a RecomputeService wired to the engine and
// ingestion adapter.
func NewRecomputeService(db *gorm.DB, eng *engine.Engine, events *EventService, audit *AuditService, batchSize int) *RecomputeService {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &RecomputeService{
		db:        db,
		engine:    eng,
		events:    events,
		audit:     audit,
		batchSize: batchSize,
		active:    make(map[uint]bool),
	}
}

// Start creates a queued job, audits it, and schedules execution. The caller
// gets the queued snapshot immediately; execution happens asynchronously.
func (s *RecomputeService) Start(siteID uint, startDate, endDate time.Time, actor string) (*models.RecomputeJob, error) {
	if startDate.After(endDate) {
		return nil, ErrInvalidDateRange
	}

	s.mu.Lock()
	if s.active[siteID] {
		s.mu.Unlock()
		return nil, ErrRecomputeConflict
	}
	s.active[siteID] = true
	s.mu.Unlock()

	job := models.RecomputeJob{
		JobID:     uuid.NewString(),
		SiteID:    siteID,
		Status:    models.JobStatusQueued,
		StartDate: startDate,
		EndDate:   endDate,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&job).Error; err != nil {
			return err
		}
		return s.audit.RecordTx(tx, siteID, actor, models.AuditRecomputeStart, map[string]interface{}{
			"job_id":     job.JobID,
			"start_date": startDate.Format(time.RFC3339),
			"end_date":   endDate.Format(time.RFC3339),
		})
	})
	if err != nil {
		s.release(siteID)
		return nil, err
	}

	s.wg.Add(1)
	go s.run(job)

	return &job, nil
}

// GetStatus returns the current job snapshot. Polling never mutates state.
func (s *RecomputeService) GetStatus(jobID string) (*models.RecomputeJob, error) {
	var job models.RecomputeJob
	if err := s.db.Where("job_id = ?", jobID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

// ListForSite returns a site's jobs, newest first.
func (s *RecomputeService) ListForSite(siteID uint) ([]models.RecomputeJob, error) {
	var jobs []models.RecomputeJob
	if err := s.db.Where("site_id = ?", siteID).Order("id desc").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// Wait blocks until all scheduled jobs have finished. Used by shutdown and
// tests.
func (s *RecomputeService) Wait() {
	s.wg.Wait()
}

// FailOrphaned marks non-terminal jobs with no live executor as failed.
// Called at startup (jobs interrupted by a restart) and periodically by the
// scheduler.
func (s *RecomputeService) FailOrphaned() error {
	var jobs []models.RecomputeJob
	err := s.db.Where("status IN ?", []string{models.JobStatusQueued, models.JobStatusRunning}).Find(&jobs).Error
	if err != nil {
		return err
	}

	now := time.Now()
	for i := range jobs {
		s.mu.Lock()
		live := s.active[jobs[i].SiteID]
		s.mu.Unlock()
		if live {
			continue
		}
		updates := map[string]interface{}{
			"status":        models.JobStatusFailed,
			"error_message": "job interrupted before completion",
			"completed_at":  &now,
		}
		if err := s.db.Model(&models.RecomputeJob{}).Where("id = ?", jobs[i].ID).Updates(updates).Error; err != nil {
			return err
		}
		metrics.IncRecomputeJob(models.JobStatusFailed)
	}
	return nil
}

func (s *RecomputeService) release(siteID uint) {
	s.mu.Lock()
	delete(s.active, siteID)
	s.mu.Unlock()
}

// run executes one job to a terminal state. It holds no lock that live
// classification could block on; events are reclassified against the current
// policy and override state.
func (s *RecomputeService) run(job models.RecomputeJob) {
	defer s.wg.Done()
	defer s.release(job.SiteID)

	log := logger.WithFields(map[string]interface{}{"job_id": job.JobID, "site_id": job.SiteID})

	now := time.Now()
	if err := s.transition(job.ID, map[string]interface{}{
		"status":     models.JobStatusRunning,
		"started_at": &now,
	}); err != nil {
		log.WithError(err).Error("failed to mark recompute job running")
		return
	}

	processed := int64(0)
	scanErr := s.events.ScanRange(job.SiteID, job.StartDate, job.EndDate, s.batchSize, func(batch []models.TrafficEvent) error {
		for i := range batch {
			ev := &batch[i]
			d := s.engine.Classify(job.SiteID, classifier.Signals{
				IP:             ev.IP,
				UserAgent:      ev.UserAgent,
				AcceptLanguage: ev.AcceptLanguage,
				RequestRate:    ev.RequestRate,
				Timestamp:      ev.OccurredAt,
			})
			if err := s.events.Retag(ev.ID, d); err != nil {
				return err
			}
			processed++
		}
		// Progress is best-effort; the terminal update is authoritative.
		_ = s.transition(job.ID, map[string]interface{}{"events_processed": processed})
		return nil
	})

	done := time.Now()
	if scanErr != nil {
		log.WithError(scanErr).Error("recompute job failed")
		_ = s.transition(job.ID, map[string]interface{}{
			"status":           models.JobStatusFailed,
			"error_message":    scanErr.Error(),
			"events_processed": processed,
			"completed_at":     &done,
		})
		metrics.IncRecomputeJob(models.JobStatusFailed)
		return
	}

	if err := s.transition(job.ID, map[string]interface{}{
		"status":           models.JobStatusSuccess,
		"events_processed": processed,
		"completed_at":     &done,
	}); err != nil {
		log.WithError(err).Error("failed to mark recompute job finished")
		return
	}
	metrics.IncRecomputeJob(models.JobStatusSuccess)
	log.WithFields(map[string]interface{}{"events_processed": processed}).Info("recompute job finished")
}

func (s *RecomputeService) transition(id uint, updates map[string]interface{}) error {
	return s.db.Model(&models.RecomputeJob{}).Where("id = ?", id).Updates(updates).Error
}
