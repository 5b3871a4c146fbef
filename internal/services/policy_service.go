package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Wikid82/argus/internal/cache"
	"github.com/Wikid82/argus/internal/models"
)

// PolicyService owns one BotPolicy per site. A policy is created implicitly
// with balanced defaults on first read and never deleted while the site
// lives. It doubles as the engine's PolicySource.
type PolicyService struct {
	db          *gorm.DB
	audit       *AuditService
	generations *cache.Generations
}

// NewPolicyService returns a PolicyService using the provided DB, audit
// trail and generation tracker.
func NewPolicyService(db *gorm.DB, audit *AuditService, generations *cache.Generations) *PolicyService {
	return &PolicyService{db: db, audit: audit, generations: generations}
}

// Get returns the site's policy, creating the balanced default on first use.
func (s *PolicyService) Get(siteID uint) (*models.BotPolicy, error) {
	var policy models.BotPolicy
	err := s.db.Where("site_id = ?", siteID).First(&policy).Error
	if err == nil {
		return &policy, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	policy = models.BotPolicy{
		SiteID:         siteID,
		Mode:           models.PolicyModeBalanced,
		ThresholdScore: models.DefaultThresholdBalanced,
	}
	if err := s.db.Create(&policy).Error; err != nil {
		// Lost a race against a concurrent first read; fetch the winner.
		var existing models.BotPolicy
		if ferr := s.db.Where("site_id = ?", siteID).First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &policy, nil
}

// Policy implements engine.PolicySource.
func (s *PolicyService) Policy(siteID uint) (*models.BotPolicy, error) {
	return s.Get(siteID)
}

// Update validates and persists a policy change, audits it in the same
// transaction, and bumps the site's cache generation so cached decisions
// stop being served. All three effects land before the caller sees success.
func (s *PolicyService) Update(siteID uint, mode string, thresholdScore int, actor string) (*models.BotPolicy, error) {
	if !models.ValidPolicyMode(mode) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPolicyMode, mode)
	}
	if thresholdScore < 0 || thresholdScore > 100 {
		return nil, ErrInvalidThreshold
	}

	policy, err := s.Get(siteID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		policy.Mode = mode
		policy.ThresholdScore = thresholdScore
		if err := tx.Save(policy).Error; err != nil {
			return err
		}
		return s.audit.RecordTx(tx, siteID, actor, models.AuditPolicyUpdate, map[string]interface{}{
			"mode":            mode,
			"threshold_score": thresholdScore,
		})
	})
	if err != nil {
		return nil, err
	}

	s.generations.Bump(siteID)
	return policy, nil
}
