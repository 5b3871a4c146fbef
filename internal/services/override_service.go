package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Wikid82/argus/internal/cache"
	"github.com/Wikid82/argus/internal/matcher"
	"github.com/Wikid82/argus/internal/models"
)

// OverrideService owns the per-site allow and block lists. Every successful
// mutation persists the change, writes its audit record in the same
// transaction, and bumps the site's cache generation before returning. It
// doubles as the engine's OverrideSource.
type OverrideService struct {
	db          *gorm.DB
	audit       *AuditService
	generations *cache.Generations
}

// NewOverrideService returns an OverrideService using the provided DB, audit
// trail and generation tracker.
func NewOverrideService(db *gorm.DB, audit *AuditService, generations *cache.Generations) *OverrideService {
	return &OverrideService{db: db, audit: audit, generations: generations}
}

// Add validates and appends an entry to a site's allow or block list.
func (s *OverrideService) Add(siteID uint, list, matchType, matchValue, note, actor string) (*models.OverrideEntry, error) {
	if !models.ValidOverrideList(list) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOverrideList, list)
	}
	if !models.ValidMatchType(matchType) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMatchType, matchType)
	}
	if err := matcher.ValidateRule(matchType, matchValue); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMatchValue, err)
	}

	entry := models.OverrideEntry{
		UUID:       uuid.NewString(),
		SiteID:     siteID,
		List:       list,
		MatchType:  matchType,
		MatchValue: strings.TrimSpace(matchValue),
		Note:       note,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		return s.audit.RecordTx(tx, siteID, actor, auditActionFor(list, true), map[string]interface{}{
			"entry_id":    entry.ID,
			"match_type":  matchType,
			"match_value": entry.MatchValue,
			"note":        note,
		})
	})
	if err != nil {
		return nil, err
	}

	s.generations.Bump(siteID)
	return &entry, nil
}

// Remove deletes an entry from a site's list by ID.
func (s *OverrideService) Remove(siteID uint, list string, entryID uint, actor string) error {
	if !models.ValidOverrideList(list) {
		return fmt.Errorf("%w: %s", ErrInvalidOverrideList, list)
	}

	var entry models.OverrideEntry
	err := s.db.Where("site_id = ? AND list = ? AND id = ?", siteID, list, entryID).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOverrideNotFound
		}
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.OverrideEntry{}, entry.ID).Error; err != nil {
			return err
		}
		return s.audit.RecordTx(tx, siteID, actor, auditActionFor(list, false), map[string]interface{}{
			"entry_id":    entry.ID,
			"match_type":  entry.MatchType,
			"match_value": entry.MatchValue,
		})
	})
	if err != nil {
		return err
	}

	s.generations.Bump(siteID)
	return nil
}

// List returns a site's entries for one list in creation order.
func (s *OverrideService) List(siteID uint, list string) ([]models.OverrideEntry, error) {
	if !models.ValidOverrideList(list) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOverrideList, list)
	}
	var entries []models.OverrideEntry
	if err := s.db.Where("site_id = ? AND list = ?", siteID, list).Order("id asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Entries implements engine.OverrideSource.
func (s *OverrideService) Entries(siteID uint, list string) ([]models.OverrideEntry, error) {
	return s.List(siteID, list)
}

func auditActionFor(list string, add bool) string {
	switch {
	case list == models.OverrideListAllow && add:
		return models.AuditAllowAdd
	case list == models.OverrideListAllow:
		return models.AuditAllowRemove
	case add:
		return models.AuditBlockAdd
	default:
		return models.AuditBlockRemove
	}
}
