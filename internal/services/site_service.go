package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Wikid82/argus/internal/models"
)

// SiteService manages the scoping entity everything else hangs off.
type SiteService struct {
	db *gorm.DB
}

// NewSiteService returns a SiteService using the provided DB.
func NewSiteService(db *gorm.DB) *SiteService {
	return &SiteService{db: db}
}

// Create registers a new site.
func (s *SiteService) Create(site *models.Site) error {
	if strings.TrimSpace(site.Name) == "" {
		return errors.New("name is required")
	}
	site.UUID = uuid.NewString()
	return s.db.Create(site).Error
}

// GetByID retrieves a site by ID.
func (s *SiteService) GetByID(id uint) (*models.Site, error) {
	var site models.Site
	if err := s.db.First(&site, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSiteNotFound
		}
		return nil, err
	}
	return &site, nil
}

// List retrieves all sites, newest first.
func (s *SiteService) List() ([]models.Site, error) {
	var sites []models.Site
	if err := s.db.Order("created_at desc").Find(&sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}

// Delete removes a site and cascades to everything scoped to it: policy,
// override lists, traffic events, recompute jobs and audit records.
func (s *SiteService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&models.BotPolicy{},
			&models.OverrideEntry{},
			&models.TrafficEvent{},
			&models.RecomputeJob{},
			&models.AuditRecord{},
		} {
			if err := tx.Where("site_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Site{}, id).Error
	})
}
