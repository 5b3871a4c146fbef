package services

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Wikid82/argus/internal/models"
)

// AuditService owns the append-only audit trail. Records are written inside
// the same transaction as the mutation they describe: if the audit write
// fails, the mutation fails with it. Nothing ever updates or deletes a
// record.
type AuditService struct {
	db *gorm.DB
}

// NewAuditService returns an AuditService using the provided DB.
func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// RecordTx appends one audit record using the caller's transaction handle.
func (s *AuditService) RecordTx(tx *gorm.DB, siteID uint, actor, action string, payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	rec := models.AuditRecord{
		UUID:    uuid.NewString(),
		SiteID:  siteID,
		Actor:   actor,
		Action:  action,
		Payload: string(body),
	}
	if err := tx.Create(&rec).Error; err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	return nil
}

// Record appends one audit record outside any caller transaction.
func (s *AuditService) Record(siteID uint, actor, action string, payload map[string]interface{}) error {
	return s.RecordTx(s.db, siteID, actor, action, payload)
}

// List returns a newest-first page of audit records. cursor is the ID of the
// last record from the previous page (0 for the first page); nextCursor is 0
// when there are no further pages.
func (s *AuditService) List(siteID uint, cursor uint, limit int) ([]models.AuditRecord, uint, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	q := s.db.Where("site_id = ?", siteID).Order("id desc").Limit(limit + 1)
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}

	var records []models.AuditRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, 0, err
	}

	var nextCursor uint
	if len(records) > limit {
		records = records[:limit]
		nextCursor = records[len(records)-1].ID
	}
	return records, nextCursor, nil
}
