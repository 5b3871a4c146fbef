package services

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Wikid82/argus/internal/classifier"
	"github.com/Wikid82/argus/internal/engine"
	"github.com/Wikid82/argus/internal/models"
)

// retagAttempts bounds retries on transient storage failures while a
// recompute job rewrites event tags.
const retagAttempts = 3

// EventService is the ingestion-side adapter: it persists classified traffic
// events and gives recompute jobs a way to scan and retag historical ranges.
type EventService struct {
	db *gorm.DB
}

// NewEventService returns an EventService using the provided DB.
func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

// Record stores one ingested event tagged with its classification.
func (s *EventService) Record(siteID uint, sig classifier.Signals, d engine.Decision) (*models.TrafficEvent, error) {
	occurredAt := sig.Timestamp
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	event := models.TrafficEvent{
		SiteID:          siteID,
		IP:              sig.IP,
		UserAgent:       sig.UserAgent,
		AcceptLanguage:  sig.AcceptLanguage,
		RequestRate:     sig.RequestRate,
		OccurredAt:      occurredAt,
		IsBot:           d.IsBot,
		Score:           d.Score,
		ReasonCodes:     joinReasons(d.ReasonCodes),
		MatchedOverride: d.MatchedOverride,
	}
	if err := s.db.Create(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// ScanRange pages through a site's events in [from, to] in ID order and
// hands each batch to fn. Scanning stops on the first error fn returns.
func (s *EventService) ScanRange(siteID uint, from, to time.Time, batchSize int, fn func(batch []models.TrafficEvent) error) error {
	if batchSize <= 0 {
		batchSize = 500
	}

	lastID := uint(0)
	for {
		var batch []models.TrafficEvent
		err := s.db.Where("site_id = ? AND occurred_at >= ? AND occurred_at <= ? AND id > ?",
			siteID, from, to, lastID).
			Order("id asc").Limit(batchSize).Find(&batch).Error
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		if err := fn(batch); err != nil {
			return err
		}
		lastID = batch[len(batch)-1].ID
	}
}

// Retag rewrites one event's classification fields, retrying a bounded
// number of times on transient failures before giving up.
func (s *EventService) Retag(eventID uint, d engine.Decision) error {
	updates := map[string]interface{}{
		"is_bot":           d.IsBot,
		"score":            d.Score,
		"reason_codes":     joinReasons(d.ReasonCodes),
		"matched_override": d.MatchedOverride,
	}

	var err error
	for attempt := 0; attempt < retagAttempts; attempt++ {
		if err = s.db.Model(&models.TrafficEvent{}).Where("id = ?", eventID).Updates(updates).Error; err == nil {
			return nil
		}
		time.Sleep(time.Duration(attempt+1) * 50 * time.Millisecond)
	}
	return err
}

func joinReasons(reasons []classifier.ReasonCode) string {
	if len(reasons) == 0 {
		return ""
	}
	parts := make([]string, len(reasons))
	for i, r := range reasons {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}
