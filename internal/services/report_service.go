package services

import (
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/Wikid82/argus/internal/models"
)

// BotSummary is the bot/human split for a site over a time range.
type BotSummary struct {
	Total         int64          `json:"total"`
	Bots          int64          `json:"bots"`
	Humans        int64          `json:"humans"`
	BotShare      float64        `json:"bot_share"`
	TopReasons    []ReasonCount  `json:"top_reasons"`
	TopUserAgents []UACountEntry `json:"top_user_agents"`
}

// ReasonCount is one reason code with its occurrence count.
type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int64  `json:"count"`
}

// UACountEntry is one bot user-agent with its hit count.
type UACountEntry struct {
	UserAgent string `json:"user_agent"`
	Count     int64  `json:"count"`
}

// DailyBucket is one day of bot/human counts.
type DailyBucket struct {
	Day    string `json:"day"`
	Total  int64  `json:"total"`
	Bots   int64  `json:"bots"`
	Humans int64  `json:"humans"`
}

// ReportService derives read-only aggregates from tagged traffic events. It
// sits outside the engine's write path entirely.
type ReportService struct {
	db *gorm.DB
}

// NewReportService returns a ReportService using the provided DB.
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// Summary computes the bot/human split, top reason codes and top bot
// user-agents for a site over [from, to].
func (s *ReportService) Summary(siteID uint, from, to time.Time) (*BotSummary, error) {
	base := s.db.Model(&models.TrafficEvent{}).
		Where("site_id = ? AND occurred_at >= ? AND occurred_at <= ?", siteID, from, to)

	summary := &BotSummary{}
	if err := base.Session(&gorm.Session{}).Count(&summary.Total).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("is_bot = ?", true).Count(&summary.Bots).Error; err != nil {
		return nil, err
	}
	summary.Humans = summary.Total - summary.Bots
	if summary.Total > 0 {
		summary.BotShare = float64(summary.Bots) / float64(summary.Total)
	}

	// Reason codes are a comma list per event; tally them in Go rather than
	// teaching SQLite to split strings.
	var tagged []models.TrafficEvent
	err := s.db.Select("reason_codes").
		Where("site_id = ? AND occurred_at >= ? AND occurred_at <= ? AND reason_codes <> ''", siteID, from, to).
		Find(&tagged).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64)
	for i := range tagged {
		for _, r := range tagged[i].Reasons() {
			counts[r]++
		}
	}
	for reason, n := range counts {
		summary.TopReasons = append(summary.TopReasons, ReasonCount{Reason: reason, Count: n})
	}
	sort.Slice(summary.TopReasons, func(i, j int) bool {
		if summary.TopReasons[i].Count != summary.TopReasons[j].Count {
			return summary.TopReasons[i].Count > summary.TopReasons[j].Count
		}
		return summary.TopReasons[i].Reason < summary.TopReasons[j].Reason
	})
	if len(summary.TopReasons) > 10 {
		summary.TopReasons = summary.TopReasons[:10]
	}

	err = s.db.Model(&models.TrafficEvent{}).
		Select("user_agent, count(*) as count").
		Where("site_id = ? AND occurred_at >= ? AND occurred_at <= ? AND is_bot = ?", siteID, from, to, true).
		Group("user_agent").Order("count desc").Limit(10).
		Scan(&summary.TopUserAgents).Error
	if err != nil {
		return nil, err
	}

	return summary, nil
}

// Report computes a per-day bot/human breakdown for a site over [from, to].
func (s *ReportService) Report(siteID uint, from, to time.Time) ([]DailyBucket, error) {
	var buckets []DailyBucket
	err := s.db.Model(&models.TrafficEvent{}).
		Select("date(occurred_at) as day, count(*) as total, sum(case when is_bot then 1 else 0 end) as bots").
		Where("site_id = ? AND occurred_at >= ? AND occurred_at <= ?", siteID, from, to).
		Group("date(occurred_at)").Order("day asc").
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}
	for i := range buckets {
		buckets[i].Humans = buckets[i].Total - buckets[i].Bots
	}
	return buckets, nil
}
