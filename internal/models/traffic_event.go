package models

import (
	"strings"
	"time"
)

// TrafficEvent is one ingested analytics hit together with its most recent
// classification. Raw IP and user-agent live here under the ingestion layer's
// retention rules; they never enter classification cache keys.
type TrafficEvent struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	SiteID         uint      `json:"site_id" gorm:"index:idx_event_site_time"`
	IP             string    `json:"ip"`
	UserAgent      string    `json:"user_agent"`
	AcceptLanguage string    `json:"accept_language"`
	RequestRate    float64   `json:"request_rate"` // requests/minute observed by ingestion
	OccurredAt     time.Time `json:"occurred_at" gorm:"index:idx_event_site_time"`

	IsBot           bool   `json:"is_bot"`
	Score           int    `json:"score"`
	ReasonCodes     string `json:"reason_codes"` // comma-separated
	MatchedOverride string `json:"matched_override"`

	CreatedAt time.Time `json:"created_at"`
}

// Reasons splits the stored reason codes back into a slice.
func (e *TrafficEvent) Reasons() []string {
	if e.ReasonCodes == "" {
		return nil
	}
	return strings.Split(e.ReasonCodes, ",")
}
