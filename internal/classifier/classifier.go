// Package classifier scores request signals for bot likelihood. The scoring
// heuristic is a pluggable strategy so caching and override logic can be
// tested independently of feature weights.
package classifier

import (
	"time"
)

// Signals are the per-event inputs supplied by the ingestion layer.
type Signals struct {
	IP             string    `json:"ip"`
	UserAgent      string    `json:"user_agent"`
	AcceptLanguage string    `json:"accept_language"`
	RequestRate    float64   `json:"request_rate"` // requests/minute for this client, as observed by ingestion
	Timestamp      time.Time `json:"timestamp"`
}

// ReasonCode labels one contribution to a bot score.
type ReasonCode string

const (
	ReasonKnownBotUA        ReasonCode = "known_bot_ua"
	ReasonScriptedClient    ReasonCode = "scripted_client"
	ReasonHeadlessBrowser   ReasonCode = "headless_browser"
	ReasonEmptyUA           ReasonCode = "empty_ua"
	ReasonMissingLanguage   ReasonCode = "missing_accept_language"
	ReasonHighRequestRate   ReasonCode = "high_request_rate"
	ReasonElevatedReqRate   ReasonCode = "elevated_request_rate"
	ReasonSuspiciousUAShape ReasonCode = "suspicious_ua_shape"
)

// Scorer computes a 0-100 bot-likelihood score plus the reasons behind it.
// Implementations must be deterministic: identical signals always yield an
// identical score and reason set, and the reason set is non-empty whenever
// the score is positive.
type Scorer interface {
	Score(sig Signals) (int, []ReasonCode)
}
