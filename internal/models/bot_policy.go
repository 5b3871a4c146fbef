package models

import (
	"time"
)

// Policy modes. "strict" and "balanced" are operator presets that differ only
// in their default threshold; "off" disables score-based classification while
// block-list overrides keep applying.
const (
	PolicyModeStrict   = "strict"
	PolicyModeBalanced = "balanced"
	PolicyModeOff      = "off"
)

// Default threshold presets per mode.
const (
	DefaultThresholdStrict   = 40
	DefaultThresholdBalanced = 70
)

// BotPolicy holds one classification policy per site. Created implicitly with
// balanced defaults the first time a site's policy is read; never deleted
// while the site lives.
type BotPolicy struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	SiteID         uint      `json:"site_id" gorm:"uniqueIndex"`
	Mode           string    `json:"mode"`            // "strict", "balanced", "off"
	ThresholdScore int       `json:"threshold_score"` // 0-100
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ValidPolicyMode reports whether mode is one of the accepted values.
func ValidPolicyMode(mode string) bool {
	switch mode {
	case PolicyModeStrict, PolicyModeBalanced, PolicyModeOff:
		return true
	}
	return false
}
