package models

import (
	"time"
)

// Override list names. A value may appear in both lists; block wins at
// classification time.
const (
	OverrideListAllow = "allow"
	OverrideListBlock = "block"
)

// Override match types.
const (
	MatchTypeUAContains = "ua_contains"
	MatchTypeIPExact    = "ip_exact"
	MatchTypeIPCIDR     = "ip_cidr"
)

// MaxMatchValueLength bounds stored match values.
const MaxMatchValueLength = 512

// OverrideEntry is a single operator rule on a site's allow or block list.
// Entries are evaluated in creation order; the first match short-circuits.
type OverrideEntry struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UUID       string    `json:"uuid" gorm:"uniqueIndex"`
	SiteID     uint      `json:"site_id" gorm:"index:idx_override_site_list"`
	List       string    `json:"list" gorm:"index:idx_override_site_list"` // "allow" or "block"
	MatchType  string    `json:"match_type"`                               // "ua_contains", "ip_exact", "ip_cidr"
	MatchValue string    `json:"match_value"`
	Note       string    `json:"note"`
	CreatedAt  time.Time `json:"created_at"`
}

// ValidOverrideList reports whether list names an override list.
func ValidOverrideList(list string) bool {
	return list == OverrideListAllow || list == OverrideListBlock
}

// ValidMatchType reports whether matchType is one of the accepted values.
func ValidMatchType(matchType string) bool {
	switch matchType {
	case MatchTypeUAContains, MatchTypeIPExact, MatchTypeIPCIDR:
		return true
	}
	return false
}
