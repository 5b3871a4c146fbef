// Package matcher implements pure override-rule matching. Matching never
// errors: malformed rule values are rejected at write time by ValidateRule,
// and malformed signal IPs simply fail to match IP rules.
package matcher

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/Wikid82/argus/internal/models"
)

var (
	ErrEmptyMatchValue   = errors.New("match value is required")
	ErrMatchValueTooLong = errors.New("match value exceeds maximum length")
	ErrInvalidIPAddress  = errors.New("invalid IP address")
	ErrInvalidCIDR       = errors.New("invalid CIDR block")
)

// NormalizeIP parses a signal IP into a canonical form. Zone identifiers are
// stripped and IPv4-mapped IPv6 addresses collapse to their IPv4 form, so
// "::ffff:203.0.113.7" and "203.0.113.7" compare equal. Returns nil for
// unparseable input.
func NormalizeIP(raw string) net.IP {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '%'); i >= 0 {
		raw = raw[:i]
	}
	return net.ParseIP(raw)
}

// ValidateRule checks a match value against its type at write time so that
// match time never has to handle malformed rules.
func ValidateRule(matchType, value string) error {
	if strings.TrimSpace(value) == "" {
		return ErrEmptyMatchValue
	}
	if len(value) > models.MaxMatchValueLength {
		return ErrMatchValueTooLong
	}

	switch matchType {
	case models.MatchTypeUAContains:
		return nil
	case models.MatchTypeIPExact:
		if NormalizeIP(value) == nil {
			return fmt.Errorf("%w: %s", ErrInvalidIPAddress, value)
		}
		return nil
	case models.MatchTypeIPCIDR:
		if _, _, err := net.ParseCIDR(value); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidCIDR, value)
		}
		return nil
	default:
		return fmt.Errorf("invalid match type: %s", matchType)
	}
}

// Matches reports whether a single rule matches the given signals. The ip
// argument may be nil when the signal IP failed to parse; IP rules then never
// match while ua_contains rules are unaffected.
func Matches(matchType, value string, ip net.IP, userAgent string) bool {
	switch matchType {
	case models.MatchTypeUAContains:
		if userAgent == "" {
			return false
		}
		return strings.Contains(userAgent, value)
	case models.MatchTypeIPExact:
		if ip == nil {
			return false
		}
		ruleIP := NormalizeIP(value)
		return ruleIP != nil && ip.Equal(ruleIP)
	case models.MatchTypeIPCIDR:
		if ip == nil {
			return false
		}
		_, block, err := net.ParseCIDR(value)
		if err != nil {
			return false
		}
		return block.Contains(ip)
	}
	return false
}

// MatchAny walks entries in insertion order and returns the first matching
// entry. List semantics are "does any entry match"; there is no ranking.
func MatchAny(entries []models.OverrideEntry, ip net.IP, userAgent string) (*models.OverrideEntry, bool) {
	for i := range entries {
		if Matches(entries[i].MatchType, entries[i].MatchValue, ip, userAgent) {
			return &entries[i], true
		}
	}
	return nil, false
}
