package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// fingerprint derives the one-way decision-cache key from site, normalized IP
// and user-agent. SHA-256 keyed with the configured salt; 256 bits keeps the
// collision probability negligible at any realistic traffic cardinality, and
// the raw identifiers are not recoverable from the key.
func (e *Engine) fingerprint(siteID uint, normalizedIP, userAgent string) string {
	return e.hash("fp", siteID, normalizedIP, userAgent)
}

// overrideKey derives the override-cache key from the same identifiers under
// a distinct domain prefix so the two caches can never alias.
func (e *Engine) overrideKey(siteID uint, normalizedIP, userAgent string) string {
	return e.hash("ovr", siteID, normalizedIP, userAgent)
}

func (e *Engine) hash(domain string, siteID uint, parts ...string) string {
	h := sha256.New()
	h.Write([]byte(e.salt))
	h.Write([]byte{0})
	h.Write([]byte(domain))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatUint(uint64(siteID), 10)))
	for _, p := range parts {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}
