package classifier

import (
	"strings"
)

// crawlerSignatures are substrings of user-agents declared by crawlers and
// indexers. Matched case-insensitively.
var crawlerSignatures = []string{
	"bot", "crawler", "spider", "slurp", "bingpreview", "facebookexternalhit",
	"mediapartners", "adsbot", "feedfetcher", "ia_archiver",
}

// scriptedSignatures identify HTTP libraries and CLI clients.
var scriptedSignatures = []string{
	"curl", "wget", "python-requests", "python-urllib", "go-http-client",
	"okhttp", "libwww", "java/", "httpclient", "axios", "scrapy", "aiohttp",
}

// headlessSignatures identify automated browser shells.
var headlessSignatures = []string{
	"headlesschrome", "phantomjs", "puppeteer", "playwright", "selenium",
	"electron",
}

// Request-rate thresholds in requests per minute.
const (
	elevatedRateThreshold = 60
	highRateThreshold     = 120
)

// HeuristicScorer is the default Scorer. Weights are additive and the total
// is clamped to 100; every contribution records a reason code.
type HeuristicScorer struct{}

// NewHeuristicScorer returns the default scoring strategy.
func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{}
}

// Score implements Scorer.
func (s *HeuristicScorer) Score(sig Signals) (int, []ReasonCode) {
	score := 0
	var reasons []ReasonCode

	ua := strings.ToLower(strings.TrimSpace(sig.UserAgent))

	if ua == "" {
		score += 50
		reasons = append(reasons, ReasonEmptyUA)
	} else {
		if containsAny(ua, crawlerSignatures) {
			score += 60
			reasons = append(reasons, ReasonKnownBotUA)
		}
		if containsAny(ua, scriptedSignatures) {
			score += 55
			reasons = append(reasons, ReasonScriptedClient)
		}
		if containsAny(ua, headlessSignatures) {
			score += 45
			reasons = append(reasons, ReasonHeadlessBrowser)
		}
		// Real browsers send a Mozilla/5.0 prefix and a parenthesised
		// platform segment; short opaque tokens usually do not.
		if !strings.HasPrefix(ua, "mozilla/") && !strings.Contains(ua, "(") {
			score += 20
			reasons = append(reasons, ReasonSuspiciousUAShape)
		}
	}

	// Browsers virtually always send Accept-Language; its absence on a
	// browser-shaped UA is a weak automation signal.
	if sig.AcceptLanguage == "" && ua != "" {
		score += 15
		reasons = append(reasons, ReasonMissingLanguage)
	}

	switch {
	case sig.RequestRate >= highRateThreshold:
		score += 30
		reasons = append(reasons, ReasonHighRequestRate)
	case sig.RequestRate >= elevatedRateThreshold:
		score += 15
		reasons = append(reasons, ReasonElevatedReqRate)
	}

	if score > 100 {
		score = 100
	}

	return score, reasons
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
