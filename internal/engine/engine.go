// Package engine orchestrates override matching, score classification and the
// two bounded caches into a single per-event decision. Classify runs on the
// ingestion hot path: it never returns an error and never blocks on operator
// mutations beyond a per-shard cache lock.
package engine

import (
	"net"
	"time"

	"github.com/Wikid82/argus/internal/cache"
	"github.com/Wikid82/argus/internal/classifier"
	"github.com/Wikid82/argus/internal/logger"
	"github.com/Wikid82/argus/internal/matcher"
	"github.com/Wikid82/argus/internal/metrics"
	"github.com/Wikid82/argus/internal/models"
)

// Override match outcomes carried on a decision.
const (
	OverrideNone  = "none"
	OverrideAllow = "allow"
	OverrideBlock = "block"
)

// Decision is the result of classifying one event. It lives only in the
// decision cache; persisting it is the ingestion layer's concern.
type Decision struct {
	Fingerprint     string                  `json:"fingerprint"`
	IsBot           bool                    `json:"is_bot"`
	Score           int                     `json:"score"`
	ReasonCodes     []classifier.ReasonCode `json:"reason_codes"`
	MatchedOverride string                  `json:"matched_override"`
	ComputedAt      time.Time               `json:"computed_at"`
	ExpiresAt       time.Time               `json:"expires_at"`
}

// OverrideSource supplies a site's current override entries in creation
// order. Implemented by the override store.
type OverrideSource interface {
	Entries(siteID uint, list string) ([]models.OverrideEntry, error)
}

// PolicySource supplies a site's current policy. Implemented by the policy
// store.
type PolicySource interface {
	Policy(siteID uint) (*models.BotPolicy, error)
}

// Options tune cache sizes and lifetimes.
type Options struct {
	FingerprintSalt   string
	DecisionCacheSize int
	OverrideCacheSize int
	CacheShards       int
	DecisionTTL       time.Duration
	OverrideTTL       time.Duration
}

// Engine holds the per-process classification state. All site scoping happens
// through the stores and the generation tracker; there is no global mutable
// state beyond what an Engine instance owns.
type Engine struct {
	scorer      classifier.Scorer
	overrides   OverrideSource
	policies    PolicySource
	generations *cache.Generations

	decisions     *cache.Cache[Decision]
	overrideCache *cache.Cache[string]

	salt        string
	decisionTTL time.Duration
	overrideTTL time.Duration
}

// New wires an Engine from its collaborators. The scorer is injected so
// heuristics can be swapped or instrumented in tests.
func New(scorer classifier.Scorer, overrides OverrideSource, policies PolicySource, generations *cache.Generations, opts Options) *Engine {
	if opts.DecisionTTL <= 0 {
		opts.DecisionTTL = 15 * time.Minute
	}
	if opts.OverrideTTL <= 0 {
		opts.OverrideTTL = 30 * time.Minute
	}
	if opts.DecisionCacheSize <= 0 {
		opts.DecisionCacheSize = 8192
	}
	if opts.OverrideCacheSize <= 0 {
		opts.OverrideCacheSize = 8192
	}
	if opts.CacheShards <= 0 {
		opts.CacheShards = 16
	}

	return &Engine{
		scorer:        scorer,
		overrides:     overrides,
		policies:      policies,
		generations:   generations,
		decisions:     cache.New[Decision](opts.DecisionCacheSize, opts.CacheShards),
		overrideCache: cache.New[string](opts.OverrideCacheSize, opts.CacheShards),
		salt:          opts.FingerprintSalt,
		decisionTTL:   opts.DecisionTTL,
		overrideTTL:   opts.OverrideTTL,
	}
}

// Classify produces the decision for one event. It writes no audit records
// and has no caller-visible side effects beyond the returned decision.
// Failures degrade: an unparseable signal IP skips IP override rules, a
// missing policy falls back to balanced defaults. Ingestion is never blocked.
func (e *Engine) Classify(siteID uint, sig classifier.Signals) Decision {
	ip := matcher.NormalizeIP(sig.IP)
	normalizedIP := ""
	if ip != nil {
		normalizedIP = ip.String()
	}

	// Decisions are tagged with the site's generation as well: an operator
	// mutation lazily invalidates cached decisions alongside cached override
	// outcomes, so the very next classify after a list edit re-resolves.
	gen := e.generations.Current(siteID)

	fp := e.fingerprint(siteID, normalizedIP, sig.UserAgent)
	if d, ok := e.decisions.GetGeneration(fp, gen); ok {
		metrics.IncDecisionCacheHit()
		return d
	}
	metrics.IncDecisionCacheMiss()

	outcome := e.overrideOutcome(siteID, gen, ip, normalizedIP, sig.UserAgent)
	score, reasons := e.scorer.Score(sig)

	now := time.Now()
	d := Decision{
		Fingerprint:     fp,
		Score:           score,
		ReasonCodes:     reasons,
		MatchedOverride: outcome,
		ComputedAt:      now,
		ExpiresAt:       now.Add(e.decisionTTL),
	}

	switch outcome {
	case OverrideBlock:
		// A block-list match always wins, even with classification off.
		d.IsBot = true
	case OverrideAllow:
		d.IsBot = false
	default:
		policy := e.currentPolicy(siteID)
		if policy.Mode == models.PolicyModeOff {
			d.IsBot = false
		} else {
			d.IsBot = score >= policy.ThresholdScore
		}
	}

	e.decisions.SetGeneration(fp, d, e.decisionTTL, gen)
	metrics.IncClassification(d.IsBot)
	return d
}

// overrideOutcome resolves the allow/block match for the signals, consulting
// the override cache at the site's current generation first. A stale
// generation entry is a miss; the store is re-scanned and the fresh outcome
// cached under the new generation.
func (e *Engine) overrideOutcome(siteID uint, gen uint64, ip net.IP, normalizedIP, userAgent string) string {
	key := e.overrideKey(siteID, normalizedIP, userAgent)

	if outcome, ok := e.overrideCache.GetGeneration(key, gen); ok {
		metrics.IncOverrideCacheHit()
		return outcome
	}
	metrics.IncOverrideCacheMiss()

	outcome := OverrideNone
	if allowed, err := e.overrides.Entries(siteID, models.OverrideListAllow); err == nil {
		if _, ok := matcher.MatchAny(allowed, ip, userAgent); ok {
			outcome = OverrideAllow
		}
	} else {
		logger.WithFields(map[string]interface{}{"site_id": siteID, "list": models.OverrideListAllow}).
			WithError(err).Warn("override scan failed, treating as no match")
	}
	if blocked, err := e.overrides.Entries(siteID, models.OverrideListBlock); err == nil {
		if _, ok := matcher.MatchAny(blocked, ip, userAgent); ok {
			// Block always wins over allow.
			outcome = OverrideBlock
		}
	} else {
		logger.WithFields(map[string]interface{}{"site_id": siteID, "list": models.OverrideListBlock}).
			WithError(err).Warn("override scan failed, treating as no match")
	}

	e.overrideCache.SetGeneration(key, outcome, e.overrideTTL, gen)
	return outcome
}

// SweepCaches drops expired entries from both caches and reports how many
// were removed. Called periodically by the scheduler; inserts also sweep
// opportunistically, this catches idle shards.
func (e *Engine) SweepCaches() int {
	return e.decisions.SweepExpired() + e.overrideCache.SweepExpired()
}

// CachedDecisions reports the decision-cache population. Used in tests.
func (e *Engine) CachedDecisions() int {
	return e.decisions.Len()
}

// currentPolicy reads the site's policy, degrading to balanced defaults on
// error so classification can never fail ingestion.
func (e *Engine) currentPolicy(siteID uint) *models.BotPolicy {
	policy, err := e.policies.Policy(siteID)
	if err != nil || policy == nil {
		logger.WithFields(map[string]interface{}{"site_id": siteID}).
			Warn("policy unavailable, using balanced defaults")
		return &models.BotPolicy{
			Mode:           models.PolicyModeBalanced,
			ThresholdScore: models.DefaultThresholdBalanced,
		}
	}
	return policy
}
