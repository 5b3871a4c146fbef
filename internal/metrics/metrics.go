package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	classificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "argus_classifications_total",
		Help: "Total number of events classified, partitioned by outcome",
	}, []string{"outcome"})
	decisionCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "argus_decision_cache_hits_total",
		Help: "Total number of decision cache hits",
	})
	decisionCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "argus_decision_cache_misses_total",
		Help: "Total number of decision cache misses",
	})
	overrideCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "argus_override_cache_hits_total",
		Help: "Total number of override cache hits",
	})
	overrideCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "argus_override_cache_misses_total",
		Help: "Total number of override cache misses",
	})
	recomputeJobsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "argus_recompute_jobs_total",
		Help: "Total number of recompute jobs, partitioned by terminal status",
	}, []string{"status"})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(
		classificationsTotal,
		decisionCacheHits, decisionCacheMisses,
		overrideCacheHits, overrideCacheMisses,
		recomputeJobsTotal,
	)
}

// IncClassification counts one classified event by outcome.
func IncClassification(isBot bool) {
	outcome := "human"
	if isBot {
		outcome = "bot"
	}
	classificationsTotal.WithLabelValues(outcome).Inc()
}

// IncDecisionCacheHit counts a decision cache hit.
func IncDecisionCacheHit() { decisionCacheHits.Inc() }

// IncDecisionCacheMiss counts a decision cache miss.
func IncDecisionCacheMiss() { decisionCacheMisses.Inc() }

// IncOverrideCacheHit counts an override cache hit.
func IncOverrideCacheHit() { overrideCacheHits.Inc() }

// IncOverrideCacheMiss counts an override cache miss.
func IncOverrideCacheMiss() { overrideCacheMisses.Inc() }

// IncRecomputeJob counts a recompute job reaching a terminal status.
func IncRecomputeJob(status string) { recomputeJobsTotal.WithLabelValues(status).Inc() }
