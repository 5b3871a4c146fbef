package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment  string
	HTTPPort     string
	DatabasePath string
	LogDir       string

	// FingerprintSalt keys the one-way hashes used for cache keys and
	// decision fingerprints. Raw IPs and user-agents never enter a cache.
	FingerprintSalt string

	// DecisionCacheSize and OverrideCacheSize bound the two classification
	// caches; the TTLs control entry lifetime.
	DecisionCacheSize int
	OverrideCacheSize int
	CacheShards       int
	DecisionTTL       time.Duration
	OverrideTTL       time.Duration

	// RecomputeBatchSize is how many historical events a recompute job
	// loads per scan page.
	RecomputeBatchSize int
}

// Load reads env vars and falls back to defaults so the server can boot with zero configuration.
func Load() (Config, error) {
	cfg := Config{
		Environment:        getEnv("ARGUS_ENV", "development"),
		HTTPPort:           getEnv("ARGUS_HTTP_PORT", "8080"),
		DatabasePath:       getEnv("ARGUS_DB_PATH", filepath.Join("data", "argus.db")),
		LogDir:             getEnv("ARGUS_LOG_DIR", filepath.Join("data", "logs")),
		FingerprintSalt:    getEnv("ARGUS_FINGERPRINT_SALT", "argus-dev-salt"),
		DecisionCacheSize:  getEnvInt("ARGUS_DECISION_CACHE_SIZE", 8192),
		OverrideCacheSize:  getEnvInt("ARGUS_OVERRIDE_CACHE_SIZE", 8192),
		CacheShards:        getEnvInt("ARGUS_CACHE_SHARDS", 16),
		DecisionTTL:        getEnvDuration("ARGUS_DECISION_TTL", 15*time.Minute),
		OverrideTTL:        getEnvDuration("ARGUS_OVERRIDE_TTL", 30*time.Minute),
		RecomputeBatchSize: getEnvInt("ARGUS_RECOMPUTE_BATCH", 500),
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}

	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			return d
		}
	}

	return fallback
}
