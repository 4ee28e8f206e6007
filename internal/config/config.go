// Package config provides configuration management for the score enricher.
// It handles loading configuration from environment variables with sensible
// defaults and validates the configuration to ensure the engine starts safely.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//   - ADMIN_JWT_SECRET: Secret for admin endpoint bearer tokens (optional,
//     minimum 32 characters when set; admin endpoints are open when unset)
//
// Enrichment Providers (one block per provider):
//   - TRENDS_ENABLED / SHOPIFY_DETECTION_ENABLED / WHOIS_ENABLED: Feature flags
//   - TRENDS_RATE_LIMIT_PER_HOUR / SHOPIFY_RATE_LIMIT_PER_HOUR / WHOIS_RATE_LIMIT_PER_HOUR
//   - TRENDS_TIMEOUT_SECONDS / SHOPIFY_TIMEOUT_SECONDS / WHOIS_TIMEOUT_SECONDS
//   - TRENDING_TERMS: Comma-separated trending keyword list
//
// Scoring:
//   - SCORE_TRENDING_BOOST: Points for a trending domain (default: 20)
//   - SCORE_PLATFORM_BOOST: Points for a detected Shopify store (default: 15)
//   - SCORE_DOMAIN_AGE_BOOST: Points for a domain older than the age threshold (default: 5)
//
// Cache:
//   - CACHE_BACKEND: "sqlite" or "redis" (default: sqlite)
//   - CACHE_STORE_PATH: SQLite database file path (default: ./enrichment_cache.db)
//   - CACHE_TTL_HOURS: Result time-to-live in hours (default: 168)
//   - CACHE_SWEEP_SCHEDULE: Cron spec for expired-row sweeps (empty disables)
//   - REDIS_ADDRESS / REDIS_PASSWORD / REDIS_DB: Redis backend settings
//
// Bulk Downloads:
//   - DOWNLOAD_MAX_CONCURRENT: Worker pool size (default: 100)
//   - DOWNLOAD_TIMEOUT_SECONDS: Per-request timeout (default: 30)
//   - DOWNLOAD_MAX_RETRIES: Retries per URL (default: 3)
package config

import (
	"strconv"
	"strings"
	"time"

	"os"

	"score-enricher/internal/common/errors"
)

// Backend names for the result cache store.
const (
	CacheBackendSQLite = "sqlite"
	CacheBackendRedis  = "redis"
)

// ProviderConfig holds the per-provider settings every enrichment source carries.
type ProviderConfig struct {
	Enabled          bool
	RateLimitPerHour int
	TimeoutSeconds   int
}

// Timeout returns the provider timeout as a duration.
func (p ProviderConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// Config holds all configuration values for the score enricher.
type Config struct {
	// Application settings
	Port           string
	LogLevel       string
	AdminJWTSecret string

	// Enrichment providers
	Trends  ProviderConfig
	Shopify ProviderConfig
	Whois   ProviderConfig

	// Trending keyword fixture, overridable for tests and deployments
	TrendingTerms []string

	// Scoring magnitudes (percentage points)
	TrendingBoost  float64
	PlatformBoost  float64
	DomainAgeBoost float64

	// Result cache
	CacheBackend       string
	CacheStorePath     string
	CacheTTLHours      int
	CacheSweepSchedule string
	RedisAddress       string
	RedisPassword      string
	RedisDB            string

	// Bulk downloader
	DownloadMaxConcurrent  int
	DownloadTimeoutSeconds int
	DownloadMaxRetries     int
}

// Load creates a new Config instance with values loaded from environment
// variables. It does not validate - call Validate() on the returned Config.
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		Trends: ProviderConfig{
			Enabled:          getBoolEnv("TRENDS_ENABLED", true),
			RateLimitPerHour: getIntEnv("TRENDS_RATE_LIMIT_PER_HOUR", 100),
			TimeoutSeconds:   getIntEnv("TRENDS_TIMEOUT_SECONDS", 10),
		},
		Shopify: ProviderConfig{
			Enabled:          getBoolEnv("SHOPIFY_DETECTION_ENABLED", true),
			RateLimitPerHour: getIntEnv("SHOPIFY_RATE_LIMIT_PER_HOUR", 200),
			TimeoutSeconds:   getIntEnv("SHOPIFY_TIMEOUT_SECONDS", 5),
		},
		Whois: ProviderConfig{
			Enabled:          getBoolEnv("WHOIS_ENABLED", true),
			RateLimitPerHour: getIntEnv("WHOIS_RATE_LIMIT_PER_HOUR", 50),
			TimeoutSeconds:   getIntEnv("WHOIS_TIMEOUT_SECONDS", 15),
		},

		TrendingTerms: getListEnv("TRENDING_TERMS", []string{"ai", "tech", "crypto", "shop", "store", "market"}),

		TrendingBoost:  getFloatEnv("SCORE_TRENDING_BOOST", 20.0),
		PlatformBoost:  getFloatEnv("SCORE_PLATFORM_BOOST", 15.0),
		DomainAgeBoost: getFloatEnv("SCORE_DOMAIN_AGE_BOOST", 5.0),

		CacheBackend:       getEnv("CACHE_BACKEND", CacheBackendSQLite),
		CacheStorePath:     getEnv("CACHE_STORE_PATH", "./enrichment_cache.db"),
		CacheTTLHours:      getIntEnv("CACHE_TTL_HOURS", 168),
		CacheSweepSchedule: getEnv("CACHE_SWEEP_SCHEDULE", ""),
		RedisAddress:       getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnv("REDIS_DB", "0"),

		DownloadMaxConcurrent:  getIntEnv("DOWNLOAD_MAX_CONCURRENT", 100),
		DownloadTimeoutSeconds: getIntEnv("DOWNLOAD_TIMEOUT_SECONDS", 30),
		DownloadMaxRetries:     getIntEnv("DOWNLOAD_MAX_RETRIES", 3),
	}
}

// CacheTTL returns the configured cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLHours) * time.Hour
}

// Validate performs validation on the configuration. The engine refuses to
// start on any validation failure.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return errors.ConfigError("PORT must be a valid port number between 1 and 65535")
	}

	if c.AdminJWTSecret != "" && len(c.AdminJWTSecret) < 32 {
		return errors.ConfigError("ADMIN_JWT_SECRET must be at least 32 characters long when set")
	}

	for _, p := range []struct {
		name string
		cfg  ProviderConfig
	}{
		{"TRENDS", c.Trends},
		{"SHOPIFY", c.Shopify},
		{"WHOIS", c.Whois},
	} {
		if !p.cfg.Enabled {
			continue
		}
		if p.cfg.RateLimitPerHour < 1 {
			return errors.ConfigError(p.name + "_RATE_LIMIT_PER_HOUR must be a positive number")
		}
		if p.cfg.TimeoutSeconds < 1 {
			return errors.ConfigError(p.name + "_TIMEOUT_SECONDS must be a positive number")
		}
	}

	switch c.CacheBackend {
	case CacheBackendSQLite:
		if c.CacheStorePath == "" {
			return errors.ConfigError("CACHE_STORE_PATH is required when using the sqlite cache backend")
		}
	case CacheBackendRedis:
		if c.RedisAddress == "" {
			return errors.ConfigError("REDIS_ADDRESS is required when using the redis cache backend")
		}
		if db, err := strconv.Atoi(c.RedisDB); err != nil || db < 0 || db > 15 {
			return errors.ConfigError("REDIS_DB must be a number between 0 and 15")
		}
	default:
		return errors.ConfigError("CACHE_BACKEND must be 'sqlite' or 'redis'")
	}

	if c.CacheTTLHours < 1 {
		return errors.ConfigError("CACHE_TTL_HOURS must be a positive number")
	}

	if c.DownloadMaxConcurrent < 1 {
		return errors.ConfigError("DOWNLOAD_MAX_CONCURRENT must be a positive number")
	}
	if c.DownloadTimeoutSeconds < 1 {
		return errors.ConfigError("DOWNLOAD_TIMEOUT_SECONDS must be a positive number")
	}
	if c.DownloadMaxRetries < 0 {
		return errors.ConfigError("DOWNLOAD_MAX_RETRIES must not be negative")
	}

	return nil
}

// getEnv retrieves an environment variable value or returns a default value if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv retrieves a boolean environment variable or returns a default value.
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getIntEnv retrieves an integer environment variable or returns a default value.
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getFloatEnv retrieves a float environment variable or returns a default value.
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getListEnv retrieves a comma-separated environment variable as a slice.
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
