package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"score-enricher/internal/common/errors"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)

	assert.True(t, cfg.Trends.Enabled)
	assert.Equal(t, 100, cfg.Trends.RateLimitPerHour)
	assert.Equal(t, 10, cfg.Trends.TimeoutSeconds)

	assert.True(t, cfg.Shopify.Enabled)
	assert.Equal(t, 200, cfg.Shopify.RateLimitPerHour)
	assert.Equal(t, 5, cfg.Shopify.TimeoutSeconds)

	assert.True(t, cfg.Whois.Enabled)
	assert.Equal(t, 50, cfg.Whois.RateLimitPerHour)
	assert.Equal(t, 15, cfg.Whois.TimeoutSeconds)

	assert.Equal(t, []string{"ai", "tech", "crypto", "shop", "store", "market"}, cfg.TrendingTerms)
	assert.Equal(t, 20.0, cfg.TrendingBoost)
	assert.Equal(t, 15.0, cfg.PlatformBoost)
	assert.Equal(t, 5.0, cfg.DomainAgeBoost)

	assert.Equal(t, CacheBackendSQLite, cfg.CacheBackend)
	assert.Equal(t, 168, cfg.CacheTTLHours)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TRENDS_ENABLED", "false")
	t.Setenv("SHOPIFY_RATE_LIMIT_PER_HOUR", "25")
	t.Setenv("SCORE_TRENDING_BOOST", "12.5")
	t.Setenv("TRENDING_TERMS", "vegan, organic ,eco")
	t.Setenv("CACHE_TTL_HOURS", "24")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.Trends.Enabled)
	assert.Equal(t, 25, cfg.Shopify.RateLimitPerHour)
	assert.Equal(t, 12.5, cfg.TrendingBoost)
	assert.Equal(t, []string{"vegan", "organic", "eco"}, cfg.TrendingTerms)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL())
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("TRENDS_RATE_LIMIT_PER_HOUR", "not-a-number")
	t.Setenv("WHOIS_ENABLED", "maybe")
	t.Setenv("SCORE_PLATFORM_BOOST", "abc")

	cfg := Load()

	assert.Equal(t, 100, cfg.Trends.RateLimitPerHour)
	assert.True(t, cfg.Whois.Enabled)
	assert.Equal(t, 15.0, cfg.PlatformBoost)
}

func TestValidate_Valid(t *testing.T) {
	cfg := Load()
	require.NoError(t, cfg.Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Port = "notaport" }},
		{"port out of range", func(c *Config) { c.Port = "70000" }},
		{"short jwt secret", func(c *Config) { c.AdminJWTSecret = "short" }},
		{"zero trends rate limit", func(c *Config) { c.Trends.RateLimitPerHour = 0 }},
		{"zero shopify timeout", func(c *Config) { c.Shopify.TimeoutSeconds = 0 }},
		{"unknown backend", func(c *Config) { c.CacheBackend = "memcached" }},
		{"empty sqlite path", func(c *Config) { c.CacheStorePath = "" }},
		{"zero ttl", func(c *Config) { c.CacheTTLHours = 0 }},
		{"zero download workers", func(c *Config) { c.DownloadMaxConcurrent = 0 }},
		{"negative retries", func(c *Config) { c.DownloadMaxRetries = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
		})
	}
}

func TestValidate_DisabledProviderSkipsChecks(t *testing.T) {
	cfg := Load()
	cfg.Whois.Enabled = false
	cfg.Whois.RateLimitPerHour = 0
	cfg.Whois.TimeoutSeconds = 0

	assert.NoError(t, cfg.Validate())
}

func TestValidate_RedisBackend(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := Load()
		cfg.CacheBackend = CacheBackendRedis
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing address", func(t *testing.T) {
		cfg := Load()
		cfg.CacheBackend = CacheBackendRedis
		cfg.RedisAddress = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad db number", func(t *testing.T) {
		cfg := Load()
		cfg.CacheBackend = CacheBackendRedis
		cfg.RedisDB = "16"
		assert.Error(t, cfg.Validate())
	})
}

func TestProviderConfig_Timeout(t *testing.T) {
	p := ProviderConfig{TimeoutSeconds: 7}
	assert.Equal(t, 7*time.Second, p.Timeout())
}
