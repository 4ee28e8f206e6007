// Package cache provides the time-bounded result cache used by the
// enrichment engine. Records are keyed by a SHA-256 digest of the raw URL and
// expire after a configured TTL, filtered at read time. Two backends are
// supported: a local SQLite store and a Redis store with native expiry.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"score-enricher/internal/common/errors"
	"score-enricher/internal/config"
)

// Stats describes the current cache contents for operators.
type Stats struct {
	Entries int64      `json:"entries"`
	Oldest  *time.Time `json:"oldest,omitempty"`
	Newest  *time.Time `json:"newest,omitempty"`
}

// Store is the result cache contract. Implementations deal in serialized
// payloads; the engine owns encoding and decoding.
type Store interface {
	// Get returns the payload cached for url if one exists and is younger
	// than the TTL. An expired or absent record is a miss, not an error.
	Get(ctx context.Context, url string) ([]byte, bool, error)

	// Set upserts the payload for url, overwriting any existing record
	// regardless of its TTL state.
	Set(ctx context.Context, url string, payload []byte) error

	// Reset drops every cached record.
	Reset(ctx context.Context) error

	// Sweep eagerly removes expired records and reports how many were dropped.
	Sweep(ctx context.Context) (int64, error)

	// Stats reports entry count and the createdAt bounds.
	Stats(ctx context.Context) (*Stats, error)

	Health() error
	Close() error
}

// HashURL computes the stable cache key for a URL.
func HashURL(rawURL string) string {
	digest := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(digest[:])
}

// NewStore creates the cache store selected by the configuration.
func NewStore(cfg *config.Config) (Store, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendSQLite:
		return NewSQLiteStore(cfg.CacheStorePath, cfg.CacheTTL())
	case config.CacheBackendRedis:
		db, err := strconv.Atoi(cfg.RedisDB)
		if err != nil {
			return nil, errors.ConfigError("REDIS_DB must be a number")
		}
		return NewRedisStore(cfg.RedisAddress, cfg.RedisPassword, db, cfg.CacheTTL())
	default:
		return nil, errors.ConfigError("unknown cache backend: " + cfg.CacheBackend)
	}
}
