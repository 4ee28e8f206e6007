package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// timeLayout is the stored createdAt format. RFC3339 in UTC compares
// lexicographically, which the expiry queries rely on.
const timeLayout = time.RFC3339

// SQLiteStore persists enrichment results in a local SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewSQLiteStore opens (or creates) the database at path and runs migrations.
// An unreachable or unwritable store fails construction.
func NewSQLiteStore(path string, ttl time.Duration) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}

	store := &SQLiteStore{
		db:  db,
		ttl: ttl,
		now: time.Now,
	}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate cache database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS enrichment_cache (
			url_hash TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			payload TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_enrichment_cache_created_at ON enrichment_cache(created_at)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the cached payload for url if it is younger than the TTL.
// Stale records are left in place; the next Set overwrites them.
func (s *SQLiteStore) Get(ctx context.Context, url string) ([]byte, bool, error) {
	cutoff := s.now().UTC().Add(-s.ttl).Format(timeLayout)

	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM enrichment_cache WHERE url_hash = ? AND created_at > ?`,
		HashURL(url), cutoff,
	).Scan(&payload)

	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return []byte(payload), true, nil
}

// Set upserts the payload for url keyed by its digest.
func (s *SQLiteStore) Set(ctx context.Context, url string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO enrichment_cache (url_hash, url, payload, created_at)
		 VALUES (?, ?, ?, ?)`,
		HashURL(url), url, string(payload), s.now().UTC().Format(timeLayout),
	)
	return err
}

// Reset drops and recreates the cache table.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DROP TABLE IF EXISTS enrichment_cache`); err != nil {
		return err
	}
	return s.migrate()
}

// Sweep deletes records past the TTL and reports how many were removed.
func (s *SQLiteStore) Sweep(ctx context.Context) (int64, error) {
	cutoff := s.now().UTC().Add(-s.ttl).Format(timeLayout)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM enrichment_cache WHERE created_at <= ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Stats reports row count and createdAt bounds across all records,
// including expired ones awaiting a sweep.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	var oldest, newest sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(created_at), MAX(created_at) FROM enrichment_cache`,
	).Scan(&stats.Entries, &oldest, &newest)
	if err != nil {
		return nil, err
	}

	if oldest.Valid {
		if ts, err := time.Parse(timeLayout, oldest.String); err == nil {
			stats.Oldest = &ts
		}
	}
	if newest.Valid {
		if ts, err := time.Parse(timeLayout, newest.String); err == nil {
			stats.Newest = &ts
		}
	}

	return stats, nil
}

// Health pings the underlying database.
func (s *SQLiteStore) Health() error {
	return s.db.Ping()
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
