package discovery

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const timeLayout = time.RFC3339

// Candidate is one discovered domain with its policy verdicts.
type Candidate struct {
	Domain         string    `json:"domain"`
	Niche          string    `json:"niche"`
	Region         string    `json:"region"`
	RelevanceScore float64   `json:"relevance_score"`
	RobotsAllowed  bool      `json:"robots_allowed"`
	DiscoveredAt   time.Time `json:"discovered_at"`
}

// Store persists discovered candidates so repeated discovery runs for the
// same niche and region read through instead of regenerating.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens (or creates) the discovery database at path and runs
// migrations.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open discovery database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping discovery database: %w", err)
	}

	store := &Store{
		db:  db,
		now: time.Now,
	}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate discovery database: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS discovery_cache (
			niche TEXT NOT NULL,
			region TEXT NOT NULL,
			domain TEXT NOT NULL,
			discovered_at TEXT NOT NULL,
			relevance_score REAL NOT NULL,
			robots_allowed INTEGER NOT NULL,
			PRIMARY KEY (niche, region, domain)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_discovery_cache_niche_region ON discovery_cache(niche, region)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// Save upserts candidates.
func (s *Store) Save(ctx context.Context, candidates []Candidate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO discovery_cache
		 (niche, region, domain, discovered_at, relevance_score, robots_allowed)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range candidates {
		discoveredAt := c.DiscoveredAt
		if discoveredAt.IsZero() {
			discoveredAt = s.now()
		}
		if _, err := stmt.ExecContext(ctx,
			c.Niche, c.Region, c.Domain,
			discoveredAt.UTC().Format(timeLayout),
			c.RelevanceScore, c.RobotsAllowed,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Find returns the cached candidates for a niche and region ordered by
// relevance, best first.
func (s *Store) Find(ctx context.Context, niche, region string) ([]Candidate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT niche, region, domain, discovered_at, relevance_score, robots_allowed
		 FROM discovery_cache
		 WHERE niche = ? AND region = ?
		 ORDER BY relevance_score DESC, domain ASC`,
		niche, region,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		var c Candidate
		var discoveredAt string
		if err := rows.Scan(&c.Niche, &c.Region, &c.Domain, &discoveredAt, &c.RelevanceScore, &c.RobotsAllowed); err != nil {
			return nil, err
		}
		if ts, err := time.Parse(timeLayout, discoveredAt); err == nil {
			c.DiscoveredAt = ts
		}
		candidates = append(candidates, c)
	}

	return candidates, rows.Err()
}

// Health pings the underlying database.
func (s *Store) Health() error {
	return s.db.Ping()
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
