package discovery

import (
	"context"
	"net/http"
	"time"

	"score-enricher/internal/common/errors"
	"score-enricher/internal/common/logging"
)

// Relevance scoring for generated candidates. Unreachable domains are kept
// but demoted so downstream consumers can still inspect them.
const (
	baseRelevance        = 50.0
	reachableBonus       = 20.0
	unreachablePenalty   = 25.0
	robotsBlockedPenalty = 10.0
)

// Discoverer generates, checks and caches candidate domains.
type Discoverer struct {
	store  *Store
	client *http.Client
	logger logging.Logger
	now    func() time.Time

	// Policy probes, swappable in tests.
	robotsAllowed func(ctx context.Context, domain string) bool
	reachable     func(ctx context.Context, domain string) bool
}

// NewDiscoverer creates a discoverer over the given cache store. A nil
// client gets a default HTTP client.
func NewDiscoverer(store *Store, client *http.Client) (*Discoverer, error) {
	if store == nil {
		return nil, errors.ConfigError("discoverer requires a cache store")
	}
	if client == nil {
		client = &http.Client{}
	}

	d := &Discoverer{
		store:  store,
		client: client,
		logger: logging.GetGlobalLogger().WithFields(logging.String("component", "discovery")),
		now:    time.Now,
	}
	d.robotsAllowed = func(ctx context.Context, domain string) bool {
		return RobotsAllowed(ctx, d.client, domain)
	}
	d.reachable = func(ctx context.Context, domain string) bool {
		return Reachable(ctx, d.client, domain)
	}
	return d, nil
}

// Discover returns up to limit candidates for a niche and region, best
// first. Cached candidates are served as-is; otherwise candidates are
// generated from the niche seeds, checked against robots and reachability
// policy, cached and returned.
func (d *Discoverer) Discover(ctx context.Context, niche, region string, limit int) ([]Candidate, error) {
	_, ok := SeedsFor(niche)
	if !ok {
		return nil, errors.ValidationError("unknown niche: " + niche)
	}
	if limit < 1 {
		return nil, errors.ValidationError("limit must be positive")
	}

	cached, err := d.store.Find(ctx, niche, region)
	if err != nil {
		d.logger.Warn("Discovery cache read failed, regenerating",
			logging.NamedError("cache_error", err),
		)
	}
	if len(cached) > 0 {
		d.logger.Debug("Discovery cache hit",
			logging.String("niche", niche),
			logging.String("region", region),
			logging.Int("candidates", len(cached)),
		)
		return capCandidates(cached, limit), nil
	}

	candidates := d.generate(ctx, niche, region, limit)

	if err := d.store.Save(ctx, candidates); err != nil {
		d.logger.Warn("Discovery cache write failed",
			logging.NamedError("cache_error", err),
		)
	}

	return candidates, nil
}

// generate expands seeds into domains and applies the policy probes until
// limit candidates are collected.
func (d *Discoverer) generate(ctx context.Context, niche, region string, limit int) []Candidate {
	seeds, _ := SeedsFor(niche)
	discoveredAt := d.now().UTC()

	var candidates []Candidate
	for _, seed := range seeds {
		for _, name := range variations(seed) {
			for _, domain := range TLDVariations(name, region) {
				if len(candidates) >= limit {
					return candidates
				}
				if !ValidateDomain(domain) {
					continue
				}
				if ctx.Err() != nil {
					return candidates
				}

				candidates = append(candidates, d.check(ctx, niche, region, domain, discoveredAt))
			}
		}
	}

	return candidates
}

// check runs the policy probes for one domain and scores it.
func (d *Discoverer) check(ctx context.Context, niche, region, domain string, discoveredAt time.Time) Candidate {
	score := baseRelevance

	allowed := d.robotsAllowed(ctx, domain)
	if !allowed {
		score -= robotsBlockedPenalty
	}

	if d.reachable(ctx, domain) {
		score += reachableBonus
	} else {
		score -= unreachablePenalty
	}

	return Candidate{
		Domain:         domain,
		Niche:          niche,
		Region:         region,
		RelevanceScore: score,
		RobotsAllowed:  allowed,
		DiscoveredAt:   discoveredAt,
	}
}

func capCandidates(candidates []Candidate, limit int) []Candidate {
	if len(candidates) > limit {
		return candidates[:limit]
	}
	return candidates
}
