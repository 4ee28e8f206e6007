package enrichment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"score-enricher/internal/cache"
	"score-enricher/internal/common/errors"
	"score-enricher/internal/common/logging"
	"score-enricher/internal/config"
	"score-enricher/internal/ratelimit"
)

const userAgent = "score-enricher/1.0"

// rosterEntry binds a provider to its configuration and signal effect.
type rosterEntry struct {
	provider     Provider
	cfg          config.ProviderConfig
	applySignals func(*Signals)
}

// Engine orchestrates enrichment for one process: it owns the rate limiter,
// the result cache and a fixed roster of providers. One Engine instance is
// shared by concurrent enrichment calls.
type Engine struct {
	cfg     *config.Config
	store   cache.Store
	limiter *ratelimit.Limiter
	client  *http.Client
	roster  []rosterEntry
	logger  logging.Logger
	now     func() time.Time
}

// NewEngine creates an engine over the given cache store. A nil limiter gets
// a fresh one; a nil client gets a default HTTP client. Construction fails on
// invalid configuration or an unusable store; those are the only fatal errors
// in this package.
func NewEngine(cfg *config.Config, store cache.Store, limiter *ratelimit.Limiter, client *http.Client) (*Engine, error) {
	if cfg == nil {
		return nil, errors.ConfigError("enrichment engine requires a configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.ConfigError("enrichment engine requires a cache store")
	}
	if err := store.Health(); err != nil {
		return nil, errors.ConfigError("cache store is not usable: " + err.Error())
	}

	if limiter == nil {
		limiter = ratelimit.NewLimiter()
	}
	if client == nil {
		client = &http.Client{}
	}

	engine := &Engine{
		cfg:     cfg,
		store:   store,
		limiter: limiter,
		client:  client,
		logger:  logging.GetGlobalLogger().WithFields(logging.String("component", "enrichment_engine")),
		now:     time.Now,
	}

	// Roster order is fixed: trends, shopify detection, whois
	engine.roster = []rosterEntry{
		{
			provider: NewTrendsProvider(cfg.TrendingTerms, cfg.TrendingBoost),
			cfg:      cfg.Trends,
			applySignals: func(s *Signals) {
				trending := true
				s.Trending = &trending
			},
		},
		{
			provider: NewShopifyProvider(client, cfg.PlatformBoost),
			cfg:      cfg.Shopify,
			applySignals: func(s *Signals) {
				detected := true
				s.PlatformDetected = &detected
			},
		},
		{
			provider:     NewWhoisProvider(cfg.DomainAgeBoost),
			cfg:          cfg.Whois,
			applySignals: func(s *Signals) {},
		},
	}

	return engine, nil
}

// EnrichURL enriches one (url, baseScore) pair. The only error condition is a
// malformed input URL; provider and cache failures degrade to fewer
// adjustments. Results are served verbatim from cache within the TTL.
func (e *Engine) EnrichURL(ctx context.Context, rawURL string, baseScore float64) (*EnrichedResult, error) {
	target, err := parseTarget(rawURL)
	if err != nil {
		return nil, err
	}

	if cached := e.cacheLookup(ctx, rawURL); cached != nil {
		e.logger.Debug("Cache hit", logging.String("url", rawURL))
		return cached, nil
	}

	result := &EnrichedResult{
		URL:         rawURL,
		BaseScore:   baseScore,
		Adjustments: []ScoreAdjustment{},
	}

	result.SiteType = DetectSiteType(ctx, e.client, rawURL)

	for _, entry := range e.roster {
		if !entry.cfg.Enabled {
			continue
		}

		if err := e.limiter.Admit(entry.provider.Name(), entry.cfg.RateLimitPerHour); err != nil {
			e.logger.Debug("Provider skipped: rate limited",
				logging.String("source", entry.provider.Name()),
			)
			continue
		}

		adj := e.runProvider(ctx, entry, target)
		if adj == nil {
			continue
		}

		result.Adjustments = append(result.Adjustments, *adj)
		entry.applySignals(&result.Signals)
	}

	result.EnrichedScore = baseScore + result.TotalAdjustment()
	result.ComputedAt = e.now().UTC()

	e.cacheWrite(ctx, rawURL, result)

	return result, nil
}

// runProvider invokes one provider under its configured timeout. Errors are
// absorbed: an enrichment call never fails because a provider did.
func (e *Engine) runProvider(ctx context.Context, entry rosterEntry, target *url.URL) *ScoreAdjustment {
	provCtx, cancel := context.WithTimeout(ctx, entry.cfg.Timeout())
	defer cancel()

	adj, err := entry.provider.Enrich(provCtx, target)
	if err != nil {
		e.logger.Debug("Provider failed",
			logging.String("source", entry.provider.Name()),
			logging.Err(err),
		)
		return nil
	}
	return adj
}

// cacheLookup returns the decoded cached result for rawURL, or nil on miss.
// Store errors and corrupt payloads are both treated as misses.
func (e *Engine) cacheLookup(ctx context.Context, rawURL string) *EnrichedResult {
	payload, hit, err := e.store.Get(ctx, rawURL)
	if err != nil {
		e.logger.Warn("Cache read failed, treating as miss",
			logging.String("url", rawURL),
			logging.NamedError("cache_error", err),
		)
		return nil
	}
	if !hit {
		return nil
	}

	var cached EnrichedResult
	if err := json.Unmarshal(payload, &cached); err != nil {
		e.logger.Warn("Corrupt cache record, treating as miss",
			logging.String("url", rawURL),
		)
		return nil
	}
	return &cached
}

// cacheWrite persists the result best-effort; failures are logged and dropped.
func (e *Engine) cacheWrite(ctx context.Context, rawURL string, result *EnrichedResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		e.logger.Warn("Failed to encode result for cache", logging.Err(err))
		return
	}
	if err := e.store.Set(ctx, rawURL, payload); err != nil {
		e.logger.Warn("Cache write failed",
			logging.String("url", rawURL),
			logging.NamedError("cache_error", err),
		)
	}
}

// BatchItem is the outcome of enriching one URL within a batch.
type BatchItem struct {
	URL    string          `json:"url"`
	Result *EnrichedResult `json:"result,omitempty"`
	Err    error           `json:"-"`
}

// EnrichAll enriches many URLs over a bounded worker pool sharing this
// engine. Results are returned in input order.
func (e *Engine) EnrichAll(ctx context.Context, urls []string, baseScore float64) []BatchItem {
	items := make([]BatchItem, len(urls))

	workers := e.cfg.DownloadMaxConcurrent
	if workers > len(urls) {
		workers = len(urls)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				result, err := e.EnrichURL(ctx, urls[i], baseScore)
				items[i] = BatchItem{URL: urls[i], Result: result, Err: err}
			}
		}()
	}

	for i := range urls {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return items
}

// parseTarget validates the input URL. Without a parseable host no provider
// or detection step is meaningful, so this is the one failure that reaches
// the caller.
func parseTarget(rawURL string) (*url.URL, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.ValidationError("malformed URL: " + rawURL)
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return nil, errors.ValidationError("URL must use http or https: " + rawURL)
	}
	if target.Hostname() == "" {
		return nil, errors.ValidationError("URL has no host: " + rawURL)
	}
	return target, nil
}
