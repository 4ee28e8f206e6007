// Package enrichment augments a base relevance score for a URL with signals
// from independently unreliable sources. Providers are rate limited, timeout
// bounded and individually optional; any subset failing degrades the result
// to fewer adjustments, never to an error.
package enrichment

import "time"

// SiteType classifies the platform a URL is served from.
type SiteType string

const (
	SiteTypeShopify     SiteType = "shopify"
	SiteTypeWooCommerce SiteType = "woocommerce"
	SiteTypeCustom      SiteType = "custom"
	SiteTypeUnknown     SiteType = "unknown"
)

// ScoreAdjustment is a signed percentage-point delta attributed to one
// source. Immutable once created.
type ScoreAdjustment struct {
	Source     string  `json:"source"`
	Adjustment float64 `json:"adjustment"`
	Reason     string  `json:"reason"`
}

// Signals carries flags gathered incidentally during enrichment. All fields
// are optional; absent means the corresponding source did not report.
// HasFunding and Rating are reserved for funding and review providers.
type Signals struct {
	Trending         *bool    `json:"trending,omitempty"`
	PlatformDetected *bool    `json:"platform_detected,omitempty"`
	HasFunding       *bool    `json:"has_funding,omitempty"`
	Rating           *float64 `json:"rating,omitempty"`
	DomainAgeYears   *float64 `json:"domain_age_years,omitempty"`
}

// EnrichedResult is the outcome of enriching one URL. Never mutated after
// creation; the invariant EnrichedScore == BaseScore + sum(Adjustments)
// holds for every result the engine returns.
type EnrichedResult struct {
	URL           string            `json:"url"`
	BaseScore     float64           `json:"base_score"`
	EnrichedScore float64           `json:"enriched_score"`
	Adjustments   []ScoreAdjustment `json:"adjustments"`
	SiteType      SiteType          `json:"site_type"`
	Signals       Signals           `json:"signals"`
	ComputedAt    time.Time         `json:"computed_at"`
}

// TotalAdjustment sums the adjustment deltas in order.
func (r *EnrichedResult) TotalAdjustment() float64 {
	var total float64
	for _, adj := range r.Adjustments {
		total += adj.Adjustment
	}
	return total
}
