package enrichment

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// shopifySignatures are literal substrings that identify a Shopify storefront.
// Package-level so tests can exercise detection against fixture bodies.
var shopifySignatures = []string{
	"cdn.shopify.com",
	"Shopify.theme",
	"shopify-analytics",
	"shopify_pay",
	"myshopify.com",
}

// ShopifyProvider fetches the URL once and scans the body for Shopify
// signatures. Fetch errors, timeouts and non-2xx responses all resolve to
// no adjustment.
type ShopifyProvider struct {
	client *http.Client
	boost  float64
}

// NewShopifyProvider creates a Shopify detection provider using the shared
// HTTP client.
func NewShopifyProvider(client *http.Client, boost float64) *ShopifyProvider {
	return &ShopifyProvider{
		client: client,
		boost:  boost,
	}
}

// Name returns the provider's source identifier.
func (p *ShopifyProvider) Name() string {
	return SourceShopify
}

// Enrich emits a boost when the response body carries any Shopify signature.
func (p *ShopifyProvider) Enrich(ctx context.Context, target *url.URL) (*ScoreAdjustment, error) {
	body, err := fetchBody(ctx, p.client, target.String())
	if err != nil {
		// Graceful fallback: an unreachable site is simply not a detected store
		return nil, nil
	}

	for _, signature := range shopifySignatures {
		if strings.Contains(body, signature) {
			return &ScoreAdjustment{
				Source:     "Shopify Detection",
				Adjustment: p.boost,
				Reason:     "Detected as Shopify store",
			}, nil
		}
	}

	return nil, nil
}
