package enrichment

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// detectTimeout bounds the single site-type detection fetch.
const detectTimeout = 5 * time.Second

// Platform signature substrings, scanned in priority order: Shopify before
// WooCommerce before generic e-commerce markers.
var (
	detectShopifySignatures = []string{"cdn.shopify.com", "myshopify.com"}
	detectWooSignatures     = []string{"woocommerce", "wp-content/plugins/woocommerce"}
	detectCustomSignatures  = []string{"magento", "prestashop"}
)

// DetectSiteType fetches the URL body once and classifies the serving
// platform. Any fetch failure or timeout yields SiteTypeUnknown; detection
// never fails an enrichment call.
func DetectSiteType(ctx context.Context, client *http.Client, rawURL string) SiteType {
	fetchCtx, cancel := context.WithTimeout(ctx, detectTimeout)
	defer cancel()

	body, err := fetchBody(fetchCtx, client, rawURL)
	if err != nil {
		return SiteTypeUnknown
	}

	return classifyBody(body)
}

// classifyBody applies the signature lists in priority order, first match wins.
func classifyBody(body string) SiteType {
	for _, signature := range detectShopifySignatures {
		if strings.Contains(body, signature) {
			return SiteTypeShopify
		}
	}
	for _, signature := range detectWooSignatures {
		if strings.Contains(body, signature) {
			return SiteTypeWooCommerce
		}
	}
	for _, signature := range detectCustomSignatures {
		if strings.Contains(body, signature) {
			return SiteTypeCustom
		}
	}
	return SiteTypeUnknown
}
