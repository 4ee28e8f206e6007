package enrichment

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Source identifiers used for rate limiting and signal attribution.
const (
	SourceTrends  = "google_trends"
	SourceShopify = "shopify"
	SourceWhois   = "whois"
)

// maxBodyBytes bounds how much of a response body a provider will scan.
const maxBodyBytes = 1 << 20

// Provider is a single external-signal integration. Enrich either produces
// one score adjustment or nil for "no signal". Operational failures (network
// timeouts, bad responses, missing external tools) must resolve to
// (nil, nil), not an error; returned errors are logged and otherwise treated
// the same as no adjustment.
type Provider interface {
	// Name returns the provider's source identifier.
	Name() string

	// Enrich inspects target under the deadline carried by ctx.
	Enrich(ctx context.Context, target *url.URL) (*ScoreAdjustment, error)
}

// fetchBody issues a single GET for rawURL and returns up to maxBodyBytes of
// the response body. Non-2xx statuses are errors so callers treat them as
// "no signal".
func fetchBody(ctx context.Context, client *http.Client, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}

	return string(body), nil
}
