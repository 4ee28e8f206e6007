package enrichment

import (
	"context"
	"net/url"
	"strings"
)

// minTokenLength rejects trivially short host tokens ("www", TLDs).
const minTokenLength = 4

// TrendsProvider checks host keywords against a trending-terms list. It is a
// local heuristic standing in for a trends API; no network call is made.
type TrendsProvider struct {
	terms []string
	boost float64
}

// NewTrendsProvider creates a trends provider with the given term list and
// adjustment magnitude.
func NewTrendsProvider(terms []string, boost float64) *TrendsProvider {
	return &TrendsProvider{
		terms: terms,
		boost: boost,
	}
}

// Name returns the provider's source identifier.
func (p *TrendsProvider) Name() string {
	return SourceTrends
}

// Enrich splits the host into candidate keyword tokens and emits a boost
// when any token contains a trending term.
func (p *TrendsProvider) Enrich(ctx context.Context, target *url.URL) (*ScoreAdjustment, error) {
	host := target.Hostname()

	var keywords []string
	for _, token := range strings.Split(host, ".") {
		if len(token) >= minTokenLength {
			keywords = append(keywords, strings.ToLower(token))
		}
	}

	if len(keywords) == 0 {
		return nil, nil
	}

	for _, keyword := range keywords {
		for _, term := range p.terms {
			if strings.Contains(keyword, term) {
				return &ScoreAdjustment{
					Source:     "Google Trends",
					Adjustment: p.boost,
					Reason:     "Domain contains trending keywords",
				}, nil
			}
		}
	}

	return nil, nil
}
