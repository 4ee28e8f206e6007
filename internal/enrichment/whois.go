package enrichment

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"regexp"
	"time"
)

// creationDatePatterns are the alternative whois output formats we parse.
// The first pattern with a capture wins.
var creationDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`Creation Date:\s*(\d{4}-\d{2}-\d{2})`),
	regexp.MustCompile(`Created:\s*(\d{4}-\d{2}-\d{2})`),
	regexp.MustCompile(`created:\s*(\d{4}-\d{2}-\d{2})`),
}

// minDomainAgeYears is the registration age a domain must exceed to earn the
// age boost.
const minDomainAgeYears = 2.0

// LookupFunc performs a whois lookup for a host and returns the raw output.
type LookupFunc func(ctx context.Context, host string) (string, error)

// execWhois shells out to the system whois binary.
func execWhois(ctx context.Context, host string) (string, error) {
	out, err := exec.CommandContext(ctx, "whois", host).Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// WhoisProvider boosts domains whose registration age exceeds a threshold.
// A missing whois binary, lookup failure or unparsable output yields no
// adjustment.
type WhoisProvider struct {
	lookup LookupFunc
	boost  float64
	now    func() time.Time
}

// NewWhoisProvider creates a whois provider using the system whois binary.
func NewWhoisProvider(boost float64) *WhoisProvider {
	return &WhoisProvider{
		lookup: execWhois,
		boost:  boost,
		now:    time.Now,
	}
}

// Name returns the provider's source identifier.
func (p *WhoisProvider) Name() string {
	return SourceWhois
}

// Enrich looks up the host's registration record and emits a boost when the
// parsed creation date is older than the age threshold.
func (p *WhoisProvider) Enrich(ctx context.Context, target *url.URL) (*ScoreAdjustment, error) {
	output, err := p.lookup(ctx, target.Hostname())
	if err != nil {
		// Graceful fallback when whois is unavailable
		return nil, nil
	}

	created, ok := parseCreationDate(output)
	if !ok {
		return nil, nil
	}

	ageYears := p.now().Sub(created).Hours() / 24 / 365.25
	if ageYears <= minDomainAgeYears {
		return nil, nil
	}

	return &ScoreAdjustment{
		Source:     "Whois",
		Adjustment: p.boost,
		Reason:     fmt.Sprintf("Domain age: %.1f years", ageYears),
	}, nil
}

// parseCreationDate extracts a YYYY-MM-DD creation date from raw whois output.
func parseCreationDate(output string) (time.Time, bool) {
	for _, pattern := range creationDatePatterns {
		match := pattern.FindStringSubmatch(output)
		if match == nil {
			continue
		}
		created, err := time.Parse("2006-01-02", match[1])
		if err != nil {
			continue
		}
		return created.UTC(), true
	}
	return time.Time{}, false
}
