package discovery

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// probeTimeout bounds each robots fetch and reachability probe.
const probeTimeout = 5 * time.Second

const probeUserAgent = "score-enricher/1.0"

// domainPattern accepts lowercase hostnames with at least one dot. Labels
// may not start or end with a hyphen.
var domainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?(\.[a-z0-9]([a-z0-9-]*[a-z0-9])?)+$`)

// ValidateDomain reports whether domain is a plausible registrable hostname.
func ValidateDomain(domain string) bool {
	if len(domain) < 4 || len(domain) > 253 {
		return false
	}
	return domainPattern.MatchString(domain)
}

// TLDVariations joins a bare name with every TLD tried for the region.
func TLDVariations(name, region string) []string {
	tlds := TLDsFor(region)
	domains := make([]string, 0, len(tlds))
	for _, tld := range tlds {
		domains = append(domains, name+tld)
	}
	return domains
}

// RobotsAllowed fetches https://domain/robots.txt and reports whether
// crawling the root is permitted. The parse is permissive: only an explicit
// "Disallow: /" under a matching user-agent section blocks; an unreachable
// or malformed robots file allows.
func RobotsAllowed(ctx context.Context, client *http.Client, domain string) bool {
	fetchCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, "https://"+domain+"/robots.txt", nil)
	if err != nil {
		return true
	}
	req.Header.Set("User-Agent", probeUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return true
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return true
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return true
	}

	return parseRobots(string(body))
}

// parseRobots scans robots.txt text and reports whether the root path is
// allowed for our agent or the wildcard agent.
func parseRobots(body string) bool {
	sectionApplies := false

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "user-agent":
			sectionApplies = value == "*" || strings.Contains(probeUserAgent, value)
		case "disallow":
			if sectionApplies && value == "/" {
				return false
			}
		}
	}

	return true
}

// Reachable probes https://domain/ with a HEAD request. Any 2xx or 3xx
// response counts as reachable.
func Reachable(ctx context.Context, client *http.Client, domain string) bool {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodHead, "https://"+domain+"/", nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", probeUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 400
}
