// Package discovery generates candidate domains for a niche and region,
// filters them through robots and reachability policy, and caches what it
// found so repeated runs are cheap.
package discovery

import "sort"

// nicheSeeds maps each supported niche to its base name seeds.
var nicheSeeds = map[string][]string{
	"ecommerce": {"shop", "store", "boutique", "market", "outlet"},
	"saas":      {"app", "cloud", "platform", "suite", "stack"},
	"fintech":   {"pay", "wallet", "invest", "ledger", "fund"},
	"fitness":   {"fit", "gym", "train", "active", "coach"},
	"edtech":    {"learn", "academy", "course", "study", "tutor"},
}

// regionTLDs maps a region to the TLDs tried for it. Unknown regions fall
// back to the global set.
var regionTLDs = map[string][]string{
	"global": {".com", ".io", ".co"},
	"us":     {".com", ".us"},
	"uk":     {".co.uk", ".uk"},
	"eu":     {".eu", ".de", ".fr"},
	"asia":   {".sg", ".jp", ".in"},
}

// seedPrefixes and seedSuffixes expand each seed into name variations.
var (
	seedPrefixes = []string{"", "my", "get"}
	seedSuffixes = []string{"", "hub", "hq"}
)

// Niches returns the supported niche names in stable order.
func Niches() []string {
	names := make([]string, 0, len(nicheSeeds))
	for name := range nicheSeeds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SeedsFor returns the seed list for a niche.
func SeedsFor(niche string) ([]string, bool) {
	seeds, ok := nicheSeeds[niche]
	return seeds, ok
}

// TLDsFor returns the TLDs tried for a region, defaulting to the global set.
func TLDsFor(region string) []string {
	if tlds, ok := regionTLDs[region]; ok {
		return tlds
	}
	return regionTLDs["global"]
}

// variations expands one seed into candidate names. The bare seed comes
// first; duplicates never arise because prefixes and suffixes are distinct.
func variations(seed string) []string {
	names := make([]string, 0, len(seedPrefixes)*len(seedSuffixes))
	for _, prefix := range seedPrefixes {
		for _, suffix := range seedSuffixes {
			names = append(names, prefix+seed+suffix)
		}
	}
	return names
}
