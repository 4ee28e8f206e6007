package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNiches(t *testing.T) {
	niches := Niches()
	assert.Equal(t, []string{"ecommerce", "edtech", "fintech", "fitness", "saas"}, niches)
}

func TestSeedsFor(t *testing.T) {
	seeds, ok := SeedsFor("ecommerce")
	require.True(t, ok)
	assert.Contains(t, seeds, "shop")

	_, ok = SeedsFor("astrology")
	assert.False(t, ok)
}

func TestVariations(t *testing.T) {
	names := variations("fit")

	assert.Equal(t, "fit", names[0])
	assert.Contains(t, names, "myfit")
	assert.Contains(t, names, "getfithub")
	assert.Len(t, names, len(seedPrefixes)*len(seedSuffixes))

	// No duplicates in the expansion.
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		assert.False(t, seen[name], "duplicate variation %q", name)
		seen[name] = true
	}
}
