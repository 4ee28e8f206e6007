package discovery

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubTransport serves canned responses keyed by request path, regardless of
// host, so https probes never touch the network.
type stubTransport struct {
	status map[string]int
	body   map[string]string
}

func (s stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	status, ok := s.status[req.URL.Path]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(s.body[req.URL.Path])),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func TestValidateDomain(t *testing.T) {
	tests := []struct {
		domain string
		valid  bool
	}{
		{"shop.com", true},
		{"my-shop.co.uk", true},
		{"getfit.io", true},
		{"shop", false},
		{"-shop.com", false},
		{"shop-.com", false},
		{"Shop.com", false},
		{"sh op.com", false},
		{"a.b", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateDomain(tt.domain))
		})
	}
}

func TestTLDVariations(t *testing.T) {
	assert.Equal(t, []string{"shop.com", "shop.us"}, TLDVariations("shop", "us"))

	// Unknown regions fall back to the global TLD set.
	assert.Equal(t, []string{"shop.com", "shop.io", "shop.co"}, TLDVariations("shop", "mars"))
}

func TestParseRobots(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		allowed bool
	}{
		{"empty file", "", true},
		{"wildcard blocks root", "User-agent: *\nDisallow: /\n", false},
		{"wildcard blocks subpath only", "User-agent: *\nDisallow: /admin\n", true},
		{"other agent blocked", "User-agent: BadBot\nDisallow: /\n\nUser-agent: *\nDisallow:\n", true},
		{"our agent blocked", "User-agent: score-enricher\nDisallow: /\n", false},
		{"comments and blanks ignored", "# nothing to see\n\nUser-agent: *\nDisallow: /private\n", true},
		{"malformed lines ignored", "garbage line\nUser-agent *\nDisallow /\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, parseRobots(tt.body))
		})
	}
}

func TestRobotsAllowed(t *testing.T) {
	t.Run("blocking robots file", func(t *testing.T) {
		client := &http.Client{Transport: stubTransport{
			status: map[string]int{"/robots.txt": http.StatusOK},
			body:   map[string]string{"/robots.txt": "User-agent: *\nDisallow: /\n"},
		}}
		assert.False(t, RobotsAllowed(context.Background(), client, "shop.com"))
	})

	t.Run("missing robots file allows", func(t *testing.T) {
		client := &http.Client{Transport: stubTransport{
			status: map[string]int{"/robots.txt": http.StatusNotFound},
		}}
		assert.True(t, RobotsAllowed(context.Background(), client, "shop.com"))
	})

	t.Run("unreachable host allows", func(t *testing.T) {
		client := &http.Client{Transport: stubTransport{}}
		assert.True(t, RobotsAllowed(context.Background(), client, "shop.com"))
	})
}

func TestReachable(t *testing.T) {
	t.Run("200 is reachable", func(t *testing.T) {
		client := &http.Client{Transport: stubTransport{
			status: map[string]int{"/": http.StatusOK},
		}}
		assert.True(t, Reachable(context.Background(), client, "shop.com"))
	})

	t.Run("301 is reachable", func(t *testing.T) {
		client := &http.Client{
			Transport: stubTransport{status: map[string]int{"/": http.StatusMovedPermanently}},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
		assert.True(t, Reachable(context.Background(), client, "shop.com"))
	})

	t.Run("500 is not reachable", func(t *testing.T) {
		client := &http.Client{Transport: stubTransport{
			status: map[string]int{"/": http.StatusInternalServerError},
		}}
		assert.False(t, Reachable(context.Background(), client, "shop.com"))
	})

	t.Run("network error is not reachable", func(t *testing.T) {
		client := &http.Client{Transport: stubTransport{}}
		assert.False(t, Reachable(context.Background(), client, "shop.com"))
	})
}
