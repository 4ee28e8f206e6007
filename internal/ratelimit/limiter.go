// Package ratelimit provides per-source sliding-window admission control for
// enrichment providers sharing one engine instance.
package ratelimit

import (
	"sync"
	"time"

	"score-enricher/internal/common/errors"
)

// Window is the trailing interval admissions are counted over.
const Window = time.Hour

// Limiter tracks admission timestamps per source over a sliding window.
// It is safe for concurrent use: the prune-count-append sequence runs as a
// single critical section so two racing callers can never both be admitted
// past the limit.
type Limiter struct {
	mu       sync.Mutex
	window   time.Duration
	requests map[string][]time.Time
	now      func() time.Time
}

// NewLimiter creates a limiter with a one-hour sliding window.
func NewLimiter() *Limiter {
	return &Limiter{
		window:   Window,
		requests: make(map[string][]time.Time),
		now:      time.Now,
	}
}

// Admit records one request for source if fewer than limitPerHour admissions
// fall within the trailing window. A denial returns a rate_limit typed error
// and records nothing.
func (l *Limiter) Admit(source string, limitPerHour int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	timestamps := l.requests[source]

	// Lazily trim entries that fell out of the window
	kept := timestamps[:0]
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= limitPerHour {
		l.requests[source] = kept
		return errors.RateLimitError(source).WithContext("limit_per_hour", limitPerHour)
	}

	l.requests[source] = append(kept, now)
	return nil
}

// Remaining reports how many admissions source has left within the current
// window, given its hourly limit.
func (l *Limiter) Remaining(source string, limitPerHour int) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)

	used := 0
	for _, ts := range l.requests[source] {
		if ts.After(cutoff) {
			used++
		}
	}

	remaining := limitPerHour - used
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// Reset drops all recorded admissions for every source.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests = make(map[string][]time.Time)
}
