// Package bruteforce tracks failed authentication attempts per source
// address and declares a temporary block once a threshold of failures lands
// inside a sliding window. State is process-local and owned by the Guard;
// inject one instance into whatever needs it instead of reaching for
// globals.
package bruteforce

import (
	"sync"
	"time"
)

const (
	// DefaultWindow is how far back failures count against an address.
	DefaultWindow = 300 * time.Second

	// DefaultMaxFailures is the number of in-window failures that triggers
	// a block.
	DefaultMaxFailures = 5
)

// Guard is a sliding-window failed-attempt ledger keyed by client network
// address. Safe for concurrent use.
type Guard struct {
	window time.Duration
	max    int

	mu       sync.Mutex
	failures map[string][]time.Time

	now func() time.Time // swappable for tests
}

// New creates a Guard. Non-positive window or max fall back to the defaults.
func New(window time.Duration, max int) *Guard {
	if window <= 0 {
		window = DefaultWindow
	}
	if max <= 0 {
		max = DefaultMaxFailures
	}
	return &Guard{
		window:   window,
		max:      max,
		failures: make(map[string][]time.Time),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RecordFailure appends a failure timestamp for addr.
func (g *Guard) RecordFailure(addr string) {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	g.failures[addr] = append(g.pruneLocked(addr, now), now)
}

// Blocked reports whether addr has reached the failure threshold within the
// window. Entries older than the window are discarded before counting.
func (g *Guard) Blocked(addr string) bool {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	recent := g.pruneLocked(addr, now)
	if len(recent) == 0 {
		delete(g.failures, addr)
		return false
	}
	g.failures[addr] = recent

	return len(recent) >= g.max
}

// RetryAfter returns how long until addr's oldest in-window failure ages
// out. Zero when the address is not blocked.
func (g *Guard) RetryAfter(addr string) time.Duration {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	recent := g.pruneLocked(addr, now)
	if len(recent) < g.max {
		return 0
	}

	d := g.window - now.Sub(recent[0])
	if d < 0 {
		return 0
	}
	return d
}

// Reset clears the failure history for addr. Call it after a successful
// authentication.
func (g *Guard) Reset(addr string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.failures, addr)
}

// pruneLocked returns addr's failures still inside the window. Caller holds
// g.mu.
func (g *Guard) pruneLocked(addr string, now time.Time) []time.Time {
	all := g.failures[addr]
	cutoff := now.Add(-g.window)

	// Timestamps are appended in order, so find the first one still inside
	// the window and keep the tail.
	i := 0
	for i < len(all) && !all[i].After(cutoff) {
		i++
	}
	return all[i:]
}
