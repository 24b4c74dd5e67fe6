package bruteforce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// withClock pins the guard's clock so tests can move time deterministically.
func withClock(g *Guard) *time.Time {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	g.now = func() time.Time { return now }
	return &now
}

func advance(g *Guard, now *time.Time, d time.Duration) {
	*now = now.Add(d)
	g.now = func() time.Time { return *now }
}

func TestGuard_BlocksAtThreshold(t *testing.T) {
	t.Parallel()
	g := New(300*time.Second, 5)
	withClock(g)

	for i := range 4 {
		g.RecordFailure("203.0.113.7")
		require.False(t, g.Blocked("203.0.113.7"), "attempt %d should not block", i+1)
	}

	g.RecordFailure("203.0.113.7")
	require.True(t, g.Blocked("203.0.113.7"), "fifth failure blocks")
	require.False(t, g.Blocked("203.0.113.8"), "other addresses unaffected")
}

func TestGuard_WindowExpiryUnblocks(t *testing.T) {
	t.Parallel()
	g := New(300*time.Second, 5)
	now := withClock(g)

	for range 5 {
		g.RecordFailure("203.0.113.7")
	}
	require.True(t, g.Blocked("203.0.113.7"))

	advance(g, now, 301*time.Second)
	require.False(t, g.Blocked("203.0.113.7"), "failures aged out of the window")
}

func TestGuard_SlidingWindowPrunesOldEntries(t *testing.T) {
	t.Parallel()
	g := New(300*time.Second, 5)
	now := withClock(g)

	// Three old failures, then two fresh ones after the old batch aged out:
	// never five inside one window.
	for range 3 {
		g.RecordFailure("203.0.113.7")
	}
	advance(g, now, 301*time.Second)
	for range 2 {
		g.RecordFailure("203.0.113.7")
	}

	require.False(t, g.Blocked("203.0.113.7"))
}

func TestGuard_ResetClearsHistory(t *testing.T) {
	t.Parallel()
	g := New(300*time.Second, 5)
	withClock(g)

	for range 5 {
		g.RecordFailure("203.0.113.7")
	}
	require.True(t, g.Blocked("203.0.113.7"))

	g.Reset("203.0.113.7")
	require.False(t, g.Blocked("203.0.113.7"))
}

func TestGuard_RetryAfter(t *testing.T) {
	t.Parallel()
	g := New(300*time.Second, 5)
	now := withClock(g)

	require.Zero(t, g.RetryAfter("203.0.113.7"))

	for range 5 {
		g.RecordFailure("203.0.113.7")
	}
	require.Equal(t, 300*time.Second, g.RetryAfter("203.0.113.7"))

	advance(g, now, 120*time.Second)
	require.Equal(t, 180*time.Second, g.RetryAfter("203.0.113.7"))
}

func TestGuard_Defaults(t *testing.T) {
	t.Parallel()
	g := New(0, 0)
	require.Equal(t, DefaultWindow, g.window)
	require.Equal(t, DefaultMaxFailures, g.max)
}

func TestGuard_ConcurrentAccess(t *testing.T) {
	t.Parallel()
	g := New(time.Minute, 100)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				g.RecordFailure("addr")
				g.Blocked("addr")
			}
		}()
	}
	wg.Wait()

	require.True(t, g.Blocked("addr"))
	g.Reset("addr")
	require.False(t, g.Blocked("addr"))
}
