package jwtx

import (
	"sync"
	"time"
)

// DefaultCacheSize bounds the verification cache. Past this many live
// entries, inserting a new token evicts an arbitrary existing one.
const DefaultCacheSize = 1024

// CachingVerifier wraps a Verifier with a bounded in-process cache keyed by
// the raw token string, so repeated requests with the same bearer token skip
// the signature check. Cached entries never bypass expiry: every hit
// re-checks exp/nbf against the clock, and expired entries are evicted on
// detection rather than swept proactively.
type CachingVerifier struct {
	inner Verifier

	mu      sync.Mutex
	entries map[string]Claims
	max     int
}

// NewCachingVerifier wraps inner with a cache holding at most max entries.
// max <= 0 selects DefaultCacheSize.
func NewCachingVerifier(inner Verifier, max int) *CachingVerifier {
	if max <= 0 {
		max = DefaultCacheSize
	}
	return &CachingVerifier{
		inner:   inner,
		entries: make(map[string]Claims),
		max:     max,
	}
}

// Verify returns the claims for tokenStr, consulting the cache first.
func (v *CachingVerifier) Verify(tokenStr string) (Claims, error) {
	v.mu.Lock()
	if claims, ok := v.entries[tokenStr]; ok {
		if err := claims.ValidateExpiry(); err != nil {
			delete(v.entries, tokenStr)
			v.mu.Unlock()
			return Claims{}, err
		}
		v.mu.Unlock()
		return claims, nil
	}
	v.mu.Unlock()

	claims, err := v.inner.Verify(tokenStr)
	if err != nil {
		return Claims{}, err
	}

	v.mu.Lock()
	v.store(tokenStr, claims)
	v.mu.Unlock()

	return claims, nil
}

// Len reports the number of cached entries.
func (v *CachingVerifier) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.entries)
}

// Purge drops every cached entry.
func (v *CachingVerifier) Purge() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries = make(map[string]Claims)
}

// store inserts under the capacity bound. Caller holds v.mu.
func (v *CachingVerifier) store(tokenStr string, claims Claims) {
	if len(v.entries) >= v.max {
		v.pruneExpiredLocked()
	}
	if len(v.entries) >= v.max {
		// Still full after pruning: evict one arbitrary entry. Map iteration
		// order is effectively random, which is good enough here.
		for k := range v.entries {
			delete(v.entries, k)
			break
		}
	}
	v.entries[tokenStr] = claims
}

func (v *CachingVerifier) pruneExpiredLocked() {
	now := time.Now().UTC()
	for k, c := range v.entries {
		if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
			delete(v.entries, k)
		}
	}
}
