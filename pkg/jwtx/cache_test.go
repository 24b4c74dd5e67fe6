package jwtx

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// countingVerifier records how many times the wrapped Verify ran so tests
// can distinguish cache hits from misses.
type countingVerifier struct {
	inner Verifier
	calls int
}

func (c *countingVerifier) Verify(token string) (Claims, error) {
	c.calls++
	return c.inner.Verify(token)
}

func TestCachingVerifier_HitSkipsInnerVerify(t *testing.T) {
	t.Parallel()
	signer, verifier := newTestPair(t)
	counting := &countingVerifier{inner: verifier}
	cached := NewCachingVerifier(counting, 16)

	claims := NewAccessClaims("user-1", "a@x.com", testIssuer, time.Hour, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	for range 3 {
		got, err := cached.Verify(token)
		require.NoError(t, err)
		require.Equal(t, "user-1", got.Subject)
	}

	require.Equal(t, 1, counting.calls, "signature verified once, then served from cache")
	require.Equal(t, 1, cached.Len())
}

func TestCachingVerifier_CachedEntryStillChecksExpiry(t *testing.T) {
	t.Parallel()
	signer, verifier := newTestPair(t)
	cached := NewCachingVerifier(verifier, 16)

	// Token valid long enough to land in the cache, expired by the time of
	// the second lookup.
	claims := NewAccessClaims("user-1", "a@x.com", testIssuer, 150*time.Millisecond, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = cached.Verify(token)
	require.NoError(t, err)
	require.Equal(t, 1, cached.Len())

	time.Sleep(200 * time.Millisecond)

	_, err = cached.Verify(token)
	require.ErrorIs(t, err, ErrExpired)
	require.Equal(t, 0, cached.Len(), "expired entry evicted on detection")
}

func TestCachingVerifier_FailedVerifyNotCached(t *testing.T) {
	t.Parallel()
	_, verifier := newTestPair(t)
	cached := NewCachingVerifier(verifier, 16)

	_, err := cached.Verify("garbage")
	require.Error(t, err)
	require.Equal(t, 0, cached.Len())
}

func TestCachingVerifier_BoundedSize(t *testing.T) {
	t.Parallel()
	signer, verifier := newTestPair(t)
	cached := NewCachingVerifier(verifier, 8)

	for i := range 50 {
		claims := NewAccessClaims(fmt.Sprintf("user-%d", i), "a@x.com", testIssuer, time.Hour, time.Now().UTC())
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		_, err = cached.Verify(token)
		require.NoError(t, err)
		require.LessOrEqual(t, cached.Len(), 8)
	}
}

func TestCachingVerifier_Purge(t *testing.T) {
	t.Parallel()
	signer, verifier := newTestPair(t)
	cached := NewCachingVerifier(verifier, 16)

	claims := NewAccessClaims("user-1", "a@x.com", testIssuer, time.Hour, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = cached.Verify(token)
	require.NoError(t, err)
	require.Equal(t, 1, cached.Len())

	cached.Purge()
	require.Equal(t, 0, cached.Len())
}

type staticVerifier struct {
	claims Claims
	err    error
}

func (s staticVerifier) Verify(string) (Claims, error) {
	if s.err != nil {
		return Claims{}, s.err
	}
	return s.claims, nil
}

func TestCachingVerifier_PropagatesInnerError(t *testing.T) {
	t.Parallel()
	innerErr := errors.New("boom")
	cached := NewCachingVerifier(staticVerifier{err: innerErr}, 4)

	_, err := cached.Verify("token")
	require.ErrorIs(t, err, innerErr)
}
