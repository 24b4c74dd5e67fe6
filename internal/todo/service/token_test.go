package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tasknest/tasknest/internal/todo/domain"
	"github.com/tasknest/tasknest/pkg/idx"
	"github.com/tasknest/tasknest/pkg/jwtx"
)

func seedUser(t *testing.T, email string) domain.User {
	t.Helper()
	now := time.Now().UTC()
	return domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestIssueAndVerifyRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := newTokenService(t, s)

	user := seedUser(t, "alice@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, user))

	token, err := svc.Issue(ctx, user)
	require.NoError(t, err)
	require.Equal(t, "bearer", token.TokenType)

	claims, err := svc.VerifyToken(ctx, token.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)
	require.Equal(t, user.Email, claims.Email)
	require.NotEmpty(t, claims.ID)
}

func TestVerifyTokenRejectsRevoked(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := newTokenService(t, s)

	user := seedUser(t, "alice@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, user))

	token, err := svc.Issue(ctx, user)
	require.NoError(t, err)

	claims, err := svc.VerifyToken(ctx, token.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, claims.ID))

	// The signature still checks out (and may be cached), but the
	// record check must reject it.
	_, err = svc.VerifyToken(ctx, token.AccessToken)
	require.ErrorIs(t, err, ErrTokenRevoked)
}

func TestVerifyTokenRejectsTamperedSignature(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := newTokenService(t, s)

	user := seedUser(t, "alice@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, user))

	token, err := svc.Issue(ctx, user)
	require.NoError(t, err)

	tampered := token.AccessToken[:len(token.AccessToken)-2] + "xx"
	_, err = svc.VerifyToken(ctx, tampered)
	require.Error(t, err)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := newTokenService(t, s)
	svc.AccessTTL = -time.Minute

	user := seedUser(t, "alice@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, user))

	token, err := svc.Issue(ctx, user)
	require.NoError(t, err)

	_, err = svc.VerifyToken(ctx, token.AccessToken)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestRevokeUnknownJTIIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTokenService(t, newTestStore(t))

	require.NoError(t, svc.Revoke(ctx, "no-such-jti"))
}

func TestHousekeepingDeletesExpiredRecords(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := newTokenService(t, s)

	user := seedUser(t, "alice@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, user))

	svc.AccessTTL = -time.Minute
	_, err := svc.Issue(ctx, user)
	require.NoError(t, err)

	svc.AccessTTL = time.Hour
	live, err := svc.Issue(ctx, user)
	require.NoError(t, err)

	require.NoError(t, s.TokenRecords().DeleteExpiredTokenRecords(ctx, time.Now().UTC()))

	_, err = svc.VerifyToken(ctx, live.AccessToken)
	require.NoError(t, err)
}
