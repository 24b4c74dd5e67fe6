package service

import (
	"context"
	"errors"
	"time"

	"github.com/tasknest/tasknest/internal/todo/domain"
	"github.com/tasknest/tasknest/internal/todo/store"
	"github.com/tasknest/tasknest/pkg/idx"
	"github.com/tasknest/tasknest/pkg/jwtx"
)

// ErrTokenRevoked means the token's signature checked out but its record
// has been deactivated (or never existed, e.g. after a database reset).
var ErrTokenRevoked = errors.New("token revoked")

// TokenService issues and verifies signed session tokens. Verification goes
// through a caching verifier so repeated requests with the same bearer
// token skip the signature check, then consults the token record so a
// signed-out token stops working immediately.
type TokenService struct {
	Signer    jwtx.Signer
	Verifier  jwtx.Verifier // wrap with jwtx.NewCachingVerifier
	Store     store.Store
	Issuer    string
	AccessTTL time.Duration
}

// Issue signs a token for the user and persists its revocation record.
func (s *TokenService) Issue(ctx context.Context, user domain.User) (domain.AccessToken, error) {
	now := time.Now().UTC()
	claims := jwtx.NewAccessClaims(user.ID, user.Email, s.Issuer, s.AccessTTL, now)

	signed, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.AccessToken{}, err
	}

	rec := domain.TokenRecord{
		ID:        idx.New().String(),
		UserID:    user.ID,
		JTI:       claims.ID,
		IssuedAt:  now,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
		Active:    true,
	}
	if err := s.Store.TokenRecords().CreateTokenRecord(ctx, rec); err != nil {
		return domain.AccessToken{}, err
	}

	return domain.AccessToken{
		AccessToken: signed,
		TokenType:   "bearer",
	}, nil
}

// VerifyToken validates the compact token and requires an active,
// unexpired record for its jti. Implements httpx.TokenVerifier.
func (s *TokenService) VerifyToken(ctx context.Context, token string) (jwtx.Claims, error) {
	claims, err := s.Verifier.Verify(token)
	if err != nil {
		return jwtx.Claims{}, err
	}

	_, err = s.Store.TokenRecords().GetActiveTokenRecord(ctx, claims.ID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return jwtx.Claims{}, ErrTokenRevoked
		}
		return jwtx.Claims{}, err
	}

	return claims, nil
}

// Revoke deactivates the record for jti. A jti without a record is treated
// as already revoked.
func (s *TokenService) Revoke(ctx context.Context, jti string) error {
	err := s.Store.TokenRecords().DeactivateTokenRecord(ctx, jti)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}
