package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/tasknest/tasknest/pkg/apierr"
	"github.com/tasknest/tasknest/pkg/jwtx"
	"github.com/tasknest/tasknest/pkg/slogx"
)

// TokenVerifier validates a bearer token and returns its claims. The
// context is threaded through so implementations may consult persistent
// state (e.g. revocation records).
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (jwtx.Claims, error)
}

// Authn extracts and verifies the bearer token on each request. The contract
// is deliberately asymmetric:
//
//   - No Authorization header, or an unrecognized scheme: the request passes
//     through anonymous and the downstream route decides whether that is
//     acceptable.
//   - A bearer token is offered but fails verification (expired, bad
//     signature, malformed, revoked): the request is rejected here with 401.
//
// On success the subject id, email, and full claims are attached to the
// request context.
func Authn(v TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.VerifyToken(ctx, raw)
			if err != nil {
				log.Warn("token verification failed", "err", err)
				apierr.ErrInvalidToken.WriteError(w)
				return
			}

			// Inject into context for downstream handlers.
			ctx = contextWithAuth(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects requests that reached this point without an
// authenticated identity. Pair it with Authn on protected routes.
func RequireUser() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserIDFromCtx(r.Context()) == "" {
				apierr.ErrInvalidToken.WriteError(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyEmail, c.Email)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}
