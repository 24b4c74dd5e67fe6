package http

import (
	"net/http"

	"github.com/tasknest/tasknest/internal/todo/service"
	"github.com/tasknest/tasknest/pkg/apierr"
	"github.com/tasknest/tasknest/pkg/httpx"
	"github.com/tasknest/tasknest/pkg/slogx"
)

type SignoutHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Revoke the current token
//	@Description	Deactivates the presented token's record so it stops verifying
//	@Description	immediately, before its expiry. Signing out twice is a no-op.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Success		204	"Token revoked"
//	@Failure		401	{object}	ErrorResponse	"Invalid or missing access token"
//	@Failure		500	{object}	ErrorResponse	"Internal server error"
//	@Router			/auth/signout [post].
func (h *SignoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	claims, ok := httpx.ClaimsFromCtx(ctx)
	if !ok {
		apierr.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.AuthService.Signout(ctx, claims.ID); err != nil {
		log.Error("signout failed", "err", err)
		apierr.ErrServerError.WriteError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
