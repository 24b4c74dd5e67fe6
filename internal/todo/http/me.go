package http

import (
	"errors"
	"net/http"

	"github.com/tasknest/tasknest/internal/todo/service"
	"github.com/tasknest/tasknest/pkg/apierr"
	"github.com/tasknest/tasknest/pkg/httpx"
	"github.com/tasknest/tasknest/pkg/slogx"
)

type MeHandler struct {
	UserService *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		Get the current account
//	@Description	Returns the account behind the presented bearer token.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	UserResponse	"id, email, created_at, updated_at"
//	@Failure		401	{object}	ErrorResponse	"Invalid or missing access token"
//	@Failure		500	{object}	ErrorResponse	"Internal server error"
//	@Router			/auth/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromCtx(ctx)
	if userID == "" {
		apierr.ErrInvalidToken.WriteError(w)
		return
	}

	user, err := h.UserService.GetByID(ctx, userID)
	if err != nil {
		// The token verified but the account is gone, e.g. deleted
		// between issue and use.
		if errors.Is(err, service.ErrUserNotFound) {
			log.Warn("token subject no longer exists",
				"user_id", userID, "email", httpx.EmailFromCtx(ctx))
			apierr.ErrInvalidToken.WriteError(w)
			return
		}
		log.Error("failed to load user", "user_id", userID, "err", err)
		apierr.ErrServerError.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}
