package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/tasknest/tasknest/internal/todo/service"
	"github.com/tasknest/tasknest/pkg/apierr"
	"github.com/tasknest/tasknest/pkg/httpx"
	"github.com/tasknest/tasknest/pkg/slogx"
)

type SigninHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Exchange credentials for a bearer token
//	@Description	Verifies the email and password and returns a signed access token.
//	@Description	After repeated failures from the same source address the endpoint
//	@Description	answers 429 with a Retry-After header until the lockout window
//	@Description	slides past.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SigninRequest	true	"Credentials"
//	@Success		200		{object}	TokenResponse	"access_token, token_type"
//	@Failure		400		{object}	ErrorResponse	"Malformed body"
//	@Failure		401		{object}	ErrorResponse	"Incorrect email or password"
//	@Failure		429		{object}	ErrorResponse	"Too many failed attempts"
//	@Failure		500		{object}	ErrorResponse	"Internal server error"
//	@Router			/auth/signin [post].
func (h *SigninHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.ErrInvalidRequest.WriteError(w)
		return
	}

	addr := httpx.IPKeyExtractor(r)

	_, token, err := h.AuthService.Signin(ctx, req.Email, req.Password, addr)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			apierr.ErrInvalidCredentials.WriteError(w)
		case errors.Is(err, service.ErrTooManyAttempts):
			retry := h.AuthService.RetryAfter(addr)
			if secs := int(retry.Seconds()); secs > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(secs))
			}
			apierr.ErrTooManyAttempts.WriteError(w)
		default:
			log.Error("signin failed", "err", err)
			apierr.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
	})
}
