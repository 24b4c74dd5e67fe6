package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tasknest/tasknest/internal/todo/service"
	"github.com/tasknest/tasknest/pkg/apierr"
	"github.com/tasknest/tasknest/pkg/httpx"
	"github.com/tasknest/tasknest/pkg/slogx"
)

type SignupHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Register a new account
//	@Description	Creates an account from an email and password. Passwords must be at
//	@Description	least 8 characters with an uppercase letter, a lowercase letter, a
//	@Description	digit, and a punctuation character.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SignupRequest	true	"Credentials"
//	@Success		201		{object}	SignupResponse	"id, email, created_at"
//	@Failure		400		{object}	ErrorResponse	"Malformed body"
//	@Failure		409		{object}	ErrorResponse	"Email already registered"
//	@Failure		422		{object}	ErrorResponse	"Password policy violation"
//	@Failure		500		{object}	ErrorResponse	"Internal server error"
//	@Router			/auth/signup [post].
func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.AuthService.Signup(ctx, req.Email, req.Password)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			apierr.Validation(verr.Error()).WriteError(w)
		case errors.Is(err, service.ErrEmailTaken):
			apierr.ErrEmailTaken.WriteError(w)
		default:
			log.Error("signup failed", "err", err)
			apierr.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, SignupResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}
