package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tasknest/tasknest/internal/todo/domain"
	"github.com/tasknest/tasknest/internal/todo/store"
	"github.com/tasknest/tasknest/pkg/bruteforce"
	"github.com/tasknest/tasknest/pkg/cryptox"
	"github.com/tasknest/tasknest/pkg/idx"
	"github.com/tasknest/tasknest/pkg/slogx"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so the response never reveals which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken means another account already owns the email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrTooManyAttempts means the caller is temporarily locked out
	// after repeated failed signins.
	ErrTooManyAttempts = errors.New("too many failed attempts")
)

// ValidationError reports a rejected signup or todo field. The message is
// safe to return to the client.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

// AuthService handles account creation and credential verification.
type AuthService struct {
	Store  store.Store
	Tokens *TokenService
	Guard  *bruteforce.Guard
}

// Signup registers a new account. The caller signs in separately to
// obtain a token.
func (s *AuthService) Signup(ctx context.Context, email, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return domain.User{}, err
	}
	if err := validatePassword(password); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	log.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Signin verifies the credentials and issues a token. Failed attempts are
// tallied against addr, the caller's network address as the transport saw
// it; once the guard trips, further attempts from that address are rejected
// until the window slides past even if the password is correct.
func (s *AuthService) Signin(ctx context.Context, email, password, addr string) (domain.User, domain.AccessToken, error) {
	log := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))

	if s.Guard.Blocked(addr) {
		log.Warn("signin blocked by guard", "addr", addr)
		return domain.User{}, domain.AccessToken{}, ErrTooManyAttempts
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.Guard.RecordFailure(addr)
			return domain.User{}, domain.AccessToken{}, ErrInvalidCredentials
		}
		return domain.User{}, domain.AccessToken{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		s.Guard.RecordFailure(addr)
		log.Warn("signin failed", "user_id", user.ID, "addr", addr)
		return domain.User{}, domain.AccessToken{}, ErrInvalidCredentials
	}

	s.Guard.Reset(addr)

	token, err := s.Tokens.Issue(ctx, user)
	if err != nil {
		return domain.User{}, domain.AccessToken{}, fmt.Errorf("issue token: %w", err)
	}

	log.Info("user signed in", "user_id", user.ID)
	return user, token, nil
}

// Signout revokes the token record for jti.
func (s *AuthService) Signout(ctx context.Context, jti string) error {
	return s.Tokens.Revoke(ctx, jti)
}

// RetryAfter reports how long until the guard unblocks the address.
func (s *AuthService) RetryAfter(addr string) time.Duration {
	return s.Guard.RetryAfter(addr)
}

func validateEmail(email string) error {
	if email == "" {
		return &ValidationError{Field: "email", Message: "must not be empty"}
	}
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return &ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	hostname := email[at+1:]
	if !strings.Contains(hostname, ".") || strings.HasPrefix(hostname, ".") || strings.HasSuffix(hostname, ".") {
		return &ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	if len(email) > 254 {
		return &ValidationError{Field: "email", Message: "must be at most 254 characters"}
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return &ValidationError{Field: "password", Message: "must be at least 8 characters"}
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}

	switch {
	case !upper:
		return &ValidationError{Field: "password", Message: "must contain an uppercase letter"}
	case !lower:
		return &ValidationError{Field: "password", Message: "must contain a lowercase letter"}
	case !digit:
		return &ValidationError{Field: "password", Message: "must contain a digit"}
	case !symbol:
		return &ValidationError{Field: "password", Message: "must contain a special character"}
	}
	return nil
}
