package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tasknest/tasknest/internal/todo/domain"
	"github.com/tasknest/tasknest/internal/todo/store"
)

// ErrUserNotFound means the id doesn't correspond to a known account.
var ErrUserNotFound = errors.New("user not found")

// UserService exposes account lookups for authenticated callers.
type UserService struct {
	Store store.Store
}

// GetByID fetches the account with the given id.
func (s *UserService) GetByID(ctx context.Context, id string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
