package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tasknest/tasknest/internal/todo/domain"
	"github.com/tasknest/tasknest/internal/todo/store"
	"github.com/tasknest/tasknest/pkg/idx"
	"github.com/tasknest/tasknest/pkg/slogx"
)

// ErrTodoNotFound is returned when a todo doesn't exist or belongs to a
// different owner. The two cases are indistinguishable on purpose so ids
// can't be probed across accounts.
var ErrTodoNotFound = errors.New("todo not found")

const (
	// DefaultListLimit applies when the caller doesn't pass a limit.
	DefaultListLimit = 100
	// MaxListLimit caps the page size regardless of what was asked for.
	MaxListLimit = 100
)

// CreateTodoInput carries the fields for a new todo. Optional fields are
// pointers so absent and zero are distinguishable.
type CreateTodoInput struct {
	Title       string
	Description *string
	Priority    *domain.Priority
	DueDate     *time.Time
}

// UpdateTodoInput carries a partial update. Nil means "leave unchanged".
type UpdateTodoInput struct {
	Title       *string
	Description *string
	IsCompleted *bool
	Priority    *domain.Priority
	DueDate     *time.Time
	// ClearDueDate removes the due date. A nil DueDate alone means
	// "unchanged", so clearing needs its own flag.
	ClearDueDate bool
}

// TodoList is one page of a user's todos plus the total count. Skip and
// Limit carry the effective pagination after clamping, for callers that
// echo it back.
type TodoList struct {
	Items []domain.Todo
	Total int64
	Skip  int
	Limit int
}

// TodoService provides owner-scoped todo CRUD. Every operation takes the
// owner's user id and never returns or touches another user's rows.
type TodoService struct {
	Store store.Store
}

// Create validates the input and stores a new todo for owner.
func (s *TodoService) Create(ctx context.Context, owner string, in CreateTodoInput) (domain.Todo, error) {
	log := slogx.FromContext(ctx)

	title, err := validateTitle(in.Title)
	if err != nil {
		return domain.Todo{}, err
	}
	if err := validateDescription(in.Description); err != nil {
		return domain.Todo{}, err
	}

	priority := domain.PriorityMedium
	if in.Priority != nil {
		priority = *in.Priority
		if !priority.Valid() {
			return domain.Todo{}, &ValidationError{Field: "priority", Message: "must be one of low, medium, high"}
		}
	}

	now := time.Now().UTC()
	todo := domain.Todo{
		ID:          idx.New().String(),
		UserID:      owner,
		Title:       title,
		Description: in.Description,
		IsCompleted: false,
		Priority:    priority,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.Store.Todos().CreateTodo(ctx, todo); err != nil {
		return domain.Todo{}, fmt.Errorf("create todo: %w", err)
	}

	log.Info("todo created", "todo_id", todo.ID, "user_id", owner)
	return todo, nil
}

// Get fetches one todo owned by owner.
func (s *TodoService) Get(ctx context.Context, owner, id string) (domain.Todo, error) {
	todo, err := s.Store.Todos().GetTodoByIDAndOwner(ctx, id, owner)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Todo{}, ErrTodoNotFound
		}
		return domain.Todo{}, fmt.Errorf("get todo: %w", err)
	}
	return todo, nil
}

// List returns one page of owner's todos ordered oldest first, plus the
// total count across all pages. Negative skip is treated as zero; a
// missing or out-of-range limit falls back to the default.
func (s *TodoService) List(ctx context.Context, owner string, skip, limit int) (TodoList, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > MaxListLimit {
		limit = DefaultListLimit
	}

	items, err := s.Store.Todos().ListTodosByOwner(ctx, owner, skip, limit)
	if err != nil {
		return TodoList{}, fmt.Errorf("list todos: %w", err)
	}
	total, err := s.Store.Todos().CountTodosByOwner(ctx, owner)
	if err != nil {
		return TodoList{}, fmt.Errorf("count todos: %w", err)
	}

	return TodoList{Items: items, Total: total, Skip: skip, Limit: limit}, nil
}

// Update applies a partial update to one of owner's todos and returns the
// updated row. Fields left nil in the input keep their stored value. The
// read and the write share a transaction so a concurrent update can't slip
// in between them.
func (s *TodoService) Update(ctx context.Context, owner, id string, in UpdateTodoInput) (domain.Todo, error) {
	log := slogx.FromContext(ctx)

	var todo domain.Todo
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		todo, err = tx.Todos().GetTodoByIDAndOwner(ctx, id, owner)
		if err != nil {
			return err
		}

		if in.Title != nil {
			title, err := validateTitle(*in.Title)
			if err != nil {
				return err
			}
			todo.Title = title
		}
		if in.Description != nil {
			if err := validateDescription(in.Description); err != nil {
				return err
			}
			todo.Description = in.Description
		}
		if in.IsCompleted != nil {
			todo.IsCompleted = *in.IsCompleted
		}
		if in.Priority != nil {
			if !in.Priority.Valid() {
				return &ValidationError{Field: "priority", Message: "must be one of low, medium, high"}
			}
			todo.Priority = *in.Priority
		}
		if in.ClearDueDate {
			todo.DueDate = nil
		} else if in.DueDate != nil {
			todo.DueDate = in.DueDate
		}

		todo.UpdatedAt = time.Now().UTC()
		return tx.Todos().UpdateTodo(ctx, todo)
	})
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.Is(err, store.ErrNotFound):
			return domain.Todo{}, ErrTodoNotFound
		case errors.As(err, &verr):
			return domain.Todo{}, err
		}
		return domain.Todo{}, fmt.Errorf("update todo: %w", err)
	}

	log.Info("todo updated", "todo_id", todo.ID, "user_id", owner)
	return todo, nil
}

// Delete removes one of owner's todos.
func (s *TodoService) Delete(ctx context.Context, owner, id string) error {
	log := slogx.FromContext(ctx)

	err := s.Store.Todos().DeleteTodoByIDAndOwner(ctx, id, owner)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTodoNotFound
		}
		return fmt.Errorf("delete todo: %w", err)
	}

	log.Info("todo deleted", "todo_id", id, "user_id", owner)
	return nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", &ValidationError{Field: "title", Message: "must not be empty"}
	}
	if len(title) > domain.MaxTitleLength {
		return "", &ValidationError{Field: "title", Message: fmt.Sprintf("must be at most %d characters", domain.MaxTitleLength)}
	}
	return title, nil
}

func validateDescription(desc *string) error {
	if desc != nil && len(*desc) > domain.MaxDescriptionLength {
		return &ValidationError{Field: "description", Message: fmt.Sprintf("must be at most %d characters", domain.MaxDescriptionLength)}
	}
	return nil
}
