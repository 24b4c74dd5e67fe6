package store

import (
	"context"
	"errors"
	"time"

	"github.com/tasknest/tasknest/internal/todo/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for
// now) implement this. It exposes sub-repositories to keep concerns tidy
// and testable.
type Store interface {
	Users() Users
	Todos() Todos
	TokenRecords() TokenRecords

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error, the
	// transaction is rolled back; otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during signin and duplicate checks.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email is taken; uniqueness is
	// enforced by the schema.
	CreateUser(ctx context.Context, u domain.User) error
}

type Todos interface {
	// CreateTodo inserts a new todo (id is provided by app via ULID).
	CreateTodo(ctx context.Context, t domain.Todo) error

	// GetTodoByIDAndOwner returns the todo only when it belongs to ownerID.
	// Missing and not-owned both surface as ErrNotFound.
	GetTodoByIDAndOwner(ctx context.Context, id, ownerID string) (domain.Todo, error)

	// ListTodosByOwner returns ownerID's todos ordered by creation,
	// offset/limit paginated.
	ListTodosByOwner(ctx context.Context, ownerID string, offset, limit int) ([]domain.Todo, error)

	// CountTodosByOwner returns how many todos ownerID has.
	CountTodosByOwner(ctx context.Context, ownerID string) (int64, error)

	// UpdateTodo persists the full row, scoped by id AND owner. Returns
	// ErrNotFound when no owned row matches.
	UpdateTodo(ctx context.Context, t domain.Todo) error

	// DeleteTodoByIDAndOwner removes the todo when owned. Returns
	// ErrNotFound when no owned row matches.
	DeleteTodoByIDAndOwner(ctx context.Context, id, ownerID string) error
}

type TokenRecords interface {
	// CreateTokenRecord stores bookkeeping for a freshly issued token.
	CreateTokenRecord(ctx context.Context, rec domain.TokenRecord) error

	// GetActiveTokenRecord returns the record for jti only while it is
	// active and unexpired (as of now).
	GetActiveTokenRecord(ctx context.Context, jti string, now time.Time) (domain.TokenRecord, error)

	// DeactivateTokenRecord flips active off for jti.
	DeactivateTokenRecord(ctx context.Context, jti string) error

	// DeleteExpiredTokenRecords is housekeeping.
	DeleteExpiredTokenRecords(ctx context.Context, now time.Time) error
}
