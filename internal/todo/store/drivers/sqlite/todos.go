package sqlite

import (
	"context"
	"database/sql"

	"github.com/tasknest/tasknest/internal/todo/domain"
	"github.com/tasknest/tasknest/internal/todo/store"
)

type todosRepo struct {
	db dbtx
}

const todoColumns = `id, user_id, title, description, is_completed, priority, due_date, created_at, updated_at`

func (r *todosRepo) CreateTodo(ctx context.Context, t domain.Todo) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (id, user_id, title, description, is_completed, priority, due_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Title, mapOptionalString(t.Description), t.IsCompleted,
		string(t.Priority), mapOptionalTime(t.DueDate), t.CreatedAt.UTC(), t.UpdatedAt.UTC(),
	)
	return err
}

// GetTodoByIDAndOwner scopes the lookup by owner so a todo belonging to
// another user is indistinguishable from one that does not exist.
func (r *todosRepo) GetTodoByIDAndOwner(ctx context.Context, id, ownerID string) (domain.Todo, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = ? AND user_id = ?`, id, ownerID)
	return scanTodo(row)
}

func (r *todosRepo) ListTodosByOwner(ctx context.Context, ownerID string, offset, limit int) ([]domain.Todo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+todoColumns+` FROM todos
		 WHERE user_id = ?
		 ORDER BY created_at ASC, id ASC
		 LIMIT ? OFFSET ?`,
		ownerID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := make([]domain.Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

func (r *todosRepo) CountTodosByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM todos WHERE user_id = ?`, ownerID).Scan(&count)
	return count, err
}

func (r *todosRepo) UpdateTodo(ctx context.Context, t domain.Todo) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE todos
		 SET title = ?, description = ?, is_completed = ?, priority = ?, due_date = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		t.Title, mapOptionalString(t.Description), t.IsCompleted, string(t.Priority),
		mapOptionalTime(t.DueDate), t.UpdatedAt.UTC(), t.ID, t.UserID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *todosRepo) DeleteTodoByIDAndOwner(ctx context.Context, id, ownerID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM todos WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanTodo(row rowScanner) (domain.Todo, error) {
	var (
		t           domain.Todo
		description sql.NullString
		priority    string
		dueDate     sql.NullTime
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &description, &t.IsCompleted,
		&priority, &dueDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Todo{}, mapNotFound(err)
	}

	t.Description = mapNullStringPtr(description)
	t.Priority = domain.Priority(priority)
	t.DueDate = mapNullTimePtr(dueDate)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}
