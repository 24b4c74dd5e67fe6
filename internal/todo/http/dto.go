package http

import (
	"time"

	"github.com/tasknest/tasknest/internal/todo/domain"
)

// SignupRequest is the JSON body for POST /auth/signup.
type SignupRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"Sup3r$ecret"`
}

// SigninRequest is the JSON body for POST /auth/signin.
type SigninRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"Sup3r$ecret"`
}

// TokenResponse carries a freshly issued bearer token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"bearer"`
}

// UserResponse is the public view of an account. The password hash never
// appears here.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SignupResponse is the body returned on successful registration.
type SignupResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// TodoResponse is the public view of a todo.
type TodoResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	IsCompleted bool       `json:"is_completed"`
	Priority    string     `json:"priority" enums:"low,medium,high"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TodoListResponse is one page of todos plus the total across all pages.
type TodoListResponse struct {
	Items []TodoResponse `json:"items"`
	Total int64          `json:"total"`
	Skip  int            `json:"skip"`
	Limit int            `json:"limit"`
}

// CreateTodoRequest is the JSON body for POST /api/v1/todos.
type CreateTodoRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority" enums:"low,medium,high"`
	DueDate     *time.Time `json:"due_date"`
}

// ErrorResponse documents the error body shape for swagger.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// HealthResponse is returned by the health probe endpoints.
type HealthResponse struct {
	Status  string        `json:"status" example:"ok"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the status of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toTodoResponse(t domain.Todo) TodoResponse {
	return TodoResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		IsCompleted: t.IsCompleted,
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toTodoListResponse(items []domain.Todo, total int64, skip, limit int) TodoListResponse {
	out := make([]TodoResponse, 0, len(items))
	for _, t := range items {
		out = append(out, toTodoResponse(t))
	}
	return TodoListResponse{Items: out, Total: total, Skip: skip, Limit: limit}
}
