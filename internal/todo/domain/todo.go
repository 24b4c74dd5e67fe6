package domain

import "time"

// Priority is the todo urgency level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 1000
)

// Todo is a single task owned by exactly one user. Every read and write
// must be scoped by UserID.
type Todo struct {
	ID          string
	UserID      string
	Title       string
	Description *string
	IsCompleted bool
	Priority    Priority
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
