package ports

import (
	"context"
	"time"
)

type Task struct {
	TaskID         string
	AssigneeUserID string
	OrgID          string
	ContactID      string
	Title          string
	Detail         string
	DueAt          time.Time
	Priority       string
	Status         string
	CompletedAt    *time.Time
	DueNotifiedAt  *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type CreateTaskInput struct {
	AssigneeUserID string
	OrgID          string
	ContactID      string
	Title          string
	Detail         string
	DueAt          time.Time
	Priority       string
}

type UpdateTaskInput struct {
	Title    string
	Detail   string
	DueAt    *time.Time
	Priority string
}

type TaskFilter struct {
	AssigneeUserID string
	Status         string
	OverdueOnly    bool
	Now            time.Time
}

type Repository interface {
	CreateTask(ctx context.Context, task Task) error
	GetTask(ctx context.Context, taskID string) (Task, error)
	UpdateTask(ctx context.Context, task Task) error
	DeleteTask(ctx context.Context, taskID string) error
	ListTasks(ctx context.Context, filter TaskFilter) ([]Task, error)

	// ListDueUnnotified returns open tasks past due that have not been
	// flagged by the scanner yet, oldest due first.
	ListDueUnnotified(ctx context.Context, now time.Time, limit int) ([]Task, error)
	MarkDueNotified(ctx context.Context, taskID string, at time.Time) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
