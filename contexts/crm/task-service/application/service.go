package application

import (
	"context"
	"log/slog"
	"strings"

	domainerrors "relish/contexts/crm/task-service/domain/errors"
	"relish/contexts/crm/task-service/ports"
)

const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"

	StatusOpen      = "open"
	StatusDone      = "done"
	StatusCancelled = "cancelled"
)

var knownPriorities = map[string]bool{
	PriorityLow:    true,
	PriorityNormal: true,
	PriorityHigh:   true,
}

type Service struct {
	Tasks  ports.Repository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (s Service) Create(ctx context.Context, input ports.CreateTaskInput) (ports.Task, error) {
	assignee := strings.TrimSpace(input.AssigneeUserID)
	title := strings.TrimSpace(input.Title)
	if assignee == "" || title == "" || input.DueAt.IsZero() {
		return ports.Task{}, domainerrors.ErrInvalidTask
	}
	priority := strings.ToLower(strings.TrimSpace(input.Priority))
	if priority == "" {
		priority = PriorityNormal
	}
	if !knownPriorities[priority] {
		return ports.Task{}, domainerrors.ErrInvalidTask
	}

	taskID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.Task{}, err
	}
	now := s.Clock.Now().UTC()
	task := ports.Task{
		TaskID:         taskID,
		AssigneeUserID: assignee,
		OrgID:          strings.TrimSpace(input.OrgID),
		ContactID:      strings.TrimSpace(input.ContactID),
		Title:          title,
		Detail:         strings.TrimSpace(input.Detail),
		DueAt:          input.DueAt.UTC(),
		Priority:       priority,
		Status:         StatusOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Tasks.CreateTask(ctx, task); err != nil {
		return ports.Task{}, err
	}

	s.logger().Info("task created",
		"event", "task_created",
		"module", "crm/task-service",
		"layer", "application",
		"task_id", task.TaskID,
		"assignee_user_id", task.AssigneeUserID,
		"due_at", task.DueAt,
	)
	return task, nil
}

func (s Service) Get(ctx context.Context, taskID string) (ports.Task, error) {
	return s.Tasks.GetTask(ctx, strings.TrimSpace(taskID))
}

func (s Service) Update(ctx context.Context, taskID string, input ports.UpdateTaskInput) (ports.Task, error) {
	task, err := s.Tasks.GetTask(ctx, strings.TrimSpace(taskID))
	if err != nil {
		return ports.Task{}, err
	}
	if task.Status != StatusOpen {
		return ports.Task{}, domainerrors.ErrTaskNotOpen
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		task.Title = title
	}
	if detail := strings.TrimSpace(input.Detail); detail != "" {
		task.Detail = detail
	}
	if input.DueAt != nil {
		if input.DueAt.IsZero() {
			return ports.Task{}, domainerrors.ErrInvalidTask
		}
		task.DueAt = input.DueAt.UTC()
		// A moved deadline re-arms the due notification.
		task.DueNotifiedAt = nil
	}
	if priority := strings.ToLower(strings.TrimSpace(input.Priority)); priority != "" {
		if !knownPriorities[priority] {
			return ports.Task{}, domainerrors.ErrInvalidTask
		}
		task.Priority = priority
	}
	task.UpdatedAt = s.Clock.Now().UTC()

	if err := s.Tasks.UpdateTask(ctx, task); err != nil {
		return ports.Task{}, err
	}
	return task, nil
}

func (s Service) Complete(ctx context.Context, taskID string) (ports.Task, error) {
	return s.close(ctx, taskID, StatusDone)
}

func (s Service) Cancel(ctx context.Context, taskID string) (ports.Task, error) {
	return s.close(ctx, taskID, StatusCancelled)
}

func (s Service) close(ctx context.Context, taskID, status string) (ports.Task, error) {
	task, err := s.Tasks.GetTask(ctx, strings.TrimSpace(taskID))
	if err != nil {
		return ports.Task{}, err
	}
	if task.Status != StatusOpen {
		return ports.Task{}, domainerrors.ErrTaskNotOpen
	}

	now := s.Clock.Now().UTC()
	task.Status = status
	task.UpdatedAt = now
	if status == StatusDone {
		task.CompletedAt = &now
	}
	if err := s.Tasks.UpdateTask(ctx, task); err != nil {
		return ports.Task{}, err
	}

	s.logger().Info("task closed",
		"event", "task_closed",
		"module", "crm/task-service",
		"layer", "application",
		"task_id", task.TaskID,
		"status", task.Status,
	)
	return task, nil
}

func (s Service) Delete(ctx context.Context, taskID string) error {
	return s.Tasks.DeleteTask(ctx, strings.TrimSpace(taskID))
}

func (s Service) ListByAssignee(ctx context.Context, assigneeUserID, status string, overdueOnly bool) ([]ports.Task, error) {
	assigneeUserID = strings.TrimSpace(assigneeUserID)
	if assigneeUserID == "" {
		return nil, domainerrors.ErrInvalidTask
	}
	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" && status != StatusOpen && status != StatusDone && status != StatusCancelled {
		return nil, domainerrors.ErrInvalidTask
	}
	return s.Tasks.ListTasks(ctx, ports.TaskFilter{
		AssigneeUserID: assigneeUserID,
		Status:         status,
		OverdueOnly:    overdueOnly,
		Now:            s.Clock.Now().UTC(),
	})
}

func (s Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
