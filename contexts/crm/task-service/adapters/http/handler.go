package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"relish/contexts/crm/task-service/application"
	domainerrors "relish/contexts/crm/task-service/domain/errors"
	"relish/contexts/crm/task-service/ports"
	httptransport "relish/contexts/crm/task-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateTaskHandler(ctx context.Context, req httptransport.CreateTaskRequest) (httptransport.TaskResponse, error) {
	dueAt, err := time.Parse(time.RFC3339, req.DueAt)
	if err != nil {
		return httptransport.TaskResponse{}, domainerrors.ErrInvalidTask
	}

	task, err := h.Service.Create(ctx, ports.CreateTaskInput{
		AssigneeUserID: req.AssigneeUserID,
		OrgID:          req.OrgID,
		ContactID:      req.ContactID,
		Title:          req.Title,
		Detail:         req.Detail,
		DueAt:          dueAt,
		Priority:       req.Priority,
	})
	if err != nil {
		return httptransport.TaskResponse{}, err
	}
	return httptransport.TaskResponse{Task: mapTask(task)}, nil
}

func (h Handler) GetTaskHandler(ctx context.Context, taskID string) (httptransport.TaskResponse, error) {
	task, err := h.Service.Get(ctx, taskID)
	if err != nil {
		return httptransport.TaskResponse{}, err
	}
	return httptransport.TaskResponse{Task: mapTask(task)}, nil
}

func (h Handler) UpdateTaskHandler(ctx context.Context, taskID string, req httptransport.UpdateTaskRequest) (httptransport.TaskResponse, error) {
	input := ports.UpdateTaskInput{
		Title:    req.Title,
		Detail:   req.Detail,
		Priority: req.Priority,
	}
	if req.DueAt != nil {
		parsed, err := time.Parse(time.RFC3339, *req.DueAt)
		if err != nil {
			return httptransport.TaskResponse{}, domainerrors.ErrInvalidTask
		}
		input.DueAt = &parsed
	}

	task, err := h.Service.Update(ctx, taskID, input)
	if err != nil {
		return httptransport.TaskResponse{}, err
	}
	return httptransport.TaskResponse{Task: mapTask(task)}, nil
}

func (h Handler) CompleteTaskHandler(ctx context.Context, taskID string) (httptransport.TaskResponse, error) {
	task, err := h.Service.Complete(ctx, taskID)
	if err != nil {
		return httptransport.TaskResponse{}, err
	}
	return httptransport.TaskResponse{Task: mapTask(task)}, nil
}

func (h Handler) CancelTaskHandler(ctx context.Context, taskID string) (httptransport.TaskResponse, error) {
	task, err := h.Service.Cancel(ctx, taskID)
	if err != nil {
		return httptransport.TaskResponse{}, err
	}
	return httptransport.TaskResponse{Task: mapTask(task)}, nil
}

func (h Handler) DeleteTaskHandler(ctx context.Context, taskID string) error {
	return h.Service.Delete(ctx, taskID)
}

func (h Handler) ListTasksByAssigneeHandler(ctx context.Context, assigneeUserID, status string, overdueOnly bool) (httptransport.ListTasksResponse, error) {
	items, err := h.Service.ListByAssignee(ctx, assigneeUserID, status, overdueOnly)
	if err != nil {
		return httptransport.ListTasksResponse{}, err
	}
	result := make([]httptransport.TaskDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapTask(item))
	}
	return httptransport.ListTasksResponse{Items: result}, nil
}

func mapTask(item ports.Task) httptransport.TaskDTO {
	dto := httptransport.TaskDTO{
		TaskID:         item.TaskID,
		AssigneeUserID: item.AssigneeUserID,
		OrgID:          item.OrgID,
		ContactID:      item.ContactID,
		Title:          item.Title,
		Detail:         item.Detail,
		DueAt:          item.DueAt.Format(time.RFC3339),
		Priority:       item.Priority,
		Status:         item.Status,
		CreatedAt:      item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      item.UpdatedAt.Format(time.RFC3339),
	}
	if item.CompletedAt != nil {
		dto.CompletedAt = item.CompletedAt.Format(time.RFC3339)
	}
	return dto
}
