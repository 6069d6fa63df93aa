package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainerrors "relish/contexts/crm/task-service/domain/errors"
	"relish/contexts/crm/task-service/ports"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) CreateTask(ctx context.Context, task ports.Task) error {
	row := taskModelFromPort(task)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidTask
		}
		return err
	}
	return nil
}

func (r *Repository) GetTask(ctx context.Context, taskID string) (ports.Task, error) {
	var row taskModel
	err := r.db.WithContext(ctx).
		Where("task_id = ?", strings.TrimSpace(taskID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Task{}, domainerrors.ErrTaskNotFound
		}
		return ports.Task{}, err
	}
	return row.toPort(), nil
}

func (r *Repository) UpdateTask(ctx context.Context, task ports.Task) error {
	row := taskModelFromPort(task)
	result := r.db.WithContext(ctx).
		Model(&taskModel{}).
		Where("task_id = ?", row.TaskID).
		Updates(map[string]any{
			"title":           row.Title,
			"detail":          row.Detail,
			"due_at":          row.DueAt,
			"priority":        row.Priority,
			"status":          row.Status,
			"completed_at":    row.CompletedAt,
			"due_notified_at": row.DueNotifiedAt,
			"updated_at":      row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTaskNotFound
	}
	return nil
}

func (r *Repository) DeleteTask(ctx context.Context, taskID string) error {
	result := r.db.WithContext(ctx).
		Where("task_id = ?", strings.TrimSpace(taskID)).
		Delete(&taskModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTaskNotFound
	}
	return nil
}

func (r *Repository) ListTasks(ctx context.Context, filter ports.TaskFilter) ([]ports.Task, error) {
	tx := r.db.WithContext(ctx).Model(&taskModel{})
	if filter.AssigneeUserID != "" {
		tx = tx.Where("assignee_user_id = ?", filter.AssigneeUserID)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.OverdueOnly {
		tx = tx.Where("status = ? AND due_at < ?", "open", filter.Now)
	}

	var rows []taskModel
	if err := tx.Order("due_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]ports.Task, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}

func (r *Repository) ListDueUnnotified(ctx context.Context, now time.Time, limit int) ([]ports.Task, error) {
	var rows []taskModel
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_at < ? AND due_notified_at IS NULL", "open", now).
		Order("due_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]ports.Task, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}

func (r *Repository) MarkDueNotified(ctx context.Context, taskID string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&taskModel{}).
		Where("task_id = ?", strings.TrimSpace(taskID)).
		Update("due_notified_at", at.UTC())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTaskNotFound
	}
	return nil
}

type taskModel struct {
	TaskID         string     `gorm:"column:task_id;primaryKey"`
	AssigneeUserID string     `gorm:"column:assignee_user_id"`
	OrgID          string     `gorm:"column:org_id"`
	ContactID      string     `gorm:"column:contact_id"`
	Title          string     `gorm:"column:title"`
	Detail         string     `gorm:"column:detail"`
	DueAt          time.Time  `gorm:"column:due_at"`
	Priority       string     `gorm:"column:priority"`
	Status         string     `gorm:"column:status"`
	CompletedAt    *time.Time `gorm:"column:completed_at"`
	DueNotifiedAt  *time.Time `gorm:"column:due_notified_at"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (taskModel) TableName() string {
	return "tasks"
}

func taskModelFromPort(item ports.Task) taskModel {
	return taskModel{
		TaskID:         strings.TrimSpace(item.TaskID),
		AssigneeUserID: strings.TrimSpace(item.AssigneeUserID),
		OrgID:          strings.TrimSpace(item.OrgID),
		ContactID:      strings.TrimSpace(item.ContactID),
		Title:          strings.TrimSpace(item.Title),
		Detail:         strings.TrimSpace(item.Detail),
		DueAt:          item.DueAt.UTC(),
		Priority:       strings.TrimSpace(item.Priority),
		Status:         strings.TrimSpace(item.Status),
		CompletedAt:    item.CompletedAt,
		DueNotifiedAt:  item.DueNotifiedAt,
		CreatedAt:      item.CreatedAt.UTC(),
		UpdatedAt:      item.UpdatedAt.UTC(),
	}
}

func (m taskModel) toPort() ports.Task {
	return ports.Task{
		TaskID:         m.TaskID,
		AssigneeUserID: m.AssigneeUserID,
		OrgID:          m.OrgID,
		ContactID:      m.ContactID,
		Title:          m.Title,
		Detail:         m.Detail,
		DueAt:          m.DueAt.UTC(),
		Priority:       m.Priority,
		Status:         m.Status,
		CompletedAt:    m.CompletedAt,
		DueNotifiedAt:  m.DueNotifiedAt,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
