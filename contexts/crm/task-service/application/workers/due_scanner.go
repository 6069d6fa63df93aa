package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"relish/contexts/crm/task-service/ports"
	"relish/internal/shared/events"
)

const (
	TopicTaskDue = "task.due"

	defaultBatchSize = 100
)

type Publisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

type taskDuePayload struct {
	TaskID         string    `json:"task_id"`
	AssigneeUserID string    `json:"assignee_user_id"`
	OrgID          string    `json:"org_id,omitempty"`
	Title          string    `json:"title"`
	Priority       string    `json:"priority"`
	DueAt          time.Time `json:"due_at"`
}

// DueScanner periodically flags open tasks that slipped past their deadline
// and emits a task.due event for each. A task is flagged once; rescheduling
// the deadline re-arms it.
type DueScanner struct {
	Tasks     ports.Repository
	Clock     ports.Clock
	Publisher Publisher
	Interval  time.Duration
	BatchSize int
	Logger    *slog.Logger
}

func (w DueScanner) Run(ctx context.Context) error {
	interval := w.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ScanOnce(ctx); err != nil {
				w.logger().Error("due scan failed",
					"event", "task_due_scan_error",
					"module", "crm/task-service",
					"layer", "worker",
					"error", err.Error(),
				)
			}
		}
	}
}

func (w DueScanner) ScanOnce(ctx context.Context) error {
	batch := w.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	now := w.Clock.Now().UTC()

	due, err := w.Tasks.ListDueUnnotified(ctx, now, batch)
	if err != nil {
		return err
	}
	for _, task := range due {
		envelope, err := events.New(uuid.NewString(), TopicTaskDue, "crm/task-service", task.TaskID, now, taskDuePayload{
			TaskID:         task.TaskID,
			AssigneeUserID: task.AssigneeUserID,
			OrgID:          task.OrgID,
			Title:          task.Title,
			Priority:       task.Priority,
			DueAt:          task.DueAt,
		})
		if err != nil {
			return err
		}
		if err := w.Publisher.Publish(ctx, TopicTaskDue, envelope); err != nil {
			return err
		}
		// Mark after publish; a crash in between re-emits, consumers
		// dedupe on task ID.
		if err := w.Tasks.MarkDueNotified(ctx, task.TaskID, now); err != nil {
			return err
		}

		w.logger().Info("task flagged due",
			"event", "task_due",
			"module", "crm/task-service",
			"layer", "worker",
			"task_id", task.TaskID,
			"assignee_user_id", task.AssigneeUserID,
		)
	}
	return nil
}

func (w DueScanner) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}
