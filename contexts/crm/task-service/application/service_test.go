package application

import (
	"context"
	"testing"
	"time"

	"relish/contexts/crm/task-service/adapters/memory"
	domainerrors "relish/contexts/crm/task-service/domain/errors"
	"relish/contexts/crm/task-service/ports"
)

func newService() Service {
	store := memory.NewStore(nil)
	return Service{Tasks: store, Clock: store, IDGen: store}
}

func TestCreateTaskDefaultsPriority(t *testing.T) {
	service := newService()

	task, err := service.Create(context.Background(), ports.CreateTaskInput{
		AssigneeUserID: "user_rep_1",
		Title:          "Drop off sample box",
		DueAt:          time.Now().UTC().Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if task.Priority != PriorityNormal {
		t.Fatalf("expected normal priority, got %s", task.Priority)
	}
	if task.Status != StatusOpen {
		t.Fatalf("new task should be open, got %s", task.Status)
	}
}

func TestCreateTaskRequiresDueDate(t *testing.T) {
	service := newService()

	if _, err := service.Create(context.Background(), ports.CreateTaskInput{
		AssigneeUserID: "user_rep_1",
		Title:          "Drop off sample box",
	}); err != domainerrors.ErrInvalidTask {
		t.Fatalf("expected invalid task, got %v", err)
	}
}

func TestCompleteTaskStampsCompletion(t *testing.T) {
	service := newService()

	task, err := service.Create(context.Background(), ports.CreateTaskInput{
		AssigneeUserID: "user_rep_1",
		Title:          "Follow up on tasting",
		DueAt:          time.Now().UTC().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	done, err := service.Complete(context.Background(), task.TaskID)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if done.Status != StatusDone || done.CompletedAt == nil {
		t.Fatalf("completion not recorded: %+v", done)
	}

	if _, err := service.Complete(context.Background(), task.TaskID); err != domainerrors.ErrTaskNotOpen {
		t.Fatalf("expected not-open on double complete, got %v", err)
	}
}

func TestCancelledTaskCannotBeEdited(t *testing.T) {
	service := newService()

	task, err := service.Create(context.Background(), ports.CreateTaskInput{
		AssigneeUserID: "user_rep_1",
		Title:          "Call about contract renewal",
		DueAt:          time.Now().UTC().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := service.Cancel(context.Background(), task.TaskID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, err := service.Update(context.Background(), task.TaskID, ports.UpdateTaskInput{Title: "New title"}); err != domainerrors.ErrTaskNotOpen {
		t.Fatalf("expected not-open, got %v", err)
	}
}

func TestListByAssigneeOverdueFilter(t *testing.T) {
	store := memory.NewStore(nil)
	service := Service{Tasks: store, Clock: store, IDGen: store}
	now := time.Now().UTC()

	overdue, err := service.Create(context.Background(), ports.CreateTaskInput{
		AssigneeUserID: "user_rep_1",
		Title:          "Send price sheet",
		DueAt:          now.Add(-2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := service.Create(context.Background(), ports.CreateTaskInput{
		AssigneeUserID: "user_rep_1",
		Title:          "Plan next visit",
		DueAt:          now.Add(48 * time.Hour),
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	items, err := service.ListByAssignee(context.Background(), "user_rep_1", "", true)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 || items[0].TaskID != overdue.TaskID {
		t.Fatalf("overdue filter wrong: %+v", items)
	}
}

func TestReschedulingReArmsDueNotification(t *testing.T) {
	store := memory.NewStore(nil)
	service := Service{Tasks: store, Clock: store, IDGen: store}

	task, err := service.Create(context.Background(), ports.CreateTaskInput{
		AssigneeUserID: "user_rep_1",
		Title:          "Check in after delivery",
		DueAt:          time.Now().UTC().Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := store.MarkDueNotified(context.Background(), task.TaskID, time.Now().UTC()); err != nil {
		t.Fatalf("mark notified failed: %v", err)
	}

	newDue := time.Now().UTC().Add(24 * time.Hour)
	updated, err := service.Update(context.Background(), task.TaskID, ports.UpdateTaskInput{DueAt: &newDue})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.DueNotifiedAt != nil {
		t.Fatalf("due notification should re-arm on reschedule")
	}
}
