package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	domainerrors "relish/contexts/crm/task-service/domain/errors"
	"relish/contexts/crm/task-service/ports"
)

const statusOpen = "open"

type Store struct {
	mu        sync.RWMutex
	tasksByID map[string]ports.Task
	sequence  int
}

func NewStore(seed []ports.Task) *Store {
	store := &Store{tasksByID: make(map[string]ports.Task, len(seed))}
	for _, task := range seed {
		store.tasksByID[task.TaskID] = task
	}
	store.sequence = len(seed)
	return store
}

func (s *Store) CreateTask(_ context.Context, task ports.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasksByID[task.TaskID]; exists {
		return domainerrors.ErrInvalidTask
	}
	s.tasksByID[task.TaskID] = task
	return nil
}

func (s *Store) GetTask(_ context.Context, taskID string) (ports.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasksByID[taskID]
	if !ok {
		return ports.Task{}, domainerrors.ErrTaskNotFound
	}
	return task, nil
}

func (s *Store) UpdateTask(_ context.Context, task ports.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasksByID[task.TaskID]; !ok {
		return domainerrors.ErrTaskNotFound
	}
	s.tasksByID[task.TaskID] = task
	return nil
}

func (s *Store) DeleteTask(_ context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasksByID[taskID]; !ok {
		return domainerrors.ErrTaskNotFound
	}
	delete(s.tasksByID, taskID)
	return nil
}

func (s *Store) ListTasks(_ context.Context, filter ports.TaskFilter) ([]ports.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.Task, 0)
	for _, task := range s.tasksByID {
		if filter.AssigneeUserID != "" && task.AssigneeUserID != filter.AssigneeUserID {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		if filter.OverdueOnly && (task.Status != statusOpen || !task.DueAt.Before(filter.Now)) {
			continue
		}
		items = append(items, task)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].DueAt.Before(items[j].DueAt)
	})
	return items, nil
}

func (s *Store) ListDueUnnotified(_ context.Context, now time.Time, limit int) ([]ports.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.Task, 0)
	for _, task := range s.tasksByID {
		if task.Status != statusOpen || task.DueNotifiedAt != nil || !task.DueAt.Before(now) {
			continue
		}
		items = append(items, task)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].DueAt.Before(items[j].DueAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkDueNotified(_ context.Context, taskID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasksByID[taskID]
	if !ok {
		return domainerrors.ErrTaskNotFound
	}
	notified := at.UTC()
	task.DueNotifiedAt = &notified
	s.tasksByID[taskID] = task
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sequence++
	return fmt.Sprintf("task_%d", s.sequence), nil
}
