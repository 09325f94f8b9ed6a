package service

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"todo/internal/logging"
)

// TaskService implements Service on top of a Store.
// It keeps no state between calls: every operation loads the full list,
// changes it, and saves it back. There is no locking between load and save,
// so concurrent processes race and the last save wins.
type TaskService struct {
	store  Store
	logger *log.Logger
}

// New creates a TaskService backed by store.
// A nil logger discards all log output.
func New(store Store, logger *log.Logger) *TaskService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &TaskService{store: store, logger: logger}
}

// Add implements Service.
func (s *TaskService) Add(ctx context.Context, title string) (Task, error) {
	tasks, err := s.store.Load(ctx)
	if err != nil {
		return Task{}, err
	}

	tasks, task := Append(tasks, title)
	if err := s.store.Save(ctx, tasks); err != nil {
		return Task{}, err
	}

	s.logger.Debug("added task", "id", task.ID, "tasks", len(tasks))
	return task, nil
}

// List implements Service.
func (s *TaskService) List(ctx context.Context) ([]Task, error) {
	return s.store.Load(ctx)
}

// Done implements Service.
func (s *TaskService) Done(ctx context.Context, id int) (Task, error) {
	tasks, err := s.store.Load(ctx)
	if err != nil {
		return Task{}, err
	}

	task, ok := Complete(tasks, id)
	if !ok {
		s.logger.Debug("done: no such task", "id", id)
		return Task{}, fmt.Errorf("task #%d: %w", id, ErrNotFound)
	}

	if err := s.store.Save(ctx, tasks); err != nil {
		return Task{}, err
	}

	s.logger.Debug("completed task", "id", id)
	return task, nil
}

// Delete implements Service.
func (s *TaskService) Delete(ctx context.Context, id int) (Task, error) {
	tasks, err := s.store.Load(ctx)
	if err != nil {
		return Task{}, err
	}

	rest, task, ok := Remove(tasks, id)
	if !ok {
		s.logger.Debug("delete: no such task", "id", id)
		return Task{}, fmt.Errorf("task #%d: %w", id, ErrNotFound)
	}

	if err := s.store.Save(ctx, rest); err != nil {
		return Task{}, err
	}

	s.logger.Debug("deleted task", "id", id, "tasks", len(rest))
	return task, nil
}
