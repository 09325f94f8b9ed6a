package service

import "context"

// Store persists the full task list.
// Implementations own the on-disk format; callers always load and save the
// whole list.
type Store interface {
	// Load returns the stored tasks in insertion order.
	// A store that has never been written returns an empty list, not an error.
	Load(ctx context.Context) ([]Task, error)

	// Save replaces the stored list with tasks.
	Save(ctx context.Context, tasks []Task) error
}

// Service defines the task operations available to commands.
// Each call is one load → mutate → save cycle against the Store.
// Commands never touch the Store directly.
type Service interface {
	// Add appends a task with the next free id and returns it.
	Add(ctx context.Context, title string) (Task, error)

	// List returns all tasks in stored order.
	List(ctx context.Context) ([]Task, error)

	// Done marks the task with id as completed and returns it.
	// Returns an error matching ErrNotFound if no task has that id.
	Done(ctx context.Context, id int) (Task, error)

	// Delete removes the task with id and returns it.
	// Returns an error matching ErrNotFound if no task has that id.
	Delete(ctx context.Context, id int) (Task, error)
}
