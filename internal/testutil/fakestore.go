// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"todo/internal/service"
)

// FakeStore is an in-memory implementation of service.Store for testing.
// It hands out copies so callers cannot mutate stored state without Save.
type FakeStore struct {
	mu    sync.Mutex
	tasks []service.Task

	// Loads and Saves count calls that reached the store.
	Loads int
	Saves int

	// Error injection for testing
	LoadErr error
	SaveErr error
}

// NewFakeStore creates a FakeStore holding tasks.
func NewFakeStore(tasks ...service.Task) *FakeStore {
	return &FakeStore{tasks: clone(tasks)}
}

// Tasks returns a copy of the stored tasks.
func (f *FakeStore) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return clone(f.tasks)
}

// Load implements service.Store.
func (f *FakeStore) Load(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Loads++
	if f.LoadErr != nil {
		return nil, f.LoadErr
	}
	return clone(f.tasks), nil
}

// Save implements service.Store.
func (f *FakeStore) Save(ctx context.Context, tasks []service.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Saves++
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.tasks = clone(tasks)
	return nil
}

func clone(tasks []service.Task) []service.Task {
	out := make([]service.Task, len(tasks))
	copy(out, tasks)
	return out
}
