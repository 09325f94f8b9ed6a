package service

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that no stored task has the requested id.
var ErrNotFound = errors.New("task not found")

// CorruptStoreError is returned when the task file exists but its contents
// cannot be decoded into a task list.
type CorruptStoreError struct {
	Path string
	Err  error
}

func (e *CorruptStoreError) Error() string {
	return fmt.Sprintf("corrupt task file: %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying decode or validation error.
func (e *CorruptStoreError) Unwrap() error {
	return e.Err
}

// IOError is returned when the task file cannot be read or written.
type IOError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s task file %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying filesystem error.
func (e *IOError) Unwrap() error {
	return e.Err
}
