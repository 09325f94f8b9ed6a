// Package service defines the task model and the store-backed task operations.
package service

// Task represents a single task item.
type Task struct {
	ID        int    `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Completed bool   `json:"completed" yaml:"completed"`
}
