// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion, including "task not found".
	Success = 0

	// UserError indicates a usage error (missing or invalid arguments,
	// unknown command or flag).
	UserError = 1

	// StoreError indicates the task file exists but could not be decoded.
	StoreError = 2

	// IOError indicates the task file could not be read or written.
	IOError = 3
)
