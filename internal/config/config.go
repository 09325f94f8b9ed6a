// Package config resolves the task file location and common settings.
package config

import (
	"os"
	"path/filepath"
)

// StoreFile is the task file name in the user's home directory.
const StoreFile = ".todo.json"

// Config holds the task file path and settings.
type Config struct {
	// StorePath is the task file path.
	StorePath string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a new Config with the default or specified task file.
// If storePath is empty, uses $HOME/.todo.json.
func New(storePath string) (*Config, error) {
	path := storePath
	if path == "" {
		path = DefaultStorePath()
	}
	return &Config{StorePath: path}, nil
}

// DefaultStorePath returns the default task file path.
func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return StoreFile
	}
	return filepath.Join(home, StoreFile)
}

// HasStore checks if the task file exists.
func (c *Config) HasStore() bool {
	_, err := os.Stat(c.StorePath)
	return err == nil
}
