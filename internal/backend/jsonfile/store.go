// Package jsonfile implements service.Store as a single JSON array on disk.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"todo/internal/logging"
	"todo/internal/service"
)

// FileMode is the permission used when creating the task file.
const FileMode = 0644

// Store reads and writes the task list at Path.
type Store struct {
	path   string
	logger *log.Logger
}

// New creates a Store for the file at path.
// The file does not need to exist yet.
func New(path string, logger *log.Logger) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the task file path.
func (s *Store) Path() string {
	return s.path
}

// Load implements service.Store.
func (s *Store) Load(ctx context.Context) ([]service.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("task file missing, starting empty", "path", s.path)
			return []service.Task{}, nil
		}
		return nil, &service.IOError{Op: "read", Path: s.path, Err: err}
	}

	if err := validate(data); err != nil {
		return nil, &service.CorruptStoreError{Path: s.path, Err: err}
	}

	tasks := []service.Task{}
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, &service.CorruptStoreError{Path: s.path, Err: err}
	}

	s.logger.Debug("loaded tasks", "path", s.path, "tasks", len(tasks), "bytes", len(data))
	return tasks, nil
}

// Save implements service.Store.
// The list is written to a temporary file in the same directory and renamed
// over the task file, so readers see either the old or the new list.
func (s *Store) Save(ctx context.Context, tasks []service.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(tasks)
	if err != nil {
		return &service.IOError{Op: "write", Path: s.path, Err: err}
	}

	if err := writeAtomic(s.path, data); err != nil {
		return &service.IOError{Op: "write", Path: s.path, Err: err}
	}

	s.logger.Debug("saved tasks", "path", s.path, "tasks", len(tasks), "bytes", len(data))
	return nil
}

// Encode renders tasks in the task file format: a JSON array indented with
// two spaces, non-ASCII and HTML characters written literally, and a
// trailing newline. A nil list is written as [].
func Encode(tasks []service.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []service.Task{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tasks); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeAtomic replaces path with data. An existing file keeps its
// permissions, and a symlink keeps pointing at the file it names:
// the rename happens next to the link target.
func writeAtomic(path string, data []byte) error {
	mode := os.FileMode(FileMode)
	if target, err := filepath.EvalSymlinks(path); err == nil {
		path = target
	}
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	// Clean up on any failure before the rename
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}

	committed = true
	return nil
}
