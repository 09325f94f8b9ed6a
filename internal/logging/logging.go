// Package logging builds the leveled console logger used by every command.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// Prefix is printed before every log line.
const Prefix = "todo"

// New returns a logger writing to w.
// Debug output is enabled only when debug is true; otherwise only warnings
// and errors are written.
func New(w io.Writer, debug bool) *log.Logger {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       log.TextFormatter,
		ReportTimestamp: false,
		ReportCaller:    false,
		Prefix:          Prefix,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
