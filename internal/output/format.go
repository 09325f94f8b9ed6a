// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"todo/internal/service"
)

const (
	// ListHeader introduces the task report.
	ListHeader = "Tasks:"

	// EmptyMessage is printed by list when there are no tasks.
	EmptyMessage = "No tasks"

	// OKMark prefixes confirmations and marks completed tasks.
	OKMark = "✓"

	// FailMark prefixes not-found messages.
	FailMark = "✗"
)

var (
	okColor   = lipgloss.Color("42")
	failColor = lipgloss.Color("196")
)

// FormatAdded prints the confirmation for a newly added task.
// Format: "✓ Added task #{ID}: {TITLE}\n"
func FormatAdded(w io.Writer, task service.Task) {
	formatConfirmation(w, "Added", task)
}

// FormatCompleted prints the confirmation for a completed task.
func FormatCompleted(w io.Writer, task service.Task) {
	formatConfirmation(w, "Completed", task)
}

// FormatDeleted prints the confirmation for a deleted task.
func FormatDeleted(w io.Writer, task service.Task) {
	formatConfirmation(w, "Deleted", task)
}

// FormatNotFound prints the message for an id that matches no task.
// Format: "✗ Task #{ID} not found\n"
func FormatNotFound(w io.Writer, id int) {
	r := lipgloss.NewRenderer(w)
	fmt.Fprintf(w, "%s Task #%d not found\n", colorize(r, FailMark, failColor), id)
}

// FormatEmpty prints the message for an empty task list.
func FormatEmpty(w io.Writer) {
	fmt.Fprintln(w, EmptyMessage)
}

// FormatTaskList prints the header followed by one line per task in the
// given order.
// Line format: "  [{MARK}] #{ID} {TITLE}\n" where MARK is "✓" or a space.
func FormatTaskList(w io.Writer, tasks []service.Task) {
	r := lipgloss.NewRenderer(w)
	fmt.Fprintln(w, ListHeader)
	for _, task := range tasks {
		fmt.Fprintf(w, "  [%s] #%d %s\n", marker(r, task.Completed), task.ID, normalizeTitle(task.Title))
	}
}

// Marker returns the plain completion marker for a task.
func Marker(completed bool) string {
	if completed {
		return OKMark
	}
	return " "
}

func formatConfirmation(w io.Writer, verb string, task service.Task) {
	r := lipgloss.NewRenderer(w)
	fmt.Fprintf(w, "%s %s task #%d: %s\n", colorize(r, OKMark, okColor), verb, task.ID, normalizeTitle(task.Title))
}

func marker(r *lipgloss.Renderer, completed bool) string {
	if !completed {
		return Marker(false)
	}
	return colorize(r, OKMark, okColor)
}

// colorize styles s only when the writer supports color, so piped output
// and test buffers stay plain.
func colorize(r *lipgloss.Renderer, s string, c lipgloss.Color) string {
	if r.ColorProfile() == termenv.Ascii {
		return s
	}
	return r.NewStyle().Foreground(c).Render(s)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
// The stored title is never changed.
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
