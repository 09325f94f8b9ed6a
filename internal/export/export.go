// Package export renders the task list in formats meant for other tools.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"gopkg.in/yaml.v3"

	"todo/internal/backend/jsonfile"
	"todo/internal/service"
)

// Format is an export format name.
type Format string

const (
	JSON Format = "json"
	CSV  Format = "csv"
	YAML Format = "yaml"
	PDF  Format = "pdf"
)

// Formats lists the supported formats in help order.
var Formats = []Format{JSON, CSV, YAML, PDF}

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format: %s", s)
}

// Write renders tasks to w in the given format.
func Write(w io.Writer, tasks []service.Task, format Format) error {
	if tasks == nil {
		tasks = []service.Task{}
	}

	var data []byte
	var err error
	switch format {
	case JSON:
		data, err = jsonfile.Encode(tasks)
	case CSV:
		data, err = renderCSV(tasks)
	case YAML:
		data, err = yaml.Marshal(tasks)
	case PDF:
		data, err = renderPDF(tasks)
	default:
		return fmt.Errorf("unknown export format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	_, err = w.Write(data)
	return err
}

func renderCSV(tasks []service.Task) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "title", "completed"}); err != nil {
		return nil, err
	}
	for _, t := range tasks {
		record := []string{strconv.Itoa(t.ID), t.Title, strconv.FormatBool(t.Completed)}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderPDF produces a one-column A4 report.
// The core fonts only cover cp1252; other characters are not rendered faithfully.
func renderPDF(tasks []service.Task) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Tasks")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	if len(tasks) == 0 {
		pdf.Cell(40, 6, "No tasks")
	}
	for _, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		line := fmt.Sprintf("[%s] #%d %s", mark, t.ID, tr(t.Title))
		pdf.MultiCell(0, 6, line, "0", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
