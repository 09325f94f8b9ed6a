package commands

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/export"
	"todo/internal/service"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd implements the export command.
type ExportCmd struct {
	format string
	output string
}

// SetFormat sets the export format (for testing).
func (c *ExportCmd) SetFormat(format string) {
	c.format = format
}

// SetOutput sets the output file (for testing).
func (c *ExportCmd) SetOutput(path string) {
	c.output = path
}

func (c *ExportCmd) Name() string      { return "export" }
func (c *ExportCmd) Aliases() []string { return nil }
func (c *ExportCmd) Synopsis() string  { return "Export tasks as json, csv, yaml or pdf" }
func (c *ExportCmd) Usage() string {
	return "todo export [--format json|csv|yaml|pdf] [--output <path>]"
}
func (c *ExportCmd) NeedsStore() bool { return true }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", string(export.JSON), "")
	fs.StringVar(&c.format, "f", string(export.JSON), "")
	fs.StringVar(&c.output, "output", "", "")
	fs.StringVar(&c.output, "o", "", "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	name := c.format
	if name == "" {
		name = string(export.JSON)
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	tasks, err := svc.List(ctx)
	if err != nil {
		return reportError(errOut, err)
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, tasks, format); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.IOError
	}

	if c.output == "" {
		if _, err := out.Write(buf.Bytes()); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.IOError
		}
		return exitcode.Success
	}

	if err := os.WriteFile(c.output, buf.Bytes(), 0644); err != nil {
		fmt.Fprintf(errOut, "error: write export file: %v\n", err)
		return exitcode.IOError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "✓ Exported %d tasks to %s\n", len(tasks), c.output)
	}
	return exitcode.Success
}
