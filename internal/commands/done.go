package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "todo done <id>" }
func (c *DoneCmd) NeedsStore() bool  { return true }
func (c *DoneCmd) TakesDashArgs() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	task, err := svc.Done(ctx, id)
	if err != nil {
		// Not found is reported, not failed
		if errors.Is(err, service.ErrNotFound) {
			output.FormatNotFound(out, id)
			return exitcode.Success
		}
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		output.FormatCompleted(out, task)
	}
	return exitcode.Success
}
