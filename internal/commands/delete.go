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
	Register(&DeleteCmd{})
}

// DeleteCmd implements the delete command.
type DeleteCmd struct{}

func (c *DeleteCmd) Name() string      { return "delete" }
func (c *DeleteCmd) Aliases() []string { return []string{"rm"} }
func (c *DeleteCmd) Synopsis() string  { return "Delete a task" }
func (c *DeleteCmd) Usage() string     { return "todo delete <id>" }
func (c *DeleteCmd) NeedsStore() bool  { return true }
func (c *DeleteCmd) TakesDashArgs() bool { return true }

func (c *DeleteCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DeleteCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	task, err := svc.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			output.FormatNotFound(out, id)
			return exitcode.Success
		}
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		output.FormatDeleted(out, task)
	}
	return exitcode.Success
}
