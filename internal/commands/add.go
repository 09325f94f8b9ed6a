package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return nil }
func (c *AddCmd) Synopsis() string  { return "Add a task" }
func (c *AddCmd) Usage() string     { return "todo add <title...>" }
func (c *AddCmd) NeedsStore() bool  { return true }
func (c *AddCmd) TakesDashArgs() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	// An explicitly empty title ("") is still a title
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	title := strings.Join(args, " ")

	task, err := svc.Add(ctx, title)
	if err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		output.FormatAdded(out, task)
	}
	return exitcode.Success
}
