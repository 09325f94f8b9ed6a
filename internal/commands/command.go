// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsStore returns true if the command reads or writes the task file.
	// Commands like help and version return false.
	NeedsStore() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (task file path, settings).
	// svc is nil if NeedsStore() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}

// ArgsCommand is implemented by commands whose positional arguments may
// begin with "-", such as titles and task ids. For these commands the
// first argument that is not a registered flag ends flag parsing.
type ArgsCommand interface {
	TakesDashArgs() bool
}

// reportError prints a store failure and returns its exit code.
func reportError(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %v\n", err)

	var corrupt *service.CorruptStoreError
	if errors.As(err, &corrupt) {
		return exitcode.StoreError
	}
	return exitcode.IOError
}
