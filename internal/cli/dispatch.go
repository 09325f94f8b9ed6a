// Package cli parses the command line and dispatches to commands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"todo/internal/backend/jsonfile"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/logging"
	"todo/internal/service"
)

// ServiceFactory creates a Service from config.
// Used to inject the store during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config, logger *log.Logger) (service.Service, error)

// LocalFactory builds a TaskService over the JSON task file at cfg.StorePath.
func LocalFactory(ctx context.Context, cfg *config.Config, logger *log.Logger) (service.Service, error) {
	store := jsonfile.New(cfg.StorePath, logger)
	return service.New(store, logger), nil
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
// A nil factory falls back to LocalFactory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	if factory == nil {
		factory = LocalFactory
	}
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		commands.WriteUsage(errOut, d.registry)
		return exitcode.UserError
	}

	cmdName := args[0]

	// Flags are only accepted after the command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatchCommand(ctx, cmd, args[1:], out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var storePath string
	var quiet bool
	var debug bool

	fs.StringVar(&storePath, "file", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	var rest []string
	if ac, ok := cmd.(commands.ArgsCommand); ok && ac.TakesDashArgs() {
		args, rest = splitFlags(fs, args)
	}

	if err := fs.Parse(args); err != nil {
		return reportFlagError(errOut, err)
	}

	// A positional that still looks like a flag is rejected unless the
	// user ended flag parsing with "--".
	positionalArgs := fs.Args()
	consumed := args[:len(args)-len(positionalArgs)]
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") && !slices.Contains(consumed, "--") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}
	positionalArgs = append(positionalArgs, rest...)

	cfg, err := config.New(storePath)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	logger := logging.New(errOut, debug)
	logger.Debug("dispatch", "command", cmd.Name(), "file", cfg.StorePath, "exists", cfg.HasStore())

	var svc service.Service
	if cmd.NeedsStore() {
		svc, err = d.factory(ctx, cfg, logger)
		if err != nil {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return exitcode.IOError
		}
	}

	return cmd.Run(ctx, cfg, svc, positionalArgs, out, errOut)
}

// splitFlags returns the leading run of registered flags (with their values)
// and everything after it. Parsing stops at "--", at the first argument
// that does not start with "-", and at the first unregistered name, so
// "add -5 degrees" and "done -1" reach the command as positionals.
func splitFlags(fs *flag.FlagSet, args []string) (flags, rest []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return args[:i+1], args[i+1:]
		}
		if len(arg) < 2 || arg[0] != '-' {
			return args[:i], args[i:]
		}

		name, _, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		f := fs.Lookup(name)
		if f == nil {
			return args[:i], args[i:]
		}
		if bf, ok := f.Value.(interface{ IsBoolFlag() bool }); (ok && bf.IsBoolFlag()) || hasValue {
			continue
		}
		// Skip the flag's value; a missing value is reported by Parse.
		i++
	}
	return args, nil
}

// reportFlagError prints a flag parsing failure in the CLI's error format.
func reportFlagError(errOut io.Writer, err error) int {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "flag needs an argument"):
		// "flag needs an argument: -file"
		flagName := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
		fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagName)
	case strings.HasPrefix(errStr, "flag provided but not defined:"):
		flagName := strings.TrimSpace(strings.TrimPrefix(errStr, "flag provided but not defined:"))
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
	default:
		fmt.Fprintf(errOut, "error: %s\n", errStr)
	}
	return exitcode.UserError
}
