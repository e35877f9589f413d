package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
)

// prefix is accepted, and ignored, as the first word of a console line.
const prefix = "cmd"

var (
	ErrMissingCommand = errors.New("missing subcommand")
	ErrUnknownCommand = errors.New("unknown command")
)

// Command is a subcommand with its own flags and a Run function.
// Flags are defined on FlagSet; Run is called after Parse and can read flag state and
// the remaining positional arguments.
type Command struct {
	Name    string
	Usage   string
	FlagSet *flag.FlagSet
	Run     func(args []string) error
}

// Registry holds subcommands by name. Add commands with Register; run with Execute.
type Registry struct {
	cmds map[string]*Command
}

// NewRegistry returns an empty command registry.
func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]*Command)}
}

// Register adds a subcommand. fs may be nil for commands without flags; flag errors are
// returned from Execute rather than printed.
func (r *Registry) Register(name, usage string, fs *flag.FlagSet, run func(args []string) error) {
	if fs == nil {
		fs = flag.NewFlagSet(name, flag.ContinueOnError)
	}
	fs.SetOutput(io.Discard)
	r.cmds[name] = &Command{Name: name, Usage: usage, FlagSet: fs, Run: run}
}

// Names returns the registered command names in order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cmds))
	for n := range r.cmds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the command registered under name.
func (r *Registry) Lookup(name string) (*Command, bool) {
	c, ok := r.cmds[name]
	return c, ok
}

// Parse splits a console line into arguments. A leading "cmd" word or "/" is dropped.
// Lines with nothing left yield ok false.
func Parse(line string) (args []string, ok bool) {
	args = strings.Fields(line)
	if len(args) > 0 && args[0] == prefix {
		args = args[1:]
	}
	if len(args) > 0 {
		args[0] = strings.TrimPrefix(args[0], "/")
		if args[0] == "" {
			args = args[1:]
		}
	}
	return args, len(args) > 0
}

// Execute runs the subcommand in args[0] with args[1:] as flag/positional arguments.
// Returns an error for unknown command, parse error, or from Run.
func (r *Registry) Execute(args []string) error {
	if len(args) == 0 {
		return ErrMissingCommand
	}
	name := args[0]
	cmd, ok := r.cmds[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	// flags start from their defaults on every run
	cmd.FlagSet.VisitAll(func(f *flag.Flag) { _ = f.Value.Set(f.DefValue) })
	if err := cmd.FlagSet.Parse(args[1:]); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return cmd.Run(cmd.FlagSet.Args())
}
