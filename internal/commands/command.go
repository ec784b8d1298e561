// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"go.uber.org/zap"

	"todo/internal/config"
	"todo/internal/remote"
	"todo/internal/store"
	"todo/internal/view"
)

// App is what a command runs against. The dispatcher builds one per
// invocation and fills only what the command asks for.
type App struct {
	// Store and View are set when NeedsStore returns true.
	Store *store.Store
	View  *view.View

	// Remote is set when NeedsAuth returns true.
	Remote remote.Service

	// Watch, when set, reports external changes to the persisted list.
	Watch func(onChange func()) (io.Closer, error)

	Logger *zap.Logger
}

func (a *App) log() *zap.Logger {
	if a == nil || a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

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

	// NeedsStore returns true if the command reads or writes the task list.
	NeedsStore() bool

	// NeedsAuth returns true if the command talks to Google Tasks.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths, settings).
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, app *App, args []string, out, errOut io.Writer) int
}
