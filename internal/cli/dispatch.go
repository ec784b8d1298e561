// Package cli parses the command line and runs the selected command.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"todo/internal/backend/googletasks"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/logging"
	"todo/internal/output"
	"todo/internal/remote"
	"todo/internal/storage"
	"todo/internal/storage/filestore"
	"todo/internal/storage/sqlstore"
	"todo/internal/store"
	"todo/internal/task"
	"todo/internal/view"
)

// StorageFactory opens the backend the task list is persisted in.
type StorageFactory func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Storage, error)

// ServiceFactory creates the remote mirror service from config.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (remote.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	storage  StorageFactory
	remote   ServiceFactory

	// checkCredentials reports missing credential files before calling
	// the default Google Tasks factory.
	checkCredentials bool
}

// NewDispatcher creates a dispatcher. A nil storage factory means
// OpenStorage; a nil service factory means the Google Tasks client.
func NewDispatcher(registry *commands.Registry, openStorage StorageFactory, newService ServiceFactory) *Dispatcher {
	if openStorage == nil {
		openStorage = OpenStorage
	}
	d := &Dispatcher{registry: registry, storage: openStorage, remote: newService}
	if newService == nil {
		d.remote = GoogleTasks
		d.checkCredentials = true
	}
	return d
}

// OpenStorage opens the backend selected by cfg.Settings.Storage.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	switch cfg.Settings.Storage.Backend {
	case config.BackendSQLite:
		return sqlstore.OpenSQLite(cfg.StoragePath(), logger)
	case config.BackendMySQL:
		return sqlstore.Open(sqlstore.MySQL, cfg.Settings.Storage.DSN, logger)
	default:
		return filestore.New(cfg.StoragePath(), logger), nil
	}
}

// GoogleTasks is the default ServiceFactory.
func GoogleTasks(ctx context.Context, cfg *config.Config) (remote.Service, error) {
	return googletasks.New(ctx, cfg)
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> list everything
	if len(args) == 0 {
		args = []string{"list"}
	}

	name := args[0]
	if strings.HasPrefix(name, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(name)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}
	return d.dispatch(ctx, cmd, args[1:], out, errOut)
}

type commonFlags struct {
	configDir string
	quiet     bool
	debug     bool
}

func (d *Dispatcher) dispatch(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // errors are reported below

	var common commonFlags
	fs.StringVar(&common.configDir, "config", "", "")
	fs.BoolVar(&common.quiet, "quiet", false, "")
	fs.BoolVar(&common.debug, "debug", false, "")
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	positional := fs.Args()
	if len(positional) > 0 && strings.HasPrefix(positional[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positional[0])
		return exitcode.UserError
	}

	cfg, err := config.New(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.AuthError
	}
	cfg.Quiet = common.quiet
	cfg.Debug = common.debug

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to start logger: %v\n", err)
		return exitcode.BackendError
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("command", cmd.Name()))

	app := &commands.App{Logger: logger}

	if cmd.NeedsStore() {
		backend, err := d.storage(ctx, cfg, logger)
		if err != nil {
			fmt.Fprintf(errOut, "error: backend error: %v\n", err)
			return exitcode.BackendError
		}
		defer backend.Close()

		s := store.New(backend,
			store.WithKey(cfg.Settings.Storage.Key),
			store.WithLogger(logger),
		)
		if err := s.Load(ctx); err != nil {
			if errors.Is(err, task.ErrCorruptState) {
				fmt.Fprintf(errOut, "error: %v\n", err)
			} else {
				fmt.Fprintf(errOut, "error: backend error: %v\n", err)
			}
			return exitcode.BackendError
		}
		app.Store = s
		app.View = view.New(s, view.WithEmphasis(output.Highlighter()))

		if fsBackend, ok := backend.(*filestore.Store); ok {
			key := cfg.Settings.Storage.Key
			app.Watch = func(onChange func()) (io.Closer, error) {
				return fsBackend.Watch(key, onChange)
			}
		}
	}

	if cmd.NeedsAuth() {
		if code, ok := d.connectRemote(ctx, cfg, app, errOut); !ok {
			return code
		}
	}

	logger.Debug("running", zap.Strings("args", positional))
	return cmd.Run(ctx, cfg, app, positional, out, errOut)
}

// connectRemote fills app.Remote. The Google client needs both credential
// files; injected factories handle auth themselves.
func (d *Dispatcher) connectRemote(ctx context.Context, cfg *config.Config, app *commands.App, errOut io.Writer) (int, bool) {
	if d.checkCredentials {
		if !cfg.HasOAuthClient() {
			fmt.Fprintf(errOut, "error: %s not found in %s\n", config.OAuthClientFile, cfg.Dir)
			return exitcode.AuthError, false
		}
		if !cfg.HasToken() {
			fmt.Fprintln(errOut, "error: not logged in (run: todo login)")
			return exitcode.AuthError, false
		}
	}

	svc, err := d.remote(ctx, cfg)
	if err != nil {
		msg := err.Error()
		if strings.Contains(msg, "token") || strings.Contains(msg, "oauth") {
			fmt.Fprintf(errOut, "error: auth error: %s\n", msg)
			return exitcode.AuthError, false
		}
		fmt.Fprintf(errOut, "error: backend error: %s\n", msg)
		return exitcode.BackendError, false
	}
	app.Remote = svc
	return exitcode.Success, true
}

func flagError(err error) string {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "flag needs an argument:"):
		return "flag needs an argument: " + strings.TrimSpace(strings.TrimPrefix(msg, "flag needs an argument:"))
	case strings.HasPrefix(msg, "flag provided but not defined:"):
		return "unknown flag: " + strings.TrimSpace(strings.TrimPrefix(msg, "flag provided but not defined:"))
	}
	return msg
}
