package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/remote"
	"todo/internal/storage/memstore"
	"todo/internal/store"
	"todo/internal/task"
	"todo/internal/view"
)

func init() {
	Register(&PushCmd{})
	Register(&PullCmd{})
}

// PushCmd replaces the Google Tasks mirror list with the local list.
type PushCmd struct{}

func (c *PushCmd) Name() string      { return "push" }
func (c *PushCmd) Aliases() []string { return nil }
func (c *PushCmd) Synopsis() string  { return "Copy the task list to Google Tasks" }
func (c *PushCmd) Usage() string     { return "todo push [common flags]" }
func (c *PushCmd) NeedsStore() bool  { return true }
func (c *PushCmd) NeedsAuth() bool   { return true }

func (c *PushCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *PushCmd) Run(ctx context.Context, cfg *config.Config, app *App, args []string, out, errOut io.Writer) int {
	mirror := remote.NewMirror(app.Remote, cfg.Settings.Remote.List, app.log())
	n, err := mirror.Push(ctx, app.Store.Tasks())
	if err != nil {
		return reportError(errOut, err)
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "pushed %d tasks to %s\n", n, cfg.Settings.Remote.List)
	}
	return exitcode.Success
}

// PullCmd replaces the local list with the Google Tasks mirror list.
type PullCmd struct {
	dryRun bool
}

// SetDryRun sets the dry-run flag (for testing).
func (c *PullCmd) SetDryRun(dryRun bool) { c.dryRun = dryRun }

func (c *PullCmd) Name() string      { return "pull" }
func (c *PullCmd) Aliases() []string { return nil }
func (c *PullCmd) Synopsis() string  { return "Replace the task list with Google Tasks" }
func (c *PullCmd) Usage() string     { return "todo pull [common flags] [--dry-run]" }
func (c *PullCmd) NeedsStore() bool  { return true }
func (c *PullCmd) NeedsAuth() bool   { return true }

func (c *PullCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.dryRun, "dry-run", false, "")
	fs.BoolVar(&c.dryRun, "n", false, "")
}

func (c *PullCmd) Run(ctx context.Context, cfg *config.Config, app *App, args []string, out, errOut io.Writer) int {
	mirror := remote.NewMirror(app.Remote, cfg.Settings.Remote.List, app.log())
	pulled, err := mirror.Pull(ctx)
	if err != nil {
		return reportError(errOut, err)
	}
	if c.dryRun {
		return previewPull(ctx, pulled, out, errOut)
	}
	if err := app.Store.Replace(ctx, pulled); err != nil {
		return reportError(errOut, err)
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "pulled %d tasks from %s\n", len(pulled), cfg.Settings.Remote.List)
	}
	return exitcode.Success
}

// previewPull prints what a pull would produce without touching the local list.
func previewPull(ctx context.Context, pulled []task.Task, out, errOut io.Writer) int {
	preview := store.New(memstore.New())
	if err := preview.Replace(ctx, pulled); err != nil {
		return reportError(errOut, err)
	}
	rows := view.New(preview).Render("")
	output.FormatRows(out, rows)
	if len(rows) == 0 {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}
