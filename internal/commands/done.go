package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"go.uber.org/zap"

	"todo/internal/config"
	"todo/internal/exitcode"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. Running it on a completed task
// reopens it.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string  { return "Toggle a task's completion" }
func (c *DoneCmd) Usage() string     { return "todo done <n>" }
func (c *DoneCmd) NeedsStore() bool  { return true }
func (c *DoneCmd) NeedsAuth() bool   { return false }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, app *App, args []string, out, errOut io.Writer) int {
	t, code, ok := resolveTask(app.Store, args, errOut)
	if !ok {
		return code
	}

	if err := app.Store.ToggleCompleted(ctx, t.ID); err != nil {
		return reportError(errOut, err)
	}
	app.log().Debug("task toggled", zap.String("id", t.ID), zap.Bool("completed", !t.Completed))

	if !cfg.Quiet {
		if t.Completed {
			fmt.Fprintln(out, "reopened")
		} else {
			fmt.Fprintln(out, "ok")
		}
	}
	return exitcode.Success
}
