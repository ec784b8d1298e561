package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"todo/internal/config"
	"todo/internal/exitcode"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	due string
}

// SetDue sets the deadline (for testing).
func (c *AddCmd) SetDue(due string) {
	c.due = due
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "todo add [--due <YYYY-MM-DD>] <text...>" }
func (c *AddCmd) NeedsStore() bool  { return true }
func (c *AddCmd) NeedsAuth() bool   { return false }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.due, "d", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, app *App, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: text required")
		return exitcode.UserError
	}

	// Join args to form the text; the store trims and validates it.
	text := strings.Join(args, " ")
	t, err := app.Store.Add(ctx, text, c.due)
	if err != nil {
		return reportError(errOut, err)
	}

	app.log().Debug("task added", zap.String("id", t.ID), zap.Int("position", app.Store.Len()))

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
