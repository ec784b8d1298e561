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
	"todo/internal/task"
	"todo/internal/view"
)

func init() {
	Register(&EditCmd{})
}

type fieldChange struct {
	field view.Field
	value string
}

// stringFlag is a string flag that remembers whether it was given, so an
// explicit empty value is not mistaken for an absent flag.
type stringFlag struct {
	value string
	set   bool
}

func (f *stringFlag) String() string { return f.value }

func (f *stringFlag) Set(value string) error {
	f.value = value
	f.set = true
	return nil
}

// EditCmd changes a task's text or deadline through the same edit sessions
// the interactive UI uses.
type EditCmd struct {
	text     stringFlag
	due      stringFlag
	clearDue bool
}

// SetText sets the new text (for testing).
func (c *EditCmd) SetText(text string) { _ = c.text.Set(text) }

// SetDue sets the new deadline (for testing).
func (c *EditCmd) SetDue(due string) { _ = c.due.Set(due) }

// SetClearDue sets the clear-due flag (for testing).
func (c *EditCmd) SetClearDue(clear bool) { c.clearDue = clear }

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task's text or deadline" }
func (c *EditCmd) Usage() string {
	return "todo edit [--text <text>] [--due <YYYY-MM-DD> | --clear-due] <n>"
}
func (c *EditCmd) NeedsStore() bool { return true }
func (c *EditCmd) NeedsAuth() bool  { return false }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.text, c.due = stringFlag{}, stringFlag{}
	fs.Var(&c.text, "text", "")
	fs.Var(&c.text, "t", "")
	fs.Var(&c.due, "due", "")
	fs.Var(&c.due, "d", "")
	fs.BoolVar(&c.clearDue, "clear-due", false, "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, app *App, args []string, out, errOut io.Writer) int {
	// Flag parsing stops at the task number.
	if len(args) > 1 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s (flags go before the task number)\n", args[1])
		return exitcode.UserError
	}
	if c.due.set && c.clearDue {
		fmt.Fprintln(errOut, "error: cannot use both --due and --clear-due")
		return exitcode.UserError
	}
	if !c.text.set && !c.due.set && !c.clearDue {
		fmt.Fprintln(errOut, "error: nothing to change (use --text, --due or --clear-due)")
		return exitcode.UserError
	}

	t, code, ok := resolveTask(app.Store, args, errOut)
	if !ok {
		return code
	}

	var changes []fieldChange
	if c.text.set {
		if err := task.ValidateText(strings.TrimSpace(c.text.value)); err != nil {
			return reportError(errOut, err)
		}
		changes = append(changes, fieldChange{view.FieldText, c.text.value})
	}
	if c.due.set || c.clearDue {
		due := ""
		if c.due.set {
			due = c.due.value
		}
		if err := task.ValidateDeadline(strings.TrimSpace(due), app.Store.Now()); err != nil {
			return reportError(errOut, err)
		}
		changes = append(changes, fieldChange{view.FieldDeadline, due})
	}

	for i, ch := range changes {
		if err := commitChange(ctx, app.View, t.ID, ch); err != nil {
			if i > 0 {
				restoreText(ctx, app, t)
			}
			return reportError(errOut, err)
		}
	}
	app.log().Debug("task edited", zap.String("id", t.ID), zap.Int("fields", len(changes)))

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

func commitChange(ctx context.Context, v *view.View, id string, ch fieldChange) error {
	edit, err := v.BeginEdit(id, ch.field)
	if err != nil {
		return err
	}
	edit.SetValue(ch.value)
	if err := edit.Commit(ctx); err != nil {
		// Nobody is left to correct the input; drop the session.
		edit.Cancel()
		return err
	}
	return nil
}

// restoreText puts back the text committed before a later change failed, so an
// edit applies all of its fields or none.
func restoreText(ctx context.Context, app *App, orig task.Task) {
	if err := app.Store.UpdateText(ctx, orig.ID, orig.Text); err != nil {
		app.log().Warn("failed to restore task text", zap.String("id", orig.ID), zap.Error(err))
	}
}
