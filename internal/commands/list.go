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
	"todo/internal/view"
)

func init() {
	Register(&ListCmd{})
	Register(&SearchCmd{})
}

// ListCmd implements the list command.
// Handles both `todo` (no args) and `todo list [--search <query>]`.
type ListCmd struct {
	query string
}

// SetQuery sets the search query (for testing).
func (c *ListCmd) SetQuery(query string) {
	c.query = query
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "todo list [--search <query>]" }
func (c *ListCmd) NeedsStore() bool  { return true }
func (c *ListCmd) NeedsAuth() bool   { return false }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.query, "search", "", "")
	fs.StringVar(&c.query, "s", "", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, app *App, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	return runList(cfg, app, c.query, out)
}

// SearchCmd lists only the tasks matching a query.
type SearchCmd struct{}

func (c *SearchCmd) Name() string      { return "search" }
func (c *SearchCmd) Aliases() []string { return []string{"find"} }
func (c *SearchCmd) Synopsis() string  { return "List tasks matching a query" }
func (c *SearchCmd) Usage() string     { return "todo search <query...>" }
func (c *SearchCmd) NeedsStore() bool  { return true }
func (c *SearchCmd) NeedsAuth() bool   { return false }

func (c *SearchCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SearchCmd) Run(ctx context.Context, cfg *config.Config, app *App, args []string, out, errOut io.Writer) int {
	query := view.NormalizeQuery(strings.Join(args, " "))
	if len([]rune(query)) < view.MinQueryLen {
		fmt.Fprintf(errOut, "error: query must be at least %d characters\n", view.MinQueryLen)
		return exitcode.UserError
	}
	return runList(cfg, app, query, out)
}

// runList is the shared implementation for list and search.
func runList(cfg *config.Config, app *App, query string, out io.Writer) int {
	rows := app.View.Render(query)
	output.FormatRows(out, rows)

	if len(rows) == 0 && !cfg.Quiet {
		if app.Store.Len() == 0 {
			fmt.Fprintln(out, "no tasks found")
		} else {
			fmt.Fprintln(out, "no matching tasks")
		}
	}
	return exitcode.Success
}
