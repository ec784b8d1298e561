package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"todo/internal/config"
	"todo/internal/exitcode"
)

func init() {
	Register(&HelpCmd{Registry: DefaultRegistry})
}

// HelpCmd prints the usage of every command in Registry.
type HelpCmd struct {
	Registry *Registry
}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todo help" }
func (c *HelpCmd) NeedsStore() bool  { return false }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, app *App, args []string, out, errOut io.Writer) int {
	WriteHelp(out, c.Registry)
	return exitcode.Success
}

// WriteHelp writes the usage summary for reg.
func WriteHelp(w io.Writer, reg *Registry) {
	fmt.Fprintln(w, "Usage:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  todo\tList all tasks\n")
	if reg != nil {
		for _, c := range reg.All() {
			synopsis := c.Synopsis()
			if aliases := c.Aliases(); len(aliases) > 0 {
				synopsis += " (alias: " + strings.Join(aliases, ", ") + ")"
			}
			fmt.Fprintf(tw, "  %s\t%s\n", c.Usage(), synopsis)
		}
	}
	tw.Flush()
	fmt.Fprint(w, commonFlagsHelp)
}

const commonFlagsHelp = `
Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
