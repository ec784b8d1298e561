// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"todo/internal/view"
)

var highlightStyle = lipgloss.NewStyle().Bold(true).Reverse(true)

// Highlighter returns the emphasis used for search matches: reverse video
// when the terminal renders styles, brackets when it doesn't (pipes, tests).
func Highlighter() func(string) string {
	if highlightStyle.Render("x") == "x" {
		return view.Brackets
	}
	return func(s string) string { return highlightStyle.Render(s) }
}

// FormatRow formats a task line.
// Format: "{N:>4}  [x] {TEXT}" with "  (due {DATE})" when a deadline is set.
func FormatRow(w io.Writer, row view.Row) {
	check := " "
	if row.Completed {
		check = "x"
	}
	fmt.Fprintf(w, "%4d  [%s] %s", row.Position, check, normalizeText(row.Display))
	if row.Deadline != "" {
		fmt.Fprintf(w, "  (due %s)", row.Deadline)
	}
	fmt.Fprintln(w)
}

// FormatRows formats every row, in order.
func FormatRows(w io.Writer, rows []view.Row) {
	for _, row := range rows {
		FormatRow(w, row)
	}
}

// normalizeText keeps a task on one line.
// - Newlines are replaced with spaces
// - Empty or whitespace-only text becomes "(untitled)"
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return text
}
