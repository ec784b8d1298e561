package output_test

import (
	"bytes"
	"testing"

	"todo/internal/output"
	"todo/internal/view"
)

func TestFormatRow(t *testing.T) {
	tests := []struct {
		name string
		row  view.Row
		want string
	}{
		{
			name: "open",
			row:  view.Row{Position: 1, Display: "Buy milk"},
			want: "   1  [ ] Buy milk\n",
		},
		{
			name: "completed with deadline",
			row:  view.Row{Position: 12, Completed: true, Display: "Pay rent", Deadline: "2026-11-01"},
			want: "  12  [x] Pay rent  (due 2026-11-01)\n",
		},
		{
			name: "multiline text",
			row:  view.Row{Position: 3, Display: "line one\nline two"},
			want: "   3  [ ] line one line two\n",
		},
		{
			name: "blank text",
			row:  view.Row{Position: 4, Display: "   "},
			want: "   4  [ ] (untitled)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			output.FormatRow(&buf, tt.row)
			if buf.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestHighlighterWithoutTerminal(t *testing.T) {
	// Test output is never a terminal.
	if got := output.Highlighter()("milk"); got != "[milk]" {
		t.Errorf("expected bracket emphasis, got %q", got)
	}
}
