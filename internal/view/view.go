// Package view projects the task list into filtered, highlighted rows and
// tracks which rows are being edited.
package view

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"todo/internal/task"
)

// MinQueryLen is the shortest query that filters; shorter ones show everything.
const MinQueryLen = 2

// Source is the part of the task store the view reads and writes through.
type Source interface {
	Tasks() []task.Task
	Get(id string) (task.Task, error)
	UpdateText(ctx context.Context, id, text string) error
	UpdateDeadline(ctx context.Context, id, deadline string) error
}

// Row is one displayed task.
type Row struct {
	ID        string
	Position  int // 1-based, in the unfiltered list
	Completed bool
	Text      string
	Display   string // Text with query matches emphasized
	Deadline  string

	Editing   bool
	EditField Field
	EditValue string
}

// View renders a Source. Create one per process and pass it to whatever
// handles user input.
type View struct {
	src      Source
	emphasis func(string) string

	mu    sync.Mutex
	edits map[editKey]*Edit
}

// Option configures a View.
type Option func(*View)

// WithEmphasis sets how query matches are wrapped in Row.Display.
func WithEmphasis(fn func(string) string) Option {
	return func(v *View) { v.emphasis = fn }
}

// Brackets is the default emphasis: "milk" → "[milk]".
func Brackets(s string) string { return "[" + s + "]" }

// New creates a View over src.
func New(src Source, opts ...Option) *View {
	v := &View{
		src:      src,
		emphasis: Brackets,
		edits:    make(map[editKey]*Edit),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// NormalizeQuery trims and lower-cases a search query.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func active(query string) bool {
	return utf8.RuneCountInString(query) >= MinQueryLen
}

// Filter returns the tasks whose text contains query, case-insensitively,
// in list order. Queries shorter than MinQueryLen return every task.
func (v *View) Filter(query string) []task.Task {
	tasks := v.src.Tasks()
	query = NormalizeQuery(query)
	if !active(query) {
		return tasks
	}
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Text), query) {
			out = append(out, t)
		}
	}
	return out
}

// Render builds the rows for query.
func (v *View) Render(query string) []Row {
	tasks := v.src.Tasks()
	query = NormalizeQuery(query)

	// Compiled per call; query metacharacters match literally.
	var re *regexp.Regexp
	if active(query) {
		re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	rows := make([]Row, 0, len(tasks))
	for i, t := range tasks {
		if re != nil && !strings.Contains(strings.ToLower(t.Text), query) {
			continue
		}
		row := Row{
			ID:        t.ID,
			Position:  i + 1,
			Completed: t.Completed,
			Text:      t.Text,
			Display:   t.Text,
			Deadline:  t.Deadline,
		}
		if re != nil {
			row.Display = re.ReplaceAllStringFunc(t.Text, v.emphasis)
		}
		for _, f := range []Field{FieldText, FieldDeadline} {
			if e, ok := v.edits[editKey{t.ID, f}]; ok {
				row.Editing = true
				row.EditField = f
				row.EditValue = e.Value()
			}
		}
		rows = append(rows, row)
	}
	return rows
}
