// Package tui is the interactive task list.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"todo/internal/store"
	"todo/internal/task"
	"todo/internal/view"
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeAdd
	modeAddDeadline
	modeEdit
	modeConfirmDelete
)

// ReloadMsg asks the model to re-read the persisted list.
type ReloadMsg struct{}

// Model is the bubbletea model for `todo ui`.
type Model struct {
	ctx    context.Context
	store  *store.Store
	view   *view.View
	logger *zap.Logger

	rows   []view.Row
	cursor int
	mode   mode
	query  string

	search textinput.Model
	input  textinput.Model
	edit   *view.Edit
	help   help.Model

	pendingDelete string
	pendingText   string
	status        string
}

// New builds a model over s, rendering through v.
func New(ctx context.Context, s *store.Store, v *view.View, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "search"
	search.CharLimit = task.MaxTextLen

	input := textinput.New()
	input.CharLimit = task.MaxTextLen
	input.Width = 50

	m := Model{
		ctx:    ctx,
		store:  s,
		view:   v,
		logger: logger,
		search: search,
		input:  input,
		help:   help.New(),
		status: "a add · space toggle · e edit · D deadline · / search",
	}
	m.refresh()
	return m
}

// Run starts the UI and blocks until the user quits or ctx is cancelled.
// When watch is set, external writes to the list trigger a reload.
func Run(ctx context.Context, s *store.Store, v *view.View, watch func(func()) (io.Closer, error), logger *zap.Logger) error {
	m := New(ctx, s, v, logger)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())

	if watch != nil {
		w, err := watch(func() { p.Send(ReloadMsg{}) })
		if err != nil {
			m.logger.Warn("live reload disabled", zap.Error(err))
		} else {
			defer w.Close()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Rows returns the rows currently displayed.
func (m Model) Rows() []view.Row { return m.rows }

// Status returns the status line.
func (m Model) Status() string { return m.status }

// Cursor returns the selected row index.
func (m Model) Cursor() int { return m.cursor }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ReloadMsg:
		if err := m.store.Load(m.ctx); err != nil {
			m.status = errorStatus(err)
			m.logger.Warn("reload failed", zap.Error(err))
		}
		m.refresh()
		return m, nil
	case tea.WindowSizeMsg:
		m.input.Width = max(msg.Width-20, 10)
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeAdd:
			return m.updateAdd(msg)
		case modeAddDeadline:
			return m.updateAddDeadline(msg)
		case modeEdit:
			return m.updateEdit(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		m.cursor = clampCursor(m.cursor-1, len(m.rows))
	case key.Matches(msg, keys.Down):
		m.cursor = clampCursor(m.cursor+1, len(m.rows))
	case key.Matches(msg, keys.ClearQuery):
		if m.query != "" {
			m.query = ""
			m.search.SetValue("")
			m.refresh()
		}
	case key.Matches(msg, keys.Search):
		m.mode = modeSearch
		return m, m.search.Focus()
	case key.Matches(msg, keys.Add):
		m.mode = modeAdd
		m.input.Placeholder = "New task"
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(msg, keys.Toggle):
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.store.ToggleCompleted(m.ctx, row.ID); err != nil {
			m.status = errorStatus(err)
		} else if row.Completed {
			m.status = "Reopened task"
		} else {
			m.status = "Completed task"
		}
		m.refresh()
	case key.Matches(msg, keys.Delete):
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeConfirmDelete
		m.pendingDelete = row.ID
		m.status = fmt.Sprintf("Delete %q? y/n", row.Text)
	case key.Matches(msg, keys.EditText):
		return m.beginEdit(view.FieldText)
	case key.Matches(msg, keys.EditDue):
		return m.beginEdit(view.FieldDeadline)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Confirm):
		m.mode = modeList
		m.search.Blur()
		return m, nil
	case key.Matches(msg, keys.Cancel):
		m.mode = modeList
		m.search.Blur()
		m.search.SetValue("")
		m.query = ""
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.query = m.search.Value()
	m.refresh()
	return m, cmd
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		m.mode = modeList
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case key.Matches(msg, keys.Confirm):
		text := strings.TrimSpace(m.input.Value())
		if err := task.ValidateText(text); err != nil {
			m.status = errorStatus(err)
			return m, nil
		}
		m.pendingText = text
		m.mode = modeAddDeadline
		m.input.Placeholder = task.DateLayout
		m.input.SetValue("")
		m.status = "Deadline (optional): enter to add, esc to cancel"
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateAddDeadline is the second add step; an empty deadline adds the task
// without one.
func (m Model) updateAddDeadline(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		m.mode = modeList
		m.pendingText = ""
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case key.Matches(msg, keys.Confirm):
		t, err := m.store.Add(m.ctx, m.pendingText, m.input.Value())
		if err != nil {
			m.status = errorStatus(err)
			return m, nil
		}
		m.mode = modeList
		m.pendingText = ""
		m.input.Blur()
		m.status = "Added task"
		m.refresh()
		m.selectID(t.ID)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) beginEdit(field view.Field) (tea.Model, tea.Cmd) {
	row, ok := m.selected()
	if !ok {
		return m, nil
	}
	edit, err := m.view.BeginEdit(row.ID, field)
	if err != nil {
		m.status = errorStatus(err)
		m.refresh()
		return m, nil
	}
	m.edit = edit
	m.mode = modeEdit
	m.input.Placeholder = ""
	if field == view.FieldDeadline {
		m.input.Placeholder = task.DateLayout
	}
	m.input.SetValue(edit.Value())
	m.status = fmt.Sprintf("Editing %s: enter to save, esc to cancel", field)
	m.refresh()
	return m, m.input.Focus()
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		m.edit.Cancel()
		m.endEdit("Cancelled")
		return m, nil
	case key.Matches(msg, keys.Confirm):
		m.edit.SetValue(m.input.Value())
		err := m.edit.Commit(m.ctx)
		switch {
		case errors.Is(err, task.ErrNotFound):
			m.endEdit(errorStatus(err))
		case err != nil:
			// Still editing; the input keeps what was typed.
			m.status = errorStatus(err)
			m.refresh()
		default:
			m.endEdit("Saved")
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.edit.SetValue(m.input.Value())
	return m, cmd
}

func (m *Model) endEdit(status string) {
	m.edit = nil
	m.mode = modeList
	m.input.Blur()
	m.status = status
	m.refresh()
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.pendingDelete
	m.pendingDelete = ""
	m.mode = modeList

	switch strings.ToLower(msg.String()) {
	case "y":
		if err := m.store.Delete(m.ctx, id); err != nil {
			m.status = errorStatus(err)
		} else {
			m.status = "Deleted task"
		}
		m.refresh()
	default:
		m.status = "Delete cancelled"
	}
	return m, nil
}

func (m *Model) refresh() {
	m.rows = m.view.Render(m.query)
	m.cursor = clampCursor(m.cursor, len(m.rows))
}

func (m Model) selected() (view.Row, bool) {
	if len(m.rows) == 0 {
		return view.Row{}, false
	}
	return m.rows[m.cursor], true
}

func (m *Model) selectID(id string) {
	for i, row := range m.rows {
		if row.ID == id {
			m.cursor = i
			return
		}
	}
}

func clampCursor(cur, n int) int {
	if n == 0 || cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func errorStatus(err error) string {
	for _, sentinel := range []error{task.ErrInvalidTextLength, task.ErrInvalidDeadline, task.ErrNotFound} {
		if errors.Is(err, sentinel) {
			return "Error: " + sentinel.Error()
		}
	}
	return "Error: " + err.Error()
}
