package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"todo/internal/view"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	deadlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).MarginTop(1)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).MarginTop(1)
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title()))
	b.WriteString("\n")

	if m.mode == modeSearch || m.query != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n\n")
	}

	if len(m.rows) == 0 {
		if m.store.Len() == 0 {
			b.WriteString("  no tasks yet\n")
		} else {
			b.WriteString("  no matching tasks\n")
		}
	}
	for i, row := range m.rows {
		b.WriteString(m.renderRow(i, row))
		b.WriteString("\n")
	}

	switch m.mode {
	case modeAdd:
		b.WriteString("\n  new: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case modeAddDeadline:
		b.WriteString("\n  new: " + m.pendingText + "\n")
		b.WriteString("  due: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	style := statusStyle
	if strings.HasPrefix(m.status, "Error:") {
		style = errorStyle
	}
	b.WriteString(style.Render(m.status))
	b.WriteString("\n")
	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m Model) title() string {
	done := 0
	for _, t := range m.store.Tasks() {
		if t.Completed {
			done++
		}
	}
	return fmt.Sprintf("todo · %d tasks · %d done", m.store.Len(), done)
}

func (m Model) renderRow(i int, row view.Row) string {
	prefix := "  "
	if i == m.cursor {
		prefix = cursorStyle.Render("> ")
	}
	check := "[ ]"
	if row.Completed {
		check = "[x]"
	}

	// Edit state comes from the row; the focused input supplies the live value.
	editValue := row.EditValue
	if m.mode == modeEdit && m.edit != nil && m.edit.ID() == row.ID && m.edit.Field() == row.EditField {
		editValue = m.input.View()
	}

	text := row.Display
	switch {
	case row.Editing && row.EditField == view.FieldText:
		text = editValue
	case row.Completed:
		text = doneStyle.Render(text)
	}

	line := fmt.Sprintf("%s%3d %s %s", prefix, row.Position, check, text)
	switch {
	case row.Editing && row.EditField == view.FieldDeadline:
		line += "  due " + editValue
	case row.Deadline != "":
		line += "  " + deadlineStyle.Render("due "+row.Deadline)
	}
	return line
}
