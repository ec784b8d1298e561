package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Toggle     key.Binding
	Add        key.Binding
	Delete     key.Binding
	EditText   key.Binding
	EditDue    key.Binding
	Search     key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
	Quit       key.Binding
	ClearQuery key.Binding
}

var keys = keyMap{
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:     key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
	Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	EditText:   key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
	EditDue:    key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "deadline")),
	Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Confirm:    key.NewBinding(key.WithKeys("enter")),
	Cancel:     key.NewBinding(key.WithKeys("esc")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	ClearQuery: key.NewBinding(key.WithKeys("esc")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Add, k.EditText, k.EditDue, k.Delete, k.Search, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, k.ShortHelp()}
}
