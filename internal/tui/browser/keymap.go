package browser

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the keybindings for the issue browser TUI.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	GoToTop    key.Binding
	GoToBottom key.Binding

	Expand   key.Binding
	Collapse key.Binding

	ToggleSelect key.Binding
	SelectAll    key.Binding
	SelectNone   key.Binding

	Move    key.Binding
	Attach  key.Binding
	Detach  key.Binding
	Focus   key.Binding
	NewTop  key.Binding
	NewSub  key.Binding
	Edit    key.Binding
	Refresh key.Binding

	ToggleView key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.GoToTop, k.GoToBottom},
		{k.Expand, k.Collapse, k.ToggleSelect, k.SelectAll, k.SelectNone},
		{k.Move, k.Attach, k.Detach, k.Focus},
		{k.NewTop, k.NewSub, k.Edit, k.Refresh, k.ToggleView, k.Quit},
	}
}

var keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("ctrl+u", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "page down"),
	),
	GoToTop: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("gg", "go to top"),
	),
	GoToBottom: key.NewBinding(
		key.WithKeys("G"),
		key.WithHelp("G", "go to bottom"),
	),
	Expand: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "expand"),
	),
	Collapse: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "collapse"),
	),
	ToggleSelect: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "toggle select"),
	),
	SelectAll: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "select all (visible)"),
	),
	SelectNone: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "deselect all"),
	),
	Move: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "move to..."),
	),
	Attach: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy to..."),
	),
	Detach: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "detach"),
	),
	Focus: key.NewBinding(
		key.WithKeys("."),
		key.WithHelp(".", "toggle focus"),
	),
	NewTop: key.NewBinding(
		key.WithKeys("N"),
		key.WithHelp("N", "new issue"),
	),
	NewSub: key.NewBinding(
		key.WithKeys("+"),
		key.WithHelp("+", "new sub-issue"),
	),
	Edit: key.NewBinding(
		key.WithKeys("enter", "e"),
		key.WithHelp("enter/e", "open in editor"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	ToggleView: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "toggle view"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
