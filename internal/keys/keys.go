// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// ListKeys are active while the client table has focus.
type ListKeys struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	View   key.Binding
	Edit   key.Binding
	Delete key.Binding
	New    key.Binding
	Search key.Binding
	Clear  key.Binding
}

// FormKeys are active while the client form is open.
type FormKeys struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Cancel key.Binding
}

// DetailKeys are active while the detail panel is open.
type DetailKeys struct {
	Edit   key.Binding
	Delete key.Binding
	Close  key.Binding
}

// GlobalKeys work everywhere.
type GlobalKeys struct {
	Help key.Binding
	Quit key.Binding
}

// List holds the client table bindings.
var List = ListKeys{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "move down"),
	),
	Top: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "first"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "last"),
	),
	View: key.NewBinding(
		key.WithKeys("enter", "v"),
		key.WithHelp("enter", "view"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "delete"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new client"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Clear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear search"),
	),
}

// Form holds the client form bindings.
var Form = FormKeys{
	Next: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab", "previous field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// Detail holds the detail panel bindings.
var Detail = DetailKeys{
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("esc", "close"),
	),
}

// Global holds bindings handled by the root model.
var Global = GlobalKeys{
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp returns the bindings shown in the status bar.
func (k ListKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.View, k.Edit, k.Delete, k.Search, Global.Quit}
}

// FullHelp returns all list bindings grouped by column.
func (k ListKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.View, k.Edit, k.Delete, k.New},
		{k.Search, k.Clear, Global.Help, Global.Quit},
	}
}

// ShortHelp implements help.KeyMap.
func (k FormKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Submit, k.Cancel}
}

// FullHelp implements help.KeyMap.
func (k FormKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// ShortHelp implements help.KeyMap.
func (k DetailKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Delete, k.Close}
}

// FullHelp implements help.KeyMap.
func (k DetailKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
