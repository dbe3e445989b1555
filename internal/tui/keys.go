package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Send          key.Binding
	NewSession    key.Binding
	SwitchFocus   key.Binding
	Up            key.Binding
	Down          key.Binding
	Select        key.Binding
	Delete        key.Binding
	Confirm       key.Binding
	Cancel        key.Binding
	ToggleTools   key.Binding
	ToggleSidebar key.Binding
	Quit          key.Binding
}

var keys = keyMap{
	Send: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "enviar"),
	),
	NewSession: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("ctrl+n", "nueva conversación"),
	),
	SwitchFocus: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "conversaciones"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "subir"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "bajar"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "abrir"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "eliminar"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y", "s"),
		key.WithHelp("y", "eliminar"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancelar"),
	),
	ToggleTools: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "detalle de herramientas"),
	),
	ToggleSidebar: key.NewBinding(
		key.WithKeys("ctrl+b"),
		key.WithHelp("ctrl+b", "panel"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "salir"),
	),
}

// inputHelp is shown while the message input has focus
type inputHelp struct{}

func (inputHelp) ShortHelp() []key.Binding {
	return []key.Binding{keys.Send, keys.NewSession, keys.SwitchFocus, keys.ToggleSidebar, keys.Quit}
}

func (h inputHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}

// sidebarHelp is shown while the session list has focus
type sidebarHelp struct{}

func (sidebarHelp) ShortHelp() []key.Binding {
	return []key.Binding{keys.Up, keys.Down, keys.Select, keys.Delete, keys.ToggleTools, keys.SwitchFocus, keys.Quit}
}

func (h sidebarHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}

// confirmHelp is shown while a delete awaits confirmation
type confirmHelp struct{}

func (confirmHelp) ShortHelp() []key.Binding {
	return []key.Binding{keys.Confirm, keys.Cancel}
}

func (h confirmHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}
