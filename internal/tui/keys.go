package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	Add       key.Binding
	Delete    key.Binding
	Duplicate key.Binding
	Rename    key.Binding
	Pick      key.Binding
	Math      key.Binding
	Property  key.Binding
	Unfilter  key.Binding
	Reload    key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		MoveUp:    key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("K", "move up")),
		MoveDown:  key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("J", "move down")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Delete:    key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
		Duplicate: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "duplicate")),
		Rename:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		Pick:      key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "pick event")),
		Math:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "math")),
		Property:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "add filter")),
		Unfilter:  key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "drop filter")),
		Reload:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Delete, k.Duplicate, k.Rename, k.Pick, k.Math, k.Property, k.MoveUp, k.MoveDown, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.MoveUp, k.MoveDown},
		{k.Add, k.Delete, k.Duplicate, k.Rename},
		{k.Pick, k.Math, k.Property, k.Unfilter},
		{k.Reload, k.Quit},
	}
}
