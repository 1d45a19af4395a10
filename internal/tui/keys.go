package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Enter   key.Binding
	Force   key.Binding
	Edit    key.Binding
	Clear   key.Binding
	Parent  key.Binding
	Root    key.Binding
	Jump    key.Binding
	Save    key.Binding
	Saved   key.Binding
	New     key.Binding
	Rename  key.Binding
	Copy    key.Binding
	CopyPth key.Binding
	Outline key.Binding
	Help    key.Binding
	Cancel  key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open block / edit")),
		Force:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "open unnamed block")),
		Edit:    key.NewBinding(key.WithKeys("i", "e"), key.WithHelp("i", "edit cell")),
		Clear:   key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "clear cell")),
		Parent:  key.NewBinding(key.WithKeys("backspace", "u"), key.WithHelp("u", "parent")),
		Root:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "root")),
		Jump:    key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "breadcrumb")),
		Save:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Saved:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "saved charts")),
		New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new chart")),
		Rename:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		Copy:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy cell")),
		CopyPth: key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy path")),
		Outline: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "outline")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Edit, k.Parent, k.Save, k.Saved, k.Outline, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Enter, k.Force, k.Edit, k.Clear},
		{k.Parent, k.Root, k.Jump, k.Cancel},
		{k.Save, k.Saved, k.New, k.Rename},
		{k.Copy, k.CopyPth, k.Outline, k.Help, k.Quit},
	}
}
