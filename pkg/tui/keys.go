package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down         key.Binding
	Left, Right      key.Binding
	PageUp, PageDown key.Binding
	Home, End        key.Binding
	NextChannel      key.Binding
	PrevChannel      key.Binding
	NextPattern      key.Binding
	PrevPattern      key.Binding
	ShowAll          key.Binding
	Help             key.Binding
	Quit             key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "row up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "row down")),
		Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "field left")),
		Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "field right")),
		PageUp:      key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Home:        key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home", "first row")),
		End:         key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end", "last row")),
		NextChannel: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next channel")),
		PrevChannel: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev channel")),
		NextPattern: key.NewBinding(key.WithKeys("]", "n"), key.WithHelp("]/n", "next pattern")),
		PrevPattern: key.NewBinding(key.WithKeys("[", "p"), key.WithHelp("[/p", "prev pattern")),
		ShowAll:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "used/all patterns")),
		Help:        key.NewBinding(key.WithKeys("?", "f1"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPattern, k.PrevPattern, k.ShowAll, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		{k.Left, k.Right, k.NextChannel, k.PrevChannel},
		{k.NextPattern, k.PrevPattern, k.ShowAll, k.Help, k.Quit},
	}
}
