package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left        key.Binding
	Right       key.Binding
	Up          key.Binding
	Down        key.Binding
	ShiftLeft   key.Binding
	ShiftRight  key.Binding
	Grab        key.Binding
	Drop        key.Binding
	Cancel      key.Binding
	ColumnLeft  key.Binding
	ColumnRight key.Binding
	Search      key.Binding
	Favorites   key.Binding
	Star        key.Binding
	Lock        key.Binding
	Reload      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "column")),
		Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "column")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "card")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "card")),
		ShiftLeft:   key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("H", "send card left")),
		ShiftRight:  key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("L", "send card right")),
		Grab:        key.NewBinding(key.WithKeys("m", " "), key.WithHelp("m", "grab card")),
		Drop:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
		Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		ColumnLeft:  key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "move column left")),
		ColumnRight: key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "move column right")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Favorites:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorites only")),
		Star:        key.NewBinding(key.WithKeys("*"), key.WithHelp("*", "toggle favorite")),
		Lock:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "lock columns")),
		Reload:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Grab, k.ShiftRight, k.Search, k.Favorites, k.Help, k.Quit}
}

func (k keyMap) FullHelp() []key.Binding {
	return []key.Binding{
		k.Left, k.Right, k.Up, k.Down,
		k.ShiftLeft, k.ShiftRight, k.Grab, k.Drop, k.Cancel,
		k.ColumnLeft, k.ColumnRight,
		k.Search, k.Favorites, k.Star, k.Lock, k.Reload, k.Quit,
	}
}

func (k keyMap) moveHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Up, k.Down, k.Drop, k.Cancel}
}
