package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Back  key.Binding
	Fwd   key.Binding
	Reset key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Back: key.NewBinding(
			key.WithKeys("left", "h", "up", "k"),
			key.WithHelp("←/h", "scroll back"),
		),
		Fwd: key.NewBinding(
			key.WithKeys("right", "l", "down", "j"),
			key.WithHelp("→/l", "scroll"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r", "home"),
			key.WithHelp("r", "reset"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Fwd, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Back, k.Fwd, k.Reset},
		{k.Help, k.Quit},
	}
}
