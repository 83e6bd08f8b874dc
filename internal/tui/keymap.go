package tui

import "github.com/charmbracelet/bubbles/key"

// CoarseStep is how far page up/down turn the focused value.
const CoarseStep = 4

// KeyMap defines the key bindings for the editor.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Inc    key.Binding
	Dec    key.Binding
	IncBig key.Binding
	DecBig key.Binding
	First  key.Binding
	Last   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next"),
		),
		Inc: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "increase"),
		),
		Dec: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "decrease"),
		),
		IncBig: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "increase ×4"),
		),
		DecBig: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "decrease ×4"),
		),
		First: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home/g", "first"),
		),
		Last: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end/G", "last"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the short help bindings.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Dec, k.Inc, k.Help, k.Quit}
}

// FullHelp returns the full help bindings.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.First, k.Last},
		{k.Dec, k.Inc, k.DecBig, k.IncBig},
		{k.Help, k.Quit},
	}
}
