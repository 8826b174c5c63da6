package inspector

import "github.com/charmbracelet/bubbles/key"

// keyMap defines key bindings for the inspector screen
type keyMap struct {
	Decode key.Binding
	Clear  key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Decode, k.Clear, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Decode, k.Clear, k.Quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Decode: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "decode"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear result"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}
