package types

import (
	"github.com/charmbracelet/bubbles/key"

	"tagrow/internal/ui/tagrow"
)

// KeyMap holds the application bindings plus those of the tag row.
// It satisfies help.KeyMap so the footer always matches what the modes accept.
type KeyMap struct {
	Row     tagrow.KeyMap
	NewTag  key.Binding
	Clear   key.Binding
	Disable key.Binding
	Reload  key.Binding
	Help    key.Binding
	Quit    key.Binding
	Abort   key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Row: tagrow.DefaultKeyMap(),
		NewTag: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new tag"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear"),
		),
		Disable: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "lock/unlock"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "done"),
		),
		Abort: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "abort"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return append(k.Row.ShortHelp(), k.NewTag, k.Help, k.Quit)
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return append(k.Row.FullHelp(),
		[]key.Binding{k.NewTag, k.Clear, k.Disable, k.Reload},
		[]key.Binding{k.Help, k.Quit, k.Abort},
	)
}
