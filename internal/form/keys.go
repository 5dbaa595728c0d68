package form

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the form key bindings.
type keyMap struct {
	Next       key.Binding
	Prev       key.Binding
	CycleLeft  key.Binding
	CycleRight key.Binding
	Copy       key.Binding
	SaveVCard  key.Binding
	SavePNG    key.Binding
	Reset      key.Binding
	Scroll     key.Binding
	Quit       key.Binding
}

// ShortHelp returns the bindings for the help bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Copy, k.SaveVCard, k.SavePNG, k.Reset, k.Quit}
}

// FullHelp returns the bindings grouped for expanded help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.CycleLeft, k.CycleRight},
		{k.Copy, k.SaveVCard, k.SavePNG},
		{k.Reset, k.Scroll, k.Quit},
	}
}

// KeyMap returns the key bindings for the form.
func KeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab/↓", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab/↑", "previous field"),
		),
		CycleLeft: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "previous type"),
		),
		CycleRight: key.NewBinding(
			key.WithKeys("right", " "),
			key.WithHelp("→", "next type"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy vCard"),
		),
		SaveVCard: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save .vcf"),
		),
		SavePNG: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "save QR .png"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reset"),
		),
		Scroll: key.NewBinding(
			key.WithKeys("pgup", "pgdown"),
			key.WithHelp("pgup/pgdn", "scroll preview"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}
