// Package form implements the interactive contact form: a two-pane TUI that
// collects contact fields on the left and previews the vCard and its QR code
// on the right, with clipboard and file exports.
package form

import "github.com/smileynet/vcardqr/internal/contact"

// Focus represents which pane receives scroll keys.
type Focus int

const (
	PaneForm    Focus = iota // Form fields have keyboard focus.
	PanePreview              // Preview viewport scrolls with pgup/pgdown.
)

// Action names an export side effect.
type Action string

const (
	ActionCopy      Action = "copy"
	ActionSaveVCard Action = "save-vcf"
	ActionSavePNG   Action = "save-png"
)

// --- Consumer-side interfaces ---

// Renderer turns a vCard payload into QR output.
type Renderer interface {
	Terminal(payload string) (string, error)
	PNG(payload string) ([]byte, error)
}

// Exporter performs clipboard and file exports.
type Exporter interface {
	CopyText(text string) error
	SaveVCard(name, text string) (string, error)
	SavePNG(name string, data []byte) (string, error)
}

// BuildFunc serializes a record. It must return "" for an empty record.
type BuildFunc func(contact.Record) string

// --- tea.Msg types ---

// ExportDoneMsg reports the outcome of an export command.
type ExportDoneMsg struct {
	Action Action
	Path   string // Written file, empty for clipboard copies.
	Err    error
}

// clearStatusMsg hides the status line if it still shows the given sequence.
type clearStatusMsg struct {
	seq int
}
