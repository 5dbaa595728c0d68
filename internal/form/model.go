package form

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/vcardqr/internal/contact"
	"github.com/smileynet/vcardqr/internal/vcard"
)

// helpBarHeight is the number of lines reserved for the help bar at the bottom.
const helpBarHeight = 1

// statusBarHeight is the number of lines reserved for the status line.
const statusBarHeight = 1

// borderChrome is the number of lines consumed by top + bottom borders.
const borderChrome = 2

// statusTTL is how long an export status stays visible.
const statusTTL = 4 * time.Second

// emptyHint is shown instead of a preview, and as the status of a rejected
// export, while every field is blank.
const emptyHint = "Fill in at least one field to generate a vCard."

// Model is the root Bubble Tea model for the contact form.
type Model struct {
	fields      [fieldCount]field
	addressType contact.AddressType
	initialType contact.AddressType
	current     FieldID
	focus       Focus

	// Derived from the fields after every update.
	card     string
	qrView   string
	qrErr    error
	warnings error

	status       string
	statusFailed bool
	statusSeq    int

	width    int
	height   int
	viewport viewport.Model
	help     help.Model
	keys     keyMap

	build    BuildFunc
	renderer Renderer
	exporter Exporter
	logger   *log.Logger
	ttl      time.Duration
}

// Option configures a Model.
type Option func(*Model)

// WithBuilder sets the vCard serializer. Defaults to vcard.Build.
func WithBuilder(b BuildFunc) Option {
	return func(m *Model) {
		m.build = b
	}
}

// WithRenderer sets the QR renderer used for the preview and PNG export.
func WithRenderer(r Renderer) Option {
	return func(m *Model) {
		m.renderer = r
	}
}

// WithExporter sets the clipboard and file exporter.
func WithExporter(e Exporter) Option {
	return func(m *Model) {
		m.exporter = e
	}
}

// WithLogger sets the logger for export failures. Defaults to discarding.
func WithLogger(l *log.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithAddressType sets the address type selected on start and after reset.
func WithAddressType(t contact.AddressType) Option {
	return func(m *Model) {
		m.initialType = t
		m.addressType = t
	}
}

// WithRecord pre-fills the form, e.g. from a parsed .vcf file.
func WithRecord(r contact.Record) Option {
	return func(m *Model) {
		fillFields(&m.fields, r)
		if r.Address != "" {
			m.addressType = r.AddressType
		}
	}
}

// WithStatusTTL sets how long export results stay on the status line.
func WithStatusTTL(d time.Duration) Option {
	return func(m *Model) {
		m.ttl = d
	}
}

// NewModel creates a form Model with focus on the first field.
func NewModel(opts ...Option) Model {
	m := Model{
		fields:      newFields(),
		addressType: contact.AddressHome,
		initialType: contact.AddressHome,
		viewport:    viewport.New(0, 0),
		help:        help.New(),
		keys:        KeyMap(),
		build:       func(r contact.Record) string { return vcard.Build(r) },
		logger:      log.New(io.Discard, "", 0),
		ttl:         statusTTL,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.fields[m.current].focus()
	m.refresh()
	return m
}

// Init starts the cursor blink of the focused input.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Record returns the contact record currently held by the form.
func (m Model) Record() contact.Record {
	return recordFrom(m.fields, m.addressType)
}

// VCard returns the serialized record, or "" when the form is empty.
func (m Model) VCard() string {
	return m.card
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ExportDoneMsg:
		return m.handleExportDone(msg)

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusFailed = false
		}
		return m, nil
	}

	// Cursor blink and other widget messages.
	cmd := m.fields[m.current].update(msg)
	return m, cmd
}

// handleKey processes global bindings first, then forwards to the focused field.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		return m, m.moveFocus(1)
	case key.Matches(msg, m.keys.Prev):
		return m, m.moveFocus(-1)
	case key.Matches(msg, m.keys.Copy):
		return m.startExport(ActionCopy)
	case key.Matches(msg, m.keys.SaveVCard):
		return m.startExport(ActionSaveVCard)
	case key.Matches(msg, m.keys.SavePNG):
		return m.startExport(ActionSavePNG)
	case key.Matches(msg, m.keys.Reset):
		return m.reset()
	case key.Matches(msg, m.keys.Scroll):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		m.focus = PanePreview
		return m, cmd
	}

	m.focus = PaneForm
	f := &m.fields[m.current]
	switch f.kind {
	case kindChoice:
		switch {
		case key.Matches(msg, m.keys.CycleLeft):
			m.addressType = m.addressType.Prev()
		case key.Matches(msg, m.keys.CycleRight):
			m.addressType = m.addressType.Next()
		case msg.Type == tea.KeyEnter:
			return m, m.moveFocus(1)
		default:
			return m, nil
		}
		m.refresh()
		return m, nil
	case kindLine:
		if msg.Type == tea.KeyEnter {
			return m, m.moveFocus(1)
		}
	}

	cmd := f.update(msg)
	m.refresh()
	return m, cmd
}

// moveFocus shifts focus by delta fields, wrapping around.
func (m *Model) moveFocus(delta int) tea.Cmd {
	m.fields[m.current].blur()
	n := int(fieldCount)
	m.current = FieldID(((int(m.current)+delta)%n + n) % n)
	m.focus = PaneForm
	return m.fields[m.current].focus()
}

// reset clears every field and restores the initial address type.
func (m Model) reset() (tea.Model, tea.Cmd) {
	m.fields[m.current].blur()
	m.fields = newFields()
	m.addressType = m.initialType
	m.current = FieldName
	m.focus = PaneForm
	m.resize(m.width, m.height)
	focusCmd := m.fields[m.current].focus()
	m.refresh()
	statusCmd := m.setStatus("Form cleared.", false)
	return m, tea.Batch(focusCmd, statusCmd)
}

// refresh re-derives the vCard, warnings and QR preview from the fields.
func (m *Model) refresh() {
	r := m.Record()
	m.card = m.build(r)
	m.warnings = r.Validate()
	m.qrView, m.qrErr = "", nil
	if m.card != "" && m.renderer != nil {
		m.qrView, m.qrErr = m.renderer.Terminal(m.card)
	}
	m.viewport.SetContent(m.previewContent())
}

// previewContent renders the right pane body.
func (m Model) previewContent() string {
	if m.card == "" {
		return HintStyle().Render(emptyHint)
	}
	var b strings.Builder
	switch {
	case m.qrErr != nil:
		b.WriteString(StatusStyle(true).Render("QR unavailable: " + m.qrErr.Error()))
		b.WriteString("\n\n")
	case m.qrView != "":
		b.WriteString(m.qrView)
		b.WriteString("\n")
	}
	b.WriteString(strings.ReplaceAll(m.card, "\r\n", "\n"))
	return b.String()
}

// resize lays out panes and inputs for the terminal size.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	leftWidth, rightWidth := PaneWidths(width)
	// Label column, one space gap, and one cell for the cursor.
	inputWidth := leftWidth - borderChrome - labelWidth - 2
	for i := range m.fields {
		m.fields[i].setWidth(inputWidth)
	}

	vpWidth := rightWidth - borderChrome
	if vpWidth < 0 {
		vpWidth = 0
	}
	m.viewport.Width = vpWidth
	m.viewport.Height = m.contentHeight()
	m.viewport.SetContent(m.previewContent())
}

// contentHeight returns the usable height for pane content,
// accounting for border chrome, the status line and the help bar.
func (m Model) contentHeight() int {
	h := m.height - borderChrome - statusBarHeight - helpBarHeight
	if h < 1 {
		return 1
	}
	return h
}

// setStatus shows a message and schedules its removal.
func (m *Model) setStatus(text string, failed bool) tea.Cmd {
	m.statusSeq++
	m.status = text
	m.statusFailed = failed
	seq := m.statusSeq
	return tea.Tick(m.ttl, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// View renders the two-pane layout with status line and help bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	leftWidth, rightWidth := PaneWidths(m.width)
	contentHeight := m.contentHeight()

	leftStyle, rightStyle := FocusedBorder(), UnfocusedBorder()
	if m.focus == PanePreview {
		leftStyle, rightStyle = UnfocusedBorder(), FocusedBorder()
	}
	leftStyle = leftStyle.
		Width(leftWidth - borderChrome).
		Height(contentHeight)
	rightStyle = rightStyle.
		Width(rightWidth - borderChrome).
		Height(contentHeight)

	leftPane := leftStyle.Render(m.viewForm())
	rightPane := rightStyle.Render(m.viewport.View())
	panes := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)

	status := ""
	if m.status != "" {
		status = StatusStyle(m.statusFailed).Render(m.status)
	}

	return lipgloss.JoinVertical(lipgloss.Left, panes, status, m.help.View(m.keys))
}

// viewForm renders the labeled fields followed by validation warnings.
func (m Model) viewForm() string {
	rows := make([]string, 0, fieldCount+1)
	for i, f := range m.fields {
		focused := FieldID(i) == m.current
		label := LabelStyle(focused).Render(f.label)
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, label, " ", f.view(m.addressType, focused)))
	}

	if m.warnings != nil {
		var lines []string
		for _, line := range strings.Split(m.warnings.Error(), "\n") {
			lines = append(lines, "! "+line)
		}
		rows = append(rows, "", WarningStyle().Render(strings.Join(lines, "\n")))
	}
	return strings.Join(rows, "\n")
}

// startExport runs an export action unless the form is empty.
func (m Model) startExport(action Action) (tea.Model, tea.Cmd) {
	if m.card == "" {
		cmd := m.setStatus("Nothing to export. "+emptyHint, true)
		return m, cmd
	}
	if m.exporter == nil {
		cmd := m.setStatus("Export is not configured.", true)
		return m, cmd
	}

	card := m.card
	name := strings.TrimSpace(m.Record().FullName)
	exporter, renderer := m.exporter, m.renderer

	switch action {
	case ActionCopy:
		return m, func() tea.Msg {
			return ExportDoneMsg{Action: action, Err: exporter.CopyText(card)}
		}
	case ActionSaveVCard:
		return m, func() tea.Msg {
			path, err := exporter.SaveVCard(name, card)
			return ExportDoneMsg{Action: action, Path: path, Err: err}
		}
	case ActionSavePNG:
		if renderer == nil {
			cmd := m.setStatus("QR rendering is not configured.", true)
			return m, cmd
		}
		return m, func() tea.Msg {
			data, err := renderer.PNG(card)
			if err != nil {
				return ExportDoneMsg{Action: action, Err: err}
			}
			path, err := exporter.SavePNG(name, data)
			return ExportDoneMsg{Action: action, Path: path, Err: err}
		}
	}
	return m, nil
}

// handleExportDone logs failures and reports the result on the status line.
func (m Model) handleExportDone(msg ExportDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Printf("export %s failed: %v", msg.Action, msg.Err)
		cmd := m.setStatus(exportFailure(msg), true)
		return m, cmd
	}
	m.logger.Printf("export %s ok %s", msg.Action, msg.Path)

	var text string
	switch msg.Action {
	case ActionCopy:
		text = "vCard copied to clipboard."
	case ActionSaveVCard:
		text = "Saved vCard to " + msg.Path
	case ActionSavePNG:
		text = "Saved QR code to " + msg.Path
	}
	cmd := m.setStatus(text, false)
	return m, cmd
}

func exportFailure(msg ExportDoneMsg) string {
	var what string
	switch msg.Action {
	case ActionCopy:
		what = "Copy to clipboard"
	case ActionSaveVCard:
		what = "Saving vCard"
	case ActionSavePNG:
		what = "Saving QR code"
	default:
		what = "Export"
	}
	return fmt.Sprintf("%s failed: %v", what, msg.Err)
}
