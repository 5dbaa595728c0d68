package form

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/vcardqr/internal/contact"
)

// FieldID identifies a form field. Values are in display and tab order.
type FieldID int

const (
	FieldName FieldID = iota
	FieldEmail
	FieldPhones
	FieldAddress
	FieldAddressType
	FieldCompany
	FieldJobTitle
	FieldBirthday
	FieldWebsite
	FieldNotes
	fieldCount
)

// fieldKind selects the widget backing a field.
type fieldKind int

const (
	kindLine   fieldKind = iota // single-line textinput
	kindArea                    // multi-line textarea
	kindChoice                  // address type selector
)

// areaHeight is the visible height of multi-line fields.
const areaHeight = 2

// field is one labeled input.
type field struct {
	label string
	kind  fieldKind
	line  textinput.Model
	area  textarea.Model
}

type fieldSpec struct {
	label       string
	kind        fieldKind
	placeholder string
	limit       int
}

var fieldSpecs = [fieldCount]fieldSpec{
	FieldName:        {"Full name", kindLine, "Ada Lovelace", 256},
	FieldEmail:       {"Email", kindLine, "ada@example.com", 256},
	FieldPhones:      {"Phones", kindArea, "one per line, or , ; separated", 512},
	FieldAddress:     {"Address", kindArea, "street, city, postcode", 512},
	FieldAddressType: {"Address type", kindChoice, "", 0},
	FieldCompany:     {"Company", kindLine, "", 256},
	FieldJobTitle:    {"Job title", kindLine, "", 256},
	FieldBirthday:    {"Birthday", kindLine, "YYYY-MM-DD", 10},
	FieldWebsite:     {"Website", kindLine, "https://", 512},
	FieldNotes:       {"Notes", kindArea, "", 1024},
}

// newFields builds the blank input widgets.
func newFields() [fieldCount]field {
	var fields [fieldCount]field
	for i, spec := range fieldSpecs {
		f := field{label: spec.label, kind: spec.kind}
		switch spec.kind {
		case kindLine:
			ti := textinput.New()
			ti.Prompt = ""
			ti.Placeholder = spec.placeholder
			ti.CharLimit = spec.limit
			f.line = ti
		case kindArea:
			ta := textarea.New()
			ta.Prompt = ""
			ta.Placeholder = spec.placeholder
			ta.ShowLineNumbers = false
			ta.CharLimit = spec.limit
			ta.SetHeight(areaHeight)
			f.area = ta
		}
		fields[i] = f
	}
	return fields
}

// value returns the field's current text.
func (f field) value() string {
	switch f.kind {
	case kindLine:
		return f.line.Value()
	case kindArea:
		return f.area.Value()
	default:
		return ""
	}
}

// setValue replaces the field's text.
func (f *field) setValue(s string) {
	switch f.kind {
	case kindLine:
		f.line.SetValue(s)
	case kindArea:
		f.area.SetValue(s)
	}
}

func (f *field) focus() tea.Cmd {
	switch f.kind {
	case kindLine:
		return f.line.Focus()
	case kindArea:
		return f.area.Focus()
	}
	return nil
}

func (f *field) blur() {
	switch f.kind {
	case kindLine:
		f.line.Blur()
	case kindArea:
		f.area.Blur()
	}
}

func (f *field) setWidth(w int) {
	if w < 1 {
		w = 1
	}
	switch f.kind {
	case kindLine:
		f.line.Width = w
	case kindArea:
		f.area.SetWidth(w)
	}
}

// update forwards a message to the focused widget.
func (f *field) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.kind {
	case kindLine:
		f.line, cmd = f.line.Update(msg)
	case kindArea:
		f.area, cmd = f.area.Update(msg)
	}
	return cmd
}

// view renders the widget without its label.
func (f field) view(addressType contact.AddressType, focused bool) string {
	switch f.kind {
	case kindLine:
		return f.line.View()
	case kindArea:
		return f.area.View()
	default:
		return choiceView(addressType, focused)
	}
}

// choiceView renders the address type selector with the current type in
// brackets and arrows around it while focused.
func choiceView(t contact.AddressType, focused bool) string {
	var parts []string
	for _, at := range contact.AddressTypes {
		if at == t {
			parts = append(parts, "["+string(at)+"]")
		} else {
			parts = append(parts, " "+string(at)+" ")
		}
	}
	s := strings.Join(parts, " ")
	if focused {
		return "‹ " + s + " ›"
	}
	return "  " + s
}

// recordFrom assembles a contact record from the field values.
func recordFrom(fields [fieldCount]field, at contact.AddressType) contact.Record {
	return contact.Record{
		FullName:    fields[FieldName].value(),
		Email:       fields[FieldEmail].value(),
		Phones:      fields[FieldPhones].value(),
		Address:     fields[FieldAddress].value(),
		AddressType: at,
		Company:     fields[FieldCompany].value(),
		JobTitle:    fields[FieldJobTitle].value(),
		Birthday:    fields[FieldBirthday].value(),
		Website:     fields[FieldWebsite].value(),
		Notes:       fields[FieldNotes].value(),
	}
}

// fillFields writes a record into the field widgets.
func fillFields(fields *[fieldCount]field, r contact.Record) {
	values := map[FieldID]string{
		FieldName:     r.FullName,
		FieldEmail:    r.Email,
		FieldPhones:   r.Phones,
		FieldAddress:  r.Address,
		FieldCompany:  r.Company,
		FieldJobTitle: r.JobTitle,
		FieldBirthday: r.Birthday,
		FieldWebsite:  r.Website,
		FieldNotes:    r.Notes,
	}
	for id, v := range values {
		fields[id].setValue(v)
	}
}
