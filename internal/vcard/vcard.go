// Package vcard serializes contact records to vCard 3.0 text and parses
// that text back into records.
package vcard

import (
	"strings"

	"github.com/smileynet/vcardqr/internal/contact"
)

// Version is the vCard version emitted by Build.
const Version = "3.0"

// lineBreak separates content lines as required by RFC 2426.
const lineBreak = "\r\n"

// Property names used by Build and recognized by Parse.
const (
	PropFullName = "FN"
	PropOrg      = "ORG"
	PropTitle    = "TITLE"
	PropTel      = "TEL"
	PropEmail    = "EMAIL"
	PropAddress  = "ADR"
	PropBirthday = "BDAY"
	PropURL      = "URL"
	PropNote     = "NOTE"
	PropUID      = "UID"
)

// Option customizes Build.
type Option func(*buildOptions)

type buildOptions struct {
	uid string
}

// WithUID adds a UID property directly after VERSION. An empty uid is ignored.
func WithUID(uid string) Option {
	return func(o *buildOptions) {
		o.uid = uid
	}
}

// Build renders r as a vCard 3.0 record. It returns "" when r has no
// non-empty field so callers never encode a bare BEGIN/END pair.
func Build(r contact.Record, opts ...Option) string {
	r = r.Normalize()
	if r.IsEmpty() {
		return ""
	}

	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	lines := []string{"BEGIN:VCARD", "VERSION:" + Version}
	add := func(prop, value string) {
		if value != "" {
			lines = append(lines, prop+":"+Escape(value))
		}
	}

	if o.uid != "" {
		add(PropUID, o.uid)
	}
	add(PropFullName, r.FullName)
	add(PropOrg, r.Company)
	add(PropTitle, r.JobTitle)
	for _, tel := range r.PhoneNumbers() {
		add(PropTel+";TYPE=CELL", tel)
	}
	add(PropEmail+";TYPE=INTERNET", r.Email)
	if r.Address != "" {
		// Free-text address goes into the street component of the
		// seven-part ADR value; the other components stay empty.
		lines = append(lines, addressProperty(r.AddressType)+":;;"+Escape(r.Address)+";;;;")
	}
	add(PropBirthday, r.Birthday)
	add(PropURL, r.Website)
	add(PropNote, r.Notes)

	lines = append(lines, "END:VCARD")
	return strings.Join(lines, lineBreak) + lineBreak
}

// addressProperty returns the ADR name with its TYPE parameter. "other" has
// no registered vCard 3.0 type and is emitted without one.
func addressProperty(t contact.AddressType) string {
	switch t {
	case contact.AddressHome:
		return PropAddress + ";TYPE=HOME"
	case contact.AddressWork:
		return PropAddress + ";TYPE=WORK"
	default:
		return PropAddress
	}
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	"\n", `\n`,
	";", `\;`,
	",", `\,`,
)

// Escape applies vCard text escaping: backslash, newline, semicolon, comma.
func Escape(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return escaper.Replace(s)
}

// Unescape reverses Escape. Unknown escape sequences keep the escaped
// character, and a trailing lone backslash is preserved.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n', 'N':
			b.WriteByte('\n')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
