package vcard

import (
	"errors"
	"strings"

	"github.com/smileynet/vcardqr/internal/contact"
)

// ErrNoCard indicates the input holds no BEGIN:VCARD ... END:VCARD block.
var ErrNoCard = errors.New("vcard: no BEGIN:VCARD/END:VCARD block")

// property is one unfolded content line.
type property struct {
	name  string   // upper-cased, group prefix removed
	types []string // upper-cased TYPE values, including bare 2.1-style params
	value string   // raw, still escaped
}

// Parse decodes the first vCard in s into a contact record. Folded lines are
// unfolded, CRLF and LF are both accepted, and unknown properties are
// ignored. For any record r with content, Parse(Build(r)) == r.Normalize().
func Parse(s string) (contact.Record, error) {
	props, err := cardProperties(s)
	if err != nil {
		return contact.Record{}, err
	}

	var (
		r      contact.Record
		phones []string
		name   string
	)
	r.AddressType = contact.AddressHome
	setOnce := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}

	for _, p := range props {
		switch p.name {
		case PropFullName:
			setOnce(&r.FullName, Unescape(p.value))
		case "N":
			setOnce(&name, structuredName(p.value))
		case PropOrg:
			setOnce(&r.Company, Unescape(p.value))
		case PropTitle:
			setOnce(&r.JobTitle, Unescape(p.value))
		case PropTel:
			if v := Unescape(p.value); v != "" {
				phones = append(phones, v)
			}
		case PropEmail:
			setOnce(&r.Email, Unescape(p.value))
		case PropAddress:
			if r.Address != "" {
				continue
			}
			r.Address = structuredAddress(p.value)
			r.AddressType = addressType(p.types)
		case PropBirthday:
			setOnce(&r.Birthday, Unescape(p.value))
		case PropURL:
			setOnce(&r.Website, Unescape(p.value))
		case PropNote:
			setOnce(&r.Notes, Unescape(p.value))
		}
	}

	if r.FullName == "" {
		r.FullName = name
	}
	r.Phones = strings.Join(phones, "\n")
	return r.Normalize(), nil
}

// cardProperties unfolds s and returns the properties between the first
// BEGIN:VCARD and its END:VCARD.
func cardProperties(s string) ([]property, error) {
	var (
		props   []property
		inCard  bool
		current string
		pending bool
	)

	flush := func() bool {
		if !pending {
			return false
		}
		pending = false
		line := current
		current = ""
		switch {
		case strings.EqualFold(line, "BEGIN:VCARD"):
			inCard = true
		case strings.EqualFold(line, "END:VCARD"):
			return inCard
		case inCard:
			if p, ok := parseLine(line); ok {
				props = append(props, p)
			}
		}
		return false
	}

	for _, raw := range strings.Split(s, "\n") {
		raw = strings.TrimSuffix(raw, "\r")
		if strings.HasPrefix(raw, " ") || strings.HasPrefix(raw, "\t") {
			if pending {
				current += raw[1:]
			}
			continue
		}
		if flush() {
			return props, nil
		}
		if strings.TrimSpace(raw) == "" {
			continue
		}
		current = raw
		pending = true
	}
	if flush() {
		return props, nil
	}
	return nil, ErrNoCard
}

// parseLine splits "group.NAME;PARAM=x:value" into a property.
func parseLine(line string) (property, bool) {
	colon := nameEnd(line)
	if colon < 0 {
		return property{}, false
	}
	head, value := line[:colon], line[colon+1:]

	parts := strings.Split(head, ";")
	name := strings.ToUpper(parts[0])
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}

	p := property{name: name, value: value}
	for _, param := range parts[1:] {
		key, val, ok := strings.Cut(param, "=")
		if !ok {
			p.types = append(p.types, strings.ToUpper(param))
			continue
		}
		if !strings.EqualFold(key, "TYPE") {
			continue
		}
		for _, t := range strings.Split(strings.Trim(val, `"`), ",") {
			p.types = append(p.types, strings.ToUpper(t))
		}
	}
	return p, true
}

// nameEnd returns the index of the colon ending the name and parameters,
// skipping colons inside double-quoted parameter values.
func nameEnd(line string) int {
	quoted := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			quoted = !quoted
		case ':':
			if !quoted {
				return i
			}
		}
	}
	return -1
}

// splitComponents splits a structured value on unescaped semicolons and
// unescapes each component.
func splitComponents(v string) []string {
	var (
		parts []string
		start int
	)
	for i := 0; i < len(v); i++ {
		switch v[i] {
		case '\\':
			i++
		case ';':
			parts = append(parts, Unescape(v[start:i]))
			start = i + 1
		}
	}
	return append(parts, Unescape(v[start:]))
}

// structuredAddress joins the non-empty ADR components (post office box,
// extended, street, locality, region, postal code, country) with newlines.
func structuredAddress(v string) string {
	var out []string
	for _, c := range splitComponents(v) {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return strings.Join(out, "\n")
}

// structuredName renders N (family;given;additional;prefix;suffix) as a
// display name, used only when FN is absent.
func structuredName(v string) string {
	c := splitComponents(v)
	for len(c) < 5 {
		c = append(c, "")
	}
	var out []string
	for _, part := range []string{c[3], c[1], c[2], c[0], c[4]} {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, " ")
}

func addressType(types []string) contact.AddressType {
	for _, t := range types {
		switch t {
		case "HOME":
			return contact.AddressHome
		case "WORK":
			return contact.AddressWork
		}
	}
	return contact.AddressOther
}
