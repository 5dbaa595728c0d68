// Package contact defines the transient contact record collected by the form
// and the rules for deciding whether it holds anything worth encoding.
package contact

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// BirthdayLayout is the accepted birthday format (ISO 8601 calendar date).
const BirthdayLayout = "2006-01-02"

// ErrInvalidAddressType indicates an address type outside home, work, other.
var ErrInvalidAddressType = errors.New("contact: invalid address type")

// AddressType classifies the postal address.
type AddressType string

const (
	AddressHome  AddressType = "home"
	AddressWork  AddressType = "work"
	AddressOther AddressType = "other"
)

// AddressTypes lists the valid address types in selector order.
var AddressTypes = []AddressType{AddressHome, AddressWork, AddressOther}

// ParseAddressType converts a case-insensitive name into an AddressType.
// An empty string yields AddressHome.
func ParseAddressType(s string) (AddressType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "home":
		return AddressHome, nil
	case "work":
		return AddressWork, nil
	case "other":
		return AddressOther, nil
	default:
		return "", fmt.Errorf("%w: %q (want home, work or other)", ErrInvalidAddressType, s)
	}
}

// Next returns the following address type, wrapping around.
func (a AddressType) Next() AddressType {
	for i, t := range AddressTypes {
		if t == a {
			return AddressTypes[(i+1)%len(AddressTypes)]
		}
	}
	return AddressHome
}

// Prev returns the preceding address type, wrapping around.
func (a AddressType) Prev() AddressType {
	for i, t := range AddressTypes {
		if t == a {
			return AddressTypes[(i+len(AddressTypes)-1)%len(AddressTypes)]
		}
	}
	return AddressHome
}

// Record is the set of contact fields entered by the user. Every field is
// optional. A Record is rebuilt from the inputs on each change, never patched.
type Record struct {
	FullName    string      `yaml:"full_name,omitempty"`
	Email       string      `yaml:"email,omitempty"`
	Phones      string      `yaml:"phones,omitempty"`
	Address     string      `yaml:"address,omitempty"`
	AddressType AddressType `yaml:"address_type,omitempty"`
	Company     string      `yaml:"company,omitempty"`
	JobTitle    string      `yaml:"job_title,omitempty"`
	Birthday    string      `yaml:"birthday,omitempty"`
	Website     string      `yaml:"website,omitempty"`
	Notes       string      `yaml:"notes,omitempty"`
}

// IsEmpty reports whether no field carries a non-blank value. A Phones value
// made only of separators counts as blank. AddressType is a qualifier, not
// content, and is ignored.
func (r Record) IsEmpty() bool {
	for _, v := range r.Normalize().values() {
		if v != "" {
			return false
		}
	}
	return true
}

// values returns the content fields (everything except AddressType).
func (r Record) values() []string {
	return []string{
		r.FullName, r.Email, r.Phones, r.Address, r.Company,
		r.JobTitle, r.Birthday, r.Website, r.Notes,
	}
}

// Normalize trims every field, converts CRLF and CR line breaks to LF,
// and rewrites Phones as one number per line. AddressType only qualifies
// Address: it defaults to home, and is reset to home when Address is blank.
func (r Record) Normalize() Record {
	clean := func(s string) string {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "\n")
		return strings.TrimSpace(s)
	}
	at := r.AddressType
	if parsed, err := ParseAddressType(string(at)); err == nil {
		at = parsed
	}
	address := clean(r.Address)
	if address == "" {
		at = AddressHome
	}
	return Record{
		FullName:    clean(r.FullName),
		Email:       clean(r.Email),
		Phones:      strings.Join(SplitPhones(r.Phones), "\n"),
		Address:     address,
		AddressType: at,
		Company:     clean(r.Company),
		JobTitle:    clean(r.JobTitle),
		Birthday:    clean(r.Birthday),
		Website:     clean(r.Website),
		Notes:       clean(r.Notes),
	}
}

// PhoneNumbers splits the free-text Phones field on newlines, commas and
// semicolons, returning the trimmed non-empty numbers in input order.
func (r Record) PhoneNumbers() []string {
	return SplitPhones(r.Phones)
}

// SplitPhones splits s on newlines, commas and semicolons.
func SplitPhones(s string) []string {
	parts := strings.FieldsFunc(s, func(c rune) bool {
		return c == '\n' || c == '\r' || c == ',' || c == ';'
	})
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate runs soft format checks. The result never prevents encoding;
// callers surface it as warnings. All problems are joined into one error.
func (r Record) Validate() error {
	r = r.Normalize()
	var errs []error

	if r.Email != "" {
		local, domain, ok := strings.Cut(r.Email, "@")
		if !ok || local == "" || domain == "" || strings.ContainsAny(r.Email, " \t\n") {
			errs = append(errs, fmt.Errorf("email %q is not an address", r.Email))
		}
	}
	if r.Birthday != "" {
		if _, err := time.Parse(BirthdayLayout, r.Birthday); err != nil {
			errs = append(errs, fmt.Errorf("birthday %q is not YYYY-MM-DD", r.Birthday))
		}
	}
	if r.Website != "" && strings.Contains(r.Website, "://") {
		u, err := url.Parse(r.Website)
		if err != nil || u.Host == "" {
			errs = append(errs, fmt.Errorf("website %q is not a valid URL", r.Website))
		}
	} else if strings.ContainsAny(r.Website, " \t\n") {
		errs = append(errs, fmt.Errorf("website %q contains whitespace", r.Website))
	}

	return errors.Join(errs...)
}
