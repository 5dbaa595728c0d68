// Package export performs the side effects that leave the form: clipboard
// copies and .vcf / .png files written next to the user.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/atotto/clipboard"
)

// ErrNothingToExport is returned when the content to export is empty.
var ErrNothingToExport = errors.New("export: nothing to export")

// maxCollisions bounds the " (n)" suffix search when a file already exists.
const maxCollisions = 1000

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard is the OS clipboard.
type SystemClipboard struct{}

// WriteAll copies text to the OS clipboard.
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errors.New("no clipboard utility available")
	}
	return clipboard.WriteAll(text)
}

// Exporter writes exports into Dir and copies through Clipboard.
type Exporter struct {
	Dir       string
	Clipboard Clipboard
}

// NewExporter creates an Exporter writing into dir and using the system clipboard.
func NewExporter(dir string) *Exporter {
	return &Exporter{Dir: dir, Clipboard: SystemClipboard{}}
}

// CopyText places text on the clipboard.
func (e *Exporter) CopyText(text string) error {
	if text == "" {
		return ErrNothingToExport
	}
	cb := e.Clipboard
	if cb == nil {
		cb = SystemClipboard{}
	}
	if err := cb.WriteAll(text); err != nil {
		return fmt.Errorf("export: clipboard: %w", err)
	}
	return nil
}

// SaveVCard writes text to "<slug>.vcf" and returns the path written.
func (e *Exporter) SaveVCard(name, text string) (string, error) {
	if text == "" {
		return "", ErrNothingToExport
	}
	return e.write(Slug(name)+".vcf", []byte(text))
}

// SavePNG writes a QR image to "<slug>-qr.png" and returns the path written.
func (e *Exporter) SavePNG(name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrNothingToExport
	}
	return e.write(Slug(name)+"-qr.png", data)
}

// write stores data under a file name that does not exist yet.
func (e *Exporter) write(filename string, data []byte) (string, error) {
	dir := e.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: creating %s: %w", dir, err)
	}

	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	for n := 0; n < maxCollisions; n++ {
		candidate := filename
		if n > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, n, ext)
		}
		path := filepath.Join(dir, candidate)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("export: creating %s: %w", path, err)
		}
		if _, err := f.Write(data); err != nil {
			_ = f.Close()
			return "", fmt.Errorf("export: writing %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("export: closing %s: %w", path, err)
		}
		return path, nil
	}
	return "", fmt.Errorf("export: too many existing copies of %s in %s", filename, dir)
}

// Slug turns a contact name into a file-name-safe stem: lowercase letters and
// digits, with other runs collapsed to "-". Blank names give "contact".
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if b.Len() > 0 && !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "contact"
	}
	return s
}
