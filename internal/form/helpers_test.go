package form

import (
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// stripANSI removes ANSI escape sequences from a string.
func stripANSI(s string) string {
	var out []byte
	i := 0
	for i < len(s) {
		if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && (s[j] < 'A' || s[j] > 'Z') && (s[j] < 'a' || s[j] > 'z') {
				j++
			}
			if j < len(s) {
				j++
			}
			i = j
		} else {
			out = append(out, s[i])
			i++
		}
	}
	return string(out)
}

// containsPlainText checks if s contains sub after stripping ANSI escapes.
func containsPlainText(s, sub string) bool {
	return strings.Contains(stripANSI(s), sub)
}

// fakeRenderer returns canned QR output and records payloads.
type fakeRenderer struct {
	mu       sync.Mutex
	payloads []string
	pngErr   error
}

func (f *fakeRenderer) Terminal(payload string) (string, error) {
	return "[qr]\n", nil
}

func (f *fakeRenderer) PNG(payload string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	if f.pngErr != nil {
		return nil, f.pngErr
	}
	return []byte("png:" + payload), nil
}

// fakeExporter records exports instead of touching the system.
type fakeExporter struct {
	mu      sync.Mutex
	copied  []string
	vcards  map[string]string
	pngs    map[string][]byte
	failAll error
}

func newFakeExporter() *fakeExporter {
	return &fakeExporter{vcards: map[string]string{}, pngs: map[string][]byte{}}
}

func (f *fakeExporter) CopyText(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return f.failAll
	}
	f.copied = append(f.copied, text)
	return nil
}

func (f *fakeExporter) SaveVCard(name, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return "", f.failAll
	}
	f.vcards[name] = text
	return "out/" + name + ".vcf", nil
}

func (f *fakeExporter) SavePNG(name string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return "", f.failAll
	}
	f.pngs[name] = data
	return "out/" + name + "-qr.png", nil
}

func (f *fakeExporter) savedVCard(name string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.vcards[name]
	return v, ok
}

var errDiskFull = errors.New("disk full")

// update feeds one message and returns the updated Model and command.
func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	um, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", updated)
	}
	return um, cmd
}

// typeText sends s as a single runes key message.
func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

// press sends a special key.
func press(t *testing.T, m Model, k tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: k})
}

// focusField tabs forward until id has focus.
func focusField(t *testing.T, m Model, id FieldID) Model {
	t.Helper()
	for i := 0; m.current != id; i++ {
		if i > int(fieldCount) {
			t.Fatalf("could not reach field %d", id)
		}
		m, _ = press(t, m, tea.KeyTab)
	}
	return m
}
