package main

import (
	"errors"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/vcardqr/internal/config"
	"github.com/smileynet/vcardqr/internal/form"
)

// errExitCalled is a sentinel used to catch kong's os.Exit calls in tests.
var errExitCalled = errors.New("exit called")

// mockTeaRunner stubs tea program execution for FormCmd testing.
type mockTeaRunner struct {
	ran bool
	err error
}

func (m *mockTeaRunner) Run() (tea.Model, error) {
	m.ran = true
	return nil, m.err
}

// mockRenderer returns canned renderings.
type mockRenderer struct {
	err error
}

func (m *mockRenderer) Terminal(payload string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "[qr]\n", nil
}

func (m *mockRenderer) PNG(payload string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []byte("png"), nil
}

// mockExporter records exports in memory.
type mockExporter struct {
	copied []string
	vcards map[string]string
	pngs   map[string][]byte
	err    error
}

func newMockExporter() *mockExporter {
	return &mockExporter{vcards: map[string]string{}, pngs: map[string][]byte{}}
}

func (m *mockExporter) CopyText(text string) error {
	if m.err != nil {
		return m.err
	}
	m.copied = append(m.copied, text)
	return nil
}

func (m *mockExporter) SaveVCard(name, text string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.vcards[name] = text
	return filepath.Join("out", name+".vcf"), nil
}

func (m *mockExporter) SavePNG(name string, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.pngs[name] = data
	return filepath.Join("out", name+"-qr.png"), nil
}

func defaultConfig() *config.Config {
	cfg := config.DefaultConfig()
	return &cfg
}

// Compile-time checks: mocks satisfy the interfaces the commands use.
var (
	_ teaRunner     = (*mockTeaRunner)(nil)
	_ form.Renderer = (*mockRenderer)(nil)
	_ form.Exporter = (*mockExporter)(nil)
)
