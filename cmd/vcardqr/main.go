package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	vcardqr "github.com/smileynet/vcardqr"
	"github.com/smileynet/vcardqr/internal/config"
	"github.com/smileynet/vcardqr/internal/contact"
	"github.com/smileynet/vcardqr/internal/export"
	"github.com/smileynet/vcardqr/internal/form"
	"github.com/smileynet/vcardqr/internal/qr"
	"github.com/smileynet/vcardqr/internal/vcard"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// ErrEmptyContact is returned when every contact field is blank.
var ErrEmptyContact = errors.New("contact is empty: fill in at least one field")

// CLI is the top-level command structure for vcardqr.
type CLI struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Form    FormCmd          `cmd:"" default:"withargs" help:"Open the interactive contact form (default)."`
	Build   BuildCmd         `cmd:"" help:"Build a vCard from flags."`
	Parse   ParseCmd         `cmd:"" help:"Decode a vCard file and print it as YAML."`
	Init    InitCmd          `cmd:"" help:"Write the default config to .vcardqr/config.yaml."`
}

// loadConfig loads layered config from user and project paths with env overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/vcardqr/config.yaml"),
		".vcardqr/config.yaml",
	)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newEncoder builds the QR encoder described by cfg.
func newEncoder(cfg *config.Config) (*qr.Encoder, error) {
	level, err := qr.ParseLevel(cfg.QR.Recovery)
	if err != nil {
		return nil, err
	}
	enc := qr.NewEncoder(cfg.QR.Size, level)
	enc.Invert = cfg.QR.InvertTerminal
	return enc, nil
}

// buildFunc returns the vCard serializer for cfg. When UIDs are enabled one
// UID is generated per invocation so every rebuild describes the same contact.
func buildFunc(cfg *config.Config) form.BuildFunc {
	if !cfg.VCard.IncludeUID {
		return func(r contact.Record) string { return vcard.Build(r) }
	}
	uid := uuid.NewString()
	return func(r contact.Record) string { return vcard.Build(r, vcard.WithUID(uid)) }
}

// readInput reads path, or stdin when path is "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// --- Form command ---

// FormCmd opens the interactive contact form.
type FormCmd struct {
	From   string `help:"Pre-fill the form from a vCard file (- for stdin)." placeholder:"FILE"`
	Output string `help:"Directory for exported files (overrides config)." short:"o"`
}

// teaRunner abstracts Bubble Tea program execution for testing.
type teaRunner interface {
	Run() (tea.Model, error)
}

// Run builds real dependencies and launches the form TUI.
func (f *FormCmd) Run() error {
	if !isTerminal(os.Stdout) {
		return fmt.Errorf("form: requires a terminal (TTY); use vcardqr build for scripts")
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("form: %w", err)
	}
	if f.Output != "" {
		cfg.Output.Dir = f.Output
	}

	logger, closeLog, err := newLogger(os.Getenv("VCARDQR_LOG"))
	if err != nil {
		return fmt.Errorf("form: %w", err)
	}
	defer closeLog()

	opts, err := f.options(cfg, logger, os.Stdin)
	if err != nil {
		return fmt.Errorf("form: %w", err)
	}

	prog := tea.NewProgram(form.NewModel(opts...), tea.WithAltScreen())
	return f.run(true, prog)
}

// options assembles the form model options from config and flags.
func (f *FormCmd) options(cfg *config.Config, logger *log.Logger, stdin io.Reader) ([]form.Option, error) {
	enc, err := newEncoder(cfg)
	if err != nil {
		return nil, err
	}
	at, err := contact.ParseAddressType(cfg.Form.AddressType)
	if err != nil {
		return nil, err
	}

	opts := []form.Option{
		form.WithBuilder(buildFunc(cfg)),
		form.WithRenderer(enc),
		form.WithExporter(export.NewExporter(cfg.Output.Dir)),
		form.WithLogger(logger),
		form.WithAddressType(at),
	}

	if f.From != "" {
		data, err := readInput(f.From, stdin)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.From, err)
		}
		r, err := vcard.Parse(string(data))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", f.From, err)
		}
		opts = append(opts, form.WithRecord(r))
	}
	return opts, nil
}

// run executes the tea program, enabling testable wiring.
func (f *FormCmd) run(isTTY bool, prog teaRunner) error {
	if !isTTY {
		return fmt.Errorf("form: requires a terminal (TTY)")
	}
	_, err := prog.Run()
	return err
}

// newLogger returns a file logger when path is set and a discarding one
// otherwise. The TUI owns stdout, so logs never go there.
func newLogger(path string) (*log.Logger, func(), error) {
	logger := log.New(io.Discard, "", log.LstdFlags)
	if path == "" {
		return logger, func() {}, nil
	}
	f, err := tea.LogToFileWith(path, "vcardqr", logger)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log %s: %w", path, err)
	}
	return logger, func() { _ = f.Close() }, nil
}

// --- Build command ---

// BuildCmd builds a vCard from flags and prints it to stdout.
type BuildCmd struct {
	Name        string   `help:"Full name." short:"n"`
	Email       string   `help:"Email address." short:"e"`
	Phone       []string `help:"Phone number (repeatable)." short:"p" sep:"none"`
	Address     string   `help:"Postal address."`
	AddressType string   `help:"Address type: home, work or other (default from config)." name:"address-type"`
	Company     string   `help:"Company or organization."`
	Title       string   `help:"Job title."`
	Birthday    string   `help:"Birthday as YYYY-MM-DD."`
	Website     string   `help:"Website URL."`
	Note        string   `help:"Free-text note."`

	VCF     bool   `name:"vcf" help:"Save the vCard as <name>.vcf in the output directory."`
	PNG     bool   `name:"png" help:"Save the QR code as <name>-qr.png in the output directory."`
	Copy    bool   `help:"Copy the vCard to the clipboard."`
	QR      bool   `name:"qr" help:"Print the QR code to the terminal."`
	ForceQR bool   `name:"force-qr" help:"Print the QR code even when stdout is not a terminal."`
	Output  string `help:"Directory for exported files (overrides config)." short:"o"`
}

// Run executes the build command.
func (b *BuildCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	if b.Output != "" {
		cfg.Output.Dir = b.Output
	}
	enc, err := newEncoder(cfg)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	return b.run(os.Stdout, os.Stderr, cfg, enc, export.NewExporter(cfg.Output.Dir), isTerminal(os.Stdout))
}

// record assembles the contact from flags, using the configured address type
// when none is given.
func (b *BuildCmd) record(cfg *config.Config) (contact.Record, error) {
	typ := b.AddressType
	if typ == "" {
		typ = cfg.Form.AddressType
	}
	at, err := contact.ParseAddressType(typ)
	if err != nil {
		return contact.Record{}, err
	}
	return contact.Record{
		FullName:    b.Name,
		Email:       b.Email,
		Phones:      strings.Join(b.Phone, "\n"),
		Address:     b.Address,
		AddressType: at,
		Company:     b.Company,
		JobTitle:    b.Title,
		Birthday:    b.Birthday,
		Website:     b.Website,
		Notes:       b.Note,
	}, nil
}

// run prints the card to w and reports exports and warnings on errw, keeping
// w clean for piping.
func (b *BuildCmd) run(w, errw io.Writer, cfg *config.Config, enc form.Renderer, ex form.Exporter, isTTY bool) error {
	r, err := b.record(cfg)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	card := buildFunc(cfg)(r)
	if card == "" {
		return fmt.Errorf("build: %w", ErrEmptyContact)
	}
	printWarnings(errw, r.Validate())

	_, _ = fmt.Fprint(w, card)

	if b.QR || b.ForceQR {
		if isTTY || b.ForceQR {
			art, err := enc.Terminal(card)
			if err != nil {
				return fmt.Errorf("build: %w", err)
			}
			_, _ = fmt.Fprint(w, art)
		} else {
			_, _ = fmt.Fprintln(errw, "warning: stdout is not a terminal, skipping QR output (use --force-qr)")
		}
	}

	name := strings.TrimSpace(r.FullName)
	if b.VCF {
		path, err := ex.SaveVCard(name, card)
		if err != nil {
			return fmt.Errorf("build: %w", err)
		}
		_, _ = fmt.Fprintf(errw, "Saved vCard to %s\n", path)
	}
	if b.PNG {
		if err := savePNG(errw, enc, ex, name, card); err != nil {
			return fmt.Errorf("build: %w", err)
		}
	}
	if b.Copy {
		if err := ex.CopyText(card); err != nil {
			return fmt.Errorf("build: %w", err)
		}
		_, _ = fmt.Fprintln(errw, "vCard copied to clipboard.")
	}
	return nil
}

func savePNG(w io.Writer, enc form.Renderer, ex form.Exporter, name, card string) error {
	data, err := enc.PNG(card)
	if err != nil {
		return err
	}
	path, err := ex.SavePNG(name, data)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Saved QR code to %s\n", path)
	return nil
}

// printWarnings writes one "warning:" line per joined validation error.
func printWarnings(w io.Writer, err error) {
	if err == nil {
		return
	}
	for _, line := range strings.Split(err.Error(), "\n") {
		_, _ = fmt.Fprintf(w, "warning: %s\n", line)
	}
}

// --- Parse command ---

// ParseCmd decodes a vCard and prints the contact as YAML.
type ParseCmd struct {
	File   string `arg:"" optional:"" default:"-" help:"vCard file to read, or - for stdin."`
	PNG    bool   `name:"png" help:"Re-render the card as a QR image in the output directory."`
	Output string `help:"Directory for exported files (overrides config)." short:"o"`
}

// Run executes the parse command.
func (p *ParseCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if p.Output != "" {
		cfg.Output.Dir = p.Output
	}
	enc, err := newEncoder(cfg)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	data, err := readInput(p.File, os.Stdin)
	if err != nil {
		return fmt.Errorf("parse: reading %s: %w", p.File, err)
	}
	return p.run(os.Stdout, os.Stderr, data, cfg, enc, export.NewExporter(cfg.Output.Dir))
}

// run decodes data, writes YAML to w and reports exports on errw.
func (p *ParseCmd) run(w, errw io.Writer, data []byte, cfg *config.Config, enc form.Renderer, ex form.Exporter) error {
	r, err := vcard.Parse(string(data))
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if r.IsEmpty() {
		return fmt.Errorf("parse: %w", ErrEmptyContact)
	}

	out, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("parse: encoding yaml: %w", err)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	printWarnings(errw, r.Validate())

	if p.PNG {
		card := buildFunc(cfg)(r)
		if err := savePNG(errw, enc, ex, strings.TrimSpace(r.FullName), card); err != nil {
			return fmt.Errorf("parse: %w", err)
		}
	}
	return nil
}

// --- Init command ---

// InitCmd writes the embedded default config into the project.
type InitCmd struct {
	Force bool `help:"Overwrite an existing config file."`
}

// Run executes the init command.
func (i *InitCmd) Run() error {
	return i.run(os.Stdout, ".vcardqr")
}

// run writes config.yaml into dir, enabling testable wiring.
func (i *InitCmd) run(w io.Writer, dir string) error {
	path := filepath.Join(dir, "config.yaml")
	if !i.Force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("init: %s already exists (use --force to overwrite)", path)
		}
	}

	data, err := fs.ReadFile(vcardqr.Templates, "config.yaml")
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("init: creating %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("init: writing %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}

const (
	exitSuccess = 0
	exitEmpty   = 1
	exitSetup   = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	if errors.Is(err, ErrEmptyContact) || errors.Is(err, qr.ErrEmptyPayload) {
		return exitEmpty
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Description("Turn contact details into a vCard and a scannable QR code."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
