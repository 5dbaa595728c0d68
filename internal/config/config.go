// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/smileynet/vcardqr/internal/contact"
	"github.com/smileynet/vcardqr/internal/qr"
)

// Size limits for generated QR images, in pixels.
const (
	MinQRSize = 64
	MaxQRSize = 4096
)

// Config holds all vcardqr configuration.
type Config struct {
	Output Output `yaml:"output"`
	QR     QR     `yaml:"qr"`
	VCard  VCard  `yaml:"vcard"`
	Form   Form   `yaml:"form"`
}

// Output holds export destination settings.
type Output struct {
	Dir string `yaml:"dir"` // Directory for .vcf and .png exports.
}

// QR holds QR rendering settings.
type QR struct {
	Size           int    `yaml:"size"`            // PNG edge length in pixels.
	Recovery       string `yaml:"recovery"`        // "low" | "medium" | "high" | "highest"
	InvertTerminal bool   `yaml:"invert_terminal"` // Draw light modules in terminal output.
}

// VCard holds serialization settings.
type VCard struct {
	IncludeUID bool `yaml:"include_uid"` // Add a random UID property.
}

// Form holds interactive form defaults.
type Form struct {
	AddressType string `yaml:"address_type"` // Initial address type selector value.
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Output: Output{
			Dir: ".",
		},
		QR: QR{
			Size:     256,
			Recovery: "medium",
		},
		Form: Form{
			AddressType: string(contact.AddressHome),
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.Output.Dir == "" {
		return errors.New("config: output.dir cannot be empty")
	}
	if c.QR.Size < MinQRSize || c.QR.Size > MaxQRSize {
		return fmt.Errorf("config: qr.size must be between %d and %d, got %d", MinQRSize, MaxQRSize, c.QR.Size)
	}
	if _, err := qr.ParseLevel(c.QR.Recovery); err != nil {
		return fmt.Errorf("config: qr.recovery: %w", err)
	}
	if _, err := contact.ParseAddressType(c.Form.AddressType); err != nil {
		return fmt.Errorf("config: form.address_type: %w", err)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: VCARDQR_OUTPUT_DIR, VCARDQR_QR_SIZE, VCARDQR_QR_RECOVERY.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("VCARDQR_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv("VCARDQR_QR_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid VCARDQR_QR_SIZE %q: %w", v, err)
		}
		c.QR.Size = n
	}
	if v := os.Getenv("VCARDQR_QR_RECOVERY"); v != "" {
		c.QR.Recovery = v
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Output *rawOutput `yaml:"output"`
	QR     *rawQR     `yaml:"qr"`
	VCard  *rawVCard  `yaml:"vcard"`
	Form   *rawForm   `yaml:"form"`
}

type rawOutput struct {
	Dir *string `yaml:"dir"`
}

type rawQR struct {
	Size           *int    `yaml:"size"`
	Recovery       *string `yaml:"recovery"`
	InvertTerminal *bool   `yaml:"invert_terminal"`
}

type rawVCard struct {
	IncludeUID *bool `yaml:"include_uid"`
}

type rawForm struct {
	AddressType *string `yaml:"address_type"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Output != nil && layer.Output.Dir != nil {
		c.Output.Dir = *layer.Output.Dir
	}
	if layer.QR != nil {
		if layer.QR.Size != nil {
			c.QR.Size = *layer.QR.Size
		}
		if layer.QR.Recovery != nil {
			c.QR.Recovery = *layer.QR.Recovery
		}
		if layer.QR.InvertTerminal != nil {
			c.QR.InvertTerminal = *layer.QR.InvertTerminal
		}
	}
	if layer.VCard != nil && layer.VCard.IncludeUID != nil {
		c.VCard.IncludeUID = *layer.VCard.IncludeUID
	}
	if layer.Form != nil && layer.Form.AddressType != nil {
		c.Form.AddressType = *layer.Form.AddressType
	}
}
