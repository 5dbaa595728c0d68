// Package qr renders vCard payloads as QR codes, either as PNG images or as
// half-block text for the terminal.
package qr

import (
	"errors"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG edge length in pixels when Encoder.Size is unset.
const DefaultSize = 256

// ErrEmptyPayload is returned when asked to encode nothing. It guards against
// producing a QR code for an all-blank contact.
var ErrEmptyPayload = errors.New("qr: empty payload")

// ErrInvalidLevel indicates an unknown recovery level name.
var ErrInvalidLevel = errors.New("qr: invalid recovery level")

// Encoder produces QR renderings of a text payload.
type Encoder struct {
	Size   int                  // PNG edge length in pixels.
	Level  qrcode.RecoveryLevel // Error correction level.
	Invert bool                 // Draw light modules instead of dark ones in Terminal output.
}

// NewEncoder returns an Encoder with the given size and level.
// A non-positive size falls back to DefaultSize.
func NewEncoder(size int, level qrcode.RecoveryLevel) *Encoder {
	if size <= 0 {
		size = DefaultSize
	}
	return &Encoder{Size: size, Level: level}
}

// ParseLevel maps low, medium, high and highest to recovery levels.
func ParseLevel(s string) (qrcode.RecoveryLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return qrcode.Low, nil
	case "", "medium":
		return qrcode.Medium, nil
	case "high":
		return qrcode.High, nil
	case "highest":
		return qrcode.Highest, nil
	default:
		return 0, fmt.Errorf("%w: %q (want low, medium, high or highest)", ErrInvalidLevel, s)
	}
}

func (e *Encoder) encode(payload string) (*qrcode.QRCode, error) {
	if payload == "" {
		return nil, ErrEmptyPayload
	}
	code, err := qrcode.New(payload, e.Level)
	if err != nil {
		return nil, fmt.Errorf("qr: encoding %d bytes: %w", len(payload), err)
	}
	return code, nil
}

// PNG returns a square PNG image of the payload, Size pixels wide.
func (e *Encoder) PNG(payload string) ([]byte, error) {
	code, err := e.encode(payload)
	if err != nil {
		return nil, err
	}
	size := e.Size
	if size <= 0 {
		size = DefaultSize
	}
	data, err := code.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("qr: rendering png: %w", err)
	}
	return data, nil
}

// Terminal renders the payload with Unicode half blocks, packing two module
// rows into each text line. The quiet zone is included.
func (e *Encoder) Terminal(payload string) (string, error) {
	code, err := e.encode(payload)
	if err != nil {
		return "", err
	}
	return halfBlocks(code.Bitmap(), e.Invert), nil
}

// halfBlocks draws bitmap (true = dark module) two rows per line.
func halfBlocks(bitmap [][]bool, invert bool) string {
	var b strings.Builder
	for y := 0; y < len(bitmap); y += 2 {
		top := bitmap[y]
		var bottom []bool
		if y+1 < len(bitmap) {
			bottom = bitmap[y+1]
		}
		for x := range top {
			upper := top[x] != invert
			lower := false
			if bottom != nil {
				lower = bottom[x] != invert
			}
			switch {
			case upper && lower:
				b.WriteString("█")
			case upper:
				b.WriteString("▀")
			case lower:
				b.WriteString("▄")
			default:
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
