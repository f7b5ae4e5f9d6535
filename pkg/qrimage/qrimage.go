// Package qrimage renders setup payload QR codes as PNG images.
package qrimage

import (
	"errors"
	"fmt"
	"image/color"
	"os"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/backkem/matter-setup/pkg/commissioning/payload"
)

// Level is the QR error correction level.
type Level = qrcode.RecoveryLevel

// Error correction levels
const (
	LevelLow     = qrcode.Low
	LevelMedium  = qrcode.Medium
	LevelHigh    = qrcode.High
	LevelHighest = qrcode.Highest
)

var ErrInvalidSize = errors.New("qrimage: size must be positive")

// Options control how a payload is rendered.
type Options struct {
	// Size is the width and height of the image in pixels.
	Size int

	// Border adds the quiet zone around the symbol.
	Border bool

	Level      Level
	Foreground color.Color
	Background color.Color
}

// DefaultOptions returns a 512x512 black on white image with a quiet zone
// and medium error correction.
func DefaultOptions() Options {
	return Options{
		Size:       512,
		Border:     true,
		Level:      LevelMedium,
		Foreground: color.Black,
		Background: color.White,
	}
}

// Renderer draws setup payload QR codes.
type Renderer struct {
	opts Options
}

// NewRenderer creates a Renderer. Unset colors fall back to the defaults.
func NewRenderer(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.Foreground == nil {
		opts.Foreground = def.Foreground
	}
	if opts.Background == nil {
		opts.Background = def.Background
	}
	return &Renderer{opts: opts}
}

// Render returns the PNG encoding of the payload's "MT:" string.
func (r *Renderer) Render(p *payload.SetupPayload) ([]byte, error) {
	if r.opts.Size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, r.opts.Size)
	}
	text, err := payload.EncodeQRCode(p)
	if err != nil {
		return nil, err
	}

	q, err := qrcode.New(text, r.opts.Level)
	if err != nil {
		return nil, fmt.Errorf("qrimage: %w", err)
	}
	q.DisableBorder = !r.opts.Border
	q.ForegroundColor = r.opts.Foreground
	q.BackgroundColor = r.opts.Background

	return q.PNG(r.opts.Size)
}

// WriteFile renders the payload to a PNG file at path and returns path.
func (r *Renderer) WriteFile(p *payload.SetupPayload, path string) (string, error) {
	png, err := r.Render(p)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// GenerateQRCodeImage writes the payload's QR code to path with
// DefaultOptions and returns path.
func GenerateQRCodeImage(p *payload.SetupPayload, path string) (string, error) {
	return NewRenderer(DefaultOptions()).WriteFile(p, path)
}
