package style

import (
	"fmt"
	"image/color"
	"strings"
)

// Color is a normalized RGBA color as uploaded to the shader uniform.
type Color struct {
	R, G, B, A float32
}

var (
	Black = Color{0, 0, 0, 1}
	White = Color{1, 1, 1, 1}

	// Background is the clear color of every frame.
	Background = White
)

// Palette backs the number-key color shortcuts of the window.
var Palette = []Color{
	Black,
	{1, 0, 0, 1},
	{0, 0.6, 0, 1},
	{0, 0, 1, 1},
	{1, 0.6, 0, 1},
}

// Array returns the color as the four floats glUniform4fv expects.
func (c Color) Array() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

// NRGBA converts to an 8-bit non-premultiplied color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// Hex formats the color as #RRGGBB, or #RRGGBBAA when not opaque.
func (c Color) Hex() string {
	n := c.NRGBA()
	if n.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}

func to8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	}
	return uint8(v*255 + 0.5)
}

// ParseHex parses #RGB, #RGBA, #RRGGBB and #RRGGBBAA, with or without the
// leading '#'. Missing alpha means opaque.
func ParseHex(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")

	var digits [8]uint32
	for i := 0; i < len(hex) && i < len(digits); i++ {
		d, ok := hexDigit(hex[i])
		if !ok {
			return Color{}, fmt.Errorf("invalid hex color %q: bad digit %q", s, hex[i])
		}
		digits[i] = d
	}

	var r, g, b, a uint32
	a = 255
	switch len(hex) {
	case 3, 4:
		r, g, b = digits[0]*17, digits[1]*17, digits[2]*17
		if len(hex) == 4 {
			a = digits[3] * 17
		}
	case 6, 8:
		r = digits[0]<<4 | digits[1]
		g = digits[2]<<4 | digits[3]
		b = digits[4]<<4 | digits[5]
		if len(hex) == 8 {
			a = digits[6]<<4 | digits[7]
		}
	default:
		return Color{}, fmt.Errorf("invalid hex color %q: want 3, 4, 6 or 8 digits", s)
	}

	return Color{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
		A: float32(a) / 255,
	}, nil
}

func hexDigit(c byte) (uint32, bool) {
	switch {
	case '0' <= c && c <= '9':
		return uint32(c - '0'), true
	case 'a' <= c && c <= 'f':
		return uint32(c-'a') + 10, true
	case 'A' <= c && c <= 'F':
		return uint32(c-'A') + 10, true
	}
	return 0, false
}

const (
	DefaultWidth = 2
	MinWidth     = 1
	MaxWidth     = 20
)

// LineStyle is the stroke applied to every segment of the drawing.
type LineStyle struct {
	Width float32 // pixels
	Color Color
}

// Default returns the initial stroke: 2 pixels, opaque black.
func Default() LineStyle {
	return LineStyle{Width: DefaultWidth, Color: Black}
}

// ClampWidth limits w to the range offered by the width controls.
func ClampWidth(w float32) float32 {
	if w < MinWidth {
		return MinWidth
	}
	if w > MaxWidth {
		return MaxWidth
	}
	return w
}
