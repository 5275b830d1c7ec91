package style

import (
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Verify at compile time that Color implements color.Color.
var _ color.Color = Color{}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#FF0000", Color{1, 0, 0, 1}},
		{"#ff0000", Color{1, 0, 0, 1}},
		{"00ff00", Color{0, 1, 0, 1}},
		{"#00F", Color{0, 0, 1, 1}},
		{"#000000", Black},
		{"#ffffff", White},
		{"#ff000000", Color{1, 0, 0, 0}},
		{"#f008", Color{1, 0, 0, float32(0x88) / 255}},
		{" #FFFFFF ", White},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if err != nil {
				t.Fatalf("ParseHex(%q): %v", tt.in, err)
			}
			if d := cmp.Diff(tt.want, got); d != "" {
				t.Errorf("ParseHex(%q) mismatch (-want +got):\n%s", tt.in, d)
			}
		})
	}
}

func TestParseHexInvalid(t *testing.T) {
	for _, in := range []string{"", "#", "#12", "#12345", "#gg0000", "red", "#1234567"} {
		if c, err := ParseHex(in); err == nil {
			t.Errorf("ParseHex(%q) = %v, want error", in, c)
		}
	}
}

func TestColorHex(t *testing.T) {
	for _, tt := range []struct {
		c    Color
		want string
	}{
		{Black, "#000000"},
		{Color{1, 0, 0, 1}, "#ff0000"},
		{Color{0, 0, 1, 0.5}, "#0000ff80"},
	} {
		if got := tt.c.Hex(); got != tt.want {
			t.Errorf("%v.Hex() = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestColorNRGBA(t *testing.T) {
	got := Color{1, 0.5, -1, 2}.NRGBA()
	want := color.NRGBA{R: 255, G: 128, B: 0, A: 255}
	if got != want {
		t.Errorf("NRGBA() = %v, want %v", got, want)
	}
}

func TestClampWidth(t *testing.T) {
	for _, tt := range []struct{ in, want float32 }{
		{0, MinWidth},
		{1, 1},
		{7.5, 7.5},
		{20, 20},
		{99, MaxWidth},
	} {
		if got := ClampWidth(tt.in); got != tt.want {
			t.Errorf("ClampWidth(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDefault(t *testing.T) {
	want := LineStyle{Width: 2, Color: Color{0, 0, 0, 1}}
	if d := cmp.Diff(want, Default()); d != "" {
		t.Errorf("Default() mismatch (-want +got):\n%s", d)
	}
}
