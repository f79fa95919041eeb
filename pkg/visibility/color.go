package visibility

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a color with components in [0, 1].
type RGB struct {
	R, G, B float32
}

// White is the default outline color.
var White = RGB{1, 1, 1}

// ParseHex parses "#RRGGBB", "#RGB", "0xRRGGBB" or bare hex digits.
func ParseHex(s string) (RGB, error) {
	hex := strings.TrimSpace(s)
	hex = strings.TrimPrefix(hex, "#")
	hex = strings.TrimPrefix(strings.TrimPrefix(hex, "0x"), "0X")
	if len(hex) != 3 && len(hex) != 6 {
		return RGB{}, fmt.Errorf("color %q: want 3 or 6 hex digits", s)
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return RGB{}, fmt.Errorf("color %q: %w", s, err)
	}
	return fromColorful(c), nil
}

// MustParseHex is ParseHex for constants.
func MustParseHex(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the color as lowercase "#rrggbb", clamping out-of-range components.
func (c RGB) Hex() string {
	return c.colorful().Clamped().Hex()
}

// Array returns the components for uniform upload.
func (c RGB) Array() [3]float32 {
	return [3]float32{c.R, c.G, c.B}
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B)}
}

func fromColorful(c colorful.Color) RGB {
	return RGB{R: float32(c.R), G: float32(c.G), B: float32(c.B)}
}
