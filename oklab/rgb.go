package oklab

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a packed opaque sRGB colour, 0xRRGGBB.
type RGB uint32

// Pack builds an RGB from its channels.
func Pack(r, g, b uint8) RGB {
	return RGB(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// Components returns the red, green and blue channels.
func (c RGB) Components() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Colorful converts to a go-colorful colour.
func (c RGB) Colorful() colorful.Color {
	r, g, b := c.Components()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Hex formats the colour as "#rrggbb".
func (c RGB) Hex() string {
	return c.Colorful().Hex()
}

func (c RGB) String() string {
	return c.Hex()
}

// ParseHex parses "#rrggbb" or "#rgb".
func ParseHex(s string) (RGB, error) {
	col, err := colorful.Hex(s)
	if err != nil {
		return 0, fmt.Errorf("parsing colour %q: %w", s, err)
	}
	r, g, b := col.RGB255()
	return Pack(r, g, b), nil
}

// ToScaled converts an sRGB colour to the network's scaled OkLab space.
func ToScaled(c RGB) Scaled {
	l, a, b := c.Colorful().OkLab()
	return Scale(Lab{L: l, A: a, B: b})
}
