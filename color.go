package cardfx

import (
	"image/color"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

// FromColor converts a standard color.Color to straight-alpha RGBA.
func FromColor(c color.Color) RGBA {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return RGBA{}
	}
	fa := float64(a)
	return RGBA{R: float64(r) / fa, G: float64(g) / fa, B: float64(b) / fa, A: fa / 65535}
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// HSV creates an opaque color from hue in degrees, saturation and value.
// The hue wraps.
func HSV(h, s, v float64) RGBA {
	c := colorful.Hsv(wrapDegrees(h), s, v).Clamped()
	return RGB(c.R, c.G, c.B)
}

// ParseHex parses "#rgb" or "#rrggbb", with or without the leading '#'.
func ParseHex(s string) (RGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return RGBA{}, false
	}
	c, err := colorful.Hex("#" + s)
	if err != nil {
		return RGBA{}, false
	}
	return RGB(c.R, c.G, c.B), true
}

// Hex returns the "#rrggbb" form of c, ignoring alpha.
func (c RGBA) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

// Hue returns the HSV hue of c in degrees.
func (c RGBA) Hue() float64 {
	h, _, _ := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsv()
	return h
}

// ShiftHue rotates the hue of c by deg, keeping saturation and value.
func (c RGBA) ShiftHue(deg float64) RGBA {
	h, s, v := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsv()
	out := HSV(h+deg, s, v)
	out.A = c.A
	return out
}

// Premultiply returns a premultiplied color.
func (c RGBA) Premultiply() RGBA {
	return RGBA{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

// Lerp performs linear interpolation between two colors.
func (c RGBA) Lerp(other RGBA, t float64) RGBA {
	return RGBA{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// Common colors
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Transparent = RGBA{}
)

// averageHex averages the parseable colors of list. ok is false when none parse.
func averageHex(list []string) (RGBA, bool) {
	var sum RGBA
	n := 0
	for _, s := range list {
		if c, ok := ParseHex(s); ok {
			sum.R += c.R
			sum.G += c.G
			sum.B += c.B
			n++
		}
	}
	if n == 0 {
		return RGBA{}, false
	}
	f := float64(n)
	return RGB(sum.R/f, sum.G/f, sum.B/f), true
}

// clamp255 restricts a value to [0, 255] range.
func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}

func wrapDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
