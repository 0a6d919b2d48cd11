package vmath

import "github.com/chewxy/math32"

// Color is an RGB color with channels in [0,1].
type Color struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
}

// RGB constructs a Color from channel values in [0,1].
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b}
}

// Black is the zero color, used as the resting emissive tint.
var Black = Color{}

// Scale returns the color with every channel multiplied by s and
// clamped to [0,1].
func (c Color) Scale(s float32) Color {
	return Color{
		R: clamp01(c.R * s),
		G: clamp01(c.G * s),
		B: clamp01(c.B * s),
	}
}

// IsZero reports whether all channels are zero.
func (c Color) IsZero() bool {
	return c == Color{}
}

func clamp01(v float32) float32 {
	return math32.Min(math32.Max(v, 0), 1)
}
