package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HSLA builds a color from hue in degrees, saturation and lightness in
// percent, and alpha in [0, 1]. Out-of-range inputs are clamped.
func HSLA(h, s, l, a float64) rl.Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	s = clamp(s/100, 0, 1)
	l = clamp(l/100, 0, 1)

	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return rl.Color{
		R: channel(r + m),
		G: channel(g + m),
		B: channel(b + m),
		A: channel(a),
	}
}

func channel(v float64) uint8 {
	return uint8(math.Round(clamp(v, 0, 1) * 255))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
