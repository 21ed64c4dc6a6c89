package systems

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

// fbmOctaves is the number of octaves summed by FBM.
const fbmOctaves = 4

// NoiseField samples smooth 2D noise for wander.
type NoiseField interface {
	// Noise2D returns a value in [0, 1).
	Noise2D(x, y float64) float64
	// FBM returns a 4-octave fractal sum of Noise2D.
	FBM(x, y float64) float64
}

// NewNoiseField returns the field named by kind ("value" or "simplex").
// Unknown kinds fall back to value noise.
func NewNoiseField(kind string, seed int64) NoiseField {
	if kind == "simplex" {
		return NewSimplexField(seed)
	}
	return ValueNoise{}
}

// ValueNoise is hash-based value noise with smoothstep bilinear blending.
// It is a pure function of its inputs and needs no seed.
type ValueNoise struct{}

// Noise2D returns a value in [0, 1).
func (ValueNoise) Noise2D(x, y float64) float64 {
	xi := math.Floor(x)
	yi := math.Floor(y)
	xf := x - xi
	yf := y - yi

	a := hash2(xi, yi)
	b := hash2(xi+1, yi)
	c := hash2(xi, yi+1)
	d := hash2(xi+1, yi+1)

	u := smoothstep(xf)
	v := smoothstep(yf)
	return lerp(lerp(a, b, u), lerp(c, d, u), v)
}

// FBM returns a 4-octave fractal sum with amplitude halving and frequency doubling.
func (n ValueNoise) FBM(x, y float64) float64 {
	return fbm(n, x, y)
}

// SimplexField wraps normalized OpenSimplex noise.
type SimplexField struct {
	noise opensimplex.Noise
}

// NewSimplexField creates a seeded OpenSimplex field.
func NewSimplexField(seed int64) *SimplexField {
	return &SimplexField{noise: opensimplex.NewNormalized(seed)}
}

// Noise2D returns a value in [0, 1).
func (s *SimplexField) Noise2D(x, y float64) float64 {
	v := s.noise.Eval2(x, y)
	// Normalized noise can touch 1.0 at lattice extremes
	if v >= 1 {
		v = math.Nextafter(1, 0)
	}
	if v < 0 {
		v = 0
	}
	return v
}

// FBM returns a 4-octave fractal sum with amplitude halving and frequency doubling.
func (s *SimplexField) FBM(x, y float64) float64 {
	return fbm(s, x, y)
}

func fbm(n NoiseField, x, y float64) float64 {
	var f float64
	amp := 0.5
	freq := 1.0
	for i := 0; i < fbmOctaves; i++ {
		f += amp * n.Noise2D(x*freq, y*freq)
		amp *= 0.5
		freq *= 2
	}
	return f
}

// hash2 maps a lattice point to [0, 1).
func hash2(x, y float64) float64 {
	s := math.Sin(x*127.1+y*311.7) * 43758.5453123
	f := s - math.Floor(s)
	// Tiny negative s rounds up to exactly 1
	if f >= 1 {
		return 0
	}
	return f
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
