package renderer

import (
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	snowCount = 150
	frameMS   = 1000.0 / 60
)

type flake struct {
	x, y   float64
	z      float64 // Depth; scales drift and size
	vx, vy float64
	r      float64
	a      float64
}

// SnowRenderer draws drifting marine snow in screen space.
type SnowRenderer struct {
	rng              *rand.Rand
	screenW, screenH float64
	flakes           []flake
}

// NewSnowRenderer creates the particles for a screen size.
func NewSnowRenderer(screenW, screenH int32, seed int64) *SnowRenderer {
	s := &SnowRenderer{rng: rand.New(rand.NewSource(seed))}
	s.Resize(screenW, screenH)
	return s
}

// Resize reseeds every flake across the new screen.
func (s *SnowRenderer) Resize(screenW, screenH int32) {
	s.screenW, s.screenH = float64(screenW), float64(screenH)
	s.flakes = s.flakes[:0]
	for i := 0; i < snowCount; i++ {
		s.flakes = append(s.flakes, flake{
			x:  s.rng.Float64() * s.screenW,
			y:  s.rng.Float64() * s.screenH,
			z:  lerp(0.3, 1, s.rng.Float64()),
			vx: lerp(-0.1, 0.1, s.rng.Float64()),
			vy: lerp(0.2, 0.5, s.rng.Float64()),
			r:  lerp(0.5, 2, s.rng.Float64()),
			a:  lerp(0.1, 0.3, s.rng.Float64()),
		})
	}
}

// Update drifts the flakes by dtMillis of wall time, wrapping at the edges.
func (s *SnowRenderer) Update(dtMillis float64) {
	k := dtMillis / frameMS
	for i := range s.flakes {
		f := &s.flakes[i]
		f.x += f.vx * f.z * k
		f.y += f.vy * f.z * k
		if f.x < 0 {
			f.x = s.screenW
		} else if f.x > s.screenW {
			f.x = 0
		}
		if f.y > s.screenH {
			f.y = 0
		}
	}
}

// Draw renders all flakes.
func (s *SnowRenderer) Draw() {
	for i := range s.flakes {
		f := &s.flakes[i]
		c := rl.Color{R: 255, G: 255, B: 255, A: channel(f.a)}
		rl.DrawCircleV(rl.Vector2{X: float32(f.x), Y: float32(f.y)}, float32(f.r*f.z), c)
	}
}
