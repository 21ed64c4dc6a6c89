package renderer

import (
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	godRayCount = 4
	rayBands    = 24
)

var (
	deepTop    = rl.Color{R: 0x06, G: 0x1a, B: 0x28, A: 255}
	deepBottom = rl.Color{R: 0x02, G: 0x07, B: 0x0e, A: 255}
)

type godRay struct {
	x, width float64
	alpha    float64
	phase    float64
}

// BackgroundRenderer draws the water gradient and slanted shafts of light
// from the surface.
type BackgroundRenderer struct {
	rng              *rand.Rand
	screenW, screenH float64
	rays             []godRay
}

// NewBackgroundRenderer creates a background sized to the screen.
func NewBackgroundRenderer(screenW, screenH int32, seed int64) *BackgroundRenderer {
	b := &BackgroundRenderer{rng: rand.New(rand.NewSource(seed))}
	b.Resize(screenW, screenH)
	return b
}

// Resize reseeds the light shafts for a new screen size.
func (b *BackgroundRenderer) Resize(screenW, screenH int32) {
	b.screenW, b.screenH = float64(screenW), float64(screenH)
	b.rays = b.rays[:0]
	for i := 0; i < godRayCount; i++ {
		b.rays = append(b.rays, godRay{
			x:     lerp(b.screenW*0.1, b.screenW*0.9, b.rng.Float64()),
			width: lerp(100, 250, b.rng.Float64()),
			alpha: lerp(0.02, 0.05, b.rng.Float64()),
			phase: b.rng.Float64() * 2 * math.Pi,
		})
	}
}

// Draw renders the gradient and the pulsing rays. tMillis is wall time.
func (b *BackgroundRenderer) Draw(tMillis float64) {
	rl.DrawRectangleGradientV(0, 0, int32(b.screenW), int32(b.screenH), deepTop, deepBottom)

	rl.BeginBlendMode(rl.BlendAdditive)
	for _, r := range b.rays {
		pulse := 0.7 + 0.3*math.Sin(tMillis*0.001+r.phase)
		b.drawRay(r, r.alpha*pulse)
	}
	rl.EndBlendMode()
}

// drawRay fills the shaft as horizontal bands fading toward the floor. The
// shaft widens from width at the surface to twice that at the bottom.
func (b *BackgroundRenderer) drawRay(r godRay, alpha float64) {
	h := b.screenH
	for i := 0; i < rayBands; i++ {
		t0 := float64(i) / rayBands
		t1 := float64(i+1) / rayBands

		left0, right0 := r.x-r.width*0.5*t0, r.x+r.width+r.width*0.5*t0
		left1, right1 := r.x-r.width*0.5*t1, r.x+r.width+r.width*0.5*t1
		y0, y1 := float32(t0*h), float32(t1*h)

		c := rl.Color{R: 255, G: 255, B: 255, A: channel(0.4 * alpha * (1 - t0))}
		tl := rl.Vector2{X: float32(left0), Y: y0}
		tr := rl.Vector2{X: float32(right0), Y: y0}
		bl := rl.Vector2{X: float32(left1), Y: y1}
		br := rl.Vector2{X: float32(right1), Y: y1}
		// Counter-clockwise winding in screen space
		rl.DrawTriangle(tl, bl, br, c)
		rl.DrawTriangle(tl, br, tr, c)
	}
}
