package renderer

import (
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/camera"
	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/sim"
)

const (
	curveSteps = 6
	// Drawn size is body size times this, in world units, before zoom.
	bodyExtent = 3.0
)

var drawLayers = [...]components.DepthLayer{
	components.LayerBackground,
	components.LayerMidground,
	components.LayerForeground,
}

// SchoolRenderer draws the fish from a snapshot, back layer first and large
// fish over normal ones within a layer.
type SchoolRenderer struct {
	rng *rand.Rand

	// Body wave phase per snapshot index. Culling removes the newest fish, so
	// an index keeps naming the same fish while it lives.
	bodyPhase []float64
	outline   []rl.Vector2
	tail      []rl.Vector2
}

// NewSchoolRenderer creates a renderer; seed drives the flash flicker.
func NewSchoolRenderer(seed int64) *SchoolRenderer {
	return &SchoolRenderer{rng: rand.New(rand.NewSource(seed))}
}

// fishLook is the per-frame color and pose of one fish.
type fishLook struct {
	hue, sat, lit, alpha float64
	near                 float64 // Pointer proximity after easing
	scale                float64 // Screen pixels per body unit
	angle                float64
	bodyW, tailS         float64
}

// Draw renders the school. tMillis is wall time, used for the hue drift.
func (r *SchoolRenderer) Draw(snap *sim.Snapshot, cam *camera.Camera, tMillis float64) {
	r.syncPhases(snap.Fish)

	maxDist := math.Min(snap.WorldW, snap.WorldH) * 0.65
	for _, layer := range drawLayers {
		for _, large := range [...]bool{false, true} {
			for i := range snap.Fish {
				f := &snap.Fish[i]
				if f.Style.Layer != layer || (f.Size == components.SizeLarge) != large {
					continue
				}
				look := r.look(i, f, snap, maxDist, cam.Zoom, tMillis)
				radius := f.BodySize * f.Style.DepthScale * bodyExtent
				if cam.IsVisible(f.Pos, radius) {
					r.drawFish(cam.WorldToScreen(f.Pos), f, &look)
				}
				ghosts, n := cam.Ghosts(f.Pos, radius)
				for _, g := range ghosts[:n] {
					r.drawFish(g, f, &look)
				}
			}
		}
	}
}

func (r *SchoolRenderer) syncPhases(fish []sim.FishView) {
	for i := len(r.bodyPhase); i < len(fish); i++ {
		r.bodyPhase = append(r.bodyPhase, fish[i].Style.BodyPhase)
	}
	r.bodyPhase = r.bodyPhase[:len(fish)]
}

func (r *SchoolRenderer) look(i int, f *sim.FishView, snap *sim.Snapshot, maxDist, zoom, tMillis float64) fishLook {
	st := &f.Style
	spd := r2.Norm(f.Vel)

	near := 0.0
	if maxDist > 0 {
		near = 1 - math.Min(1, r2.Norm(r2.Sub(f.Pos, snap.Pointer))/maxDist)
	}
	nearP := math.Pow(near, 0.6)

	satBoost := 8.0
	colorBoost := 0.0
	if st.Colorful {
		satBoost, colorBoost = 20, 5
	}
	flash := snap.Flash * 20 * (0.5 + r.rng.Float64()*0.5)

	r.bodyPhase[i] += st.BodyWaveSpeed * (1 + spd*0.5)
	phase := r.bodyPhase[i]

	return fishLook{
		hue:   st.BaseHue + st.BodyTone + math.Sin(tMillis*0.0008+phase)*3,
		sat:   lerp(st.SatMin, st.SatMax+satBoost, nearP) + spd*2.5,
		lit:   lerp(38, 62, nearP) + flash + st.BodyTone*0.5 + colorBoost,
		alpha: lerp(0.25, 0.95, math.Pow(near, 0.45)) * st.DepthAlpha,
		near:  nearP,
		scale: f.BodySize * st.DepthScale * zoom,
		angle: f.Heading,
		bodyW: math.Sin(phase) * 0.08 * (1 + spd*0.3),
		tailS: math.Sin(phase-0.8) * (0.18 + spd*0.12),
	}
}

func (r *SchoolRenderer) drawFish(at r2.Vec, f *sim.FishView, l *fishLook) {
	s := l.scale
	sin, cos := math.Sincos(l.angle)
	// Local fish space: +x toward the head
	tf := func(x, y float64) rl.Vector2 {
		return rl.Vector2{
			X: float32(at.X + x*cos - y*sin),
			Y: float32(at.Y + x*sin + y*cos),
		}
	}

	w1, w2 := l.bodyW*s*0.5, l.bodyW*s*0.8

	// Body outline, traced head to tail along the top and back along the belly
	r.outline = r.outline[:0]
	r.outline = append(r.outline, tf(-s*0.2, w2*0.5)) // Fan centre
	r.outline = appendQuad(r.outline, tf, s*2.3, 0, s*1.2, -s*0.75+w1, -s*0.8, -s*0.6+w2)
	r.outline = appendQuad(r.outline, tf, -s*0.8, -s*0.6+w2, -s*2, -s*0.12+w2*0.5, -s*2.3, w2*0.3)
	r.outline = appendQuad(r.outline, tf, -s*2.3, w2*0.3, -s*2, s*0.12+w2*0.5, -s*0.8, s*0.6+w2)
	r.outline = appendQuad(r.outline, tf, -s*0.8, s*0.6+w2, s*1.2, s*0.75+w1, s*2.3, 0)
	rl.DrawTriangleFan(r.outline, HSLA(l.hue, l.sat, l.lit-5, l.alpha))

	// Tail fin
	tB := w2 * 0.3
	ts := l.tailS * s
	r.tail = r.tail[:0]
	r.tail = append(r.tail, tf(-s*2.6, ts*0.15+tB))
	r.tail = appendQuad(r.tail, tf, -s*2.2, tB, -s*2.6, -s*0.3+ts*0.5+tB, -s*3, -s*0.7+ts+tB)
	r.tail = appendQuad(r.tail, tf, -s*3, -s*0.7+ts+tB, -s*2.7, ts*0.2+tB, -s*3, s*0.7+ts+tB)
	r.tail = appendQuad(r.tail, tf, -s*3, s*0.7+ts+tB, -s*2.6, s*0.3+ts*0.5+tB, -s*2.2, tB)
	rl.DrawTriangleFan(r.tail, HSLA(l.hue+3, l.sat, l.lit-8, l.alpha*0.88))

	// Belly highlight
	rl.DrawLineEx(tf(s*1.2, s*0.25+w1), tf(-s*1.2, s*0.3+w2), float32(math.Max(1, s*0.3)),
		HSLA(l.hue-3, math.Max(0, l.sat-2), l.lit+12, l.alpha*0.6))

	// Shimmer along the flank
	shimmer := l.alpha * (0.12 + l.near*0.25) * f.Style.ScaleShimmer
	rl.DrawLineEx(tf(s*1.8, -s*0.05+w1*0.2), tf(-s*1.5, -s*0.08+w2*0.3), float32(math.Max(1, s*0.15)),
		rl.Color{R: 255, G: 255, B: 255, A: channel(shimmer)})

	if s > 3.2 {
		eye := math.Max(0.9, s*0.12)
		if f.Size == components.SizeLarge {
			eye = s * 0.09
		}
		rl.DrawCircleV(tf(s*1.65, -s*0.08), float32(eye), rl.Color{R: 220, G: 235, B: 245, A: channel(l.alpha * 0.7)})
		rl.DrawCircleV(tf(s*1.68, -s*0.08), float32(eye*0.55), rl.Color{R: 15, G: 25, B: 35, A: channel(l.alpha * 0.8)})
	}
}

// appendQuad samples a quadratic curve from p0 through control c to p1,
// skipping p0 so consecutive curves share endpoints.
func appendQuad(dst []rl.Vector2, tf func(x, y float64) rl.Vector2, x0, y0, cx, cy, x1, y1 float64) []rl.Vector2 {
	if len(dst) == 1 {
		dst = append(dst, tf(x0, y0))
	}
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		u := 1 - t
		x := u*u*x0 + 2*u*t*cx + t*t*x1
		y := u*u*y0 + 2*u*t*cy + t*t*y1
		dst = append(dst, tf(x, y))
	}
	return dst
}

// DrawVortex outlines the active vortex, fading with its intensity.
func DrawVortex(ev *sim.EventView, cam *camera.Camera, tMillis float64) {
	if ev == nil {
		return
	}
	c := cam.WorldToScreen(ev.Pos)
	radius := ev.Radius * cam.Zoom
	col := rl.Color{R: 150, G: 210, B: 230, A: channel(0.12 * ev.Intensity)}
	rl.DrawCircleLines(int32(c.X), int32(c.Y), float32(radius), col)

	// Spiral arms turning with the vortex
	spin := tMillis * 0.002 * ev.Dir
	for arm := 0; arm < 3; arm++ {
		base := spin + float64(arm)*2*math.Pi/3
		var prev rl.Vector2
		for i := 0; i <= 12; i++ {
			t := float64(i) / 12
			a := base + t*math.Pi*ev.Dir
			p := rl.Vector2{
				X: float32(c.X + math.Cos(a)*radius*t),
				Y: float32(c.Y + math.Sin(a)*radius*t),
			}
			if i > 0 {
				rl.DrawLineV(prev, p, col)
			}
			prev = p
		}
	}
}

// DrawPointerGlow marks the attractor with a soft warm glow.
func DrawPointerGlow(p r2.Vec, cam *camera.Camera) {
	if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
		return
	}
	s := cam.WorldToScreen(p)
	rl.BeginBlendMode(rl.BlendAdditive)
	rl.DrawCircleGradient(int32(s.X), int32(s.Y), float32(60*cam.Zoom),
		rl.Color{R: 255, G: 200, B: 140, A: 18}, rl.Color{R: 255, G: 200, B: 140, A: 0})
	rl.EndBlendMode()
}
