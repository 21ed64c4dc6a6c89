package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name              string
		v, extent, margin float64
		want              float64
	}{
		{"inside", 500, 1000, 60, 500},
		{"inside margin", -30, 1000, 60, -30},
		{"right edge exactly", 1060, 1000, 60, 1060},
		{"off right", 1065, 1000, 60, -55},
		{"off left", -65, 1000, 60, 1055},
		{"no margin", 1003, 1000, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Wrap(tt.v, tt.extent, tt.margin); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Wrap(%v, %v, %v) = %v, want %v", tt.v, tt.extent, tt.margin, got, tt.want)
			}
		})
	}
}

func TestIntegratorToroidalRoundTrip(t *testing.T) {
	cfg := config.Default()
	in := NewIntegrator(cfg)
	b := Bounds{Width: 1000, Height: 800, Margin: cfg.Integrator.Margin}

	fish := &components.Fish{Size: components.SizeNormal, Smoothing: 0.05}
	pos := &components.Position{X: 1059, Y: 400}
	vel := &components.Velocity{X: 10, Y: 0}

	const dt = 16.0
	drag := in.Drag(fish)
	wantVX := 10 * drag
	overshoot := 1059 + wantVX*dt*cfg.Integrator.PositionScale - (b.Width + b.Margin)

	in.Step(pos, vel, fish, Forces{PointerDist: math.Inf(1)}, dt, 1, 1, b)

	if overshoot <= 0 {
		t.Fatalf("test setup did not cross the edge (overshoot %v)", overshoot)
	}
	if want := -b.Margin + overshoot; math.Abs(pos.X-want) > 1e-9 {
		t.Errorf("x after wrap = %v, want %v", pos.X, want)
	}
	if pos.Y != 400 {
		t.Errorf("y changed to %v moving horizontally", pos.Y)
	}
	if math.Abs(vel.X-wantVX) > 1e-12 {
		t.Errorf("vx = %v, want %v", vel.X, wantVX)
	}
}

func TestIntegratorSpeedCap(t *testing.T) {
	cfg := config.Default()
	in := NewIntegrator(cfg)
	b := Bounds{Width: 1000, Height: 800, Margin: 60}

	tests := []struct {
		name    string
		size    components.SizeClass
		speed   float64
		dist    float64
		wantCap float64
	}{
		{"normal far", components.SizeNormal, 0.4, 1000, 18 * 0.4},
		{"large far", components.SizeLarge, 0.4, 1000, 16 * 0.4},
		{"normal near field", components.SizeNormal, 0.4, 100, 18 * 0.4 * 2},
		{"large near field fast", components.SizeLarge, 4, 349, 16 * 4 * 2},
		{"no attractor", components.SizeNormal, 1, math.Inf(1), 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fish := &components.Fish{Size: tt.size, Smoothing: 0.05}
			if got := in.SpeedCap(fish, tt.speed, tt.dist); math.Abs(got-tt.wantCap) > 1e-9 {
				t.Fatalf("SpeedCap = %v, want %v", got, tt.wantCap)
			}

			pos := &components.Position{X: 500, Y: 400}
			vel := &components.Velocity{}
			f := Forces{Accel: r2.Vec{X: 1e6, Y: -1e6}, PointerDist: tt.dist}
			in.Step(pos, vel, fish, f, 16, tt.speed, 1, b)

			if got := math.Hypot(vel.X, vel.Y); got > tt.wantCap+1e-9 {
				t.Errorf("speed %v exceeds cap %v", got, tt.wantCap)
			}
		})
	}
}

func TestIntegratorDrag(t *testing.T) {
	in := NewIntegrator(config.Default())
	normal := in.Drag(&components.Fish{Size: components.SizeNormal})
	large := in.Drag(&components.Fish{Size: components.SizeLarge})

	if math.Abs(normal-0.95) > 1e-12 {
		t.Errorf("normal drag = %v, want 0.95", normal)
	}
	if math.Abs(large-0.935) > 1e-12 {
		t.Errorf("large drag = %v, want 0.935", large)
	}
	if large >= normal {
		t.Error("large fish should retain more momentum (lower drag factor)")
	}
}

func TestIntegratorSanitizesNonFinite(t *testing.T) {
	in := NewIntegrator(config.Default())
	b := Bounds{Width: 1000, Height: 800, Margin: 60}
	fish := &components.Fish{Smoothing: 0.05}

	pos := &components.Position{X: 100, Y: 100}
	vel := &components.Velocity{X: 1, Y: 1}
	in.Step(pos, vel, fish, Forces{Accel: r2.Vec{X: math.NaN(), Y: math.Inf(1)}, PointerDist: 500}, 16, 1, 1, b)
	if !finite(vel.X) || !finite(vel.Y) || !finite(pos.X) || !finite(pos.Y) {
		t.Fatalf("non-finite state after NaN force: pos=%+v vel=%+v", *pos, *vel)
	}

	pos = &components.Position{X: math.NaN(), Y: 100}
	vel = &components.Velocity{X: math.Inf(-1), Y: 0}
	in.Step(pos, vel, fish, Forces{PointerDist: 500}, 16, 1, 1, b)
	if vel.X != 0 || vel.Y != 0 {
		t.Errorf("velocity = %+v, want zeroed", *vel)
	}
	if pos.X != 500 || pos.Y != 400 {
		t.Errorf("position = %+v, want reset to world centre", *pos)
	}
}

func TestIntegratorHeadingEases(t *testing.T) {
	in := NewIntegrator(config.Default())
	b := Bounds{Width: 1000, Height: 800, Margin: 60}
	fish := &components.Fish{Heading: 0, Smoothing: 0.1}
	pos := &components.Position{X: 500, Y: 400}
	vel := &components.Velocity{X: 0, Y: 2}

	in.Step(pos, vel, fish, Forces{PointerDist: math.Inf(1)}, 16, 1, 1, b)
	if fish.Heading <= 0 || fish.Heading >= math.Pi/2 {
		t.Fatalf("heading after one step = %v, want between 0 and π/2", fish.Heading)
	}

	for i := 0; i < 200; i++ {
		vel.X, vel.Y = 0, 2
		in.Step(pos, vel, fish, Forces{PointerDist: math.Inf(1)}, 16, 1, 1, b)
	}
	if math.Abs(fish.Heading-math.Pi/2) > 1e-3 {
		t.Errorf("heading = %v, want ≈ π/2", fish.Heading)
	}
}
