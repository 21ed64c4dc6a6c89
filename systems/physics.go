package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
)

// Bounds represents the simulation world.
type Bounds struct {
	Width, Height float64
	Margin        float64 // Fish may leave the world by this much before wrapping
}

// Integrator applies composed forces to velocity and position.
type Integrator struct {
	cfg       config.IntegratorConfig
	nearField float64
}

// NewIntegrator creates an integrator from config.
func NewIntegrator(cfg *config.Config) *Integrator {
	return &Integrator{cfg: cfg.Integrator, nearField: cfg.Attractor.NearField}
}

// Drag returns the per-step velocity retention for a fish.
// Large fish keep more momentum.
func (in *Integrator) Drag(fish *components.Fish) float64 {
	if fish.Large() {
		return in.cfg.Drag + in.cfg.DragLarge
	}
	return in.cfg.Drag + in.cfg.DragNormal
}

// SpeedCap returns the maximum speed for a fish, doubled near the attractor.
func (in *Integrator) SpeedCap(fish *components.Fish, speed, pointerDist float64) float64 {
	maxSpeed := in.cfg.MaxSpeed
	if fish.Large() {
		maxSpeed = in.cfg.MaxSpeedLarge
	}
	maxSpeed *= speed
	if pointerDist < in.nearField {
		maxSpeed *= 2
	}
	return maxSpeed
}

// Step integrates one fish over dt milliseconds.
// speed is the global multiplier and speedMod the school surge factor.
func (in *Integrator) Step(pos *components.Position, vel *components.Velocity, fish *components.Fish, f Forces, dt, speed, speedMod float64, b Bounds) {
	accel := f.Accel
	if !finite(accel.X) || !finite(accel.Y) {
		accel = r2.Vec{}
	}

	k := dt * in.cfg.Acceleration * speed * speedMod
	drag := in.Drag(fish)
	vel.X = (vel.X + accel.X*k) * drag
	vel.Y = (vel.Y + accel.Y*k) * drag

	if !finite(vel.X) || !finite(vel.Y) {
		vel.X, vel.Y = 0, 0
	}

	// Limit velocity
	maxSpeed := in.SpeedCap(fish, speed, f.PointerDist)
	velMag := math.Hypot(vel.X, vel.Y)
	if velMag > maxSpeed && velMag > 0 {
		scale := maxSpeed / velMag
		vel.X *= scale
		vel.Y *= scale
	}

	// Update position
	pos.X += vel.X * dt * in.cfg.PositionScale
	pos.Y += vel.Y * dt * in.cfg.PositionScale

	if !finite(pos.X) || !finite(pos.Y) {
		pos.X, pos.Y = b.Width*0.5, b.Height*0.5
	}

	pos.X = Wrap(pos.X, b.Width, b.Margin)
	pos.Y = Wrap(pos.Y, b.Height, b.Margin)

	// Ease the drawn heading toward the direction of travel
	if vel.X*vel.X+vel.Y*vel.Y > 1e-8 {
		target := math.Atan2(vel.Y, vel.X)
		diff := normalizeAngle(target - fish.Heading)
		fish.Heading = normalizeAngle(fish.Heading + diff*fish.Smoothing)
	}
}

// Wrap maps a coordinate that left [-margin, extent+margin] back in from the
// opposite side, preserving the overshoot. Values inside the range are unchanged.
func Wrap(v, extent, margin float64) float64 {
	lo := -margin
	hi := extent + margin
	if v >= lo && v <= hi {
		return v
	}
	span := hi - lo
	if span <= 0 {
		return 0
	}
	return lo + mod(v-lo, span)
}
