package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
)

// ForceInput is the shared, per-tick context for composing forces.
type ForceInput struct {
	Pointer   r2.Vec
	WorldW    float64
	WorldH    float64
	Now       float64 // Simulated ms
	Dt        float64 // Tick length in ms
	Migration *MigrationState
	Event     *Event // Active vortex, or nil
}

// Forces is the composed result for one fish.
type Forces struct {
	Accel       r2.Vec
	PointerDist float64 // Distance to the attractor (+1), +Inf when there is none
	Neighbors   int
}

// ForceComposer sums flocking, thermal plume, migration, vortex and wander
// contributions for each fish.
type ForceComposer struct {
	flock  config.FlockingConfig
	plume  config.AttractorConfig
	wander config.WanderConfig
	events config.EventsConfig
	cap    int

	noise   NoiseField
	posMap  *ecs.Map[components.Position]
	velMap  *ecs.Map[components.Velocity]
	scratch []Neighbor
}

// NewForceComposer creates a composer reading neighbor state from the world.
func NewForceComposer(w *ecs.World, cfg *config.Config, noise NoiseField) *ForceComposer {
	return &ForceComposer{
		flock:   cfg.Flocking,
		plume:   cfg.Attractor,
		wander:  cfg.Wander,
		events:  cfg.Events,
		cap:     cfg.Grid.NeighborCap,
		noise:   noise,
		posMap:  ecs.NewMap[components.Position](w),
		velMap:  ecs.NewMap[components.Velocity](w),
		scratch: make([]Neighbor, 0, DefaultNeighborCap),
	}
}

// UpdateBreakout counts down an active breakout or, with a small per-tick
// chance, starts a new one. It returns true when a breakout starts.
func (c *ForceComposer) UpdateBreakout(fish *components.Fish, dt float64, rng *rand.Rand) bool {
	if fish.Breakout > 0 {
		fish.Breakout -= dt
		return false
	}
	if rng.Float64() < c.wander.BreakoutChance {
		fish.Breakout = randRange(rng, c.wander.BreakoutMinMS, c.wander.BreakoutMaxMS)
		return true
	}
	return false
}

// Compose returns the summed acceleration for one fish.
// It advances the fish's wander phase.
func (c *ForceComposer) Compose(e ecs.Entity, pos *components.Position, vel *components.Velocity, fish *components.Fish, grid *SpatialGrid, in *ForceInput) Forces {
	p := r2.Vec{X: pos.X, Y: pos.Y}
	v := r2.Vec{X: vel.X, Y: vel.Y}

	c.scratch = grid.QueryInto(c.scratch[:0], pos.X, pos.Y, c.flock.Radius, e, c.cap, c.posMap)
	accel := c.Flocking(p, v, fish, c.scratch)

	plume, dist := c.Plume(p, in.Pointer, in.WorldW, in.WorldH)
	accel = r2.Add(accel, plume)

	accel = r2.Add(accel, c.Wander(p, fish, in.Now, in.Dt))

	if in.Migration != nil {
		accel = r2.Add(accel, in.Migration.Force(p))
	}
	if in.Event != nil {
		accel = r2.Add(accel, in.Event.Force(p, c.events.CoreRadius, c.events.Pull, c.events.Swirl))
	}

	return Forces{Accel: accel, PointerDist: dist, Neighbors: len(c.scratch)}
}

// Flocking returns alignment, cohesion and separation from the given neighbors.
// A fish in breakout ignores flock averaging, so both alignment and cohesion
// drop out, but it still separates.
func (c *ForceComposer) Flocking(p, v r2.Vec, fish *components.Fish, neighbors []Neighbor) r2.Vec {
	if len(neighbors) == 0 {
		return r2.Vec{}
	}

	sepR := c.flock.SeparationRadius
	if fish.Large() {
		sepR = c.flock.SeparationRadiusLarge
	}

	var avgV, avgP, sep r2.Vec
	for _, n := range neighbors {
		if nv := c.velMap.Get(n.E); nv != nil {
			avgV.X += nv.X
			avgV.Y += nv.Y
		}
		avgP.X += p.X + n.DX
		avgP.Y += p.Y + n.DY

		d := math.Sqrt(n.DistSq) + epsilon
		if d < sepR {
			push := (sepR - d) / sepR
			sep.X -= n.DX / d * push
			sep.Y -= n.DY / d * push
		}
	}

	inv := 1 / float64(len(neighbors))
	f := r2.Scale(c.flock.Separation, sep)
	if fish.BreakingOut() {
		return f
	}
	align := r2.Sub(r2.Scale(inv, avgV), v)
	cohere := r2.Sub(r2.Scale(inv, avgP), p)
	f = r2.Add(f, r2.Scale(c.flock.Alignment, align))
	f = r2.Add(f, r2.Scale(c.flock.Cohesion, cohere))
	return f
}

// Plume returns the thermal plume attraction toward the pointer and the
// floored distance to it. A non-finite pointer exerts no force.
func (c *ForceComposer) Plume(p, pointer r2.Vec, worldW, worldH float64) (r2.Vec, float64) {
	if !finite(pointer.X) || !finite(pointer.Y) {
		return r2.Vec{}, math.Inf(1)
	}
	d := r2.Sub(pointer, p)
	dist := r2.Norm(d) + 1

	heat := math.Exp(-dist/c.plume.Falloff) * c.plume.ExpWeight
	if span := math.Max(worldW, worldH); span > 0 {
		heat += c.plume.LinearWeight * math.Max(0, 1-dist/span)
	}

	boost := 1.0
	if dist < c.plume.BoostRadius && c.plume.BoostDivisor > 0 {
		boost = 1 + (c.plume.BoostRadius-dist)/c.plume.BoostDivisor
	}

	return r2.Scale(heat*c.plume.Strength*boost/dist, d), dist
}

// Wander advances the fish's oscillator and returns an asymmetric wiggle
// perturbed by fractal noise sampled at its position and the current time.
func (c *ForceComposer) Wander(p r2.Vec, fish *components.Fish, now, dt float64) r2.Vec {
	fish.Phase += dt * c.wander.PhaseRate
	n := c.noise.FBM(
		p.X*c.wander.SpatialScale+now*c.wander.TimeScaleX,
		p.Y*c.wander.SpatialScale+now*c.wander.TimeScaleY,
	)
	wig := (math.Sin(fish.Phase+fish.HueSeed*twoPi) + n - 0.5) * c.wander.Amplitude * fish.Wander
	return r2.Vec{X: wig, Y: -c.wander.CrossAxis * wig}
}
