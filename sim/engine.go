// Package sim owns the fish school simulation: one ECS world, the spatial
// index, migration state, vortex events and the population, advanced by Tick.
package sim

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/systems"
)

// Phase names reported to a PhaseTimer during Tick.
const (
	PhaseSpatialGrid     = "spatial_grid"
	PhaseMigration       = "migration"
	PhaseForcesIntegrate = "forces_integrate"
	PhasePopulation      = "population"
)

// PhaseTimer receives phase boundaries during Tick.
type PhaseTimer interface {
	StartPhase(phase string)
}

// Viewport is the drawable area in world units.
type Viewport struct {
	Width, Height float64
}

// Input carries the external state consumed at the start of a tick.
type Input struct {
	Pointer  *r2.Vec // nil keeps the last pointer
	Viewport Viewport // zero keeps the current world size
}

// TickReport summarises what happened during one tick.
type TickReport struct {
	Spawned      int
	Culled       int
	Breakouts    int
	EventStarted bool
}

// Engine advances the simulation. It is not safe for concurrent use.
type Engine struct {
	cfg *config.Config
	rng *rand.Rand

	world  *ecs.World
	filter *ecs.Filter3[components.Position, components.Velocity, components.Fish]
	mapper *ecs.Map4[components.Position, components.Velocity, components.Fish, components.Style]

	grid       *systems.SpatialGrid
	forces     *systems.ForceComposer
	integrator *systems.Integrator
	migration  *systems.MigrationState
	events     *systems.EventScheduler
	population *systems.PopulationController

	pointer r2.Vec
	speed   float64
	gain    float64
	worldW  float64
	worldH  float64

	tick    int64
	elapsed float64 // Simulated ms

	timer PhaseTimer
}

// New creates an engine from a copy of cfg and spawns the initial school.
func New(cfg *config.Config) *Engine {
	cfg = cfg.Clone()
	cfg.Validate()
	cfg.SetWorldSize(cfg.World.Width, cfg.World.Height)

	rng := rand.New(rand.NewSource(cfg.Sim.Seed))
	world := ecs.NewWorld()

	e := &Engine{
		cfg:        cfg,
		rng:        rng,
		world:      world,
		filter:     ecs.NewFilter3[components.Position, components.Velocity, components.Fish](world),
		mapper:     ecs.NewMap4[components.Position, components.Velocity, components.Fish, components.Style](world),
		grid:       systems.NewSpatialGrid(cfg.Derived.WorldW, cfg.Derived.WorldH, cfg.Grid.CellSize),
		forces:     systems.NewForceComposer(world, cfg, systems.NewNoiseField(cfg.Wander.Noise, cfg.Sim.Seed)),
		integrator: systems.NewIntegrator(cfg),
		migration:  systems.NewMigrationState(cfg, rng),
		events:     systems.NewEventScheduler(cfg.Events),
		population: systems.NewPopulationController(world, cfg, rng),
		speed:      cfg.Sim.Speed,
		gain:       cfg.Sim.Gain,
		worldW:     cfg.Derived.WorldW,
		worldH:     cfg.Derived.WorldH,
	}
	e.pointer = r2.Vec{X: e.worldW * 0.5, Y: e.worldH * 0.5}
	e.population.Fill(e.worldW, e.worldH)
	return e
}

// Tick advances the simulation by dtMillis, clamped to [0, max_dt_ms].
func (e *Engine) Tick(dtMillis float64, in Input) TickReport {
	if in.Pointer != nil {
		e.SetPointer(*in.Pointer)
	}
	if vp := in.Viewport; vp.Width > 0 && vp.Height > 0 && (vp.Width != e.worldW || vp.Height != e.worldH) {
		e.Resize(vp.Width, vp.Height)
	}

	dt := dtMillis
	if !(dt > 0) {
		dt = 0
	}
	dt = math.Min(dt, e.cfg.Sim.MaxDTMillis)

	e.tick++
	e.elapsed += dt
	var rep TickReport

	// Rebuild the index and take the mean position in one pass
	e.phase(PhaseSpatialGrid)
	e.grid.Clear()
	var sum r2.Vec
	n := 0
	query := e.filter.Query()
	for query.Next() {
		pos, _, _ := query.Get()
		e.grid.Insert(query.Entity(), pos.X, pos.Y)
		sum.X += pos.X
		sum.Y += pos.Y
		n++
	}

	e.phase(PhaseMigration)
	var mean r2.Vec
	if n > 0 {
		mean = r2.Scale(1/float64(n), sum)
	}
	e.migration.Update(dt, mean, n > 0, e.rng, e.worldW, e.worldH)
	rep.EventStarted = e.events.Update(dt, e.elapsed, e.rng, e.worldW, e.worldH)

	e.phase(PhaseForcesIntegrate)
	if n > 0 {
		fin := systems.ForceInput{
			Pointer:   e.pointer,
			WorldW:    e.worldW,
			WorldH:    e.worldH,
			Now:       e.elapsed,
			Dt:        dt,
			Migration: e.migration,
			Event:     e.events.Active(),
		}
		bounds := systems.Bounds{Width: e.worldW, Height: e.worldH, Margin: e.cfg.Integrator.Margin}

		query := e.filter.Query()
		for query.Next() {
			pos, vel, fish := query.Get()
			if e.forces.UpdateBreakout(fish, dt, e.rng) {
				rep.Breakouts++
			}
			f := e.forces.Compose(query.Entity(), pos, vel, fish, e.grid, &fin)
			e.integrator.Step(pos, vel, fish, f, dt, e.speed, e.migration.SpeedMod, bounds)
		}
	}

	e.phase(PhasePopulation)
	if delta := e.population.Step(e.worldW, e.worldH); delta > 0 {
		rep.Spawned = delta
	} else {
		rep.Culled = -delta
	}

	return rep
}

// SetTimer installs a phase timer; nil disables timing.
func (e *Engine) SetTimer(t PhaseTimer) {
	e.timer = t
}

func (e *Engine) phase(name string) {
	if e.timer != nil {
		e.timer.StartPhase(name)
	}
}

// SetPointer moves the attractor. Non-finite coordinates remove its pull.
func (e *Engine) SetPointer(p r2.Vec) {
	e.pointer = p
}

// Pointer returns the attractor position.
func (e *Engine) Pointer() r2.Vec {
	return e.pointer
}

// SetTargetCount clamps and stores the desired fish count, returning the stored value.
func (e *Engine) SetTargetCount(n int) int {
	return e.population.SetTarget(n)
}

// TargetCount returns the desired fish count.
func (e *Engine) TargetCount() int {
	return e.population.Target()
}

// Count returns the live fish count.
func (e *Engine) Count() int {
	return e.population.Count()
}

// SetSpeed clamps and stores the global speed multiplier, returning the stored value.
func (e *Engine) SetSpeed(v float64) float64 {
	e.speed = config.ClampSpeed(v)
	return e.speed
}

// Speed returns the global speed multiplier.
func (e *Engine) Speed() float64 {
	return e.speed
}

// SetGain clamps and stores the volume gain handed to the audio collaborator.
func (e *Engine) SetGain(v float64) float64 {
	e.gain = config.ClampGain(v)
	return e.gain
}

// Gain returns the volume gain.
func (e *Engine) Gain() float64 {
	return e.gain
}

// Resize changes the world size, re-deriving the grid and respawning sub-schools.
// Fish outside the new bounds wrap back in on their next step.
func (e *Engine) Resize(w, h float64) {
	if !(w > 0) || !(h > 0) {
		return
	}
	e.worldW, e.worldH = w, h
	e.cfg.SetWorldSize(int(math.Round(w)), int(math.Round(h)))
	e.grid.Resize(w, h)
	e.migration.Reset(e.rng, w, h)
}

// WorldSize returns the world dimensions.
func (e *Engine) WorldSize() (w, h float64) {
	return e.worldW, e.worldH
}

// TriggerVortex starts a vortex centred at p with randomised radius, lifetime
// and direction, replacing any active one.
func (e *Engine) TriggerVortex(p r2.Vec) {
	ev := e.cfg.Events
	dir := 1.0
	if e.rng.Float64() < 0.5 {
		dir = -1
	}
	e.events.Trigger(systems.Event{
		Pos:      p,
		Radius:   ev.RadiusMin + e.rng.Float64()*(ev.RadiusMax-ev.RadiusMin),
		Lifetime: ev.LifetimeMinMS + e.rng.Float64()*(ev.LifetimeMaxMS-ev.LifetimeMinMS),
		Dir:      dir,
	}, e.elapsed)
}

// SetEventsEnabled toggles automatic vortex spawning.
func (e *Engine) SetEventsEnabled(on bool) {
	e.events.SetEnabled(on)
}

// EventsStarted returns how many vortex events have started.
func (e *Engine) EventsStarted() int {
	return e.events.Started()
}

// Population returns cumulative spawn and cull totals.
func (e *Engine) Population() (spawned, culled int) {
	return e.population.Totals()
}

// TickCount returns the number of ticks run.
func (e *Engine) TickCount() int64 {
	return e.tick
}

// Elapsed returns simulated time in milliseconds.
func (e *Engine) Elapsed() float64 {
	return e.elapsed
}

// Config returns the engine's effective configuration. Callers must not modify it.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Nearest returns the fish closest to p on the wrapped world, if any lies
// within maxDist.
func (e *Engine) Nearest(p r2.Vec, maxDist float64) (ecs.Entity, bool) {
	var best ecs.Entity
	bestD2 := maxDist * maxDist
	found := false
	for _, ent := range e.population.Entities() {
		pos, _, _, _ := e.mapper.Get(ent)
		dx := wrapDelta(pos.X-p.X, e.worldW)
		dy := wrapDelta(pos.Y-p.Y, e.worldH)
		if d2 := dx*dx + dy*dy; d2 <= bestD2 {
			best, bestD2, found = ent, d2, true
		}
	}
	return best, found
}

// Inspect copies the state of a selected fish. ok is false once the fish has
// been culled.
func (e *Engine) Inspect(ent ecs.Entity) (pos r2.Vec, fish components.Fish, style components.Style, ok bool) {
	if !e.world.Alive(ent) {
		return pos, fish, style, false
	}
	p, _, f, s := e.mapper.Get(ent)
	if p == nil || f == nil || s == nil {
		return pos, fish, style, false
	}
	return r2.Vec{X: p.X, Y: p.Y}, *f, *s, true
}

func wrapDelta(d, size float64) float64 {
	if size <= 0 {
		return d
	}
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}
