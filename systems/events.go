package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/config"
)

// EventPhase is the lifecycle stage of a vortex event.
type EventPhase uint8

const (
	EventPending EventPhase = iota
	EventRising
	EventSustained
	EventFalling
	EventExpired
)

// String returns the phase name.
func (p EventPhase) String() string {
	switch p {
	case EventPending:
		return "pending"
	case EventRising:
		return "rising"
	case EventSustained:
		return "sustained"
	case EventFalling:
		return "falling"
	default:
		return "expired"
	}
}

// Event is a transient vortex that pulls fish inward and swirls them around its centre.
type Event struct {
	Pos      r2.Vec
	Radius   float64
	Strength float64
	Dir      float64 // +1 counter-clockwise, -1 clockwise
	Life     float64 // Elapsed ms
	Lifetime float64 // Total ms
	Ramp     float64 // Rise and fall duration in ms
}

// Intensity returns the envelope value in [0, 1]: a linear rise over Ramp,
// a plateau, then a linear fall over the final Ramp.
func (e *Event) Intensity() float64 {
	if e.Life <= 0 || e.Life >= e.Lifetime {
		return 0
	}
	ramp := e.Ramp
	if ramp <= 0 {
		return 1
	}
	return clamp01(math.Min(e.Life/ramp, (e.Lifetime-e.Life)/ramp))
}

// Phase returns the lifecycle stage at the current life.
func (e *Event) Phase() EventPhase {
	switch {
	case e.Life >= e.Lifetime:
		return EventExpired
	case e.Life <= 0:
		return EventPending
	case e.Life < e.Ramp:
		return EventRising
	case e.Life > e.Lifetime-e.Ramp:
		return EventFalling
	default:
		return EventSustained
	}
}

// Force returns the vortex contribution for a fish at p.
// No force applies inside the core radius or outside the event radius.
func (e *Event) Force(p r2.Vec, core, pull, swirl float64) r2.Vec {
	off := r2.Sub(p, e.Pos)
	d := r2.Norm(off)
	if d >= e.Radius || d <= core {
		return r2.Vec{}
	}
	inner := 1 - d/e.Radius
	in := e.Intensity() * e.Strength
	pullMag := inner * pull * in
	swirlMag := inner * swirl * in * e.Dir

	// Inward radial unit; (ry, -rx) is the swirl tangent
	rx, ry := -off.X/d, -off.Y/d
	return r2.Vec{
		X: rx*pullMag + ry*swirlMag,
		Y: ry*pullMag - rx*swirlMag,
	}
}

// EventScheduler spawns at most one vortex at a time, spaced by a cooldown and
// a minimum interval.
type EventScheduler struct {
	cfg       config.EventsConfig
	active    *Event
	cooldown  float64
	lastStart float64
	started   int
}

// NewEventScheduler creates a scheduler with no active event.
func NewEventScheduler(cfg config.EventsConfig) *EventScheduler {
	return &EventScheduler{cfg: cfg}
}

// Update advances the scheduler by dt milliseconds at simulated time now.
// It returns true when a new event started during this call.
func (s *EventScheduler) Update(dt, now float64, rng *rand.Rand, worldW, worldH float64) bool {
	s.cooldown -= dt

	started := false
	if s.cfg.Enabled && s.active == nil && s.cooldown <= 0 && now-s.lastStart > s.cfg.MinIntervalMS {
		s.start(s.spawn(rng, worldW, worldH), now)
		started = true
	}

	if s.active != nil {
		s.active.Life += dt
		if s.active.Life >= s.active.Lifetime {
			s.active = nil
		}
	}
	return started
}

// Trigger force-starts an event, replacing any active one.
// The event's Ramp defaults to the configured ramp when zero.
func (s *EventScheduler) Trigger(ev Event, now float64) *Event {
	if ev.Ramp <= 0 {
		ev.Ramp = s.cfg.RampMS
	}
	if ev.Strength == 0 {
		ev.Strength = s.cfg.Strength
	}
	if ev.Dir == 0 {
		ev.Dir = 1
	}
	s.start(&ev, now)
	return s.active
}

// Active returns the running event, or nil.
func (s *EventScheduler) Active() *Event {
	return s.active
}

// Started returns how many events have started since creation.
func (s *EventScheduler) Started() int {
	return s.started
}

// SetEnabled toggles automatic spawning. A running event is left to expire.
func (s *EventScheduler) SetEnabled(on bool) {
	s.cfg.Enabled = on
}

func (s *EventScheduler) start(ev *Event, now float64) {
	s.active = ev
	s.lastStart = now
	s.cooldown = s.cfg.CooldownMS
	s.started++
}

func (s *EventScheduler) spawn(rng *rand.Rand, worldW, worldH float64) *Event {
	return &Event{
		Pos: r2.Vec{
			X: randRange(rng, worldW*0.2, worldW*0.8),
			Y: randRange(rng, worldH*0.2, worldH*0.8),
		},
		Radius:   randRange(rng, s.cfg.RadiusMin, s.cfg.RadiusMax),
		Strength: s.cfg.Strength,
		Dir:      randSign(rng),
		Lifetime: randRange(rng, s.cfg.LifetimeMinMS, s.cfg.LifetimeMaxMS),
		Ramp:     s.cfg.RampMS,
	}
}
