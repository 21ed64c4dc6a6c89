package sim

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/systems"
)

// FishView is a read-only copy of one fish.
type FishView struct {
	Pos      r2.Vec
	Vel      r2.Vec
	Heading  float64
	Size     components.SizeClass
	BodySize float64
	Breakout bool
	Style    components.Style
}

// EventView is a read-only copy of the active vortex.
type EventView struct {
	Pos       r2.Vec
	Radius    float64
	Dir       float64
	Intensity float64
	Phase     systems.EventPhase
}

// Snapshot is the state exposed to renderers and telemetry after a tick.
type Snapshot struct {
	Fish []FishView

	Flash    float64
	Centroid r2.Vec
	Heading  float64
	SpeedMod float64

	Event      *EventView
	SubSchools []systems.SubSchool

	Pointer r2.Vec
	WorldW  float64
	WorldH  float64
	Speed   float64
	Gain    float64
	Target  int
	Tick    int64
	Elapsed float64 // Simulated ms
}

// Snapshot returns a fresh copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	var s Snapshot
	e.SnapshotInto(&s)
	return s
}

// SnapshotInto fills dst, reusing its slices.
// Fish appear in spawn order.
func (e *Engine) SnapshotInto(dst *Snapshot) {
	live := e.population.Entities()
	if cap(dst.Fish) < len(live) {
		dst.Fish = make([]FishView, 0, len(live))
	}
	dst.Fish = dst.Fish[:0]
	for _, ent := range live {
		pos, vel, fish, style := e.mapper.Get(ent)
		dst.Fish = append(dst.Fish, FishView{
			Pos:      r2.Vec{X: pos.X, Y: pos.Y},
			Vel:      r2.Vec{X: vel.X, Y: vel.Y},
			Heading:  fish.Heading,
			Size:     fish.Size,
			BodySize: fish.BodySize,
			Breakout: fish.BreakingOut(),
			Style:    *style,
		})
	}

	m := e.migration
	dst.Flash = m.Flash
	dst.Centroid = m.Centroid
	dst.Heading = m.Heading
	dst.SpeedMod = m.SpeedMod
	dst.SubSchools = append(dst.SubSchools[:0], m.SubSchools...)

	dst.Event = nil
	if ev := e.events.Active(); ev != nil {
		dst.Event = &EventView{
			Pos:       ev.Pos,
			Radius:    ev.Radius,
			Dir:       ev.Dir,
			Intensity: ev.Intensity(),
			Phase:     ev.Phase(),
		}
	}

	dst.Pointer = e.pointer
	dst.WorldW = e.worldW
	dst.WorldH = e.worldH
	dst.Speed = e.speed
	dst.Gain = e.gain
	dst.Target = e.population.Target()
	dst.Tick = e.tick
	dst.Elapsed = e.elapsed
}
