package sim

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
)

func testConfig(count int) *config.Config {
	cfg := config.Default()
	cfg.Sim.Seed = 1
	cfg.Sim.TargetCount = count
	cfg.Events.Enabled = false
	cfg.SetWorldSize(1000, 800)
	return cfg
}

func TestEngineEndToEnd(t *testing.T) {
	cfg := testConfig(500)
	e := New(cfg)
	if e.Count() != 500 {
		t.Fatalf("initial count = %d, want 500", e.Count())
	}

	centre := r2.Vec{X: 500, Y: 400}
	speed := e.Speed()
	margin := cfg.Integrator.Margin

	for i := 0; i < 300; i++ {
		e.Tick(16, Input{Pointer: &centre})

		snap := e.Snapshot()
		for j, f := range snap.Fish {
			if f.Pos.X < -margin || f.Pos.X > 1000+margin || f.Pos.Y < -margin || f.Pos.Y > 800+margin {
				t.Fatalf("tick %d fish %d at %v outside wrap bounds", i, j, f.Pos)
			}

			sizeCap := cfg.Integrator.MaxSpeed
			if f.Size == components.SizeLarge {
				sizeCap = cfg.Integrator.MaxSpeedLarge
			}
			v := r2.Norm(f.Vel)
			if v > sizeCap*speed*2+1e-9 {
				t.Fatalf("tick %d fish %d speed %v exceeds near-field cap %v", i, j, v, sizeCap*speed*2)
			}
			// Far enough that the pre-move position was outside the near field too
			maxStep := sizeCap * speed * 2 * 16 * cfg.Integrator.PositionScale
			if r2.Norm(r2.Sub(f.Pos, centre)) > cfg.Attractor.NearField+maxStep+1 && v > sizeCap*speed+1e-9 {
				t.Fatalf("tick %d fish %d speed %v exceeds cap %v away from the pointer", i, j, v, sizeCap*speed)
			}
			if math.IsNaN(f.Heading) || math.IsNaN(v) {
				t.Fatalf("tick %d fish %d has NaN state", i, j)
			}
		}
	}

	snap := e.Snapshot()
	var mean r2.Vec
	var meanSpeed float64
	for _, f := range snap.Fish {
		mean = r2.Add(mean, f.Pos)
		meanSpeed += r2.Norm(f.Vel)
	}
	n := float64(len(snap.Fish))
	mean = r2.Scale(1/n, mean)
	meanSpeed /= n

	if mean.X < 0 || mean.X > 1000 || mean.Y < 0 || mean.Y > 800 {
		t.Errorf("mean position %v outside the world", mean)
	}
	globalCap := cfg.Integrator.MaxSpeed * speed * 2
	if meanSpeed <= 0 || meanSpeed >= globalCap {
		t.Errorf("mean speed = %v, want in (0, %v)", meanSpeed, globalCap)
	}
	if snap.Event != nil {
		t.Error("event active with events disabled")
	}
	if snap.Tick != 300 || math.Abs(snap.Elapsed-4800) > 1e-9 {
		t.Errorf("tick/elapsed = %d/%v, want 300/4800", snap.Tick, snap.Elapsed)
	}
}

func TestEngineDeterministic(t *testing.T) {
	a := New(testConfig(300))
	b := New(testConfig(300))

	p := r2.Vec{X: 200, Y: 600}
	for i := 0; i < 60; i++ {
		a.Tick(16, Input{Pointer: &p})
		b.Tick(16, Input{Pointer: &p})
	}

	sa, sb := a.Snapshot(), b.Snapshot()
	if len(sa.Fish) != len(sb.Fish) {
		t.Fatalf("fish counts differ: %d vs %d", len(sa.Fish), len(sb.Fish))
	}
	for i := range sa.Fish {
		if sa.Fish[i] != sb.Fish[i] {
			t.Fatalf("fish %d differs between identically seeded engines", i)
		}
	}
	if sa.Heading != sb.Heading || sa.Centroid != sb.Centroid {
		t.Error("migration state differs between identically seeded engines")
	}
}

func TestEngineSetters(t *testing.T) {
	e := New(testConfig(300))

	tests := []struct {
		name string
		set  func(float64) float64
		in   float64
		want float64
	}{
		{"speed low", e.SetSpeed, 0, config.MinSpeed},
		{"speed high", e.SetSpeed, 100, config.MaxSpeed},
		{"speed NaN", e.SetSpeed, math.NaN(), config.DefaultSpeed},
		{"speed ok", e.SetSpeed, 2, 2},
		{"gain low", e.SetGain, -1, 0},
		{"gain high", e.SetGain, 5, 1},
		{"gain ok", e.SetGain, 0.25, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.set(tt.in); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if got := e.SetTargetCount(50); got != 200 {
		t.Errorf("SetTargetCount(50) = %d, want 200", got)
	}
	if got := e.SetTargetCount(99999); got != 2500 {
		t.Errorf("SetTargetCount(99999) = %d, want 2500", got)
	}
}

func TestEngineTargetConverges(t *testing.T) {
	e := New(testConfig(300))
	e.SetTargetCount(420)

	var spawned int
	for i := 0; i < 5; i++ {
		spawned += e.Tick(16, Input{}).Spawned
	}
	if e.Count() != 420 || spawned != 120 {
		t.Fatalf("count = %d (spawned %d), want 420 (120)", e.Count(), spawned)
	}

	e.SetTargetCount(200)
	var culled int
	for i := 0; i < 20; i++ {
		culled += e.Tick(16, Input{}).Culled
	}
	if e.Count() != 200 || culled != 220 {
		t.Errorf("count = %d (culled %d), want 200 (220)", e.Count(), culled)
	}
	if got := len(e.Snapshot().Fish); got != 200 {
		t.Errorf("snapshot has %d fish, want 200", got)
	}
}

func TestEngineDTClamp(t *testing.T) {
	e := New(testConfig(200))

	e.Tick(5000, Input{})
	if got := e.Elapsed(); got != e.Config().Sim.MaxDTMillis {
		t.Errorf("elapsed after huge dt = %v, want %v", got, e.Config().Sim.MaxDTMillis)
	}
	e.Tick(-10, Input{})
	e.Tick(math.NaN(), Input{})
	if got := e.Elapsed(); got != e.Config().Sim.MaxDTMillis {
		t.Errorf("elapsed after negative/NaN dt = %v, want unchanged %v", got, e.Config().Sim.MaxDTMillis)
	}
}

func TestEngineResize(t *testing.T) {
	e := New(testConfig(400))

	e.Tick(16, Input{Viewport: Viewport{Width: 600, Height: 300}})
	w, h := e.WorldSize()
	if w != 600 || h != 300 {
		t.Fatalf("world = %vx%v, want 600x300", w, h)
	}
	if d := e.Config().Derived; d.GridCols != 6 || d.GridRows != 3 {
		t.Errorf("grid = %dx%d, want 6x3", d.GridCols, d.GridRows)
	}

	// Fish from the larger world wrap into the new bounds within a few ticks
	for i := 0; i < 30; i++ {
		e.Tick(16, Input{})
	}
	m := e.Config().Integrator.Margin
	for i, f := range e.Snapshot().Fish {
		if f.Pos.X < -m || f.Pos.X > 600+m || f.Pos.Y < -m || f.Pos.Y > 300+m {
			t.Fatalf("fish %d at %v outside resized bounds", i, f.Pos)
		}
	}
}

func TestEngineTriggerVortex(t *testing.T) {
	e := New(testConfig(300))
	e.TriggerVortex(r2.Vec{X: 500, Y: 400})

	var sawRising, sawSustained bool
	for i := 0; i < 600; i++ {
		e.Tick(16, Input{})
		snap := e.Snapshot()
		if snap.Event == nil {
			break
		}
		if snap.Event.Intensity < 0 || snap.Event.Intensity > 1 {
			t.Fatalf("intensity %v outside [0,1]", snap.Event.Intensity)
		}
		switch snap.Event.Phase.String() {
		case "rising":
			sawRising = true
		case "sustained":
			sawSustained = true
		}
	}
	if !sawRising || !sawSustained {
		t.Errorf("vortex phases: rising=%v sustained=%v, want both", sawRising, sawSustained)
	}
	if e.Snapshot().Event != nil {
		t.Error("vortex did not expire within its maximum lifetime")
	}
	if e.EventsStarted() != 1 {
		t.Errorf("events started = %d, want 1", e.EventsStarted())
	}
}

type recordingTimer struct {
	phases []string
}

func (r *recordingTimer) StartPhase(p string) { r.phases = append(r.phases, p) }

func TestEnginePhaseTimer(t *testing.T) {
	e := New(testConfig(200))
	rec := &recordingTimer{}
	e.SetTimer(rec)
	e.Tick(16, Input{})

	want := []string{PhaseSpatialGrid, PhaseMigration, PhaseForcesIntegrate, PhasePopulation}
	if len(rec.phases) != len(want) {
		t.Fatalf("phases = %v, want %v", rec.phases, want)
	}
	for i := range want {
		if rec.phases[i] != want[i] {
			t.Errorf("phase %d = %q, want %q", i, rec.phases[i], want[i])
		}
	}
}

func TestEngineNearestAndInspect(t *testing.T) {
	e := New(testConfig(300))
	e.Tick(16, Input{})

	snap := e.Snapshot()
	last := snap.Fish[len(snap.Fish)-1]

	ent, ok := e.Nearest(last.Pos, 0.5)
	if !ok {
		t.Fatal("no fish found at a known position")
	}
	pos, fish, style, ok := e.Inspect(ent)
	if !ok {
		t.Fatal("selected fish not alive")
	}
	if pos != last.Pos || fish.Heading != last.Heading || style != last.Style {
		t.Errorf("inspected fish does not match snapshot: %v vs %v", pos, last.Pos)
	}

	// The search wraps across the world edge
	w, _ := e.WorldSize()
	across := r2.Vec{X: last.Pos.X + w, Y: last.Pos.Y}
	if got, ok := e.Nearest(across, 0.5); !ok || got != ent {
		t.Error("nearest search did not wrap")
	}

	// The most recently spawned fish go first when culling
	e.SetTargetCount(200)
	for e.Count() > 200 {
		e.Tick(16, Input{})
	}
	if _, _, _, ok := e.Inspect(ent); ok {
		t.Error("culled fish still inspectable")
	}
}
