package telemetry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/sim"
)

func testEngineConfig(count int) *config.Config {
	cfg := config.Default()
	cfg.Sim.Seed = 3
	cfg.Sim.TargetCount = count
	cfg.Events.Enabled = false
	cfg.SetWorldSize(1000, 800)
	return cfg
}

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(1)
	if c.WindowSeconds() != 1 {
		t.Fatalf("window = %v s, want 1", c.WindowSeconds())
	}
	if c.ShouldFlush(999) {
		t.Error("flush requested before the window elapsed")
	}
	if !c.ShouldFlush(1000) {
		t.Error("flush not requested once the window elapsed")
	}

	c.Flush(&sim.Snapshot{Tick: 60, Elapsed: 1000})
	if c.ShouldFlush(1999) || !c.ShouldFlush(2000) {
		t.Error("window did not restart at the flush point")
	}
}

func TestCollectorCountsReset(t *testing.T) {
	c := NewCollector(10)
	c.Record(sim.TickReport{Spawned: 25, Breakouts: 2})
	c.Record(sim.TickReport{Culled: 7, EventStarted: true})
	c.Record(sim.TickReport{Breakouts: 1})

	stats := c.Flush(&sim.Snapshot{Tick: 3, Elapsed: 48})
	if stats.Spawned != 25 || stats.Culled != 7 || stats.Breakouts != 3 || stats.VortexStarts != 1 {
		t.Errorf("counts = %+v", stats)
	}

	stats = c.Flush(&sim.Snapshot{Tick: 4, Elapsed: 64})
	if stats.Spawned != 0 || stats.Culled != 0 || stats.Breakouts != 0 || stats.VortexStarts != 0 {
		t.Errorf("counts not reset: %+v", stats)
	}
	if stats.WindowStartTick != 3 || stats.WindowEndTick != 4 {
		t.Errorf("window = [%d, %d], want [3, 4]", stats.WindowStartTick, stats.WindowEndTick)
	}
}

func TestCollectorFlushSnapshot(t *testing.T) {
	c := NewCollector(10)
	snap := &sim.Snapshot{
		Fish: []sim.FishView{
			{Pos: r2.Vec{X: 100, Y: 100}, Vel: r2.Vec{X: 3, Y: 4}},
			{Pos: r2.Vec{X: 300, Y: 100}, Vel: r2.Vec{X: 6, Y: 8}},
		},
		Flash:    0.4,
		Heading:  1.2,
		SpeedMod: 0.9,
		Event:    &sim.EventView{Intensity: 0.5},
		Target:   1300,
		Tick:     600,
		Elapsed:  9600,
	}
	snap.Fish[1].Style.Colorful = true

	stats := c.Flush(snap)
	if stats.Population != 2 || stats.Target != 1300 || stats.Colorful != 1 {
		t.Errorf("population/target/colorful = %d/%d/%d", stats.Population, stats.Target, stats.Colorful)
	}
	if math.Abs(stats.SpeedMean-7.5) > 1e-9 {
		t.Errorf("speed mean = %v, want 7.5", stats.SpeedMean)
	}
	if math.Abs(stats.Polarization-1) > 1e-9 {
		t.Errorf("polarization = %v, want 1", stats.Polarization)
	}
	if stats.CentroidX != 200 || stats.CentroidY != 100 || stats.Spread != 100 {
		t.Errorf("centroid/spread = (%v, %v)/%v, want (200, 100)/100", stats.CentroidX, stats.CentroidY, stats.Spread)
	}
	if !stats.EventActive || stats.EventIntensity != 0.5 {
		t.Errorf("event = %v/%v, want active at 0.5", stats.EventActive, stats.EventIntensity)
	}
	if stats.SimTimeSec != 9.6 || stats.Flash != 0.4 || stats.SpeedMod != 0.9 {
		t.Errorf("sim_time/flash/speed_mod = %v/%v/%v", stats.SimTimeSec, stats.Flash, stats.SpeedMod)
	}
}

func TestCollectorWithEngine(t *testing.T) {
	e := sim.New(testEngineConfig(300))
	c := NewCollector(0.5)

	var snap sim.Snapshot
	var windows []WindowStats
	for i := 0; i < 100; i++ {
		c.Record(e.Tick(16, sim.Input{}))
		if c.ShouldFlush(e.Elapsed()) {
			e.SnapshotInto(&snap)
			windows = append(windows, c.Flush(&snap))
		}
	}

	// 1600 ms of simulated time in half-second windows
	if len(windows) != 3 {
		t.Fatalf("flushed %d windows, want 3", len(windows))
	}
	for i, w := range windows {
		if w.Population != 300 {
			t.Errorf("window %d population = %d, want 300", i, w.Population)
		}
		if w.Polarization < 0 || w.Polarization > 1+1e-9 {
			t.Errorf("window %d polarization %v outside [0, 1]", i, w.Polarization)
		}
		if w.SpeedP10 > w.SpeedP50 || w.SpeedP50 > w.SpeedP90 {
			t.Errorf("window %d percentiles out of order: %v %v %v", i, w.SpeedP10, w.SpeedP50, w.SpeedP90)
		}
	}
}
