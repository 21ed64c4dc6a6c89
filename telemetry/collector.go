// Package telemetry provides school statistics, highlight detection,
// performance timing and CSV output.
package telemetry

import (
	"math"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/sim"
)

// Collector accumulates tick reports within windows of simulated time and
// produces WindowStats.
type Collector struct {
	windowMS float64

	// Current window tracking
	windowStartTick int64
	windowStartMS   float64

	// Event counters for current window
	spawned      int
	culled       int
	breakouts    int
	vortexStarts int

	speeds []float64
}

// NewCollector creates a collector flushing every windowSec simulated seconds.
func NewCollector(windowSec float64) *Collector {
	if !(windowSec > 0) {
		windowSec = 10
	}
	return &Collector{windowMS: windowSec * 1000}
}

// Record adds one tick's report to the current window.
func (c *Collector) Record(rep sim.TickReport) {
	c.spawned += rep.Spawned
	c.culled += rep.Culled
	c.breakouts += rep.Breakouts
	if rep.EventStarted {
		c.vortexStarts++
	}
}

// ShouldFlush returns true once the window has covered its simulated duration.
func (c *Collector) ShouldFlush(elapsedMS float64) bool {
	return elapsedMS-c.windowStartMS >= c.windowMS
}

// Flush produces a WindowStats from the snapshot and resets counters for the
// next window.
func (c *Collector) Flush(snap *sim.Snapshot) WindowStats {
	c.speeds = c.speeds[:0]
	var large, colorful int
	for _, f := range snap.Fish {
		c.speeds = append(c.speeds, math.Hypot(f.Vel.X, f.Vel.Y))
		if f.Size == components.SizeLarge {
			large++
		}
		if f.Style.Colorful {
			colorful++
		}
	}
	mean, std, p10, p50, p90 := ComputeSpeedStats(c.speeds)
	shape := ComputeShape(snap.Fish)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   snap.Tick,
		SimTimeSec:      snap.Elapsed / 1000,

		Population: len(snap.Fish),
		Target:     snap.Target,
		Large:      large,
		Colorful:   colorful,

		Spawned:      c.spawned,
		Culled:       c.culled,
		Breakouts:    c.breakouts,
		VortexStarts: c.vortexStarts,

		SpeedMean: mean,
		SpeedStd:  std,
		SpeedP10:  p10,
		SpeedP50:  p50,
		SpeedP90:  p90,

		Polarization: shape.Polarization,
		CentroidX:    shape.Mean.X,
		CentroidY:    shape.Mean.Y,
		Spread:       shape.Spread,

		Flash:    snap.Flash,
		Heading:  snap.Heading,
		SpeedMod: snap.SpeedMod,
	}
	if snap.Event != nil {
		stats.EventActive = true
		stats.EventIntensity = snap.Event.Intensity
	}

	// Reset for next window
	c.windowStartTick = snap.Tick
	c.windowStartMS = snap.Elapsed
	c.spawned = 0
	c.culled = 0
	c.breakouts = 0
	c.vortexStarts = 0

	return stats
}

// WindowSeconds returns the window length in simulated seconds.
func (c *Collector) WindowSeconds() float64 {
	return c.windowMS / 1000
}
