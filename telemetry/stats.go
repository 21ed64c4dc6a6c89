package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/shoal/sim"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Population int `csv:"population"`
	Target     int `csv:"target"`
	Large      int `csv:"large"`
	Colorful   int `csv:"colorful"`

	// Events during window
	Spawned      int `csv:"spawned"`
	Culled       int `csv:"culled"`
	Breakouts    int `csv:"breakouts"`
	VortexStarts int `csv:"vortex_starts"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// School shape
	Polarization float64 `csv:"polarization"` // |mean unit velocity|, 1 = all aligned
	CentroidX    float64 `csv:"centroid_x"`
	CentroidY    float64 `csv:"centroid_y"`
	Spread       float64 `csv:"spread"` // RMS distance from the mean position

	// Migration
	Flash    float64 `csv:"flash"`
	Heading  float64 `csv:"heading"`
	SpeedMod float64 `csv:"speed_mod"`

	EventActive    bool    `csv:"event_active"`
	EventIntensity float64 `csv:"event_intensity"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSpeedStats calculates mean, sample standard deviation and percentiles.
// The input is not modified.
func ComputeSpeedStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n == 1 {
		mean = sorted[0]
	} else {
		mean, std = stat.MeanStdDev(sorted, nil)
	}

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// Shape summarises how ordered and how compact the school is.
type Shape struct {
	Polarization float64
	Mean         r2.Vec
	Spread       float64
}

// ComputeShape measures polarization and spread over the given fish.
// Motionless fish do not count toward polarization.
func ComputeShape(fish []sim.FishView) Shape {
	if len(fish) == 0 {
		return Shape{}
	}

	var mean, heading r2.Vec
	moving := 0
	for _, f := range fish {
		mean = r2.Add(mean, f.Pos)
		if s := r2.Norm(f.Vel); s > 1e-9 {
			heading = r2.Add(heading, r2.Scale(1/s, f.Vel))
			moving++
		}
	}
	n := float64(len(fish))
	mean = r2.Scale(1/n, mean)

	var sq float64
	for _, f := range fish {
		d := r2.Sub(f.Pos, mean)
		sq += d.X*d.X + d.Y*d.Y
	}

	var pol float64
	if moving > 0 {
		pol = r2.Norm(heading) / float64(moving)
	}
	return Shape{Polarization: pol, Mean: mean, Spread: math.Sqrt(sq / n)}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("population", s.Population),
		slog.Int("target", s.Target),
		slog.Int("large", s.Large),
		slog.Int("colorful", s.Colorful),
		slog.Int("spawned", s.Spawned),
		slog.Int("culled", s.Culled),
		slog.Int("breakouts", s.Breakouts),
		slog.Int("vortex_starts", s.VortexStarts),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("polarization", s.Polarization),
		slog.Float64("centroid_x", s.CentroidX),
		slog.Float64("centroid_y", s.CentroidY),
		slog.Float64("spread", s.Spread),
		slog.Float64("flash", s.Flash),
		slog.Float64("heading", s.Heading),
		slog.Float64("speed_mod", s.SpeedMod),
		slog.Bool("event_active", s.EventActive),
		slog.Float64("event_intensity", s.EventIntensity),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"population", s.Population,
		"target", s.Target,
		"spawned", s.Spawned,
		"culled", s.Culled,
		"breakouts", s.Breakouts,
		"vortex_starts", s.VortexStarts,
		"speed_mean", s.SpeedMean,
		"speed_p50", s.SpeedP50,
		"polarization", s.Polarization,
		"spread", s.Spread,
		"flash", s.Flash,
		"speed_mod", s.SpeedMod,
		"event_active", s.EventActive,
	)
}
