package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/sim"
	"github.com/pthm-cable/shoal/telemetry"
)

// Fixed tick length for tuning runs
const tickMillis = 1000.0 / 60

// Targets are the school shape the tuner steers toward.
type Targets struct {
	Polarization float64 // Mean |mean unit velocity| per window
	SpeedFrac    float64 // Mean speed as a fraction of the normal speed cap
}

// Quality component weights.
const (
	qualityWeightPolarization = 0.45
	qualityWeightSpeed        = 0.35
	qualityWeightStability    = 0.20

	qualityWarmupWindows = 2 // skip first N windows while the school forms
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	ticks       int
	seeds       []int64
	baseConfig  *config.Config
	targets     Targets
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64
	lastWindow  telemetry.WindowStats
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, ticks int, seeds []int64, baseCfg *config.Config, targets Targets) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		ticks:       ticks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		targets:     targets,
		statsWindow: 5.0,
	}
}

// LastQuality returns the mean quality of the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// LastWindow returns the final window of the most recent evaluation's first seed.
func (fe *FitnessEvaluator) LastWindow() telemetry.WindowStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastWindow
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Fitness is the negated mean quality over all seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	qualities := make([]float64, len(fe.seeds))
	windows := make([][]telemetry.WindowStats, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			windows[idx] = fe.runSimulation(cfg, s)
			qualities[idx] = fe.computeQuality(windows[idx])
		}(i, seed)
	}
	wg.Wait()

	quality := stat.Mean(qualities, nil)

	fe.mu.Lock()
	fe.lastQuality = quality
	if len(windows) > 0 && len(windows[0]) > 0 {
		fe.lastWindow = windows[0][len(windows[0])-1]
	}
	fe.mu.Unlock()

	return -quality
}

// runSimulation runs one seeded engine for fe.ticks ticks and returns every
// flushed window. The pointer orbits the world centre so the plume keeps
// pulling the school around.
func (fe *FitnessEvaluator) runSimulation(base *config.Config, seed int64) []telemetry.WindowStats {
	cfg := base.Clone()
	cfg.Sim.Seed = seed
	engine := sim.New(cfg)
	collector := telemetry.NewCollector(fe.statsWindow)

	w, h := engine.WorldSize()
	centre := r2.Vec{X: w * 0.5, Y: h * 0.5}
	orbit := math.Min(w, h) * 0.25

	var snap sim.Snapshot
	var windows []telemetry.WindowStats
	for i := 0; i < fe.ticks; i++ {
		angle := engine.Elapsed() * 0.0002
		pointer := r2.Add(centre, r2.Vec{X: math.Cos(angle) * orbit, Y: math.Sin(angle) * orbit})

		collector.Record(engine.Tick(tickMillis, sim.Input{Pointer: &pointer}))
		if collector.ShouldFlush(engine.Elapsed()) {
			engine.SnapshotInto(&snap)
			windows = append(windows, collector.Flush(&snap))
		}
	}
	return windows
}

// computeQuality scores windows in [0, 1]: closeness to the polarization and
// speed targets, and steadiness of polarization across windows.
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	targetSpeed := fe.targets.SpeedFrac * fe.baseConfig.Integrator.MaxSpeed * fe.baseConfig.Sim.Speed
	var polSum, speedSum float64
	pols := make([]float64, 0, len(valid))
	for _, w := range valid {
		polSum += gaussScore(w.Polarization, fe.targets.Polarization, 0.15)
		if targetSpeed > 0 {
			speedSum += gaussScore(w.SpeedMean, targetSpeed, 0.25*targetSpeed)
		}
		pols = append(pols, w.Polarization)
	}
	n := float64(len(valid))

	stability := 0.0
	if len(pols) >= 2 {
		c := cv(pols)
		stability = math.Exp(-c * c * 4)
	}

	quality := qualityWeightPolarization*polSum/n +
		qualityWeightSpeed*speedSum/n +
		qualityWeightStability*stability
	return clamp01(quality)
}

// gaussScore is 1 at target and falls off with width.
func gaussScore(v, target, width float64) float64 {
	d := (v - target) / width
	return math.Exp(-d * d)
}

// cv computes the coefficient of variation (std/mean).
func cv(values []float64) float64 {
	mean, std := stat.MeanStdDev(values, nil)
	if mean == 0 || math.IsNaN(std) {
		return 0
	}
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
