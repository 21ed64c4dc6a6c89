package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/telemetry"
)

func TestApplyExtractOrder(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	want := []float64{0.5, 0.0003, 1.1, 6, 0.2}
	pv.ApplyToConfig(cfg, want)
	got := pv.ExtractFromConfig(cfg)

	for i, spec := range pv.Specs {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("%s = %v, want %v", spec.Name, got[i], want[i])
		}
	}
}

func TestApplyClamps(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	pv.ApplyToConfig(cfg, []float64{-1, 1, 100, 0, 0.3})
	if cfg.Flocking.Alignment != pv.Specs[0].Min {
		t.Errorf("alignment = %v, want min %v", cfg.Flocking.Alignment, pv.Specs[0].Min)
	}
	if cfg.Flocking.Cohesion != pv.Specs[1].Max {
		t.Errorf("cohesion = %v, want max %v", cfg.Flocking.Cohesion, pv.Specs[1].Max)
	}
	if cfg.Flocking.Separation != pv.Specs[2].Max {
		t.Errorf("separation = %v, want max %v", cfg.Flocking.Separation, pv.Specs[2].Max)
	}
}

func TestDefaultsMatchConfig(t *testing.T) {
	pv := NewParamVector()
	got := pv.ExtractFromConfig(config.Default())
	for i, spec := range pv.Specs {
		if math.Abs(got[i]-spec.Default) > 1e-12 {
			t.Errorf("%s default %v differs from config %v", spec.Name, spec.Default, got[i])
		}
	}
}

func TestComputeQuality(t *testing.T) {
	cfg := config.Default()
	targets := Targets{Polarization: 0.6, SpeedFrac: 0.5}
	fe := NewFitnessEvaluator(NewParamVector(), 0, nil, cfg, targets)
	targetSpeed := targets.SpeedFrac * cfg.Integrator.MaxSpeed * cfg.Sim.Speed

	windows := func(n int, pol, speed float64) []telemetry.WindowStats {
		out := make([]telemetry.WindowStats, n)
		for i := range out {
			out[i] = telemetry.WindowStats{Polarization: pol, SpeedMean: speed}
		}
		return out
	}

	tests := []struct {
		name    string
		windows []telemetry.WindowStats
		min     float64
		max     float64
	}{
		{"warmup only", windows(qualityWarmupWindows, 0.6, targetSpeed), 0, 0},
		{"on target", windows(6, 0.6, targetSpeed), 0.99, 1},
		{"disordered and still", windows(6, 0, 0), 0, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := fe.computeQuality(tt.windows)
			if q < tt.min || q > tt.max {
				t.Errorf("quality = %v, want in [%v, %v]", q, tt.min, tt.max)
			}
		})
	}
}

func TestEvaluateShortRun(t *testing.T) {
	cfg := config.Default()
	cfg.Sim.TargetCount = 200
	cfg.Events.Enabled = false
	cfg.SetWorldSize(800, 600)

	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 60*20, []int64{1, 2}, cfg, Targets{Polarization: 0.6, SpeedFrac: 0.5})
	fe.statsWindow = 2

	fitness := fe.Evaluate(pv.DefaultVector())
	if fitness > 0 || fitness < -1 {
		t.Errorf("fitness = %v, want in [-1, 0]", fitness)
	}
	if fe.LastWindow().Population != 200 {
		t.Errorf("last window population = %d, want 200", fe.LastWindow().Population)
	}
}
