package telemetry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/sim"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeSpeedStats(t *testing.T) {
	values := []float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2, 0.1}
	mean, std, p10, p50, p90 := ComputeSpeedStats(values)

	checks := []struct {
		name      string
		got, want float64
	}{
		{"mean", mean, 0.55},
		{"std", std, math.Sqrt(0.825 / 9)},
		{"p10", p10, 0.19},
		{"p50", p50, 0.55},
		{"p90", p90, 0.91},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 0.001 {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if values[0] != 1.0 {
		t.Error("input slice was reordered")
	}
}

func TestComputeSpeedStatsSmall(t *testing.T) {
	if mean, std, p10, p50, p90 := ComputeSpeedStats(nil); mean != 0 || std != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("expected all zeros for empty input")
	}
	mean, std, _, p50, _ := ComputeSpeedStats([]float64{2})
	if mean != 2 || std != 0 || p50 != 2 {
		t.Errorf("single value: mean=%v std=%v p50=%v, want 2, 0, 2", mean, std, p50)
	}
}

func TestComputeShape(t *testing.T) {
	aligned := []sim.FishView{
		{Pos: r2.Vec{X: 0, Y: 0}, Vel: r2.Vec{X: 1}},
		{Pos: r2.Vec{X: 10, Y: 0}, Vel: r2.Vec{X: 2}},
		{Pos: r2.Vec{X: 0, Y: 10}, Vel: r2.Vec{X: 0.5}},
		{Pos: r2.Vec{X: 10, Y: 10}, Vel: r2.Vec{X: 3}},
	}
	s := ComputeShape(aligned)
	if math.Abs(s.Polarization-1) > 1e-9 {
		t.Errorf("aligned polarization = %v, want 1", s.Polarization)
	}
	if s.Mean != (r2.Vec{X: 5, Y: 5}) {
		t.Errorf("mean = %v, want (5, 5)", s.Mean)
	}
	if math.Abs(s.Spread-math.Sqrt(50)) > 1e-9 {
		t.Errorf("spread = %v, want %v", s.Spread, math.Sqrt(50))
	}

	opposed := []sim.FishView{
		{Vel: r2.Vec{X: 1}},
		{Vel: r2.Vec{X: -1}},
		{Vel: r2.Vec{}}, // Motionless, ignored
	}
	if p := ComputeShape(opposed).Polarization; math.Abs(p) > 1e-9 {
		t.Errorf("opposed polarization = %v, want 0", p)
	}

	if (ComputeShape(nil) != Shape{}) {
		t.Error("expected zero shape for no fish")
	}
}
