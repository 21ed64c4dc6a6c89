package systems

import (
	"math"
	"testing"
)

func TestNoiseRange(t *testing.T) {
	fields := []struct {
		name  string
		field NoiseField
	}{
		{"value", ValueNoise{}},
		{"simplex", NewSimplexField(7)},
	}
	for _, tt := range fields {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 2000; i++ {
				x := float64(i)*0.173 - 150
				y := float64(i)*0.091 + 40
				if v := tt.field.Noise2D(x, y); v < 0 || v >= 1 {
					t.Fatalf("Noise2D(%v, %v) = %v, want [0, 1)", x, y, v)
				}
				// Amplitudes 0.5+0.25+0.125+0.0625
				if f := tt.field.FBM(x, y); f < 0 || f >= 0.9375 {
					t.Fatalf("FBM(%v, %v) = %v, want [0, 0.9375)", x, y, f)
				}
			}
		})
	}
}

func TestValueNoiseLattice(t *testing.T) {
	var n ValueNoise
	for _, p := range [][2]float64{{0, 0}, {3, -2}, {-7, 11}} {
		got := n.Noise2D(p[0], p[1])
		want := hash2(p[0], p[1])
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("Noise2D(%v, %v) = %v, want lattice hash %v", p[0], p[1], got, want)
		}
	}
}

func TestValueNoiseContinuous(t *testing.T) {
	var n ValueNoise
	prev := n.Noise2D(0, 0.5)
	for i := 1; i <= 1000; i++ {
		v := n.Noise2D(float64(i)*0.001, 0.5)
		if math.Abs(v-prev) > 0.01 {
			t.Fatalf("jump of %v at step %d", math.Abs(v-prev), i)
		}
		prev = v
	}
}

func TestSimplexSeeded(t *testing.T) {
	a := NewSimplexField(3)
	b := NewSimplexField(3)
	c := NewSimplexField(4)

	differs := false
	for i := 0; i < 50; i++ {
		x, y := float64(i)*0.37, float64(i)*0.11
		if a.Noise2D(x, y) != b.Noise2D(x, y) {
			t.Fatalf("same seed gave different values at (%v, %v)", x, y)
		}
		if a.Noise2D(x, y) != c.Noise2D(x, y) {
			differs = true
		}
	}
	if !differs {
		t.Error("different seeds gave identical fields")
	}
}

func TestNewNoiseFieldKind(t *testing.T) {
	if _, ok := NewNoiseField("simplex", 1).(*SimplexField); !ok {
		t.Error("simplex kind did not return a SimplexField")
	}
	if _, ok := NewNoiseField("unknown", 1).(ValueNoise); !ok {
		t.Error("unknown kind did not fall back to ValueNoise")
	}
}
