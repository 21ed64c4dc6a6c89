package systems

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/config"
)

func newTestMigration(t *testing.T, seed int64) (*MigrationState, *config.Config, *rand.Rand) {
	t.Helper()
	cfg := config.Default()
	cfg.SetWorldSize(1000, 800)
	rng := rand.New(rand.NewSource(seed))
	return NewMigrationState(cfg, rng), cfg, rng
}

func TestMigrationHeadingNormalized(t *testing.T) {
	m, cfg, rng := newTestMigration(t, 42)
	// Reroll often so the heading sweeps the circle in both directions
	m.cfg.RerollChance = 0.05
	m.cfg.TurnRate = 0.01

	for i := 0; i < 20000; i++ {
		dt := float64(1 + rng.Intn(50))
		m.Update(dt, r2.Vec{X: 500, Y: 400}, true, rng, cfg.Derived.WorldW, cfg.Derived.WorldH)
		if m.Heading < 0 || m.Heading >= twoPi || math.IsNaN(m.Heading) {
			t.Fatalf("step %d: heading %v outside [0, 2π)", i, m.Heading)
		}
		if m.Flash < 0 || m.Flash > 1 {
			t.Fatalf("step %d: flash %v outside [0, 1]", i, m.Flash)
		}
		if m.SpeedMod < 0.7-1e-9 || m.SpeedMod > 1+1e-9 {
			t.Fatalf("step %d: speed modulation %v outside [0.7, 1]", i, m.SpeedMod)
		}
	}
}

func TestMigrationNoOvershoot(t *testing.T) {
	tests := []struct {
		name            string
		heading, target float64
	}{
		{"small positive gap", 1.0, 1.1},
		{"small negative gap", 2.0, 1.85},
		{"across zero", twoPi - 0.1, 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cfg, rng := newTestMigration(t, 1)
			m.cfg.RerollChance = 0
			m.Heading = tt.heading
			m.Target = tt.target

			initial := normalizeAngle(tt.target - tt.heading)
			prevGap := initial
			for i := 0; i < 5000; i++ {
				m.Update(16, r2.Vec{}, false, rng, cfg.Derived.WorldW, cfg.Derived.WorldH)
				gap := normalizeAngle(m.Target - m.Heading)
				if math.Signbit(gap) != math.Signbit(initial) && gap != 0 {
					t.Fatalf("step %d: heading overshot target, gap %v (initial %v)", i, gap, initial)
				}
				if math.Abs(gap) > math.Abs(prevGap)+1e-12 {
					t.Fatalf("step %d: gap grew from %v to %v", i, prevGap, gap)
				}
				prevGap = gap
			}
			if math.Abs(prevGap) >= math.Abs(initial) {
				t.Errorf("heading did not approach target: gap %v, initial %v", prevGap, initial)
			}
		})
	}
}

func TestMigrationFlash(t *testing.T) {
	m, cfg, rng := newTestMigration(t, 5)
	m.cfg.RerollChance = 0
	m.cfg.TurnRate = 0 // hold the gap open
	m.Heading = 0
	m.Target = math.Pi / 2

	for i := 0; i < 100; i++ {
		m.Update(16, r2.Vec{}, false, rng, cfg.Derived.WorldW, cfg.Derived.WorldH)
	}
	if m.Flash != 1 {
		t.Errorf("flash after sustained sharp turn = %v, want 1", m.Flash)
	}
	if !m.Turning() {
		t.Error("Turning() = false with a quarter-turn gap")
	}

	// Close the gap and let it decay
	m.Target = m.Heading
	for i := 0; i < 300; i++ {
		m.Update(16, r2.Vec{}, false, rng, cfg.Derived.WorldW, cfg.Derived.WorldH)
	}
	if m.Flash > 0.01 {
		t.Errorf("flash after settling = %v, want near 0", m.Flash)
	}
}

func TestMigrationCentroidSmoothing(t *testing.T) {
	m, cfg, rng := newTestMigration(t, 9)
	mean := r2.Vec{X: 100, Y: 700}

	start := r2.Norm(r2.Sub(mean, m.Centroid))
	m.Update(16, mean, true, rng, cfg.Derived.WorldW, cfg.Derived.WorldH)
	after := r2.Norm(r2.Sub(mean, m.Centroid))
	if after >= start {
		t.Fatalf("centroid did not move toward the mean: %v -> %v", start, after)
	}
	// Low-pass: a single tick only covers a small fraction of the gap
	if after < start*0.9 {
		t.Errorf("centroid moved too far in one tick: %v -> %v", start, after)
	}

	for i := 0; i < 2000; i++ {
		m.Update(16, mean, true, rng, cfg.Derived.WorldW, cfg.Derived.WorldH)
	}
	if d := r2.Norm(r2.Sub(mean, m.Centroid)); d > 1 {
		t.Errorf("centroid %v did not converge to %v (distance %v)", m.Centroid, mean, d)
	}

	// No fish: centroid holds
	held := m.Centroid
	m.Update(16, r2.Vec{}, false, rng, cfg.Derived.WorldW, cfg.Derived.WorldH)
	if m.Centroid != held {
		t.Errorf("centroid moved with no fish: %v -> %v", held, m.Centroid)
	}
}

func TestSubSchoolsStayInWorld(t *testing.T) {
	m, cfg, rng := newTestMigration(t, 11)
	if len(m.SubSchools) != cfg.SubSchools.Count {
		t.Fatalf("sub-schools = %d, want %d", len(m.SubSchools), cfg.SubSchools.Count)
	}
	for _, s := range m.SubSchools {
		if s.Pos.X < 200 || s.Pos.X > 800 || s.Pos.Y < 160 || s.Pos.Y > 640 {
			t.Errorf("sub-school spawned outside the central region: %v", s.Pos)
		}
	}

	for i := 0; i < 10000; i++ {
		m.Update(16, r2.Vec{X: 500, Y: 400}, true, rng, cfg.Derived.WorldW, cfg.Derived.WorldH)
	}
	for i, s := range m.SubSchools {
		if s.Pos.X < 0 || s.Pos.X >= 1000 || s.Pos.Y < 0 || s.Pos.Y >= 800 {
			t.Errorf("sub-school %d left the world: %v", i, s.Pos)
		}
		if s.Radius <= 0 {
			t.Errorf("sub-school %d radius %v, want positive", i, s.Radius)
		}
	}
}

func TestMigrationForce(t *testing.T) {
	m, _, _ := newTestMigration(t, 13)
	m.SubSchools = nil
	m.Heading = 0
	m.Breath = 0
	m.WaveTime = 0
	m.Centroid = r2.Vec{X: 500, Y: 400}

	// At the centroid only the drift remains (wave sin(0) = 0, breath sin(0) = 0)
	f := m.Force(r2.Vec{X: 500, Y: 400})
	want := m.cfg.Strength * m.cfg.DriftScale
	if math.Abs(f.X-want) > 1e-12 || math.Abs(f.Y) > 1e-12 {
		t.Errorf("force at centroid = %v, want (%v, 0)", f, want)
	}

	// A sub-school adds a pull toward its centre
	m.SubSchools = []SubSchool{{Pos: r2.Vec{X: 600, Y: 400}, Radius: 200, Strength: 0.5}}
	g := m.Force(r2.Vec{X: 500, Y: 400})
	if g.X <= f.X {
		t.Errorf("sub-school did not pull toward its centre: %v vs %v", g, f)
	}

	// Only the first containing sub-school applies
	m.SubSchools = append(m.SubSchools, SubSchool{Pos: r2.Vec{X: 600, Y: 400}, Radius: 200, Strength: 0.5})
	h := m.Force(r2.Vec{X: 500, Y: 400})
	if math.Abs(h.X-g.X) > 1e-12 || math.Abs(h.Y-g.Y) > 1e-12 {
		t.Errorf("second sub-school contributed: %v vs %v", h, g)
	}
}
