package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
)

func newTestPopulation(t *testing.T, target int) (*PopulationController, *ecs.World) {
	t.Helper()
	cfg := config.Default()
	cfg.Sim.TargetCount = target
	w := ecs.NewWorld()
	return NewPopulationController(w, cfg, rand.New(rand.NewSource(17))), w
}

func TestPopulationConvergesFromZero(t *testing.T) {
	for _, target := range []int{200, 537, 1300, 2500} {
		p, _ := newTestPopulation(t, 0)
		p.SetTarget(target)
		batch := config.Default().Population.BatchSize
		limit := int(math.Ceil(float64(target) / float64(batch)))

		ticks := 0
		for p.Count() != target {
			if ticks >= limit {
				t.Fatalf("target %d: count %d after %d ticks, want reached within %d", target, p.Count(), ticks, limit)
			}
			if delta := p.Step(1000, 800); delta <= 0 || delta > batch {
				t.Fatalf("target %d: step delta %d, want in (0, %d]", target, delta, batch)
			}
			if p.Count() > target {
				t.Fatalf("target %d: overshot to %d", target, p.Count())
			}
			ticks++
		}

		// Holds steady once reached
		if delta := p.Step(1000, 800); delta != 0 {
			t.Errorf("target %d: step at target changed count by %d", target, delta)
		}
	}
}

func TestPopulationShrinks(t *testing.T) {
	p, w := newTestPopulation(t, 1000)
	p.Fill(1000, 800)
	if p.Count() != 1000 {
		t.Fatalf("Fill: count = %d, want 1000", p.Count())
	}

	survivors := append([]ecs.Entity(nil), p.Entities()[:400]...)
	p.SetTarget(400)
	for i := 0; i < 100 && p.Count() > 400; i++ {
		if delta := p.Step(1000, 800); delta < -25 || delta >= 0 {
			t.Fatalf("shrink step delta %d, want in [-25, 0)", delta)
		}
	}
	if p.Count() != 400 {
		t.Fatalf("count = %d, want 400", p.Count())
	}

	// Culling takes from the tail and leaves the rest in order
	for i, e := range p.Entities() {
		if e != survivors[i] {
			t.Fatalf("entity %d reordered by cull", i)
		}
		if !w.Alive(e) {
			t.Fatalf("surviving entity %d is not alive", i)
		}
	}

	spawned, culled := p.Totals()
	if spawned != 1000 || culled != 600 {
		t.Errorf("totals = %d spawned, %d culled, want 1000, 600", spawned, culled)
	}
}

func TestPopulationChurnFreesEntities(t *testing.T) {
	p, w := newTestPopulation(t, 200)
	p.Fill(1000, 800)
	first := append([]ecs.Entity(nil), p.Entities()...)

	for cycle := 0; cycle < 5; cycle++ {
		p.SetTarget(2500)
		for p.Count() < 2500 {
			p.Step(1000, 800)
		}
		culledEnt := p.Entities()[p.Count()-1]
		p.SetTarget(200)
		for p.Count() > 200 {
			p.Step(1000, 800)
		}
		if w.Alive(culledEnt) {
			t.Fatalf("cycle %d: culled entity still alive", cycle)
		}
	}

	q := ecs.NewFilter0(w).Query()
	got := q.Count()
	q.Close()
	if got != p.Count() {
		t.Errorf("world holds %d entities, want %d live fish", got, p.Count())
	}
	for i, e := range p.Entities() {
		if e != first[i] {
			t.Fatalf("entity %d changed across churn", i)
		}
	}
}

func TestPopulationSetTargetClamps(t *testing.T) {
	p, _ := newTestPopulation(t, 1300)

	tests := []struct {
		in, want int
	}{
		{-5, 200},
		{0, 200},
		{199, 200},
		{1300, 1300},
		{2501, 2500},
		{1 << 30, 2500},
	}
	for _, tt := range tests {
		if got := p.SetTarget(tt.in); got != tt.want || p.Target() != tt.want {
			t.Errorf("SetTarget(%d) = %d (Target %d), want %d", tt.in, got, p.Target(), tt.want)
		}
	}
}

func TestCullMoreThanLive(t *testing.T) {
	p, _ := newTestPopulation(t, 200)
	p.Spawn(10, 1000, 800)
	if got := p.Cull(50); got != 10 {
		t.Errorf("Cull(50) with 10 live = %d, want 10", got)
	}
	if p.Count() != 0 {
		t.Errorf("count = %d, want 0", p.Count())
	}
	if got := p.Cull(1); got != 0 {
		t.Errorf("Cull on empty = %d, want 0", got)
	}
}

func TestRollFishDistribution(t *testing.T) {
	cfg := config.Default().Population
	rng := rand.New(rand.NewSource(99))

	const n = 20000
	var colorful, large int
	layers := map[components.DepthLayer]int{}
	for i := 0; i < n; i++ {
		pos, vel, fish, style := RollFish(rng, cfg, 1000, 800)

		if pos.X < 0 || pos.X >= 1000 || pos.Y < 0 || pos.Y >= 800 {
			t.Fatalf("spawn position %+v outside world", pos)
		}
		if math.Abs(vel.X) > 1 || math.Abs(vel.Y) > 1 {
			t.Fatalf("spawn velocity %+v outside [-1, 1]", vel)
		}
		if style.Colorful && fish.Large() {
			t.Fatal("fish rolled both colorful and large")
		}
		if fish.Large() {
			large++
			if fish.BodySize < 5.2 || fish.BodySize >= 8.2 {
				t.Fatalf("large body size %v outside [5.2, 8.2)", fish.BodySize)
			}
		} else if fish.BodySize < 3.5 || fish.BodySize >= 5.5 {
			t.Fatalf("normal body size %v outside [3.5, 5.5)", fish.BodySize)
		}
		if style.Colorful {
			colorful++
		}
		layers[style.Layer]++
	}

	within := func(name string, got int, want float64) {
		frac := float64(got) / n
		if math.Abs(frac-want) > 0.015 {
			t.Errorf("%s fraction = %.3f, want ≈ %.2f", name, frac, want)
		}
	}
	within("colorful", colorful, 0.05)
	within("large", large, 0.07)
	within("foreground", layers[components.LayerForeground], 0.15)
	within("midground", layers[components.LayerMidground], 0.70)
	within("background", layers[components.LayerBackground], 0.15)
}
