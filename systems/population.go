package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
)

// hueFamily is a base hue with its saturation range in percent.
type hueFamily struct {
	hue            float64
	satMin, satMax float64
}

var (
	silverFamilies = []hueFamily{
		{200, 5, 18},
		{210, 8, 22},
		{190, 6, 16},
	}
	colorfulFamilies = []hueFamily{
		{35, 40, 65},
		{15, 45, 70},
	}
)

// PopulationController grows or shrinks the live fish set toward a target
// in capped batches.
type PopulationController struct {
	cfg    config.PopulationConfig
	world  *ecs.World
	mapper *ecs.Map4[components.Position, components.Velocity, components.Fish, components.Style]
	rng    *rand.Rand

	live   []ecs.Entity // Spawn order; culled from the tail
	target int

	spawned int
	culled  int
}

// NewPopulationController creates an empty controller targeting the configured count.
func NewPopulationController(w *ecs.World, cfg *config.Config, rng *rand.Rand) *PopulationController {
	return &PopulationController{
		cfg:    cfg.Population,
		world:  w,
		mapper: ecs.NewMap4[components.Position, components.Velocity, components.Fish, components.Style](w),
		rng:    rng,
		live:   make([]ecs.Entity, 0, cfg.Population.MaxCount),
		target: cfg.Sim.TargetCount,
	}
}

// SetTarget clamps and stores the desired fish count, returning the stored value.
func (p *PopulationController) SetTarget(n int) int {
	switch {
	case n < p.cfg.MinCount:
		n = p.cfg.MinCount
	case n > p.cfg.MaxCount:
		n = p.cfg.MaxCount
	}
	p.target = n
	return n
}

// Target returns the desired fish count.
func (p *PopulationController) Target() int { return p.target }

// Count returns the live fish count.
func (p *PopulationController) Count() int { return len(p.live) }

// Entities returns the live fish. The slice is owned by the controller and
// must not be retained across ticks.
func (p *PopulationController) Entities() []ecs.Entity { return p.live }

// Totals returns how many fish have been spawned and culled since creation.
func (p *PopulationController) Totals() (spawned, culled int) { return p.spawned, p.culled }

// Step moves the population at most one batch toward the target and returns
// the signed change.
func (p *PopulationController) Step(worldW, worldH float64) int {
	n := len(p.live)
	switch {
	case n < p.target:
		return p.Spawn(min(p.cfg.BatchSize, p.target-n), worldW, worldH)
	case n > p.target:
		return -p.Cull(min(p.cfg.BatchSize, n-p.target))
	}
	return 0
}

// Fill spawns straight up to the target and returns how many were added.
func (p *PopulationController) Fill(worldW, worldH float64) int {
	if n := len(p.live); n < p.target {
		return p.Spawn(p.target-n, worldW, worldH)
	}
	return 0
}

// Spawn adds n fish uniformly across the world.
func (p *PopulationController) Spawn(n int, worldW, worldH float64) int {
	for i := 0; i < n; i++ {
		pos, vel, fish, style := RollFish(p.rng, p.cfg, worldW, worldH)
		e := p.mapper.NewEntity(&pos, &vel, &fish, &style)
		p.live = append(p.live, e)
	}
	p.spawned += n
	return n
}

// Cull removes up to n of the most recently spawned fish and returns how many were removed.
func (p *PopulationController) Cull(n int) int {
	n = min(n, len(p.live))
	if n <= 0 {
		return 0
	}
	tail := p.live[len(p.live)-n:]
	for _, e := range tail {
		p.world.RemoveEntity(e)
	}
	p.live = p.live[:len(p.live)-n]
	p.culled += n
	return n
}

// RollFish draws the kinematics and one-time style of a new fish.
func RollFish(rng *rand.Rand, cfg config.PopulationConfig, worldW, worldH float64) (components.Position, components.Velocity, components.Fish, components.Style) {
	// One roll decides both: colorful fish are never large
	roll := rng.Float64()
	colorful := roll < cfg.ColorfulChance
	large := !colorful && roll < cfg.ColorfulChance+cfg.LargeChance

	families := silverFamilies
	if colorful {
		families = colorfulFamilies
	}
	fam := families[rng.Intn(len(families))]

	pos := components.Position{X: rng.Float64() * worldW, Y: rng.Float64() * worldH}
	vel := components.Velocity{X: randRange(rng, -1, 1), Y: randRange(rng, -1, 1)}

	fish := components.Fish{
		Size:      components.SizeNormal,
		BodySize:  randRange(rng, 3.5, 5.5),
		Smoothing: randRange(rng, 0.03, 0.08),
		Wander:    randRange(rng, 0.7, 1.3),
		Phase:     randRange(rng, 0, 1000),
		HueSeed:   rng.Float64(),
	}
	if large {
		fish.Size = components.SizeLarge
		fish.BodySize = randRange(rng, 5.2, 8.2)
	}

	style := components.Style{
		Colorful:      colorful,
		BaseHue:       fam.hue + randRange(rng, -8, 8),
		SatMin:        fam.satMin,
		SatMax:        fam.satMax,
		BodyPhase:     rng.Float64() * twoPi,
		BodyWaveSpeed: randRange(rng, 0.008, 0.015),
		ScaleShimmer:  randRange(rng, 0.8, 1.2),
		BodyTone:      randRange(rng, -5, 5),
	}
	rollDepth(rng, &style)

	return pos, vel, fish, style
}

// rollDepth assigns 15% foreground, 70% midground, 15% background.
func rollDepth(rng *rand.Rand, s *components.Style) {
	r := rng.Float64()
	switch {
	case r < 0.15:
		s.Layer = components.LayerForeground
		s.DepthScale = randRange(rng, 1.15, 1.35)
		s.DepthAlpha = 1
	case r < 0.85:
		s.Layer = components.LayerMidground
		s.DepthScale = randRange(rng, 0.9, 1.1)
		s.DepthAlpha = randRange(rng, 0.85, 1)
	default:
		s.Layer = components.LayerBackground
		s.DepthScale = randRange(rng, 0.6, 0.8)
		s.DepthAlpha = randRange(rng, 0.4, 0.65)
	}
}
