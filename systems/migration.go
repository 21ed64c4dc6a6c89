package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/config"
)

// SubSchool is a drifting secondary attractor that gathers a splinter group.
type SubSchool struct {
	Pos      r2.Vec
	Vel      r2.Vec
	Radius   float64
	Strength float64
	Phase    float64
}

// MigrationState holds the school-wide rhythm: a slowly turning heading,
// breathing and surge phases, the smoothed flock centroid, and sub-schools.
type MigrationState struct {
	cfg config.MigrationConfig
	sub config.SubSchoolConfig

	Heading    float64 // [0, 2*Pi)
	Target     float64 // [0, 2*Pi)
	Gap        float64 // Wrapped target - heading from the last update
	Flash      float64 // [0, 1], rises while turning sharply
	Centroid   r2.Vec
	Breath     float64
	SpeedPhase float64
	SpeedMod   float64
	WaveTime   float64

	SubSchools []SubSchool
}

// NewMigrationState creates migration state with random headings and a fresh set of sub-schools.
func NewMigrationState(cfg *config.Config, rng *rand.Rand) *MigrationState {
	m := &MigrationState{
		cfg:     cfg.Migration,
		sub:     cfg.SubSchools,
		Heading: rng.Float64() * twoPi,
		Target:  rng.Float64() * twoPi,
	}
	m.SpeedMod = m.speedMod()
	m.Reset(rng, cfg.Derived.WorldW, cfg.Derived.WorldH)
	return m
}

// Reset recentres the centroid and respawns sub-schools for a world size.
func (m *MigrationState) Reset(rng *rand.Rand, worldW, worldH float64) {
	m.Centroid = r2.Vec{X: worldW * 0.5, Y: worldH * 0.5}
	m.SubSchools = m.SubSchools[:0]
	for i := 0; i < m.sub.Count; i++ {
		m.SubSchools = append(m.SubSchools, SubSchool{
			Pos: r2.Vec{
				X: randRange(rng, worldW*0.2, worldW*0.8),
				Y: randRange(rng, worldH*0.2, worldH*0.8),
			},
			Vel: r2.Vec{
				X: randRange(rng, -0.3, 0.3),
				Y: randRange(rng, -0.3, 0.3),
			},
			Radius:   randRange(rng, m.sub.RadiusMin, m.sub.RadiusMax),
			Strength: randRange(rng, m.sub.StrengthMin, m.sub.StrengthMax),
			Phase:    rng.Float64() * twoPi,
		})
	}
}

// Update advances the migration by dt milliseconds.
// mean is the live mean fish position; it is ignored when hasFish is false.
func (m *MigrationState) Update(dt float64, mean r2.Vec, hasFish bool, rng *rand.Rand, worldW, worldH float64) {
	if rng.Float64() < m.cfg.RerollChance {
		m.Target = rng.Float64() * twoPi
	}

	// Exponential approach along the shortest arc
	m.Gap = normalizeAngle(m.Target - m.Heading)
	step := 1 - math.Exp(-m.cfg.TurnRate*dt)
	m.Heading = normalizeHeading(m.Heading + m.Gap*step)

	if math.Abs(m.Gap) > m.cfg.FlashThreshold {
		m.Flash = math.Min(1, m.Flash+dt*m.cfg.FlashRise)
	} else {
		m.Flash *= frameScaled(m.cfg.FlashDecay, dt)
	}
	m.Flash = clamp01(m.Flash)

	m.Breath += m.cfg.BreathSpeed * dt
	m.SpeedPhase += m.cfg.SpeedPhaseRate * dt
	m.SpeedMod = m.speedMod()
	m.WaveTime += m.cfg.WaveSpeed * dt

	if hasFish && finite(mean.X) && finite(mean.Y) {
		k := 1 - frameScaled(1-m.cfg.CentroidSmoothing, dt)
		m.Centroid = r2.Add(m.Centroid, r2.Scale(k, r2.Sub(mean, m.Centroid)))
	}

	m.updateSubSchools(dt, rng, worldW, worldH)
}

func (m *MigrationState) updateSubSchools(dt float64, rng *rand.Rand, worldW, worldH float64) {
	hu := m.HeadingUnit()
	for i := range m.SubSchools {
		s := &m.SubSchools[i]
		s.Phase += dt * 0.001
		s.Vel.X = (s.Vel.X + (rng.Float64()-0.5)*0.02 + hu.X*0.01) * 0.99
		s.Vel.Y = (s.Vel.Y + (rng.Float64()-0.5)*0.02 + hu.Y*0.01) * 0.99
		s.Pos = r2.Add(s.Pos, r2.Scale(dt*0.05, s.Vel))
		if worldW > 0 && worldH > 0 {
			s.Pos.X = mod(s.Pos.X, worldW)
			s.Pos.Y = mod(s.Pos.Y, worldH)
		}
		s.Radius = (180 + 80*math.Sin(s.Phase)) * (0.8 + 0.4*math.Sin(m.Breath+s.Phase))
	}
}

// HeadingUnit returns the unit vector along the current heading.
func (m *MigrationState) HeadingUnit() r2.Vec {
	return r2.Vec{X: math.Cos(m.Heading), Y: math.Sin(m.Heading)}
}

// Force returns the migration contribution for a fish at p: heading drift,
// a travelling wave across the heading, breathing toward or away from the
// centroid, and the pull of the first sub-school containing p.
func (m *MigrationState) Force(p r2.Vec) r2.Vec {
	hu := m.HeadingUnit()
	f := r2.Scale(m.cfg.Strength*m.cfg.DriftScale, hu)

	// Wave runs perpendicular to the heading
	dO := r2.Norm(r2.Sub(p, m.Centroid))
	wave := math.Sin(dO*m.cfg.WaveFrequency-m.WaveTime) * m.cfg.WaveAmplitude
	f = r2.Add(f, r2.Scale(wave, r2.Vec{X: -hu.Y, Y: hu.X}))

	toC := r2.Sub(m.Centroid, p)
	dC := r2.Norm(toC) + 1
	breath := math.Sin(m.Breath) * m.cfg.BreathAmplitude
	f = r2.Sub(f, r2.Scale(breath/dC, toC))

	for i := range m.SubSchools {
		s := &m.SubSchools[i]
		toS := r2.Sub(s.Pos, p)
		d := r2.Norm(toS)
		if d < s.Radius {
			pw := (1 - d/s.Radius) * s.Strength * m.sub.ForceScale
			f = r2.Add(f, r2.Scale(pw/(d+1), toS))
			break
		}
	}
	return f
}

// Turning reports whether the heading is still far from its target.
func (m *MigrationState) Turning() bool {
	return math.Abs(m.Gap) > m.cfg.FlashThreshold
}

func (m *MigrationState) speedMod() float64 {
	return m.cfg.SpeedModBase + m.cfg.SpeedModAmplitude*math.Sin(m.SpeedPhase)
}
