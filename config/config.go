// Package config provides configuration loading for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Sim        SimConfig        `yaml:"sim"`
	Grid       GridConfig       `yaml:"grid"`
	Flocking   FlockingConfig   `yaml:"flocking"`
	Attractor  AttractorConfig  `yaml:"attractor"`
	Migration  MigrationConfig  `yaml:"migration"`
	SubSchools SubSchoolConfig  `yaml:"subschools"`
	Events     EventsConfig     `yaml:"events"`
	Wander     WanderConfig     `yaml:"wander"`
	Integrator IntegratorConfig `yaml:"integrator"`
	Population PopulationConfig `yaml:"population"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds simulation world dimensions.
type WorldConfig struct {
	Width  int `yaml:"width"`  // World width in world units (0 = use screen width)
	Height int `yaml:"height"` // World height in world units (0 = use screen height)
}

// SimConfig holds the externally tunable options of the engine.
type SimConfig struct {
	TargetCount int     `yaml:"target_count"`
	Speed       float64 `yaml:"speed"`     // Global speed multiplier
	Gain        float64 `yaml:"gain"`      // Volume gain, carried for the audio collaborator
	Seed        int64   `yaml:"seed"`      // RNG seed (0 = chosen by caller)
	MaxDTMillis float64 `yaml:"max_dt_ms"` // Upper bound on a single tick's elapsed time
}

// GridConfig holds spatial index parameters.
type GridConfig struct {
	CellSize    float64 `yaml:"cell_size"`
	NeighborCap int     `yaml:"neighbor_cap"` // Neighbors considered per fish per tick
}

// FlockingConfig holds alignment/cohesion/separation weights.
type FlockingConfig struct {
	Radius                float64 `yaml:"radius"`
	Alignment             float64 `yaml:"alignment"`
	Cohesion              float64 `yaml:"cohesion"`
	Separation            float64 `yaml:"separation"`
	SeparationRadius      float64 `yaml:"separation_radius"`
	SeparationRadiusLarge float64 `yaml:"separation_radius_large"`
}

// AttractorConfig holds the pointer "thermal plume" parameters.
type AttractorConfig struct {
	Strength     float64 `yaml:"strength"`
	Falloff      float64 `yaml:"falloff"`       // Exponential decay length
	ExpWeight    float64 `yaml:"exp_weight"`    // Weight of the exponential term
	LinearWeight float64 `yaml:"linear_weight"` // Weight of the linear term
	BoostRadius  float64 `yaml:"boost_radius"`  // Proximity boost applies inside this distance
	BoostDivisor float64 `yaml:"boost_divisor"`
	NearField    float64 `yaml:"near_field"` // Speed cap doubles inside this distance
}

// MigrationConfig holds global heading and school rhythm parameters.
type MigrationConfig struct {
	Strength          float64 `yaml:"strength"`
	DriftScale        float64 `yaml:"drift_scale"`
	RerollChance      float64 `yaml:"reroll_chance"` // Per tick
	TurnRate          float64 `yaml:"turn_rate"`     // Per millisecond
	FlashThreshold    float64 `yaml:"flash_threshold"`
	FlashRise         float64 `yaml:"flash_rise"`  // Per millisecond
	FlashDecay        float64 `yaml:"flash_decay"` // Per reference frame
	BreathSpeed       float64 `yaml:"breath_speed"`
	BreathAmplitude   float64 `yaml:"breath_amplitude"`
	SpeedPhaseRate    float64 `yaml:"speed_phase_rate"`
	SpeedModBase      float64 `yaml:"speed_mod_base"`
	SpeedModAmplitude float64 `yaml:"speed_mod_amplitude"`
	WaveSpeed         float64 `yaml:"wave_speed"`
	WaveFrequency     float64 `yaml:"wave_frequency"`
	WaveAmplitude     float64 `yaml:"wave_amplitude"`
	CentroidSmoothing float64 `yaml:"centroid_smoothing"` // Per reference frame
}

// SubSchoolConfig holds secondary attractor parameters.
type SubSchoolConfig struct {
	Count       int     `yaml:"count"`
	RadiusMin   float64 `yaml:"radius_min"`
	RadiusMax   float64 `yaml:"radius_max"`
	StrengthMin float64 `yaml:"strength_min"`
	StrengthMax float64 `yaml:"strength_max"`
	ForceScale  float64 `yaml:"force_scale"`
}

// EventsConfig holds vortex event parameters.
type EventsConfig struct {
	Enabled       bool    `yaml:"enabled"`
	CooldownMS    float64 `yaml:"cooldown_ms"`
	MinIntervalMS float64 `yaml:"min_interval_ms"`
	RadiusMin     float64 `yaml:"radius_min"`
	RadiusMax     float64 `yaml:"radius_max"`
	LifetimeMinMS float64 `yaml:"lifetime_min_ms"`
	LifetimeMaxMS float64 `yaml:"lifetime_max_ms"`
	RampMS        float64 `yaml:"ramp_ms"`
	Strength      float64 `yaml:"strength"`
	Pull          float64 `yaml:"pull"`
	Swirl         float64 `yaml:"swirl"`
	CoreRadius    float64 `yaml:"core_radius"` // No force inside this distance
}

// WanderConfig holds noise wander and breakout parameters.
type WanderConfig struct {
	Noise          string  `yaml:"noise"` // "value" or "simplex"
	Amplitude      float64 `yaml:"amplitude"`
	PhaseRate      float64 `yaml:"phase_rate"`
	SpatialScale   float64 `yaml:"spatial_scale"`
	TimeScaleX     float64 `yaml:"time_scale_x"`
	TimeScaleY     float64 `yaml:"time_scale_y"`
	CrossAxis      float64 `yaml:"cross_axis"`
	BreakoutChance float64 `yaml:"breakout_chance"` // Per tick
	BreakoutMinMS  float64 `yaml:"breakout_min_ms"`
	BreakoutMaxMS  float64 `yaml:"breakout_max_ms"`
}

// IntegratorConfig holds velocity/position integration parameters.
type IntegratorConfig struct {
	Acceleration  float64 `yaml:"acceleration"`
	PositionScale float64 `yaml:"position_scale"`
	Drag          float64 `yaml:"drag"`
	DragLarge     float64 `yaml:"drag_large"`  // Added to drag for large fish
	DragNormal    float64 `yaml:"drag_normal"` // Added to drag for normal fish
	MaxSpeed      float64 `yaml:"max_speed"`
	MaxSpeedLarge float64 `yaml:"max_speed_large"`
	Margin        float64 `yaml:"margin"` // Wrap margin outside the world edges
}

// PopulationConfig holds population management parameters.
type PopulationConfig struct {
	BatchSize      int     `yaml:"batch_size"`
	MinCount       int     `yaml:"min_count"`
	MaxCount       int     `yaml:"max_count"`
	ColorfulChance float64 `yaml:"colorful_chance"`
	LargeChance    float64 `yaml:"large_chance"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow          float64 `yaml:"stats_window"` // Seconds of simulated time
	HighlightHistorySize int     `yaml:"highlight_history_size"`
	PerfCollectorWindow  int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WorldW   float64 // Effective world width
	WorldH   float64 // Effective world height
	GridCols int
	GridRows int
}

// Setter ranges for the runtime controls.
const (
	MinSpeed = 0.1
	MaxSpeed = 4.0
	MinGain  = 0.0
	MaxGain  = 1.0

	DefaultSpeed       = 0.4
	DefaultGain        = 1.0
	DefaultTargetCount = 1300
)

// Default returns the embedded default configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.Validate()
	cfg.computeDerived()

	return cfg, nil
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate clamps values that would destabilise the integrator.
func (c *Config) Validate() {
	c.Sim.Speed = ClampSpeed(c.Sim.Speed)
	c.Sim.Gain = ClampGain(c.Sim.Gain)
	if c.Sim.MaxDTMillis <= 0 || math.IsNaN(c.Sim.MaxDTMillis) {
		c.Sim.MaxDTMillis = 50
	}
	if c.Population.MinCount <= 0 {
		c.Population.MinCount = 200
	}
	if c.Population.MaxCount < c.Population.MinCount {
		c.Population.MaxCount = c.Population.MinCount
	}
	if c.Population.BatchSize <= 0 {
		c.Population.BatchSize = 25
	}
	c.Sim.TargetCount = c.ClampCount(c.Sim.TargetCount)

	if c.Grid.CellSize <= 0 {
		c.Grid.CellSize = 100
	}
	// Every interaction radius must fit inside one cell for the 3x3 scan.
	if c.Flocking.Radius > c.Grid.CellSize {
		c.Flocking.Radius = c.Grid.CellSize
	}
	if c.Grid.NeighborCap < 0 {
		c.Grid.NeighborCap = 0
	}
	if c.Integrator.Margin < 0 {
		c.Integrator.Margin = 0
	}
	if c.Events.RampMS <= 0 {
		c.Events.RampMS = 1000
	}
	if c.Events.LifetimeMaxMS < c.Events.LifetimeMinMS {
		c.Events.LifetimeMaxMS = c.Events.LifetimeMinMS
	}
}

// ClampSpeed clamps a speed multiplier to [MinSpeed, MaxSpeed]. NaN maps to the default.
func ClampSpeed(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultSpeed
	}
	return math.Max(MinSpeed, math.Min(MaxSpeed, v))
}

// ClampGain clamps a volume gain to [MinGain, MaxGain]. NaN maps to the default.
func ClampGain(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultGain
	}
	return math.Max(MinGain, math.Min(MaxGain, v))
}

// ClampCount clamps a target agent count to the configured population range.
func (c *Config) ClampCount(n int) int {
	if n < c.Population.MinCount {
		return c.Population.MinCount
	}
	if n > c.Population.MaxCount {
		return c.Population.MaxCount
	}
	return n
}

// SetWorldSize overrides the world dimensions and recomputes derived values.
func (c *Config) SetWorldSize(w, h int) {
	c.World.Width = w
	c.World.Height = h
	c.computeDerived()
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	// World dimensions default to screen size if not specified
	worldW := c.World.Width
	if worldW <= 0 {
		worldW = c.Screen.Width
	}
	worldH := c.World.Height
	if worldH <= 0 {
		worldH = c.Screen.Height
	}
	c.Derived.WorldW = float64(worldW)
	c.Derived.WorldH = float64(worldH)
	c.Derived.GridCols, c.Derived.GridRows = GridDims(c.Derived.WorldW, c.Derived.WorldH, c.Grid.CellSize)
}

// GridDims returns ceil(w/cell) x ceil(h/cell), never less than 1x1.
func GridDims(w, h, cell float64) (cols, rows int) {
	cols = int(math.Ceil(w / cell))
	rows = int(math.Ceil(h / cell))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
