package main

import (
	"github.com/pthm-cable/shoal/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of tunable flocking parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the flocking weights searched by the tuner.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "alignment", Path: "flocking.alignment", Min: 0.05, Max: 1.0, Default: 0.35},
			{Name: "cohesion", Path: "flocking.cohesion", Min: 0.00002, Max: 0.0006, Default: 0.000135},
			{Name: "separation", Path: "flocking.separation", Min: 0.2, Max: 2.0, Default: 0.95},
			{Name: "plume_strength", Path: "attractor.strength", Min: 1.0, Max: 10.0, Default: 4.5},
			{Name: "migration_strength", Path: "migration.strength", Min: 0.02, Max: 0.5, Default: 0.15},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize maps raw values onto [0, 1] per parameter.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return out
}

// Denormalize maps [0, 1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return out
}

// Clamp bounds every value to its spec range.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = min(spec.Max, max(spec.Min, v[i]))
	}
	return out
}

// ApplyToConfig writes clamped values into cfg. Order matches Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	v := pv.Clamp(values)
	cfg.Flocking.Alignment = v[0]
	cfg.Flocking.Cohesion = v[1]
	cfg.Flocking.Separation = v[2]
	cfg.Attractor.Strength = v[3]
	cfg.Migration.Strength = v[4]
}

// ExtractFromConfig reads the current values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Flocking.Alignment,
		cfg.Flocking.Cohesion,
		cfg.Flocking.Separation,
		cfg.Attractor.Strength,
		cfg.Migration.Strength,
	}
}
