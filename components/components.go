// Package components defines ECS components for the simulation.
package components

// SizeClass selects separation radius, drag and speed cap.
type SizeClass uint8

const (
	SizeNormal SizeClass = iota
	SizeLarge
)

// String returns the size class name.
func (s SizeClass) String() string {
	if s == SizeLarge {
		return "large"
	}
	return "normal"
}

// Fish holds the simulation-owned per-agent state.
type Fish struct {
	Size      SizeClass `inspect:"label"`
	BodySize  float64   `inspect:"label,fmt:%.1f"`   // Drawn body length scale
	Heading   float64   `inspect:"angle"`            // Smoothed heading (radians), eased toward velocity direction
	Smoothing float64   `inspect:"skip"`             // Per-tick heading easing factor
	Wander    float64   `inspect:"bar,max:1.5"`      // Wander coefficient
	Phase     float64   `inspect:"skip"`             // Wander oscillator phase
	HueSeed   float64   `inspect:"skip"`             // Offsets the wander oscillator
	Breakout  float64   `inspect:"label,fmt:%.0fms"` // Remaining breakout time; >0 ignores flock averaging
}

// Large reports whether the fish is in the large size class.
func (f *Fish) Large() bool {
	return f.Size == SizeLarge
}

// BreakingOut reports whether the fish is currently darting away from the school.
func (f *Fish) BreakingOut() bool {
	return f.Breakout > 0
}
