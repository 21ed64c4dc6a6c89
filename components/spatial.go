package components

// Position represents a fish's world position.
type Position struct {
	X, Y float64
}

// Velocity represents a fish's velocity in world units per integration step.
type Velocity struct {
	X, Y float64
}
