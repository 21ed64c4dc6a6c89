package systems

import (
	"math"
	"math/rand"
)

const twoPi = 2 * math.Pi

// refFrameMS is the frame length the per-tick rates were tuned against.
const refFrameMS = 1000.0 / 60.0

// epsilon floors distances before division.
const epsilon = 1e-6

// clampFloat clamps a value between min and max.
func clampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clampInt clamps an int between min and max.
func clampInt(v, minVal, maxVal int) int {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clamp01 clamps a value to the [0, 1] range.
func clamp01(v float64) float64 {
	return clampFloat(v, 0, 1)
}

// normalizeAngle wraps an angle to [-Pi, Pi].
func normalizeAngle(angle float64) float64 {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return 0
	}
	angle = math.Mod(angle, twoPi)
	if angle > math.Pi {
		angle -= twoPi
	} else if angle < -math.Pi {
		angle += twoPi
	}
	return angle
}

// normalizeHeading wraps a heading to [0, 2*Pi).
func normalizeHeading(h float64) float64 {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0
	}
	h = math.Mod(h, twoPi)
	if h < 0 {
		h += twoPi
	}
	// Mod of a tiny negative can round back up to exactly 2*Pi
	if h >= twoPi {
		h = 0
	}
	return h
}

// frameScaled converts a per-reference-frame factor into one for dt milliseconds.
func frameScaled(perFrame, dt float64) float64 {
	return math.Pow(perFrame, dt/refFrameMS)
}

// finite reports whether v is neither NaN nor infinite.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// randRange returns a uniform value in [lo, hi).
func randRange(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// randSign returns -1 or +1 with equal probability.
func randSign(rng *rand.Rand) float64 {
	if rng.Float64() < 0.5 {
		return 1
	}
	return -1
}

// mod returns positive modulo (Go's math.Mod can return negative).
func mod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m < 0 {
		m += b
	}
	return m
}
