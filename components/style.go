package components

// DepthLayer orders fish for drawing.
type DepthLayer uint8

const (
	LayerBackground DepthLayer = iota
	LayerMidground
	LayerForeground
)

// String returns the layer name.
func (d DepthLayer) String() string {
	switch d {
	case LayerBackground:
		return "background"
	case LayerForeground:
		return "foreground"
	default:
		return "midground"
	}
}

// Style holds display attributes chosen once at spawn.
// The simulation never writes a Style after the entity is created; the renderer
// treats it as read-only.
type Style struct {
	Colorful      bool       `inspect:"bool"`
	BaseHue       float64    `inspect:"label,fmt:%.0f"` // Degrees
	SatMin        float64    `inspect:"skip"`           // Percent
	SatMax        float64    `inspect:"skip"`           // Percent
	Layer         DepthLayer `inspect:"label"`
	DepthScale    float64    `inspect:"bar,max:1.5"`
	DepthAlpha    float64    `inspect:"bar,max:1"`
	BodyPhase     float64    `inspect:"skip"` // Initial body wave phase
	BodyWaveSpeed float64    `inspect:"skip"`
	ScaleShimmer  float64    `inspect:"skip"`
	BodyTone      float64    `inspect:"label,fmt:%+.1f"` // Lightness offset, percent
}
