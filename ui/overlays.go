package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayAmbience   OverlayID = "ambience"
	OverlayPointer    OverlayID = "pointer"
	OverlayVortex     OverlayID = "vortex"
	OverlayStats      OverlayID = "stats"
	OverlayPerf       OverlayID = "perf"
	OverlayGrid       OverlayID = "grid"
	OverlaySubSchools OverlayID = "subschools"
	OverlayMigration  OverlayID = "migration"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID        OverlayID
	Name      string
	Key       int32 // 0 = no key
	KeyLabel  string
	Category  string // "visual", "panels" or "debug"
	Default   bool
	Exclusive []OverlayID // Disabled when this one is enabled
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]int
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with the standard overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]int),
		enabled: make(map[OverlayID]bool),
	}
	for _, d := range []OverlayDescriptor{
		{ID: OverlayAmbience, Name: "Light & Snow", Key: rl.KeyA, KeyLabel: "A", Category: "visual", Default: true},
		{ID: OverlayPointer, Name: "Pointer Glow", Key: rl.KeyP, KeyLabel: "P", Category: "visual", Default: true},
		{ID: OverlayVortex, Name: "Vortex Swirl", Key: rl.KeyV, KeyLabel: "V", Category: "visual", Default: true},
		{ID: OverlayStats, Name: "School Stats", Key: rl.KeyTab, KeyLabel: "Tab", Category: "panels", Default: true},
		{ID: OverlayPerf, Name: "Performance", Key: rl.KeyF3, KeyLabel: "F3", Category: "panels"},
		{ID: OverlayGrid, Name: "Spatial Grid", Key: rl.KeyG, KeyLabel: "G", Category: "debug"},
		{ID: OverlaySubSchools, Name: "Sub-schools", Key: rl.KeyU, KeyLabel: "U", Category: "debug"},
		{ID: OverlayMigration, Name: "Migration", Key: rl.KeyH, KeyLabel: "H", Category: "debug"},
	} {
		reg.Register(d)
	}
	return reg
}

// Register adds an overlay in its default state.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.byID[desc.ID] = len(r.descriptors)
	r.descriptors = append(r.descriptors, desc)
	r.enabled[desc.ID] = desc.Default
}

// Toggle flips an overlay and returns its new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	r.SetEnabled(id, !r.enabled[id])
	return r.enabled[id]
}

// SetEnabled sets an overlay's state, clearing its exclusive partners when enabled.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	i, ok := r.byID[id]
	if !ok {
		return
	}
	r.enabled[id] = enabled
	if enabled {
		for _, excl := range r.descriptors[i].Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// ByCategory returns overlays of one category in registration order.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all categories in first-seen order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeys toggles every overlay whose key was pressed this frame.
func (r *OverlayRegistry) HandleKeys() {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			r.Toggle(desc.ID)
		}
	}
}
