package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlState is what the panel displays.
type ControlState struct {
	Speed  float64
	Target int
	Gain   float64
	Muted  bool
	Paused bool
}

// ControlInput is what the user asked for this frame.
type ControlInput struct {
	Slower, Faster bool
	Fewer, More    bool
	ToggleMute     bool
	TogglePause    bool
	Vortex         bool
	Gain           float64
	GainChanged    bool
}

// ControlsPanel renders the left-side panel with simulation buttons and
// overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32
	visible  bool
}

// NewControlsPanel creates a hidden controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point lies on the visible panel.
func (c *ControlsPanel) Contains(p rl.Vector2) bool {
	if !c.visible {
		return false
	}
	return rl.CheckCollisionPointRec(p, rl.Rectangle{
		X: float32(c.x), Y: float32(c.y), Width: float32(c.width), Height: float32(c.height),
	})
}

// Draw renders the panel and returns the buttons pressed this frame.
func (c *ControlsPanel) Draw(state ControlState, overlays *OverlayRegistry) ControlInput {
	var in ControlInput
	if !c.visible {
		return in
	}

	r := c.renderer
	pad := r.Theme.Padding
	line := r.Theme.LineHeight
	x := float32(c.x + pad)
	inner := float32(c.width - pad*2)
	half := (inner - 6) / 2

	r.DrawPanel(c.x, c.y, c.width, c.height)
	y := c.y + pad

	rl.DrawText("Controls", c.x+pad, y, 16, rl.White)
	y += line + 6

	y = r.DrawLabelValue(c.x+pad, y, "Speed", fmt.Sprintf("%.1fx", state.Speed))
	in.Slower = gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: half, Height: 24}, "Slower [")
	in.Faster = gui.Button(rl.Rectangle{X: x + half + 6, Y: float32(y), Width: half, Height: 24}, "Faster ]")
	y += 30

	y = r.DrawLabelValue(c.x+pad, y, "Fish", fmt.Sprintf("%d", state.Target))
	in.Fewer = gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: half, Height: 24}, "Fewer 9")
	in.More = gui.Button(rl.Rectangle{X: x + half + 6, Y: float32(y), Width: half, Height: 24}, "More 0")
	y += 30

	y = r.DrawLabelValue(c.x+pad, y, "Volume", fmt.Sprintf("%.0f%%", state.Gain*100))
	gain := gui.SliderBar(rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: 16}, "", "", float32(state.Gain), 0, 1)
	if g := float64(gain); math.Abs(g-state.Gain) > 1e-4 {
		in.Gain, in.GainChanged = g, true
	}
	y += 22
	in.ToggleMute = gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: half, Height: 24}, toggleText(state.Muted, "Unmute M", "Mute M"))
	in.TogglePause = gui.Button(rl.Rectangle{X: x + half + 6, Y: float32(y), Width: half, Height: 24}, toggleText(state.Paused, "Resume", "Pause"))
	y += 30
	in.Vortex = gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: 24}, "Vortex at centre")
	y += 34

	for _, category := range overlays.Categories() {
		rl.DrawText(categoryLabel(category), c.x+pad, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += line + 2
		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(c.x+pad, y, desc, overlays.IsEnabled(desc.ID), c.width-pad*2)
			y += line
		}
		y += 4
	}

	c.height = y - c.y + pad
	return in
}

func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	status := rl.Color{R: 60, G: 80, B: 90, A: 255}
	name := r.Theme.LabelColor
	if enabled {
		status = r.Theme.BarFillPositive
		name = rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, status)
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, name)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, r.Theme.LabelColor)
	}
}

func categoryLabel(cat string) string {
	switch cat {
	case "visual":
		return "Visual"
	case "panels":
		return "Panels"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
