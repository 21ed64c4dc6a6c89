// Package inspector shows the live state of one selected fish.
package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/camera"
	"github.com/pthm-cable/shoal/components"
)

// Panel dimensions
const (
	PanelWidth   = 300
	PanelPadding = 10
	HeaderHeight = 30

	// PickRadius is the click tolerance in screen pixels.
	PickRadius = 14
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 8, G: 24, B: 36, A: 235}
	ColorPanelHeader = rl.Color{R: 18, G: 44, B: 60, A: 255}
	ColorPanelBorder = rl.Color{R: 50, G: 90, B: 110, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 170, G: 80, B: 70, A: 255}
	ColorSection     = rl.Color{R: 24, G: 54, B: 72, A: 255}
	ColorSectionText = rl.Color{R: 190, G: 220, B: 230, A: 255}
)

// Source is the simulation state the inspector reads from.
type Source interface {
	Nearest(p r2.Vec, maxDist float64) (ecs.Entity, bool)
	Inspect(ent ecs.Entity) (pos r2.Vec, fish components.Fish, style components.Style, ok bool)
}

// Inspector manages fish selection and panel rendering.
type Inspector struct {
	selected    ecs.Entity
	hasSelected bool
	panelX      int32
	panelY      int32
}

// NewInspector creates an inspector whose panel sits at the right edge.
func NewInspector(screenWidth, screenHeight int32) *Inspector {
	ins := &Inspector{}
	ins.Resize(screenWidth, screenHeight)
	return ins
}

// Resize re-anchors the panel after a window resize.
func (ins *Inspector) Resize(screenWidth, screenHeight int32) {
	ins.panelX = screenWidth - PanelWidth - 10
	ins.panelY = 10
}

// HandleInput selects the fish under a left click or clears the selection.
// It returns true when the click was consumed by the panel or a selection.
func (ins *Inspector) HandleInput(mouse rl.Vector2, cam *camera.Camera, src Source) bool {
	if rl.IsKeyPressed(rl.KeyEscape) {
		ins.Deselect()
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return false
	}

	mx, my := int32(mouse.X), int32(mouse.Y)
	if ins.hasSelected {
		closeX := ins.panelX + PanelWidth - 25
		closeY := ins.panelY + 5
		if mx >= closeX && mx <= closeX+20 && my >= closeY && my <= closeY+20 {
			ins.Deselect()
			return true
		}
		if ins.Contains(mouse) {
			return true
		}
	}

	p := cam.ScreenToWorld(r2.Vec{X: float64(mouse.X), Y: float64(mouse.Y)})
	ent, ok := src.Nearest(p, PickRadius/cam.Zoom)
	if !ok {
		return false
	}
	ins.selected = ent
	ins.hasSelected = true
	return true
}

// Contains reports whether a screen point lies on the open panel.
func (ins *Inspector) Contains(mouse rl.Vector2) bool {
	if !ins.hasSelected {
		return false
	}
	mx, my := int32(mouse.X), int32(mouse.Y)
	return mx >= ins.panelX && mx <= ins.panelX+PanelWidth && my >= ins.panelY
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the currently selected entity.
func (ins *Inspector) Selected() (ecs.Entity, bool) {
	return ins.selected, ins.hasSelected
}

// Draw renders the selection ring and the panel. A fish culled since it was
// selected clears the selection.
func (ins *Inspector) Draw(src Source, cam *camera.Camera) {
	if !ins.hasSelected {
		return
	}
	pos, fish, style, ok := src.Inspect(ins.selected)
	if !ok {
		ins.Deselect()
		return
	}

	ins.drawSelectionHighlight(pos, &fish, &style, cam)

	fishFields := ExtractFields(&fish)
	styleFields := ExtractFields(&style)
	panelHeight := ins.panelHeight(fishFields, styleFields)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, panelHeight, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(panelHeight)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText("INSPECTOR", ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	y := ins.panelY + HeaderHeight + PanelPadding
	x := ins.panelX + PanelPadding

	// Swatch in the fish's base hue
	swatch := rl.ColorFromHSV(float32(style.BaseHue), float32(style.SatMax/100), 0.9)
	if !style.Colorful {
		swatch = rl.ColorFromHSV(float32(style.BaseHue), 0.15, 0.85)
	}
	rl.DrawRectangle(x, y, 14, 14, swatch)
	rl.DrawText(fmt.Sprintf("%s fish, %s", fish.Size, style.Layer), x+22, y, 14, ColorHeaderText)
	y += 22

	y += DrawLabel(x, y, "Position", fmt.Sprintf("(%.0f, %.0f)", pos.X, pos.Y), nil)

	y = ins.drawSection(x, y, "FISH", fishFields)
	ins.drawSection(x, y, "STYLE", styleFields)
}

func (ins *Inspector) drawSection(x, y int32, title string, fields []Field) int32 {
	y += 4
	rl.DrawLine(x, y, ins.panelX+PanelWidth-PanelPadding, y, ColorPanelBorder)
	y += 8

	rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, ColorSection)
	rl.DrawText(title, x+2, y, 14, ColorSectionText)
	y += 22

	for _, f := range fields {
		y += DrawField(x, y, f)
	}
	return y
}

func (ins *Inspector) panelHeight(sections ...[]Field) int32 {
	height := int32(HeaderHeight + PanelPadding)
	height += 22 // summary line
	height += 20 // position
	for _, fields := range sections {
		height += 12 + 22
		for _, f := range fields {
			height += FieldHeight(f)
		}
	}
	return height + PanelPadding
}

func (ins *Inspector) drawSelectionHighlight(pos r2.Vec, fish *components.Fish, style *components.Style, cam *camera.Camera) {
	s := cam.WorldToScreen(pos)
	radius := float32(fish.BodySize*style.DepthScale*cam.Zoom) + 8
	rl.DrawCircleLines(int32(s.X), int32(s.Y), radius, rl.Yellow)
}
