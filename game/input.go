package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/ui"
)

// handleInput processes keyboard and mouse input for one frame.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps per update with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < MaxStepsUpdate {
		g.stepsPerUpdate++
	}

	g.applyControls(ui.ControlInput{
		Slower:     rl.IsKeyPressed(rl.KeyLeftBracket),
		Faster:     rl.IsKeyPressed(rl.KeyRightBracket),
		Fewer:      rl.IsKeyPressed(rl.KeyNine),
		More:       rl.IsKeyPressed(rl.KeyZero),
		ToggleMute: rl.IsKeyPressed(rl.KeyM),
	})

	if rl.IsKeyPressed(rl.KeyC) {
		g.controls.Toggle()
	}
	g.overlays.HandleKeys()

	g.handleCameraInput()

	mouse := rl.GetMousePosition()
	if g.controls.Contains(mouse) {
		return
	}
	g.inspector.HandleInput(mouse, g.camera, g.engine)

	if rl.IsMouseButtonPressed(rl.MouseButtonRight) && !g.inspector.Contains(mouse) {
		g.engine.TriggerVortex(g.camera.ScreenToWorld(r2.Vec{X: float64(mouse.X), Y: float64(mouse.Y)}))
	}
}

// applyControls applies key presses and panel buttons to the engine.
func (g *Game) applyControls(in ui.ControlInput) {
	if in.Slower {
		g.engine.SetSpeed(g.engine.Speed() - SpeedStep)
	}
	if in.Faster {
		g.engine.SetSpeed(g.engine.Speed() + SpeedStep)
	}
	if in.Fewer {
		g.engine.SetTargetCount(g.engine.TargetCount() - CountStep)
	}
	if in.More {
		g.engine.SetTargetCount(g.engine.TargetCount() + CountStep)
	}
	if in.GainChanged {
		g.muted = false
		g.unmutedGain = g.engine.SetGain(in.Gain)
	}
	if in.ToggleMute {
		g.toggleMute()
	}
	if in.TogglePause {
		g.paused = !g.paused
	}
	if in.Vortex {
		w, h := g.engine.WorldSize()
		g.engine.TriggerVortex(r2.Vec{X: w * 0.5, Y: h * 0.5})
	}
}

// toggleMute drops the gain to zero, remembering the level to restore.
func (g *Game) toggleMute() {
	if g.muted {
		g.muted = false
		g.engine.SetGain(g.unmutedGain)
		return
	}
	g.muted = true
	g.unmutedGain = g.engine.Gain()
	g.engine.SetGain(config.MinGain)
}

// handleResize checks for window resize and propagates new dimensions. The
// engine picks up a screen-sized world through the next tick's viewport.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	viewport := r2.Vec{X: float64(w), Y: float64(h)}
	world := viewport
	if !g.worldFollowsScreen() {
		ww, wh := g.engine.WorldSize()
		world = r2.Vec{X: ww, Y: wh}
	}
	g.camera.Resize(viewport, world)
	g.background.Resize(w, h)
	g.snow.Resize(w, h)
	g.inspector.Resize(w, h)
	g.perfPanel.SetPosition((w-ui.PerfPanelWidth)/2, 10)
}

// handleCameraInput processes camera pan and zoom controls.
func (g *Game) handleCameraInput() {
	// Screen pixels per frame; Pan divides by zoom
	const panSpeed = 8.0

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + float64(wheel)*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
