package game

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/renderer"
	"github.com/pthm-cable/shoal/ui"
)

const controlsLegend = "[C] Controls  [ ] Speed  9/0 Fish  [M] Mute  [Space] Pause  RMB Vortex  LMB Inspect"

// Draw renders one frame from the latest snapshot.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	if g.overlays.IsEnabled(ui.OverlayAmbience) {
		g.background.Draw(g.wallMillis)
		g.snow.Draw()
	}
	if g.overlays.IsEnabled(ui.OverlayPointer) {
		renderer.DrawPointerGlow(g.snap.Pointer, g.camera)
	}
	if g.overlays.IsEnabled(ui.OverlayVortex) {
		renderer.DrawVortex(g.snap.Event, g.camera, g.wallMillis)
	}

	g.school.Draw(&g.snap, g.camera, g.wallMillis)

	g.drawDebugOverlays()
	g.inspector.Draw(g.engine, g.camera)
	g.drawUI()

	rl.EndDrawing()
}

func (g *Game) drawDebugOverlays() {
	if g.overlays.IsEnabled(ui.OverlayGrid) {
		ui.DrawGrid(g.camera, g.snap.WorldW, g.snap.WorldH, g.cfg.Grid.CellSize)
	}
	if g.overlays.IsEnabled(ui.OverlaySubSchools) {
		ui.DrawSubSchools(&g.snap, g.camera)
	}
	if g.overlays.IsEnabled(ui.OverlayMigration) {
		ui.DrawMigration(&g.snap, g.camera)
	}
}

func (g *Game) drawUI() {
	data := g.hudData()
	g.hud.Draw(data)
	if g.overlays.IsEnabled(ui.OverlayStats) {
		g.hud.DrawStats(data, g.screenWidth, g.screenHeight)
	}
	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.Draw(g.perfCollector.Stats())
	}

	in := g.controls.Draw(ui.ControlState{
		Speed:  g.engine.Speed(),
		Target: g.engine.TargetCount(),
		Gain:   g.engine.Gain(),
		Muted:  g.muted,
		Paused: g.paused,
	}, g.overlays)
	g.applyControls(in)

	g.hud.DrawControls(g.screenWidth, g.screenHeight, controlsLegend)
}

func (g *Game) hudData() ui.HUDData {
	data := ui.HUDData{
		Title:    "Shoal",
		Count:    len(g.snap.Fish),
		Target:   g.snap.Target,
		Speed:    g.engine.Speed(),
		Gain:     g.engine.Gain(),
		Muted:    g.muted,
		Flash:    g.snap.Flash,
		SpeedMod: g.snap.SpeedMod,
		Tick:     g.snap.Tick,
		SimTime:  time.Duration(g.snap.Elapsed * float64(time.Millisecond)),
		FPS:      rl.GetFPS(),
		Steps:    g.stepsPerUpdate,
		Paused:   g.paused,
		Window:   g.lastWindow,
	}
	if ev := g.snap.Event; ev != nil {
		data.EventPhase = ev.Phase.String()
		data.EventIntensity = ev.Intensity
	}
	return data
}
