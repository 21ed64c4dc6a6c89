// Package game drives a fish school engine from a raylib window or a headless
// loop, wiring input, rendering and telemetry around it.
package game

import (
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/camera"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/inspector"
	"github.com/pthm-cable/shoal/renderer"
	"github.com/pthm-cable/shoal/sim"
	"github.com/pthm-cable/shoal/telemetry"
	"github.com/pthm-cable/shoal/ui"
)

// Control steps
const (
	SpeedStep      = 0.1
	CountStep      = 100
	MaxStepsUpdate = 10

	// Fixed tick length for headless runs
	HeadlessDTMillis = 1000.0 / 60
)

// Options configures a Game.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 uses telemetry.stats_window
	OutputDir      string  // empty disables CSV output
	Headless       bool
	StepsPerUpdate int
}

// Game owns the engine and everything around it.
type Game struct {
	cfg    *config.Config
	engine *sim.Engine
	snap   sim.Snapshot

	// Rendering, nil when headless
	camera     *camera.Camera
	background *renderer.BackgroundRenderer
	snow       *renderer.SnowRenderer
	school     *renderer.SchoolRenderer
	inspector  *inspector.Inspector
	hud        *ui.HUD
	perfPanel  *ui.PerfPanel
	controls   *ui.ControlsPanel
	overlays   *ui.OverlayRegistry

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	highlights    *telemetry.HighlightDetector
	outputManager *telemetry.OutputManager
	lastWindow    *telemetry.WindowStats
	logStats      bool

	// State
	paused         bool
	stepsPerUpdate int
	muted          bool
	unmutedGain    float64
	wallMillis     float64 // Wall time for animation, independent of pause

	screenWidth, screenHeight int32

	started      time.Time
	lastProgress time.Time
}

// NewGameWithOptions creates a game from cfg. In graphical mode the raylib
// window must already be open.
func NewGameWithOptions(cfg *config.Config, opts Options) *Game {
	cfg = cfg.Clone()
	cfg.Sim.Seed = opts.Seed

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		cfg:            cfg,
		collector:      telemetry.NewCollector(statsWindow),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		highlights:     telemetry.NewHighlightDetector(cfg.Telemetry.HighlightHistorySize),
		logStats:       opts.LogStats,
		stepsPerUpdate: steps,
		unmutedGain:    cfg.Sim.Gain,
		started:        time.Now(),
	}

	if !opts.Headless {
		g.screenWidth = int32(rl.GetScreenWidth())
		g.screenHeight = int32(rl.GetScreenHeight())
		// An unsized world follows the actual window
		cfg.Screen.Width = int(g.screenWidth)
		cfg.Screen.Height = int(g.screenHeight)
	}

	g.engine = sim.New(cfg)
	g.engine.SetTimer(g.perfCollector)
	g.engine.SnapshotInto(&g.snap)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
			if err := om.WriteManifest(telemetry.NewRunManifest(opts.Seed, opts.Headless)); err != nil {
				slog.Error("failed to write manifest", "error", err)
			}
		}
	}

	if !opts.Headless {
		g.initRendering()
	}
	return g
}

func (g *Game) initRendering() {
	w, h := g.engine.WorldSize()
	g.camera = camera.New(
		r2.Vec{X: float64(g.screenWidth), Y: float64(g.screenHeight)},
		r2.Vec{X: w, Y: h},
	)
	seed := g.cfg.Sim.Seed
	g.background = renderer.NewBackgroundRenderer(g.screenWidth, g.screenHeight, seed)
	g.snow = renderer.NewSnowRenderer(g.screenWidth, g.screenHeight, seed+1)
	g.school = renderer.NewSchoolRenderer(seed + 2)
	g.inspector = inspector.NewInspector(g.screenWidth, g.screenHeight)
	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel((g.screenWidth-ui.PerfPanelWidth)/2, 10)
	g.controls = ui.NewControlsPanel(10, 100, 220)
	g.overlays = ui.NewOverlayRegistry()
}

// Update handles one frame of input and advances the simulation by the
// frame's wall time, stepsPerUpdate times.
func (g *Game) Update() {
	dt := float64(rl.GetFrameTime()) * 1000
	g.wallMillis += dt
	g.handleInput()
	g.snow.Update(dt)

	if g.paused {
		return
	}
	mouse := rl.GetMousePosition()
	pointer := g.camera.ScreenToWorld(r2.Vec{X: float64(mouse.X), Y: float64(mouse.Y)})
	in := g.tickInput(&pointer)
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep(dt, in)
		in = sim.Input{}
	}
	g.engine.SnapshotInto(&g.snap)
}

// UpdateHeadless advances stepsPerUpdate ticks of fixed length without any
// raylib calls.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep(HeadlessDTMillis, sim.Input{})
	}
	g.logProgress()
}

// tickInput builds the engine input for the first tick of a frame.
func (g *Game) tickInput(pointer *r2.Vec) sim.Input {
	in := sim.Input{Pointer: pointer}
	if g.worldFollowsScreen() {
		in.Viewport = sim.Viewport{Width: float64(g.screenWidth), Height: float64(g.screenHeight)}
	}
	return in
}

func (g *Game) worldFollowsScreen() bool {
	return g.cfg.World.Width <= 0 && g.cfg.World.Height <= 0
}

// simulationStep runs one engine tick with timing and telemetry.
func (g *Game) simulationStep(dtMillis float64, in sim.Input) {
	g.perfCollector.StartTick()
	rep := g.engine.Tick(dtMillis, in)

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.Record(rep)
	g.flushTelemetry()
	g.perfCollector.EndTick()
}

// Engine exposes the simulation for callers driving it directly.
func (g *Game) Engine() *sim.Engine {
	return g.engine
}

// Tick returns the number of ticks run so far.
func (g *Game) Tick() int64 {
	return g.engine.TickCount()
}

// LastWindow returns the most recent telemetry window, or nil before the
// first flush.
func (g *Game) LastWindow() *telemetry.WindowStats {
	return g.lastWindow
}

// Unload flushes output files.
func (g *Game) Unload() {
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}
}
