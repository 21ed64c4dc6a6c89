package ui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/telemetry"
)

// HUDData holds everything the heads-up display shows.
type HUDData struct {
	Title    string
	Count    int
	Target   int
	Speed    float64
	Gain     float64
	Muted    bool
	Flash    float64
	SpeedMod float64
	Tick     int64
	SimTime  time.Duration
	FPS      int32
	Steps    int
	Paused   bool

	EventPhase     string // Empty when no vortex is active
	EventIntensity float64

	// Last flushed telemetry window; nil before the first flush
	Window *telemetry.WindowStats
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	stats    PanelDescriptor
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
		stats:    schoolPanel(),
	}
}

// Draw renders the title block in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Fish: %s / %s | Speed: %.1fx | Steps: %d", humanize.Comma(int64(data.Count)), humanize.Comma(int64(data.Target)), data.Speed, data.Steps),
		10, 35, 16, rl.LightGray,
	)

	volume := fmt.Sprintf("Volume: %.0f%%", data.Gain*100)
	if data.Muted {
		volume = "Volume: muted"
	}
	rl.DrawText(
		fmt.Sprintf("Tick: %s | Time: %s | FPS: %d | %s", humanize.Comma(data.Tick), data.SimTime.Round(time.Second), data.FPS, volume),
		10, 55, 16, rl.LightGray,
	)

	status := "Swimming"
	if data.Paused {
		status = "PAUSED"
	} else if data.EventPhase != "" {
		status = fmt.Sprintf("Vortex %s (%.0f%%)", data.EventPhase, data.EventIntensity*100)
	}
	rl.DrawText(status, 10, 75, 16, rl.Yellow)
}

// DrawStats renders the school statistics panel in the bottom-left corner.
func (h *HUD) DrawStats(data HUDData, screenW, screenH int32) {
	h.renderer.DrawDescribedPanel(h.stats, data, screenW, screenH, 10)
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	w := rl.MeasureText(controls, 14)
	rl.DrawText(controls, screenWidth-w-10, screenHeight-25, 14, rl.Gray)
}

func hud(data any) HUDData { return data.(HUDData) }

func hasWindow(data any) bool { return hud(data).Window != nil }

func schoolPanel() PanelDescriptor {
	return PanelDescriptor{
		Title:  "School",
		Width:  250,
		Anchor: AnchorBottomLeft,
		Sections: []SectionDescriptor{
			{
				Title: "Live",
				Fields: []FieldDescriptor{
					{Label: "Flash", Widget: WidgetBar, Range: DefaultRange(), Getter: func(d any) float64 { return hud(d).Flash }},
					{Label: "Surge", Widget: WidgetCenteredBar, Range: FieldRange{Min: 0.7, Max: 1.0}, Getter: func(d any) float64 { return hud(d).SpeedMod }},
					{Label: "Vortex", Widget: WidgetBar, Range: DefaultRange(), Getter: func(d any) float64 { return hud(d).EventIntensity },
						Visible: func(d any) bool { return hud(d).EventPhase != "" }},
				},
			},
			{
				Title:   "Last window",
				Visible: hasWindow,
				Fields: []FieldDescriptor{
					{Label: "Polarity", Widget: WidgetBar, Range: DefaultRange(), Getter: func(d any) float64 { return hud(d).Window.Polarization }},
					{Label: "Speed", Widget: WidgetText, Format: "%.2f", Getter: func(d any) float64 { return hud(d).Window.SpeedMean }},
					{Label: "Speed p10-90", Widget: WidgetText, TextGetter: func(d any) string {
						w := hud(d).Window
						return fmt.Sprintf("%.2f - %.2f", w.SpeedP10, w.SpeedP90)
					}},
					{Label: "Spread", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float64 { return hud(d).Window.Spread }},
					{Label: "Breakouts", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float64 { return float64(hud(d).Window.Breakouts) }},
					{Label: "Colorful", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float64 { return float64(hud(d).Window.Colorful) }},
				},
			},
		},
	}
}

// PerfPanelWidth is the width of the timing panel in pixels.
const PerfPanelWidth = 260

// PerfPanel renders the per-phase timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders tick timing and the share of each phase.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	height := int32(len(telemetry.Phases))*14 + 62
	p.renderer.DrawPanel(p.x, p.y, PerfPanelWidth, height)

	x := p.x + p.renderer.Theme.Padding
	y := p.y + p.renderer.Theme.Padding

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(
		fmt.Sprintf("Avg: %s  Max: %s", stats.AvgTickDuration.Round(time.Microsecond), stats.MaxTickDuration.Round(time.Microsecond)),
		x, y, 12, rl.Yellow,
	)
	y += 16

	for _, name := range telemetry.Phases {
		pct := stats.PhasePct[name]
		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-17s %7s %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
