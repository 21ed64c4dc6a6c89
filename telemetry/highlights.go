package telemetry

import (
	"fmt"
	"log/slog"
	"math"
)

// HighlightType identifies the type of highlight.
type HighlightType string

const (
	HighlightMigrationTurn  HighlightType = "migration_turn"
	HighlightVortexStarted  HighlightType = "vortex_started"
	HighlightSchoolScatter  HighlightType = "school_scatter"
	HighlightCohesiveSchool HighlightType = "cohesive_school"
)

// Detection thresholds.
const (
	turnThreshold      = math.Pi / 3 // Heading swing between consecutive windows
	scatterFactor      = 1.5         // Spread relative to the rolling average
	cohesivePolarity   = 0.8
	cohesiveWindows    = 5
	minHistoryForTrend = 3
)

// Highlight marks a moment worth looking at in a run.
type Highlight struct {
	Type        HighlightType `csv:"type"`
	Tick        int64         `csv:"tick"`
	SimTimeSec  float64       `csv:"sim_time"`
	Description string        `csv:"description"`
}

// LogHighlight logs the highlight using slog.
func (h Highlight) LogHighlight() {
	slog.Info("highlight",
		"type", string(h.Type),
		"tick", h.Tick,
		"sim_time", h.SimTimeSec,
		"description", h.Description,
	)
}

// HighlightDetector watches successive windows for notable school behaviour.
type HighlightDetector struct {
	// Rolling history (circular buffer)
	history []WindowStats
	idx     int
	full    bool

	cohesiveRun int
}

// NewHighlightDetector creates a detector with the given history size.
func NewHighlightDetector(historySize int) *HighlightDetector {
	if historySize < minHistoryForTrend {
		historySize = minHistoryForTrend
	}
	return &HighlightDetector{history: make([]WindowStats, historySize)}
}

// Check analyzes the latest stats and returns any triggered highlights.
func (d *HighlightDetector) Check(stats WindowStats) []Highlight {
	var out []Highlight
	for _, check := range []func(WindowStats) *Highlight{
		d.checkMigrationTurn,
		d.checkVortexStarted,
		d.checkSchoolScatter,
		d.checkCohesiveSchool,
	} {
		if h := check(stats); h != nil {
			out = append(out, *h)
		}
	}
	d.push(stats)
	return out
}

func (d *HighlightDetector) push(stats WindowStats) {
	d.history[d.idx] = stats
	d.idx = (d.idx + 1) % len(d.history)
	if d.idx == 0 {
		d.full = true
	}
}

func (d *HighlightDetector) recent() []WindowStats {
	if d.full {
		return d.history
	}
	return d.history[:d.idx]
}

func (d *HighlightDetector) last() (WindowStats, bool) {
	if !d.full && d.idx == 0 {
		return WindowStats{}, false
	}
	i := (d.idx - 1 + len(d.history)) % len(d.history)
	return d.history[i], true
}

func newHighlight(t HighlightType, stats WindowStats, format string, args ...any) *Highlight {
	return &Highlight{
		Type:        t,
		Tick:        stats.WindowEndTick,
		SimTimeSec:  stats.SimTimeSec,
		Description: fmt.Sprintf(format, args...),
	}
}

func (d *HighlightDetector) checkMigrationTurn(stats WindowStats) *Highlight {
	prev, ok := d.last()
	if !ok {
		return nil
	}
	swing := math.Remainder(stats.Heading-prev.Heading, 2*math.Pi)
	if math.Abs(swing) < turnThreshold {
		return nil
	}
	return newHighlight(HighlightMigrationTurn, stats,
		"Migration heading swung %.0f° (%.0f° to %.0f°)",
		swing*180/math.Pi, prev.Heading*180/math.Pi, stats.Heading*180/math.Pi)
}

func (d *HighlightDetector) checkVortexStarted(stats WindowStats) *Highlight {
	if stats.VortexStarts == 0 {
		return nil
	}
	return newHighlight(HighlightVortexStarted, stats, "%d vortex event(s) started", stats.VortexStarts)
}

func (d *HighlightDetector) checkSchoolScatter(stats WindowStats) *Highlight {
	history := d.recent()
	if len(history) < minHistoryForTrend {
		return nil
	}
	var sum float64
	for _, h := range history {
		sum += h.Spread
	}
	avg := sum / float64(len(history))
	if avg <= 0 || stats.Spread <= avg*scatterFactor {
		return nil
	}
	return newHighlight(HighlightSchoolScatter, stats,
		"Spread %.0f is %.1fx average (%.0f)", stats.Spread, stats.Spread/avg, avg)
}

func (d *HighlightDetector) checkCohesiveSchool(stats WindowStats) *Highlight {
	if stats.Population == 0 || stats.Polarization < cohesivePolarity {
		d.cohesiveRun = 0
		return nil
	}
	d.cohesiveRun++
	if d.cohesiveRun != cohesiveWindows { // Trigger once per run
		return nil
	}
	return newHighlight(HighlightCohesiveSchool, stats,
		"Polarization above %.1f for %d windows with %d fish",
		cohesivePolarity, cohesiveWindows, stats.Population)
}
