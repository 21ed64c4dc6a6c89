package telemetry

import (
	"math"
	"testing"
)

func hasHighlight(hs []Highlight, t HighlightType) bool {
	for _, h := range hs {
		if h.Type == t {
			return true
		}
	}
	return false
}

func TestHighlightDetector_MigrationTurn(t *testing.T) {
	tests := []struct {
		name       string
		prev, cur  float64
		wantRaised bool
	}{
		{"small drift", 0.5, 0.7, false},
		{"sharp turn", 0.5, 2.0, true},
		{"across zero small", 6.2, 0.1, false},
		{"across zero large", 5.9, 1.2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewHighlightDetector(5)
			d.Check(WindowStats{WindowEndTick: 100, Heading: tt.prev})
			got := hasHighlight(d.Check(WindowStats{WindowEndTick: 200, Heading: tt.cur}), HighlightMigrationTurn)
			if got != tt.wantRaised {
				t.Errorf("migration_turn raised = %v, want %v", got, tt.wantRaised)
			}
		})
	}
}

func TestHighlightDetector_FirstWindowQuiet(t *testing.T) {
	d := NewHighlightDetector(5)
	if hs := d.Check(WindowStats{Heading: math.Pi, Spread: 500}); len(hs) != 0 {
		t.Errorf("first window raised %v", hs)
	}
}

func TestHighlightDetector_VortexStarted(t *testing.T) {
	d := NewHighlightDetector(5)
	hs := d.Check(WindowStats{WindowEndTick: 600, VortexStarts: 1})
	if !hasHighlight(hs, HighlightVortexStarted) {
		t.Fatal("expected vortex_started highlight")
	}
	if hs[0].Tick != 600 {
		t.Errorf("tick = %d, want 600", hs[0].Tick)
	}
}

func TestHighlightDetector_SchoolScatter(t *testing.T) {
	d := NewHighlightDetector(10)
	for i := 0; i < 5; i++ {
		if hs := d.Check(WindowStats{Spread: 100}); hasHighlight(hs, HighlightSchoolScatter) {
			t.Fatalf("window %d: scatter raised at steady spread", i)
		}
	}
	if !hasHighlight(d.Check(WindowStats{Spread: 180}), HighlightSchoolScatter) {
		t.Error("expected school_scatter highlight at 1.8x spread")
	}
}

func TestHighlightDetector_CohesiveSchool(t *testing.T) {
	d := NewHighlightDetector(10)

	raised := 0
	for i := 0; i < 8; i++ {
		if hasHighlight(d.Check(WindowStats{Population: 500, Polarization: 0.9}), HighlightCohesiveSchool) {
			raised++
			if i != cohesiveWindows-1 {
				t.Errorf("raised at window %d, want %d", i, cohesiveWindows-1)
			}
		}
	}
	if raised != 1 {
		t.Errorf("raised %d times, want once per run", raised)
	}

	// Breaking the run resets it
	d.Check(WindowStats{Population: 500, Polarization: 0.2})
	for i := 0; i < cohesiveWindows; i++ {
		if hasHighlight(d.Check(WindowStats{Population: 500, Polarization: 0.95}), HighlightCohesiveSchool) {
			raised++
		}
	}
	if raised != 2 {
		t.Errorf("raised %d times after reset, want 2", raised)
	}
}
