// Package ui draws the HUD, the control panel and debug overlays. Panels are
// described by data so the layout can follow what the simulation exposes.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// WidgetType specifies how a field is rendered.
type WidgetType int

const (
	WidgetText        WidgetType = iota // Plain text with format string
	WidgetBar                           // Progress bar over Range
	WidgetCenteredBar                   // Bar growing from the middle of Range
	WidgetColorSwatch                   // Color preview square
	WidgetSection                       // Section header
	WidgetSpacer                        // Vertical spacing
)

// FieldRange is the value range for bar widgets.
type FieldRange struct {
	Min float64
	Max float64
}

// DefaultRange returns [0, 1].
func DefaultRange() FieldRange {
	return FieldRange{Min: 0, Max: 1}
}

// CenteredRange returns [-1, +1].
func CenteredRange() FieldRange {
	return FieldRange{Min: -1, Max: 1}
}

// FieldDescriptor defines how to display one value.
type FieldDescriptor struct {
	Label       string
	Widget      WidgetType
	Format      string // Printf format for Getter values
	Range       FieldRange
	Visible     func(any) bool // nil = always visible
	Getter      func(any) float64
	TextGetter  func(any) string
	ColorGetter func(any) rl.Color
}

// SectionDescriptor groups fields under a header.
type SectionDescriptor struct {
	Title   string
	Fields  []FieldDescriptor
	Visible func(any) bool
}

// PanelDescriptor is a complete panel layout.
type PanelDescriptor struct {
	Title    string
	Sections []SectionDescriptor
	Width    int32
	Anchor   PanelAnchor
}

// PanelAnchor specifies where a panel sits on screen.
type PanelAnchor int

const (
	AnchorTopLeft PanelAnchor = iota
	AnchorTopRight
	AnchorBottomLeft
	AnchorBottomRight
)

// Theme holds UI styling constants.
type Theme struct {
	PanelBg         rl.Color
	PanelBorder     rl.Color
	SectionHeader   rl.Color
	LabelColor      rl.Color
	ValueColor      rl.Color
	BarBg           rl.Color
	BarFill         rl.Color
	BarFillNegative rl.Color
	BarFillPositive rl.Color
	Padding         int32
	LineHeight      int32
	LabelWidth      int32
	BarHeight       int32
	FontSize        int32
	HeaderFontSize  int32
}

// DefaultTheme returns the deep-water theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:         rl.Color{R: 6, G: 20, B: 30, A: 215},
		PanelBorder:     rl.Color{R: 45, G: 85, B: 105, A: 255},
		SectionHeader:   rl.Color{R: 255, G: 205, B: 120, A: 255},
		LabelColor:      rl.Color{R: 150, G: 180, B: 195, A: 255},
		ValueColor:      rl.Color{R: 225, G: 238, B: 244, A: 255},
		BarBg:           rl.Color{R: 18, G: 38, B: 50, A: 255},
		BarFill:         rl.Color{R: 90, G: 180, B: 210, A: 255},
		BarFillNegative: rl.Color{R: 200, G: 110, B: 90, A: 255},
		BarFillPositive: rl.Color{R: 110, G: 200, B: 150, A: 255},
		Padding:         10,
		LineHeight:      16,
		LabelWidth:      84,
		BarHeight:       10,
		FontSize:        12,
		HeaderFontSize:  14,
	}
}
