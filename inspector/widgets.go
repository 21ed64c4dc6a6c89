package inspector

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Widget colors
var (
	ColorBarBg       = rl.Color{R: 20, G: 40, B: 55, A: 255}
	ColorBarFill     = rl.Color{R: 90, G: 190, B: 200, A: 255}
	ColorBarLow      = rl.Color{R: 60, G: 110, B: 150, A: 255}
	ColorText        = rl.Color{R: 220, G: 235, B: 240, A: 255}
	ColorTextDim     = rl.Color{R: 140, G: 170, B: 185, A: 255}
	ColorAngleBg     = rl.Color{R: 25, G: 50, B: 65, A: 255}
	ColorAngleNeedle = rl.Color{R: 255, G: 210, B: 120, A: 255}
	ColorBoolOn      = rl.Color{R: 240, G: 170, B: 80, A: 255}
	ColorBoolOff     = rl.Color{R: 70, G: 90, B: 100, A: 255}
)

// DrawLabel renders a text value.
func DrawLabel(x, y int32, name string, value any, options map[string]string) int32 {
	text := FormatValue(value, options["fmt"])
	rl.DrawText(name, x, y, 14, ColorTextDim)
	rl.DrawText(text, x+110, y, 14, ColorText)
	return 20
}

// DrawBar renders a horizontal bar scaled by the max option.
func DrawBar(x, y int32, name string, value float64, options map[string]string) int32 {
	ratio := value / GetMax(options)
	ratio = math.Max(0, math.Min(1, ratio))

	const barWidth, barHeight = int32(110), int32(14)

	rl.DrawText(name, x, y, 14, ColorTextDim)

	barX := x + 110
	rl.DrawRectangle(barX, y, barWidth, barHeight, ColorBarBg)
	rl.DrawRectangle(barX, y, int32(float64(barWidth)*ratio), barHeight, lerpColor(ColorBarLow, ColorBarFill, ratio))
	rl.DrawText(fmt.Sprintf("%.2f", value), barX+barWidth+6, y, 14, ColorTextDim)

	return 18
}

// DrawAngle renders a compass needle. Screen y grows downward, as in the world.
func DrawAngle(x, y int32, name string, radians float64) int32 {
	const size = int32(40)
	centerX := x + 110 + size/2
	centerY := y + size/2

	rl.DrawText(name, x, y+size/2-7, 14, ColorTextDim)
	rl.DrawCircle(centerX, centerY, float32(size/2), ColorAngleBg)
	rl.DrawCircleLines(centerX, centerY, float32(size/2), ColorTextDim)

	needle := float64(size/2 - 4)
	end := rl.Vector2{
		X: float32(float64(centerX) + needle*math.Cos(radians)),
		Y: float32(float64(centerY) + needle*math.Sin(radians)),
	}
	rl.DrawLineEx(rl.Vector2{X: float32(centerX), Y: float32(centerY)}, end, 2, ColorAngleNeedle)

	degrees := radians * 180 / math.Pi
	rl.DrawText(fmt.Sprintf("%.0f deg", degrees), x+110+size+6, y+size/2-7, 14, ColorTextDim)

	return size + 4
}

// DrawBool renders an on/off indicator.
func DrawBool(x, y int32, name string, value bool) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)

	const indicatorSize = int32(14)
	indicatorX := x + 110

	color, text := ColorBoolOff, "no"
	if value {
		color, text = ColorBoolOn, "yes"
	}
	rl.DrawRectangle(indicatorX, y, indicatorSize, indicatorSize, color)
	rl.DrawText(text, indicatorX+indicatorSize+6, y, 14, color)

	return 18
}

// DrawField renders a field using its widget type, falling back to a label
// when the value does not suit the widget.
func DrawField(x, y int32, field Field) int32 {
	switch field.Widget {
	case WidgetBar:
		if v, ok := GetFloatValue(field.Value); ok {
			return DrawBar(x, y, field.Name, v, field.Options)
		}
	case WidgetAngle:
		if v, ok := GetFloatValue(field.Value); ok {
			return DrawAngle(x, y, field.Name, v)
		}
	case WidgetBool:
		if v, ok := field.Value.(bool); ok {
			return DrawBool(x, y, field.Name, v)
		}
	}
	return DrawLabel(x, y, field.Name, field.Value, field.Options)
}

// FieldHeight returns the vertical space DrawField uses for a field.
func FieldHeight(field Field) int32 {
	switch field.Widget {
	case WidgetBar:
		if _, ok := GetFloatValue(field.Value); ok {
			return 18
		}
	case WidgetAngle:
		if _, ok := GetFloatValue(field.Value); ok {
			return 44
		}
	case WidgetBool:
		if _, ok := field.Value.(bool); ok {
			return 18
		}
	}
	return 20
}

func lerpColor(a, b rl.Color, t float64) rl.Color {
	return rl.Color{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: 255,
	}
}
