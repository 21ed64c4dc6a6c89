package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/camera"
	"github.com/pthm-cable/shoal/sim"
)

var (
	colorGrid      = rl.Color{R: 80, G: 140, B: 170, A: 40}
	colorSubSchool = rl.Color{R: 120, G: 220, B: 180, A: 90}
	colorMigration = rl.Color{R: 255, G: 200, B: 110, A: 200}
)

// DrawGrid outlines the spatial index cells.
func DrawGrid(cam *camera.Camera, worldW, worldH, cellSize float64) {
	if cellSize <= 0 {
		return
	}
	for x := 0.0; x <= worldW; x += cellSize {
		a := cam.WorldToScreen(r2.Vec{X: x, Y: cam.Center.Y})
		rl.DrawLine(int32(a.X), 0, int32(a.X), int32(cam.Viewport.Y), colorGrid)
	}
	for y := 0.0; y <= worldH; y += cellSize {
		a := cam.WorldToScreen(r2.Vec{X: cam.Center.X, Y: y})
		rl.DrawLine(0, int32(a.Y), int32(cam.Viewport.X), int32(a.Y), colorGrid)
	}
}

// DrawSubSchools rings each sub-school attractor, thicker for stronger pulls.
func DrawSubSchools(snap *sim.Snapshot, cam *camera.Camera) {
	for i, s := range snap.SubSchools {
		p := cam.WorldToScreen(s.Pos)
		rl.DrawCircleLines(int32(p.X), int32(p.Y), float32(s.Radius*cam.Zoom), colorSubSchool)
		rl.DrawCircle(int32(p.X), int32(p.Y), float32(2+4*s.Strength), colorSubSchool)
		rl.DrawText(fmt.Sprintf("%d", i), int32(p.X)+6, int32(p.Y)+6, 12, colorSubSchool)
	}
}

// DrawMigration marks the smoothed centroid and the migration heading.
func DrawMigration(snap *sim.Snapshot, cam *camera.Camera) {
	c := cam.WorldToScreen(snap.Centroid)
	length := 80.0
	sin, cos := math.Sincos(snap.Heading)
	tip := r2.Vec{X: c.X + cos*length, Y: c.Y + sin*length}

	from := rl.Vector2{X: float32(c.X), Y: float32(c.Y)}
	to := rl.Vector2{X: float32(tip.X), Y: float32(tip.Y)}
	rl.DrawCircleLines(int32(c.X), int32(c.Y), 6, colorMigration)
	rl.DrawLineEx(from, to, 2, colorMigration)

	// Arrow head
	for _, side := range [...]float64{-0.5, 0.5} {
		hs, hc := math.Sincos(snap.Heading + math.Pi + side)
		rl.DrawLineEx(to, rl.Vector2{X: float32(tip.X + hc*12), Y: float32(tip.Y + hs*12)}, 2, colorMigration)
	}
	rl.DrawText(fmt.Sprintf("flash %.2f  surge %.2f", snap.Flash, snap.SpeedMod), int32(c.X)+10, int32(c.Y)-18, 12, colorMigration)
}
