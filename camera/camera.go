// Package camera maps the toroidal water volume onto the window.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// MaxZoom is the closest the viewer can get.
const MaxZoom = 4.0

// Camera is a pan/zoom view into a wrapping world.
type Camera struct {
	Center   r2.Vec // World coordinates
	Zoom     float64
	Viewport r2.Vec // Screen size in pixels
	World    r2.Vec

	MinZoom float64
}

// New creates a camera centred on the world at the smallest zoom that leaves
// no dead space.
func New(viewport, world r2.Vec) *Camera {
	c := &Camera{Viewport: viewport, World: world}
	c.Reset()
	return c
}

// Reset centres the camera at minimum zoom.
func (c *Camera) Reset() {
	c.Center = r2.Scale(0.5, c.World)
	c.MinZoom = minZoom(c.Viewport, c.World)
	c.Zoom = c.MinZoom
}

// minZoom keeps the visible area within the world in both axes.
func minZoom(viewport, world r2.Vec) float64 {
	if world.X <= 0 || world.Y <= 0 {
		return 1
	}
	return math.Max(viewport.X/world.X, viewport.Y/world.Y)
}

// Resize updates both the viewport and the world, keeping the relative centre.
func (c *Camera) Resize(viewport, world r2.Vec) {
	if c.World.X > 0 && c.World.Y > 0 {
		c.Center = r2.Vec{
			X: c.Center.X / c.World.X * world.X,
			Y: c.Center.Y / c.World.Y * world.Y,
		}
	}
	c.Viewport = viewport
	c.World = world
	c.MinZoom = minZoom(viewport, world)
	c.SetZoom(c.Zoom)
}

// WorldToScreen maps a world point along the shortest wrapped path from the centre.
func (c *Camera) WorldToScreen(p r2.Vec) r2.Vec {
	d := c.delta(p)
	return r2.Add(r2.Scale(0.5, c.Viewport), r2.Scale(c.Zoom, d))
}

// ScreenToWorld maps a screen point back into world bounds.
func (c *Camera) ScreenToWorld(s r2.Vec) r2.Vec {
	d := r2.Scale(1/c.Zoom, r2.Sub(s, r2.Scale(0.5, c.Viewport)))
	return r2.Vec{
		X: mod(c.Center.X+d.X, c.World.X),
		Y: mod(c.Center.Y+d.Y, c.World.Y),
	}
}

// IsVisible is a conservative cull test for a circle of the given world radius.
func (c *Camera) IsVisible(p r2.Vec, radius float64) bool {
	d := c.delta(p)
	halfW := c.Viewport.X/(2*c.Zoom) + radius
	halfH := c.Viewport.Y/(2*c.Zoom) + radius
	return math.Abs(d.X) <= halfW && math.Abs(d.Y) <= halfH
}

// Ghosts returns extra screen positions for a circle straddling a wrap seam,
// so it shows on both sides. n is at most 3 (corner case).
func (c *Camera) Ghosts(p r2.Vec, radius float64) (out [3]r2.Vec, n int) {
	half := r2.Scale(1/(2*c.Zoom), c.Viewport)
	d := c.delta(p)
	primary := c.WorldToScreen(p)

	var gx, gy float64
	hasX, hasY := false, false
	switch {
	case d.X > half.X-radius && d.X < half.X+radius:
		gx, hasX = c.Viewport.X/2+(d.X-c.World.X)*c.Zoom, true
	case d.X < -half.X+radius && d.X > -half.X-radius:
		gx, hasX = c.Viewport.X/2+(d.X+c.World.X)*c.Zoom, true
	}
	switch {
	case d.Y > half.Y-radius && d.Y < half.Y+radius:
		gy, hasY = c.Viewport.Y/2+(d.Y-c.World.Y)*c.Zoom, true
	case d.Y < -half.Y+radius && d.Y > -half.Y-radius:
		gy, hasY = c.Viewport.Y/2+(d.Y+c.World.Y)*c.Zoom, true
	}

	if hasX {
		out[n] = r2.Vec{X: gx, Y: primary.Y}
		n++
	}
	if hasY {
		out[n] = r2.Vec{X: primary.X, Y: gy}
		n++
	}
	if hasX && hasY {
		out[n] = r2.Vec{X: gx, Y: gy}
		n++
	}
	return out, n
}

// Pan moves the camera by a screen-space delta, wrapping around the world.
func (c *Camera) Pan(dx, dy float64) {
	c.Center.X = mod(c.Center.X+dx/c.Zoom, c.World.X)
	c.Center.Y = mod(c.Center.Y+dy/c.Zoom, c.World.Y)
}

// SetZoom clamps to [MinZoom, MaxZoom].
func (c *Camera) SetZoom(z float64) {
	c.Zoom = math.Min(math.Max(z, c.MinZoom), math.Max(MaxZoom, c.MinZoom))
}

// ZoomBy multiplies the current zoom.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

func (c *Camera) delta(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: wrapDelta(p.X-c.Center.X, c.World.X),
		Y: wrapDelta(p.Y-c.Center.Y, c.World.Y),
	}
}

// wrapDelta folds d into [-size/2, size/2].
func wrapDelta(d, size float64) float64 {
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

func mod(x, m float64) float64 {
	if m <= 0 {
		return x
	}
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}
