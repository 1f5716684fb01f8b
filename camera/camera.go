// Package camera maps the fluid world onto the screen.
package camera

import "gonum.org/v1/gonum/spatial/r2"

// Camera controls the viewport into the simulation world.
// World coordinates are in world units with y pointing up; screen coordinates
// are pixels with y pointing down. Scale is uniform on both axes.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float64

	// Zoom level on top of the fit scale (1.0 = whole world visible)
	Zoom float64

	// Viewport rectangle on screen
	OffsetX, OffsetY     float32
	ViewportW, ViewportH float32

	// World dimensions
	WorldW, WorldH float64

	// Zoom constraints
	MinZoom, MaxZoom float64
}

// New creates a camera that fits the whole world into the viewport at
// (offsetX, offsetY), centered, with zoom 1.
func New(offsetX, offsetY, viewportW, viewportH float32, worldW, worldH float64) *Camera {
	return &Camera{
		X:         worldW / 2,
		Y:         worldH / 2,
		Zoom:      1.0,
		OffsetX:   offsetX,
		OffsetY:   offsetY,
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		MinZoom:   1.0,
		MaxZoom:   8.0,
	}
}

// FitScale returns the pixels per world unit at zoom 1.
func (c *Camera) FitScale() float64 {
	return min(float64(c.ViewportW)/c.WorldW, float64(c.ViewportH)/c.WorldH)
}

// Scale returns the current pixels per world unit.
func (c *Camera) Scale() float64 {
	return c.FitScale() * c.Zoom
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float32) {
	s := c.Scale()
	sx = c.OffsetX + c.ViewportW/2 + float32((wx-c.X)*s)
	sy = c.OffsetY + c.ViewportH/2 - float32((wy-c.Y)*s)
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
// Points outside the world rectangle are returned unclamped.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float64) {
	s := c.Scale()
	wx = c.X + float64(sx-c.OffsetX-c.ViewportW/2)/s
	wy = c.Y - float64(sy-c.OffsetY-c.ViewportH/2)/s
	return wx, wy
}

// ScreenToWorldVec is ScreenToWorld returning a vector.
func (c *Camera) ScreenToWorldVec(sx, sy float32) r2.Vec {
	x, y := c.ScreenToWorld(sx, sy)
	return r2.Vec{X: x, Y: y}
}

// WorldLength converts a world distance to pixels.
func (c *Camera) WorldLength(d float64) float32 {
	return float32(d * c.Scale())
}

// InViewport reports whether a screen point lies inside the viewport.
func (c *Camera) InViewport(sx, sy float32) bool {
	return sx >= c.OffsetX && sx < c.OffsetX+c.ViewportW &&
		sy >= c.OffsetY && sy < c.OffsetY+c.ViewportH
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float64) bool {
	s := c.Scale()
	halfW := float64(c.ViewportW)/(2*s) + radius
	halfH := float64(c.ViewportH)/(2*s) + radius
	return abs(wx-c.X) <= halfW && abs(wy-c.Y) <= halfH
}

// Resize updates the viewport rectangle.
func (c *Camera) Resize(offsetX, offsetY, viewportW, viewportH float32) {
	c.OffsetX = offsetX
	c.OffsetY = offsetY
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.clampCenter()
}

// Pan moves the camera by the given delta in screen pixels.
// The view never leaves the world rectangle.
func (c *Camera) Pan(dx, dy float32) {
	s := c.Scale()
	c.X -= float64(dx) / s
	c.Y += float64(dy) / s
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCenter()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = 1.0
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float64) {
	s := c.Scale()
	halfW := float64(c.ViewportW) / (2 * s)
	halfH := float64(c.ViewportH) / (2 * s)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// clampCenter keeps the view inside the world on any axis where the world is
// larger than the view, and centers it otherwise.
func (c *Camera) clampCenter() {
	s := c.Scale()
	halfW := float64(c.ViewportW) / (2 * s)
	halfH := float64(c.ViewportH) / (2 * s)

	if halfW*2 >= c.WorldW {
		c.X = c.WorldW / 2
	} else {
		c.X = clamp(c.X, halfW, c.WorldW-halfW)
	}
	if halfH*2 >= c.WorldH {
		c.Y = c.WorldH / 2
	} else {
		c.Y = clamp(c.Y, halfH, c.WorldH-halfH)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
