package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fluid/camera"
	"github.com/pthm-cable/fluid/components"
)

// Overlay colors
var (
	ColorBackground  = rl.Color{R: 12, G: 14, B: 20, A: 255}
	ColorWorldBorder = rl.Color{R: 80, G: 90, B: 110, A: 255}
	ColorGridLine    = rl.Color{R: 40, G: 46, B: 58, A: 255}
	ColorPull        = rl.Color{R: 120, G: 200, B: 255, A: 160}
	ColorPush        = rl.Color{R: 255, G: 140, B: 90, A: 160}
)

// minPixelRadius keeps tiny particles visible when zoomed out.
const minPixelRadius = 1.0

// ParticleRenderer draws fluid particles through a camera.
type ParticleRenderer struct {
	cam *camera.Camera
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer(cam *camera.Camera) *ParticleRenderer {
	return &ParticleRenderer{cam: cam}
}

// Draw renders every visible particle as a filled circle in its own color.
func (r *ParticleRenderer) Draw(particles []components.Particle, radius float64) {
	size := max(r.cam.WorldLength(radius), minPixelRadius)

	for i := range particles {
		p := &particles[i]
		if !r.cam.IsVisible(p.Pos.X, p.Pos.Y, radius) {
			continue
		}
		sx, sy := r.cam.WorldToScreen(p.Pos.X, p.Pos.Y)
		c := p.Color
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, size, rl.Color{R: c.R, G: c.G, B: c.B, A: c.A})
	}
}

// DrawWorld fills the world rectangle and outlines its walls.
func (r *ParticleRenderer) DrawWorld() {
	x0, y0 := r.cam.WorldToScreen(0, r.cam.WorldH)
	x1, y1 := r.cam.WorldToScreen(r.cam.WorldW, 0)
	rect := rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
	rl.DrawRectangleRec(rect, ColorBackground)
	rl.DrawRectangleLinesEx(rect, 1, ColorWorldBorder)
}

// DrawGrid draws the cell boundaries of a cols x rows grid.
func (r *ParticleRenderer) DrawGrid(cols, rows int) {
	w, h := r.cam.WorldW, r.cam.WorldH
	for c := 1; c < cols; c++ {
		x := w * float64(c) / float64(cols)
		sx0, sy0 := r.cam.WorldToScreen(x, 0)
		sx1, sy1 := r.cam.WorldToScreen(x, h)
		rl.DrawLineV(rl.Vector2{X: sx0, Y: sy0}, rl.Vector2{X: sx1, Y: sy1}, ColorGridLine)
	}
	for row := 1; row < rows; row++ {
		y := h * float64(row) / float64(rows)
		sx0, sy0 := r.cam.WorldToScreen(0, y)
		sx1, sy1 := r.cam.WorldToScreen(w, y)
		rl.DrawLineV(rl.Vector2{X: sx0, Y: sy0}, rl.Vector2{X: sx1, Y: sy1}, ColorGridLine)
	}
}

// DrawInteraction outlines the active push/pull area.
func (r *ParticleRenderer) DrawInteraction(in components.Interaction) {
	if !in.Active() {
		return
	}
	sx, sy := r.cam.WorldToScreen(in.Pos.X, in.Pos.Y)
	c := ColorPull
	if in.Strength < 0 {
		c = ColorPush
	}
	rl.DrawCircleLinesV(rl.Vector2{X: sx, Y: sy}, r.cam.WorldLength(in.Radius), c)
}
