package game

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fluid/camera"
	"github.com/pthm-cable/fluid/renderer"
	"github.com/pthm-cable/fluid/ui"
)

const controlsLegend = "[Space] Pause  [R] Reset  [LMB] Pull  [RMB] Push  [,/.] Speed  [G] Grid  [H] Panel  [S] Snapshot  [P] Preview  [A] Animate  [Drop] Image"

// Image placement overlay
var (
	imageRectFill   = rl.Color{R: 255, G: 255, B: 255, A: 60}
	imageRectBorder = rl.Color{R: 255, G: 255, B: 255, A: 220}
)

// initViewer creates the camera, renderers and panels. Requires a raylib window.
func (g *Game) initViewer() {
	g.screenWidth = float32(g.cfg.Screen.Width)
	g.screenHeight = float32(g.cfg.Screen.Height)
	if w, h := rl.GetScreenWidth(), rl.GetScreenHeight(); w > 0 && h > 0 {
		g.screenWidth = float32(w)
		g.screenHeight = float32(h)
	}

	viewW := g.viewWidth()
	g.camera = camera.New(0, 0, viewW, g.screenHeight, g.world.Width, g.world.Height)
	g.particleRenderer = renderer.NewParticleRenderer(g.camera)
	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(int32(viewW)+12, 0, int32(g.cfg.Screen.PanelWidth)-24)
	g.controls = ui.NewControlsPanel(int32(viewW), 0, int32(g.cfg.Screen.PanelWidth), int32(g.screenHeight),
		g.sliders(), g.buttons())
	g.controls.SetVisible(g.showPanel)

	if g.recordDir != "" {
		if err := os.MkdirAll(g.recordDir, 0755); err != nil {
			slog.Error("failed to create record dir", "error", err)
			g.recordDir = ""
		}
	}
}

// viewWidth returns the width of the fluid view left of the panel.
func (g *Game) viewWidth() float32 {
	if !g.showPanel {
		return g.screenWidth
	}
	return g.screenWidth - float32(g.cfg.Screen.PanelWidth)
}

// layout repositions the camera and panels after a resize or panel toggle.
func (g *Game) layout() {
	viewW := g.viewWidth()
	g.camera.Resize(0, 0, viewW, g.screenHeight)
	g.controls.Resize(int32(viewW), 0, int32(g.cfg.Screen.PanelWidth), int32(g.screenHeight))
}

// sliders binds the panel sliders to the parameter setters.
func (g *Game) sliders() []ui.Slider {
	c := &g.cfg
	return []ui.Slider{
		{
			Label: "Particles", Min: 0, Max: 20000, Mapping: ui.Identity, Format: "%.0f",
			Get: func() float64 { return float64(c.Particles.Count) },
			Set: func(v float64) error { return g.SetParticleCount(int(v)) },
		},
		{
			Label: "Radius", Min: 1, Max: 50, Mapping: ui.RadiusMapping, Format: "%.3f",
			Get: func() float64 { return c.Particles.Radius },
			Set: g.SetParticleRadius,
		},
		{
			Label: "Gravity", Min: 0, Max: 200, Mapping: ui.GravityMapping, Format: "%.1f",
			Get: func() float64 { return c.Physics.Gravity },
			Set: g.SetGravity,
		},
		{
			Label: "Pressure", Min: 0, Max: 80, Mapping: ui.PressureMapping, Format: "%.1f",
			Get: func() float64 { return c.Physics.PressureMultiplier },
			Set: g.SetPressureMultiplier,
		},
		{
			Label: "Near pressure", Min: 0, Max: 60, Mapping: ui.NearPressureMapping, Format: "%.1f",
			Get: func() float64 { return c.Physics.NearPressureMultiplier },
			Set: g.SetNearPressureMultiplier,
		},
		{
			Label: "Viscosity", Min: 0, Max: 100, Mapping: ui.ViscosityMapping, Format: "%.0f",
			Get: func() float64 { return c.Physics.ViscosityMultiplier },
			Set: g.SetViscosityMultiplier,
		},
		{
			Label: "Influence radius", Min: 1, Max: 40, Mapping: ui.InfluenceMapping, Format: "%.2f",
			Get: func() float64 { return c.Physics.InfluenceRadius },
			Set: g.SetInfluenceRadius,
		},
		{
			Label: "Rest density", Min: 0, Max: 80, Mapping: ui.DensityMapping, Format: "%.1f",
			Get: func() float64 { return c.Physics.RestDensity },
			Set: g.SetRestDensity,
		},
		{
			Label: "Collision damping", Min: 0, Max: 100, Mapping: ui.DampingMapping, Format: "%.2f",
			Get: func() float64 { return c.Physics.CollisionDamping },
			Set: g.SetCollisionDamping,
		},
		{
			Label: "Mouse radius", Min: 0, Max: 50, Mapping: ui.Linear(10), Format: "%.1f",
			Get: func() float64 { return c.Interaction.Radius },
			Set: g.SetInteractionRadius,
		},
		{
			Label: "Mouse strength", Min: 0, Max: 200, Mapping: ui.Identity, Format: "%.0f",
			Get: func() float64 { return c.Interaction.Strength },
			Set: g.SetInteractionStrength,
		},
	}
}

// buttons binds the panel buttons to simulation actions.
func (g *Game) buttons() []ui.Button {
	mode := func(m PainterMode) func() bool {
		return func() bool { return g.painter.mode == m }
	}
	return []ui.Button{
		{Label: "Pause / Resume", OnClick: func() error { g.paused = !g.paused; return nil }},
		{Label: "Reset", OnClick: g.Reset},
		{
			Label:   "Start preview",
			Enabled: func() bool { return g.painter.mode != PainterPreview },
			OnClick: g.StartPreview,
		},
		{Label: "Stop preview", Enabled: mode(PainterPreview), OnClick: g.StopPreview},
		{
			Label:   "Animate",
			Enabled: func() bool { return g.painter.mode == PainterEditing && g.painter.endFrame > 0 },
			OnClick: g.StartAnimation,
		},
		{
			Label:   "Exit painter",
			Enabled: func() bool { return g.painter.mode != PainterOff },
			OnClick: func() error { g.StopPainter(); return nil },
		},
		{
			Label: "Snapshot",
			OnClick: func() error {
				path, err := g.SaveSnapshot("snapshots")
				if err == nil {
					slog.Info("snapshot saved", "path", path)
				}
				return err
			},
		},
		{Label: "Toggle grid", OnClick: func() error { g.showGrid = !g.showGrid; return nil }},
	}
}

// Draw renders the current frame.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.particleRenderer.DrawWorld()
	if g.showGrid {
		g.particleRenderer.DrawGrid(g.grid.Cols(), g.grid.Rows())
	}
	g.drawImageRect()
	g.particleRenderer.Draw(g.grid.Particles(), g.params.ParticleRadius)
	g.particleRenderer.DrawInteraction(g.interaction)

	// Capture before any UI is drawn on top of the fluid.
	g.recordFrame()

	g.hud.Draw(ui.HUDData{
		Title:          "Fluid",
		Particles:      g.grid.Len(),
		Target:         g.cfg.Particles.Count,
		Tick:           g.tick,
		Frame:          g.grid.Frame(),
		StepsPerUpdate: g.stepsPerUpdate,
		FPS:            rl.GetFPS(),
		Paused:         g.paused,
		Painter:        g.painter.mode.String(),
		EndFrame:       g.painter.endFrame,
		Stats:          g.lastStats,
	})

	if g.controls.IsVisible() {
		y := g.controls.Draw()
		g.perfPanel.SetPosition(int32(g.viewWidth())+12, y+12)
		g.perfPanel.Draw(g.perfCollector.Stats())
	}
	g.hud.DrawControls(int32(g.screenHeight), controlsLegend)

	rl.EndDrawing()
}

// drawImageRect outlines the placed image while it can still be moved.
func (g *Game) drawImageRect() {
	if g.painter.mode != PainterEditing || g.painter.image == nil {
		return
	}
	r := g.painter.rect
	x0, y0 := g.camera.WorldToScreen(r.Min.X, r.Max.Y)
	x1, y1 := g.camera.WorldToScreen(r.Max.X, r.Min.Y)
	rect := rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
	rl.DrawRectangleRec(rect, imageRectFill)
	rl.DrawRectangleLinesEx(rect, 3, imageRectBorder)
}

// recordFrame writes the fluid view to the record directory while an
// animation plays.
func (g *Game) recordFrame() {
	if g.recordDir == "" || !g.recording || !g.stepped {
		return
	}

	// Flush queued draws so the capture sees this frame.
	rl.DrawRenderBatchActive()
	img := rl.LoadImageFromScreen()
	rl.ImageCrop(img, rl.Rectangle{
		X:      g.camera.OffsetX,
		Y:      g.camera.OffsetY,
		Width:  g.camera.ViewportW,
		Height: g.camera.ViewportH,
	})
	path := filepath.Join(g.recordDir, fmt.Sprintf("frame_%05d.png", g.recordedFrames))
	if !rl.ExportImage(*img, path) {
		slog.Error("failed to export frame", "path", path)
	}
	rl.UnloadImage(img)
	g.recordedFrames++

	if g.painter.mode != PainterPlayback {
		g.recording = false
	}
}
