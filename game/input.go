package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"
)

// Update processes input and advances the simulation for one rendered frame.
func (g *Game) Update() {
	g.handleInput()

	g.stepped = false
	if !g.paused {
		for i := 0; i < g.stepsPerUpdate && !g.paused; i++ {
			g.Step()
		}
		g.stepped = true
	}
	g.perfCollector.RecordFrame()
}

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.logIfErr("reset", g.Reset())
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyG) {
		g.showGrid = !g.showGrid
	}
	if rl.IsKeyPressed(rl.KeyH) {
		g.showPanel = g.controls.Toggle()
		g.layout()
	}
	if rl.IsKeyPressed(rl.KeyS) {
		path, err := g.SaveSnapshot("snapshots")
		if g.logIfErr("snapshot", err) {
			slog.Info("snapshot saved", "path", path)
		}
	}

	// Painter workflow
	if rl.IsKeyPressed(rl.KeyP) {
		if g.painter.mode == PainterPreview {
			g.logIfErr("stop preview", g.StopPreview())
		} else {
			g.logIfErr("start preview", g.StartPreview())
		}
	}
	if rl.IsKeyPressed(rl.KeyA) {
		g.logIfErr("animate", g.StartAnimation())
	}
	if rl.IsFileDropped() {
		files := rl.LoadDroppedFiles()
		if len(files) > 0 {
			g.logIfErr("load image", g.LoadImage(files[0]))
		}
		rl.UnloadDroppedFiles()
	}

	g.handleCameraInput()
	g.handleMouse()
}

// handleMouse drags the painter image or applies the push/pull tool.
func (g *Game) handleMouse() {
	mouse := rl.GetMousePosition()
	if g.controls.Contains(mouse.X, mouse.Y) || !g.camera.InViewport(mouse.X, mouse.Y) {
		g.ClearInteraction()
		g.dragging = false
		return
	}
	pos := g.camera.ScreenToWorldVec(mouse.X, mouse.Y)

	// The image can be moved while a stopped preview is being painted.
	if rect, ok := g.ImageRect(); ok && g.painter.mode == PainterEditing {
		if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && rect.Contains(pos) {
			g.dragging = true
		}
		if !rl.IsMouseButtonDown(rl.MouseButtonLeft) {
			g.dragging = false
		}
		if g.dragging {
			delta := rl.GetMouseDelta()
			s := g.camera.Scale()
			g.logIfErr("move image", g.MoveImage(r2.Vec{X: float64(delta.X) / s, Y: -float64(delta.Y) / s}))
			return
		}
	}

	switch {
	case rl.IsMouseButtonDown(rl.MouseButtonLeft):
		g.SetInteraction(pos, true)
	case rl.IsMouseButtonDown(rl.MouseButtonRight):
		g.SetInteraction(pos, false)
	default:
		g.ClearInteraction()
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h
	g.layout()
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(8.0 / g.camera.Zoom)

	// Arrow key panning
	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, -panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, panSpeed)
	}

	// Zoom controls: mouse wheel or +/- keys
	if wheelMove := rl.GetMouseWheelMove(); wheelMove != 0 {
		g.camera.ZoomBy(1.0 + float64(wheelMove)*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

// logIfErr logs a failed action and reports whether it succeeded.
func (g *Game) logIfErr(action string, err error) bool {
	if err != nil {
		slog.Warn("action failed", "action", action, "error", err)
		return false
	}
	return true
}
