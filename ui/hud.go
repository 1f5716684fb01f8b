package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fluid/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title          string
	Particles      int
	Target         int
	Tick           int32
	Frame          uint64
	StepsPerUpdate int
	FPS            int32
	Paused         bool
	Painter        string // Painter mode, "off" hides the line
	EndFrame       uint64
	Stats          telemetry.WindowStats
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD in the top-left corner of the view.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Particles: %d / %d | Tick: %d | Frame: %d", data.Particles, data.Target, data.Tick, data.Frame),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Speed: %dx | FPS: %d | Density err: %.2f | Max speed: %.2f",
			data.StepsPerUpdate, data.FPS, data.Stats.DensityError, data.Stats.SpeedMax),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)

	if data.Painter != "" && data.Painter != "off" {
		rl.DrawText(fmt.Sprintf("Painter: %s (end frame %d)", data.Painter, data.EndFrame), 10, 95, 16, rl.SkyBlue)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders per-phase step timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the panel and returns the Y below it.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) int32 {
	r := p.renderer
	y := r.DrawSectionHeader(p.x, p.y, "Step Performance")
	y = r.DrawLabelValue(p.x, y, "Avg step", stats.AvgTickDuration.Round(time.Microsecond).String())
	y = r.DrawLabelValue(p.x, y, "Steps/s", fmt.Sprintf("%.0f", stats.TicksPerSecond))

	for _, name := range telemetry.PhaseNames() {
		y = r.DrawBar(p.x, y, name, float32(stats.PhasePct[name]/100), 0.5, p.width)
	}
	return y
}
