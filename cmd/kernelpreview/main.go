// Kernel preview tool - plots the smoothing kernels against distance with
// sliders for the influence radius and the pressure multipliers.
//
// Usage: go run ./cmd/kernelpreview
package main

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm-cable/fluid/config"
	"github.com/pthm-cable/fluid/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 620
	plotSize     = 560
	plotX        = 40
	plotY        = 20
	panelX       = plotX + plotSize + 30
	panelWidth   = windowWidth - panelX - 20
	samples      = 200
)

// curve is one plotted function of distance.
type curve struct {
	name  string
	color rl.Color
	eval  func(r, d float64) float64
	shown bool
}

// KernelParams holds the slider state.
type KernelParams struct {
	Radius       float32
	Separation   float32 // Marker distance as a fraction of the radius
	Pressure     float32
	NearPressure float32
	RestDensity  float32
}

func defaultParams() KernelParams {
	cfg, err := config.Load("")
	if err != nil {
		return KernelParams{Radius: 0.25, Separation: 0.5, Pressure: 135, NearPressure: 8, RestDensity: 120}
	}
	return KernelParams{
		Radius:       float32(cfg.Physics.InfluenceRadius),
		Separation:   0.5,
		Pressure:     float32(cfg.Physics.PressureMultiplier),
		NearPressure: float32(cfg.Physics.NearPressureMultiplier),
		RestDensity:  float32(cfg.Physics.RestDensity),
	}
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Kernel Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams()
	curves := []curve{
		{"Density", rl.Blue, systems.DensityKernel, true},
		{"Density slope", rl.SkyBlue, systems.DensityKernelDerivative, true},
		{"Near density", rl.Red, systems.NearDensityKernel, true},
		{"Near slope", rl.Pink, systems.NearDensityKernelDerivative, true},
		{"Viscosity", rl.DarkGreen, systems.ViscosityKernel, true},
	}

	for !rl.WindowShouldClose() {
		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		drawPlot(curves, params)

		// Control panel
		x := float32(panelX)
		y := float32(plotY)

		rl.DrawText("Kernel Parameters", int32(x), int32(y), 20, rl.DarkGray)
		y += 35

		y = slider(x, y, "Influence radius", "0.05", "1.0", &params.Radius, 0.05, 1.0, "%.3f")
		y = slider(x, y, "Marker (fraction of radius)", "0", "1", &params.Separation, 0, 1, "%.2f")
		y = slider(x, y, "Pressure multiplier", "0", "500", &params.Pressure, 0, 500, "%.1f")
		y = slider(x, y, "Near pressure multiplier", "0", "50", &params.NearPressure, 0, 50, "%.1f")
		y = slider(x, y, "Rest density", "0", "300", &params.RestDensity, 0, 300, "%.1f")

		rl.DrawLine(int32(x), int32(y), int32(x)+panelWidth, int32(y), rl.LightGray)
		y += 15

		// Curve toggles
		for i := range curves {
			c := &curves[i]
			bx := x + float32(i%2)*(panelWidth/2)
			by := y + float32(i/2)*36
			if gui.Button(rl.Rectangle{X: bx, Y: by, Width: panelWidth/2 - 10, Height: 28}, toggleText(c.shown, "Hide ", "Show ")+c.name) {
				c.shown = !c.shown
			}
		}
		y += float32((len(curves)+1)/2)*36 + 10

		if gui.Button(rl.Rectangle{X: x, Y: y, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
		}
		y += 45

		y = drawPairValues(x, y, curves, params)

		rl.DrawText("Press C to copy YAML to clipboard", int32(x), windowHeight-30, 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yamlText(params))
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider bound to v and returns the next row y.
func slider(x, y float32, label, minText, maxText string, v *float32, lo, hi float32, format string) float32 {
	rl.DrawText(label, int32(x), int32(y), 14, rl.Gray)
	y += 18
	*v = gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: float32(panelWidth - 80), Height: 20},
		minText, maxText,
		*v, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, *v), int32(x+float32(panelWidth-50)), int32(y+2), 16, rl.DarkGray)
	return y + 35
}

// drawPlot draws every visible curve normalised to its own peak magnitude so
// the shapes can be compared on one axis.
func drawPlot(curves []curve, params KernelParams) {
	rl.DrawRectangle(plotX, plotY, plotSize, plotSize, rl.White)
	rl.DrawRectangleLines(plotX, plotY, plotSize, plotSize, rl.DarkGray)

	zeroY := float32(plotY + plotSize/2)
	rl.DrawLine(plotX, int32(zeroY), plotX+plotSize, int32(zeroY), rl.LightGray)

	r := float64(params.Radius)
	maxD := r * 1.1 // Show the cutoff
	toX := func(d float64) float32 { return plotX + float32(d/maxD)*plotSize }

	cutX := toX(r)
	rl.DrawLine(int32(cutX), plotY, int32(cutX), plotY+plotSize, rl.LightGray)
	rl.DrawText("r", int32(cutX)+4, plotY+4, 14, rl.Gray)

	markX := toX(float64(params.Separation) * r)
	rl.DrawLine(int32(markX), plotY, int32(markX), plotY+plotSize, rl.Orange)

	legendY := int32(plotY + plotSize + 8)
	legendX := int32(plotX)
	for _, c := range curves {
		if !c.shown {
			continue
		}
		peak := 0.0
		values := make([]float64, samples+1)
		for i := range values {
			values[i] = c.eval(r, maxD*float64(i)/samples)
			peak = math.Max(peak, math.Abs(values[i]))
		}
		if peak == 0 {
			continue
		}

		prev := rl.Vector2{X: toX(0), Y: zeroY - float32(values[0]/peak)*(plotSize/2-10)}
		for i := 1; i <= samples; i++ {
			next := rl.Vector2{
				X: toX(maxD * float64(i) / samples),
				Y: zeroY - float32(values[i]/peak)*(plotSize/2-10),
			}
			rl.DrawLineEx(prev, next, 2, c.color)
			prev = next
		}

		rl.DrawRectangle(legendX, legendY+3, 10, 10, c.color)
		rl.DrawText(c.name, legendX+14, legendY, 14, rl.DarkGray)
		legendX += rl.MeasureText(c.name, 14) + 30
	}
}

// drawPairValues prints the raw kernel values at the marker and the pressure
// two particles at that distance would exert if both sat at rest density
// plus the marker's own density contribution.
func drawPairValues(x, y float32, curves []curve, params KernelParams) float32 {
	r := float64(params.Radius)
	d := float64(params.Separation) * r

	rl.DrawText(fmt.Sprintf("At d = %.4f:", d), int32(x), int32(y), 16, rl.DarkGray)
	y += 22
	for _, c := range curves {
		rl.DrawText(fmt.Sprintf("%-14s %12.4f", c.name, c.eval(r, d)), int32(x), int32(y), 14, c.color)
		y += 18
	}

	p := systems.Params{
		RestDensity:            float64(params.RestDensity),
		PressureMultiplier:     float64(params.Pressure),
		NearPressureMultiplier: float64(params.NearPressure),
		InfluenceRadius:        r,
	}
	density := p.RestDensity + systems.DensityKernel(r, d)
	near := systems.NearDensityKernel(r, 0) + systems.NearDensityKernel(r, d)
	pressure, nearPressure := p.DensityToPressure(density, near)
	y += 6
	rl.DrawText(fmt.Sprintf("Pressure %.2f  Near %.2f", pressure, nearPressure), int32(x), int32(y), 14, rl.DarkGray)
	return y + 22
}

func yamlText(params KernelParams) string {
	return fmt.Sprintf(`physics:
  rest_density: %.1f
  pressure_multiplier: %.1f
  near_pressure_multiplier: %.1f
  influence_radius: %.3f`,
		params.RestDensity, params.Pressure, params.NearPressure, params.Radius)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
