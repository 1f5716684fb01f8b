package game

import (
	"image/color"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/fluid/renderer"
	"github.com/pthm-cable/fluid/telemetry"
)

// Step advances the simulation by one frame: spawn, physics, recolor,
// telemetry.
func (g *Game) Step() {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseSpawn)
	g.spawn()

	// The grid reports its own phases to the perf collector.
	g.grid.UpdateParticles(g.cfg.Physics.DT, g.interaction)
	g.collector.RecordBounces(g.grid.Bounces())

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.recolor()
	g.tick++
	g.flushTelemetry()

	g.perfCollector.EndTick()

	if g.painter.reachedEnd(g.grid.Frame()) {
		g.finishPlayback()
	}
}

// spawn emits a wave of particle pairs from the top of both side walls when
// the roster is below target and the frame is on the spawn interval.
func (g *Game) spawn() {
	target := g.cfg.Particles.Count
	if g.grid.Len() >= target {
		return
	}
	if g.grid.Frame()%uint64(g.cfg.Derived.SpawnInterval) != 0 {
		return
	}

	radius := g.params.ParticleRadius
	step := g.cfg.Particles.SpawnSpacing * radius
	speed := g.cfg.Particles.SpawnSpeed
	w, h := g.world.Width, g.world.Height

	added := 0
	for j := 0; j < g.cfg.Derived.SpawnRows && g.grid.Len() <= target-2; j++ {
		y := h - float64(j+1)*step
		left := r2.Vec{X: radius, Y: y}
		right := r2.Vec{X: w - radius, Y: y}

		if _, err := g.grid.AddParticle(left, r2.Vec{X: speed}, g.spawnColor(g.grid.Len())); err != nil {
			slog.Error("spawn failed", "pos", left, "error", err)
			return
		}
		if _, err := g.grid.AddParticle(right, r2.Vec{X: -speed}, g.spawnColor(g.grid.Len())); err != nil {
			slog.Error("spawn failed", "pos", right, "error", err)
			return
		}
		added += 2
	}
	g.collector.RecordSpawn(added)

	if added > 0 && g.grid.Len() > target-2 {
		slog.Debug("spawning complete", "tick", g.tick, "particles", g.grid.Len())
	}
}

// spawnColor returns the tint for the particle that will receive id.
func (g *Game) spawnColor(id int) color.RGBA {
	if c, ok := g.painter.colorFor(id); ok {
		return c
	}
	return g.defaultColor()
}

// defaultColor returns the configured tint for new particles.
func (g *Game) defaultColor() color.RGBA {
	c := g.cfg.Particles.Color
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}

// recolor tints every particle by its speed. Painted colors are left alone.
func (g *Game) recolor() {
	if !g.cfg.Render.ColorBySpeed || g.painter.painting() {
		return
	}
	maxSpeed := g.cfg.Render.MaxSpeed
	particles := g.grid.Particles()
	for i := range particles {
		particles[i].Color = renderer.SpeedToColor(particles[i].Speed(), maxSpeed)
	}
}
