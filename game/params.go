package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/fluid/config"
)

// update applies edit to a copy of the config, validates it and, on success,
// makes it current and refreshes the physics parameters. Values take effect at
// the start of the next frame.
func (g *Game) update(edit func(*config.Config)) error {
	next := g.cfg
	edit(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	params := paramsFromConfig(&next)
	if err := params.Validate(); err != nil {
		return err
	}

	next.ComputeDerived()
	g.cfg = next
	g.params = params
	return nil
}

// SetGravity sets the downward acceleration.
func (g *Game) SetGravity(v float64) error {
	return g.update(func(c *config.Config) { c.Physics.Gravity = v })
}

// SetPressureMultiplier sets the stiffness of the pressure term.
func (g *Game) SetPressureMultiplier(v float64) error {
	return g.update(func(c *config.Config) { c.Physics.PressureMultiplier = v })
}

// SetNearPressureMultiplier sets the stiffness of the near-pressure term.
func (g *Game) SetNearPressureMultiplier(v float64) error {
	return g.update(func(c *config.Config) { c.Physics.NearPressureMultiplier = v })
}

// SetViscosityMultiplier sets the viscosity strength.
func (g *Game) SetViscosityMultiplier(v float64) error {
	return g.update(func(c *config.Config) { c.Physics.ViscosityMultiplier = v })
}

// SetRestDensity sets the density the pressure term drives toward.
func (g *Game) SetRestDensity(v float64) error {
	return g.update(func(c *config.Config) { c.Physics.RestDensity = v })
}

// SetCollisionDamping sets the velocity retained after a wall bounce.
func (g *Game) SetCollisionDamping(v float64) error {
	return g.update(func(c *config.Config) { c.Physics.CollisionDamping = v })
}

// SetParticleRadius sets the draw and wall-collision radius. Spawn rows are
// recomputed for the next wave.
func (g *Game) SetParticleRadius(v float64) error {
	return g.update(func(c *config.Config) { c.Particles.Radius = v })
}

// SetParticleCount sets the roster size the spawner aims for. Existing
// particles are kept when the target drops below the current count.
func (g *Game) SetParticleCount(n int) error {
	if err := g.update(func(c *config.Config) { c.Particles.Count = n }); err != nil {
		return err
	}
	g.painter.resizeColors(n, g.defaultColor())
	return nil
}

// SetInteractionRadius sets the reach of the mouse tool.
func (g *Game) SetInteractionRadius(v float64) error {
	return g.update(func(c *config.Config) { c.Interaction.Radius = v })
}

// SetInteractionStrength sets the magnitude of the mouse tool.
func (g *Game) SetInteractionStrength(v float64) error {
	return g.update(func(c *config.Config) { c.Interaction.Strength = v })
}

// SetInfluenceRadius sets the smoothing radius and rebuilds the grid so every
// cell stays at least one radius wide.
func (g *Game) SetInfluenceRadius(v float64) error {
	if err := g.update(func(c *config.Config) { c.Physics.InfluenceRadius = v }); err != nil {
		return err
	}

	cols, rows := g.world.CellCounts(v)
	if cols == g.grid.Cols() && rows == g.grid.Rows() {
		return nil
	}
	if err := g.grid.ChangeGrid(cols, rows); err != nil {
		return fmt.Errorf("changing grid: %w", err)
	}
	g.collector.RecordGridRebuild()
	slog.Info("grid rebuilt", "influence_radius", v, "cols", cols, "rows", rows)
	return nil
}
