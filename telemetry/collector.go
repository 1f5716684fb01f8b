package telemetry

import "github.com/pthm-cable/fluid/components"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float64

	windowStartTick int32

	// Event counters for current window
	spawned      int
	bounces      int
	gridRebuilds int
	resets       int
}

// NewCollector creates a collector whose windows last windowDurationSec of
// simulated time at dt seconds per tick.
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticks := int32(1)
	if dt > 0 {
		ticks = max(int32(windowDurationSec/dt), 1)
	}
	return &Collector{
		windowDurationTicks: ticks,
		dt:                  dt,
	}
}

// RecordSpawn records n particles added by the spawner.
func (c *Collector) RecordSpawn(n int) {
	c.spawned += n
}

// RecordBounces records wall collisions from one frame.
func (c *Collector) RecordBounces(n int) {
	c.bounces += n
}

// RecordGridRebuild records a change of grid topology.
func (c *Collector) RecordGridRebuild() {
	c.gridRebuilds++
}

// RecordReset records a simulation reset. The window restarts at tick.
func (c *Collector) RecordReset(tick int32) {
	c.resets++
	c.windowStartTick = tick
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// particles is sampled as-is; target is the roster size the spawner aims for.
func (c *Collector) Flush(currentTick int32, particles []components.Particle, target int, restDensity float64) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Particles: len(particles),
		Target:    target,

		Spawned:      c.spawned,
		Bounces:      c.bounces,
		GridRebuilds: c.gridRebuilds,
		Resets:       c.resets,
	}
	sampleParticles(particles).fill(&stats, restDensity)

	c.windowStartTick = currentTick
	c.spawned = 0
	c.bounces = 0
	c.gridRebuilds = 0
	c.resets = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
