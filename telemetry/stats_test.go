package telemetry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/fluid/components"
)

func TestSummarize(t *testing.T) {
	values := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	d := Summarize(values)

	if math.Abs(d.Mean-5.5) > 1e-12 {
		t.Errorf("mean = %v, want 5.5", d.Mean)
	}
	// Population std of 1..10 is sqrt(8.25).
	if math.Abs(d.Std-math.Sqrt(8.25)) > 1e-12 {
		t.Errorf("std = %v, want %v", d.Std, math.Sqrt(8.25))
	}
	if d.P10 != 1 || d.P50 != 5 || d.P90 != 9 {
		t.Errorf("deciles = (%v, %v, %v), want (1, 5, 9)", d.P10, d.P50, d.P90)
	}
	if values[0] != 10 {
		t.Error("Summarize reordered its input")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if d := Summarize(nil); d != (Distribution{}) {
		t.Errorf("Summarize(nil) = %+v, want zero", d)
	}
}

func TestSampleParticlesFill(t *testing.T) {
	particles := []components.Particle{
		{Vel: r2.Vec{X: 3, Y: 4}, Density: 100, NearDensity: 2},
		{Vel: r2.Vec{}, Density: 140, NearDensity: 4},
	}

	var stats WindowStats
	sampleParticles(particles).fill(&stats, 120)

	if stats.DensityMean != 120 {
		t.Errorf("DensityMean = %v, want 120", stats.DensityMean)
	}
	if stats.NearDensityMean != 3 {
		t.Errorf("NearDensityMean = %v, want 3", stats.NearDensityMean)
	}
	// |100-120| and |140-120| average to 20; 20/120.
	if math.Abs(stats.DensityError-20.0/120) > 1e-12 {
		t.Errorf("DensityError = %v, want %v", stats.DensityError, 20.0/120)
	}
	if stats.SpeedMean != 2.5 || stats.SpeedMax != 5 {
		t.Errorf("speed mean/max = %v/%v, want 2.5/5", stats.SpeedMean, stats.SpeedMax)
	}
	if stats.KineticEnergy != 12.5 {
		t.Errorf("KineticEnergy = %v, want 12.5", stats.KineticEnergy)
	}
}

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(1.0, 0.01)
	if c.WindowDurationTicks() != 100 {
		t.Fatalf("WindowDurationTicks = %d, want 100", c.WindowDurationTicks())
	}
	if c.ShouldFlush(99) {
		t.Error("ShouldFlush(99) = true")
	}
	if !c.ShouldFlush(100) {
		t.Error("ShouldFlush(100) = false")
	}

	c.RecordSpawn(20)
	c.RecordSpawn(20)
	c.RecordBounces(3)
	c.RecordGridRebuild()

	particles := []components.Particle{{Density: 120}, {Density: 120}}
	stats := c.Flush(100, particles, 1000, 120)

	if stats.Spawned != 40 || stats.Bounces != 3 || stats.GridRebuilds != 1 {
		t.Errorf("counters = %+v", stats)
	}
	if stats.Particles != 2 || stats.Target != 1000 {
		t.Errorf("roster = %d/%d, want 2/1000", stats.Particles, stats.Target)
	}
	if math.Abs(stats.SimTimeSec-1) > 1e-12 {
		t.Errorf("SimTimeSec = %v, want 1", stats.SimTimeSec)
	}
	if stats.DensityError != 0 {
		t.Errorf("DensityError = %v, want 0", stats.DensityError)
	}

	next := c.Flush(200, nil, 1000, 120)
	if next.Spawned != 0 || next.WindowStartTick != 100 {
		t.Errorf("counters not reset: %+v", next)
	}
}

func TestCollectorResetRestartsWindow(t *testing.T) {
	c := NewCollector(1.0, 0.01)
	c.RecordSpawn(5)
	c.RecordReset(40)

	if c.ShouldFlush(100) {
		t.Error("window did not restart at reset tick")
	}
	stats := c.Flush(140, nil, 10, 120)
	if stats.Resets != 1 || stats.WindowStartTick != 40 {
		t.Errorf("stats = %+v", stats)
	}
}
