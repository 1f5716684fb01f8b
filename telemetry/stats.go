package telemetry

import (
	"log/slog"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/fluid/components"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Roster at window end
	Particles int `csv:"particles"`
	Target    int `csv:"target"`

	// Events during window
	Spawned      int `csv:"spawned"`
	Bounces      int `csv:"bounces"`
	GridRebuilds int `csv:"grid_rebuilds"`
	Resets       int `csv:"resets"`

	// Density distribution (sampled at window end)
	DensityMean     float64 `csv:"density_mean"`
	DensityStd      float64 `csv:"density_std"`
	DensityP10      float64 `csv:"density_p10"`
	DensityP50      float64 `csv:"density_p50"`
	DensityP90      float64 `csv:"density_p90"`
	DensityError    float64 `csv:"density_error"` // Mean |density - rest| / rest
	NearDensityMean float64 `csv:"near_density_mean"`

	// Motion
	SpeedMean     float64 `csv:"speed_mean"`
	SpeedMax      float64 `csv:"speed_max"`
	KineticEnergy float64 `csv:"kinetic_energy"` // Unit mass per particle
}

// Distribution summarises a sample of values.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Summarize computes the population mean, standard deviation and empirical
// deciles of values. The input is not modified.
func Summarize(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	var d Distribution
	d.Mean, d.Std = stat.PopMeanStdDev(values, nil)

	sorted := slices.Clone(values)
	slices.Sort(sorted)
	d.P10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	d.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	d.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return d
}

// particleSample holds per-particle values gathered for one flush.
type particleSample struct {
	density, near, speed []float64
}

func sampleParticles(particles []components.Particle) particleSample {
	s := particleSample{
		density: make([]float64, len(particles)),
		near:    make([]float64, len(particles)),
		speed:   make([]float64, len(particles)),
	}
	for i := range particles {
		p := &particles[i]
		s.density[i] = p.Density
		s.near[i] = p.NearDensity
		s.speed[i] = p.Speed()
	}
	return s
}

// fill computes the distribution fields of stats from a particle sample.
func (s particleSample) fill(stats *WindowStats, restDensity float64) {
	if len(s.density) == 0 {
		return
	}

	dens := Summarize(s.density)
	stats.DensityMean = dens.Mean
	stats.DensityStd = dens.Std
	stats.DensityP10 = dens.P10
	stats.DensityP50 = dens.P50
	stats.DensityP90 = dens.P90
	stats.NearDensityMean = stat.Mean(s.near, nil)

	if restDensity > 0 {
		var errSum float64
		for _, d := range s.density {
			errSum += math.Abs(d - restDensity)
		}
		stats.DensityError = errSum / float64(len(s.density)) / restDensity
	}

	stats.SpeedMean = stat.Mean(s.speed, nil)
	stats.SpeedMax = floats.Max(s.speed)
	stats.KineticEnergy = 0.5 * floats.Dot(s.speed, s.speed)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("particles", s.Particles),
		slog.Int("target", s.Target),
		slog.Int("spawned", s.Spawned),
		slog.Int("bounces", s.Bounces),
		slog.Int("grid_rebuilds", s.GridRebuilds),
		slog.Int("resets", s.Resets),
		slog.Float64("density_mean", s.DensityMean),
		slog.Float64("density_std", s.DensityStd),
		slog.Float64("density_p10", s.DensityP10),
		slog.Float64("density_p50", s.DensityP50),
		slog.Float64("density_p90", s.DensityP90),
		slog.Float64("density_error", s.DensityError),
		slog.Float64("near_density_mean", s.NearDensityMean),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("kinetic_energy", s.KineticEnergy),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"particles", s.Particles,
		"spawned", s.Spawned,
		"bounces", s.Bounces,
		"density_mean", s.DensityMean,
		"density_p90", s.DensityP90,
		"density_error", s.DensityError,
		"speed_mean", s.SpeedMean,
		"speed_max", s.SpeedMax,
		"kinetic_energy", s.KineticEnergy,
	)
}
