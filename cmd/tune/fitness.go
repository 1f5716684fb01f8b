package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/fluid/config"
	"github.com/pthm-cable/fluid/game"
	"github.com/pthm-cable/fluid/telemetry"
)

// FitnessEvaluator runs headless simulations and scores how well the fluid
// settles at its rest density.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []uint64
	baseConfig  config.Config
	statsWindow float64

	mu          sync.Mutex
	lastDensity float64 // Mean density error from the most recent Evaluate call
	lastSpeed   float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []uint64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  *baseCfg,
		statsWindow: 0.5,
	}
}

// Last returns the density error and mean speed from the most recent evaluation.
func (fe *FitnessEvaluator) Last() (densityError, speed float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastDensity, fe.lastSpeed
}

// Fitness weights.
const (
	weightDensity   = 1.0
	weightSpeed     = 0.05 // Per world unit per second of mean speed
	weightStability = 0.5

	warmupWindows = 4               // Spawning and the initial splash
	failedFitness = math.MaxFloat32 // Runs that blow up or never fill
)

// runResult holds the window stats from a single simulation run.
type runResult struct {
	windowStats []telemetry.WindowStats
	err         error
}

// seedResult holds the score from one seed evaluation.
type seedResult struct {
	fitness float64
	density float64
	speed   float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s uint64) {
			defer wg.Done()
			r := fe.runSimulation(x, s)
			results[idx] = fe.score(r)
		}(i, seed)
	}
	wg.Wait()

	var total, density, speed float64
	for _, r := range results {
		total += r.fitness
		density += r.density
		speed += r.speed
	}
	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastDensity = density / n
	fe.lastSpeed = speed / n
	fe.mu.Unlock()

	return total / n
}

// runSimulation executes a single headless simulation run.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed uint64) *runResult {
	cfg := fe.baseConfig
	fe.params.ApplyToConfig(&cfg, x)
	cfg.ComputeDerived()

	result := &runResult{}
	g, err := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		Workers:        1, // Seeds already run in parallel
		Config:         &cfg,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		result.err = err
		return result
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
	}
	return result
}

// score reduces the post-warmup windows to a fitness. Density error
// dominates; mean speed and the spread of density error across windows
// penalise fluids that never calm down.
func (fe *FitnessEvaluator) score(r *runResult) seedResult {
	if r.err != nil || len(r.windowStats) <= warmupWindows {
		return seedResult{fitness: failedFitness}
	}
	valid := r.windowStats[warmupWindows:]

	density := make([]float64, 0, len(valid))
	speed := make([]float64, 0, len(valid))
	for _, w := range valid {
		if math.IsNaN(w.DensityError) || math.IsNaN(w.SpeedMean) || w.Particles == 0 {
			return seedResult{fitness: failedFitness}
		}
		density = append(density, w.DensityError)
		speed = append(speed, w.SpeedMean)
	}

	res := seedResult{
		density: stat.Mean(density, nil),
		speed:   stat.Mean(speed, nil),
	}
	spread := 0.0
	if len(density) >= 2 {
		spread = stat.StdDev(density, nil)
	}

	// Unfilled rosters mean the spawner was blocked.
	last := valid[len(valid)-1]
	fill := 1.0
	if last.Target > 0 {
		fill = float64(last.Particles) / float64(last.Target)
	}

	res.fitness = (weightDensity*res.density + weightSpeed*res.speed + weightStability*spread) / max(fill, 0.1)
	return res
}
