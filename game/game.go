// Package game owns a running fluid simulation: parameters, spawning,
// telemetry, the painter workflow and the interactive viewer.
package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/fluid/camera"
	"github.com/pthm-cable/fluid/components"
	"github.com/pthm-cable/fluid/config"
	"github.com/pthm-cable/fluid/renderer"
	"github.com/pthm-cable/fluid/systems"
	"github.com/pthm-cable/fluid/telemetry"
	"github.com/pthm-cable/fluid/ui"
)

// Options configures game initialization.
type Options struct {
	Seed           uint64
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	SnapshotDir    string
	OutputDir      string
	RecordDir      string // Painter animation frames, windowed mode only
	Headless       bool
	StepsPerUpdate int
	Workers        int            // 0 = use config
	Config         *config.Config // nil = config.Cfg()
	StatsCallback  func(telemetry.WindowStats)
}

// Game holds the complete simulation state.
type Game struct {
	cfg    config.Config // Owned copy, edited by the setters
	world  systems.World
	params systems.Params // The grid holds a pointer to this
	grid   *systems.Grid
	seed   uint64

	interaction components.Interaction

	// State
	tick           int32
	paused         bool
	stepsPerUpdate int
	headless       bool
	showGrid       bool
	showPanel      bool
	stepped        bool // A step ran during the last Update

	painter painter

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	logStats         bool
	snapshotDir      string
	lastStats        telemetry.WindowStats

	// Rendering (nil when headless)
	camera           *camera.Camera
	particleRenderer *renderer.ParticleRenderer
	hud              *ui.HUD
	controls         *ui.ControlsPanel
	perfPanel        *ui.PerfPanel
	screenWidth      float32
	screenHeight     float32
	dragging         bool // Moving the painter image
	recordDir        string
	recording        bool
	recordedFrames   int
}

// NewGameWithOptions creates a simulation from the loaded configuration.
// Windowed mode must be called after the raylib window exists.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	g := &Game{
		cfg:            *cfg,
		seed:           opts.Seed,
		stepsPerUpdate: max(opts.StepsPerUpdate, 1),
		headless:       opts.Headless,
		showGrid:       cfg.Render.ShowGrid,
		showPanel:      cfg.Render.ShowPanel,
		statsCallback:  opts.StatsCallback,
		logStats:       opts.LogStats,
		snapshotDir:    opts.SnapshotDir,
		recordDir:      opts.RecordDir,
	}
	if opts.Workers > 0 {
		g.cfg.Parallel.Workers = opts.Workers
	}
	g.world = systems.World{Width: g.cfg.World.Width, Height: g.cfg.World.Height}
	g.params = paramsFromConfig(&g.cfg)
	g.painter.reset(g.cfg.Particles.Count, g.defaultColor())

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = g.cfg.Telemetry.StatsWindow
	}
	g.collector = telemetry.NewCollector(statsWindow, g.cfg.Physics.DT)
	g.perfCollector = telemetry.NewPerfCollector(g.cfg.Telemetry.PerfCollectorWindow)
	g.bookmarkDetector = telemetry.NewBookmarkDetector(10)

	grid, err := g.newGrid()
	if err != nil {
		return nil, err
	}
	g.grid = grid

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		g.grid.Close()
		return nil, fmt.Errorf("output manager: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(&g.cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	if !g.headless {
		g.initViewer()
	}

	slog.Info("simulation created",
		"seed", g.seed,
		"world", g.world,
		"cols", grid.Cols(),
		"rows", grid.Rows(),
		"target", g.cfg.Particles.Count,
		"headless", g.headless,
	)
	return g, nil
}

// paramsFromConfig extracts the physics scalars the grid reads each frame.
func paramsFromConfig(cfg *config.Config) systems.Params {
	return systems.Params{
		Gravity:                cfg.Physics.Gravity,
		CollisionDamping:       cfg.Physics.CollisionDamping,
		RestDensity:            cfg.Physics.RestDensity,
		PressureMultiplier:     cfg.Physics.PressureMultiplier,
		NearPressureMultiplier: cfg.Physics.NearPressureMultiplier,
		ViscosityMultiplier:    cfg.Physics.ViscosityMultiplier,
		InfluenceRadius:        cfg.Physics.InfluenceRadius,
		ParticleRadius:         cfg.Particles.Radius,
	}
}

// newGrid builds an empty grid sized for the current influence radius.
func (g *Game) newGrid() (*systems.Grid, error) {
	cols, rows := g.world.CellCounts(g.params.InfluenceRadius)
	return g.newGridWithLayout(cols, rows, g.seed)
}

func (g *Game) newGridWithLayout(cols, rows int, seed uint64) (*systems.Grid, error) {
	grid, err := systems.NewGrid(cols, rows, g.world, &g.params, systems.GridOptions{
		Workers:           g.cfg.Parallel.Workers,
		ParallelThreshold: g.cfg.Parallel.Threshold,
		Seed:              seed,
		Recorder:          g.perfCollector,
	})
	if err != nil {
		return nil, fmt.Errorf("creating grid: %w", err)
	}
	return grid, nil
}

// Reset discards every particle and restarts from an empty grid. Particle IDs
// and the frame counter start again at 0.
func (g *Game) Reset() error {
	grid, err := g.newGrid()
	if err != nil {
		return err
	}
	g.grid.Close()
	g.grid = grid
	g.tick = 0

	g.collector.RecordReset(g.tick)
	g.bookmarkDetector.Reset()
	g.perfCollector.Reset()

	slog.Info("simulation reset", "seed", g.seed, "cols", grid.Cols(), "rows", grid.Rows())
	return nil
}

// UpdateHeadless runs simulation steps without rendering.
func (g *Game) UpdateHeadless() {
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate && !g.paused; i++ {
		g.Step()
	}
}

// Unload stops the workers and closes output files.
func (g *Game) Unload() {
	if g.grid != nil {
		g.grid.Close()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// Tick returns the number of steps since the last reset.
func (g *Game) Tick() int32 {
	return g.tick
}

// Frame returns the grid's frame counter.
func (g *Game) Frame() uint64 {
	return g.grid.Frame()
}

// Grid returns the live grid.
func (g *Game) Grid() *systems.Grid {
	return g.grid
}

// Params returns a copy of the current physics parameters.
func (g *Game) Params() systems.Params {
	return g.params
}

// Config returns the game's own copy of the configuration.
func (g *Game) Config() *config.Config {
	return &g.cfg
}

// Seed returns the seed of the coincident-particle direction stream.
func (g *Game) Seed() uint64 {
	return g.seed
}

// Paused reports whether stepping is suspended.
func (g *Game) Paused() bool {
	return g.paused
}

// SetPaused suspends or resumes stepping.
func (g *Game) SetPaused(paused bool) {
	g.paused = paused
}

// LastStats returns the most recently flushed telemetry window.
func (g *Game) LastStats() telemetry.WindowStats {
	return g.lastStats
}
