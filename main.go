package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fluid/config"
	"github.com/pthm-cable/fluid/game"
	"github.com/pthm-cable/fluid/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	recordDir := flag.String("record-dir", "", "Directory for painter animation frames (windowed only)")
	restorePath := flag.String("restore", "", "Snapshot file to resume from")
	seed := flag.Uint64("seed", 0, "Seed for coincident-particle directions (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")
	workers := flag.Int("workers", 0, "Physics worker goroutines (0 = use config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = uint64(time.Now().UnixNano())
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
		RecordDir:      *recordDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
		Workers:        *workers,
	}

	if *headless {
		// Headless mode - pure CPU simulation, no raylib needed
		g := mustCreate(opts, *restorePath)
		defer g.Unload()

		slog.Info("starting headless simulation",
			"seed", g.Seed(),
			"stats_window", *statsWindow,
			"max_ticks", *maxTicks,
			"steps_per_update", *stepsPerUpdate,
		)

		for {
			g.UpdateHeadless()

			if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
				slog.Info("max ticks reached", "tick", g.Tick())
				return
			}
		}
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Fluid")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := mustCreate(opts, *restorePath)
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}

// mustCreate builds the game and optionally resumes it from a snapshot.
func mustCreate(opts game.Options, restorePath string) *game.Game {
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	if restorePath == "" {
		return g
	}

	snap, err := telemetry.LoadSnapshot(restorePath)
	if err != nil {
		g.Unload()
		slog.Error("failed to load snapshot", "path", restorePath, "error", err)
		os.Exit(1)
	}
	if err := g.RestoreSnapshot(snap); err != nil {
		g.Unload()
		slog.Error("failed to restore snapshot", "path", restorePath, "error", err)
		os.Exit(1)
	}
	return g
}
