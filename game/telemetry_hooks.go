package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/fluid/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.grid.Particles(), g.cfg.Particles.Count, g.params.RestDensity)
	perfStats := g.perfCollector.Stats()
	g.lastStats = stats

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick, stats.Particles); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	// Check for bookmarks
	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// saveSnapshot creates and saves a snapshot to disk.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	path, err := telemetry.SaveSnapshot(g.CreateSnapshot(bookmark), g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}

// SaveSnapshot writes the current state to the snapshot directory, or to dir
// when no snapshot directory was configured.
func (g *Game) SaveSnapshot(dir string) (string, error) {
	if g.snapshotDir != "" {
		dir = g.snapshotDir
	}
	return telemetry.SaveSnapshot(g.CreateSnapshot(nil), dir)
}

// CreateSnapshot builds a snapshot from the current state.
func (g *Game) CreateSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snapshot := &telemetry.Snapshot{
		Version:  telemetry.SnapshotVersion,
		Params:   g.params,
		Tick:     g.tick,
		Bookmark: bookmark,
	}
	snapshot.CaptureGrid(g.grid)
	return snapshot
}

// RestoreSnapshot replaces the running state with a snapshot. The snapshot's
// parameters become current; stepping continues exactly as the captured run
// would have.
func (g *Game) RestoreSnapshot(s *telemetry.Snapshot) error {
	if s.World != g.world {
		return fmt.Errorf("snapshot world %vx%v, simulation world %vx%v",
			s.World.Width, s.World.Height, g.world.Width, g.world.Height)
	}
	if err := s.Params.Validate(); err != nil {
		return fmt.Errorf("snapshot params: %w", err)
	}

	prev := g.params
	g.params = s.Params
	grid, err := g.newGridWithLayout(s.Cols, s.Rows, s.Seed)
	if err != nil {
		g.params = prev
		return err
	}
	if err := grid.Restore(s.RestoredParticles(), s.Buckets, s.Frame); err != nil {
		grid.Close()
		g.params = prev
		return fmt.Errorf("restoring snapshot: %w", err)
	}

	g.grid.Close()
	g.grid = grid
	g.seed = s.Seed
	g.tick = s.Tick
	g.syncConfigFromParams()

	g.collector.RecordReset(g.tick)
	g.bookmarkDetector.Reset()
	g.perfCollector.Reset()

	slog.Info("snapshot restored", "tick", s.Tick, "frame", s.Frame, "particles", grid.Len())
	return nil
}

// syncConfigFromParams copies the physics parameters back into the config so
// later setters start from the restored values.
func (g *Game) syncConfigFromParams() {
	p := &g.params
	g.cfg.Physics.Gravity = p.Gravity
	g.cfg.Physics.CollisionDamping = p.CollisionDamping
	g.cfg.Physics.RestDensity = p.RestDensity
	g.cfg.Physics.PressureMultiplier = p.PressureMultiplier
	g.cfg.Physics.NearPressureMultiplier = p.NearPressureMultiplier
	g.cfg.Physics.ViscosityMultiplier = p.ViscosityMultiplier
	g.cfg.Physics.InfluenceRadius = p.InfluenceRadius
	g.cfg.Particles.Radius = p.ParticleRadius
	g.cfg.ComputeDerived()
}
