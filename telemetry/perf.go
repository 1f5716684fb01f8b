package telemetry

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/fluid/systems"
)

// Phase names for the simulation step. The pipeline phases are reported by
// the grid itself; spawn and telemetry wrap it.
const (
	PhaseSpawn     = "spawn"
	PhasePredict   = systems.PhasePredict
	PhaseDensities = systems.PhaseDensities
	PhaseForces    = systems.PhaseForces
	PhaseIntegrate = systems.PhaseIntegrate
	PhaseRebucket  = systems.PhaseRebucket
	PhaseTelemetry = "telemetry"
)

// phaseOrder lists phases in execution order. Unknown phase names are ignored.
var phaseOrder = [...]string{
	PhaseSpawn, PhasePredict, PhaseDensities, PhaseForces,
	PhaseIntegrate, PhaseRebucket, PhaseTelemetry,
}

const numPhases = len(phaseOrder)

// PhaseNames returns the phase names in execution order.
func PhaseNames() []string {
	names := phaseOrder
	return names[:]
}

func phaseIndex(phase string) int {
	for i, name := range phaseOrder {
		if name == phase {
			return i
		}
	}
	return -1
}

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       [numPhases]time.Duration
}

// PerfCollector tracks frame timings over a rolling window. It satisfies
// systems.PhaseRecorder so the grid can report its own phases.
type PerfCollector struct {
	samples     []PerfSample
	writeIndex  int
	sampleCount int

	current    PerfSample
	tickStart  time.Time
	phaseStart time.Time
	lastPhase  int // -1 when no phase is open

	// Render loop timing
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		samples:   make([]PerfSample, windowSize),
		lastPhase: -1,
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = PerfSample{}
	p.lastPhase = -1
}

// StartPhase closes the open phase, if any, and starts timing the named one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.lastPhase = phaseIndex(phase)
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.lastPhase >= 0 {
		p.current.Phases[p.lastPhase] += now.Sub(p.phaseStart)
	}
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.lastPhase = -1
	p.current.TickDuration = now.Sub(p.tickStart)

	p.samples[p.writeIndex] = p.current
	p.writeIndex = (p.writeIndex + 1) % len(p.samples)
	if p.sampleCount < len(p.samples) {
		p.sampleCount++
	}
}

// RecordFrame records render loop timing.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// Reset discards every recorded sample.
func (p *PerfCollector) Reset() {
	clear(p.samples)
	p.writeIndex = 0
	p.sampleCount = 0
	p.lastPhase = -1
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Average duration and share of tick time, keyed by phase name
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		stats.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.sampleCount == 0 {
		return stats
	}

	ticks := make([]float64, p.sampleCount)
	var phaseSum [numPhases]time.Duration
	for i, s := range p.samples[:p.sampleCount] {
		ticks[i] = float64(s.TickDuration)
		for j, d := range s.Phases {
			phaseSum[j] += d
		}
	}

	n := time.Duration(p.sampleCount)
	stats.AvgTickDuration = time.Duration(floats.Sum(ticks)) / n
	stats.MinTickDuration = time.Duration(floats.Min(ticks))
	stats.MaxTickDuration = time.Duration(floats.Max(ticks))

	for j, sum := range phaseSum {
		if sum == 0 {
			continue
		}
		avg := sum / n
		stats.PhaseAvg[phaseOrder[j]] = avg
		if stats.AvgTickDuration > 0 {
			stats.PhasePct[phaseOrder[j]] = float64(avg) / float64(stats.AvgTickDuration) * 100
		}
	}
	if stats.AvgTickDuration > 0 {
		stats.TicksPerSecond = float64(time.Second) / float64(stats.AvgTickDuration)
	}

	return stats
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}

	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	Particles    int     `csv:"particles"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	SpawnPct     float64 `csv:"spawn_pct"`
	PredictPct   float64 `csv:"predict_pct"`
	DensitiesPct float64 `csv:"densities_pct"`
	ForcesPct    float64 `csv:"forces_pct"`
	IntegratePct float64 `csv:"integrate_pct"`
	RebucketPct  float64 `csv:"rebucket_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32, particles int) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		Particles:    particles,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		SpawnPct:     s.PhasePct[PhaseSpawn],
		PredictPct:   s.PhasePct[PhasePredict],
		DensitiesPct: s.PhasePct[PhaseDensities],
		ForcesPct:    s.PhasePct[PhaseForces],
		IntegratePct: s.PhasePct[PhaseIntegrate],
		RebucketPct:  s.PhasePct[PhaseRebucket],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
