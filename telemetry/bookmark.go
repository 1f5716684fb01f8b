package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkRosterFull  BookmarkType = "roster_full"
	BookmarkSplash      BookmarkType = "splash"
	BookmarkCompression BookmarkType = "compression"
	BookmarkSettled     BookmarkType = "settled"
	BookmarkInstability BookmarkType = "instability"
)

// Detection thresholds.
const (
	splashFactor       = 2.5  // Max speed over rolling average
	splashMinSpeed     = 2.0  // World units per second
	compressionFactor  = 1.5  // Density p90 over rolling average
	settledSpeed       = 0.05 // Mean speed considered at rest
	settledWindows     = 5
	instabilitySpeed   = 100.0
	minDetectorHistory = 5
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int32        `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historyIdx  int
	historyFull bool

	rosterFull    bool // roster_full already reported since the last reset
	settledCount  int  // consecutive windows below settledSpeed
	settledFired  bool
	unstableFired bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	historySize = max(historySize, minDetectorHistory)
	return &BookmarkDetector{
		history: make([]WindowStats, historySize),
	}
}

// Reset forgets history after the simulation restarts.
func (bd *BookmarkDetector) Reset() {
	clear(bd.history)
	bd.historyIdx = 0
	bd.historyFull = false
	bd.rosterFull = false
	bd.settledCount = 0
	bd.settledFired = false
	bd.unstableFired = false
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	checks := []func(WindowStats) *Bookmark{
		bd.checkRosterFull,
		bd.checkSplash,
		bd.checkCompression,
		bd.checkSettled,
		bd.checkInstability,
	}
	for _, check := range checks {
		if b := check(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % len(bd.history)
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// rollingMean averages field over the stored history.
func (bd *BookmarkDetector) rollingMean(field func(WindowStats) float64) (float64, bool) {
	history := bd.getHistory()
	if len(history) < 3 {
		return 0, false
	}
	var sum float64
	for _, h := range history {
		sum += field(h)
	}
	return sum / float64(len(history)), true
}

func (bd *BookmarkDetector) checkRosterFull(stats WindowStats) *Bookmark {
	if bd.rosterFull || stats.Target == 0 || stats.Particles < stats.Target {
		return nil
	}
	bd.rosterFull = true
	return &Bookmark{
		Type:        BookmarkRosterFull,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Roster reached target of %d particles", stats.Target),
	}
}

func (bd *BookmarkDetector) checkSplash(stats WindowStats) *Bookmark {
	avg, ok := bd.rollingMean(func(h WindowStats) float64 { return h.SpeedMax })
	if !ok || avg == 0 {
		return nil
	}
	if stats.SpeedMax > avg*splashFactor && stats.SpeedMax > splashMinSpeed {
		return &Bookmark{
			Type:        BookmarkSplash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Max speed %.2f is %.1fx average (%.2f)", stats.SpeedMax, stats.SpeedMax/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkCompression(stats WindowStats) *Bookmark {
	avg, ok := bd.rollingMean(func(h WindowStats) float64 { return h.DensityP90 })
	if !ok || avg == 0 {
		return nil
	}
	if stats.DensityP90 > avg*compressionFactor {
		return &Bookmark{
			Type:        BookmarkCompression,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Density p90 %.1f is %.1fx average (%.1f)", stats.DensityP90, stats.DensityP90/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	if stats.Particles == 0 || stats.SpeedMean >= settledSpeed {
		bd.settledCount = 0
		bd.settledFired = false
		return nil
	}

	bd.settledCount++
	if bd.settledCount < settledWindows || bd.settledFired {
		return nil
	}
	bd.settledFired = true
	return &Bookmark{
		Type:        BookmarkSettled,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d particles at rest for %d windows", stats.Particles, settledWindows),
	}
}

func (bd *BookmarkDetector) checkInstability(stats WindowStats) *Bookmark {
	if bd.unstableFired || stats.SpeedMax <= instabilitySpeed {
		return nil
	}
	bd.unstableFired = true
	return &Bookmark{
		Type:        BookmarkInstability,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Max speed %.1f exceeds %.0f, the step is likely too large", stats.SpeedMax, instabilitySpeed),
	}
}
