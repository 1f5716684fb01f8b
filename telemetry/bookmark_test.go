package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, kind BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == kind {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_RosterFull(t *testing.T) {
	bd := NewBookmarkDetector(10)

	if bms := bd.Check(WindowStats{Particles: 500, Target: 1000}); hasBookmark(bms, BookmarkRosterFull) {
		t.Error("roster_full before target reached")
	}
	if bms := bd.Check(WindowStats{Particles: 1000, Target: 1000}); !hasBookmark(bms, BookmarkRosterFull) {
		t.Error("expected roster_full bookmark")
	}
	if bms := bd.Check(WindowStats{Particles: 1000, Target: 1000}); hasBookmark(bms, BookmarkRosterFull) {
		t.Error("roster_full reported twice")
	}

	bd.Reset()
	if bms := bd.Check(WindowStats{Particles: 1000, Target: 1000}); !hasBookmark(bms, BookmarkRosterFull) {
		t.Error("expected roster_full again after reset")
	}
}

func TestBookmarkDetector_Splash(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 100), Particles: 100, SpeedMax: 1.5, SpeedMean: 0.5})
	}

	bms := bd.Check(WindowStats{WindowEndTick: 500, Particles: 100, SpeedMax: 6, SpeedMean: 1})
	if !hasBookmark(bms, BookmarkSplash) {
		t.Error("expected splash bookmark")
	}
}

func TestBookmarkDetector_SplashNeedsHistory(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(WindowStats{SpeedMax: 1})

	if bms := bd.Check(WindowStats{SpeedMax: 10}); hasBookmark(bms, BookmarkSplash) {
		t.Error("splash reported with too little history")
	}
}

func TestBookmarkDetector_Compression(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 4; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 100), Particles: 100, DensityP90: 130})
	}

	bms := bd.Check(WindowStats{WindowEndTick: 400, Particles: 100, DensityP90: 260})
	if !hasBookmark(bms, BookmarkCompression) {
		t.Error("expected compression bookmark")
	}
}

func TestBookmarkDetector_Settled(t *testing.T) {
	bd := NewBookmarkDetector(10)

	fired := 0
	for i := 0; i < 12; i++ {
		bms := bd.Check(WindowStats{WindowEndTick: int32(i * 100), Particles: 100, SpeedMean: 0.01, SpeedMax: 0.02})
		if hasBookmark(bms, BookmarkSettled) {
			fired++
			if i != settledWindows-1 {
				t.Errorf("settled fired at window %d, want %d", i, settledWindows-1)
			}
		}
	}
	if fired != 1 {
		t.Errorf("settled fired %d times, want 1", fired)
	}

	// Motion rearms the detector.
	bd.Check(WindowStats{Particles: 100, SpeedMean: 2, SpeedMax: 3})
	fired = 0
	for i := 0; i < settledWindows; i++ {
		if hasBookmark(bd.Check(WindowStats{Particles: 100, SpeedMean: 0.01}), BookmarkSettled) {
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("settled fired %d times after rearm, want 1", fired)
	}
}

func TestBookmarkDetector_Instability(t *testing.T) {
	bd := NewBookmarkDetector(10)

	if bms := bd.Check(WindowStats{Particles: 10, SpeedMax: 250}); !hasBookmark(bms, BookmarkInstability) {
		t.Error("expected instability bookmark")
	}
	if bms := bd.Check(WindowStats{Particles: 10, SpeedMax: 300}); hasBookmark(bms, BookmarkInstability) {
		t.Error("instability reported twice")
	}
}
