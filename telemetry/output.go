package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/fluid/config"
)

// csvSink appends records of one type to a CSV file, writing the header once.
type csvSink[T any] struct {
	name          string
	file          *os.File
	headerWritten bool
}

func openSink[T any](dir, name string) (*csvSink[T], error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvSink[T]{name: name, file: f}, nil
}

func (s *csvSink[T]) write(record T) error {
	records := []T{record}
	if !s.headerWritten {
		if err := gocsv.Marshal(records, s.file); err != nil {
			return fmt.Errorf("writing %s: %w", s.name, err)
		}
		s.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, s.file); err != nil {
		return fmt.Errorf("writing %s: %w", s.name, err)
	}
	return nil
}

func (s *csvSink[T]) close() error {
	if s == nil || s.file == nil {
		return nil
	}
	return s.file.Close()
}

// OutputManager writes run output: telemetry, perf and bookmark CSVs plus the
// effective config. A nil manager discards everything.
type OutputManager struct {
	dir       string
	telemetry *csvSink[WindowStats]
	perf      *csvSink[PerfStatsCSV]
	bookmarks *csvSink[Bookmark]
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	var err error
	if om.telemetry, err = openSink[WindowStats](dir, "telemetry.csv"); err != nil {
		return nil, err
	}
	if om.perf, err = openSink[PerfStatsCSV](dir, "perf.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if om.bookmarks, err = openSink[Bookmark](dir, "bookmarks.csv"); err != nil {
		om.Close()
		return nil, err
	}
	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry appends a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return om.telemetry.write(stats)
}

// WritePerf appends a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32, particles int) error {
	if om == nil {
		return nil
	}
	return om.perf.write(stats.ToCSV(windowEnd, particles))
}

// WriteBookmark appends a bookmark record to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	return om.bookmarks.write(b)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return errors.Join(om.telemetry.close(), om.perf.close(), om.bookmarks.close())
}
