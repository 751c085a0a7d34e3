// Package store holds the in-memory collection of timestamped readings and
// exports it as CSV.
package store

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"time"
)

// TimestampLayout is the wall-clock format used for exported rows.
const TimestampLayout = "2006-01-02 15:04:05"

// Header is the column layout of every export.
var Header = []string{"timestamp", "x", "y", "z", "distance_mm"}

// Reading is a single timestamped measurement. x/y/z are acceleration in
// m/s²; distance is millimeters and absent when no rangefinder is fitted.
// Readings are immutable once created.
type Reading struct {
	Timestamp   time.Time
	X, Y, Z     float64
	DistanceMM  float64
	HasDistance bool
}

// Store is an append-only ordered collection of readings. It is owned by the
// coordinator and mutated only within a tick, so it needs no locking. It is
// cleared only by process restart.
type Store struct {
	readings []Reading
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// Append adds a reading in arrival order. It never fails and never evicts.
func (s *Store) Append(r Reading) {
	s.readings = append(s.readings, r)
}

// Len returns the number of readings held.
func (s *Store) Len() int { return len(s.readings) }

// IsEmpty reports whether the store holds no readings, letting callers skip
// no-op exports.
func (s *Store) IsEmpty() bool { return len(s.readings) == 0 }

// Snapshot returns a copy of the readings at call time.
func (s *Store) Snapshot() []Reading {
	out := make([]Reading, len(s.readings))
	copy(out, s.readings)
	return out
}

// Export writes the full ordered contents to path as CSV and returns the
// number of data rows written. A failure mid-write leaves the destination in
// an unspecified state but never touches the in-memory readings; the store
// can be exported again.
func (s *Store) Export(path string) (int, error) {
	rows := s.Snapshot()

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("export create %s: %w", path, err)
	}

	bw := bufio.NewWriter(f)
	cw := csv.NewWriter(bw)

	if err := cw.Write(Header); err != nil {
		f.Close()
		return 0, fmt.Errorf("export write header: %w", err)
	}

	for i, r := range rows {
		if err := cw.Write(formatRow(r)); err != nil {
			f.Close()
			return 0, fmt.Errorf("export write row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return 0, fmt.Errorf("export flush: %w", err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return 0, fmt.Errorf("export flush: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("export close: %w", err)
	}

	return len(rows), nil
}

// formatRow serializes one reading: local wall-clock timestamp, fixed
// precision numerics, empty string for an absent distance.
func formatRow(r Reading) []string {
	distance := ""
	if r.HasDistance {
		distance = fmt.Sprintf("%.1f", r.DistanceMM)
	}
	return []string{
		r.Timestamp.Format(TimestampLayout),
		fmt.Sprintf("%.3f", r.X),
		fmt.Sprintf("%.3f", r.Y),
		fmt.Sprintf("%.3f", r.Z),
		distance,
	}
}
